package color

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	FindByName(db *gorm.DB, name string) (*Color, error)
	FindByID(db *gorm.DB, id uint) (*Color, error)
	ListAll(db *gorm.DB) ([]Color, error)
	Save(db *gorm.DB, c *Color) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Name lookup is case-insensitive, matching how duplicates are rejected.
func (r *repositoryImpl) FindByName(db *gorm.DB, name string) (*Color, error) {
	var c Color
	err := db.Where("LOWER(color_name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&c).Error
	return &c, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Color, error) {
	var c Color
	err := db.First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Color, error) {
	var colors []Color
	err := db.Order("created_at DESC").Find(&colors).Error
	return colors, err
}

func (r *repositoryImpl) Save(db *gorm.DB, c *Color) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Color{}, id).Error
}
