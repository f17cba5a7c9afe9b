package category

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	FindByName(db *gorm.DB, name string) (*Category, error)
	FindByID(db *gorm.DB, id uint) (*Category, error)
	ListAll(db *gorm.DB) ([]Category, error)
	Save(db *gorm.DB, c *Category) error
	Delete(db *gorm.DB, id uint) error

	FindSubByID(db *gorm.DB, id uint) (*SubCategory, error)
	ListSubByCategory(db *gorm.DB, categoryID uint) ([]SubCategory, error)
	ListAllSub(db *gorm.DB) ([]SubCategory, error)
	SaveSub(db *gorm.DB, s *SubCategory) error
	DeleteSub(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Name lookup is case-insensitive, matching how duplicates are rejected.
func (r *repositoryImpl) FindByName(db *gorm.DB, name string) (*Category, error) {
	var c Category
	err := db.Where("LOWER(category_name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&c).Error
	return &c, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Category, error) {
	var c Category
	err := db.Preload("SubCategories").First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Category, error) {
	var cats []Category
	err := db.Preload("SubCategories").Order("created_at DESC").Find(&cats).Error
	return cats, err
}

func (r *repositoryImpl) Save(db *gorm.DB, c *Category) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Category{}, id).Error
}

func (r *repositoryImpl) FindSubByID(db *gorm.DB, id uint) (*SubCategory, error) {
	var s SubCategory
	err := db.First(&s, id).Error
	return &s, err
}

func (r *repositoryImpl) ListSubByCategory(db *gorm.DB, categoryID uint) ([]SubCategory, error) {
	var subs []SubCategory
	err := db.Where("category_id = ?", categoryID).Find(&subs).Error
	return subs, err
}

func (r *repositoryImpl) ListAllSub(db *gorm.DB) ([]SubCategory, error) {
	var subs []SubCategory
	err := db.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *repositoryImpl) SaveSub(db *gorm.DB, s *SubCategory) error {
	return db.Save(s).Error
}

func (r *repositoryImpl) DeleteSub(db *gorm.DB, id uint) error {
	return db.Delete(&SubCategory{}, id).Error
}
