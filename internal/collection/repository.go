package collection

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	FindByName(db *gorm.DB, name string) (*Collection, error)
	FindByID(db *gorm.DB, id uint) (*Collection, error)
	ListAll(db *gorm.DB) ([]Collection, error)
	ListFeatured(db *gorm.DB) ([]Collection, error)
	Save(db *gorm.DB, c *Collection) error
	Delete(db *gorm.DB, id uint) error

	FindSubByID(db *gorm.DB, id uint) (*SubCollection, error)
	ListAllSub(db *gorm.DB) ([]SubCollection, error)
	SaveSub(db *gorm.DB, s *SubCollection) error
	DeleteSub(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByName(db *gorm.DB, name string) (*Collection, error) {
	var c Collection
	err := db.Where("LOWER(collection_name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&c).Error
	return &c, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Collection, error) {
	var c Collection
	err := db.Preload("SubCollections").First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Collection, error) {
	var cols []Collection
	err := db.Preload("SubCollections").Order("created_at DESC").Find(&cols).Error
	return cols, err
}

func (r *repositoryImpl) ListFeatured(db *gorm.DB) ([]Collection, error) {
	var cols []Collection
	err := db.Where("is_featured = ?", true).Order("created_at DESC").Find(&cols).Error
	return cols, err
}

func (r *repositoryImpl) Save(db *gorm.DB, c *Collection) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Collection{}, id).Error
}

func (r *repositoryImpl) FindSubByID(db *gorm.DB, id uint) (*SubCollection, error) {
	var s SubCollection
	err := db.First(&s, id).Error
	return &s, err
}

func (r *repositoryImpl) ListAllSub(db *gorm.DB) ([]SubCollection, error) {
	var subs []SubCollection
	err := db.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *repositoryImpl) SaveSub(db *gorm.DB, s *SubCollection) error {
	return db.Save(s).Error
}

func (r *repositoryImpl) DeleteSub(db *gorm.DB, id uint) error {
	return db.Delete(&SubCollection{}, id).Error
}
