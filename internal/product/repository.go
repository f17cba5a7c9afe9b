package product

import "gorm.io/gorm"

// Filters narrow the public listing; zero values mean "no filter".
type Filters struct {
	CategoryID   uint
	CollectionID uint
	ActiveOnly   bool
}

type Repository interface {
	FindByID(db *gorm.DB, id uint) (*Product, error)
	FindByPartOrItemID(db *gorm.DB, partID, itemID string) (*Product, error)
	List(db *gorm.DB, f Filters) ([]Product, error)
	Save(db *gorm.DB, p *Product) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Product, error) {
	var p Product
	err := db.Preload("Collections").First(&p, id).Error
	return &p, err
}

func (r *repositoryImpl) FindByPartOrItemID(db *gorm.DB, partID, itemID string) (*Product, error) {
	var p Product
	err := db.Where("part_id = ? OR item_id = ?", partID, itemID).First(&p).Error
	return &p, err
}

func (r *repositoryImpl) List(db *gorm.DB, f Filters) ([]Product, error) {
	q := db.Preload("Collections").Order("created_at DESC")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.CollectionID != 0 {
		q = q.Joins("JOIN product_collections pc ON pc.product_id = products.id").
			Where("pc.collection_id = ?", f.CollectionID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ? AND is_available = ?", true, true)
	}

	var products []Product
	err := q.Find(&products).Error
	return products, err
}

func (r *repositoryImpl) Save(db *gorm.DB, p *Product) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Product{}, id).Error
}
