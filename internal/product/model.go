package product

import (
	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/collection"
)

type Product struct {
	gorm.Model
	ProductName string  `json:"productName" gorm:"index;not null"`
	Key         string  `json:"key" gorm:"uniqueIndex"`
	PartID      string  `json:"partId" gorm:"uniqueIndex;not null"`
	ItemID      string  `json:"itemId" gorm:"uniqueIndex;not null"`
	Price       float64 `json:"price" gorm:"not null"`
	// Discount is a percentage; DiscountPrice the resulting unit price.
	Discount      float64 `json:"discount"`
	DiscountPrice float64 `json:"discountPrice"`
	Description1  string  `json:"description1" gorm:"not null"`
	Description2  string  `json:"description2"`
	Description3  string  `json:"description3"`

	CategoryID    *uint `json:"category" gorm:"index"`
	SubCategoryID *uint `json:"subCategory" gorm:"index"`

	Collections []collection.Collection `json:"collections,omitempty" gorm:"many2many:product_collections"`

	PieceCount  int  `json:"pieceCount"`
	Stocks      int  `json:"stocks" gorm:"default:0"`
	IsActive    bool `json:"isActive" gorm:"default:true;index"`
	IsAvailable bool `json:"isAvailable" gorm:"default:true;index"`
	ForPreOrder bool `json:"forPreOrder" gorm:"default:false"`

	CreatedByID uint `json:"createdBy"`
	UpdatedByID uint `json:"updatedBy"`
}
