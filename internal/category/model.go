package category

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	CategoryName string `json:"categoryName" gorm:"index;not null"`
	Key          string `json:"key" gorm:"uniqueIndex"`
	Description  string `json:"description"`
	CreatedByID  uint   `json:"createdBy"`
	UpdatedByID  uint   `json:"updatedBy"`

	SubCategories []SubCategory `json:"subCategories,omitempty" gorm:"foreignKey:CategoryID"`
}

type SubCategory struct {
	gorm.Model
	SubCategoryName string `json:"subCategoryName" gorm:"index;not null"`
	Key             string `json:"key" gorm:"uniqueIndex"`
	Description     string `json:"description"`
	CategoryID      uint   `json:"category" gorm:"index;not null"`
	CreatedByID     uint   `json:"createdBy"`
	UpdatedByID     uint   `json:"updatedBy"`
}
