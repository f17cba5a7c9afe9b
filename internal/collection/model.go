package collection

import "gorm.io/gorm"

type Collection struct {
	gorm.Model
	CollectionName string `json:"collectionName" gorm:"index;not null"`
	Key            string `json:"key" gorm:"uniqueIndex"`
	Description    string `json:"description"`
	IsFeatured     bool   `json:"isFeatured" gorm:"default:false"`
	CreatedByID    uint   `json:"createdBy"`
	UpdatedByID    uint   `json:"updatedBy"`

	SubCollections []SubCollection `json:"subCollections,omitempty" gorm:"foreignKey:CollectionID"`
}

type SubCollection struct {
	gorm.Model
	SubCollectionName string `json:"subCollectionName" gorm:"index;not null"`
	Key               string `json:"key" gorm:"uniqueIndex"`
	Description       string `json:"description"`
	CollectionID      uint   `json:"collection" gorm:"index;not null"`
	CreatedByID       uint   `json:"createdBy"`
	UpdatedByID       uint   `json:"updatedBy"`
}
