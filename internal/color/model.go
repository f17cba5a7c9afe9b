package color

import "gorm.io/gorm"

type Color struct {
	gorm.Model
	ColorName   string `json:"colorName" gorm:"index;not null"`
	Key         string `json:"key" gorm:"uniqueIndex"`
	HexCode     string `json:"hexCode"`
	CreatedByID uint   `json:"createdBy"`
	UpdatedByID uint   `json:"updatedBy"`
}
