package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

type User struct {
	gorm.Model
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username" gorm:"uniqueIndex"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	ContactNumber string `json:"contactNumber"`
	Password      string `json:"-"`
	Role          string `json:"role" gorm:"default:customer;index"`
	IsActive      bool   `json:"isActive" gorm:"default:true;index"`
	IsVerified    bool   `json:"isVerified" gorm:"default:false;index"`

	LastLogin *time.Time `json:"lastLogin"`

	// Refresh token pair: always both set or both nil, written only
	// through SetRefreshToken / ClearRefreshToken.
	RefreshToken       *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`

	VerificationToken       *string    `json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`
}
