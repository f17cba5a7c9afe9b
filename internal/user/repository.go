package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByEmailOrUsername(db *gorm.DB, identifier string) (*User, error)
	FindByID(db *gorm.DB, id uint) (*User, error)
	FindByVerificationToken(db *gorm.DB, token string) (*User, error)
	Save(db *gorm.DB, u *User) error
	ListAll(db *gorm.DB) ([]User, error)
	SetRefreshToken(db *gorm.DB, id uint, token string, expiry time.Time) error
	ClearRefreshToken(db *gorm.DB, id uint) error
	SetActive(db *gorm.DB, id uint, active bool) error
	SetRole(db *gorm.DB, id uint, role string) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Matches the lowercased email first, then the username.
func (r *repositoryImpl) FindByEmailOrUsername(db *gorm.DB, identifier string) (*User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var u User
	if err := db.Where("email = ?", identifier).First(&u).Error; err == nil {
		return &u, nil
	}
	if err := db.Where("username = ?", identifier).First(&u).Error; err == nil {
		return &u, nil
	}

	return nil, gorm.ErrRecordNotFound
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	err := db.First(&u, id).Error
	return &u, err
}

func (r *repositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*User, error) {
	var u User
	err := db.Where("verification_token = ?", token).First(&u).Error
	return &u, err
}

func (r *repositoryImpl) Save(db *gorm.DB, u *User) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// SetRefreshToken overwrites the stored refresh token and its expiry in one
// update, invalidating whatever was there before. There is no locking around
// the read-modify-write in the gate: two concurrent silent renewals can race,
// and the loser's token dies on the next mismatch check.
func (r *repositoryImpl) SetRefreshToken(db *gorm.DB, id uint, token string, expiry time.Time) error {
	return db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token":        token,
		"refresh_token_expiry": expiry,
	}).Error
}

// ClearRefreshToken nils both halves of the pair together. Clearing an
// already-cleared record is a no-op success.
func (r *repositoryImpl) ClearRefreshToken(db *gorm.DB, id uint) error {
	return db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token":        nil,
		"refresh_token_expiry": nil,
	}).Error
}

func (r *repositoryImpl) SetActive(db *gorm.DB, id uint, active bool) error {
	return db.Model(&User{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *repositoryImpl) SetRole(db *gorm.DB, id uint, role string) error {
	return db.Model(&User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&User{}, id).Error
}
