package contactform

import "gorm.io/gorm"

type Repository interface {
	Save(db *gorm.DB, m *Message) error
	ListAll(db *gorm.DB) ([]Message, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, m *Message) error {
	return db.Save(m).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Message, error) {
	var messages []Message
	err := db.Order("created_at DESC").Find(&messages).Error
	return messages, err
}
