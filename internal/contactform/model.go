package contactform

import "gorm.io/gorm"

// Message is a stored contact-form submission. Reference is the id quoted
// back to the sender.
type Message struct {
	gorm.Model
	Reference string `json:"reference" gorm:"uniqueIndex;not null"`
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email" gorm:"not null"`
	Subject   string `json:"subject"`
	Body      string `json:"message" gorm:"not null"`

	// Set when a signed-in user submitted the form.
	UserID *uint `json:"userId" gorm:"index"`
}
