package contactform

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/auth"
	"github.com/minifigstore/api/internal/mailer"
	"github.com/minifigstore/api/internal/utils"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Mailer     mailer.Mailer
}

func NewHandler(db *gorm.DB, m mailer.Mailer) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Mailer:     m,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Send stores the submission and forwards it to the support inbox. Public;
// a signed-in caller gets linked to the message.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "All fields are required", "Please provide your name, email and a message.")
		return
	}

	m := Message{
		Reference: uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Message),
	}
	if u, ok := auth.CurrentUser(r); ok {
		id := u.ID
		m.UserID = &id
	}

	if err := h.Repository.Save(h.DB, &m); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to send message", "An unexpected error occurred. Please try again.")
		return
	}

	// The stored record is the source of truth; a failed forward is logged,
	// not surfaced.
	body := fmt.Sprintf("From: %s <%s>\nReference: %s\n\n%s", m.Name, m.Email, m.Reference, m.Body)
	if err := h.Mailer.Send(m.Email, "Contact form: "+m.Subject, body); err != nil {
		log.Printf("failed to forward contact message %s: %v", m.Reference, err)
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Message sent",
		"description": "Thanks for reaching out. We will get back to you shortly.",
		"reference":   m.Reference,
	})
}

// List lets the admin panel review submissions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch messages", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"count":    len(messages),
		"messages": messages,
	})
}
