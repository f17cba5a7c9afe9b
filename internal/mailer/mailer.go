package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Mailer hands messages to the delivery collaborator; actual delivery
// happens outside this service.
type Mailer interface {
	Send(to, subject, body string) error
}

// Webhook posts mail jobs to an external delivery hook.
type Webhook struct {
	URL string
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url}
}

func (m *Webhook) Send(to, subject, body string) error {
	if m.URL == "" {
		log.Printf("mailer: no webhook configured, dropping message to %s (%s)", to, subject)
		return nil
	}

	payload := map[string]string{
		"to":      to,
		"subject": subject,
		"body":    body,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(m.URL, "application/json", bytes.NewBuffer(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail webhook answered %d", resp.StatusCode)
	}
	return nil
}
