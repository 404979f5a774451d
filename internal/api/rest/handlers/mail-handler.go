package handlers

import (
	"encoding/json"
	"log"

	"github.com/SundayYogurt/auth_service/internal/dto"
	"github.com/SundayYogurt/auth_service/pkg/mailer"
)

// MailHandler consumes mail events from Kafka for the mail worker.
type MailHandler struct {
	mailer *mailer.Mailer
}

func NewMailHandler(m *mailer.Mailer) *MailHandler {
	return &MailHandler{mailer: m}
}

func (h *MailHandler) HandleMessage(message string) error {
	var event dto.MailEvent

	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Printf("invalid event payload: %s\n", message)
		return err
	}

	log.Printf("mail event received: type=%s user_id=%d email=%s",
		event.Type, event.UserID, event.Email)

	switch event.Type {
	case dto.EventUserVerified:
		return h.mailer.SendWelcome(event.Email, event.Name)
	case dto.EventPasswordChanged:
		return h.mailer.SendPasswordChangedNotice(event.Email, event.Name)
	default:
		log.Printf("unknown event type %q - skipping", event.Type)
		return nil
	}
}
