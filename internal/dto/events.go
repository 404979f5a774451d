package dto

const (
	EventUserVerified    = "user.verified"
	EventPasswordChanged = "user.password_changed"
)

// MailEvent is published by the auth service after a successful
// verification or password change and consumed by the mail worker.
// Type doubles as the Kafka message key.
type MailEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	OccurredAt string `json:"occurred_at"`
}
