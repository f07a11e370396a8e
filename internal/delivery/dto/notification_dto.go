package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID             uuid.UUID `json:"id"`
	Channel        string    `json:"channel"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	RecipientPhone string    `json:"recipient_phone,omitempty"`
	RecipientName  string    `json:"recipient_name,omitempty"`
	Subject        string    `json:"subject"`
	Content        string    `json:"content"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
