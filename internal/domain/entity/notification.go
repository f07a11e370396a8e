package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification channel constants. Push is reserved: no provider is registered
// for it yet, but stored rows may carry it once one exists.
const (
	NotificationChannelEmail = "email"
	NotificationChannelSMS   = "sms"
	NotificationChannelPush  = "push"
)

// Notification type constants.
const (
	NotificationTypeEmailVerification   = "email_verification"
	NotificationTypeAppointmentReminder = "appointment_reminder"
	NotificationTypeSystemAlert         = "system_alert"
	NotificationTypeWelcome             = "welcome"
)

// Notification status constants.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// Notification is an append-only delivery audit row. Recipient details are
// denormalized snapshots, not foreign keys, so the log survives patient
// deletion. The workflow never updates or deletes these rows.
type Notification struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Channel        string    `gorm:"type:varchar(20);not null;index" json:"channel"`
	Type           string    `gorm:"type:varchar(50);not null" json:"type"`
	Status         string    `gorm:"type:varchar(20);not null;index" json:"status"`
	RecipientEmail string    `gorm:"type:varchar(255);index" json:"recipient_email"`
	RecipientPhone string    `gorm:"type:varchar(20)" json:"recipient_phone,omitempty"`
	RecipientName  string    `gorm:"type:varchar(255)" json:"recipient_name,omitempty"`
	Subject        string    `gorm:"type:varchar(255)" json:"subject"`
	Content        string    `gorm:"type:text" json:"content"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
