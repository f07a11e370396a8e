package provider

import "context"

// Channel identifies a notification transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	// ChannelPush is reserved; no provider registers for it yet.
	ChannelPush Channel = "push"
)

// Type identifies what a notification is about, and selects the template.
type Type string

const (
	TypeEmailVerification   Type = "email_verification"
	TypeAppointmentReminder Type = "appointment_reminder"
	TypeSystemAlert         Type = "system_alert"
	TypeWelcome             Type = "welcome"
)

// Recipient carries everything a provider may need to address a message.
// Each provider only validates the fields it cares about.
type Recipient struct {
	Email string
	Phone string
	Name  string
}

// SendOptions describes one logical notification on one channel.
type SendOptions struct {
	Channel      Channel
	Type         Type
	Recipient    Recipient
	TemplateData map[string]string
	Priority     string
}

// Result is the structured outcome of a delivery attempt. A failed send is a
// normal outcome, reported through Success/Error rather than a Go error.
type Result struct {
	Success   bool              `json:"success"`
	MessageID string            `json:"message_id,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Provider renders and attempts delivery for one channel. Transport failures
// come back as a failed Result with a nil error; the error return is reserved
// for faults the provider could not convert into a structured outcome.
type Provider interface {
	Channel() Channel
	ValidateRecipient(recipient Recipient) bool
	Send(ctx context.Context, opts SendOptions) (Result, error)
}
