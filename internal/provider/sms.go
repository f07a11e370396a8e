package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"patient-manager/config"

	"github.com/sirupsen/logrus"
)

// SMSProvider renders short per-type messages. Until a gateway integration
// lands, delivery is logged rather than transmitted; when SMS is disabled by
// configuration, Send reports a mock success so a multi-channel notification
// attempt never fails on the disabled leg.
type SMSProvider struct {
	cfg config.SMSConfig
	log *logrus.Logger
}

func NewSMSProvider(cfg config.SMSConfig, log *logrus.Logger) *SMSProvider {
	return &SMSProvider{
		cfg: cfg,
		log: log,
	}
}

func (p *SMSProvider) Channel() Channel {
	return ChannelSMS
}

func (p *SMSProvider) ValidateRecipient(recipient Recipient) bool {
	return isValidPhoneNumber(recipient.Phone)
}

// isValidPhoneNumber accepts digits, "+", spaces, parentheses and hyphens,
// and requires at least 10 digits once everything else is stripped.
func isValidPhoneNumber(phone string) bool {
	if phone == "" {
		return false
	}
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '(' || r == ')' || r == '-':
		default:
			return false
		}
	}
	return digits >= 10
}

func (p *SMSProvider) Send(ctx context.Context, opts SendOptions) (Result, error) {
	if !p.ValidateRecipient(opts.Recipient) {
		return Result{Success: false, Error: "invalid phone number recipient"}, nil
	}

	message := p.renderMessage(opts.Type, opts.TemplateData)

	if !p.cfg.Enabled {
		p.log.Infof("SMS disabled - would send to %s: %s", opts.Recipient.Phone, message)
		return Result{
			Success:   true,
			MessageID: fmt.Sprintf("mock_sms_%d", time.Now().UnixNano()),
			Metadata: map[string]string{
				"to":   opts.Recipient.Phone,
				"mock": "true",
			},
		}, nil
	}

	// TODO: wire the configured gateway (cfg.Provider) once an account exists.
	p.log.Infof("SMS to %s via %s: %s", opts.Recipient.Phone, p.cfg.Provider, message)

	return Result{
		Success:   true,
		MessageID: fmt.Sprintf("sms_%d", time.Now().UnixNano()),
		Metadata: map[string]string{
			"to":             opts.Recipient.Phone,
			"provider":       p.cfg.Provider,
			"message_length": fmt.Sprintf("%d", len(message)),
		},
	}, nil
}

func (p *SMSProvider) renderMessage(notificationType Type, data map[string]string) string {
	switch notificationType {
	case TypeEmailVerification:
		code := templateValue(data, "verification_code", "N/A")
		return fmt.Sprintf("Your verification code is: %s. Use this code to verify your email address.", code)
	case TypeAppointmentReminder:
		date := templateValue(data, "appointment_date", "soon")
		return fmt.Sprintf("Reminder: You have an appointment scheduled for %s.", date)
	case TypeWelcome:
		name := templateValue(data, "patient_name", "there")
		return fmt.Sprintf("Welcome %s! Thank you for registering with our patient management system.", name)
	case TypeSystemAlert:
		return templateValue(data, "message", "System notification")
	default:
		return fmt.Sprintf("Notification: %s", strings.ToLower(string(notificationType)))
	}
}
