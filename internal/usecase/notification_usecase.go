package usecase

import (
	"context"
	"fmt"
	"sync"

	"patient-manager/internal/domain/entity"
	"patient-manager/internal/domain/repository"
	"patient-manager/internal/provider"
	"patient-manager/pkg/token"

	"github.com/sirupsen/logrus"
)

const (
	defaultNotificationLimit = 50
	defaultByEmailLimit      = 20
)

type NotificationUsecase interface {
	// Send dispatches one notification on one channel and records the
	// outcome. Delivery failure is a normal outcome carried in the Result,
	// not an error.
	Send(ctx context.Context, opts provider.SendOptions) provider.Result
	// SendMultiChannel fires Send once per channel concurrently and returns
	// the results in the order the channels were requested.
	SendMultiChannel(ctx context.Context, opts provider.SendOptions, channels []provider.Channel) []provider.Result
	// SendVerification notifies a patient about email verification. Email is
	// always attempted; SMS only when a phone number is present and SMS is
	// enabled.
	SendVerification(ctx context.Context, email, tok, name, phone string) []provider.Result
	ListRecent(ctx context.Context, limit int) ([]entity.Notification, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]entity.Notification, error)
}

type notificationUsecase struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	providers        map[provider.Channel]provider.Provider
	baseURL          string
	smsEnabled       bool
}

func NewNotificationUsecase(
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	providers []provider.Provider,
	baseURL string,
	smsEnabled bool,
) NotificationUsecase {
	registry := make(map[provider.Channel]provider.Provider, len(providers))
	for _, p := range providers {
		registry[p.Channel()] = p
	}

	return &notificationUsecase{
		log:              log,
		notificationRepo: notificationRepo,
		providers:        registry,
		baseURL:          baseURL,
		smsEnabled:       smsEnabled,
	}
}

func (u *notificationUsecase) Send(ctx context.Context, opts provider.SendOptions) provider.Result {
	p, ok := u.providers[opts.Channel]
	if !ok {
		errMsg := fmt.Sprintf("no provider found for channel: %s", opts.Channel)
		u.log.Errorf("%s", errMsg)
		return provider.Result{Success: false, Error: errMsg}
	}

	if !p.ValidateRecipient(opts.Recipient) {
		errMsg := fmt.Sprintf("invalid recipient for channel: %s", opts.Channel)
		u.log.Errorf("%s", errMsg)
		return provider.Result{Success: false, Error: errMsg}
	}

	result, err := p.Send(ctx, opts)
	if err != nil {
		u.log.Errorf("Unexpected error sending notification via %s: %+v", opts.Channel, err)
		u.persistAudit(ctx, opts, provider.Result{Success: false, Error: err.Error()})
		return provider.Result{Success: false, Error: "notification delivery failed"}
	}

	u.persistAudit(ctx, opts, result)

	if result.Success {
		u.log.Infof("Notification sent via %s to %s", opts.Channel, recipientIdentifier(opts))
	} else {
		u.log.Errorf("Failed to send notification via %s: %s", opts.Channel, result.Error)
	}

	return result
}

// persistAudit writes the audit row for one dispatch attempt. The audit log is
// best-effort: a write failure is logged and swallowed so it never masks the
// delivery outcome.
func (u *notificationUsecase) persistAudit(ctx context.Context, opts provider.SendOptions, result provider.Result) {
	status := entity.NotificationStatusSent
	errorMessage := ""
	if !result.Success {
		status = entity.NotificationStatusFailed
		errorMessage = result.Error
	}

	notification := &entity.Notification{
		Channel:        string(opts.Channel),
		Type:           string(opts.Type),
		Status:         status,
		RecipientEmail: opts.Recipient.Email,
		RecipientPhone: opts.Recipient.Phone,
		RecipientName:  opts.Recipient.Name,
		Subject:        subjectForType(opts.Type),
		Content:        contentPreview(opts),
		ErrorMessage:   errorMessage,
	}

	if err := u.notificationRepo.Create(ctx, notification); err != nil {
		u.log.Errorf("Failed to save notification audit record: %+v", err)
	}
}

func (u *notificationUsecase) SendMultiChannel(ctx context.Context, opts provider.SendOptions, channels []provider.Channel) []provider.Result {
	results := make([]provider.Result, len(channels))

	var wg sync.WaitGroup
	for i, channel := range channels {
		wg.Add(1)
		go func(i int, channel provider.Channel) {
			defer wg.Done()
			channelOpts := opts
			channelOpts.Channel = channel
			results[i] = u.Send(ctx, channelOpts)
		}(i, channel)
	}
	wg.Wait()

	return results
}

func (u *notificationUsecase) SendVerification(ctx context.Context, email, tok, name, phone string) []provider.Result {
	opts := provider.SendOptions{
		Type: provider.TypeEmailVerification,
		Recipient: provider.Recipient{
			Email: email,
			Phone: phone,
			Name:  name,
		},
		TemplateData: map[string]string{
			"patient_name":      name,
			"verification_url":  u.verificationURL(tok),
			"verification_code": token.ShortCode(tok),
		},
		Priority: "high",
	}

	channels := []provider.Channel{provider.ChannelEmail}
	if phone != "" && u.smsEnabled {
		channels = append(channels, provider.ChannelSMS)
	}

	return u.SendMultiChannel(ctx, opts, channels)
}

func (u *notificationUsecase) ListRecent(ctx context.Context, limit int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return u.notificationRepo.FindRecent(ctx, limit)
}

func (u *notificationUsecase) ListByEmail(ctx context.Context, email string, limit int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = defaultByEmailLimit
	}
	return u.notificationRepo.FindByRecipientEmail(ctx, email, limit)
}

func (u *notificationUsecase) verificationURL(tok string) string {
	return fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", u.baseURL, tok)
}

func recipientIdentifier(opts provider.SendOptions) string {
	switch opts.Channel {
	case provider.ChannelEmail:
		if opts.Recipient.Email != "" {
			return opts.Recipient.Email
		}
	case provider.ChannelSMS:
		if opts.Recipient.Phone != "" {
			return opts.Recipient.Phone
		}
	}
	return "unknown"
}

func subjectForType(notificationType provider.Type) string {
	switch notificationType {
	case provider.TypeEmailVerification:
		return "Email Verification Required"
	case provider.TypeAppointmentReminder:
		return "Appointment Reminder"
	case provider.TypeSystemAlert:
		return "System Alert"
	case provider.TypeWelcome:
		return "Welcome"
	default:
		return "Notification"
	}
}

func contentPreview(opts provider.SendOptions) string {
	return fmt.Sprintf("%s notification sent to %s", opts.Type, recipientIdentifier(opts))
}
