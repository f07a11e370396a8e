package repository

import (
	"context"

	"patient-manager/internal/domain/entity"
)

// NotificationRepository is append-only from the dispatcher's point of view:
// rows are created once and only ever read back for the audit listing.
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindRecent(ctx context.Context, limit int) ([]entity.Notification, error)
	FindByRecipientEmail(ctx context.Context, email string, limit int) ([]entity.Notification, error)
}
