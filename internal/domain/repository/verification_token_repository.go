package repository

import (
	"context"
	"time"

	"patient-manager/internal/domain/entity"

	"github.com/google/uuid"
)

type VerificationTokenRepository interface {
	// Replace deletes all unused tokens belonging to the patient and inserts
	// the new token in a single transaction, so at most one active token per
	// patient survives issuance.
	Replace(ctx context.Context, patientID uuid.UUID, token *entity.VerificationToken) error
	// FindByToken returns (nil, nil) when no row matches the literal string.
	FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error)
	// Consume persists the token's UsedAt and flips the owning patient's
	// email-verified flag in one transaction.
	Consume(ctx context.Context, token *entity.VerificationToken) error
	// DeleteExpired removes every token whose expiry precedes now, used or
	// not, and returns the number of rows deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
