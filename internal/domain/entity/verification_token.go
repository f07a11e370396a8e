package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken proves control of a patient's email address. A token is
// single-use: UsedAt is set exactly once, after which the row stays as an
// audit trace until the expiry sweep removes it.
type VerificationToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Token     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	PatientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}

// IsUsed reports whether the token has already been consumed.
func (t *VerificationToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsExpired reports whether the token's lifetime has passed at the given time.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
