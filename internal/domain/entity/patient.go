package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the registry's core record. Rows are never hard-deleted by the
// API; Delete flips IsDeleted and Restore flips it back. The unique email
// index spans deleted rows too, so a soft-deleted patient keeps blocking its
// email until restored.
type Patient struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber     string     `gorm:"type:varchar(20);not null" json:"phone_number"`
	IsEmailVerified bool       `gorm:"not null;default:false" json:"is_email_verified"`
	IsDeleted       bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DocumentFileID  *uuid.UUID `gorm:"type:uuid" json:"document_file_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	VerificationTokens []VerificationToken `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	PatientFiles       []PatientFile       `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}
