package entity

import (
	"time"

	"github.com/google/uuid"
)

// File type constants for patient attachments.
const (
	FileTypeIDPhoto       = "id_photo"
	FileTypeMedicalRecord = "medical_record"
	FileTypeOther         = "other"
)

// PatientFile links a stored file to a patient. At most one link per
// (patient, file type) carries IsPrimary; uploading a new primary demotes
// the previous one.
type PatientFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	FileID    uuid.UUID `gorm:"type:uuid;not null;index" json:"file_id"`
	FileType  string    `gorm:"type:varchar(30);not null" json:"file_type"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
	File    *File    `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

func (PatientFile) TableName() string {
	return "patient_files"
}
