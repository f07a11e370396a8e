package entity

import (
	"time"

	"github.com/google/uuid"
)

// File describes one stored object. Filename is the generated object name
// (uuid plus the original extension); OriginalName is what the client sent.
type File struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Filename     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"filename"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	MimeType     string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes    int64     `gorm:"not null" json:"size_bytes"`
	StoragePath  string    `gorm:"type:varchar(512);not null" json:"storage_path"`
	PublicURL    string    `gorm:"type:varchar(1024)" json:"public_url"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (File) TableName() string {
	return "files"
}
