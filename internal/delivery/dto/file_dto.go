package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadedFile is an incoming multipart file decoupled from net/http.
type UploadedFile struct {
	OriginalName string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

type UploadFileRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	FileType  string    `json:"file_type" validate:"required,oneof=id_photo medical_record other"`
	IsPrimary bool      `json:"is_primary"`
}

type FileResponse struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	PublicURL    string    `json:"public_url"`
	UploadedAt   time.Time `json:"uploaded_at"`
	FileType     string    `json:"file_type"`
	IsPrimary    bool      `json:"is_primary"`
}
