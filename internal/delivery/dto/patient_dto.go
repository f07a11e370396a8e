package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
}

// UpdatePatientRequest fields are all optional; empty means "leave as is".
type UpdatePatientRequest struct {
	Name        string `json:"name" validate:"omitempty,max=255"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

type PatientResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PhoneNumber     string     `json:"phone_number"`
	IsEmailVerified bool       `json:"is_email_verified"`
	IsDeleted       bool       `json:"is_deleted"`
	DocumentFileID  *uuid.UUID `json:"document_file_id,omitempty"`
	DocumentURL     string     `json:"document_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
