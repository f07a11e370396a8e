package repository

import (
	"context"

	"patient-manager/internal/domain/entity"

	"github.com/google/uuid"
)

// PatientListParams controls pagination, sorting and search for the
// patient listing. Search matches name, email and phone number.
type PatientListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
}

// PatientRepository finders return (nil, nil) when no row matches.
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	// FindByID returns the patient only if it is not soft-deleted.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	// FindDeletedByID returns the patient only if it IS soft-deleted.
	FindDeletedByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	// FindByEmail looks across deleted and active rows; the caller decides
	// what a soft-deleted match means.
	FindByEmail(ctx context.Context, email string) (*entity.Patient, error)
	// FindActiveByEmail ignores soft-deleted rows.
	FindActiveByEmail(ctx context.Context, email string) (*entity.Patient, error)
	// FindPage returns one page of non-deleted patients plus the total count
	// of rows matching the filter.
	FindPage(ctx context.Context, params PatientListParams) ([]entity.Patient, int64, error)
	FindDeleted(ctx context.Context) ([]entity.Patient, error)
	FindAllIncludingDeleted(ctx context.Context) ([]entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
}
