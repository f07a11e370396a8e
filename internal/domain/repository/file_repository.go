package repository

import (
	"context"

	"patient-manager/internal/domain/entity"

	"github.com/google/uuid"
)

type FileRepository interface {
	Create(ctx context.Context, file *entity.File) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error)
	FindByFilename(ctx context.Context, filename string) (*entity.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PatientFileRepository interface {
	Create(ctx context.Context, link *entity.PatientFile) error
	// FindByPatientAndFile preloads the File relation.
	FindByPatientAndFile(ctx context.Context, patientID, fileID uuid.UUID) (*entity.PatientFile, error)
	// FindByPatient lists a patient's files newest first, optionally
	// filtered by file type ("" means all types). File relations preloaded.
	FindByPatient(ctx context.Context, patientID uuid.UUID, fileType string) ([]entity.PatientFile, error)
	// DemotePrimary clears IsPrimary on every link of the given patient and
	// file type.
	DemotePrimary(ctx context.Context, patientID uuid.UUID, fileType string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountByFile reports how many patients still reference the file.
	CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error)
}
