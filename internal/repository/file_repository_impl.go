package repository

import (
	"context"
	"errors"

	"patient-manager/internal/domain/entity"
	domainRepo "patient-manager/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) domainRepo.FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *entity.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) FindByFilename(ctx context.Context, filename string) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.File{}).Error
}

type patientFileRepository struct {
	db *gorm.DB
}

func NewPatientFileRepository(db *gorm.DB) domainRepo.PatientFileRepository {
	return &patientFileRepository{db: db}
}

func (r *patientFileRepository) Create(ctx context.Context, link *entity.PatientFile) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *patientFileRepository) FindByPatientAndFile(ctx context.Context, patientID, fileID uuid.UUID) (*entity.PatientFile, error) {
	var link entity.PatientFile
	err := r.db.WithContext(ctx).
		Preload("File").
		Where("patient_id = ? AND file_id = ?", patientID, fileID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *patientFileRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, fileType string) ([]entity.PatientFile, error) {
	query := r.db.WithContext(ctx).
		Preload("File").
		Where("patient_id = ?", patientID)

	if fileType != "" {
		query = query.Where("file_type = ?", fileType)
	}

	var links []entity.PatientFile
	err := query.Order("created_at DESC").Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *patientFileRepository) DemotePrimary(ctx context.Context, patientID uuid.UUID, fileType string) error {
	return r.db.WithContext(ctx).Model(&entity.PatientFile{}).
		Where("patient_id = ? AND file_type = ?", patientID, fileType).
		Update("is_primary", false).Error
}

func (r *patientFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PatientFile{}).Error
}

func (r *patientFileRepository) CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PatientFile{}).
		Where("file_id = ?", fileID).
		Count(&count).Error
	return count, err
}
