package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"patient-manager/internal/converter"
	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/domain/entity"
	"patient-manager/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	// ErrEmailConflict means an active patient already owns the email.
	ErrEmailConflict = errors.New("patient with this email already exists")
	// ErrEmailConflictDeleted means a soft-deleted patient still owns the
	// email; it stays blocked until that record is restored or freed.
	ErrEmailConflictDeleted = errors.New("this email was previously used by a deleted patient")
)

// documentURLExpiry bounds how long a listed document link stays valid.
const documentURLExpiry = time.Hour

// PatientList is one page of patients plus the totals the response meta needs.
type PatientList struct {
	Patients []dto.PatientResponse
	Total    int64
	Page     int
	Limit    int
}

type PatientUsecase interface {
	// Create registers a patient, optionally attaches an uploaded document,
	// and dispatches the initial verification notification. Document upload
	// and verification dispatch are best-effort: their failure never fails
	// the creation.
	Create(ctx context.Context, req *dto.CreatePatientRequest, document *dto.UploadedFile) (*dto.PatientResponse, error)
	List(ctx context.Context, query dto.PaginationQuery) (*PatientList, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	// Delete soft-deletes; the row and its email claim remain.
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	ListDeleted(ctx context.Context) ([]dto.PatientResponse, error)
	ListAllIncludingDeleted(ctx context.Context) ([]dto.PatientResponse, error)
	UploadFile(ctx context.Context, patientID uuid.UUID, upload *dto.UploadedFile, fileType string, isPrimary bool) (*dto.FileResponse, error)
	DeleteFile(ctx context.Context, patientID, fileID uuid.UUID) error
	ListFiles(ctx context.Context, patientID uuid.UUID, fileType string) ([]dto.FileResponse, error)
}

type patientUsecase struct {
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	fileUC         FileUsecase
	verificationUC VerificationUsecase
}

func NewPatientUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	fileUC FileUsecase,
	verificationUC VerificationUsecase,
) PatientUsecase {
	return &patientUsecase{
		log:            log,
		patientRepo:    patientRepo,
		fileUC:         fileUC,
		verificationUC: verificationUC,
	}
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest, document *dto.UploadedFile) (*dto.PatientResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := u.patientRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to check existing patient email: %+v", err)
		return nil, err
	}
	if existing != nil {
		if existing.IsDeleted {
			return nil, ErrEmailConflictDeleted
		}
		return nil, ErrEmailConflict
	}

	patient := &entity.Patient{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}

	if err := u.patientRepo.Create(ctx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	if document != nil {
		uploaded, err := u.fileUC.Upload(ctx, document, patient.ID, entity.FileTypeIDPhoto, true)
		if err != nil {
			u.log.Errorf("Failed to upload document photo for patient %s: %+v", patient.ID, err)
		} else {
			patient.DocumentFileID = &uploaded.ID
			if err := u.patientRepo.Update(ctx, patient); err != nil {
				u.log.Errorf("Failed to attach document to patient %s: %+v", patient.ID, err)
			}
		}
	}

	// Verification dispatch must not fail patient creation.
	if _, err := u.verificationUC.SendInitialVerification(ctx, patient.ID); err != nil {
		u.log.Errorf("Failed to send verification notification to patient %s: %+v", patient.ID, err)
	}

	u.log.Infof("Patient created with ID %s", patient.ID)
	return converter.PatientToResponse(patient, ""), nil
}

func (u *patientUsecase) List(ctx context.Context, query dto.PaginationQuery) (*PatientList, error) {
	params := repository.PatientListParams{
		Page:      query.Page,
		Limit:     query.Limit,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Search:    query.Search,
	}

	patients, total, err := u.patientRepo.FindPage(ctx, params)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	responses := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, *converter.PatientToResponse(&patients[i], u.documentURL(ctx, &patients[i])))
	}

	return &PatientList{
		Patients: responses,
		Total:    total,
		Page:     query.Page,
		Limit:    query.Limit,
	}, nil
}

func (u *patientUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient, u.documentURL(ctx, patient)), nil
}

func (u *patientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != patient.Email {
			existing, err := u.patientRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				if existing.IsDeleted {
					return nil, ErrEmailConflictDeleted
				}
				return nil, ErrEmailConflict
			}
		}
		patient.Email = email
	}

	if req.Name != "" {
		patient.Name = strings.TrimSpace(req.Name)
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	}

	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Patient updated with ID %s", id)
	return converter.PatientToResponse(patient, u.documentURL(ctx, patient)), nil
}

func (u *patientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	patient.IsDeleted = true
	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to soft delete patient %s: %+v", id, err)
		return err
	}

	u.log.Infof("Patient soft deleted with ID %s", id)
	return nil
}

func (u *patientUsecase) Restore(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindDeletedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	patient.IsDeleted = false
	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to restore patient %s: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Patient restored with ID %s", id)
	return converter.PatientToResponse(patient, ""), nil
}

func (u *patientUsecase) ListDeleted(ctx context.Context) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindDeleted(ctx)
	if err != nil {
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) ListAllIncludingDeleted(ctx context.Context) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindAllIncludingDeleted(ctx)
	if err != nil {
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) UploadFile(ctx context.Context, patientID uuid.UUID, upload *dto.UploadedFile, fileType string, isPrimary bool) (*dto.FileResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return u.fileUC.Upload(ctx, upload, patientID, fileType, isPrimary)
}

func (u *patientUsecase) DeleteFile(ctx context.Context, patientID, fileID uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	return u.fileUC.Delete(ctx, patientID, fileID)
}

func (u *patientUsecase) ListFiles(ctx context.Context, patientID uuid.UUID, fileType string) ([]dto.FileResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return u.fileUC.ListPatientFiles(ctx, patientID, fileType)
}

// documentURL resolves the patient's document link best-effort; listing a
// patient must not fail because a URL could not be generated.
func (u *patientUsecase) documentURL(ctx context.Context, patient *entity.Patient) string {
	if patient.DocumentFileID == nil {
		return ""
	}

	url, err := u.fileUC.PresignedURL(ctx, *patient.DocumentFileID, documentURLExpiry)
	if err != nil {
		u.log.Warnf("Failed to resolve document URL for patient %s: %+v", patient.ID, err)
		return ""
	}
	return url
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
