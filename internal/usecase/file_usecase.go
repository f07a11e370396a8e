package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"patient-manager/internal/converter"
	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/domain/entity"
	"patient-manager/internal/domain/repository"
	"patient-manager/internal/infrastructure/cache"
	"patient-manager/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrPatientFileNotFound = errors.New("patient file relationship not found")
)

// DownloadedFile is a streamed object plus the metadata needed to serve it.
type DownloadedFile struct {
	Reader       io.ReadCloser
	MimeType     string
	OriginalName string
}

type FileUsecase interface {
	Upload(ctx context.Context, upload *dto.UploadedFile, patientID uuid.UUID, fileType string, isPrimary bool) (*dto.FileResponse, error)
	Download(ctx context.Context, filename string) (*DownloadedFile, error)
	Delete(ctx context.Context, patientID, fileID uuid.UUID) error
	// PresignedURL returns a time-limited download URL for the file, or
	// ("", nil) when the file row no longer exists.
	PresignedURL(ctx context.Context, fileID uuid.UUID, expiry time.Duration) (string, error)
	ListPatientFiles(ctx context.Context, patientID uuid.UUID, fileType string) ([]dto.FileResponse, error)
}

type fileUsecase struct {
	log             *logrus.Logger
	fileRepo        repository.FileRepository
	patientFileRepo repository.PatientFileRepository
	objectStorage   storage.ObjectStorage
	urlCache        cache.URLCache
}

func NewFileUsecase(
	log *logrus.Logger,
	fileRepo repository.FileRepository,
	patientFileRepo repository.PatientFileRepository,
	objectStorage storage.ObjectStorage,
	urlCache cache.URLCache,
) FileUsecase {
	return &fileUsecase{
		log:             log,
		fileRepo:        fileRepo,
		patientFileRepo: patientFileRepo,
		objectStorage:   objectStorage,
		urlCache:        urlCache,
	}
}

func (u *fileUsecase) Upload(ctx context.Context, upload *dto.UploadedFile, patientID uuid.UUID, fileType string, isPrimary bool) (*dto.FileResponse, error) {
	filename := uuid.NewString() + path.Ext(upload.OriginalName)

	if err := u.objectStorage.Upload(ctx, filename, upload.Reader, upload.Size, upload.ContentType); err != nil {
		u.log.Warnf("Failed to upload file %s to storage: %+v", upload.OriginalName, err)
		return nil, fmt.Errorf("storage upload failed: %w", err)
	}

	file := &entity.File{
		Filename:     filename,
		OriginalName: upload.OriginalName,
		MimeType:     upload.ContentType,
		SizeBytes:    upload.Size,
		StoragePath:  "minio:patients/" + filename,
		PublicURL:    u.objectStorage.PublicURL(filename),
	}

	if err := u.fileRepo.Create(ctx, file); err != nil {
		u.log.Warnf("Failed to save file record for %s: %+v", filename, err)
		return nil, err
	}

	if isPrimary {
		if err := u.patientFileRepo.DemotePrimary(ctx, patientID, fileType); err != nil {
			u.log.Warnf("Failed to demote prior primary files for patient %s: %+v", patientID, err)
			return nil, err
		}
	}

	link := &entity.PatientFile{
		PatientID: patientID,
		FileID:    file.ID,
		FileType:  fileType,
		IsPrimary: isPrimary,
	}

	if err := u.patientFileRepo.Create(ctx, link); err != nil {
		u.log.Warnf("Failed to link file %s to patient %s: %+v", file.ID, patientID, err)
		return nil, err
	}

	u.log.Infof("File %s uploaded for patient %s", file.ID, patientID)

	return &dto.FileResponse{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		PublicURL:    file.PublicURL,
		UploadedAt:   file.UploadedAt,
		FileType:     fileType,
		IsPrimary:    isPrimary,
	}, nil
}

func (u *fileUsecase) Download(ctx context.Context, filename string) (*DownloadedFile, error) {
	file, err := u.fileRepo.FindByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrFileNotFound
	}

	reader, err := u.objectStorage.Download(ctx, file.Filename)
	if err != nil {
		u.log.Warnf("Failed to download %s from storage: %+v", file.Filename, err)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &DownloadedFile{
		Reader:       reader,
		MimeType:     file.MimeType,
		OriginalName: file.OriginalName,
	}, nil
}

func (u *fileUsecase) Delete(ctx context.Context, patientID, fileID uuid.UUID) error {
	link, err := u.patientFileRepo.FindByPatientAndFile(ctx, patientID, fileID)
	if err != nil {
		return err
	}
	if link == nil {
		return ErrPatientFileNotFound
	}

	// Storage removal is best-effort; the database rows are authoritative.
	if link.File != nil {
		if err := u.objectStorage.Delete(ctx, link.File.Filename); err != nil {
			u.log.Warnf("Failed to delete %s from storage: %+v", link.File.Filename, err)
		}
	}

	if err := u.patientFileRepo.Delete(ctx, link.ID); err != nil {
		return err
	}

	remaining, err := u.patientFileRepo.CountByFile(ctx, fileID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := u.fileRepo.Delete(ctx, fileID); err != nil {
			return err
		}
	}

	u.log.Infof("File %s removed for patient %s", fileID, patientID)
	return nil
}

func (u *fileUsecase) PresignedURL(ctx context.Context, fileID uuid.UUID, expiry time.Duration) (string, error) {
	if u.urlCache != nil {
		if cached, err := u.urlCache.Get(ctx, fileID.String()); err != nil {
			u.log.Warnf("URL cache lookup failed for file %s: %+v", fileID, err)
		} else if cached != "" {
			return cached, nil
		}
	}

	file, err := u.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", nil
	}

	presigned, err := u.objectStorage.PresignedURL(ctx, file.Filename, expiry)
	if err != nil {
		u.log.Warnf("Failed to presign URL for %s, falling back to public URL: %+v", file.Filename, err)
		return file.PublicURL, nil
	}

	if u.urlCache != nil {
		// Cache for less than the URL lifetime so a hit never hands out a
		// URL about to expire.
		ttl := expiry - 5*time.Minute
		if ttl < time.Minute {
			ttl = time.Minute
		}
		if err := u.urlCache.Set(ctx, fileID.String(), presigned, ttl); err != nil {
			u.log.Warnf("Failed to cache presigned URL for file %s: %+v", fileID, err)
		}
	}

	return presigned, nil
}

func (u *fileUsecase) ListPatientFiles(ctx context.Context, patientID uuid.UUID, fileType string) ([]dto.FileResponse, error) {
	links, err := u.patientFileRepo.FindByPatient(ctx, patientID, fileType)
	if err != nil {
		return nil, err
	}
	return converter.PatientFilesToResponses(links), nil
}
