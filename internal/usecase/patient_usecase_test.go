package usecase

import (
	"context"
	"testing"
	"time"

	"patient-manager/internal/delivery/dto"

	"github.com/google/uuid"
)

// fakeFileUsecase records upload calls and serves canned URLs.
type fakeFileUsecase struct {
	uploads      int
	uploadedID   uuid.UUID
	presignedURL string
}

func (f *fakeFileUsecase) Upload(ctx context.Context, upload *dto.UploadedFile, patientID uuid.UUID, fileType string, isPrimary bool) (*dto.FileResponse, error) {
	f.uploads++
	f.uploadedID = uuid.New()
	return &dto.FileResponse{ID: f.uploadedID, OriginalName: upload.OriginalName, FileType: fileType, IsPrimary: isPrimary}, nil
}

func (f *fakeFileUsecase) Download(ctx context.Context, filename string) (*DownloadedFile, error) {
	return nil, ErrFileNotFound
}

func (f *fakeFileUsecase) Delete(ctx context.Context, patientID, fileID uuid.UUID) error {
	return nil
}

func (f *fakeFileUsecase) PresignedURL(ctx context.Context, fileID uuid.UUID, expiry time.Duration) (string, error) {
	return f.presignedURL, nil
}

func (f *fakeFileUsecase) ListPatientFiles(ctx context.Context, patientID uuid.UUID, fileType string) ([]dto.FileResponse, error) {
	return nil, nil
}

// fakeVerificationSender counts initial-verification dispatches.
type fakeVerificationSender struct {
	VerificationUsecase
	initialSends []uuid.UUID
}

func (f *fakeVerificationSender) SendInitialVerification(ctx context.Context, patientID uuid.UUID) (string, error) {
	f.initialSends = append(f.initialSends, patientID)
	return "Verification notification sent successfully", nil
}

type patientFixture struct {
	repo         *fakePatientRepository
	files        *fakeFileUsecase
	verification *fakeVerificationSender
	uc           PatientUsecase
}

func newPatientFixture(t *testing.T) *patientFixture {
	t.Helper()
	repo := newFakePatientRepository()
	files := &fakeFileUsecase{presignedURL: "http://minio.local/patients/doc.png"}
	verification := &fakeVerificationSender{}
	return &patientFixture{
		repo:         repo,
		files:        files,
		verification: verification,
		uc:           NewPatientUsecase(testLogger(), repo, files, verification),
	}
}

func TestCreatePatient(t *testing.T) {
	ctx := context.Background()

	t.Run("NormalizesEmailAndSendsVerification", func(t *testing.T) {
		f := newPatientFixture(t)

		created, err := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name:        "  Jane Roe ",
			Email:       "  Jane.Roe@Example.COM ",
			PhoneNumber: "+1 555 123 4567",
		}, nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.Email != "jane.roe@example.com" {
			t.Fatalf("email not normalized: %q", created.Email)
		}
		if created.Name != "Jane Roe" {
			t.Fatalf("name not trimmed: %q", created.Name)
		}
		if len(f.verification.initialSends) != 1 || f.verification.initialSends[0] != created.ID {
			t.Fatal("initial verification should be dispatched once for the new patient")
		}
	})

	t.Run("ActiveEmailConflict", func(t *testing.T) {
		f := newPatientFixture(t)
		req := &dto.CreatePatientRequest{Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567"}
		if _, err := f.uc.Create(ctx, req, nil); err != nil {
			t.Fatalf("first create: %v", err)
		}

		// The conflict matches case-insensitively.
		req2 := &dto.CreatePatientRequest{Name: "Other", Email: "JANE@example.com", PhoneNumber: "5559876543"}
		if _, err := f.uc.Create(ctx, req2, nil); err != ErrEmailConflict {
			t.Fatalf("expected ErrEmailConflict, got %v", err)
		}
	})

	t.Run("DeletedEmailStillBlocks", func(t *testing.T) {
		f := newPatientFixture(t)
		created, err := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567",
		}, nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := f.uc.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}

		_, err = f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "Other", Email: "jane@example.com", PhoneNumber: "5559876543",
		}, nil)
		if err != ErrEmailConflictDeleted {
			t.Fatalf("expected ErrEmailConflictDeleted, got %v", err)
		}
	})

	t.Run("AttachesDocument", func(t *testing.T) {
		f := newPatientFixture(t)
		created, err := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567",
		}, &dto.UploadedFile{OriginalName: "id.png", ContentType: "image/png"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if f.files.uploads != 1 {
			t.Fatalf("expected one upload, got %d", f.files.uploads)
		}
		if created.DocumentFileID == nil || *created.DocumentFileID != f.files.uploadedID {
			t.Fatal("document file should be linked to the patient")
		}
	})
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture(t)

	created, err := f.uc.Create(ctx, &dto.CreatePatientRequest{
		Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567",
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.uc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Deleted patients disappear from the active lookups.
	if _, err := f.uc.Get(ctx, created.ID); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound after delete, got %v", err)
	}

	// But remain in the deleted listing.
	deleted, err := f.uc.ListDeleted(ctx)
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != created.ID {
		t.Fatalf("expected one deleted patient, got %+v", deleted)
	}

	// Deleting twice is a not-found, the row is already invisible.
	if err := f.uc.Delete(ctx, created.ID); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound on double delete, got %v", err)
	}

	restored, err := f.uc.Restore(ctx, created.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.IsDeleted {
		t.Fatal("restored patient should be active")
	}

	if _, err := f.uc.Get(ctx, created.ID); err != nil {
		t.Fatalf("get after restore: %v", err)
	}

	// Restoring an active patient is a not-found on the deleted lookup.
	if _, err := f.uc.Restore(ctx, created.ID); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound on double restore, got %v", err)
	}
}

func TestUpdatePatient(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialUpdate", func(t *testing.T) {
		f := newPatientFixture(t)
		created, _ := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567",
		}, nil)

		updated, err := f.uc.Update(ctx, created.ID, &dto.UpdatePatientRequest{Name: "Jane Roe"})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "Jane Roe" {
			t.Fatalf("name = %q", updated.Name)
		}
		if updated.Email != "jane@example.com" {
			t.Fatalf("email should be untouched, got %q", updated.Email)
		}
	})

	t.Run("EmailConflictWithOtherPatient", func(t *testing.T) {
		f := newPatientFixture(t)
		f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567",
		}, nil)
		other, _ := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "John", Email: "john@example.com", PhoneNumber: "5559876543",
		}, nil)

		_, err := f.uc.Update(ctx, other.ID, &dto.UpdatePatientRequest{Email: "jane@example.com"})
		if err != ErrEmailConflict {
			t.Fatalf("expected ErrEmailConflict, got %v", err)
		}
	})

	t.Run("KeepingOwnEmailIsNotAConflict", func(t *testing.T) {
		f := newPatientFixture(t)
		created, _ := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234567",
		}, nil)

		if _, err := f.uc.Update(ctx, created.ID, &dto.UpdatePatientRequest{Email: "Jane@Example.com"}); err != nil {
			t.Fatalf("re-submitting own email should succeed, got %v", err)
		}
	})

	t.Run("UnknownPatient", func(t *testing.T) {
		f := newPatientFixture(t)
		if _, err := f.uc.Update(ctx, uuid.New(), &dto.UpdatePatientRequest{Name: "X"}); err != ErrPatientNotFound {
			t.Fatalf("expected ErrPatientNotFound, got %v", err)
		}
	})
}

func TestListPatients(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture(t)

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		if _, err := f.uc.Create(ctx, &dto.CreatePatientRequest{
			Name: "P", Email: email, PhoneNumber: "5551234567",
		}, nil); err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}

	list, err := f.uc.List(ctx, dto.PaginationQuery{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 3 {
		t.Fatalf("total = %d, want 3", list.Total)
	}
	if len(list.Patients) != 2 {
		t.Fatalf("page size = %d, want 2", len(list.Patients))
	}

	second, err := f.uc.List(ctx, dto.PaginationQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Patients) != 1 {
		t.Fatalf("second page size = %d, want 1", len(second.Patients))
	}
}
