package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/domain/entity"
	"patient-manager/internal/infrastructure/storage"

	"github.com/google/uuid"
)

// fakeFileRepository is an in-memory FileRepository.
type fakeFileRepository struct {
	mu    sync.Mutex
	files map[uuid.UUID]*entity.File
}

func newFakeFileRepository() *fakeFileRepository {
	return &fakeFileRepository{files: make(map[uuid.UUID]*entity.File)}
}

func (r *fakeFileRepository) Create(ctx context.Context, file *entity.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	file.UploadedAt = time.Now()
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *fakeFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, nil
	}
	clone := *f
	return &clone, nil
}

func (r *fakeFileRepository) FindByFilename(ctx context.Context, filename string) (*entity.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.Filename == filename {
			clone := *f
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

// fakePatientFileRepository is an in-memory PatientFileRepository.
type fakePatientFileRepository struct {
	mu    sync.Mutex
	links map[uuid.UUID]*entity.PatientFile
	files *fakeFileRepository
}

func newFakePatientFileRepository(files *fakeFileRepository) *fakePatientFileRepository {
	return &fakePatientFileRepository{
		links: make(map[uuid.UUID]*entity.PatientFile),
		files: files,
	}
}

func (r *fakePatientFileRepository) Create(ctx context.Context, link *entity.PatientFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	link.CreatedAt = time.Now()
	clone := *link
	r.links[link.ID] = &clone
	return nil
}

func (r *fakePatientFileRepository) FindByPatientAndFile(ctx context.Context, patientID, fileID uuid.UUID) (*entity.PatientFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.PatientID == patientID && l.FileID == fileID {
			clone := *l
			clone.File, _ = r.files.FindByID(ctx, l.FileID)
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePatientFileRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, fileType string) ([]entity.PatientFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PatientFile
	for _, l := range r.links {
		if l.PatientID != patientID {
			continue
		}
		if fileType != "" && l.FileType != fileType {
			continue
		}
		clone := *l
		clone.File, _ = r.files.FindByID(ctx, l.FileID)
		out = append(out, clone)
	}
	return out, nil
}

func (r *fakePatientFileRepository) DemotePrimary(ctx context.Context, patientID uuid.UUID, fileType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.PatientID == patientID && l.FileType == fileType {
			l.IsPrimary = false
		}
	}
	return nil
}

func (r *fakePatientFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, id)
	return nil
}

func (r *fakePatientFileRepository) CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, l := range r.links {
		if l.FileID == fileID {
			count++
		}
	}
	return count, nil
}

// fakeObjectStorage holds uploaded objects in memory.
type fakeObjectStorage struct {
	mu          sync.Mutex
	objects     map[string][]byte
	presignErr  error
	downloadErr error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (s *fakeObjectStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = data
	return nil
}

func (s *fakeObjectStorage) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	data, ok := s.objects[objectName]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeObjectStorage) Delete(ctx context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	return nil
}

func (s *fakeObjectStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "http://minio.local/signed/" + objectName, nil
}

func (s *fakeObjectStorage) PublicURL(objectName string) string {
	return "http://minio.local/public/" + objectName
}

// fakeURLCache is an in-memory URLCache (TTL recorded, not enforced).
type fakeURLCache struct {
	mu      sync.Mutex
	entries map[string]string
	lastTTL time.Duration
}

func newFakeURLCache() *fakeURLCache {
	return &fakeURLCache{entries: make(map[string]string)}
}

func (c *fakeURLCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *fakeURLCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.lastTTL = ttl
	return nil
}

type fileFixture struct {
	files   *fakeFileRepository
	links   *fakePatientFileRepository
	storage *fakeObjectStorage
	cache   *fakeURLCache
	uc      FileUsecase
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	files := newFakeFileRepository()
	links := newFakePatientFileRepository(files)
	storage := newFakeObjectStorage()
	cache := newFakeURLCache()
	return &fileFixture{
		files:   files,
		links:   links,
		storage: storage,
		cache:   cache,
		uc:      NewFileUsecase(testLogger(), files, links, storage, cache),
	}
}

func (f *fileFixture) upload(t *testing.T, patientID uuid.UUID, name, fileType string, isPrimary bool) *dto.FileResponse {
	t.Helper()
	resp, err := f.uc.Upload(context.Background(), &dto.UploadedFile{
		OriginalName: name,
		ContentType:  "image/png",
		Size:         4,
		Reader:       strings.NewReader("data"),
	}, patientID, fileType, isPrimary)
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return resp
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresObjectAndRows", func(t *testing.T) {
		f := newFileFixture(t)
		patientID := uuid.New()

		resp := f.upload(t, patientID, "id.png", entity.FileTypeIDPhoto, true)
		if resp.ID == uuid.Nil {
			t.Fatal("expected a file id")
		}
		if !strings.HasSuffix(resp.PublicURL, ".png") {
			t.Fatalf("public url %q should keep the extension", resp.PublicURL)
		}

		stored, err := f.files.FindByID(ctx, resp.ID)
		if err != nil || stored == nil {
			t.Fatalf("file row missing: %v", err)
		}
		if stored.OriginalName != "id.png" {
			t.Fatalf("original name = %q", stored.OriginalName)
		}
		if _, ok := f.storage.objects[stored.Filename]; !ok {
			t.Fatal("object missing from storage")
		}
	})

	t.Run("NewPrimaryDemotesOld", func(t *testing.T) {
		f := newFileFixture(t)
		patientID := uuid.New()

		first := f.upload(t, patientID, "old.png", entity.FileTypeIDPhoto, true)
		second := f.upload(t, patientID, "new.png", entity.FileTypeIDPhoto, true)

		listed, err := f.uc.ListPatientFiles(ctx, patientID, entity.FileTypeIDPhoto)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("expected two files, got %d", len(listed))
		}
		for _, item := range listed {
			switch item.ID {
			case first.ID:
				if item.IsPrimary {
					t.Fatal("old primary should be demoted")
				}
			case second.ID:
				if !item.IsPrimary {
					t.Fatal("new upload should be primary")
				}
			}
		}
	})
}

func TestDownloadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		f := newFileFixture(t)
		resp := f.upload(t, uuid.New(), "record.pdf", entity.FileTypeMedicalRecord, false)

		stored, _ := f.files.FindByID(ctx, resp.ID)
		downloaded, err := f.uc.Download(ctx, stored.Filename)
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		defer downloaded.Reader.Close()

		if downloaded.OriginalName != "record.pdf" {
			t.Fatalf("original name = %q", downloaded.OriginalName)
		}
		data, _ := io.ReadAll(downloaded.Reader)
		if string(data) != "data" {
			t.Fatalf("content = %q", data)
		}
	})

	t.Run("UnknownFilename", func(t *testing.T) {
		f := newFileFixture(t)
		if _, err := f.uc.Download(ctx, "nope.png"); err != ErrFileNotFound {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("ObjectMissingFromStorage", func(t *testing.T) {
		f := newFileFixture(t)
		resp := f.upload(t, uuid.New(), "id.png", entity.FileTypeIDPhoto, false)

		// The database row survives but the object is gone from the store.
		stored, _ := f.files.FindByID(ctx, resp.ID)
		f.storage.mu.Lock()
		delete(f.storage.objects, stored.Filename)
		f.storage.mu.Unlock()

		if _, err := f.uc.Download(ctx, stored.Filename); err != ErrFileNotFound {
			t.Fatalf("expected ErrFileNotFound for a vanished object, got %v", err)
		}
	})

	t.Run("StorageFaultIsNotANotFound", func(t *testing.T) {
		f := newFileFixture(t)
		resp := f.upload(t, uuid.New(), "id.png", entity.FileTypeIDPhoto, false)
		f.storage.downloadErr = errors.New("connection refused")

		stored, _ := f.files.FindByID(ctx, resp.ID)
		_, err := f.uc.Download(ctx, stored.Filename)
		if err == nil {
			t.Fatal("expected an error when storage is unreachable")
		}
		if err == ErrFileNotFound {
			t.Fatal("an unreachable store must not masquerade as a missing file")
		}
	})
}

func TestDeleteFile(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesLinkObjectAndOrphanRow", func(t *testing.T) {
		f := newFileFixture(t)
		patientID := uuid.New()
		resp := f.upload(t, patientID, "id.png", entity.FileTypeIDPhoto, false)

		if err := f.uc.Delete(ctx, patientID, resp.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}

		if row, _ := f.files.FindByID(ctx, resp.ID); row != nil {
			t.Fatal("orphaned file row should be removed")
		}
		if len(f.storage.objects) != 0 {
			t.Fatal("object should be removed from storage")
		}
	})

	t.Run("UnknownLink", func(t *testing.T) {
		f := newFileFixture(t)
		if err := f.uc.Delete(ctx, uuid.New(), uuid.New()); err != ErrPatientFileNotFound {
			t.Fatalf("expected ErrPatientFileNotFound, got %v", err)
		}
	})
}

func TestPresignedURL(t *testing.T) {
	ctx := context.Background()

	t.Run("CachesGeneratedURL", func(t *testing.T) {
		f := newFileFixture(t)
		resp := f.upload(t, uuid.New(), "id.png", entity.FileTypeIDPhoto, false)

		url, err := f.uc.PresignedURL(ctx, resp.ID, time.Hour)
		if err != nil {
			t.Fatalf("presign: %v", err)
		}
		if !strings.Contains(url, "/signed/") {
			t.Fatalf("url = %q", url)
		}
		if f.cache.entries[resp.ID.String()] != url {
			t.Fatal("url should be cached under the file id")
		}
		if f.cache.lastTTL != 55*time.Minute {
			t.Fatalf("cache ttl = %v, want 55m", f.cache.lastTTL)
		}

		// Poison the storage; a second lookup must come from the cache.
		f.storage.presignErr = errors.New("minio unavailable")
		again, err := f.uc.PresignedURL(ctx, resp.ID, time.Hour)
		if err != nil || again != url {
			t.Fatalf("expected cached url, got %q err %v", again, err)
		}
	})

	t.Run("FallsBackToPublicURL", func(t *testing.T) {
		f := newFileFixture(t)
		resp := f.upload(t, uuid.New(), "id.png", entity.FileTypeIDPhoto, false)
		f.storage.presignErr = errors.New("minio unavailable")

		url, err := f.uc.PresignedURL(ctx, resp.ID, time.Hour)
		if err != nil {
			t.Fatalf("presign: %v", err)
		}
		if !strings.Contains(url, "/public/") {
			t.Fatalf("url = %q, want public fallback", url)
		}
	})

	t.Run("MissingFileIsEmptyNotError", func(t *testing.T) {
		f := newFileFixture(t)
		url, err := f.uc.PresignedURL(ctx, uuid.New(), time.Hour)
		if err != nil || url != "" {
			t.Fatalf("got %q, %v; want empty url and nil error", url, err)
		}
	})
}
