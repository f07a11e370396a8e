package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"patient-manager/internal/domain/entity"
	"patient-manager/internal/domain/repository"
	"patient-manager/internal/provider"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// testLogger discards output so test runs stay quiet.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// fakePatientRepository is an in-memory PatientRepository.
type fakePatientRepository struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepository() *fakePatientRepository {
	return &fakePatientRepository{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (r *fakePatientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	clone := *patient
	r.patients[patient.ID] = &clone
	return nil
}

func (r *fakePatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || p.IsDeleted {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePatientRepository) FindDeletedByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || !p.IsDeleted {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePatientRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Email == email && !p.IsDeleted {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepository) FindPage(ctx context.Context, params repository.PatientListParams) ([]entity.Patient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []entity.Patient
	for _, p := range r.patients {
		if !p.IsDeleted {
			active = append(active, *p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	total := int64(len(active))
	start := (params.Page - 1) * params.Limit
	if start >= len(active) {
		return nil, total, nil
	}
	end := start + params.Limit
	if end > len(active) {
		end = len(active)
	}
	return active[start:end], total, nil
}

func (r *fakePatientRepository) FindDeleted(ctx context.Context) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted []entity.Patient
	for _, p := range r.patients {
		if p.IsDeleted {
			deleted = append(deleted, *p)
		}
	}
	return deleted, nil
}

func (r *fakePatientRepository) FindAllIncludingDeleted(ctx context.Context) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []entity.Patient
	for _, p := range r.patients {
		all = append(all, *p)
	}
	return all, nil
}

func (r *fakePatientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient.UpdatedAt = time.Now()
	clone := *patient
	r.patients[patient.ID] = &clone
	return nil
}

// fakeTokenRepository is an in-memory VerificationTokenRepository backed by
// the patient repository so Consume can flip the verified flag.
type fakeTokenRepository struct {
	mu       sync.Mutex
	tokens   map[uuid.UUID]*entity.VerificationToken
	patients *fakePatientRepository
}

func newFakeTokenRepository(patients *fakePatientRepository) *fakeTokenRepository {
	return &fakeTokenRepository{
		tokens:   make(map[uuid.UUID]*entity.VerificationToken),
		patients: patients,
	}
}

func (r *fakeTokenRepository) Replace(ctx context.Context, patientID uuid.UUID, token *entity.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.PatientID == patientID && t.UsedAt == nil {
			delete(r.tokens, id)
		}
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.ID] = &clone
	return nil
}

func (r *fakeTokenRepository) FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepository) Consume(ctx context.Context, token *entity.VerificationToken) error {
	r.mu.Lock()
	clone := *token
	r.tokens[token.ID] = &clone
	r.mu.Unlock()

	r.patients.mu.Lock()
	defer r.patients.mu.Unlock()
	if p, ok := r.patients.patients[token.PatientID]; ok {
		p.IsEmailVerified = true
	}
	return nil
}

func (r *fakeTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepository) CountUnusedByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.tokens {
		if t.PatientID == patientID && t.UsedAt == nil {
			count++
		}
	}
	return count, nil
}

// fakeNotificationRepository is an in-memory NotificationRepository.
type fakeNotificationRepository struct {
	mu            sync.Mutex
	notifications []entity.Notification
	failCreate    bool
}

func newFakeNotificationRepository() *fakeNotificationRepository {
	return &fakeNotificationRepository{}
}

func (r *fakeNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return context.DeadlineExceeded
	}
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepository) FindRecent(ctx context.Context, limit int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.notifications)
	if limit > n {
		limit = n
	}
	out := make([]entity.Notification, limit)
	for i := 0; i < limit; i++ {
		out[i] = r.notifications[n-1-i]
	}
	return out, nil
}

func (r *fakeNotificationRepository) FindByRecipientEmail(ctx context.Context, email string, limit int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Notification
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if r.notifications[i].RecipientEmail == email {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepository) all() []entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// fakeProvider is a scriptable provider.Provider.
type fakeProvider struct {
	channel     provider.Channel
	validateAll bool
	result      provider.Result
	err         error

	mu    sync.Mutex
	sends []provider.SendOptions
}

func (p *fakeProvider) Channel() provider.Channel {
	return p.channel
}

func (p *fakeProvider) ValidateRecipient(recipient provider.Recipient) bool {
	return p.validateAll
}

func (p *fakeProvider) Send(ctx context.Context, opts provider.SendOptions) (provider.Result, error) {
	p.mu.Lock()
	p.sends = append(p.sends, opts)
	p.mu.Unlock()
	return p.result, p.err
}

func (p *fakeProvider) sentOptions() []provider.SendOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]provider.SendOptions, len(p.sends))
	copy(out, p.sends)
	return out
}
