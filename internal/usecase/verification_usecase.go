package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"patient-manager/internal/domain/entity"
	"patient-manager/internal/domain/repository"
	"patient-manager/pkg/token"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidToken         = errors.New("invalid verification token")
	ErrTokenAlreadyUsed     = errors.New("verification token has already been used")
	ErrTokenExpired         = errors.New("verification token has expired")
	ErrEmailAlreadyVerified = errors.New("email is already verified")
)

type VerificationUsecase interface {
	// GenerateToken issues a fresh token for the patient, invalidating any
	// prior unused ones, and returns the raw token string.
	GenerateToken(ctx context.Context, patientID uuid.UUID) (string, error)
	// VerifyEmail consumes a token and marks the owning patient's email
	// verified. Invalid, used and expired tokens fail with distinct errors.
	VerifyEmail(ctx context.Context, tok string) (string, error)
	// ResendVerification issues and dispatches a new token for the active
	// patient with the given email. Already-verified patients are an error.
	ResendVerification(ctx context.Context, email string) (string, error)
	// SendInitialVerification is the creation-time variant of resend, keyed
	// by id. An already-verified patient is a harmless no-op, not an error.
	SendInitialVerification(ctx context.Context, patientID uuid.UUID) (string, error)
	// CleanupExpiredTokens removes every expired token, used or not.
	CleanupExpiredTokens(ctx context.Context) error
}

type verificationUsecase struct {
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	tokenRepo      repository.VerificationTokenRepository
	notificationUC NotificationUsecase
	tokenTTL       time.Duration
}

func NewVerificationUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	tokenRepo repository.VerificationTokenRepository,
	notificationUC NotificationUsecase,
	tokenTTL time.Duration,
) VerificationUsecase {
	return &verificationUsecase{
		log:            log,
		patientRepo:    patientRepo,
		tokenRepo:      tokenRepo,
		notificationUC: notificationUC,
		tokenTTL:       tokenTTL,
	}
}

func (u *verificationUsecase) GenerateToken(ctx context.Context, patientID uuid.UUID) (string, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return "", err
	}
	if patient == nil {
		return "", ErrPatientNotFound
	}

	tok, err := token.Generate()
	if err != nil {
		return "", err
	}

	record := &entity.VerificationToken{
		Token:     tok,
		PatientID: patientID,
		ExpiresAt: time.Now().Add(u.tokenTTL),
	}

	if err := u.tokenRepo.Replace(ctx, patientID, record); err != nil {
		u.log.Warnf("Failed to store verification token for patient %s: %+v", patientID, err)
		return "", err
	}

	u.log.Infof("Verification token generated for patient %s", patientID)
	return tok, nil
}

func (u *verificationUsecase) VerifyEmail(ctx context.Context, tok string) (string, error) {
	record, err := u.tokenRepo.FindByToken(ctx, tok)
	if err != nil {
		u.log.Warnf("Failed to look up verification token: %+v", err)
		return "", err
	}
	if record == nil {
		return "", ErrInvalidToken
	}

	if record.IsUsed() {
		return "", ErrTokenAlreadyUsed
	}

	now := time.Now()
	if record.IsExpired(now) {
		return "", ErrTokenExpired
	}

	record.UsedAt = &now
	if err := u.tokenRepo.Consume(ctx, record); err != nil {
		u.log.Warnf("Failed to consume verification token for patient %s: %+v", record.PatientID, err)
		return "", err
	}

	u.log.Infof("Email verified for patient %s", record.PatientID)
	return "Email verified successfully", nil
}

func (u *verificationUsecase) ResendVerification(ctx context.Context, email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	patient, err := u.patientRepo.FindActiveByEmail(ctx, normalized)
	if err != nil {
		u.log.Warnf("Failed to find patient by email: %+v", err)
		return "", err
	}
	if patient == nil {
		return "", ErrPatientNotFound
	}

	if patient.IsEmailVerified {
		return "", ErrEmailAlreadyVerified
	}

	if err := u.issueAndDispatch(ctx, patient); err != nil {
		return "", err
	}

	u.log.Infof("Verification notification resent for %s", normalized)
	return "Verification notification sent successfully", nil
}

func (u *verificationUsecase) SendInitialVerification(ctx context.Context, patientID uuid.UUID) (string, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return "", err
	}
	if patient == nil {
		return "", ErrPatientNotFound
	}

	// A patient verified between creation and this call is a harmless race,
	// not a failure.
	if patient.IsEmailVerified {
		u.log.Warnf("Patient %s email is already verified", patientID)
		return "Email is already verified", nil
	}

	if err := u.issueAndDispatch(ctx, patient); err != nil {
		return "", err
	}

	u.log.Infof("Initial verification notification sent for patient %s", patientID)
	return "Verification notification sent successfully", nil
}

func (u *verificationUsecase) issueAndDispatch(ctx context.Context, patient *entity.Patient) error {
	tok, err := u.GenerateToken(ctx, patient.ID)
	if err != nil {
		return err
	}

	u.notificationUC.SendVerification(ctx, patient.Email, tok, patient.Name, patient.PhoneNumber)
	return nil
}

func (u *verificationUsecase) CleanupExpiredTokens(ctx context.Context) error {
	deleted, err := u.tokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		u.log.Warnf("Failed to clean up expired verification tokens: %+v", err)
		return err
	}
	if deleted > 0 {
		u.log.Infof("Cleaned up %d expired verification tokens", deleted)
	}
	return nil
}
