package repository

import (
	"context"
	"errors"
	"time"

	"patient-manager/internal/domain/entity"
	domainRepo "patient-manager/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type verificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) domainRepo.VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) Replace(ctx context.Context, patientID uuid.UUID, token *entity.VerificationToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("patient_id = ? AND used_at IS NULL", patientID).
			Delete(&entity.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *verificationTokenRepository) FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error) {
	var record entity.VerificationToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *verificationTokenRepository) Consume(ctx context.Context, token *entity.VerificationToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.VerificationToken{}).
			Where("id = ?", token.ID).
			Update("used_at", token.UsedAt).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Patient{}).
			Where("id = ?", token.PatientID).
			Update("is_email_verified", true).Error
	})
}

func (r *verificationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.VerificationToken{})
	return result.RowsAffected, result.Error
}
