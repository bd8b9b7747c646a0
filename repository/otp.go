package repository

import (
	"context"
	"errors"
	"time"

	"esport-accounts/models/otp"

	"gorm.io/gorm"
)

// OTPRepository owns one-time code records.
type OTPRepository interface {
	// Issue consumes every unconsumed record for the email and inserts a
	// fresh one, atomically, so a concurrent verify never sees two active
	// codes.
	Issue(ctx context.Context, email, code string) (*otp.OTP, error)
	// Latest returns the newest unconsumed record, or nil when none exists.
	Latest(ctx context.Context, email string) (*otp.OTP, error)
	// LatestAny returns the newest record regardless of consumed state; the
	// resend cooldown is computed from it.
	LatestAny(ctx context.Context, email string) (*otp.OTP, error)
	// Consume flips the consumed flag with a compare-and-set and reports
	// whether this call won the flip.
	Consume(ctx context.Context, id uint) (bool, error)
	// Delete removes a record outright (rollback of an undelivered code).
	Delete(ctx context.Context, id uint) error
	// PurgeBefore drops records created before the cutoff.
	PurgeBefore(ctx context.Context, cutoff time.Time) error
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Issue(ctx context.Context, email, code string) (*otp.OTP, error) {
	record := &otp.OTP{Email: email, Code: code}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&otp.OTP{}).
			Where("email = ? AND consumed = false", email).
			Update("consumed", true).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *otpRepository) Latest(ctx context.Context, email string) (*otp.OTP, error) {
	var record otp.OTP
	err := r.db.WithContext(ctx).
		Where("email = ? AND consumed = false", email).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *otpRepository) LatestAny(ctx context.Context, email string) (*otp.OTP, error) {
	var record otp.OTP
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *otpRepository) Consume(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&otp.OTP{}).
		Where("id = ? AND consumed = false", id).
		Update("consumed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *otpRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&otp.OTP{}, "id = ?", id).Error
}

func (r *otpRepository) PurgeBefore(ctx context.Context, cutoff time.Time) error {
	return r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&otp.OTP{}).Error
}
