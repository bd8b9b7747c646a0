package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"esport-accounts/apperrors"
	"esport-accounts/logger"
	otpModel "esport-accounts/models/otp"
	"esport-accounts/repository"

	"github.com/jinzhu/now"
)

// Sender delivers a code to an email address. Delivery is best-effort and is
// always called outside any storage transaction.
type Sender interface {
	SendOTP(ctx context.Context, email, code string) error
}

const sendTimeout = 10 * time.Second

// Service is the OTP ledger: it generates, persists and invalidates one-time
// codes per email.
type Service struct {
	otps   repository.OTPRepository
	users  repository.UserRepository
	sender Sender

	ttl      time.Duration
	cooldown time.Duration

	// generate is swappable in tests.
	generate func() (string, error)
}

// NewService creates a ledger with the default TTL and resend cooldown.
func NewService(otps repository.OTPRepository, users repository.UserRepository, sender Sender) *Service {
	return &Service{
		otps:     otps,
		users:    users,
		sender:   sender,
		ttl:      otpModel.DefaultTTL,
		cooldown: otpModel.DefaultResendCooldown,
		generate: GenerateCode,
	}
}

// GenerateCode returns a zero-padded 6-digit code from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpModel.CodeLength, n.Int64()), nil
}

// Issue invalidates all unconsumed codes for the email, persists a fresh one
// and emails it. If the send fails the new record is deleted so no
// valid-but-undelivered code lingers.
func (s *Service) Issue(ctx context.Context, email string) error {
	code, err := s.generate()
	if err != nil {
		return err
	}

	record, err := s.otps.Issue(ctx, email, code)
	if err != nil {
		return err
	}

	// Stale records from before yesterday are dead weight either way;
	// purge them opportunistically.
	if err := s.otps.PurgeBefore(ctx, now.New(time.Now()).BeginningOfDay().AddDate(0, 0, -1)); err != nil {
		logger.Warning("Failed to purge stale OTP records: " + err.Error())
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.sender.SendOTP(sendCtx, email, code); err != nil {
		logger.Error("Failed to send OTP email", err)
		if delErr := s.otps.Delete(ctx, record.ID); delErr != nil {
			logger.Error("Failed to roll back undelivered OTP", delErr)
		}
		return apperrors.ErrNotificationFailure
	}
	return nil
}

// Verify checks the code against the newest unconsumed record for the email.
// Success consumes the record, so a replay with the same arguments fails.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	record, err := s.otps.Latest(ctx, email)
	if err != nil {
		return err
	}
	if record == nil {
		return apperrors.ErrOTPNotFound
	}

	if record.IsExpired(s.ttl) {
		// Expired codes are not resurrectable; consume as a side effect.
		if _, err := s.otps.Consume(ctx, record.ID); err != nil {
			return err
		}
		return apperrors.ErrOTPExpired
	}

	// Exact string comparison, no normalization.
	if record.Code != code {
		return apperrors.ErrOTPMismatch
	}

	won, err := s.otps.Consume(ctx, record.ID)
	if err != nil {
		return err
	}
	if !won {
		// A concurrent verify consumed it first.
		return apperrors.ErrOTPNotFound
	}
	return nil
}

// Resend re-issues a code unless the account is already verified or a code
// was issued within the cooldown window. The cooldown check runs before any
// new issue to prevent OTP flooding.
func (s *Service) Resend(ctx context.Context, email string) error {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrNoAccountForEmail
		}
		return err
	}
	if account.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	latest, err := s.otps.LatestAny(ctx, email)
	if err != nil {
		return err
	}
	if latest != nil && time.Since(latest.CreatedAt) < s.cooldown {
		return apperrors.ErrResendCooldown
	}

	return s.Issue(ctx, email)
}
