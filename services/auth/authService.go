package auth

import (
	"context"
	"errors"
	"time"

	"esport-accounts/apperrors"
	"esport-accounts/logger"
	userModel "esport-accounts/models/user"
	"esport-accounts/repository"
	otpService "esport-accounts/services/otp"
	"esport-accounts/services/token"
	authTypes "esport-accounts/types/auth"
	"esport-accounts/utils"

	"github.com/google/uuid"
)

// Service orchestrates the account state transitions: registration, OTP
// verification, login, logout, password reset and profile updates. All
// dependencies are injected; there is no package-level state.
type Service struct {
	users  repository.UserRepository
	otp    *otpService.Service
	tokens *token.Issuer
}

func NewService(users repository.UserRepository, otp *otpService.Service, tokens *token.Issuer) *Service {
	return &Service{users: users, otp: otp, tokens: tokens}
}

// Register creates an unverified account and dispatches the first OTP. The
// account row always commits; a failed OTP email is reported so the caller
// can fall back to resend, but never rolls the account back.
func (s *Service) Register(ctx context.Context, req *authTypes.RegisterRequest) (*userModel.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &userModel.User{
		UUID:        uuid.NewString(),
		Email:       userModel.NormalizeEmail(req.Email),
		Password:    hashed,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		IsOrganizer: req.IsOrganizer,
		IsVerified:  false,
		Role:        userModel.DeriveRole(false, req.IsOrganizer),
	}

	if err := s.users.Create(ctx, account); err != nil {
		return nil, err
	}
	logger.Success("User registered: " + account.Email)

	if err := s.otp.Issue(ctx, account.Email); err != nil {
		return account, err
	}
	return account, nil
}

// VerifyOTP consumes the code and flips the account to verified. The ledger
// is keyed by email and may race account creation, so a missing account does
// not fail verification; the flag simply stays unflipped. On success a
// single-use password-reset grant is returned.
func (s *Service) VerifyOTP(ctx context.Context, req *authTypes.VerifyOTPRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	email := userModel.NormalizeEmail(req.Email)

	if err := s.otp.Verify(ctx, email, req.OTP); err != nil {
		return "", err
	}

	account, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !account.IsVerified {
			account.IsVerified = true
			account.Role = userModel.DeriveRole(account.IsSuperuser, account.IsOrganizer)
			if err := s.users.Update(ctx, account); err != nil {
				return "", err
			}
			logger.Success("Account verified: " + email)
		}
	case errors.Is(err, apperrors.ErrUserNotFound):
		logger.Warning("OTP verified for email without an account: " + email)
	default:
		return "", err
	}

	return s.tokens.IssueResetGrant(ctx, email)
}

// ResendOTP delegates to the ledger, which owns the cooldown and
// already-verified checks.
func (s *Service) ResendOTP(ctx context.Context, req *authTypes.ResendOTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.otp.Resend(ctx, userModel.NormalizeEmail(req.Email))
}

// Login checks credentials and mints a token pair. Unknown email and wrong
// password collapse into the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, req *authTypes.LoginRequest) (*token.Pair, *userModel.User, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	account, err := s.users.GetByEmail(ctx, userModel.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !utils.CheckPassword(account.Password, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !account.IsVerified {
		return nil, nil, apperrors.ErrNotVerified
	}

	nowTime := time.Now()
	account.LastLoginAt = &nowTime
	if err := s.users.Update(ctx, account); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(account)
	if err != nil {
		return nil, nil, err
	}
	logger.Success("User logged in: " + account.Email)
	return pair, account, nil
}

// Logout revokes the refresh token. Revoking an already-revoked token is a
// no-op; a malformed token is rejected.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.ErrMissingToken
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

// Refresh exchanges a live refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrMissingToken
	}
	return s.tokens.Refresh(ctx, refreshToken, func(id string) (*userModel.User, error) {
		return s.users.GetByUUID(ctx, id)
	})
}

// ResetPassword burns the grant and stores the new hash. Input checks run
// before the grant is consumed so malformed requests do not waste it.
func (s *Service) ResetPassword(ctx context.Context, req *authTypes.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		return apperrors.ErrWeakPassword
	}

	email, err := s.tokens.ConsumeResetGrant(ctx, req.Grant)
	if err != nil {
		return err
	}

	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	account.Password = hashed
	if err := s.users.Update(ctx, account); err != nil {
		return err
	}
	logger.Success("Password reset for: " + email)
	return nil
}

// GetProfile returns the account behind an authenticated request.
func (s *Service) GetProfile(ctx context.Context, uuid string) (*userModel.User, error) {
	return s.users.GetByUUID(ctx, uuid)
}

// UpdateProfile applies the allow-listed fields (name, phone, avatar) with
// the same validators as registration.
func (s *Service) UpdateProfile(ctx context.Context, uuid string, req *authTypes.UpdateProfileRequest) (*userModel.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.users.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		account.PhoneNumber = *req.PhoneNumber
	}
	if req.Avatar != nil {
		account.Avatar = *req.Avatar
	}
	account.Role = userModel.DeriveRole(account.IsSuperuser, account.IsOrganizer)

	if err := s.users.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListUsers returns every account; callers must gate this on SuperAdmin.
func (s *Service) ListUsers(ctx context.Context) ([]userModel.User, error) {
	return s.users.List(ctx)
}

// GetUser returns one account by numeric id; SuperAdmin only.
func (s *Service) GetUser(ctx context.Context, id uint) (*userModel.User, error) {
	return s.users.GetByID(ctx, id)
}
