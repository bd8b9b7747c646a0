package auth

import (
	"esport-accounts/apperrors"
	"esport-accounts/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest carries the registration payload. Unknown fields in the
// body are ignored by the JSON parser, not rejected.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	IsOrganizer bool   `json:"is_organizer"`
}

func (req *RegisterRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindValidation, "email, password and name are required and email must be valid")
	}
	if len(req.Password) < utils.MinPasswordLength {
		return apperrors.ErrWeakPassword
	}
	if !utils.ValidateName(req.Name) {
		return apperrors.New(apperrors.KindValidation, "name cannot be empty")
	}
	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		return apperrors.New(apperrors.KindValidation, "phone number must contain 7-15 digits")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindValidation, "email and password are required")
	}
	return nil
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

func (req *VerifyOTPRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindValidation, "email and a 6-digit otp are required")
	}
	return nil
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (req *ResendOTPRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindValidation, "a valid email is required")
	}
	return nil
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ResetPasswordRequest struct {
	Grant           string `json:"grant"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (req *ResetPasswordRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindValidation, "new_password and confirm_password are required")
	}
	return nil
}

// UpdateProfileRequest holds the allow-listed profile fields. Anything else
// in the body is silently dropped during parsing.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Avatar      *string `json:"avatar"`
}

func (req *UpdateProfileRequest) Validate() error {
	if req.Name == nil && req.PhoneNumber == nil && req.Avatar == nil {
		return apperrors.New(apperrors.KindValidation, "no valid fields to update, allowed fields: name, phone_number, avatar")
	}
	if req.Name != nil && !utils.ValidateName(*req.Name) {
		return apperrors.New(apperrors.KindValidation, "name cannot be empty")
	}
	if req.PhoneNumber != nil && !utils.ValidatePhoneNumber(*req.PhoneNumber) {
		return apperrors.New(apperrors.KindValidation, "phone number must contain 7-15 digits")
	}
	return nil
}
