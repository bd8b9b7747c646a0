package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota // bad input shape
	KindAuth                   // bad credentials
	KindForbidden              // identity is fine but the action is not allowed
	KindNotFound
	KindConflict
	KindRateLimited
	KindDependency // external collaborator failed
)

// Error is a domain error with an HTTP-mappable kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrDuplicateEmail      = New(KindConflict, "email is already in use")
	ErrWeakPassword        = New(KindValidation, "password must be at least 8 characters long")
	ErrPasswordMismatch    = New(KindValidation, "new password and confirm password do not match")
	ErrInvalidCredentials  = New(KindAuth, "invalid email or password")
	// Correct credentials on an unverified account: the caller proved who they
	// are, so this is a 403, not a 401.
	ErrNotVerified         = New(KindForbidden, "account is not verified, please verify the OTP sent to your email")
	ErrMissingToken        = New(KindValidation, "refresh token is required")
	ErrInvalidToken        = New(KindValidation, "invalid or revoked token")
	ErrNoActiveGrant       = New(KindValidation, "OTP verification required before resetting password")
	ErrUserNotFound        = New(KindNotFound, "user not found")
	// Resend is a public endpoint; an unknown email there is a plain bad
	// request, not a resource miss like the admin lookup.
	ErrNoAccountForEmail   = New(KindValidation, "no account found for this email")
	ErrForbidden           = New(KindForbidden, "insufficient permissions")
	ErrOTPNotFound         = New(KindValidation, "no active OTP found for this email")
	ErrOTPExpired          = New(KindValidation, "OTP has expired, please request a new one")
	ErrOTPMismatch         = New(KindValidation, "invalid OTP code")
	ErrAlreadyVerified     = New(KindValidation, "account is already verified")
	ErrResendCooldown      = New(KindRateLimited, "an OTP was sent recently, please wait before requesting another")
	ErrNotificationFailure = New(KindDependency, "failed to send the verification email, please try resending")
)

// StatusCode maps an error to the HTTP status of its kind. Unknown errors map
// to 500; their message must not be surfaced (use a generic one instead).
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindRateLimited:
		// The resend cooldown is surfaced as 400, not 429, to keep the public
		// OTP endpoints uniform.
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindDependency:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns a message safe to echo to clients.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
