package apperrors

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(ErrWeakPassword))
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(ErrResendCooldown))
	assert.Equal(t, fiber.StatusUnauthorized, StatusCode(ErrInvalidCredentials))
	assert.Equal(t, fiber.StatusForbidden, StatusCode(ErrForbidden))
	assert.Equal(t, fiber.StatusNotFound, StatusCode(ErrUserNotFound))
	assert.Equal(t, fiber.StatusConflict, StatusCode(ErrDuplicateEmail))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(ErrNotificationFailure))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(errors.New("driver: bad connection")))
}

// TestEndpointFailureStatuses pins the status each endpoint failure maps to,
// one row per sentinel, so a kind change cannot silently shift an API status.
func TestEndpointFailureStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"register: duplicate email", ErrDuplicateEmail, fiber.StatusConflict},
		{"register: weak password", ErrWeakPassword, fiber.StatusBadRequest},
		{"verify-otp: no active code", ErrOTPNotFound, fiber.StatusBadRequest},
		{"verify-otp: expired code", ErrOTPExpired, fiber.StatusBadRequest},
		{"verify-otp: wrong code", ErrOTPMismatch, fiber.StatusBadRequest},
		{"resend-otp: no such user", ErrNoAccountForEmail, fiber.StatusBadRequest},
		{"resend-otp: already verified", ErrAlreadyVerified, fiber.StatusBadRequest},
		{"resend-otp: cooldown", ErrResendCooldown, fiber.StatusBadRequest},
		{"login: bad credentials", ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"login: unverified account", ErrNotVerified, fiber.StatusForbidden},
		{"logout: missing token", ErrMissingToken, fiber.StatusBadRequest},
		{"logout: malformed token", ErrInvalidToken, fiber.StatusBadRequest},
		{"reset-password: mismatch", ErrPasswordMismatch, fiber.StatusBadRequest},
		{"reset-password: no grant", ErrNoActiveGrant, fiber.StatusBadRequest},
		{"admin get-user: unknown id", ErrUserNotFound, fiber.StatusNotFound},
		{"admin routes: wrong role", ErrForbidden, fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "email is already in use", PublicMessage(ErrDuplicateEmail))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: secret dsn detail")))
}
