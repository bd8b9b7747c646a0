package auth

import (
	"testing"

	"esport-accounts/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Email:    "player@example.com",
		Password: "correct-horse",
		Name:     "Test Player",
	}
	require.NoError(t, valid.Validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, badEmail.Validate())

	weak := valid
	weak.Password = "short"
	assert.ErrorIs(t, weak.Validate(), apperrors.ErrWeakPassword)

	blankName := valid
	blankName.Name = "   "
	assert.Error(t, blankName.Validate())

	badPhone := valid
	badPhone.PhoneNumber = "abc"
	assert.Error(t, badPhone.Validate())

	withPhone := valid
	withPhone.PhoneNumber = "8801712345678"
	assert.NoError(t, withPhone.Validate())
}

func TestVerifyOTPRequestValidate(t *testing.T) {
	valid := VerifyOTPRequest{Email: "player@example.com", OTP: "123456"}
	require.NoError(t, valid.Validate())

	short := VerifyOTPRequest{Email: "player@example.com", OTP: "123"}
	assert.Error(t, short.Validate())

	letters := VerifyOTPRequest{Email: "player@example.com", OTP: "12345a"}
	assert.Error(t, letters.Validate())
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	empty := UpdateProfileRequest{}
	assert.Error(t, empty.Validate())

	name := "New Name"
	ok := UpdateProfileRequest{Name: &name}
	assert.NoError(t, ok.Validate())

	blank := "  "
	assert.Error(t, (&UpdateProfileRequest{Name: &blank}).Validate())
}
