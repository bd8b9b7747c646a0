package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRole(t *testing.T) {
	tests := []struct {
		name        string
		isSuperuser bool
		isOrganizer bool
		want        Role
	}{
		{"plain player", false, false, RolePlayer},
		{"organizer", false, true, RoleOrganizer},
		{"superuser", true, false, RoleSuperAdmin},
		{"superuser wins over organizer", true, true, RoleSuperAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRole(tt.isSuperuser, tt.isOrganizer))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "player@example.com", NormalizeEmail("  Player@Example.COM "))
	assert.Equal(t, "a@b.com", NormalizeEmail("a@b.com"))
}

func TestAsProfileOmitsSecrets(t *testing.T) {
	u := User{
		UUID:        "u-1",
		Email:       "player@example.com",
		Password:    "$2a$10$hash",
		Name:        "Test Player",
		IsSuperuser: true,
		Role:        RoleSuperAdmin,
	}

	p := u.AsProfile()
	assert.Equal(t, "u-1", p.UUID)
	assert.Equal(t, RoleSuperAdmin, p.Role)
	// Profile has no password or superuser field at all; this documents that
	// the projection is the only thing handed to clients.
	assert.Equal(t, "player@example.com", p.Email)
}
