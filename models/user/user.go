package user

import (
	"strings"
	"time"
)

// Role is derived from the privilege flags at save time, never set directly.
type Role string

const (
	RolePlayer     Role = "Player"
	RoleOrganizer  Role = "Organizer"
	RoleSuperAdmin Role = "SuperAdmin"
)

// User is an account row. Email is the login identity and is stored
// case-normalized; Password holds the bcrypt hash.
type User struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        string `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	Email       string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber string `gorm:"type:varchar(15)" json:"phone_number"`
	Avatar      string `gorm:"type:varchar(2048)" json:"avatar"`
	IsOrganizer bool   `gorm:"default:false" json:"is_organizer"`
	IsSuperuser bool   `gorm:"default:false" json:"-"`
	IsVerified  bool   `gorm:"default:false" json:"is_verified"`
	Role        Role   `gorm:"type:varchar(20);not null" json:"role"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// DeriveRole computes the role from the privilege flags. Superuser wins over
// organizer; everyone else is a player. Callers invoke this at every mutation
// boundary that can change the flags.
func DeriveRole(isSuperuser, isOrganizer bool) Role {
	switch {
	case isSuperuser:
		return RoleSuperAdmin
	case isOrganizer:
		return RoleOrganizer
	default:
		return RolePlayer
	}
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Profile is the allow-listed view returned by the profile endpoints.
type Profile struct {
	UUID        string     `json:"uuid"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	Avatar      string     `json:"avatar"`
	Role        Role       `json:"role"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AsProfile projects the account onto its public profile shape.
func (u *User) AsProfile() Profile {
	return Profile{
		UUID:        u.UUID,
		Email:       u.Email,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Avatar:      u.Avatar,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
