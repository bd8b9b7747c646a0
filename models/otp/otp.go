package otp

import (
	"time"
)

const (
	// CodeLength is the number of digits in a code; codes are zero-padded.
	CodeLength = 6

	// DefaultTTL is how long a code stays valid after creation. Expiry is
	// checked lazily at verification time, never by a sweeper.
	DefaultTTL = 5 * time.Minute

	// DefaultResendCooldown is the minimum gap between issues for one email.
	DefaultResendCooldown = 2 * time.Minute
)

// OTP is a one-time code record. Records are keyed by email rather than a
// foreign key to the account, since verification can race account creation.
// At most one unconsumed record per email is ever active: issuing a new code
// consumes all prior ones in the same transaction.
type OTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	Consumed  bool      `gorm:"default:false" json:"consumed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ExpiresAt returns the moment the code stops being valid.
func (o *OTP) ExpiresAt(ttl time.Duration) time.Time {
	return o.CreatedAt.Add(ttl)
}

// IsExpired reports whether the code is past its TTL.
func (o *OTP) IsExpired(ttl time.Duration) bool {
	return time.Now().After(o.ExpiresAt(ttl))
}
