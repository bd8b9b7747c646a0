package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"esport-accounts/apperrors"
	otpModel "esport-accounts/models/otp"
	userModel "esport-accounts/models/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOTPRepo is an in-memory stand-in for the postgres-backed repository.
type fakeOTPRepo struct {
	mu      sync.Mutex
	nextID  uint
	records []*otpModel.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{nextID: 1}
}

func (f *fakeOTPRepo) Issue(_ context.Context, email, code string) (*otpModel.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Email == email {
			r.Consumed = true
		}
	}
	record := &otpModel.OTP{ID: f.nextID, Email: email, Code: code, CreatedAt: time.Now()}
	f.nextID++
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeOTPRepo) Latest(_ context.Context, email string) (*otpModel.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Email == email && !f.records[i].Consumed {
			copied := *f.records[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) LatestAny(_ context.Context, email string) (*otpModel.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Email == email {
			copied := *f.records[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) Consume(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && !r.Consumed {
			r.Consumed = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOTPRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeOTPRepo) PurgeBefore(_ context.Context, cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	for _, r := range f.records {
		if !r.CreatedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

// setCreatedAt rewinds a record's creation time to simulate age.
func (f *fakeOTPRepo) setCreatedAt(id uint, t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			r.CreatedAt = t
		}
	}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*userModel.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userModel.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *userModel.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[u.Email]; exists {
		return apperrors.ErrDuplicateEmail
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*userModel.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUUID(_ context.Context, uuid string) (*userModel.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.UUID == uuid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*userModel.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *userModel.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *u
	f.users[u.Email] = &copied
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]userModel.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]userModel.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeSender) SendOTP(_ context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, email+":"+code)
	return nil
}

func newTestService() (*Service, *fakeOTPRepo, *fakeUserRepo, *fakeSender) {
	otps := newFakeOTPRepo()
	users := newFakeUserRepo()
	sender := &fakeSender{}
	svc := NewService(otps, users, sender)
	return svc, otps, users, sender
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, otpModel.CodeLength)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
	}
}

func TestIssueInvalidatesPriorCodes(t *testing.T) {
	svc, otps, _, _ := newTestService()
	ctx := context.Background()

	svc.generate = func() (string, error) { return "111111", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))

	svc.generate = func() (string, error) { return "222222", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))

	// The first code is dead even though it never expired.
	err := svc.Verify(ctx, "a@b.com", "111111")
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	latest, err := otps.Latest(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "222222", latest.Code)
}

func TestVerifyConsumesExactlyOnce(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	svc.generate = func() (string, error) { return "123456", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))

	require.NoError(t, svc.Verify(ctx, "a@b.com", "123456"))

	// Replay with identical arguments must fail.
	err := svc.Verify(ctx, "a@b.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyMismatchLeavesCodeActive(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	svc.generate = func() (string, error) { return "123456", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))

	err := svc.Verify(ctx, "a@b.com", "654321")
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	// The correct code still works after a failed attempt.
	require.NoError(t, svc.Verify(ctx, "a@b.com", "123456"))
}

func TestVerifyExpired(t *testing.T) {
	svc, otps, _, _ := newTestService()
	ctx := context.Background()

	svc.generate = func() (string, error) { return "123456", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))
	otps.setCreatedAt(1, time.Now().Add(-svc.ttl-time.Minute))

	err := svc.Verify(ctx, "a@b.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPExpired)

	// The expired record was consumed; nothing is left to verify against.
	err = svc.Verify(ctx, "a@b.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyWithoutIssue(t *testing.T) {
	svc, _, _, _ := newTestService()
	err := svc.Verify(context.Background(), "nobody@b.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestIssueSendFailureRollsBackRecord(t *testing.T) {
	svc, otps, _, sender := newTestService()
	ctx := context.Background()
	sender.fail = true

	svc.generate = func() (string, error) { return "123456", nil }
	err := svc.Issue(ctx, "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrNotificationFailure)

	// No valid-but-undelivered code may linger.
	latest, err := otps.Latest(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestResendCooldown(t *testing.T) {
	svc, otps, users, _ := newTestService()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &userModel.User{Email: "a@b.com", UUID: "u1"}))

	svc.generate = func() (string, error) { return "111111", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))

	err := svc.Resend(ctx, "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrResendCooldown)

	// Once the last issue falls outside the window, resend goes through.
	otps.setCreatedAt(1, time.Now().Add(-svc.cooldown-time.Second))
	svc.generate = func() (string, error) { return "222222", nil }
	require.NoError(t, svc.Resend(ctx, "a@b.com"))
}

func TestResendCooldownCountsConsumedCodes(t *testing.T) {
	svc, _, users, _ := newTestService()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &userModel.User{Email: "a@b.com", UUID: "u1"}))

	svc.generate = func() (string, error) { return "111111", nil }
	require.NoError(t, svc.Issue(ctx, "a@b.com"))
	require.NoError(t, svc.Verify(ctx, "a@b.com", "111111"))

	// A just-consumed code still anchors the cooldown.
	err := svc.Resend(ctx, "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrResendCooldown)
}

func TestResendAlreadyVerified(t *testing.T) {
	svc, _, users, _ := newTestService()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &userModel.User{Email: "a@b.com", UUID: "u1", IsVerified: true}))

	err := svc.Resend(ctx, "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
}

func TestResendUnknownUser(t *testing.T) {
	svc, _, _, _ := newTestService()
	err := svc.Resend(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, apperrors.ErrNoAccountForEmail)
	// The public resend endpoint reports this as a bad request, not a 404.
	assert.Equal(t, 400, apperrors.StatusCode(err))
}
