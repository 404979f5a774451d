package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOTPFixture(t *testing.T) (*OTPService, *repository.MemoryRepository, *time.Time) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := NewOTPService(repo)
	svc.now = func() time.Time { return now }
	return svc, repo, &now
}

func TestIssueCodeRangeAndExpiry(t *testing.T) {
	svc, repo, now := newOTPFixture(t)

	user := &domain.User{Email: "a@x.com", FullName: "A"}
	_, err := repo.CreateUser(user)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		code, err := svc.Issue(user)
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}

	stored, err := repo.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.OTP, stored.OTP)
	require.NotNil(t, stored.OTPExpiresAt)
	assert.Equal(t, now.Add(5*time.Minute), *stored.OTPExpiresAt)
}

func TestIssueReplacesOutstandingCode(t *testing.T) {
	svc, repo, _ := newOTPFixture(t)

	user := &domain.User{Email: "a@x.com"}
	_, err := repo.CreateUser(user)
	require.NoError(t, err)

	first, err := svc.Issue(user)
	require.NoError(t, err)
	second, err := svc.Issue(user)
	require.NoError(t, err)

	assert.NoError(t, svc.Validate(user, second))
	if first != second {
		assert.ErrorIs(t, svc.Validate(user, first), domain.ErrOTPMismatch)
	}
}

func TestValidateChecksMatchBeforeFreshness(t *testing.T) {
	svc, _, now := newOTPFixture(t)

	user := &domain.User{Email: "a@x.com"}
	exp := now.Add(5 * time.Minute)
	user.SetOTP("123456", exp)

	// wrong code on an expired challenge still reports a mismatch
	*now = now.Add(10 * time.Minute)
	assert.ErrorIs(t, svc.Validate(user, "654321"), domain.ErrOTPMismatch)
	// right code after expiry reports expired, not mismatch
	assert.ErrorIs(t, svc.Validate(user, "123456"), domain.ErrOTPExpired)
}

func TestValidateExpiryBoundaryIsStrict(t *testing.T) {
	svc, _, now := newOTPFixture(t)

	user := &domain.User{Email: "a@x.com"}
	exp := now.Add(5 * time.Minute)
	user.SetOTP("123456", exp)

	*now = exp.Add(-time.Second)
	assert.NoError(t, svc.Validate(user, "123456"))

	// at the expiry instant the code is already stale
	*now = exp
	assert.ErrorIs(t, svc.Validate(user, "123456"), domain.ErrOTPExpired)
}

func TestValidateNoOutstandingChallenge(t *testing.T) {
	svc, _, _ := newOTPFixture(t)

	user := &domain.User{Email: "a@x.com"}
	assert.ErrorIs(t, svc.Validate(user, "123456"), domain.ErrOTPMismatch)
}
