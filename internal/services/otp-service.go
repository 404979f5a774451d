package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/repository"
)

const (
	// codes are drawn from [100000, 999999], so a leading zero never occurs
	otpMin  = 100000
	otpSpan = 900000

	otpTTL = 5 * time.Minute
)

// OTPService issues and validates the single outstanding challenge on a
// user record. Issuing always replaces the previous challenge; there is
// no reissue limit or backoff.
type OTPService struct {
	repo repository.UserRepository
	now  func() time.Time
}

func NewOTPService(repo repository.UserRepository) *OTPService {
	return &OTPService{repo: repo, now: time.Now}
}

// Issue stamps a fresh 6-digit code and a 5-minute expiry on the record,
// persists it, and returns the plaintext code for the notification mail.
func (s *OTPService) Issue(user *domain.User) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", errors.New("failed to generate otp")
	}

	user.SetOTP(code, s.now().Add(otpTTL))
	if err := s.repo.SaveUser(user); err != nil {
		return "", err
	}
	return code, nil
}

// Validate checks the submitted code against the outstanding challenge:
// first the exact string match, then freshness. A record with no
// outstanding challenge fails as a mismatch. The expiry boundary is
// strict: at the expiry instant the code is already expired.
//
// Validate never mutates the record; consuming the challenge is the
// caller's step, so the check-only reset phase can reuse it.
func (s *OTPService) Validate(user *domain.User, code string) error {
	if user.OTP == "" || user.OTP != code {
		return domain.ErrOTPMismatch
	}
	if user.OTPExpiresAt == nil || !s.now().Before(*user.OTPExpiresAt) {
		return domain.ErrOTPExpired
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
