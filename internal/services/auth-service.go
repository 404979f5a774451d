package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/dto"
	"github.com/SundayYogurt/auth_service/internal/helper"
	"github.com/SundayYogurt/auth_service/internal/helper/utils"
	"github.com/SundayYogurt/auth_service/internal/interfaces"
	"github.com/SundayYogurt/auth_service/internal/repository"
	"github.com/google/uuid"
)

type AuthService interface {
	Register(input dto.RegisterRequest) (string, error)
	VerifyOTP(email, code string) (*dto.IdentityResponse, error)
	ResendOTP(email string) error
	Login(input dto.UserLogin) (*dto.IdentityResponse, error)
	ForgotPassword(email string) error
	CheckResetOTP(email, code string) error
	ResetPassword(input dto.ResetPasswordRequest) error
}

type authService struct {
	repo     repository.UserRepository
	otp      *OTPService
	mailer   interfaces.OTPMailer
	producer interfaces.ProducerHandler
	auth     helper.Auth
}

func NewAuthService(
	repo repository.UserRepository,
	otp *OTPService,
	mailer interfaces.OTPMailer,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
) AuthService {
	return &authService{
		repo:     repo,
		otp:      otp,
		mailer:   mailer,
		producer: producer,
		auth:     auth,
	}
}

// Register creates or refreshes the record for an email and sends a
// verification code. A verified email cannot re-register; an unverified
// one is overwritten in place rather than duplicated.
func (s *authService) Register(input dto.RegisterRequest) (string, error) {
	email := utils.NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	birthDate := strings.TrimSpace(input.BirthDate)
	phone := strings.TrimSpace(input.Phone)

	existing, err := s.repo.FindUserByEmail(email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("register lookup error: %v", err)
		return "", domain.ErrInternal
	}
	if existing != nil && existing.IsVerified {
		return "", domain.ErrUserAlreadyExists
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		log.Printf("register hash error: %v", err)
		return "", domain.ErrInternal
	}

	user := existing
	if user != nil {
		user.FullName = fullName
		user.BirthDate = birthDate
		user.Phone = phone
		user.PasswordHash = hash
	} else {
		user = &domain.User{
			Email:        email,
			FullName:     fullName,
			BirthDate:    birthDate,
			Phone:        phone,
			PasswordHash: hash,
		}
		if user, err = s.repo.CreateUser(user); err != nil {
			if helper.IsDuplicateEmail(err) || errors.Is(err, domain.ErrUserAlreadyExists) {
				return "", domain.ErrUserAlreadyExists
			}
			log.Printf("register create error: %v", err)
			return "", domain.ErrInternal
		}
	}

	code, err := s.otp.Issue(user)
	if err != nil {
		log.Printf("register issue otp error: %v", err)
		return "", domain.ErrInternal
	}

	// the stored challenge stays valid even when the send fails
	if err := s.mailer.SendVerificationCode(email, user.FullName, code); err != nil {
		log.Printf("send verification mail error: %v", err)
		return "", domain.ErrSendFailed
	}

	return email, nil
}

// VerifyOTP consumes the outstanding challenge: on success the challenge
// is cleared and the account becomes verified. A consumed code replays
// as a mismatch.
func (s *authService) VerifyOTP(email, code string) (*dto.IdentityResponse, error) {
	user, err := s.lookup(utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := s.otp.Validate(user, code); err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.ClearOTP()
	if err := s.repo.SaveUser(user); err != nil {
		log.Printf("verify otp save error: %v", err)
		return nil, domain.ErrInternal
	}

	s.publishEvent(dto.EventUserVerified, user)

	return &dto.IdentityResponse{Name: user.FullName, Email: user.Email}, nil
}

// ResendOTP reissues a challenge unconditionally, verified or not.
func (s *authService) ResendOTP(email string) error {
	user, err := s.lookup(utils.NormalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := s.otp.Issue(user)
	if err != nil {
		log.Printf("resend issue otp error: %v", err)
		return domain.ErrInternal
	}

	if err := s.mailer.SendNewVerificationCode(user.Email, user.FullName, code); err != nil {
		log.Printf("resend mail error: %v", err)
		return domain.ErrSendFailed
	}
	return nil
}

func (s *authService) Login(input dto.UserLogin) (*dto.IdentityResponse, error) {
	user, err := s.lookup(utils.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		return nil, domain.ErrNotVerified
	}

	if err := s.auth.VerifyPassword(input.Password, user.PasswordHash); err != nil {
		return nil, domain.ErrInvalidPassword
	}

	return &dto.IdentityResponse{Name: user.FullName, Email: user.Email}, nil
}

// ForgotPassword issues a reset challenge regardless of verification
// state.
func (s *authService) ForgotPassword(email string) error {
	user, err := s.lookup(utils.NormalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := s.otp.Issue(user)
	if err != nil {
		log.Printf("forgot password issue otp error: %v", err)
		return domain.ErrInternal
	}

	if err := s.mailer.SendResetCode(user.Email, user.FullName, code); err != nil {
		log.Printf("reset mail error: %v", err)
		return domain.ErrSendFailed
	}
	return nil
}

// CheckResetOTP is the non-consuming first phase of the reset flow: the
// client learns the code is right before collecting a new password, and
// the challenge stays valid for ResetPassword. A missing record reports
// a mismatch rather than revealing whether the email exists.
func (s *authService) CheckResetOTP(email, code string) error {
	user, err := s.repo.FindUserByEmail(utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrOTPMismatch
		}
		log.Printf("check reset otp lookup error: %v", err)
		return domain.ErrInternal
	}

	return s.otp.Validate(user, code)
}

// ResetPassword re-validates the challenge (time may have passed since
// CheckResetOTP), then replaces the digest and consumes the challenge in
// one write.
func (s *authService) ResetPassword(input dto.ResetPasswordRequest) error {
	user, err := s.lookup(utils.NormalizeEmail(input.Email))
	if err != nil {
		return err
	}

	if err := s.otp.Validate(user, input.OTP); err != nil {
		return err
	}

	hash, err := s.auth.HashPassword(input.NewPassword)
	if err != nil {
		log.Printf("reset password hash error: %v", err)
		return domain.ErrInternal
	}

	user.PasswordHash = hash
	user.ClearOTP()
	if err := s.repo.SaveUser(user); err != nil {
		log.Printf("reset password save error: %v", err)
		return domain.ErrInternal
	}

	s.publishEvent(dto.EventPasswordChanged, user)
	return nil
}

func (s *authService) lookup(email string) (*domain.User, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("find user error: %v", err)
		return nil, domain.ErrInternal
	}
	return user, nil
}

// publishEvent hands the mail worker its after-the-fact notifications.
// Best effort: a broker outage never fails the user-facing operation.
func (s *authService) publishEvent(eventType string, user *domain.User) {
	if s.producer == nil {
		return
	}

	payload, err := json.Marshal(dto.MailEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.FullName,
		OccurredAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("marshal %s event error: %v", eventType, err)
		return
	}

	if err := s.producer.PublishMessage([]byte(eventType), payload); err != nil {
		log.Printf("publish %s event error: %v", eventType, err)
	}
}
