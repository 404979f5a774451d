package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	err      error
	identity *dto.IdentityResponse
}

func (s *stubAuthService) Register(input dto.RegisterRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return input.Email, nil
}

func (s *stubAuthService) VerifyOTP(email, code string) (*dto.IdentityResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func (s *stubAuthService) ResendOTP(email string) error { return s.err }

func (s *stubAuthService) Login(input dto.UserLogin) (*dto.IdentityResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func (s *stubAuthService) ForgotPassword(email string) error { return s.err }

func (s *stubAuthService) CheckResetOTP(email, code string) error { return s.err }

func (s *stubAuthService) ResetPassword(input dto.ResetPasswordRequest) error { return s.err }

type apiResponse struct {
	OK     bool            `json:"ok"`
	Reason string          `json:"reason"`
	Data   json.RawMessage `json:"data"`
}

func newTestApp(svc *stubAuthService) *fiber.App {
	app := fiber.New()
	NewAuthHandler(svc).SetupRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestReasonMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "NotFound"},
		{"already exists", domain.ErrUserAlreadyExists, http.StatusConflict, "AlreadyExists"},
		{"mismatch", domain.ErrOTPMismatch, http.StatusUnauthorized, "Mismatch"},
		{"expired", domain.ErrOTPExpired, http.StatusUnauthorized, "Expired"},
		{"unverified", domain.ErrNotVerified, http.StatusForbidden, "Unverified"},
		{"bad credential", domain.ErrInvalidPassword, http.StatusUnauthorized, "BadCredential"},
		{"send failed", domain.ErrSendFailed, http.StatusBadGateway, "SendFailed"},
		{"internal", domain.ErrInternal, http.StatusInternalServerError, "Internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubAuthService{err: tc.err})

			status, out := post(t, app, "/api/user/login",
				`{"email":"a@x.com","password":"secret1"}`)

			assert.Equal(t, tc.status, status)
			assert.False(t, out.OK)
			assert.Equal(t, tc.reason, out.Reason)
		})
	}
}

func TestRegisterRejectsIncompletePayload(t *testing.T) {
	app := newTestApp(&stubAuthService{})

	status, out := post(t, app, "/api/user/register",
		`{"email":"a@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidInput", out.Reason)
}

func TestRegisterSuccessEchoesEmail(t *testing.T) {
	app := newTestApp(&stubAuthService{})

	status, out := post(t, app, "/api/user/register",
		`{"full_name":"Alice Smith","email":"a@x.com","birth_date":"1990-01-01","phone":"0812345678","password":"secret1"}`)

	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.OK)
	assert.Contains(t, string(out.Data), "a@x.com")
}

func TestVerifyOTPReturnsIdentity(t *testing.T) {
	app := newTestApp(&stubAuthService{
		identity: &dto.IdentityResponse{Name: "Alice Smith", Email: "a@x.com"},
	})

	status, out := post(t, app, "/api/user/verify-otp",
		`{"email":"a@x.com","otp":"123456"}`)

	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.OK)

	var data struct {
		Identity dto.IdentityResponse `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	assert.Equal(t, "Alice Smith", data.Identity.Name)
	assert.Equal(t, "a@x.com", data.Identity.Email)
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(&stubAuthService{})

	status, out := post(t, app, "/api/user/forgot-password", `{not json`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidInput", out.Reason)
}
