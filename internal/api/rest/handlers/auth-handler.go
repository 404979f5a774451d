package handlers

import (
	"errors"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/dto"
	"github.com/SundayYogurt/auth_service/internal/helper/utils"
	"github.com/SundayYogurt/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	user := api.Group("/user")
	user.Post("/register", h.Register)
	user.Post("/verify-otp", h.VerifyOTP)
	user.Post("/resend-otp", h.ResendOTP)
	user.Post("/login", h.Login)
	user.Post("/forgot-password", h.ForgotPassword)
	user.Post("/verify-reset-otp", h.CheckResetOTP)
	user.Post("/reset-password", h.ResetPassword)
}

// reasonOf flattens service errors to the response taxonomy. Anything
// unrecognized reports as Internal so collaborator faults never leak.
func reasonOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NotFound"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return fiber.StatusConflict, "AlreadyExists"
	case errors.Is(err, domain.ErrOTPMismatch):
		return fiber.StatusUnauthorized, "Mismatch"
	case errors.Is(err, domain.ErrOTPExpired):
		return fiber.StatusUnauthorized, "Expired"
	case errors.Is(err, domain.ErrNotVerified):
		return fiber.StatusForbidden, "Unverified"
	case errors.Is(err, domain.ErrInvalidPassword):
		return fiber.StatusUnauthorized, "BadCredential"
	case errors.Is(err, domain.ErrSendFailed):
		return fiber.StatusBadGateway, "SendFailed"
	default:
		return fiber.StatusInternalServerError, "Internal"
	}
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	if requestBody.Email == "" || requestBody.Password == "" ||
		requestBody.FullName == "" || requestBody.BirthDate == "" || requestBody.Phone == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	email, err := h.svc.Register(requestBody)
	if err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"email": email})
}

func (h *AuthHandler) VerifyOTP(ctx *fiber.Ctx) error {
	var requestBody dto.VerifyOTPRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.OTP == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	identity, err := h.svc.VerifyOTP(requestBody.Email, requestBody.OTP)
	if err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"identity": identity})
}

func (h *AuthHandler) ResendOTP(ctx *fiber.Ctx) error {
	var requestBody dto.ResendOTPRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	if err := h.svc.ResendOTP(requestBody.Email); err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "New OTP sent successfully")
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	identity, err := h.svc.Login(requestBody)
	if err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"identity": identity})
}

func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	if err := h.svc.ForgotPassword(requestBody.Email); err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "OTP sent to your email")
}

func (h *AuthHandler) CheckResetOTP(ctx *fiber.Ctx) error {
	var requestBody dto.CheckResetOTPRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.OTP == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	if err := h.svc.CheckResetOTP(requestBody.Email, requestBody.OTP); err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "OTP verified")
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest

	if err := ctx.BodyParser(&requestBody); err != nil ||
		requestBody.Email == "" || requestBody.OTP == "" || requestBody.NewPassword == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "InvalidInput")
	}

	if err := h.svc.ResetPassword(requestBody); err != nil {
		status, reason := reasonOf(err)
		return utils.ResponseError(ctx, status, reason)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password reset successfully")
}
