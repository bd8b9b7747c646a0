package auth

import (
	"encoding/json"
	"os"

	"esport-accounts/apperrors"
	"esport-accounts/logger"
	authService "esport-accounts/services/auth"
	"esport-accounts/types"
	authTypes "esport-accounts/types/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	service        *authService.Service
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(service *authService.Service, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{service: service, loggerInstance: asyncLogger}
}

// setSecureCookie mirrors the token lifetime into a browser cookie. Secure
// only in production so local development over http still works.
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

func (h *AuthController) respond(c *fiber.Ctx, status int, errMessage string, result interface{}) error {
	response := types.ApiResponse{
		StatusCode:   status,
		Success:      errMessage == "",
		ErrorMessage: errMessage,
		Result:       result,
	}

	body, _ := json.Marshal(response)
	h.loggerInstance.Log(types.LogEntry{
		Method:       c.Method(),
		URL:          c.OriginalURL(),
		RequestBody:  string(c.Body()),
		ResponseBody: string(body),
		StatusCode:   status,
	})

	return c.Status(status).JSON(response)
}

func (h *AuthController) fail(c *fiber.Ctx, err error) error {
	logger.Error(c.Method()+" "+c.OriginalURL()+" failed", err)
	return h.respond(c, apperrors.StatusCode(err), apperrors.PublicMessage(err), nil)
}

// Register creates an unverified account and emails the first OTP. When the
// account is created but the email fails, the account stays; the client is
// told to use resend-otp.
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}

	account, err := h.service.Register(c.Context(), &req)
	if err != nil {
		if account != nil {
			// Account committed but the OTP email did not go out.
			return h.respond(c, fiber.StatusInternalServerError,
				"account created but the verification email could not be sent, use resend-otp",
				account.AsProfile())
		}
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusCreated, "", account.AsProfile())
}

// VerifyOTP consumes the emailed code. On success the response carries a
// short-lived single-use grant for the password reset endpoint.
func (h *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req authTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}

	grant, err := h.service.VerifyOTP(c.Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusOK, "", fiber.Map{"grant": grant})
}

func (h *AuthController) ResendOTP(c *fiber.Ctx) error {
	var req authTypes.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}

	if err := h.service.ResendOTP(c.Context(), &req); err != nil {
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusOK, "", fiber.Map{"message": "verification code sent"})
}

// Login verifies credentials against a verified account and returns a token
// pair, also mirrored into cookies.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}

	pair, account, err := h.service.Login(c.Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	h.setSecureCookie(c, "access", pair.Access, 3600)
	h.setSecureCookie(c, "refresh", pair.Refresh, 7*24*3600)

	return h.respond(c, fiber.StatusOK, "", fiber.Map{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"profile": account.AsProfile(),
	})
}

// Logout revokes the refresh token and clears the cookies. Revoking twice is
// harmless.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	var req authTypes.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}
	if req.Refresh == "" {
		req.Refresh = c.Cookies("refresh")
	}

	if err := h.service.Logout(c.Context(), req.Refresh); err != nil {
		return h.fail(c, err)
	}

	c.ClearCookie("access", "refresh")
	return h.respond(c, fiber.StatusOK, "", fiber.Map{"message": "logged out"})
}

// RefreshToken exchanges a live refresh token for a new pair. A revoked or
// tampered token is rejected.
func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req authTypes.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}
	if req.Refresh == "" {
		req.Refresh = c.Cookies("refresh")
	}

	pair, err := h.service.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return h.fail(c, err)
	}

	h.setSecureCookie(c, "access", pair.Access, 3600)
	h.setSecureCookie(c, "refresh", pair.Refresh, 7*24*3600)

	return h.respond(c, fiber.StatusOK, "", pair)
}

// ResetPassword burns a verification grant and replaces the password.
func (h *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req authTypes.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}

	if err := h.service.ResetPassword(c.Context(), &req); err != nil {
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusOK, "", fiber.Map{"message": "password updated"})
}
