package user

import (
	"encoding/json"
	"strconv"

	"esport-accounts/apperrors"
	"esport-accounts/logger"
	userModel "esport-accounts/models/user"
	authService "esport-accounts/services/auth"
	"esport-accounts/types"
	authTypes "esport-accounts/types/auth"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	service        *authService.Service
	loggerInstance *logger.AsyncLogger
}

func NewUserController(service *authService.Service, asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{service: service, loggerInstance: asyncLogger}
}

func (h *UserController) respond(c *fiber.Ctx, status int, errMessage string, result interface{}) error {
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

func (h *UserController) fail(c *fiber.Ctx, err error) error {
	logger.Error(c.Method()+" "+c.OriginalURL()+" failed", err)
	return h.respond(c, apperrors.StatusCode(err), apperrors.PublicMessage(err), nil)
}

// Profile returns the authenticated caller's own account.
func (h *UserController) Profile(c *fiber.Ctx) error {
	uuid, ok := c.Locals("uuid").(string)
	if !ok || uuid == "" {
		return h.fail(c, apperrors.ErrMissingToken)
	}

	account, err := h.service.GetProfile(c.Context(), uuid)
	if err != nil {
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusOK, "", account.AsProfile())
}

// UpdateProfile patches the allow-listed fields on the caller's account.
func (h *UserController) UpdateProfile(c *fiber.Ctx) error {
	uuid, ok := c.Locals("uuid").(string)
	if !ok || uuid == "" {
		return h.fail(c, apperrors.ErrMissingToken)
	}

	var req authTypes.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid request body"))
	}

	account, err := h.service.UpdateProfile(c.Context(), uuid, &req)
	if err != nil {
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusOK, "", account.AsProfile())
}

// ListUsers returns every account. Reached only through the SuperAdmin
// middleware.
func (h *UserController) ListUsers(c *fiber.Ctx) error {
	accounts, err := h.service.ListUsers(c.Context())
	if err != nil {
		return h.fail(c, err)
	}

	profiles := make([]userModel.Profile, 0, len(accounts))
	for i := range accounts {
		profiles = append(profiles, accounts[i].AsProfile())
	}

	return h.respond(c, fiber.StatusOK, "", profiles)
}

// GetUser returns one account by numeric id. SuperAdmin only.
func (h *UserController) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return h.fail(c, apperrors.New(apperrors.KindValidation, "invalid user id"))
	}

	account, err := h.service.GetUser(c.Context(), uint(id))
	if err != nil {
		return h.fail(c, err)
	}

	return h.respond(c, fiber.StatusOK, "", account.AsProfile())
}
