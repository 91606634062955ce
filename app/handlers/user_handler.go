package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
)

// UserHandlerInterface defines the contract for user account handlers
type UserHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	ResetPassword(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// UserHandler handles login account HTTP requests
type UserHandler struct {
	userFlow  businessflow.UserFlow
	validator *validator.Validate
}

// NewUserHandler creates a new user account handler
func NewUserHandler(userFlow businessflow.UserFlow) *UserHandler {
	return &UserHandler{
		userFlow:  userFlow,
		validator: validator.New(),
	}
}

func userErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsPermissionDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", nil)
	}
	if businessflow.IsUserNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
	}
	if businessflow.IsUsernameAlreadyExists(err) {
		return errorResponse(c, fiber.StatusConflict, "Username already exists", "USERNAME_EXISTS", nil)
	}
	if businessflow.IsWorkerNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Worker not found", "WORKER_NOT_FOUND", nil)
	}

	log.Println(fallbackMessage, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// List returns the login accounts
func (h *UserHandler) List(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c, 100, 500)
	users, err := h.userFlow.List(createRequestContext(c, "/api/v1/users"), actor, limit, offset)
	if err != nil {
		return userErrorResponse(c, err, "Failed to list users", "USER_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Users retrieved", users)
}

// Get returns one login account
func (h *UserHandler) Get(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", nil)
	}

	user, err := h.userFlow.Get(createRequestContext(c, "/api/v1/users/:id"), actor, id)
	if err != nil {
		return userErrorResponse(c, err, "Failed to get user", "USER_GET_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User retrieved", user)
}

// Create provisions a login account
func (h *UserHandler) Create(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	user, err := h.userFlow.Create(createRequestContext(c, "/api/v1/users"), actor, &req)
	if err != nil {
		return userErrorResponse(c, err, "Failed to create user", "USER_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "User created", user)
}

// Update partially updates a login account
func (h *UserHandler) Update(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	user, err := h.userFlow.Update(createRequestContext(c, "/api/v1/users/:id"), actor, id, &req)
	if err != nil {
		return userErrorResponse(c, err, "Failed to update user", "USER_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User updated", user)
}

// ResetPassword replaces a user's password
func (h *UserHandler) ResetPassword(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", nil)
	}

	var req dto.ResetPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	if err := h.userFlow.ResetPassword(createRequestContext(c, "/api/v1/users/:id/password"), actor, id, &req); err != nil {
		return userErrorResponse(c, err, "Failed to reset password", "USER_RESET_PASSWORD_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Password updated", nil)
}

// Delete removes a login account
func (h *UserHandler) Delete(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", nil)
	}

	if err := h.userFlow.Delete(createRequestContext(c, "/api/v1/users/:id"), actor, id); err != nil {
		return userErrorResponse(c, err, "Failed to delete user", "USER_DELETE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User deleted", nil)
}
