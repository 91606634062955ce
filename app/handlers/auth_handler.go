package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Me(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	loginFlow businessflow.LoginFlow
	validator *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		loginFlow: loginFlow,
		validator: validator.New(),
	}
}

// Login authenticates a user account and returns a bearer token
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	result, err := h.loginFlow.Login(createRequestContext(c, "/api/v1/auth/login"), &req)
	if err != nil {
		if businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Incorrect username or password", "INCORRECT_CREDENTIALS", nil)
		}
		if businessflow.IsUserInactive(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account is disabled", "USER_INACTIVE", nil)
		}

		log.Println("Login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Login successful", result)
}

// Me returns the account behind the presented token
func (h *AuthHandler) Me(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	user, err := h.loginFlow.Me(createRequestContext(c, "/api/v1/auth/me"), actor)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Me lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load account", "ME_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Account retrieved", user)
}
