package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
)

// WorkerHandlerInterface defines the contract for worker handlers
type WorkerHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// WorkerHandler handles worker registry HTTP requests
type WorkerHandler struct {
	workerFlow businessflow.WorkerFlow
	validator  *validator.Validate
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workerFlow businessflow.WorkerFlow) *WorkerHandler {
	return &WorkerHandler{
		workerFlow: workerFlow,
		validator:  validator.New(),
	}
}

func workerErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsPermissionDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", nil)
	}
	if businessflow.IsWorkerNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Worker not found", "WORKER_NOT_FOUND", nil)
	}
	if businessflow.IsWorkerAlreadyExists(err) {
		return errorResponse(c, fiber.StatusConflict, "Worker ID already exists", "WORKER_EXISTS", nil)
	}
	if businessflow.IsWorkerHasEntries(err) {
		return errorResponse(c, fiber.StatusConflict, "Worker still has time entries", "WORKER_HAS_ENTRIES", nil)
	}

	log.Println(fallbackMessage, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// List returns the worker registry
func (h *WorkerHandler) List(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c, 100, 500)
	workers, err := h.workerFlow.List(createRequestContext(c, "/api/v1/workers"), actor, limit, offset)
	if err != nil {
		return workerErrorResponse(c, err, "Failed to list workers", "WORKER_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Workers retrieved", workers)
}

// Get returns one worker
func (h *WorkerHandler) Get(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	worker, err := h.workerFlow.Get(createRequestContext(c, "/api/v1/workers/:id"), actor, c.Params("id"))
	if err != nil {
		return workerErrorResponse(c, err, "Failed to get worker", "WORKER_GET_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Worker retrieved", worker)
}

// Create registers a worker
func (h *WorkerHandler) Create(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateWorkerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	worker, err := h.workerFlow.Create(createRequestContext(c, "/api/v1/workers"), actor, &req)
	if err != nil {
		return workerErrorResponse(c, err, "Failed to create worker", "WORKER_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Worker created", worker)
}

// Update renames a worker
func (h *WorkerHandler) Update(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.UpdateWorkerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	worker, err := h.workerFlow.Update(createRequestContext(c, "/api/v1/workers/:id"), actor, c.Params("id"), &req)
	if err != nil {
		return workerErrorResponse(c, err, "Failed to update worker", "WORKER_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Worker updated", worker)
}

// Delete removes a worker with no time entries
func (h *WorkerHandler) Delete(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	if err := h.workerFlow.Delete(createRequestContext(c, "/api/v1/workers/:id"), actor, c.Params("id")); err != nil {
		return workerErrorResponse(c, err, "Failed to delete worker", "WORKER_DELETE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Worker deleted", nil)
}
