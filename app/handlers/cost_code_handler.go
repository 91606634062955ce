package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
)

// CostCodeHandlerInterface defines the contract for cost-code handlers
type CostCodeHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// CostCodeHandler handles cost-code HTTP requests
type CostCodeHandler struct {
	costCodeFlow businessflow.CostCodeFlow
	validator    *validator.Validate
}

// NewCostCodeHandler creates a new cost-code handler
func NewCostCodeHandler(costCodeFlow businessflow.CostCodeFlow) *CostCodeHandler {
	return &CostCodeHandler{
		costCodeFlow: costCodeFlow,
		validator:    validator.New(),
	}
}

func costCodeErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsPermissionDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", nil)
	}
	if businessflow.IsCostCodeNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Cost code not found", "COST_CODE_NOT_FOUND", nil)
	}
	if businessflow.IsSiteNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Site not found", "SITE_NOT_FOUND", nil)
	}
	if businessflow.IsCostCodeHasEntries(err) {
		return errorResponse(c, fiber.StatusConflict, "Cost code is referenced by time entries", "COST_CODE_HAS_ENTRIES", nil)
	}

	log.Println(fallbackMessage, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// List returns cost-codes, optionally filtered by site and finished state
func (h *CostCodeHandler) List(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var siteID *uint
	if raw := c.Query("site_id", ""); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid site_id", "INVALID_REQUEST", nil)
		}
		id := uint(v)
		siteID = &id
	}
	var finished *bool
	if raw := c.Query("finished", ""); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid finished flag", "INVALID_REQUEST", nil)
		}
		finished = &v
	}

	limit, offset := parsePagination(c, 100, 500)
	codes, err := h.costCodeFlow.List(createRequestContext(c, "/api/v1/cost-codes"), actor, siteID, finished, limit, offset)
	if err != nil {
		return costCodeErrorResponse(c, err, "Failed to list cost codes", "COST_CODE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Cost codes retrieved", codes)
}

// Get returns one cost-code
func (h *CostCodeHandler) Get(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid cost code ID", "INVALID_REQUEST", nil)
	}

	costCode, err := h.costCodeFlow.Get(createRequestContext(c, "/api/v1/cost-codes/:id"), actor, id)
	if err != nil {
		return costCodeErrorResponse(c, err, "Failed to get cost code", "COST_CODE_GET_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Cost code retrieved", costCode)
}

// Create registers a cost-code under a site
func (h *CostCodeHandler) Create(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateCostCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	costCode, err := h.costCodeFlow.Create(createRequestContext(c, "/api/v1/cost-codes"), actor, &req)
	if err != nil {
		return costCodeErrorResponse(c, err, "Failed to create cost code", "COST_CODE_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Cost code created", costCode)
}

// Update partially updates a cost-code
func (h *CostCodeHandler) Update(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid cost code ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateCostCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	costCode, err := h.costCodeFlow.Update(createRequestContext(c, "/api/v1/cost-codes/:id"), actor, id, &req)
	if err != nil {
		return costCodeErrorResponse(c, err, "Failed to update cost code", "COST_CODE_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Cost code updated", costCode)
}

// Delete removes an unreferenced cost-code
func (h *CostCodeHandler) Delete(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid cost code ID", "INVALID_REQUEST", nil)
	}

	if err := h.costCodeFlow.Delete(createRequestContext(c, "/api/v1/cost-codes/:id"), actor, id); err != nil {
		return costCodeErrorResponse(c, err, "Failed to delete cost code", "COST_CODE_DELETE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Cost code deleted", nil)
}
