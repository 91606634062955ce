package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
)

// SiteHandlerInterface defines the contract for jobsite handlers
type SiteHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// SiteHandler handles jobsite HTTP requests
type SiteHandler struct {
	siteFlow  businessflow.SiteFlow
	validator *validator.Validate
}

// NewSiteHandler creates a new jobsite handler
func NewSiteHandler(siteFlow businessflow.SiteFlow) *SiteHandler {
	return &SiteHandler{
		siteFlow:  siteFlow,
		validator: validator.New(),
	}
}

func siteErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsPermissionDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", nil)
	}
	if businessflow.IsSiteNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Site not found", "SITE_NOT_FOUND", nil)
	}
	if businessflow.IsSiteHasCostCodes(err) {
		return errorResponse(c, fiber.StatusConflict, "Site still has cost codes", "SITE_HAS_COST_CODES", nil)
	}
	if businessflow.IsSiteHasEntries(err) {
		return errorResponse(c, fiber.StatusConflict, "Site is referenced by time entries", "SITE_HAS_ENTRIES", nil)
	}

	log.Println(fallbackMessage, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// List returns jobsites; ?open=true narrows to sites with unfinished cost-codes
func (h *SiteHandler) List(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c, 100, 500)
	ctx := createRequestContext(c, "/api/v1/sites")

	var sites any
	if c.Query("open", "") == "true" {
		sites, err = h.siteFlow.ListOpen(ctx, actor, limit, offset)
	} else {
		sites, err = h.siteFlow.List(ctx, actor, limit, offset)
	}
	if err != nil {
		return siteErrorResponse(c, err, "Failed to list sites", "SITE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Sites retrieved", sites)
}

// Get returns one jobsite with its cost-codes
func (h *SiteHandler) Get(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid site ID", "INVALID_REQUEST", nil)
	}

	site, err := h.siteFlow.Get(createRequestContext(c, "/api/v1/sites/:id"), actor, id)
	if err != nil {
		return siteErrorResponse(c, err, "Failed to get site", "SITE_GET_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Site retrieved", site)
}

// Create registers a jobsite
func (h *SiteHandler) Create(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateSiteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	site, err := h.siteFlow.Create(createRequestContext(c, "/api/v1/sites"), actor, &req)
	if err != nil {
		return siteErrorResponse(c, err, "Failed to create site", "SITE_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Site created", site)
}

// Update partially updates a jobsite
func (h *SiteHandler) Update(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid site ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateSiteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	site, err := h.siteFlow.Update(createRequestContext(c, "/api/v1/sites/:id"), actor, id, &req)
	if err != nil {
		return siteErrorResponse(c, err, "Failed to update site", "SITE_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Site updated", site)
}

// Delete removes a jobsite with no cost-codes and no entries
func (h *SiteHandler) Delete(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid site ID", "INVALID_REQUEST", nil)
	}

	if err := h.siteFlow.Delete(createRequestContext(c, "/api/v1/sites/:id"), actor, id); err != nil {
		return siteErrorResponse(c, err, "Failed to delete site", "SITE_DELETE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Site deleted", nil)
}
