package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
	"github.com/horasobra/backend/utils"
)

// TimeEntryHandlerInterface defines the contract for time entry handlers
type TimeEntryHandlerInterface interface {
	Create(c fiber.Ctx) error
	CreateBatch(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	ListToday(c fiber.Ctx) error
	ListMonth(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// TimeEntryHandler handles time entry HTTP requests
type TimeEntryHandler struct {
	entryFlow businessflow.TimeEntryFlow
	batchFlow businessflow.TimeEntryBatchFlow
	validator *validator.Validate
}

// NewTimeEntryHandler creates a new time entry handler
func NewTimeEntryHandler(entryFlow businessflow.TimeEntryFlow, batchFlow businessflow.TimeEntryBatchFlow) *TimeEntryHandler {
	return &TimeEntryHandler{
		entryFlow: entryFlow,
		batchFlow: batchFlow,
		validator: validator.New(),
	}
}

// entryErrorResponse maps the shared entry validation errors onto HTTP codes.
func entryErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsPermissionDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", nil)
	}
	if businessflow.IsMutationWindowExceeded(err) {
		return errorResponse(c, fiber.StatusUnprocessableEntity, "Entries can only be changed for today or yesterday", "MUTATION_WINDOW_EXCEEDED", nil)
	}
	if businessflow.IsInvalidInterval(err) {
		return errorResponse(c, fiber.StatusUnprocessableEntity, "Invalid time interval", "INVALID_INTERVAL", nil)
	}
	if businessflow.IsOverlapConflict(err) {
		return errorResponse(c, fiber.StatusConflict, "Time entry overlaps an existing interval", "TIME_ENTRY_OVERLAP", overlapDetails(err))
	}
	if businessflow.IsWorkerNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Worker not found", "WORKER_NOT_FOUND", nil)
	}
	if businessflow.IsCostCodeNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Cost code not found", "COST_CODE_NOT_FOUND", nil)
	}
	if businessflow.IsTimeEntryNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Time entry not found", "TIME_ENTRY_NOT_FOUND", nil)
	}

	log.Println(fallbackMessage, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// Create logs a single time entry
func (h *TimeEntryHandler) Create(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateTimeEntryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	entry, err := h.entryFlow.Create(createRequestContext(c, "/api/v1/entries"), actor, &req)
	if err != nil {
		return entryErrorResponse(c, err, "Failed to create time entry", "TIME_ENTRY_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Time entry created", entry)
}

// CreateBatch persists an ordered list of entries atomically
func (h *TimeEntryHandler) CreateBatch(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateTimeEntryBatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if handled, err := validateRequest(c, h.validator, &req); handled {
		return err
	}

	entries, err := h.batchFlow.CreateBatch(createRequestContext(c, "/api/v1/entries/batch"), actor, &req)
	if err != nil {
		if idx := candidateIndex(err); idx >= 0 && !businessflow.IsOverlapConflict(err) {
			if businessflow.IsPermissionDenied(err) {
				return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", fiber.Map{"candidate_index": idx})
			}
			if businessflow.IsMutationWindowExceeded(err) {
				return errorResponse(c, fiber.StatusUnprocessableEntity, "Entries can only be changed for today or yesterday", "MUTATION_WINDOW_EXCEEDED", fiber.Map{"candidate_index": idx})
			}
			if businessflow.IsInvalidInterval(err) {
				return errorResponse(c, fiber.StatusUnprocessableEntity, "Invalid time interval", "INVALID_INTERVAL", fiber.Map{"candidate_index": idx})
			}
			if businessflow.IsWorkerNotFound(err) {
				return errorResponse(c, fiber.StatusNotFound, "Worker not found", "WORKER_NOT_FOUND", fiber.Map{"candidate_index": idx})
			}
			if businessflow.IsCostCodeNotFound(err) {
				return errorResponse(c, fiber.StatusNotFound, "Cost code not found", "COST_CODE_NOT_FOUND", fiber.Map{"candidate_index": idx})
			}
		}
		return entryErrorResponse(c, err, "Failed to create batch", "TIME_ENTRY_BATCH_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Batch created", entries)
}

// Get returns one time entry
func (h *TimeEntryHandler) Get(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", "INVALID_REQUEST", nil)
	}

	entry, err := h.entryFlow.Get(createRequestContext(c, "/api/v1/entries/:id"), actor, id)
	if err != nil {
		return entryErrorResponse(c, err, "Failed to get time entry", "TIME_ENTRY_GET_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Time entry retrieved", entry)
}

// List returns entries matching the query filters, scoped to the actor
func (h *TimeEntryHandler) List(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	req, err := parseListRequest(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	entries, err := h.entryFlow.List(createRequestContext(c, "/api/v1/entries"), actor, req)
	if err != nil {
		return entryErrorResponse(c, err, "Failed to list time entries", "TIME_ENTRY_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Time entries retrieved", entries)
}

// ListToday returns the actor-visible entries logged for the current day
func (h *TimeEntryHandler) ListToday(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	today := dto.NewDate(utils.UTCNow())
	req := &dto.ListTimeEntriesRequest{Date: &today}
	if workerID := c.Query("worker_id", ""); workerID != "" {
		req.WorkerID = &workerID
	}

	entries, err := h.entryFlow.List(createRequestContext(c, "/api/v1/entries/today"), actor, req)
	if err != nil {
		return entryErrorResponse(c, err, "Failed to list time entries", "TIME_ENTRY_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Time entries retrieved", entries)
}

// ListMonth returns the actor-visible entries of one calendar month
func (h *TimeEntryHandler) ListMonth(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	year, errYear := strconv.Atoi(c.Query("year", ""))
	month, errMonth := strconv.Atoi(c.Query("month", ""))
	if errYear != nil || errMonth != nil || month < 1 || month > 12 {
		return errorResponse(c, fiber.StatusBadRequest, "year and month query parameters are required", "INVALID_REQUEST", nil)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)
	from, to := dto.NewDate(first), dto.NewDate(last)

	req := &dto.ListTimeEntriesRequest{DateFrom: &from, DateTo: &to, Limit: 500}
	if workerID := c.Query("worker_id", ""); workerID != "" {
		req.WorkerID = &workerID
	}

	entries, err := h.entryFlow.List(createRequestContext(c, "/api/v1/entries/month"), actor, req)
	if err != nil {
		return entryErrorResponse(c, err, "Failed to list time entries", "TIME_ENTRY_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Time entries retrieved", entries)
}

// Update applies a partial update to one time entry
func (h *TimeEntryHandler) Update(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateTimeEntryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	entry, err := h.entryFlow.Update(createRequestContext(c, "/api/v1/entries/:id"), actor, id, &req)
	if err != nil {
		return entryErrorResponse(c, err, "Failed to update time entry", "TIME_ENTRY_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Time entry updated", entry)
}

// Delete removes one time entry
func (h *TimeEntryHandler) Delete(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", "INVALID_REQUEST", nil)
	}

	if err := h.entryFlow.Delete(createRequestContext(c, "/api/v1/entries/:id"), actor, id); err != nil {
		return entryErrorResponse(c, err, "Failed to delete time entry", "TIME_ENTRY_DELETE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Time entry deleted", nil)
}

func parseListRequest(c fiber.Ctx) (*dto.ListTimeEntriesRequest, error) {
	req := &dto.ListTimeEntriesRequest{}

	if workerID := c.Query("worker_id", ""); workerID != "" {
		req.WorkerID = &workerID
	}
	if raw := c.Query("site_id", ""); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, err
		}
		siteID := uint(v)
		req.SiteID = &siteID
	}
	if raw := c.Query("cost_code_id", ""); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, err
		}
		costCodeID := uint(v)
		req.CostCodeID = &costCodeID
	}
	if raw := c.Query("date", ""); raw != "" {
		var d dto.Date
		if err := d.UnmarshalText([]byte(raw)); err != nil {
			return nil, err
		}
		req.Date = &d
	}
	if raw := c.Query("date_from", ""); raw != "" {
		var d dto.Date
		if err := d.UnmarshalText([]byte(raw)); err != nil {
			return nil, err
		}
		req.DateFrom = &d
	}
	if raw := c.Query("date_to", ""); raw != "" {
		var d dto.Date
		if err := d.UnmarshalText([]byte(raw)); err != nil {
			return nil, err
		}
		req.DateTo = &d
	}

	req.Limit, req.Offset = parsePagination(c, 100, 500)
	return req, nil
}
