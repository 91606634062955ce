package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
)

// SummaryHandlerInterface defines the contract for summary handlers
type SummaryHandlerInterface interface {
	Monthly(c fiber.Ctx) error
	MonthlyExport(c fiber.Ctx) error
}

// SummaryHandler handles monthly report HTTP requests
type SummaryHandler struct {
	summaryFlow businessflow.SummaryFlow
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryFlow businessflow.SummaryFlow) *SummaryHandler {
	return &SummaryHandler{summaryFlow: summaryFlow}
}

func parseSummaryRequest(c fiber.Ctx) (*dto.MonthlySummaryRequest, bool) {
	year, errYear := strconv.Atoi(c.Query("year", ""))
	month, errMonth := strconv.Atoi(c.Query("month", ""))
	if errYear != nil || errMonth != nil {
		return nil, false
	}
	return &dto.MonthlySummaryRequest{Year: year, Month: month}, true
}

func summaryErrorResponse(c fiber.Ctx, err error) error {
	if businessflow.IsInvalidMonth(err) {
		return errorResponse(c, fiber.StatusBadRequest, "Month must be between 1 and 12", "INVALID_MONTH", nil)
	}
	if businessflow.IsPermissionDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Not allowed", "PERMISSION_DENIED", nil)
	}
	if businessflow.IsWorkerNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Worker not found", "WORKER_NOT_FOUND", nil)
	}

	log.Println("Monthly summary failed", err)
	return errorResponse(c, fiber.StatusInternalServerError, "Failed to compute monthly summary", "MONTHLY_SUMMARY_FAILED", nil)
}

// Monthly returns the per-worker daily totals of one calendar month
func (h *SummaryHandler) Monthly(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	req, ok := parseSummaryRequest(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "year and month query parameters are required", "INVALID_REQUEST", nil)
	}

	report, err := h.summaryFlow.MonthlySummary(createRequestContext(c, "/api/v1/entries/monthly-summary"), actor, req)
	if err != nil {
		return summaryErrorResponse(c, err)
	}

	return successResponse(c, fiber.StatusOK, "Monthly summary computed", report)
}

// MonthlyExport streams the monthly report as an Excel workbook
func (h *SummaryHandler) MonthlyExport(c fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	req, ok := parseSummaryRequest(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "year and month query parameters are required", "INVALID_REQUEST", nil)
	}

	filename, payload, err := h.summaryFlow.ExportMonthlySummary(createRequestContext(c, "/api/v1/entries/monthly-summary/export"), actor, req)
	if err != nil {
		return summaryErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}
