// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/app/middleware"
	businessflow "github.com/horasobra/backend/business_flow"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validateRequest runs struct validation and renders the standard validation
// error response. A nil return with handled=true means the response was
// already written.
func validateRequest(c fiber.Ctx, v *validator.Validate, req any) (handled bool, err error) {
	if vErr := v.Struct(req); vErr != nil {
		var validationErrors []string
		var fieldErrors validator.ValidationErrors
		if errors.As(vErr, &fieldErrors) {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, getValidationErrorMessage(fe))
			}
		}
		return true, errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return false, nil
}

// requireActor pulls the authenticated actor out of the request context. The
// auth middleware guarantees it on protected routes; a miss is a wiring bug.
func requireActor(c fiber.Ctx) (businessflow.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return businessflow.Actor{}, errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}
	return actor, nil
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c fiber.Ctx, name string) (uint, bool) {
	raw := c.Params(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c fiber.Ctx, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("limit", "")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(c.Query("offset", "")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// overlapDetails extracts the conflict description from an overlap error so
// clients can point at the offending entry or batch position.
func overlapDetails(err error) any {
	var overlap *businessflow.OverlapError
	if !errors.As(err, &overlap) {
		return nil
	}
	details := fiber.Map{
		"range": overlap.Range,
		"date":  overlap.Date,
	}
	if overlap.CandidateIndex >= 0 {
		details["candidate_index"] = overlap.CandidateIndex
	}
	if overlap.EntryUUID != nil {
		details["entry_uuid"] = *overlap.EntryUUID
	}
	if overlap.BatchIndex != nil {
		details["batch_index"] = *overlap.BatchIndex
	}
	return details
}

// candidateIndex reports which batch candidate failed validation, or -1.
func candidateIndex(err error) int {
	var candidate *businessflow.CandidateError
	if errors.As(err, &candidate) {
		return candidate.Index
	}
	return -1
}
