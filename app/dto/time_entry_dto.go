package dto

import (
	"github.com/horasobra/backend/timeslot"
)

// CreateTimeEntryRequest is the payload for logging one time entry.
// Start/End are the structured representation; LegacyRange accepts the
// free-text "HH:MM-HH:MM" form older clients still send. Regularization
// entries carry total hours only.
type CreateTimeEntryRequest struct {
	WorkerID         string              `json:"worker_id" validate:"required"`
	Date             Date                `json:"date" validate:"required"`
	Start            *timeslot.TimeOfDay `json:"start,omitempty"`
	End              *timeslot.TimeOfDay `json:"end,omitempty"`
	LegacyRange      *string             `json:"legacy_range,omitempty"`
	TotalHours       float64             `json:"total_hours" validate:"required"`
	SiteID           *uint               `json:"site_id,omitempty"`
	CostCodeID       *uint               `json:"cost_code_id,omitempty"`
	IsExtra          bool                `json:"is_extra"`
	ExtraType        *string             `json:"extra_type,omitempty" validate:"omitempty,oneof=internal external"`
	ExtraDescription *string             `json:"extra_description,omitempty"`
	IsRegularization bool                `json:"is_regularization"`
}

// UpdateTimeEntryRequest is a partial update. Optional fields distinguish an
// omitted key (keep the stored value) from an explicit null (clear it).
type UpdateTimeEntryRequest struct {
	Date             *Date                        `json:"date,omitempty"`
	Start            Optional[timeslot.TimeOfDay] `json:"start,omitempty"`
	End              Optional[timeslot.TimeOfDay] `json:"end,omitempty"`
	LegacyRange      Optional[string]             `json:"legacy_range,omitempty"`
	TotalHours       *float64                     `json:"total_hours,omitempty"`
	SiteID           Optional[uint]               `json:"site_id,omitempty"`
	CostCodeID       Optional[uint]               `json:"cost_code_id,omitempty"`
	IsExtra          *bool                        `json:"is_extra,omitempty"`
	ExtraType        Optional[string]             `json:"extra_type,omitempty"`
	ExtraDescription Optional[string]             `json:"extra_description,omitempty"`
	IsRegularization *bool                        `json:"is_regularization,omitempty"`
}

// ListTimeEntriesRequest carries the query-string filters of the list endpoint.
type ListTimeEntriesRequest struct {
	WorkerID   *string `query:"worker_id"`
	SiteID     *uint   `query:"site_id"`
	CostCodeID *uint   `query:"cost_code_id"`
	Date       *Date   `query:"date"`
	DateFrom   *Date   `query:"date_from"`
	DateTo     *Date   `query:"date_to"`
	Limit      int     `query:"limit"`
	Offset     int     `query:"offset"`
}

// BatchEntryRequest is one candidate in a batch creation request. Candidates
// are ordinary interval entries unless IsRegularization is set, which only
// secretary/admin actors may do.
type BatchEntryRequest struct {
	WorkerID         string              `json:"worker_id" validate:"required"`
	Date             Date                `json:"date" validate:"required"`
	Start            *timeslot.TimeOfDay `json:"start,omitempty"`
	End              *timeslot.TimeOfDay `json:"end,omitempty"`
	TotalHours       float64             `json:"total_hours" validate:"required"`
	SiteID           *uint               `json:"site_id,omitempty"`
	CostCodeID       *uint               `json:"cost_code_id,omitempty"`
	IsExtra          bool                `json:"is_extra"`
	ExtraType        *string             `json:"extra_type,omitempty" validate:"omitempty,oneof=internal external"`
	ExtraDescription *string             `json:"extra_description,omitempty"`
	IsRegularization bool                `json:"is_regularization"`
}

// CreateTimeEntryBatchRequest is an ordered list of candidates persisted
// all-or-nothing.
type CreateTimeEntryBatchRequest struct {
	Entries []BatchEntryRequest `json:"entries" validate:"required,min=1,dive"`
}
