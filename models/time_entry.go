// Package models contains the GORM entities and query filters of the hours-tracking backend
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/horasobra/backend/timeslot"
	"gorm.io/gorm"
)

// Overtime type labels carried on extra-hours entries
const (
	ExtraTypeInternal = "internal"
	ExtraTypeExternal = "external"
)

// TimeEntry is one worker's logged time segment (or regularization entry) for
// one calendar date. Worker and cost-code names are denormalized at write time
// and are not re-synced on renames.
type TimeEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_time_entries_uuid" json:"uuid"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	WorkerID   string    `gorm:"size:64;not null;index:idx_time_entries_worker_date,priority:1" json:"worker_id"`
	WorkerName string    `gorm:"size:255;not null" json:"worker_name"`
	Date       time.Time `gorm:"type:date;not null;index:idx_time_entries_worker_date,priority:2" json:"date"`

	SiteID       *uint   `gorm:"index:idx_time_entries_site_id" json:"site_id,omitempty"`
	CostCodeID   *uint   `gorm:"index:idx_time_entries_cost_code_id" json:"cost_code_id,omitempty"`
	CostCodeName *string `gorm:"size:255" json:"cost_code_name,omitempty"`

	// Start/End are the structured representation; LegacyRange is the
	// free-text "HH:MM-HH:MM[,...]" column predating them. Old rows may
	// carry only LegacyRange; regularization rows carry neither.
	Start       *timeslot.TimeOfDay `gorm:"type:time" json:"start,omitempty"`
	End         *timeslot.TimeOfDay `gorm:"type:time" json:"end,omitempty"`
	LegacyRange *string             `gorm:"size:255" json:"legacy_range,omitempty"`

	// TotalHours is supplied independently and is intentionally not derived
	// from End - Start.
	TotalHours float64 `gorm:"type:numeric(6,2);not null" json:"total_hours"`

	IsExtra          *bool   `gorm:"default:false" json:"is_extra,omitempty"`
	ExtraType        *string `gorm:"size:32" json:"extra_type,omitempty"`
	ExtraDescription *string `gorm:"type:text" json:"extra_description,omitempty"`

	IsRegularization *bool `gorm:"default:false" json:"is_regularization,omitempty"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// BeforeCreate ensures UUID is set for TimeEntry
func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	return nil
}

// Regularization reports whether the entry bypasses interval semantics.
func (e *TimeEntry) Regularization() bool {
	return e.IsRegularization != nil && *e.IsRegularization
}

// Interval normalizes the entry into a comparable half-open interval.
// Structured columns win; otherwise the first token of the legacy range is
// used. Regularization entries and rows with no parseable representation
// yield nil, which excludes them from overlap comparison.
func (e *TimeEntry) Interval() *timeslot.Interval {
	if e.Regularization() {
		return nil
	}
	if e.Start != nil && e.End != nil {
		return &timeslot.Interval{
			Date:   e.Date,
			Start:  *e.Start,
			End:    *e.End,
			Source: timeslot.SourceStructured,
		}
	}
	if e.LegacyRange != nil {
		if start, end, ok := timeslot.ParseRange(*e.LegacyRange); ok {
			return &timeslot.Interval{
				Date:   e.Date,
				Start:  start,
				End:    end,
				Source: timeslot.SourceLegacy,
			}
		}
	}
	return nil
}

// TimeEntryFilter represents filter criteria for time entry queries
type TimeEntryFilter struct {
	ID               *uint      `json:"id,omitempty"`
	UUID             *uuid.UUID `json:"uuid,omitempty"`
	WorkerID         *string    `json:"worker_id,omitempty"`
	SiteID           *uint      `json:"site_id,omitempty"`
	CostCodeID       *uint      `json:"cost_code_id,omitempty"`
	Date             *time.Time `json:"date,omitempty"`
	DateFrom         *time.Time `json:"date_from,omitempty"`
	DateTo           *time.Time `json:"date_to,omitempty"`
	IsRegularization *bool      `json:"is_regularization,omitempty"`
}
