// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/horasobra/backend/models"
)

// DailyTotal is one worker's summed hours for a single date
type DailyTotal struct {
	WorkerID   string    `gorm:"column:worker_id"`
	Date       time.Time `gorm:"column:date"`
	TotalHours float64   `gorm:"column:total_hours"`
}

// TimeEntryRepository defines operations for time entries
type TimeEntryRepository interface {
	ByID(ctx context.Context, id uint) (*models.TimeEntry, error)
	ByFilter(ctx context.Context, filter models.TimeEntryFilter, orderBy string, limit, offset int) ([]*models.TimeEntry, error)
	// ComparableByWorkerAndDate returns the persisted non-regularization
	// entries of one worker on one date, the candidate set for overlap checks.
	ComparableByWorkerAndDate(ctx context.Context, workerID string, date time.Time) ([]*models.TimeEntry, error)
	Save(ctx context.Context, entry *models.TimeEntry) error
	SaveBatch(ctx context.Context, entries []*models.TimeEntry) error
	Updates(ctx context.Context, entry *models.TimeEntry, values map[string]any) error
	Delete(ctx context.Context, entry *models.TimeEntry) error
	CountBySite(ctx context.Context, siteID uint) (int64, error)
	CountByCostCode(ctx context.Context, costCodeID uint) (int64, error)
	CountByWorker(ctx context.Context, workerID string) (int64, error)
	// DailyTotals sums total_hours per (worker, date) over an inclusive date range.
	DailyTotals(ctx context.Context, workerIDs []string, from, to time.Time) ([]*DailyTotal, error)
}

// WorkerRepository defines operations for workers
type WorkerRepository interface {
	ByID(ctx context.Context, id string) (*models.Worker, error)
	List(ctx context.Context, limit, offset int) ([]*models.Worker, error)
	Save(ctx context.Context, worker *models.Worker) error
	Updates(ctx context.Context, worker *models.Worker, values map[string]any) error
	Delete(ctx context.Context, worker *models.Worker) error
}

// SiteRepository defines operations for jobsites
type SiteRepository interface {
	ByID(ctx context.Context, id uint) (*models.Site, error)
	ByIDWithCostCodes(ctx context.Context, id uint) (*models.Site, error)
	List(ctx context.Context, limit, offset int) ([]*models.Site, error)
	ListWithOpenCostCodes(ctx context.Context, limit, offset int) ([]*models.Site, error)
	Save(ctx context.Context, site *models.Site) error
	Updates(ctx context.Context, site *models.Site, values map[string]any) error
	Delete(ctx context.Context, site *models.Site) error
}

// CostCodeRepository defines operations for cost-codes
type CostCodeRepository interface {
	ByID(ctx context.Context, id uint) (*models.CostCode, error)
	ByFilter(ctx context.Context, filter models.CostCodeFilter, orderBy string, limit, offset int) ([]*models.CostCode, error)
	Save(ctx context.Context, costCode *models.CostCode) error
	Updates(ctx context.Context, costCode *models.CostCode, values map[string]any) error
	Delete(ctx context.Context, costCode *models.CostCode) error
	CountBySite(ctx context.Context, siteID uint) (int64, error)
}

// UserRepository defines operations for login accounts
type UserRepository interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Updates(ctx context.Context, user *models.User, values map[string]any) error
	Delete(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, userID uint, at time.Time) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}
