// Package businessflow contains the core business logic and use cases of the hours-tracking backend
package businessflow

import (
	"context"
	"time"

	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
	"github.com/horasobra/backend/timeslot"
)

// Actor is the resolved identity a request acts as. It is passed explicitly
// into every operation; flows never consult ambient session state.
type Actor struct {
	UserID   uint
	Username string
	Role     string
	// WorkerID links worker-role accounts to their Worker row; nil for most
	// secretary/admin accounts.
	WorkerID *string
}

// IsWorker reports whether the actor is restricted to its own records.
func (a Actor) IsWorker() bool {
	return a.Role == models.RoleWorker
}

// CanActFor reports whether the actor may touch records of the given worker.
func (a Actor) CanActFor(workerID string) bool {
	if models.ElevatedRole(a.Role) {
		return true
	}
	return a.WorkerID != nil && *a.WorkerID == workerID
}

// withinMutationWindow reports whether a date falls on today or yesterday,
// the only days worker-role actors may create, edit, or delete entries on.
func withinMutationWindow(now, date time.Time) bool {
	today := now.UTC()
	yesterday := today.AddDate(0, 0, -1)
	return timeslot.SameDate(date, today) || timeslot.SameDate(date, yesterday)
}

func getWorker(ctx context.Context, repo repository.WorkerRepository, id string) (*models.Worker, error) {
	worker, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}
	return worker, nil
}

func getCostCode(ctx context.Context, repo repository.CostCodeRepository, id uint) (*models.CostCode, error) {
	costCode, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if costCode == nil {
		return nil, ErrCostCodeNotFound
	}
	return costCode, nil
}

func getSite(ctx context.Context, repo repository.SiteRepository, id uint) (*models.Site, error) {
	site, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, ErrSiteNotFound
	}
	return site, nil
}

func getTimeEntry(ctx context.Context, repo repository.TimeEntryRepository, id uint) (*models.TimeEntry, error) {
	entry, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrTimeEntryNotFound
	}
	return entry, nil
}
