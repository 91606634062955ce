// Package businessflow contains the core business logic and use cases of the hours-tracking backend
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
	"github.com/horasobra/backend/timeslot"
	"github.com/horasobra/backend/utils"
)

// TimeEntryFlow defines the single-entry record lifecycle
type TimeEntryFlow interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateTimeEntryRequest) (*models.TimeEntry, error)
	Update(ctx context.Context, actor Actor, entryID uint, req *dto.UpdateTimeEntryRequest) (*models.TimeEntry, error)
	Delete(ctx context.Context, actor Actor, entryID uint) error
	Get(ctx context.Context, actor Actor, entryID uint) (*models.TimeEntry, error)
	List(ctx context.Context, actor Actor, req *dto.ListTimeEntriesRequest) ([]*models.TimeEntry, error)
}

// TimeEntryFlowImpl implements TimeEntryFlow
type TimeEntryFlowImpl struct {
	entryRepo    repository.TimeEntryRepository
	workerRepo   repository.WorkerRepository
	costCodeRepo repository.CostCodeRepository
	cache        *SummaryCache
	now          func() time.Time
}

// NewTimeEntryFlow constructs a TimeEntryFlow
func NewTimeEntryFlow(
	entryRepo repository.TimeEntryRepository,
	workerRepo repository.WorkerRepository,
	costCodeRepo repository.CostCodeRepository,
	cache *SummaryCache,
) TimeEntryFlow {
	return &TimeEntryFlowImpl{
		entryRepo:    entryRepo,
		workerRepo:   workerRepo,
		costCodeRepo: costCodeRepo,
		cache:        cache,
		now:          utils.UTCNow,
	}
}

// candidate is the normalized form a new entry takes before validation,
// shared between the single create and the batch reconciler.
type candidate struct {
	workerID         string
	date             time.Time
	start            *timeslot.TimeOfDay
	end              *timeslot.TimeOfDay
	legacyRange      *string
	totalHours       float64
	siteID           *uint
	costCodeID       *uint
	isExtra          bool
	extraType        *string
	extraDescription *string
	isRegularization bool
}

// validateCandidate applies every per-candidate rule in order (permission,
// regularization role, mutability window, interval strictness, referenced
// worker and cost-code existence) and materializes the entry with the
// denormalized worker and cost-code names. Overlap checking is the caller's
// job; site existence is deliberately not checked here, matching the
// historical behavior.
func validateCandidate(
	ctx context.Context,
	actor Actor,
	c candidate,
	now time.Time,
	workerRepo repository.WorkerRepository,
	costCodeRepo repository.CostCodeRepository,
) (*models.TimeEntry, error) {
	if !actor.CanActFor(c.workerID) {
		return nil, ErrPermissionDenied
	}

	if c.isRegularization {
		if actor.IsWorker() {
			return nil, ErrPermissionDenied
		}
		// Regularizations carry total hours only; any interval the client
		// sent is discarded so it can never take part in overlap checks.
		c.start, c.end, c.legacyRange = nil, nil, nil
	} else {
		if actor.IsWorker() && !withinMutationWindow(now, c.date) {
			return nil, ErrMutationWindowExceeded
		}
		if err := validateCandidateInterval(c); err != nil {
			return nil, err
		}
	}

	worker, err := getWorker(ctx, workerRepo, c.workerID)
	if err != nil {
		return nil, err
	}

	var costCodeName *string
	if c.costCodeID != nil {
		costCode, err := getCostCode(ctx, costCodeRepo, *c.costCodeID)
		if err != nil {
			return nil, err
		}
		costCodeName = &costCode.Name
	}

	return &models.TimeEntry{
		WorkerID:         worker.ID,
		WorkerName:       worker.Name,
		Date:             dateOnly(c.date),
		SiteID:           c.siteID,
		CostCodeID:       c.costCodeID,
		CostCodeName:     costCodeName,
		Start:            c.start,
		End:              c.end,
		LegacyRange:      c.legacyRange,
		TotalHours:       c.totalHours,
		IsExtra:          utils.ToPtr(c.isExtra),
		ExtraType:        c.extraType,
		ExtraDescription: c.extraDescription,
		IsRegularization: utils.ToPtr(c.isRegularization),
	}, nil
}

// validateCandidateInterval enforces that a non-regularization candidate has
// a usable strictly-positive interval: either both structured times or a
// parseable legacy range. Unlike historical rows, malformed input on a NEW
// entry is an error, never silently tolerated.
func validateCandidateInterval(c candidate) error {
	switch {
	case c.start != nil && c.end != nil:
		if !c.start.IsValid() || !c.end.IsValid() || *c.start >= *c.end {
			return ErrInvalidInterval
		}
		return nil
	case c.start != nil || c.end != nil:
		return ErrInvalidInterval
	case c.legacyRange != nil:
		start, end, ok := timeslot.ParseRange(*c.legacyRange)
		if !ok || start >= end {
			return ErrInvalidInterval
		}
		return nil
	default:
		return ErrIntervalRequired
	}
}

// conflictWithPersisted compares a candidate interval against persisted rows,
// skipping the row being updated (excludeID) and rows that normalize to no
// interval. The first positive-length intersection wins.
func conflictWithPersisted(iv timeslot.Interval, persisted []*models.TimeEntry, excludeID uint) *OverlapError {
	for _, existing := range persisted {
		if excludeID != 0 && existing.ID == excludeID {
			continue
		}
		other := existing.Interval()
		if other == nil {
			continue // unparseable or interval-less historical row: cannot conflict
		}
		if iv.Overlaps(*other) {
			u := existing.UUID.String()
			return &OverlapError{
				CandidateIndex: -1,
				EntryUUID:      &u,
				Range:          other.Range(),
				Date:           other.Date.Format("2006-01-02"),
			}
		}
	}
	return nil
}

func (f *TimeEntryFlowImpl) Create(ctx context.Context, actor Actor, req *dto.CreateTimeEntryRequest) (*models.TimeEntry, error) {
	entry, err := validateCandidate(ctx, actor, candidate{
		workerID:         req.WorkerID,
		date:             req.Date.Time,
		start:            req.Start,
		end:              req.End,
		legacyRange:      req.LegacyRange,
		totalHours:       req.TotalHours,
		siteID:           req.SiteID,
		costCodeID:       req.CostCodeID,
		isExtra:          req.IsExtra,
		extraType:        req.ExtraType,
		extraDescription: req.ExtraDescription,
		isRegularization: req.IsRegularization,
	}, f.now(), f.workerRepo, f.costCodeRepo)
	if err != nil {
		return nil, NewBusinessError("TIME_ENTRY_VALIDATION_FAILED", "Time entry validation failed", err)
	}

	if iv := entry.Interval(); iv != nil {
		persisted, err := f.entryRepo.ComparableByWorkerAndDate(ctx, entry.WorkerID, entry.Date)
		if err != nil {
			return nil, NewBusinessError("TIME_ENTRY_CREATE_FAILED", "Failed to load existing entries", err)
		}
		if conflict := conflictWithPersisted(*iv, persisted, 0); conflict != nil {
			return nil, NewBusinessError("TIME_ENTRY_OVERLAP", "Time entry overlaps an existing entry", conflict)
		}
	}

	if err := f.entryRepo.Save(ctx, entry); err != nil {
		return nil, NewBusinessError("TIME_ENTRY_CREATE_FAILED", "Failed to save time entry",
			fmt.Errorf("%w: %v", ErrStorageIntegrity, err))
	}

	f.cache.Invalidate(ctx, entry.WorkerID, entry.Date)
	return entry, nil
}

func (f *TimeEntryFlowImpl) Update(ctx context.Context, actor Actor, entryID uint, req *dto.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	entry, err := getTimeEntry(ctx, f.entryRepo, entryID)
	if err != nil {
		return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Time entry lookup failed", err)
	}

	if !actor.CanActFor(entry.WorkerID) {
		return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Not allowed to update this entry", ErrPermissionDenied)
	}
	if req.IsRegularization != nil && *req.IsRegularization && actor.IsWorker() {
		return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Workers cannot create regularizations", ErrPermissionDenied)
	}

	newDate := entry.Date
	if req.Date != nil {
		newDate = dateOnly(req.Date.Time)
	}
	if actor.IsWorker() {
		now := f.now()
		if !withinMutationWindow(now, entry.Date) || !withinMutationWindow(now, newDate) {
			return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Entry date outside editable window", ErrMutationWindowExceeded)
		}
	}

	merged, values, err := mergeUpdate(entry, req, newDate)
	if err != nil {
		return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Time entry validation failed", err)
	}

	if req.CostCodeID.Set {
		if req.CostCodeID.Cleared() {
			merged.CostCodeName = nil
			values["cost_code_name"] = nil
		} else {
			costCode, err := getCostCode(ctx, f.costCodeRepo, *req.CostCodeID.Value)
			if err != nil {
				return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Cost code lookup failed", err)
			}
			merged.CostCodeName = &costCode.Name
			values["cost_code_name"] = costCode.Name
		}
	}

	// Re-run overlap validation only when the comparable interval (or the
	// date it lives on) actually changed; the stored row itself is excluded.
	if intervalChanged(entry, merged) {
		if iv := merged.Interval(); iv != nil {
			persisted, err := f.entryRepo.ComparableByWorkerAndDate(ctx, merged.WorkerID, merged.Date)
			if err != nil {
				return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Failed to load existing entries", err)
			}
			if conflict := conflictWithPersisted(*iv, persisted, entry.ID); conflict != nil {
				return nil, NewBusinessError("TIME_ENTRY_OVERLAP", "Time entry overlaps an existing entry", conflict)
			}
		}
	}

	if len(values) > 0 {
		if err := f.entryRepo.Updates(ctx, merged, values); err != nil {
			return nil, NewBusinessError("TIME_ENTRY_UPDATE_FAILED", "Failed to update time entry",
				fmt.Errorf("%w: %v", ErrStorageIntegrity, err))
		}
	}

	f.cache.Invalidate(ctx, entry.WorkerID, entry.Date)
	if !timeslot.SameDate(entry.Date, merged.Date) {
		f.cache.Invalidate(ctx, merged.WorkerID, merged.Date)
	}
	return merged, nil
}

// mergeUpdate folds the partial payload over the stored entry, producing both
// the merged in-memory entry and the column map to persist. Omitted Optional
// fields keep the stored value; explicit nulls clear it. Turning an entry
// into a regularization clears every interval column; a payload that both
// sets the flag and supplies interval fields is rejected rather than guessed
// at.
func mergeUpdate(entry *models.TimeEntry, req *dto.UpdateTimeEntryRequest, newDate time.Time) (*models.TimeEntry, map[string]any, error) {
	merged := *entry
	values := map[string]any{}

	if req.Date != nil {
		merged.Date = newDate
		values["date"] = newDate
	}
	if req.TotalHours != nil {
		merged.TotalHours = *req.TotalHours
		values["total_hours"] = *req.TotalHours
	}
	if req.SiteID.Set {
		merged.SiteID = req.SiteID.Value
		values["site_id"] = optColumn(req.SiteID.Value)
	}
	if req.CostCodeID.Set {
		merged.CostCodeID = req.CostCodeID.Value
		values["cost_code_id"] = optColumn(req.CostCodeID.Value)
	}
	if req.IsExtra != nil {
		merged.IsExtra = req.IsExtra
		values["is_extra"] = *req.IsExtra
	}
	if req.ExtraType.Set {
		merged.ExtraType = req.ExtraType.Value
		values["extra_type"] = optColumn(req.ExtraType.Value)
	}
	if req.ExtraDescription.Set {
		merged.ExtraDescription = req.ExtraDescription.Value
		values["extra_description"] = optColumn(req.ExtraDescription.Value)
	}

	if req.Start.Set {
		merged.Start = req.Start.Value
		values["start"] = optColumn(req.Start.Value)
	}
	if req.End.Set {
		merged.End = req.End.Value
		values["end"] = optColumn(req.End.Value)
	}
	if req.LegacyRange.Set {
		merged.LegacyRange = req.LegacyRange.Value
		values["legacy_range"] = optColumn(req.LegacyRange.Value)
	}

	if req.IsRegularization != nil {
		merged.IsRegularization = req.IsRegularization
		values["is_regularization"] = *req.IsRegularization

		if *req.IsRegularization {
			suppliesInterval := (req.Start.Set && req.Start.Value != nil) ||
				(req.End.Set && req.End.Value != nil) ||
				(req.LegacyRange.Set && req.LegacyRange.Value != nil)
			if suppliesInterval {
				return nil, nil, ErrInvalidInterval
			}
			merged.Start, merged.End, merged.LegacyRange = nil, nil, nil
			values["start"] = nil
			values["end"] = nil
			values["legacy_range"] = nil
		}
	}

	// Interval strictness applies only when the payload touched the interval
	// representation. Stored rows whose legacy text no longer parses stay
	// updatable for every other field, same as they stay listable.
	touchedInterval := req.Start.Set || req.End.Set || req.LegacyRange.Set || req.IsRegularization != nil
	if touchedInterval && !merged.Regularization() {
		if err := validateCandidateInterval(candidate{
			start:       merged.Start,
			end:         merged.End,
			legacyRange: merged.LegacyRange,
		}); err != nil {
			return nil, nil, err
		}
	}

	return &merged, values, nil
}

// optColumn converts an optional pointer into the value GORM writes, keeping
// explicit NULLs in the column map.
func optColumn[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// intervalChanged reports whether the update moved the entry's comparable
// interval (including onto another date) or toggled its regularization state.
func intervalChanged(before, after *models.TimeEntry) bool {
	if before.Regularization() != after.Regularization() {
		return true
	}
	if !timeslot.SameDate(before.Date, after.Date) {
		return true
	}
	a, b := before.Interval(), after.Interval()
	switch {
	case a == nil && b == nil:
		return false
	case a == nil || b == nil:
		return true
	default:
		return a.Start != b.Start || a.End != b.End
	}
}

func (f *TimeEntryFlowImpl) Delete(ctx context.Context, actor Actor, entryID uint) error {
	entry, err := getTimeEntry(ctx, f.entryRepo, entryID)
	if err != nil {
		return NewBusinessError("TIME_ENTRY_DELETE_FAILED", "Time entry lookup failed", err)
	}

	if !actor.CanActFor(entry.WorkerID) {
		return NewBusinessError("TIME_ENTRY_DELETE_FAILED", "Not allowed to delete this entry", ErrPermissionDenied)
	}
	if actor.IsWorker() && !withinMutationWindow(f.now(), entry.Date) {
		return NewBusinessError("TIME_ENTRY_DELETE_FAILED", "Entry date outside editable window", ErrMutationWindowExceeded)
	}

	if err := f.entryRepo.Delete(ctx, entry); err != nil {
		return NewBusinessError("TIME_ENTRY_DELETE_FAILED", "Failed to delete time entry",
			fmt.Errorf("%w: %v", ErrStorageIntegrity, err))
	}

	f.cache.Invalidate(ctx, entry.WorkerID, entry.Date)
	return nil
}

func (f *TimeEntryFlowImpl) Get(ctx context.Context, actor Actor, entryID uint) (*models.TimeEntry, error) {
	entry, err := getTimeEntry(ctx, f.entryRepo, entryID)
	if err != nil {
		return nil, NewBusinessError("TIME_ENTRY_GET_FAILED", "Time entry lookup failed", err)
	}
	if !actor.CanActFor(entry.WorkerID) {
		return nil, NewBusinessError("TIME_ENTRY_GET_FAILED", "Not allowed to view this entry", ErrPermissionDenied)
	}
	return entry, nil
}

// List applies the requested filters under the actor's visibility: workers
// see their own entries only, regardless of the filters they ask for.
func (f *TimeEntryFlowImpl) List(ctx context.Context, actor Actor, req *dto.ListTimeEntriesRequest) ([]*models.TimeEntry, error) {
	filter := models.TimeEntryFilter{
		SiteID:     req.SiteID,
		CostCodeID: req.CostCodeID,
	}

	if req.WorkerID != nil {
		if !actor.CanActFor(*req.WorkerID) {
			return nil, NewBusinessError("TIME_ENTRY_LIST_FAILED", "Not allowed to view entries of other workers", ErrPermissionDenied)
		}
		filter.WorkerID = req.WorkerID
	} else if actor.IsWorker() {
		if actor.WorkerID == nil {
			return nil, NewBusinessError("TIME_ENTRY_LIST_FAILED", "Worker account has no linked worker", ErrPermissionDenied)
		}
		filter.WorkerID = actor.WorkerID
	}

	if req.Date != nil {
		filter.Date = utils.ToPtr(dateOnly(req.Date.Time))
	} else {
		if req.DateFrom != nil {
			filter.DateFrom = utils.ToPtr(dateOnly(req.DateFrom.Time))
		}
		if req.DateTo != nil {
			filter.DateTo = utils.ToPtr(dateOnly(req.DateTo.Time))
		}
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	entries, err := f.entryRepo.ByFilter(ctx, filter, "date DESC, id DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("TIME_ENTRY_LIST_FAILED", "Failed to list time entries", err)
	}
	return entries, nil
}

// dateOnly truncates a timestamp to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
