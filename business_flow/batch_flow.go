package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
	"github.com/horasobra/backend/utils"
	"gorm.io/gorm"
)

// TimeEntryBatchFlow persists an ordered list of entry candidates atomically:
// either every candidate is stored or none is.
type TimeEntryBatchFlow interface {
	CreateBatch(ctx context.Context, actor Actor, req *dto.CreateTimeEntryBatchRequest) ([]*models.TimeEntry, error)
}

// TimeEntryBatchFlowImpl implements TimeEntryBatchFlow
type TimeEntryBatchFlowImpl struct {
	entryRepo    repository.TimeEntryRepository
	workerRepo   repository.WorkerRepository
	costCodeRepo repository.CostCodeRepository
	cache        *SummaryCache
	runInTx      func(ctx context.Context, fn func(context.Context) error) error
	now          func() time.Time
}

// NewTimeEntryBatchFlow constructs a TimeEntryBatchFlow
func NewTimeEntryBatchFlow(
	entryRepo repository.TimeEntryRepository,
	workerRepo repository.WorkerRepository,
	costCodeRepo repository.CostCodeRepository,
	cache *SummaryCache,
	db *gorm.DB,
) TimeEntryBatchFlow {
	return &TimeEntryBatchFlowImpl{
		entryRepo:    entryRepo,
		workerRepo:   workerRepo,
		costCodeRepo: costCodeRepo,
		cache:        cache,
		runInTx: func(ctx context.Context, fn func(context.Context) error) error {
			return repository.WithTransaction(ctx, db, fn)
		},
		now: utils.UTCNow,
	}
}

// CreateBatch validates every candidate in submission order, checks each one
// against the persisted comparable entries of its (worker, date) group and
// against the candidates accepted before it, then saves the whole list in a
// single transaction. The first failing candidate aborts the batch; its
// position and the blamed entry travel up in the error chain.
func (f *TimeEntryBatchFlowImpl) CreateBatch(ctx context.Context, actor Actor, req *dto.CreateTimeEntryBatchRequest) ([]*models.TimeEntry, error) {
	now := f.now()

	entries := make([]*models.TimeEntry, 0, len(req.Entries))
	for i, item := range req.Entries {
		entry, err := validateCandidate(ctx, actor, candidate{
			workerID:         item.WorkerID,
			date:             item.Date.Time,
			start:            item.Start,
			end:              item.End,
			totalHours:       item.TotalHours,
			siteID:           item.SiteID,
			costCodeID:       item.CostCodeID,
			isExtra:          item.IsExtra,
			extraType:        item.ExtraType,
			extraDescription: item.ExtraDescription,
			isRegularization: item.IsRegularization,
		}, now, f.workerRepo, f.costCodeRepo)
		if err != nil {
			return nil, NewBusinessError("TIME_ENTRY_BATCH_VALIDATION_FAILED", "Batch candidate validation failed",
				&CandidateError{Index: i, Err: err})
		}
		entries = append(entries, entry)
	}

	// One fetch per (worker, date) group; every candidate in the group is
	// compared against the same persisted snapshot.
	persistedByGroup := map[string][]*models.TimeEntry{}
	for _, entry := range entries {
		key := entry.WorkerID + "|" + entry.Date.Format(utils.DateLayout)
		if _, ok := persistedByGroup[key]; ok {
			continue
		}
		persisted, err := f.entryRepo.ComparableByWorkerAndDate(ctx, entry.WorkerID, entry.Date)
		if err != nil {
			return nil, NewBusinessError("TIME_ENTRY_BATCH_FAILED", "Failed to load existing entries", err)
		}
		persistedByGroup[key] = persisted
	}

	for i, entry := range entries {
		iv := entry.Interval()
		if iv == nil {
			continue
		}
		key := entry.WorkerID + "|" + entry.Date.Format(utils.DateLayout)
		if conflict := conflictWithPersisted(*iv, persistedByGroup[key], 0); conflict != nil {
			conflict.CandidateIndex = i
			return nil, NewBusinessError("TIME_ENTRY_OVERLAP", "Batch candidate overlaps an existing entry", conflict)
		}
		for j := 0; j < i; j++ {
			sibling := entries[j]
			if sibling.WorkerID != entry.WorkerID {
				continue
			}
			other := sibling.Interval()
			if other == nil {
				continue
			}
			if iv.Overlaps(*other) {
				idx := j
				return nil, NewBusinessError("TIME_ENTRY_OVERLAP", "Batch candidate overlaps an earlier candidate",
					&OverlapError{
						CandidateIndex: i,
						BatchIndex:     &idx,
						Range:          other.Range(),
						Date:           other.Date.Format(utils.DateLayout),
					})
			}
		}
	}

	err := f.runInTx(ctx, func(txCtx context.Context) error {
		return f.entryRepo.SaveBatch(txCtx, entries)
	})
	if err != nil {
		return nil, NewBusinessError("TIME_ENTRY_BATCH_FAILED", "Failed to save batch",
			fmt.Errorf("%w: %v", ErrStorageIntegrity, err))
	}

	for _, entry := range entries {
		f.cache.Invalidate(ctx, entry.WorkerID, entry.Date)
	}
	return entries, nil
}
