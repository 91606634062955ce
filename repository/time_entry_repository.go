package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/horasobra/backend/models"
	"gorm.io/gorm"
)

type TimeEntryRepositoryImpl struct {
	*BaseRepository[models.TimeEntry]
}

func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &TimeEntryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TimeEntry](db),
	}
}

func (r *TimeEntryRepositoryImpl) ByID(ctx context.Context, id uint) (*models.TimeEntry, error) {
	db := r.getDB(ctx)
	return first[models.TimeEntry](db.Where("id = ?", id))
}

func (r *TimeEntryRepositoryImpl) ByFilter(ctx context.Context, filter models.TimeEntryFilter, orderBy string, limit, offset int) ([]*models.TimeEntry, error) {
	db := r.getDB(ctx)
	q := applyTimeEntryFilter(db.Model(&models.TimeEntry{}), filter)

	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var entries []*models.TimeEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return entries, nil
}

func applyTimeEntryFilter(q *gorm.DB, filter models.TimeEntryFilter) *gorm.DB {
	if filter.ID != nil {
		q = q.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		q = q.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkerID != nil {
		q = q.Where("worker_id = ?", *filter.WorkerID)
	}
	if filter.SiteID != nil {
		q = q.Where("site_id = ?", *filter.SiteID)
	}
	if filter.CostCodeID != nil {
		q = q.Where("cost_code_id = ?", *filter.CostCodeID)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", toDate(*filter.Date))
	} else {
		if filter.DateFrom != nil {
			q = q.Where("date >= ?", toDate(*filter.DateFrom))
		}
		if filter.DateTo != nil {
			q = q.Where("date <= ?", toDate(*filter.DateTo))
		}
	}
	if filter.IsRegularization != nil {
		q = q.Where("is_regularization = ?", *filter.IsRegularization)
	}
	return q
}

// ComparableByWorkerAndDate fetches the persisted entries a candidate interval
// has to be checked against: same worker, same date, not regularizations.
// Rows with neither structured times nor a legacy range are excluded up front;
// rows with an unparseable legacy range still come back and are skipped by the
// callers when normalization fails.
func (r *TimeEntryRepositoryImpl) ComparableByWorkerAndDate(ctx context.Context, workerID string, date time.Time) ([]*models.TimeEntry, error) {
	db := r.getDB(ctx)

	var entries []*models.TimeEntry
	err := db.
		Where("worker_id = ? AND date = ?", workerID, toDate(date)).
		Where("(is_regularization IS NULL OR is_regularization = false)").
		Where("(start IS NOT NULL AND \"end\" IS NOT NULL) OR legacy_range IS NOT NULL").
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comparable entries for worker %s: %w", workerID, err)
	}
	return entries, nil
}

func (r *TimeEntryRepositoryImpl) CountBySite(ctx context.Context, siteID uint) (int64, error) {
	return r.countWhere(ctx, "site_id = ?", siteID)
}

func (r *TimeEntryRepositoryImpl) CountByCostCode(ctx context.Context, costCodeID uint) (int64, error) {
	return r.countWhere(ctx, "cost_code_id = ?", costCodeID)
}

func (r *TimeEntryRepositoryImpl) CountByWorker(ctx context.Context, workerID string) (int64, error) {
	return r.countWhere(ctx, "worker_id = ?", workerID)
}

func (r *TimeEntryRepositoryImpl) countWhere(ctx context.Context, cond string, arg any) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := db.Model(&models.TimeEntry{}).Where(cond, arg).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count time entries: %w", err)
	}
	return count, nil
}

func (r *TimeEntryRepositoryImpl) DailyTotals(ctx context.Context, workerIDs []string, from, to time.Time) ([]*DailyTotal, error) {
	db := r.getDB(ctx)

	q := db.Model(&models.TimeEntry{}).
		Select("worker_id, date, SUM(total_hours) AS total_hours").
		Where("date >= ? AND date <= ?", toDate(from), toDate(to)).
		Group("worker_id, date").
		Order("worker_id, date")
	if len(workerIDs) > 0 {
		q = q.Where("worker_id IN ?", workerIDs)
	}

	var rows []*DailyTotal
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate daily totals: %w", err)
	}
	return rows, nil
}

// toDate truncates a timestamp to its calendar day so comparisons against the
// postgres date column never depend on the time-of-day component.
func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
