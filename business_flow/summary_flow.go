package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/repository"
	"github.com/horasobra/backend/utils"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// summaryCacheTTL bounds how stale a cached monthly report may get; every
// entry mutation also invalidates the affected keys eagerly.
const summaryCacheTTL = 5 * time.Minute

// SummaryCache caches computed monthly reports in Redis, keyed by month and
// scope (one worker id or "all"). A nil receiver or nil client disables
// caching entirely.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache constructs a SummaryCache
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

func summaryCacheKey(year, month int, scope string) string {
	return fmt.Sprintf("monthly_summary:%04d-%02d:%s", year, month, scope)
}

// Get returns the cached report for the key, or false on miss, decode
// failure, or Redis being unreachable. Cache trouble never fails a read.
func (c *SummaryCache) Get(ctx context.Context, year, month int, scope string) ([]*dto.WorkerMonthlySummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, summaryCacheKey(year, month, scope)).Bytes()
	if err != nil {
		return nil, false
	}
	var report []*dto.WorkerMonthlySummary
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return report, true
}

// Set stores the report best-effort.
func (c *SummaryCache) Set(ctx context.Context, year, month int, scope string, report []*dto.WorkerMonthlySummary) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, summaryCacheKey(year, month, scope), raw, summaryCacheTTL).Err()
}

// Invalidate drops the per-worker and the all-workers keys of the month the
// date falls in. Called after every entry mutation.
func (c *SummaryCache) Invalidate(ctx context.Context, workerID string, date time.Time) {
	if c == nil || c.client == nil {
		return
	}
	year, month := date.Year(), int(date.Month())
	_ = c.client.Del(ctx,
		summaryCacheKey(year, month, workerID),
		summaryCacheKey(year, month, "all"),
	).Err()
}

// SummaryFlow builds per-worker monthly hour reports
type SummaryFlow interface {
	MonthlySummary(ctx context.Context, actor Actor, req *dto.MonthlySummaryRequest) ([]*dto.WorkerMonthlySummary, error)
	ExportMonthlySummary(ctx context.Context, actor Actor, req *dto.MonthlySummaryRequest) (string, []byte, error)
}

// SummaryFlowImpl implements SummaryFlow
type SummaryFlowImpl struct {
	entryRepo  repository.TimeEntryRepository
	workerRepo repository.WorkerRepository
	cache      *SummaryCache
}

// NewSummaryFlow constructs a SummaryFlow
func NewSummaryFlow(
	entryRepo repository.TimeEntryRepository,
	workerRepo repository.WorkerRepository,
	cache *SummaryCache,
) SummaryFlow {
	return &SummaryFlowImpl{
		entryRepo:  entryRepo,
		workerRepo: workerRepo,
		cache:      cache,
	}
}

// monthBounds returns the first and last calendar day of a month. AddDate
// handles the December to January rollover.
func monthBounds(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return first, last
}

// MonthlySummary sums daily hours per worker over one calendar month. Worker
// accounts always get their own report; elevated roles get every worker,
// including those with no entries that month.
func (f *SummaryFlowImpl) MonthlySummary(ctx context.Context, actor Actor, req *dto.MonthlySummaryRequest) ([]*dto.WorkerMonthlySummary, error) {
	if req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return nil, NewBusinessError("MONTHLY_SUMMARY_FAILED", "Month must be between 1 and 12", ErrInvalidMonth)
	}

	scope := "all"
	var workerIDs []string
	seed := map[string]*dto.WorkerMonthlySummary{}
	order := make([]string, 0)

	if actor.IsWorker() {
		if actor.WorkerID == nil {
			return nil, NewBusinessError("MONTHLY_SUMMARY_FAILED", "Worker account has no linked worker", ErrPermissionDenied)
		}
		worker, err := getWorker(ctx, f.workerRepo, *actor.WorkerID)
		if err != nil {
			return nil, NewBusinessError("MONTHLY_SUMMARY_FAILED", "Worker lookup failed", err)
		}
		scope = worker.ID
		workerIDs = []string{worker.ID}
		seed[worker.ID] = &dto.WorkerMonthlySummary{WorkerID: worker.ID, WorkerName: worker.Name, Days: []dto.DailySummary{}}
		order = append(order, worker.ID)
	} else {
		workers, err := f.workerRepo.List(ctx, 0, 0)
		if err != nil {
			return nil, NewBusinessError("MONTHLY_SUMMARY_FAILED", "Failed to list workers", err)
		}
		for _, w := range workers {
			workerIDs = append(workerIDs, w.ID)
			seed[w.ID] = &dto.WorkerMonthlySummary{WorkerID: w.ID, WorkerName: w.Name, Days: []dto.DailySummary{}}
			order = append(order, w.ID)
		}
	}

	if cached, ok := f.cache.Get(ctx, req.Year, req.Month, scope); ok {
		return cached, nil
	}

	from, to := monthBounds(req.Year, req.Month)
	totals, err := f.entryRepo.DailyTotals(ctx, workerIDs, from, to)
	if err != nil {
		return nil, NewBusinessError("MONTHLY_SUMMARY_FAILED", "Failed to compute daily totals", err)
	}

	for _, t := range totals {
		summary, ok := seed[t.WorkerID]
		if !ok {
			continue
		}
		summary.Days = append(summary.Days, dto.DailySummary{
			Date:       dto.NewDate(t.Date),
			TotalHours: t.TotalHours,
		})
		summary.MonthTotal += t.TotalHours
	}

	report := make([]*dto.WorkerMonthlySummary, 0, len(order))
	for _, id := range order {
		report = append(report, seed[id])
	}

	f.cache.Set(ctx, req.Year, req.Month, scope, report)
	return report, nil
}

// ExportMonthlySummary renders the monthly report as an Excel workbook with
// one row per worker-day and a total row per worker.
func (f *SummaryFlowImpl) ExportMonthlySummary(ctx context.Context, actor Actor, req *dto.MonthlySummaryRequest) (string, []byte, error) {
	report, err := f.MonthlySummary(ctx, actor, req)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	header := []string{"worker_id", "worker_name", "date", "hours"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	row := 2
	for _, summary := range report {
		for _, day := range summary.Days {
			record := []any{
				summary.WorkerID,
				summary.WorkerName,
				day.Date.Format(utils.DateLayout),
				day.TotalHours,
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, row)
			_ = xl.SetSheetRow(sheet, cellRef, &record)
			row++
		}
		record := []any{
			summary.WorkerID,
			summary.WorkerName,
			"total",
			summary.MonthTotal,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, row)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
		row++
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := "monthly_summary_" + strconv.Itoa(req.Year) + "_" + fmt.Sprintf("%02d", req.Month) + ".xlsx"
	return filename, buf.Bytes(), nil
}
