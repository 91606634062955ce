package businessflow

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
	"github.com/horasobra/backend/timeslot"
	"github.com/horasobra/backend/utils"
)

// In-memory repository fakes. They mirror the SQL predicates of the real
// implementations closely enough for flow-level tests: the comparable-entry
// filter, the daily-totals grouping, and explicit-NULL column updates.

type fakeTimeEntryRepo struct {
	entries      map[uint]*models.TimeEntry
	nextID       uint
	saveErr      error
	saveBatchErr error
}

func newFakeTimeEntryRepo() *fakeTimeEntryRepo {
	return &fakeTimeEntryRepo{entries: map[uint]*models.TimeEntry{}, nextID: 1}
}

func (r *fakeTimeEntryRepo) ByID(ctx context.Context, id uint) (*models.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	clone := *entry
	return &clone, nil
}

func (r *fakeTimeEntryRepo) ByFilter(ctx context.Context, filter models.TimeEntryFilter, orderBy string, limit, offset int) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range r.entries {
		if filter.WorkerID != nil && entry.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.SiteID != nil && (entry.SiteID == nil || *entry.SiteID != *filter.SiteID) {
			continue
		}
		if filter.CostCodeID != nil && (entry.CostCodeID == nil || *entry.CostCodeID != *filter.CostCodeID) {
			continue
		}
		if filter.Date != nil && !timeslot.SameDate(entry.Date, *filter.Date) {
			continue
		}
		if filter.DateFrom != nil && entry.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && entry.Date.After(*filter.DateTo) {
			continue
		}
		clone := *entry
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTimeEntryRepo) ComparableByWorkerAndDate(ctx context.Context, workerID string, date time.Time) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range r.entries {
		if entry.WorkerID != workerID || !timeslot.SameDate(entry.Date, date) {
			continue
		}
		if entry.Regularization() {
			continue
		}
		if (entry.Start == nil || entry.End == nil) && entry.LegacyRange == nil {
			continue
		}
		clone := *entry
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTimeEntryRepo) Save(ctx context.Context, entry *models.TimeEntry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if entry.ID == 0 {
		entry.ID = r.nextID
		r.nextID++
	}
	if entry.UUID == uuid.Nil {
		entry.UUID = uuid.New()
	}
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeTimeEntryRepo) SaveBatch(ctx context.Context, entries []*models.TimeEntry) error {
	if r.saveBatchErr != nil {
		return r.saveBatchErr
	}
	for _, entry := range entries {
		if err := r.Save(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTimeEntryRepo) Updates(ctx context.Context, entry *models.TimeEntry, values map[string]any) error {
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeTimeEntryRepo) Delete(ctx context.Context, entry *models.TimeEntry) error {
	delete(r.entries, entry.ID)
	return nil
}

func (r *fakeTimeEntryRepo) CountBySite(ctx context.Context, siteID uint) (int64, error) {
	var n int64
	for _, entry := range r.entries {
		if entry.SiteID != nil && *entry.SiteID == siteID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTimeEntryRepo) CountByCostCode(ctx context.Context, costCodeID uint) (int64, error) {
	var n int64
	for _, entry := range r.entries {
		if entry.CostCodeID != nil && *entry.CostCodeID == costCodeID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTimeEntryRepo) CountByWorker(ctx context.Context, workerID string) (int64, error) {
	var n int64
	for _, entry := range r.entries {
		if entry.WorkerID == workerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTimeEntryRepo) DailyTotals(ctx context.Context, workerIDs []string, from, to time.Time) ([]*repository.DailyTotal, error) {
	wanted := map[string]bool{}
	for _, id := range workerIDs {
		wanted[id] = true
	}

	grouped := map[string]*repository.DailyTotal{}
	for _, entry := range r.entries {
		if len(wanted) > 0 && !wanted[entry.WorkerID] {
			continue
		}
		if entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		key := entry.WorkerID + "|" + entry.Date.Format(utils.DateLayout)
		total, ok := grouped[key]
		if !ok {
			total = &repository.DailyTotal{WorkerID: entry.WorkerID, Date: entry.Date}
			grouped[key] = total
		}
		total.TotalHours += entry.TotalHours
	}

	out := make([]*repository.DailyTotal, 0, len(grouped))
	for _, total := range grouped {
		out = append(out, total)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkerID != out[j].WorkerID {
			return out[i].WorkerID < out[j].WorkerID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

type fakeWorkerRepo struct {
	workers map[string]*models.Worker
}

func newFakeWorkerRepo(workers ...*models.Worker) *fakeWorkerRepo {
	r := &fakeWorkerRepo{workers: map[string]*models.Worker{}}
	for _, w := range workers {
		clone := *w
		r.workers[w.ID] = &clone
	}
	return r
}

func (r *fakeWorkerRepo) ByID(ctx context.Context, id string) (*models.Worker, error) {
	worker, ok := r.workers[id]
	if !ok {
		return nil, nil
	}
	clone := *worker
	return &clone, nil
}

func (r *fakeWorkerRepo) List(ctx context.Context, limit, offset int) ([]*models.Worker, error) {
	ids := make([]string, 0, len(r.workers))
	for id := range r.workers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*models.Worker, 0, len(ids))
	for _, id := range ids {
		clone := *r.workers[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeWorkerRepo) Save(ctx context.Context, worker *models.Worker) error {
	clone := *worker
	r.workers[worker.ID] = &clone
	return nil
}

func (r *fakeWorkerRepo) Updates(ctx context.Context, worker *models.Worker, values map[string]any) error {
	clone := *worker
	r.workers[worker.ID] = &clone
	return nil
}

func (r *fakeWorkerRepo) Delete(ctx context.Context, worker *models.Worker) error {
	delete(r.workers, worker.ID)
	return nil
}

type fakeCostCodeRepo struct {
	codes  map[uint]*models.CostCode
	nextID uint
}

func newFakeCostCodeRepo(codes ...*models.CostCode) *fakeCostCodeRepo {
	r := &fakeCostCodeRepo{codes: map[uint]*models.CostCode{}, nextID: 1}
	for _, c := range codes {
		clone := *c
		r.codes[c.ID] = &clone
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *fakeCostCodeRepo) ByID(ctx context.Context, id uint) (*models.CostCode, error) {
	code, ok := r.codes[id]
	if !ok {
		return nil, nil
	}
	clone := *code
	return &clone, nil
}

func (r *fakeCostCodeRepo) ByFilter(ctx context.Context, filter models.CostCodeFilter, orderBy string, limit, offset int) ([]*models.CostCode, error) {
	var out []*models.CostCode
	for _, code := range r.codes {
		if filter.SiteID != nil && code.SiteID != *filter.SiteID {
			continue
		}
		if filter.Finished != nil && code.Finished != *filter.Finished {
			continue
		}
		clone := *code
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SiteID != out[j].SiteID {
			return out[i].SiteID < out[j].SiteID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *fakeCostCodeRepo) Save(ctx context.Context, costCode *models.CostCode) error {
	if costCode.ID == 0 {
		costCode.ID = r.nextID
		r.nextID++
	}
	clone := *costCode
	r.codes[costCode.ID] = &clone
	return nil
}

func (r *fakeCostCodeRepo) Updates(ctx context.Context, costCode *models.CostCode, values map[string]any) error {
	clone := *costCode
	r.codes[costCode.ID] = &clone
	return nil
}

func (r *fakeCostCodeRepo) Delete(ctx context.Context, costCode *models.CostCode) error {
	delete(r.codes, costCode.ID)
	return nil
}

func (r *fakeCostCodeRepo) CountBySite(ctx context.Context, siteID uint) (int64, error) {
	var n int64
	for _, code := range r.codes {
		if code.SiteID == siteID {
			n++
		}
	}
	return n, nil
}

type fakeSiteRepo struct {
	sites  map[uint]*models.Site
	nextID uint
}

func newFakeSiteRepo(sites ...*models.Site) *fakeSiteRepo {
	r := &fakeSiteRepo{sites: map[uint]*models.Site{}, nextID: 1}
	for _, s := range sites {
		clone := *s
		r.sites[s.ID] = &clone
		if s.ID >= r.nextID {
			r.nextID = s.ID + 1
		}
	}
	return r
}

func (r *fakeSiteRepo) ByID(ctx context.Context, id uint) (*models.Site, error) {
	site, ok := r.sites[id]
	if !ok {
		return nil, nil
	}
	clone := *site
	return &clone, nil
}

func (r *fakeSiteRepo) ByIDWithCostCodes(ctx context.Context, id uint) (*models.Site, error) {
	return r.ByID(ctx, id)
}

func (r *fakeSiteRepo) List(ctx context.Context, limit, offset int) ([]*models.Site, error) {
	ids := make([]uint, 0, len(r.sites))
	for id := range r.sites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.Site, 0, len(ids))
	for _, id := range ids {
		clone := *r.sites[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeSiteRepo) ListWithOpenCostCodes(ctx context.Context, limit, offset int) ([]*models.Site, error) {
	return r.List(ctx, limit, offset)
}

func (r *fakeSiteRepo) Save(ctx context.Context, site *models.Site) error {
	if site.ID == 0 {
		site.ID = r.nextID
		r.nextID++
	}
	clone := *site
	r.sites[site.ID] = &clone
	return nil
}

func (r *fakeSiteRepo) Updates(ctx context.Context, site *models.Site, values map[string]any) error {
	clone := *site
	r.sites[site.ID] = &clone
	return nil
}

func (r *fakeSiteRepo) Delete(ctx context.Context, site *models.Site) error {
	delete(r.sites, site.ID)
	return nil
}

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) ByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		clone := *r.users[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Updates(ctx context.Context, user *models.User, values map[string]any) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, user *models.User) error {
	delete(r.users, user.ID)
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, userID uint, at time.Time) error {
	if user, ok := r.users[userID]; ok {
		user.LastLoginAt = &at
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}
