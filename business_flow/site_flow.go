package businessflow

import (
	"context"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
)

// SiteFlow manages jobsites
type SiteFlow interface {
	List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Site, error)
	ListOpen(ctx context.Context, actor Actor, limit, offset int) ([]*models.Site, error)
	Get(ctx context.Context, actor Actor, siteID uint) (*models.Site, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateSiteRequest) (*models.Site, error)
	Update(ctx context.Context, actor Actor, siteID uint, req *dto.UpdateSiteRequest) (*models.Site, error)
	Delete(ctx context.Context, actor Actor, siteID uint) error
}

// SiteFlowImpl implements SiteFlow
type SiteFlowImpl struct {
	siteRepo     repository.SiteRepository
	costCodeRepo repository.CostCodeRepository
	entryRepo    repository.TimeEntryRepository
}

// NewSiteFlow constructs a SiteFlow
func NewSiteFlow(
	siteRepo repository.SiteRepository,
	costCodeRepo repository.CostCodeRepository,
	entryRepo repository.TimeEntryRepository,
) SiteFlow {
	return &SiteFlowImpl{
		siteRepo:     siteRepo,
		costCodeRepo: costCodeRepo,
		entryRepo:    entryRepo,
	}
}

func (f *SiteFlowImpl) List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Site, error) {
	sites, err := f.siteRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("SITE_LIST_FAILED", "Failed to list sites", err)
	}
	return sites, nil
}

// ListOpen returns only sites that still have unfinished cost-codes, the set
// time can be logged against.
func (f *SiteFlowImpl) ListOpen(ctx context.Context, actor Actor, limit, offset int) ([]*models.Site, error) {
	sites, err := f.siteRepo.ListWithOpenCostCodes(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("SITE_LIST_FAILED", "Failed to list open sites", err)
	}
	return sites, nil
}

func (f *SiteFlowImpl) Get(ctx context.Context, actor Actor, siteID uint) (*models.Site, error) {
	site, err := f.siteRepo.ByIDWithCostCodes(ctx, siteID)
	if err != nil {
		return nil, NewBusinessError("SITE_GET_FAILED", "Site lookup failed", err)
	}
	if site == nil {
		return nil, NewBusinessError("SITE_GET_FAILED", "Site not found", ErrSiteNotFound)
	}
	return site, nil
}

func (f *SiteFlowImpl) Create(ctx context.Context, actor Actor, req *dto.CreateSiteRequest) (*models.Site, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("SITE_CREATE_FAILED", "Only secretary or admin may create sites", ErrPermissionDenied)
	}

	site := &models.Site{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := f.siteRepo.Save(ctx, site); err != nil {
		return nil, NewBusinessError("SITE_CREATE_FAILED", "Failed to save site", err)
	}
	return site, nil
}

func (f *SiteFlowImpl) Update(ctx context.Context, actor Actor, siteID uint, req *dto.UpdateSiteRequest) (*models.Site, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("SITE_UPDATE_FAILED", "Only secretary or admin may update sites", ErrPermissionDenied)
	}

	site, err := getSite(ctx, f.siteRepo, siteID)
	if err != nil {
		return nil, NewBusinessError("SITE_UPDATE_FAILED", "Site lookup failed", err)
	}

	values := map[string]any{}
	if req.Name != nil {
		site.Name = *req.Name
		values["name"] = *req.Name
	}
	if req.Address.Set {
		site.Address = req.Address.Value
		values["address"] = optColumn(req.Address.Value)
	}
	if len(values) == 0 {
		return site, nil
	}

	if err := f.siteRepo.Updates(ctx, site, values); err != nil {
		return nil, NewBusinessError("SITE_UPDATE_FAILED", "Failed to update site", err)
	}
	return site, nil
}

// Delete refuses to remove a site that still owns cost-codes or that time
// entries reference; historical records must stay resolvable.
func (f *SiteFlowImpl) Delete(ctx context.Context, actor Actor, siteID uint) error {
	if !models.ElevatedRole(actor.Role) {
		return NewBusinessError("SITE_DELETE_FAILED", "Only secretary or admin may delete sites", ErrPermissionDenied)
	}

	site, err := getSite(ctx, f.siteRepo, siteID)
	if err != nil {
		return NewBusinessError("SITE_DELETE_FAILED", "Site lookup failed", err)
	}

	codes, err := f.costCodeRepo.CountBySite(ctx, site.ID)
	if err != nil {
		return NewBusinessError("SITE_DELETE_FAILED", "Failed to count cost codes", err)
	}
	if codes > 0 {
		return NewBusinessError("SITE_DELETE_FAILED", "Site still has cost codes", ErrSiteHasCostCodes)
	}

	entries, err := f.entryRepo.CountBySite(ctx, site.ID)
	if err != nil {
		return NewBusinessError("SITE_DELETE_FAILED", "Failed to count time entries", err)
	}
	if entries > 0 {
		return NewBusinessError("SITE_DELETE_FAILED", "Site is referenced by time entries", ErrSiteHasEntries)
	}

	if err := f.siteRepo.Delete(ctx, site); err != nil {
		return NewBusinessError("SITE_DELETE_FAILED", "Failed to delete site", err)
	}
	return nil
}
