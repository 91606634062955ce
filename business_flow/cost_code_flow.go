package businessflow

import (
	"context"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
)

// CostCodeFlow manages cost-codes, the per-site work items entries are
// logged against.
type CostCodeFlow interface {
	List(ctx context.Context, actor Actor, siteID *uint, finished *bool, limit, offset int) ([]*models.CostCode, error)
	Get(ctx context.Context, actor Actor, costCodeID uint) (*models.CostCode, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateCostCodeRequest) (*models.CostCode, error)
	Update(ctx context.Context, actor Actor, costCodeID uint, req *dto.UpdateCostCodeRequest) (*models.CostCode, error)
	Delete(ctx context.Context, actor Actor, costCodeID uint) error
}

// CostCodeFlowImpl implements CostCodeFlow
type CostCodeFlowImpl struct {
	costCodeRepo repository.CostCodeRepository
	siteRepo     repository.SiteRepository
	entryRepo    repository.TimeEntryRepository
}

// NewCostCodeFlow constructs a CostCodeFlow
func NewCostCodeFlow(
	costCodeRepo repository.CostCodeRepository,
	siteRepo repository.SiteRepository,
	entryRepo repository.TimeEntryRepository,
) CostCodeFlow {
	return &CostCodeFlowImpl{
		costCodeRepo: costCodeRepo,
		siteRepo:     siteRepo,
		entryRepo:    entryRepo,
	}
}

func (f *CostCodeFlowImpl) List(ctx context.Context, actor Actor, siteID *uint, finished *bool, limit, offset int) ([]*models.CostCode, error) {
	codes, err := f.costCodeRepo.ByFilter(ctx, models.CostCodeFilter{
		SiteID:   siteID,
		Finished: finished,
	}, "site_id, name", limit, offset)
	if err != nil {
		return nil, NewBusinessError("COST_CODE_LIST_FAILED", "Failed to list cost codes", err)
	}
	return codes, nil
}

func (f *CostCodeFlowImpl) Get(ctx context.Context, actor Actor, costCodeID uint) (*models.CostCode, error) {
	costCode, err := getCostCode(ctx, f.costCodeRepo, costCodeID)
	if err != nil {
		return nil, NewBusinessError("COST_CODE_GET_FAILED", "Cost code lookup failed", err)
	}
	return costCode, nil
}

// Create stores a cost-code under its site, denormalizing the site name so
// listings never need a join.
func (f *CostCodeFlowImpl) Create(ctx context.Context, actor Actor, req *dto.CreateCostCodeRequest) (*models.CostCode, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("COST_CODE_CREATE_FAILED", "Only secretary or admin may create cost codes", ErrPermissionDenied)
	}

	site, err := getSite(ctx, f.siteRepo, req.SiteID)
	if err != nil {
		return nil, NewBusinessError("COST_CODE_CREATE_FAILED", "Site lookup failed", err)
	}

	costCode := &models.CostCode{
		SiteID:   site.ID,
		SiteName: site.Name,
		Name:     req.Name,
	}
	if err := f.costCodeRepo.Save(ctx, costCode); err != nil {
		return nil, NewBusinessError("COST_CODE_CREATE_FAILED", "Failed to save cost code", err)
	}
	return costCode, nil
}

func (f *CostCodeFlowImpl) Update(ctx context.Context, actor Actor, costCodeID uint, req *dto.UpdateCostCodeRequest) (*models.CostCode, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("COST_CODE_UPDATE_FAILED", "Only secretary or admin may update cost codes", ErrPermissionDenied)
	}

	costCode, err := getCostCode(ctx, f.costCodeRepo, costCodeID)
	if err != nil {
		return nil, NewBusinessError("COST_CODE_UPDATE_FAILED", "Cost code lookup failed", err)
	}

	values := map[string]any{}
	if req.SiteID != nil && *req.SiteID != costCode.SiteID {
		site, err := getSite(ctx, f.siteRepo, *req.SiteID)
		if err != nil {
			return nil, NewBusinessError("COST_CODE_UPDATE_FAILED", "Site lookup failed", err)
		}
		costCode.SiteID = site.ID
		costCode.SiteName = site.Name
		values["site_id"] = site.ID
		values["site_name"] = site.Name
	}
	if req.Name != nil {
		costCode.Name = *req.Name
		values["name"] = *req.Name
	}
	if req.Finished != nil {
		costCode.Finished = *req.Finished
		values["finished"] = *req.Finished
	}
	if len(values) == 0 {
		return costCode, nil
	}

	if err := f.costCodeRepo.Updates(ctx, costCode, values); err != nil {
		return nil, NewBusinessError("COST_CODE_UPDATE_FAILED", "Failed to update cost code", err)
	}
	return costCode, nil
}

func (f *CostCodeFlowImpl) Delete(ctx context.Context, actor Actor, costCodeID uint) error {
	if !models.ElevatedRole(actor.Role) {
		return NewBusinessError("COST_CODE_DELETE_FAILED", "Only secretary or admin may delete cost codes", ErrPermissionDenied)
	}

	costCode, err := getCostCode(ctx, f.costCodeRepo, costCodeID)
	if err != nil {
		return NewBusinessError("COST_CODE_DELETE_FAILED", "Cost code lookup failed", err)
	}

	entries, err := f.entryRepo.CountByCostCode(ctx, costCode.ID)
	if err != nil {
		return NewBusinessError("COST_CODE_DELETE_FAILED", "Failed to count time entries", err)
	}
	if entries > 0 {
		return NewBusinessError("COST_CODE_DELETE_FAILED", "Cost code is referenced by time entries", ErrCostCodeHasEntries)
	}

	if err := f.costCodeRepo.Delete(ctx, costCode); err != nil {
		return NewBusinessError("COST_CODE_DELETE_FAILED", "Failed to delete cost code", err)
	}
	return nil
}
