package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/horasobra/backend/models"
	"gorm.io/gorm"
)

type SiteRepositoryImpl struct {
	*BaseRepository[models.Site]
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &SiteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Site](db),
	}
}

func (r *SiteRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Site, error) {
	db := r.getDB(ctx)
	return first[models.Site](db.Where("id = ?", id))
}

func (r *SiteRepositoryImpl) ByIDWithCostCodes(ctx context.Context, id uint) (*models.Site, error) {
	db := r.getDB(ctx)
	var site models.Site
	if err := db.Preload("CostCodes").Where("id = ?", id).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*models.Site, error) {
	db := r.getDB(ctx)
	return r.list(db.Model(&models.Site{}), limit, offset)
}

// ListWithOpenCostCodes returns sites that still have at least one unfinished cost-code
func (r *SiteRepositoryImpl) ListWithOpenCostCodes(ctx context.Context, limit, offset int) ([]*models.Site, error) {
	db := r.getDB(ctx)
	q := db.Model(&models.Site{}).
		Where("EXISTS (SELECT 1 FROM cost_codes WHERE cost_codes.site_id = sites.id AND cost_codes.finished = false)")
	return r.list(q, limit, offset)
}

func (r *SiteRepositoryImpl) list(q *gorm.DB, limit, offset int) ([]*models.Site, error) {
	q = q.Order("name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var sites []*models.Site
	if err := q.Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}
