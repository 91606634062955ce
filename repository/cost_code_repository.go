package repository

import (
	"context"
	"fmt"

	"github.com/horasobra/backend/models"
	"gorm.io/gorm"
)

type CostCodeRepositoryImpl struct {
	*BaseRepository[models.CostCode]
}

func NewCostCodeRepository(db *gorm.DB) CostCodeRepository {
	return &CostCodeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CostCode](db),
	}
}

func (r *CostCodeRepositoryImpl) ByID(ctx context.Context, id uint) (*models.CostCode, error) {
	db := r.getDB(ctx)
	return first[models.CostCode](db.Where("id = ?", id))
}

func (r *CostCodeRepositoryImpl) ByFilter(ctx context.Context, filter models.CostCodeFilter, orderBy string, limit, offset int) ([]*models.CostCode, error) {
	db := r.getDB(ctx)
	q := db.Model(&models.CostCode{})

	if filter.ID != nil {
		q = q.Where("id = ?", *filter.ID)
	}
	if filter.SiteID != nil {
		q = q.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Name != nil {
		q = q.Where("name = ?", *filter.Name)
	}
	if filter.Finished != nil {
		q = q.Where("finished = ?", *filter.Finished)
	}

	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var costCodes []*models.CostCode
	if err := q.Find(&costCodes).Error; err != nil {
		return nil, fmt.Errorf("failed to list cost codes: %w", err)
	}
	return costCodes, nil
}

func (r *CostCodeRepositoryImpl) CountBySite(ctx context.Context, siteID uint) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := db.Model(&models.CostCode{}).Where("site_id = ?", siteID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cost codes: %w", err)
	}
	return count, nil
}
