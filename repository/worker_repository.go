package repository

import (
	"context"
	"fmt"

	"github.com/horasobra/backend/models"
	"gorm.io/gorm"
)

type WorkerRepositoryImpl struct {
	*BaseRepository[models.Worker]
}

func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &WorkerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Worker](db),
	}
}

func (r *WorkerRepositoryImpl) ByID(ctx context.Context, id string) (*models.Worker, error) {
	db := r.getDB(ctx)
	return first[models.Worker](db.Where("id = ?", id))
}

func (r *WorkerRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*models.Worker, error) {
	db := r.getDB(ctx)
	q := db.Model(&models.Worker{}).Order("name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var workers []*models.Worker
	if err := q.Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}
