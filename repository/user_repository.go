package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/horasobra/backend/models"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	*BaseRepository[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User](db),
	}
}

func (r *UserRepositoryImpl) ByID(ctx context.Context, id uint) (*models.User, error) {
	db := r.getDB(ctx)
	return first[models.User](db.Where("id = ?", id))
}

func (r *UserRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.User, error) {
	db := r.getDB(ctx)
	return first[models.User](db.Where("username = ?", username))
}

func (r *UserRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	q := db.Model(&models.User{}).Order("username")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var users []*models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepositoryImpl) TouchLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.updateColumns(ctx, userID, map[string]any{"last_login_at": at})
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.updateColumns(ctx, userID, map[string]any{"password_hash": passwordHash})
}

func (r *UserRepositoryImpl) updateColumns(ctx context.Context, userID uint, values map[string]any) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.User{}).Where("id = ?", userID).Updates(values).Error
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return nil
}
