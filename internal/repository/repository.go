package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/observability"
)

// observe records the outcome of a repository call and maps err into the
// application taxonomy.
func observe(ctx context.Context, repo, op string, err error) error {
	switch {
	case err == nil:
		observability.RecordRepositoryOperation(ctx, repo, op, "success")
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		observability.RecordRepositoryOperation(ctx, repo, op, "not_found")
	default:
		observability.RecordRepositoryOperation(ctx, repo, op, "error")
	}
	return apperr.FromDB(err)
}

func findByID[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// updateByID applies updates to the row with id and returns the reloaded
// row. An empty update only checks that the row exists.
func updateByID[T any](ctx context.Context, db *gorm.DB, id string, updates map[string]any) (*T, error) {
	if len(updates) > 0 {
		res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return findByID[T](ctx, db, id)
}

// deleteByID soft-deletes when T carries gorm.DeletedAt.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
