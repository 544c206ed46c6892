package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type ApplicationListQuery struct {
	ListQuery
	JobOpeningID string
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	Update(ctx context.Context, id string, updates map[string]any) (*domain.Application, error)
	Delete(ctx context.Context, id string) (*domain.Application, error)
	ListPaged(ctx context.Context, query ApplicationListQuery) (PageResult[domain.Application], error)
}

type GormApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

func (r *GormApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	return observe(ctx, "application", "create", r.db.WithContext(ctx).Omit("JobOpening").Create(a).Error)
}

func (r *GormApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application
	err := r.db.WithContext(ctx).Preload("JobOpening", openingProjection).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, observe(ctx, "application", "find_by_id", err)
	}
	return &a, observe(ctx, "application", "find_by_id", nil)
}

func (r *GormApplicationRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.Application, error) {
	if _, err := updateByID[domain.Application](ctx, r.db, id, updates); err != nil {
		return nil, observe(ctx, "application", "update", err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes the row and returns it so the caller can release the
// stored resume.
func (r *GormApplicationRepository) Delete(ctx context.Context, id string) (*domain.Application, error) {
	var deleted *domain.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := findByID[domain.Application](ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(a).Error; err != nil {
			return err
		}
		deleted = a
		return nil
	})
	return deleted, observe(ctx, "application", "delete", err)
}

func (r *GormApplicationRepository) ListPaged(ctx context.Context, query ApplicationListQuery) (PageResult[domain.Application], error) {
	base := r.db.Model(&domain.Application{}).Scopes(searchScope("full_name", query.Search))
	if query.JobOpeningID != "" {
		base = base.Where("job_opening_id = ?", query.JobOpeningID)
	}
	res, err := paginate[domain.Application](ctx, base, query.PageRequest, func(q *gorm.DB) *gorm.DB {
		return q.Preload("JobOpening", openingProjection)
	})
	return res, observe(ctx, "application", "list_paged", err)
}

func openingProjection(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title")
}
