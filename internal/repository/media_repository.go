package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type MediaRepository interface {
	Create(ctx context.Context, m *domain.Media) error
	FindByID(ctx context.Context, id string) (*domain.Media, error)
	Delete(ctx context.Context, id string) error
	ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Media], error)
}

type GormMediaRepository struct{ db *gorm.DB }

func NewMediaRepository(db *gorm.DB) *GormMediaRepository { return &GormMediaRepository{db: db} }

func (r *GormMediaRepository) Create(ctx context.Context, m *domain.Media) error {
	return observe(ctx, "media", "create", r.db.WithContext(ctx).Create(m).Error)
}

func (r *GormMediaRepository) FindByID(ctx context.Context, id string) (*domain.Media, error) {
	m, err := findByID[domain.Media](ctx, r.db, id)
	return m, observe(ctx, "media", "find_by_id", err)
}

func (r *GormMediaRepository) Delete(ctx context.Context, id string) error {
	return observe(ctx, "media", "delete", deleteByID[domain.Media](ctx, r.db, id))
}

func (r *GormMediaRepository) ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Media], error) {
	base := r.db.Model(&domain.Media{}).Scopes(searchScope("name", query.Search))
	res, err := paginate[domain.Media](ctx, base, query.PageRequest, nil)
	return res, observe(ctx, "media", "list_paged", err)
}
