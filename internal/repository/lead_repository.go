package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

// LeadRepository stores leads exactly as given; encryption of the
// sensitive columns happens before rows reach it.
type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	FindByID(ctx context.Context, id string) (*domain.Lead, error)
	Update(ctx context.Context, id string, updates map[string]any) (*domain.Lead, error)
	ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Lead], error)
}

type GormLeadRepository struct{ db *gorm.DB }

func NewLeadRepository(db *gorm.DB) *GormLeadRepository { return &GormLeadRepository{db: db} }

func (r *GormLeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	return observe(ctx, "lead", "create", r.db.WithContext(ctx).Create(l).Error)
}

func (r *GormLeadRepository) FindByID(ctx context.Context, id string) (*domain.Lead, error) {
	l, err := findByID[domain.Lead](ctx, r.db, id)
	return l, observe(ctx, "lead", "find_by_id", err)
}

func (r *GormLeadRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.Lead, error) {
	l, err := updateByID[domain.Lead](ctx, r.db, id, updates)
	return l, observe(ctx, "lead", "update", err)
}

func (r *GormLeadRepository) ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Lead], error) {
	base := r.db.Model(&domain.Lead{}).Scopes(searchScope("full_name", query.Search))
	res, err := paginate[domain.Lead](ctx, base, query.PageRequest, nil)
	return res, observe(ctx, "lead", "list_paged", err)
}
