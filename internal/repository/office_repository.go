package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type OfficeRepository interface {
	Create(ctx context.Context, o *domain.Office) error
	FindByID(ctx context.Context, id string) (*domain.Office, error)
	Update(ctx context.Context, id string, updates map[string]any) (*domain.Office, error)
	Delete(ctx context.Context, id string) error
	ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Office], error)
}

type GormOfficeRepository struct{ db *gorm.DB }

func NewOfficeRepository(db *gorm.DB) *GormOfficeRepository { return &GormOfficeRepository{db: db} }

func (r *GormOfficeRepository) Create(ctx context.Context, o *domain.Office) error {
	return observe(ctx, "office", "create", r.db.WithContext(ctx).Create(o).Error)
}

func (r *GormOfficeRepository) FindByID(ctx context.Context, id string) (*domain.Office, error) {
	o, err := findByID[domain.Office](ctx, r.db, id)
	return o, observe(ctx, "office", "find_by_id", err)
}

func (r *GormOfficeRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.Office, error) {
	o, err := updateByID[domain.Office](ctx, r.db, id, updates)
	return o, observe(ctx, "office", "update", err)
}

// Delete fails with InUse while a job opening references the office.
func (r *GormOfficeRepository) Delete(ctx context.Context, id string) error {
	return observe(ctx, "office", "delete", deleteByID[domain.Office](ctx, r.db, id))
}

func (r *GormOfficeRepository) ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Office], error) {
	base := r.db.Model(&domain.Office{}).Scopes(searchScope("city", query.Search))
	res, err := paginate[domain.Office](ctx, base, query.PageRequest, nil)
	return res, observe(ctx, "office", "list_paged", err)
}
