package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, id string, updates map[string]any) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Category], error)
	CountExisting(ctx context.Context, ids []string) (int64, error)
}

type GormCategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return observe(ctx, "category", "create", r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := findByID[domain.Category](ctx, r.db, id)
	return c, observe(ctx, "category", "find_by_id", err)
}

func (r *GormCategoryRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.Category, error) {
	c, err := updateByID[domain.Category](ctx, r.db, id, updates)
	return c, observe(ctx, "category", "update", err)
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id string) error {
	return observe(ctx, "category", "delete", deleteByID[domain.Category](ctx, r.db, id))
}

func (r *GormCategoryRepository) ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.Category], error) {
	base := r.db.Model(&domain.Category{}).Scopes(searchScope("name", query.Search))
	res, err := paginate[domain.Category](ctx, base, query.PageRequest, nil)
	return res, observe(ctx, "category", "list_paged", err)
}

// CountExisting reports how many of ids name live categories.
func (r *GormCategoryRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id IN ?", ids).Count(&n).Error
	return n, observe(ctx, "category", "count_existing", err)
}
