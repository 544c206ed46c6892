package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type JobOpeningListQuery struct {
	ListQuery
	LocationID    string
	PublishedOnly bool
}

type JobOpeningRepository interface {
	Create(ctx context.Context, j *domain.JobOpening) error
	FindByID(ctx context.Context, id string, publishedOnly bool) (*domain.JobOpening, error)
	Update(ctx context.Context, id string, updates map[string]any) (*domain.JobOpening, error)
	Delete(ctx context.Context, id string) error
	ListPaged(ctx context.Context, query JobOpeningListQuery) (PageResult[domain.JobOpening], error)
}

type GormJobOpeningRepository struct{ db *gorm.DB }

func NewJobOpeningRepository(db *gorm.DB) *GormJobOpeningRepository {
	return &GormJobOpeningRepository{db: db}
}

func (r *GormJobOpeningRepository) Create(ctx context.Context, j *domain.JobOpening) error {
	return observe(ctx, "job_opening", "create", r.db.WithContext(ctx).Omit("Location").Create(j).Error)
}

func (r *GormJobOpeningRepository) FindByID(ctx context.Context, id string, publishedOnly bool) (*domain.JobOpening, error) {
	q := r.db.WithContext(ctx).Preload("Location", locationProjection).Where("id = ?", id)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var j domain.JobOpening
	if err := q.First(&j).Error; err != nil {
		return nil, observe(ctx, "job_opening", "find_by_id", err)
	}
	return &j, observe(ctx, "job_opening", "find_by_id", nil)
}

func (r *GormJobOpeningRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.JobOpening, error) {
	if _, err := updateByID[domain.JobOpening](ctx, r.db, id, updates); err != nil {
		return nil, observe(ctx, "job_opening", "update", err)
	}
	return r.FindByID(ctx, id, false)
}

// Delete fails with InUse while applications reference the opening.
func (r *GormJobOpeningRepository) Delete(ctx context.Context, id string) error {
	return observe(ctx, "job_opening", "delete", deleteByID[domain.JobOpening](ctx, r.db, id))
}

// ListPaged includes each opening's application count.
func (r *GormJobOpeningRepository) ListPaged(ctx context.Context, query JobOpeningListQuery) (PageResult[domain.JobOpening], error) {
	base := r.db.Model(&domain.JobOpening{}).Scopes(searchScope("title", query.Search))
	if query.PublishedOnly {
		base = base.Where("is_published = ?", true)
	}
	if query.LocationID != "" {
		base = base.Where("location_id = ?", query.LocationID)
	}
	res, err := paginate[domain.JobOpening](ctx, base, query.PageRequest, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Location", locationProjection).
			Select("job_openings.*, (SELECT COUNT(*) FROM applications a WHERE a.job_opening_id = job_openings.id) AS application_count")
	})
	return res, observe(ctx, "job_opening", "list_paged", err)
}

func locationProjection(db *gorm.DB) *gorm.DB {
	return db.Select("id", "city", "country")
}
