package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type BlogListQuery struct {
	ListQuery
	CategoryID    string
	PublishedOnly bool
}

type BlogRepository interface {
	Create(ctx context.Context, b *domain.Blog) error
	FindByIDOrSlug(ctx context.Context, key string, byID, publishedOnly bool) (*domain.Blog, error)
	Update(ctx context.Context, id string, updates map[string]any, categories []domain.BlogCategory, replaceCategories bool) (*domain.Blog, error)
	Delete(ctx context.Context, id string) error
	ListPaged(ctx context.Context, query BlogListQuery) (PageResult[domain.Blog], error)
}

type GormBlogRepository struct{ db *gorm.DB }

func NewBlogRepository(db *gorm.DB) *GormBlogRepository { return &GormBlogRepository{db: db} }

// Create inserts the post and its category join rows in one transaction.
func (r *GormBlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats := b.Categories
		b.Categories = nil
		if err := tx.Omit("FeaturedImage", "Author").Create(b).Error; err != nil {
			return err
		}
		if err := insertBlogCategories(tx, b.ID, cats); err != nil {
			return err
		}
		b.Categories = cats
		return nil
	})
	return observe(ctx, "blog", "create", err)
}

func (r *GormBlogRepository) FindByIDOrSlug(ctx context.Context, key string, byID, publishedOnly bool) (*domain.Blog, error) {
	q := blogPreloads(r.db.WithContext(ctx))
	if byID {
		q = q.Where("id = ?", key)
	} else {
		q = q.Where("slug = ?", key)
	}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var b domain.Blog
	if err := q.First(&b).Error; err != nil {
		return nil, observe(ctx, "blog", "find", err)
	}
	return &b, observe(ctx, "blog", "find", nil)
}

// Update applies updates and, when replaceCategories is set, swaps the
// whole category set for categories.
func (r *GormBlogRepository) Update(ctx context.Context, id string, updates map[string]any, categories []domain.BlogCategory, replaceCategories bool) (*domain.Blog, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&domain.Blog{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		if len(updates) > 0 {
			if err := tx.Model(&domain.Blog{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if !replaceCategories {
			return nil
		}
		if err := tx.Where("blog_id = ?", id).Delete(&domain.BlogCategory{}).Error; err != nil {
			return err
		}
		return insertBlogCategories(tx, id, categories)
	})
	if err != nil {
		return nil, observe(ctx, "blog", "update", err)
	}
	return r.FindByIDOrSlug(ctx, id, true, false)
}

func (r *GormBlogRepository) Delete(ctx context.Context, id string) error {
	return observe(ctx, "blog", "delete", deleteByID[domain.Blog](ctx, r.db, id))
}

func (r *GormBlogRepository) ListPaged(ctx context.Context, query BlogListQuery) (PageResult[domain.Blog], error) {
	base := r.db.Model(&domain.Blog{}).Scopes(searchScope("title", query.Search))
	if query.PublishedOnly {
		base = base.Where("is_published = ?", true)
	}
	if query.CategoryID != "" {
		base = base.Where("EXISTS (SELECT 1 FROM blog_categories bc WHERE bc.blog_id = blogs.id AND bc.category_id = ?)", query.CategoryID)
	}
	res, err := paginate[domain.Blog](ctx, base, query.PageRequest, func(q *gorm.DB) *gorm.DB {
		return blogPreloads(q).Omit("content")
	})
	return res, observe(ctx, "blog", "list_paged", err)
}

func blogPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Categories.Category").
		Preload("FeaturedImage").
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "first_name", "last_name", "photo")
		})
}

func insertBlogCategories(tx *gorm.DB, blogID string, cats []domain.BlogCategory) error {
	if len(cats) == 0 {
		return nil
	}
	rows := make([]domain.BlogCategory, len(cats))
	for i, c := range cats {
		rows[i] = domain.BlogCategory{BlogID: blogID, CategoryID: c.CategoryID, AssignedBy: c.AssignedBy}
	}
	return tx.Omit("Category").Create(&rows).Error
}
