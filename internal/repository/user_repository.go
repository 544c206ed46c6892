package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.User], error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *GormUserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := findByID[domain.User](ctx, r.db, id)
	return u, observe(ctx, "user", "find_by_id", err)
}

// FindByIdentifier matches either the username or the (case-insensitive)
// email address.
func (r *GormUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&u).Error
	if err != nil {
		return nil, observe(ctx, "user", "find_by_identifier", err)
	}
	return &u, observe(ctx, "user", "find_by_identifier", nil)
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return observe(ctx, "user", "create", r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) ListPaged(ctx context.Context, query ListQuery) (PageResult[domain.User], error) {
	base := r.db.Model(&domain.User{}).Scopes(searchScope("username", query.Search))
	res, err := paginate[domain.User](ctx, base, query.PageRequest, nil)
	return res, observe(ctx, "user", "list_paged", err)
}
