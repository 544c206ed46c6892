package repository

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// ListQuery is the request shape shared by every list endpoint. Search is
// a case-insensitive substring match on the module's search column.
type ListQuery struct {
	PageRequest
	Search string
}

func normalizePageRequest(req PageRequest) PageRequest {
	if req.Page < 1 {
		req.Page = DefaultPage
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	return req
}

func calcTotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// paginate runs the count and the page query concurrently over the same
// filtered base. shape adjusts only the page query (preloads, projections).
// Rows are ordered newest first.
func paginate[T any](ctx context.Context, base *gorm.DB, req PageRequest, shape func(*gorm.DB) *gorm.DB) (PageResult[T], error) {
	req = normalizePageRequest(req)
	result := PageResult[T]{Page: req.Page, PageSize: req.PageSize}
	items := make([]T, 0, req.PageSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base.Session(&gorm.Session{Context: gctx}).Count(&result.Total).Error
	})
	g.Go(func() error {
		q := base.Session(&gorm.Session{Context: gctx})
		if shape != nil {
			q = shape(q)
		}
		return q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"}, Desc: true}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}}).
			Offset((req.Page - 1) * req.PageSize).
			Limit(req.PageSize).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return PageResult[T]{}, err
	}
	result.Items = items
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}

// searchScope filters column by a case-insensitive substring of term.
func searchScope(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(term))+"%")
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
