package handler

import (
	"net/http"
	"time"

	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/middleware"
	"github.com/infutrix/backoffice-api/internal/repository"
)

// caller returns the authenticated user. Routes using it sit behind
// RequireAuth, so an empty identity only appears in misrouted handlers.
func caller(r *http.Request) domain.SessionUser {
	u, _ := middleware.IdentityFromContext(r.Context())
	return u
}

func strPtr(s string) *string { return &s }

type mediaView struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

func newMediaView(m *domain.Media) *mediaView {
	if m == nil {
		return nil
	}
	return &mediaView{ID: m.ID, URL: m.URL, Type: m.Type}
}

type authorView struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Photo     *string `json:"photo,omitempty"`
}

func newAuthorView(u *domain.User) *authorView {
	if u == nil {
		return nil
	}
	return &authorView{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Photo: u.Photo}
}

type categoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// blogView is the wire shape of a post. Audit and publication fields are
// only filled for privileged callers.
type blogView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content,omitempty"`
	Tags          []string      `json:"tags"`
	FeaturedImage *mediaView    `json:"featured_image,omitempty"`
	Author        *authorView   `json:"author,omitempty"`
	Categories    []categoryRef `json:"categories"`
	CreatedAt     time.Time     `json:"created_at"`
	IsPublished   *bool         `json:"is_published,omitempty"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
	CreatedBy     string        `json:"created_by,omitempty"`
	UpdatedBy     *string       `json:"updated_by,omitempty"`
}

func newBlogView(b *domain.Blog, privileged, withContent bool) blogView {
	v := blogView{
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		Slug:          b.Slug,
		Tags:          []string(b.Tags),
		FeaturedImage: newMediaView(b.FeaturedImage),
		Author:        newAuthorView(b.Author),
		Categories:    make([]categoryRef, 0, len(b.Categories)),
		CreatedAt:     b.CreatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if withContent {
		v.Content = b.Content
	}
	for _, bc := range b.Categories {
		if bc.Category != nil {
			v.Categories = append(v.Categories, categoryRef{ID: bc.Category.ID, Name: bc.Category.Name, Slug: bc.Category.Slug})
		}
	}
	if privileged {
		published := b.IsPublished
		updated := b.UpdatedAt
		v.IsPublished = &published
		v.UpdatedAt = &updated
		v.CreatedBy = b.CreatedBy
		v.UpdatedBy = b.UpdatedBy
	}
	return v
}

type locationView struct {
	ID   string `json:"id"`
	City string `json:"city"`
}

type jobOpeningView struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Experience       string        `json:"experience"`
	Location         *locationView `json:"location,omitempty"`
	ApplicationCount *int64        `json:"application_count,omitempty"`
	IsPublished      bool          `json:"is_published"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	CreatedBy        string        `json:"created_by,omitempty"`
	UpdatedBy        *string       `json:"updated_by,omitempty"`
}

func newJobOpeningView(j *domain.JobOpening) jobOpeningView {
	v := jobOpeningView{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Experience:       j.Experience,
		ApplicationCount: j.ApplicationCount,
		IsPublished:      j.IsPublished,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
		CreatedBy:        j.CreatedBy,
		UpdatedBy:        j.UpdatedBy,
	}
	if j.Location != nil {
		v.Location = &locationView{ID: j.Location.ID, City: j.Location.City}
	}
	return v
}

type openingRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type applicationView struct {
	domain.Application
	JobOpening *openingRef `json:"job_opening,omitempty"`
}

func newApplicationView(a *domain.Application) applicationView {
	v := applicationView{Application: *a}
	v.Application.JobOpening = nil
	if a.JobOpening != nil {
		v.JobOpening = &openingRef{ID: a.JobOpening.ID, Title: a.JobOpening.Title}
	}
	return v
}

// mapPage converts the items of a page while keeping its counters.
func mapPage[T, V any](p repository.PageResult[T], fn func(*T) V) repository.PageResult[V] {
	out := repository.PageResult[V]{
		Items:      make([]V, len(p.Items)),
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
	for i := range p.Items {
		out.Items[i] = fn(&p.Items[i])
	}
	return out
}
