package handler

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/middleware"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
)

type BlogHandler struct {
	blogs      repository.BlogRepository
	categories repository.CategoryRepository
	media      repository.MediaRepository
}

func NewBlogHandler(blogs repository.BlogRepository, categories repository.CategoryRepository, media repository.MediaRepository) *BlogHandler {
	return &BlogHandler{blogs: blogs, categories: categories, media: media}
}

type blogRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Content       *string   `json:"content"`
	Tags          *[]string `json:"tags"`
	Categories    *[]string `json:"categories"`
	FeaturedImage *string   `json:"featuredImage"`
	IsPublished   *bool     `json:"isPublished"`
}

func (in *blogRequest) validate(create bool) error {
	var c validation.Checker
	if in.Title != nil {
		*in.Title = strings.TrimSpace(*in.Title)
		c.Required("title", *in.Title).MaxLen("title", *in.Title, 255).
			Check(security.Slugify(*in.Title) != "", "title", "title must contain letters or digits")
	} else if create {
		c.Required("title", "")
	}
	if create {
		c.Check(in.Description != nil && strings.TrimSpace(*in.Description) != "", "description", "description is required")
		c.Check(in.Content != nil && strings.TrimSpace(*in.Content) != "", "content", "content is required")
	}
	if in.Categories != nil {
		for _, id := range *in.Categories {
			c.UUID("categories", id).Check(id != "", "categories", "categories must be valid ids")
		}
	}
	if in.FeaturedImage != nil {
		c.UUID("featuredImage", *in.FeaturedImage)
	}
	return c.Err()
}

// checkReferences makes sure every category and the featured image exist
// before anything is written.
func (h *BlogHandler) checkReferences(ctx context.Context, in *blogRequest) error {
	if in.Categories != nil && len(*in.Categories) > 0 {
		ids := slices.Compact(slices.Sorted(slices.Values(*in.Categories)))
		*in.Categories = ids
		n, err := h.categories.CountExisting(ctx, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return apperr.ValidationField("categories", "One or more categories do not exist")
		}
	}
	if in.FeaturedImage != nil && *in.FeaturedImage != "" {
		if _, err := h.media.FindByID(ctx, *in.FeaturedImage); err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return apperr.ValidationField("featuredImage", "Featured image does not exist")
			}
			return err
		}
	}
	return nil
}

func blogCategories(ids []string, assignedBy string) []domain.BlogCategory {
	out := make([]domain.BlogCategory, len(ids))
	for i, id := range ids {
		out[i] = domain.BlogCategory{CategoryID: id, AssignedBy: assignedBy}
	}
	return out
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in blogRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(true); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.checkReferences(r.Context(), &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	me := caller(r)
	b := &domain.Blog{
		Title:       *in.Title,
		Slug:        security.Slugify(*in.Title),
		Description: *in.Description,
		Content:     *in.Content,
		AuthorID:    me.ID,
		Audit:       domain.Audit{CreatedBy: me.Username},
	}
	if in.Tags != nil {
		b.Tags = domain.StringList(*in.Tags)
	}
	if in.FeaturedImage != nil && *in.FeaturedImage != "" {
		b.FeaturedImageID = in.FeaturedImage
	}
	if in.IsPublished != nil {
		b.IsPublished = *in.IsPublished
	}
	if in.Categories != nil {
		b.Categories = blogCategories(*in.Categories, me.Username)
	}
	if err := h.blogs.Create(r.Context(), b); err != nil {
		response.Fail(w, r, err)
		return
	}
	created, err := h.blogs.FindByIDOrSlug(r.Context(), b.ID, true, false)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Created Successfully", newBlogView(created, true, true))
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var in blogRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(false); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.checkReferences(r.Context(), &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	me := caller(r)
	updates := map[string]any{"updated_by": me.Username}
	if in.Title != nil {
		updates["title"] = *in.Title
		updates["slug"] = security.Slugify(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.Tags != nil {
		updates["tags"] = domain.StringList(*in.Tags)
	}
	if in.FeaturedImage != nil {
		if *in.FeaturedImage == "" {
			updates["featured_image_id"] = nil
		} else {
			updates["featured_image_id"] = *in.FeaturedImage
		}
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	var cats []domain.BlogCategory
	if in.Categories != nil {
		cats = blogCategories(*in.Categories, me.Username)
	}
	b, err := h.blogs.Update(r.Context(), id, updates, cats, in.Categories != nil)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Updated Successfully", newBlogView(b, true, true))
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.blogs.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Blog Deleted Successfully", nil)
}

// Get accepts either the post id or its slug. Anonymous and unprivileged
// callers only see published posts.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
	if key == "" {
		response.Fail(w, r, apperr.ValidationField("idOrSlug", "Invalid id"))
		return
	}
	privileged := middleware.HasAccess(r.Context())
	b, err := h.blogs.FindByIDOrSlug(r.Context(), key, security.IsUUID(key), !privileged)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = apperr.NotFound("Blog not found")
		}
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", newBlogView(b, privileged, true))
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	categoryID, err := validation.OptionalUUIDQuery(r, "categoryId")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	privileged := middleware.HasAccess(r.Context())
	page, err := h.blogs.ListPaged(r.Context(), repository.BlogListQuery{
		ListQuery:     q,
		CategoryID:    categoryID,
		PublishedOnly: !privileged,
	})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", mapPage(page, func(b *domain.Blog) blogView {
		return newBlogView(b, privileged, false)
	}))
}
