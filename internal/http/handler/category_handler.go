package handler

import (
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
)

type CategoryHandler struct {
	categories repository.CategoryRepository
}

func NewCategoryHandler(categories repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (in *categoryRequest) validate(create bool) error {
	var c validation.Checker
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
		c.Required("name", *in.Name).MaxLen("name", *in.Name, 128).
			Check(security.Slugify(*in.Name) != "", "name", "name must contain letters or digits")
	} else if create {
		c.Required("name", "")
	}
	return c.Err()
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(true); err != nil {
		response.Fail(w, r, err)
		return
	}
	c := &domain.Category{
		Name:  *in.Name,
		Slug:  security.Slugify(*in.Name),
		Audit: domain.Audit{CreatedBy: caller(r).Username},
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := h.categories.Create(r.Context(), c); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Created Successfully", c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var in categoryRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(false); err != nil {
		response.Fail(w, r, err)
		return
	}
	updates := map[string]any{"updated_by": caller(r).Username}
	if in.Name != nil {
		updates["name"] = *in.Name
		updates["slug"] = security.Slugify(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	c, err := h.categories.Update(r.Context(), id, updates)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Updated Successfully", c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Category Deleted Successfully", nil)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	c, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", c)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.categories.ListPaged(r.Context(), q)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", page)
}
