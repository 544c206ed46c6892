package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/middleware"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/service"
)

// CareersHandler serves job openings and the public application form.
type CareersHandler struct {
	openings repository.JobOpeningRepository
	offices  repository.OfficeRepository
	careers  *service.CareersService
}

func NewCareersHandler(openings repository.JobOpeningRepository, offices repository.OfficeRepository, careers *service.CareersService) *CareersHandler {
	return &CareersHandler{openings: openings, offices: offices, careers: careers}
}

type jobOpeningRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Experience  *string `json:"experience"`
	IsPublished *bool   `json:"isPublished"`
}

func (in *jobOpeningRequest) validate(create bool) error {
	var c validation.Checker
	if in.Title != nil {
		*in.Title = strings.TrimSpace(*in.Title)
		c.Required("title", *in.Title).MaxLen("title", *in.Title, 255)
	} else if create {
		c.Required("title", "")
	}
	if in.Location != nil {
		c.Required("location", *in.Location).UUID("location", *in.Location)
	} else if create {
		c.Required("location", "")
	}
	if create {
		c.Check(in.Description != nil && strings.TrimSpace(*in.Description) != "", "description", "description is required")
	}
	if in.Experience != nil {
		c.MaxLen("experience", *in.Experience, 64)
	}
	return c.Err()
}

func (h *CareersHandler) checkLocation(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := h.offices.FindByID(ctx, *id); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.ValidationField("location", "Location does not exist")
		}
		return err
	}
	return nil
}

func (h *CareersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in jobOpeningRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(true); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.checkLocation(r.Context(), in.Location); err != nil {
		response.Fail(w, r, err)
		return
	}
	j := &domain.JobOpening{
		Title:       *in.Title,
		Description: *in.Description,
		LocationID:  *in.Location,
		Audit:       domain.Audit{CreatedBy: caller(r).Username},
	}
	if in.Experience != nil {
		j.Experience = *in.Experience
	}
	if in.IsPublished != nil {
		j.IsPublished = *in.IsPublished
	}
	if err := h.openings.Create(r.Context(), j); err != nil {
		response.Fail(w, r, err)
		return
	}
	created, err := h.openings.FindByID(r.Context(), j.ID, false)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Created Successfully", newJobOpeningView(created))
}

func (h *CareersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var in jobOpeningRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(false); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.checkLocation(r.Context(), in.Location); err != nil {
		response.Fail(w, r, err)
		return
	}
	updates := map[string]any{"updated_by": caller(r).Username}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Location != nil {
		updates["location_id"] = *in.Location
	}
	if in.Experience != nil {
		updates["experience"] = *in.Experience
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	j, err := h.openings.Update(r.Context(), id, updates)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Updated Successfully", newJobOpeningView(j))
}

func (h *CareersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.openings.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Job Opening Deleted Successfully", nil)
}

func (h *CareersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	j, err := h.openings.FindByID(r.Context(), id, !middleware.HasAccess(r.Context()))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = apperr.NotFound("Job opening not found")
		}
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", newJobOpeningView(j))
}

func (h *CareersHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	locationID, err := validation.OptionalUUIDQuery(r, "location")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.openings.ListPaged(r.Context(), repository.JobOpeningListQuery{
		ListQuery:     q,
		LocationID:    locationID,
		PublishedOnly: !middleware.HasAccess(r.Context()),
	})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", mapPage(page, newJobOpeningView))
}

// Apply accepts the public application form with a PDF resume.
func (h *CareersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Fail(w, r, err)
		return
	}
	field := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	in := service.ApplyInput{
		FullName:                  field("fullName"),
		JobOpeningID:              field("jobOpeningId"),
		Email:                     field("email"),
		Phone:                     field("phone"),
		CoverLetter:               field("coverLetter"),
		LinkedIn:                  field("linkedIn"),
		WhereDidYouHear:           field("wheredidyouhear"),
		HasSubscribedToNewsletter: strings.EqualFold(field("hasSubscribedToNewsletter"), "yes"),
	}
	var c validation.Checker
	c.Required("fullName", in.FullName).MaxLen("fullName", in.FullName, 255).
		Required("jobOpeningId", in.JobOpeningID).UUID("jobOpeningId", in.JobOpeningID).
		Required("email", in.Email).Email("email", in.Email).
		Required("phone", in.Phone).MaxLen("phone", in.Phone, 64).
		URL("linkedIn", in.LinkedIn).
		MaxLen("wheredidyouhear", in.WhereDidYouHear, 255)
	if err := c.Err(); err != nil {
		response.Fail(w, r, err)
		return
	}
	resume, err := formUpload(r, "resume", service.MaxResumeBytes)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	in.Resume = resume

	app, err := h.careers.Apply(r.Context(), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Application Submitted Successfully", newApplicationView(app))
}
