package handler

import (
	"net/http"

	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/service"
)

type ApplicationHandler struct {
	applications repository.ApplicationRepository
	careers      *service.CareersService
}

func NewApplicationHandler(applications repository.ApplicationRepository, careers *service.CareersService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, careers: careers}
}

type applicationUpdateRequest struct {
	Status   *domain.ApplicationStatus `json:"status"`
	IsOpened *bool                     `json:"isOpened"`
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	openingID, err := validation.OptionalUUIDQuery(r, "jobOpeningId")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.applications.ListPaged(r.Context(), repository.ApplicationListQuery{ListQuery: q, JobOpeningID: openingID})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", mapPage(page, newApplicationView))
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	a, err := h.applications.FindByID(r.Context(), id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", newApplicationView(a))
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var in applicationUpdateRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	var c validation.Checker
	if in.Status != nil {
		c.Check(in.Status.Valid(), "status", "status must be one of in_review, hired, rejected")
	}
	if err := c.Err(); err != nil {
		response.Fail(w, r, err)
		return
	}
	updates := map[string]any{"updated_by": caller(r).Username}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.IsOpened != nil {
		updates["is_opened"] = *in.IsOpened
	}
	a, err := h.applications.Update(r.Context(), id, updates)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Updated Successfully", newApplicationView(a))
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.careers.DeleteApplication(r.Context(), id); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Application Deleted Successfully", nil)
}
