package handler

import (
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/service"
)

type LeadHandler struct {
	leads *service.LeadService
}

func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func validateLead(in *service.LeadInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	var c validation.Checker
	c.Required("fullName", in.FullName).MaxLen("fullName", in.FullName, 255).
		Required("email", in.Email).Email("email", in.Email).
		Required("phone", in.Phone).MaxLen("phone", in.Phone, 64).
		MaxLen("jobTitle", in.JobTitle, 255).
		MaxLen("companySize", in.CompanySize, 64).
		MaxLen("budget", in.Budget, 64).
		MaxLen("source", in.Source, 128).
		MaxLen("message", in.Message, 5000)
	return c.Err()
}

// Create is public: anyone may leave an enquiry.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.LeadInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := validateLead(&in); err != nil {
		response.Fail(w, r, err)
		return
	}
	lead, err := h.leads.Create(r.Context(), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Created Successfully", lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	lead, err := h.leads.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.leads.List(r.Context(), q)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", page)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var in struct {
		IsOpened *bool `json:"isOpened"`
	}
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	lead, err := h.leads.MarkOpened(r.Context(), id, in.IsOpened, caller(r).Username)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Updated Successfully", lead)
}
