package handler

import (
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/repository"
)

type OfficeHandler struct {
	offices repository.OfficeRepository
}

func NewOfficeHandler(offices repository.OfficeRepository) *OfficeHandler {
	return &OfficeHandler{offices: offices}
}

type officeRequest struct {
	City    *string `json:"city"`
	Country *string `json:"country"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

func (in *officeRequest) validate(create bool) error {
	var c validation.Checker
	required := func(field string, v *string) {
		if v != nil {
			*v = strings.TrimSpace(*v)
			c.Required(field, *v).MaxLen(field, *v, 128)
		} else if create {
			c.Required(field, "")
		}
	}
	required("city", in.City)
	required("country", in.Country)
	if in.Email != nil {
		*in.Email = strings.TrimSpace(*in.Email)
		c.Email("email", *in.Email)
	}
	if in.Phone != nil {
		c.MaxLen("phone", *in.Phone, 64)
	}
	return c.Err()
}

func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in officeRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(true); err != nil {
		response.Fail(w, r, err)
		return
	}
	o := &domain.Office{City: *in.City, Country: *in.Country, Audit: domain.Audit{CreatedBy: caller(r).Username}}
	if in.Address != nil {
		o.Address = *in.Address
	}
	if in.Phone != nil {
		o.Phone = *in.Phone
	}
	if in.Email != nil {
		o.Email = *in.Email
	}
	if err := h.offices.Create(r.Context(), o); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Created Successfully", o)
}

func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	var in officeRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := in.validate(false); err != nil {
		response.Fail(w, r, err)
		return
	}
	updates := map[string]any{"updated_by": caller(r).Username}
	for column, v := range map[string]*string{
		"city":    in.City,
		"country": in.Country,
		"address": in.Address,
		"phone":   in.Phone,
		"email":   in.Email,
	} {
		if v != nil {
			updates[column] = *v
		}
	}
	o, err := h.offices.Update(r.Context(), id, updates)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Updated Successfully", o)
}

// Delete fails with an in-use error while job openings still point at the
// office.
func (h *OfficeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.offices.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Office Deleted Successfully", nil)
}

func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	o, err := h.offices.FindByID(r.Context(), id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", o)
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.offices.ListPaged(r.Context(), q)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", page)
}
