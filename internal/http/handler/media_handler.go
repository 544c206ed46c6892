package handler

import (
	"net/http"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/service"
)

type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Fail(w, r, err)
		return
	}
	file, err := formUpload(r, "file", service.MaxImageBytes)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if len(file.Data) == 0 {
		response.Fail(w, r, apperr.ValidationField("file", "file is required"))
		return
	}
	m, err := h.media.Upload(r.Context(), file, caller(r).Username)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, r, "Uploaded Successfully", m)
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	m, err := h.media.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", m)
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.media.List(r.Context(), q)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", page)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if err := h.media.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Media Deleted Successfully", nil)
}
