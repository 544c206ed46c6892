package handler

import (
	"net/http"

	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the session record of the caller.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, "Fetched successfully", caller(r))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ListQuery(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	page, err := h.users.ListPaged(r.Context(), q)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, "Fetched successfully", page)
}
