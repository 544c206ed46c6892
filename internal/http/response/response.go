package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/infutrix/backoffice-api/internal/apperr"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFail    = "fail"
	StatusError   = "error"
)

type envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes the standard envelope. The status label follows the code:
// SUCCESS below 400, fail for 4xx, error for 5xx.
func JSON(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	write(w, r, status, envelope{Status: statusLabel(status), Message: message, Data: data})
}

func OK(w http.ResponseWriter, r *http.Request, message string, data any) {
	JSON(w, r, http.StatusOK, message, data)
}

func Created(w http.ResponseWriter, r *http.Request, message string, data any) {
	JSON(w, r, http.StatusCreated, message, data)
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, message, nil)
}

// Fail is the terminal responder for handler errors. Internal errors are
// logged with their cause and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err.Error(),
		)
		write(w, r, status, envelope{Status: StatusError, Message: "Something went wrong"})
		return
	}
	write(w, r, status, envelope{Status: statusLabel(status), Message: appErr.Message, Field: appErr.Field})
}

func write(w http.ResponseWriter, r *http.Request, status int, env envelope) {
	env.RequestID = chimiddleware.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func statusLabel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return StatusError
	case status >= http.StatusBadRequest:
		return StatusFail
	default:
		return StatusSuccess
	}
}
