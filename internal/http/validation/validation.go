// Package validation decodes and checks request input. Every failure is an
// apperr Validation error naming the offending field.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
)

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	return decodeJSON(r, dst, false)
}

// DecodeOptionalJSON is DecodeJSON for endpoints where the body may be
// omitted. An empty body leaves dst untouched whether or not the client
// announced a length.
func DecodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	return decodeJSON(r, dst, true)
}

func decodeJSON(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Validation("Request body too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		case errors.As(err, &typeErr):
			return apperr.ValidationField(typeErr.Field, fmt.Sprintf("%s has an invalid type", typeErr.Field))
		default:
			return apperr.Validation("Malformed JSON body")
		}
	}
	if dec.More() {
		return apperr.Validation("Request body must contain a single JSON object")
	}
	return nil
}

// Checker collects field checks and reports the first failure.
type Checker struct {
	err *apperr.AppError
}

func (c *Checker) fail(field, msg string) {
	if c.err == nil {
		c.err = apperr.ValidationField(field, msg)
	}
}

// Err returns the first failed check, or nil.
func (c *Checker) Err() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

func (c *Checker) Required(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.fail(field, field+" is required")
	}
	return c
}

func (c *Checker) MaxLen(field, value string, n int) *Checker {
	if utf8.RuneCountInString(value) > n {
		c.fail(field, fmt.Sprintf("%s must be at most %d characters", field, n))
	}
	return c
}

func (c *Checker) Email(field, value string) *Checker {
	if value == "" {
		return c
	}
	if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
		c.fail(field, field+" must be a valid email")
	}
	return c
}

func (c *Checker) UUID(field, value string) *Checker {
	if value != "" && !security.IsUUID(value) {
		c.fail(field, field+" must be a valid id")
	}
	return c
}

func (c *Checker) URL(field, value string) *Checker {
	if value == "" {
		return c
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.fail(field, field+" must be a valid url")
	}
	return c
}

func (c *Checker) OneOf(field, value string, allowed ...string) *Checker {
	if value != "" && !slices.Contains(allowed, value) {
		c.fail(field, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	}
	return c
}

// Check records msg against field when ok is false.
func (c *Checker) Check(ok bool, field, msg string) *Checker {
	if !ok {
		c.fail(field, msg)
	}
	return c
}

// IDParam reads a UUID path parameter.
func IDParam(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if !security.IsUUID(id) {
		return "", apperr.ValidationField(name, "Invalid id")
	}
	return id, nil
}

// ListQuery parses the shared search, page and limit query parameters.
func ListQuery(r *http.Request) (repository.ListQuery, error) {
	q := r.URL.Query()
	page, err := optionalInt(q.Get("page"), "page")
	if err != nil {
		return repository.ListQuery{}, err
	}
	limit, err := optionalInt(q.Get("limit"), "limit")
	if err != nil {
		return repository.ListQuery{}, err
	}
	return repository.ListQuery{
		PageRequest: repository.PageRequest{Page: page, PageSize: limit},
		Search:      strings.TrimSpace(q.Get("search")),
	}, nil
}

// OptionalUUIDQuery reads a filter id from the query string.
func OptionalUUIDQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v != "" && !security.IsUUID(v) {
		return "", apperr.ValidationField(name, name+" must be a valid id")
	}
	return v, nil
}

func optionalInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.ValidationField(field, field+" must be a positive integer")
	}
	return n, nil
}
