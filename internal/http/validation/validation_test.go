package validation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/infutrix/backoffice-api/internal/apperr"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","age":3}`))
	require.NoError(t, DecodeJSON(req, &dst))
	require.Equal(t, "a", dst.Name)

	for name, body := range map[string]string{
		"empty":     ``,
		"malformed": `{"name":`,
		"type":      `{"age":"x"}`,
		"trailing":  `{"name":"a"}{"name":"b"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(req, &dst)
		require.True(t, apperr.IsKind(err, apperr.KindValidation), "%s: %v", name, err)
	}
}

func TestDecodeOptionalJSONAcceptsMissingBody(t *testing.T) {
	type body struct {
		Token string `json:"token"`
	}

	chunked := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("")))
	chunked.ContentLength = -1
	chunked.TransferEncoding = []string{"chunked"}
	for name, req := range map[string]*http.Request{
		"no body":       httptest.NewRequest(http.MethodPost, "/", nil),
		"empty":         httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")),
		"whitespace":    httptest.NewRequest(http.MethodPost, "/", strings.NewReader(" \n")),
		"chunked empty": chunked,
	} {
		var dst body
		require.NoError(t, DecodeOptionalJSON(req, &dst), name)
		require.Empty(t, dst.Token, name)
	}

	var dst body
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"abc"}`))
	require.NoError(t, DecodeOptionalJSON(req, &dst))
	require.Equal(t, "abc", dst.Token)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":`))
	require.True(t, apperr.IsKind(DecodeOptionalJSON(req, &dst), apperr.KindValidation))
}

func TestDecodeJSONReportsBodyTooLarge(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	req.Body = http.MaxBytesReader(rr, req.Body, 16)
	var dst map[string]any
	err := DecodeJSON(req, &dst)
	require.Error(t, err)
	require.Equal(t, "Request body too large", apperr.As(err).Message)
}

func TestCheckerReportsFirstFailure(t *testing.T) {
	var c Checker
	err := c.Required("title", "ok").
		MaxLen("title", "toolong", 3).
		Email("email", "nope").
		Err()
	require.Error(t, err)
	require.Equal(t, "title", apperr.As(err).Field)

	var ok Checker
	require.NoError(t, ok.Required("a", "x").Email("email", "a@b.co").UUID("id", uuid.NewString()).
		URL("link", "https://linkedin.com/in/x").OneOf("status", "hired", "hired", "rejected").Err())

	var bad Checker
	require.Error(t, bad.URL("link", "javascript:alert(1)").Err())
}

func TestListQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?search=+go+&page=2&limit=5", nil)
	q, err := ListQuery(req)
	require.NoError(t, err)
	require.Equal(t, "go", q.Search)
	require.Equal(t, 2, q.Page)
	require.Equal(t, 5, q.PageSize)

	_, err = ListQuery(httptest.NewRequest(http.MethodGet, "/?page=abc", nil))
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestIDParam(t *testing.T) {
	id := uuid.NewString()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	got, err := IDParam(req, "id")
	require.NoError(t, err)
	require.Equal(t, id, got)

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("id", "not-a-uuid")
	_, err = IDParam(req, "id")
	require.Error(t, err)
}
