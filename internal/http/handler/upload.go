package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/service"
)

const multipartMemory = 8 << 20

// parseMultipart parses a multipart body, mapping oversized and malformed
// bodies to validation errors.
func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("Request body too large")
		}
		return apperr.Validation("Request must be multipart/form-data")
	}
	return nil
}

// formUpload reads one file field. At most limit+1 bytes are read so the
// service can reject oversized files by length. A missing field yields an
// empty Upload.
func formUpload(r *http.Request, field string, limit int64) (service.Upload, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return service.Upload{}, nil
	}
	if err != nil {
		return service.Upload{}, apperr.ValidationField(field, field+" could not be read")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return service.Upload{}, apperr.Internal(fmt.Errorf("read %s: %w", field, err))
	}
	return service.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
