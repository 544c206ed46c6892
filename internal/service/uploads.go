package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/storage"
)

const (
	MaxResumeBytes = 5 << 20
	MaxImageBytes  = 10 << 20
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mailer queues templated mail for background delivery.
type Mailer interface {
	Enqueue(template, to string, data any) error
}

// sniffContentType trusts the bytes over the client-declared type.
func sniffContentType(u Upload) string {
	ct := http.DetectContentType(u.Data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// discardBlob removes an object that is no longer referenced. Failures only
// leave an orphan behind, so they are logged.
func discardBlob(ctx context.Context, blobs storage.BlobStore, key string) {
	if key == "" {
		return
	}
	if err := blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.WarnContext(ctx, "blob cleanup failed", "key", key, "error", err)
	}
}

func enqueueMail(ctx context.Context, mailer Mailer, template, to string, data any) {
	if mailer == nil {
		return
	}
	if err := mailer.Enqueue(template, to, data); err != nil {
		slog.WarnContext(ctx, "mail not queued", "template", template, "error", err)
	}
}
