package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/storage"
)

const mediaPrefix = "media/"

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type MediaService struct {
	media repository.MediaRepository
	blobs storage.BlobStore
	newID func() string
}

func NewMediaService(media repository.MediaRepository, blobs storage.BlobStore) *MediaService {
	return &MediaService{media: media, blobs: blobs, newID: uuid.NewString}
}

// Upload stores an image and records it. The object is removed again when
// the row cannot be written.
func (s *MediaService) Upload(ctx context.Context, file Upload, createdBy string) (*domain.Media, error) {
	if len(file.Data) == 0 {
		return nil, apperr.ValidationField("file", "file is required")
	}
	if len(file.Data) > MaxImageBytes {
		return nil, apperr.ValidationField("file", "file must be at most 10 MB")
	}
	ct := sniffContentType(file)
	ext, ok := imageExtensions[ct]
	if !ok {
		return nil, apperr.ValidationField("file", "file must be an image")
	}

	obj, err := s.blobs.Put(ctx, mediaPrefix+s.newID()+ext, file.Data, ct)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("upload media: %w", err))
	}
	m := &domain.Media{
		Name:      mediaName(file.Filename),
		URL:       obj.URL,
		Key:       obj.Key,
		Type:      ct,
		Size:      obj.Size,
		CreatedBy: createdBy,
	}
	if err := s.media.Create(ctx, m); err != nil {
		discardBlob(ctx, s.blobs, obj.Key)
		return nil, err
	}
	return m, nil
}

func (s *MediaService) Get(ctx context.Context, id string) (*domain.Media, error) {
	return s.media.FindByID(ctx, id)
}

func (s *MediaService) List(ctx context.Context, query repository.ListQuery) (repository.PageResult[domain.Media], error) {
	return s.media.ListPaged(ctx, query)
}

// Delete removes the row first so that a failed object delete leaves an
// orphaned object rather than a dangling row.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	m, err := s.media.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.media.Delete(ctx, id); err != nil {
		return err
	}
	discardBlob(ctx, s.blobs, m.Key)
	return nil
}

func mediaName(filename string) string {
	name := strings.TrimSpace(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
