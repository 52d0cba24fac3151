package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

// DataURI renders raw bytes as the canonical stored representation of an
// uploaded file: data:<mime>;base64,<payload>.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// maxImagePayloadBytes matches the multipart upload ceiling, so an image
// cannot slip past it by arriving as a ready-made data URI instead.
const maxImagePayloadBytes = 10 << 20

// ImageService implements the image gallery: uploads stored inline as base64
// data URIs, per-image visibility, and the public listing.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewImageService constructs an ImageService.
func NewImageService(db *sql.DB, m repomanager.RepositoryManager) *ImageService {
	return &ImageService{db: db, repomanager: m}
}

// Upload stores raw accepted upload bytes as a new image record. Size is the
// actual payload length; the policy ceiling was already enforced upstream.
func (s *ImageService) Upload(ctx context.Context, image *models.Image, data []byte) (*models.Image, error) {
	if strings.TrimSpace(image.Name) == "" {
		return nil, common.NewValidationError("file name is required")
	}
	if len(data) == 0 {
		return nil, common.NewValidationError("file is empty")
	}

	image.Data = DataURI(image.MimeType, data)
	image.Size = int64(len(data))

	created, err := s.repomanager.Images(s.db).Create(ctx, image)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// Create stores an image supplied as a ready-made data URI (JSON create
// path). The declared size must match the decoded payload length, and the
// payload is held to the same ceiling as a multipart upload.
func (s *ImageService) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	details := []string{}
	if strings.TrimSpace(image.Name) == "" {
		details = append(details, "name is required")
	}

	payload, ok := strings.CutPrefix(image.Data, "data:"+image.MimeType+";base64,")
	if !ok {
		details = append(details, "data must be a base64 data URI matching the declared mime type")
	} else {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			details = append(details, "data payload is not valid base64")
		} else if int64(len(decoded)) != image.Size {
			details = append(details, fmt.Sprintf("declared size %d does not match payload size %d", image.Size, len(decoded)))
		} else if int64(len(decoded)) > maxImagePayloadBytes {
			details = append(details, fmt.Sprintf("file too large: payload must be at most %dMB", maxImagePayloadBytes>>20))
		}
	}

	if len(details) > 0 {
		return nil, common.NewValidationError(details...)
	}

	created, err := s.repomanager.Images(s.db).Create(ctx, image)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// Get returns an image visible to callerID: their own, or any public one.
// Someone else's private image reads as absent.
func (s *ImageService) Get(ctx context.Context, id, callerID string) (*models.Image, error) {
	image, err := s.repomanager.Images(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if image.UserID != callerID && !image.Public {
		return nil, common.ErrorNotFound
	}
	return image, nil
}

// List returns a filtered page of images with the total count.
func (s *ImageService) List(ctx context.Context, f images.Filter) ([]*models.Image, int64, error) {
	result, total, err := s.repomanager.Images(s.db).List(ctx, f)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return result, total, nil
}

// ListPublic returns public images with the binary payload stripped.
func (s *ImageService) ListPublic(ctx context.Context, f images.Filter) ([]*models.Image, int64, error) {
	f.PublicOnly = true
	f.WithData = false
	return s.List(ctx, f)
}

// Update rewrites the metadata of the caller's image.
func (s *ImageService) Update(ctx context.Context, image *models.Image) (*models.Image, error) {
	if strings.TrimSpace(image.Name) == "" {
		return nil, common.NewValidationError("name is required")
	}

	updated, err := s.repomanager.Images(s.db).Update(ctx, image)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// Delete removes the caller's image.
func (s *ImageService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repomanager.Images(s.db).Delete(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
