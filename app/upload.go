package app

import (
	"context"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

// UploadService publishes a local image file to the gallery backend.
type UploadService interface {
	Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResult, error)
}

// UploadHistory keeps a local record of completed uploads.
// Implemented by infrastructure (e.g. the SQLite journal).
type UploadHistory interface {
	Record(ctx context.Context, u domain.Upload) error
	Recent(ctx context.Context, limit int) ([]domain.Upload, error)
}
