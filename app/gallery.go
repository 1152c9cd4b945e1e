package app

import (
	"context"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

// GalleryService reads the remote paged image listing.
type GalleryService interface {
	// FetchPage issues exactly one request for the given 1-based page.
	// It never retries and never caches.
	FetchPage(ctx context.Context, page, limit int) (domain.Page, error)
}
