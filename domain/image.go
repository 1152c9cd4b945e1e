package domain

import "time"

// Image is a single gallery entry as served by the listing endpoint.
// Only ID matters to paging; the rest is passed through to the views.
type Image struct {
	ID           string
	Description  string
	UploadedBy   string
	CreatedAt    time.Time
	ThumbnailURL string
	GalleryURL   string
}

// Pagination is the optional metadata block of a listing response.
type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int
	HasMore      bool
	ItemsPerPage int
}

// Page is one decoded listing response.
type Page struct {
	Number  int
	Images  []Image
	HasMore bool

	// Pagination is nil when the endpoint answered in legacy mode.
	Pagination *Pagination
}

// UploadRequest describes a local file to publish to the gallery.
type UploadRequest struct {
	Path        string
	Description string
	UploadedBy  string
}

// UploadResult is what the upload endpoint returns for a stored image.
type UploadResult struct {
	ID           string
	OriginalURL  string
	GalleryURL   string
	ThumbnailURL string
	Description  string
}

// Upload is a journal entry for an upload made from this machine.
type Upload struct {
	ID          string
	ImageID     string
	Description string
	UploadedBy  string
	GalleryURL  string
	FileName    string
	UploadedAt  time.Time
}
