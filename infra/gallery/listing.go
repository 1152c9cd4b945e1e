package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

// listingService implements app.GalleryService against the list-images function.
type listingService struct {
	client *Client
	path   string
}

// NewListingService creates a GalleryService reading from path (e.g. "/list-images").
func NewListingService(client *Client, path string) *listingService {
	return &listingService{client: client, path: path}
}

// listingResponse is the wire shape. Images is a pointer so that a missing
// field can be told apart from an empty page.
type listingResponse struct {
	Images     *[]imageDTO    `json:"images"`
	Pagination *paginationDTO `json:"pagination"`
}

type imageDTO struct {
	ID           flexID `json:"id"`
	Description  string `json:"description"`
	UploadedBy   string `json:"uploaded_by"`
	CreatedAt    string `json:"created_at"`
	ThumbnailURL string `json:"thumbnail_url"`
	GalleryURL   string `json:"gallery_url"`
}

type paginationDTO struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalItems   int  `json:"total_items"`
	HasMore      bool `json:"has_more"`
	ItemsPerPage int  `json:"items_per_page"`
}

// flexID accepts both string and numeric ids.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func (s *listingService) FetchPage(ctx context.Context, page, limit int) (domain.Page, error) {
	if page < 1 {
		page = 1
	}
	q := make(url.Values)
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	data, err := s.client.Get(ctx, s.path+"?"+q.Encode())
	if err != nil {
		return domain.Page{}, fmt.Errorf("fetching page %d: %w", page, err)
	}
	return decodePage(data, page)
}

// decodePage maps a listing body onto a domain.Page. Without pagination
// metadata, more data is assumed until an empty page arrives.
func decodePage(data []byte, page int) (domain.Page, error) {
	var resp listingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Page{}, fmt.Errorf("parsing page %d: %w: %v", page, domain.ErrMalformedResponse, err)
	}
	if resp.Images == nil {
		return domain.Page{}, fmt.Errorf("parsing page %d: %w: missing images", page, domain.ErrMalformedResponse)
	}

	out := domain.Page{
		Number: page,
		Images: mapImages(*resp.Images),
	}
	if p := resp.Pagination; p != nil {
		out.HasMore = p.HasMore
		out.Pagination = &domain.Pagination{
			CurrentPage:  p.CurrentPage,
			TotalPages:   p.TotalPages,
			TotalItems:   p.TotalItems,
			HasMore:      p.HasMore,
			ItemsPerPage: p.ItemsPerPage,
		}
	} else {
		out.HasMore = len(*resp.Images) > 0
	}
	return out, nil
}

func mapImages(in []imageDTO) []domain.Image {
	out := make([]domain.Image, 0, len(in))
	for _, dto := range in {
		createdAt, _ := time.Parse(time.RFC3339, strings.TrimSpace(dto.CreatedAt))
		out = append(out, domain.Image{
			ID:           strings.TrimSpace(string(dto.ID)),
			Description:  strings.TrimSpace(dto.Description),
			UploadedBy:   strings.TrimSpace(dto.UploadedBy),
			CreatedAt:    createdAt,
			ThumbnailURL: strings.TrimSpace(dto.ThumbnailURL),
			GalleryURL:   strings.TrimSpace(dto.GalleryURL),
		})
	}
	return out
}
