package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/CrestNiraj12/terminalgallery/domain"
	"github.com/CrestNiraj12/terminalgallery/infra/logging"
)

const maxUploadBytes = 20 << 20

// uploadService implements app.UploadService using the upload-image function.
type uploadService struct {
	client *Client
	path   string
}

// NewUploadService creates an UploadService posting to path (e.g. "/upload-image").
func NewUploadService(client *Client, path string) *uploadService {
	return &uploadService{client: client, path: path}
}

type uploadMetadata struct {
	Description string `json:"description"`
	UploadedBy  string `json:"uploadedBy"`
}

type uploadResponse struct {
	ID           flexID `json:"id"`
	OriginalURL  string `json:"originalUrl"`
	GalleryURL   string `json:"galleryUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Description  string `json:"description"`
}

// CheckUpload validates the request and sniffs the file type.
// It returns the detected MIME type.
func CheckUpload(req domain.UploadRequest) (string, error) {
	if strings.TrimSpace(req.Path) == "" {
		return "", domain.ErrMissingFile
	}
	if strings.TrimSpace(req.Description) == "" {
		return "", domain.ErrEmptyDescription
	}
	if strings.TrimSpace(req.UploadedBy) == "" {
		return "", domain.ErrEmptyUploader
	}
	info, err := os.Stat(req.Path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", req.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", req.Path, domain.ErrMissingFile)
	}
	if info.Size() > maxUploadBytes {
		return "", fmt.Errorf("%s is larger than %d MiB", filepath.Base(req.Path), maxUploadBytes>>20)
	}
	mt, err := mimetype.DetectFile(req.Path)
	if err != nil {
		return "", fmt.Errorf("detecting file type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%s (%s): %w", filepath.Base(req.Path), mt.String(), domain.ErrNotImage)
	}
	return mt.String(), nil
}

func (s *uploadService) Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResult, error) {
	req.Path = strings.TrimSpace(req.Path)
	req.Description = strings.TrimSpace(req.Description)
	req.UploadedBy = strings.TrimSpace(req.UploadedBy)

	contentType, err := CheckUpload(req)
	if err != nil {
		return domain.UploadResult{}, err
	}

	body, formType, err := buildUploadBody(req, contentType)
	if err != nil {
		return domain.UploadResult{}, err
	}

	requestID := uuid.NewString()
	header := http.Header{}
	header.Set("Content-Type", formType)
	header.Set("X-Request-ID", requestID)

	logging.Info("uploading image", "file", filepath.Base(req.Path), "request_id", requestID)
	data, err := s.client.Post(ctx, s.path, body, header)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("uploading image: %w", err)
	}

	var resp uploadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.UploadResult{}, fmt.Errorf("parsing upload response: %w", err)
	}
	if resp.ID == "" {
		return domain.UploadResult{}, fmt.Errorf("parsing upload response: missing id")
	}
	return domain.UploadResult{
		ID:           string(resp.ID),
		OriginalURL:  resp.OriginalURL,
		GalleryURL:   resp.GalleryURL,
		ThumbnailURL: resp.ThumbnailURL,
		Description:  resp.Description,
	}, nil
}

func buildUploadBody(req domain.UploadRequest, contentType string) (*bytes.Buffer, string, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", req.Path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(req.Path)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating image part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copying image: %w", err)
	}

	meta, err := json.Marshal(uploadMetadata{Description: req.Description, UploadedBy: req.UploadedBy})
	if err != nil {
		return nil, "", fmt.Errorf("encoding metadata: %w", err)
	}
	if err := w.WriteField("metadata", string(meta)); err != nil {
		return nil, "", fmt.Errorf("writing metadata: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
