package gallery

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalgallery/app"
	"github.com/CrestNiraj12/terminalgallery/infra/logging"
)

// fetchPage issues exactly one listing request and tags the result with epoch.
func fetchPage(ctx context.Context, svc app.GalleryService, epoch, page, limit int) tea.Cmd {
	return func() tea.Msg {
		logging.Debug("fetching page", "page", page, "limit", limit, "epoch", epoch)
		p, err := svc.FetchPage(ctx, page, limit)
		if err != nil {
			return PageErrorMsg{Epoch: epoch, Page: page, Err: err}
		}
		return PageLoadedMsg{Epoch: epoch, Page: p}
	}
}

func fetchThumbnail(ctx context.Context, epoch int, id, rawURL string, full bool, w, h int) tea.Cmd {
	return func() tea.Msg {
		preview, err := loadPreview(ctx, rawURL, w, h)
		return ThumbnailLoadedMsg{Epoch: epoch, ID: id, Full: full, Preview: preview, Err: err}
	}
}

// maxThumbnailFetches bounds how many preview downloads run at once.
const maxThumbnailFetches = 6

// ensureThumbnails requests previews for the tiles on screen plus the next
// row, keeping at most maxThumbnailFetches downloads in flight.
func (m *Model) ensureThumbnails() tea.Cmd {
	if m.hideThumbnails {
		return nil
	}
	first, last := m.prefetchWindow()
	var cmds []tea.Cmd
	for i := first; i < last && len(m.thumbLoading) < maxThumbnailFetches; i++ {
		img := m.feed.items[i]
		if img.ThumbnailURL == "" || m.feed.ready.isReady(img.ID) {
			continue
		}
		if m.thumbLoading[img.ID] || m.thumbFailed[img.ID] {
			continue
		}
		m.thumbLoading[img.ID] = true
		cmds = append(cmds, fetchThumbnail(m.feed.ctx, m.feed.epoch, img.ID, img.ThumbnailURL, false, thumbWidth, thumbHeight))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// ensureFullPreview requests the detail preview for the selected image.
func (m *Model) ensureFullPreview() tea.Cmd {
	if m.hideThumbnails || !m.showDetail {
		return nil
	}
	img, ok := m.Selected()
	if !ok {
		return nil
	}
	src := img.GalleryURL
	if src == "" {
		src = img.ThumbnailURL
	}
	if src == "" {
		return nil
	}
	k := fullKey(img.ID)
	if _, ok := m.fullPreviews[img.ID]; ok || m.thumbLoading[k] || m.thumbFailed[k] {
		return nil
	}
	m.thumbLoading[k] = true
	w, h := m.fullPreviewSize()
	return fetchThumbnail(m.feed.ctx, m.feed.epoch, img.ID, src, true, w, h)
}

func fullKey(id string) string {
	return "full|" + id
}

func (m Model) emitPrefsChanged() tea.Cmd {
	hide := m.hideThumbnails
	return func() tea.Msg {
		return PrefsChangedMsg{HideThumbnails: hide}
	}
}

func openURL(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if !isSafeExternalURL(rawURL) {
			return nil
		}
		name, args := browserCommand(rawURL)
		if err := exec.Command(name, args...).Start(); err != nil {
			logging.Warn("open in browser failed", "url", rawURL, "err", err)
		}
		return nil
	}
}

func browserCommand(rawURL string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
