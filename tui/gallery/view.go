package gallery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/terminalgallery/domain"
	"github.com/CrestNiraj12/terminalgallery/tui/common"
)

const dateLayout = "Jan 2, 2006"

// View renders the grid, or the fullscreen view when open.
func (m Model) View() string {
	w, _ := m.viewSize()
	if m.showDetail {
		return common.FitLines(m.viewDetail(), w)
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	if len(m.feed.items) == 0 {
		b.WriteString(m.viewEmpty())
	} else {
		b.WriteString(m.viewGrid())
	}
	b.WriteString("\n")
	b.WriteString(common.StatusBarStyle.Render(m.viewStatus()))
	b.WriteString("\n")
	b.WriteString(m.viewHelp())
	return common.FitLines(b.String(), w)
}

func (m Model) viewHeader() string {
	title := common.AppTitleStyle.Render("terminalgallery")
	tagline := common.TaglineStyle.Render("a photo wall in your terminal")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, tagline)
}

func (m Model) viewEmpty() string {
	switch {
	case m.feed.err != nil && m.feed.inFlight:
		return m.spinner.View() + " Retrying…"
	case m.feed.err != nil:
		return common.ErrorStyle.Render("Could not load the gallery: "+m.feed.err.Error()) +
			"\n" + common.TimestampStyle.Render("Press R or enter to retry, r to start over.")
	case m.feed.inFlight:
		return m.spinner.View() + " Loading gallery…"
	default:
		return common.TimestampStyle.Render("No images yet. Press u to upload one.")
	}
}

func (m Model) viewGrid() string {
	cols := m.columns()
	rows := m.visibleRows()
	items := m.feed.items

	out := make([]string, 0, rows)
	for r := m.startRow; r < m.startRow+rows; r++ {
		first := r * cols
		if first >= len(items) {
			break
		}
		tiles := make([]string, 0, cols*2)
		for i := first; i < min(first+cols, len(items)); i++ {
			if i > first {
				tiles = append(tiles, strings.Repeat(" ", tileGap))
			}
			tiles = append(tiles, m.renderTile(items[i], i == m.cursor))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return strings.Join(out, "\n")
}

func (m Model) renderTile(img domain.Image, selected bool) string {
	lines := make([]string, 0, 3)
	if !m.hideThumbnails {
		lines = append(lines, m.thumbnailBlock(img))
	}
	desc := img.Description
	if desc == "" {
		desc = "(no description)"
	}
	lines = append(lines,
		common.ContentStyle.Render(common.Truncate(desc, thumbWidth)),
		common.AuthorStyle.Render(common.Truncate(byline(img), thumbWidth)),
	)

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	return style.Width(thumbWidth + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) thumbnailBlock(img domain.Image) string {
	if m.feed.ready.isReady(img.ID) {
		return m.previews[img.ID]
	}
	label := "loading…"
	switch {
	case img.ThumbnailURL == "":
		label = "no thumbnail"
	case m.thumbFailed[img.ID]:
		label = "preview unavailable"
	}
	return lipgloss.Place(thumbWidth, thumbHeight, lipgloss.Center, lipgloss.Center,
		common.PlaceholderStyle.Render(label))
}

func byline(img domain.Image) string {
	who := img.UploadedBy
	if who == "" {
		who = "anonymous"
	}
	if img.CreatedAt.IsZero() {
		return who
	}
	return who + " · " + img.CreatedAt.Local().Format(dateLayout)
}

// viewStatus renders the paging line: progress, totals and errors.
func (m Model) viewStatus() string {
	parts := make([]string, 0, 3)
	if n := len(m.feed.items); n > 0 {
		parts = append(parts, paginationSummary(n, m.feed.meta))
	}
	switch {
	case m.feed.err != nil && m.feed.inFlight:
		parts = append(parts, m.spinner.View()+fmt.Sprintf(" Retrying page %d…", m.feed.nextPage))
	case m.feed.err != nil && len(m.feed.items) > 0:
		parts = append(parts, common.ErrorStyle.Render(
			fmt.Sprintf("Failed to load page %d: %v (R to retry)", m.feed.nextPage, m.feed.err)))
	case m.feed.inFlight && len(m.feed.items) > 0:
		parts = append(parts, m.spinner.View()+fmt.Sprintf(" Loading page %d…", m.feed.nextPage))
	case !m.feed.hasMore && len(m.feed.items) > 0:
		parts = append(parts, "End of gallery")
	}
	return strings.Join(parts, " · ")
}

func paginationSummary(loaded int, meta *domain.Pagination) string {
	if meta != nil && meta.TotalItems > 0 {
		return fmt.Sprintf("Showing 1–%d of %d images", loaded, meta.TotalItems)
	}
	if loaded == 1 {
		return "1 image loaded"
	}
	return fmt.Sprintf("%d images loaded", loaded)
}

func (m Model) viewHelp() string {
	k := m.keys
	if m.showHelp {
		return common.TimestampStyle.Render(strings.Join([]string{
			helpLine(k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom),
			helpLine(k.Enter, k.Open, k.Upload, k.Thumbnails),
			helpLine(k.Refresh, k.Retry, k.ToggleHelp, k.Quit),
		}, "\n"))
	}
	return common.TimestampStyle.Render(helpLine(k.Enter, k.Upload, k.Refresh, k.Thumbnails, k.ToggleHelp, k.Quit))
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func (m Model) viewDetail() string {
	img, ok := m.Selected()
	if !ok {
		return m.viewEmpty()
	}
	w, _ := m.fullPreviewSize()

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if !m.hideThumbnails {
		switch {
		case m.fullPreviews[img.ID] != "":
			b.WriteString(m.fullPreviews[img.ID])
		case m.feed.ready.isReady(img.ID):
			b.WriteString(m.previews[img.ID])
		default:
			b.WriteString(m.spinner.View() + " Loading preview…")
		}
		b.WriteString("\n\n")
	}

	desc := img.Description
	if desc == "" {
		desc = "(no description)"
	}
	b.WriteString(common.ContentStyle.Width(w).Render(desc))
	b.WriteString("\n")
	b.WriteString(common.AuthorStyle.Render(byline(img)))
	b.WriteString("\n")
	b.WriteString(common.TimestampStyle.Render(fmt.Sprintf("%d of %d", m.cursor+1, len(m.feed.items))))
	if img.GalleryURL != "" {
		b.WriteString("  ")
		b.WriteString(common.TimestampStyle.Render(common.Truncate(img.GalleryURL, w)))
	}
	b.WriteString("\n")
	if s := m.viewStatus(); s != "" {
		b.WriteString(common.StatusBarStyle.Render(s))
		b.WriteString("\n")
	}
	k := m.keys
	b.WriteString(common.TimestampStyle.Render(helpLine(k.Left, k.Right, k.Open, k.Back)))
	return b.String()
}
