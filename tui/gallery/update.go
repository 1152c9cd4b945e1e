package gallery

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalgallery/infra/logging"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		thumbs := m.ensureThumbnails()
		next := m.checkSentinel()
		return m, tea.Batch(thumbs, next)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case PageErrorMsg:
		if !m.feed.onPageFailed(msg) {
			logging.Debug("discarding stale page error", "page", msg.Page, "epoch", msg.Epoch, "current", m.feed.epoch)
			return m, nil
		}
		logging.Warn("page fetch failed", "page", msg.Page, "epoch", msg.Epoch, "err", msg.Err)
		return m, nil

	case ThumbnailLoadedMsg:
		if msg.Epoch != m.feed.epoch {
			return m, nil
		}
		m.handleThumbnail(msg)
		cmd := m.ensureThumbnails()
		return m, cmd

	case ResetMsg:
		return m.Reset()

	case tea.KeyMsg:
		if m.showDetail {
			return m.handleDetailKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (Model, tea.Cmd) {
	before := len(m.feed.items)
	if !m.feed.onPageArrived(msg) {
		logging.Debug("discarding stale page", "page", msg.Page.Number, "epoch", msg.Epoch, "current", m.feed.epoch)
		return m, nil
	}
	logging.Debug("page merged", "page", msg.Page.Number, "added", len(m.feed.items)-before, "has_more", m.feed.hasMore)

	if m.feed.hasMore {
		m.sentinel.arm(m.feed.lastID())
	} else {
		m.sentinel.disarm()
	}
	if m.cursor >= len(m.feed.items) {
		m.cursor = max(0, len(m.feed.items)-1)
	}
	thumbs := m.ensureThumbnails()
	next := m.checkSentinel()
	return m, tea.Batch(thumbs, next)
}

func (m *Model) handleThumbnail(msg ThumbnailLoadedMsg) {
	if msg.Epoch != m.feed.epoch {
		return
	}
	if msg.Full {
		k := fullKey(msg.ID)
		delete(m.thumbLoading, k)
		if msg.Err != nil {
			m.thumbFailed[k] = true
			logging.Debug("detail preview failed", "id", msg.ID, "err", msg.Err)
			return
		}
		m.fullPreviews[msg.ID] = msg.Preview
		return
	}
	delete(m.thumbLoading, msg.ID)
	if msg.Err != nil {
		m.thumbFailed[msg.ID] = true
		logging.Debug("thumbnail failed", "id", msg.ID, "err", msg.Err)
		return
	}
	m.previews[msg.ID] = msg.Preview
	m.feed.ready.markReady(msg.ID)
}

// checkSentinel requests the next page when the watched item is on screen.
// A feed-level error suspends this until a retry succeeds or a reset.
func (m *Model) checkSentinel() tea.Cmd {
	if m.feed.err != nil {
		return nil
	}
	if !m.sentinel.observe(m.isVisible) {
		return nil
	}
	logging.Debug("sentinel visible", "page", m.feed.nextPage, "epoch", m.feed.epoch)
	return m.feed.requestNext()
}

func (m Model) retry() (Model, tea.Cmd) {
	if m.feed.err == nil {
		return m, nil
	}
	logging.Info("retrying page", "page", m.feed.nextPage, "epoch", m.feed.epoch)
	cmd := m.feed.requestNext()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := m.columns()
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.Reset()

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.Enter):
		if m.feed.err != nil && len(m.feed.items) == 0 {
			return m.retry()
		}
		if _, ok := m.Selected(); !ok {
			return m, nil
		}
		m.showDetail = true
		cmd := m.ensureFullPreview()
		return m, cmd

	case key.Matches(msg, m.keys.Thumbnails):
		m.hideThumbnails = !m.hideThumbnails
		m.ensureCursorVisible()
		thumbs := m.ensureThumbnails()
		next := m.checkSentinel()
		return m, tea.Batch(m.emitPrefsChanged(), thumbs, next)

	case key.Matches(msg, m.keys.Open):
		if img, ok := m.Selected(); ok {
			return m, openURL(img.GalleryURL)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleHelp):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-cols)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(cols)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.feed.items))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.feed.items))
	default:
		return m, nil
	}

	thumbs := m.ensureThumbnails()
	next := m.checkSentinel()
	return m, tea.Batch(thumbs, next)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.showDetail = false
		m.ensureCursorVisible()
		thumbs := m.ensureThumbnails()
		next := m.checkSentinel()
		return m, tea.Batch(thumbs, next)

	case key.Matches(msg, m.keys.Open):
		if img, ok := m.Selected(); ok {
			return m, openURL(img.GalleryURL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.Reset()

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	default:
		return m, nil
	}

	preview := m.ensureFullPreview()
	next := m.checkSentinel()
	return m, tea.Batch(preview, next)
}
