package gallery

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/terminalgallery/app"
	"github.com/CrestNiraj12/terminalgallery/domain"
	"github.com/CrestNiraj12/terminalgallery/infra/logging"
	"github.com/CrestNiraj12/terminalgallery/tui/common"
)

const defaultLimit = 12

// PageLoadedMsg carries one fetched page, tagged with the epoch it was requested under.
type PageLoadedMsg struct {
	Epoch int
	Page  domain.Page
}

// PageErrorMsg is sent when a page fetch fails.
type PageErrorMsg struct {
	Epoch int
	Page  int
	Err   error
}

// ThumbnailLoadedMsg carries a rendered preview for one image.
// Full is set for the larger preview shown in the detail view.
type ThumbnailLoadedMsg struct {
	Epoch   int
	ID      string
	Full    bool
	Preview string
	Err     error
}

// ResetMsg restarts the gallery from page one.
type ResetMsg struct{}

// PrefsChangedMsg is emitted when a persisted view preference changes.
type PrefsChangedMsg struct {
	HideThumbnails bool
}

// Model holds the state for the gallery grid and its fullscreen view.
type Model struct {
	feed     feedState
	sentinel sentinel

	previews     map[string]string // id -> rendered thumbnail
	fullPreviews map[string]string // id -> rendered detail preview
	thumbLoading map[string]bool
	thumbFailed  map[string]bool

	cursor   int
	startRow int
	width    int
	height   int

	hideThumbnails bool
	showDetail     bool
	showHelp       bool

	keys    common.KeyMap
	spinner spinner.Model
}

// New creates a gallery model. The first page request is prepared here and
// issued by Init.
func New(svc app.GalleryService, limit int, hideThumbnails bool) Model {
	if limit <= 0 {
		limit = defaultLimit
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	feed := newFeedState(svc, limit)
	feed.inFlight = true

	return Model{
		feed:           feed,
		previews:       make(map[string]string),
		fullPreviews:   make(map[string]string),
		thumbLoading:   make(map[string]bool),
		thumbFailed:    make(map[string]bool),
		hideThumbnails: hideThumbnails,
		keys:           common.DefaultKeyMap(),
		spinner:        s,
	}
}

// Init issues the page-one request prepared by New.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchPage(m.feed.ctx, m.feed.svc, m.feed.epoch, m.feed.nextPage, m.feed.limit),
		m.spinner.Tick,
	)
}

// Update handles messages for the gallery view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Reset starts a new epoch: the feed is emptied and page one is requested.
func (m Model) Reset() (Model, tea.Cmd) {
	m.sentinel.disarm()
	cmd := m.feed.reset()
	m.previews = make(map[string]string)
	m.fullPreviews = make(map[string]string)
	m.thumbLoading = make(map[string]bool)
	m.thumbFailed = make(map[string]bool)
	m.cursor = 0
	m.startRow = 0
	m.showDetail = false
	logging.Info("gallery reset", "epoch", m.feed.epoch)
	return m, cmd
}

// Teardown stops the gallery. Responses still in flight are discarded when they arrive.
func (m Model) Teardown() Model {
	m.sentinel.disarm()
	m.feed.teardown()
	return m
}

// Items returns the loaded images in arrival order.
func (m Model) Items() []domain.Image {
	return m.feed.items
}

// Epoch returns the current feed generation.
func (m Model) Epoch() int {
	return m.feed.epoch
}

// Loading reports whether a page fetch is outstanding.
func (m Model) Loading() bool {
	return m.feed.inFlight
}

// HasMore reports whether further pages are expected.
func (m Model) HasMore() bool {
	return m.feed.hasMore
}

// NextPage returns the page that will be requested next.
func (m Model) NextPage() int {
	return m.feed.nextPage
}

// Err returns the current feed-level error, if any.
func (m Model) Err() error {
	return m.feed.err
}

// IsInDetailView reports whether the fullscreen view is open.
func (m Model) IsInDetailView() bool {
	return m.showDetail
}

// ThumbnailsHidden reports whether thumbnail previews are disabled.
func (m Model) ThumbnailsHidden() bool {
	return m.hideThumbnails
}

// Selected returns the highlighted image, if any.
func (m Model) Selected() (domain.Image, bool) {
	if m.cursor < 0 || m.cursor >= len(m.feed.items) {
		return domain.Image{}, false
	}
	return m.feed.items[m.cursor], true
}
