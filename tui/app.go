package tui

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalgallery/app"
	"github.com/CrestNiraj12/terminalgallery/domain"
	"github.com/CrestNiraj12/terminalgallery/infra/config"
	"github.com/CrestNiraj12/terminalgallery/infra/logging"
	"github.com/CrestNiraj12/terminalgallery/tui/common"
	"github.com/CrestNiraj12/terminalgallery/tui/gallery"
	"github.com/CrestNiraj12/terminalgallery/tui/upload"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Gallery        app.GalleryService
	Upload         app.UploadService
	History        app.UploadHistory // optional
	PageSize       int
	Uploader       string
	StatePath      string
	HideThumbnails bool
}

type activeView int

const (
	galleryView activeView = iota
	uploadView
)

type historyRecordedMsg struct {
	Err error
}

type prefsSavedMsg struct {
	Err error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	gallery gallery.Model
	upload  upload.Model
	keys    common.KeyMap
	status  string // Transient status message (e.g. "Uploaded!")
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps:    deps,
		active:  galleryView,
		gallery: gallery.New(deps.Gallery, deps.PageSize, deps.HideThumbnails),
		keys:    common.DefaultKeyMap(),
	}
}

// Init starts loading the first gallery page.
func (a App) Init() tea.Cmd {
	return a.gallery.Init()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a.quit()
		}
		if a.active == galleryView && !a.gallery.IsInDetailView() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a.quit()
			case key.Matches(msg, a.keys.Upload):
				a.active = uploadView
				a.status = ""
				a.upload = upload.New(a.deps.Upload, a.deps.Uploader)
				return a, a.upload.Init()
			}
		}

	case upload.DoneMsg:
		a.active = galleryView
		if msg.Result == nil {
			a.status = "Upload cancelled."
			return a, nil
		}
		a.status = "Image uploaded."
		return a, tea.Batch(refreshGallery, a.recordUpload(msg))

	case historyRecordedMsg:
		if msg.Err != nil {
			logging.Error("recording upload", "err", msg.Err)
		}
		return a, nil

	case gallery.PrefsChangedMsg:
		return a, a.savePrefs(msg)

	case prefsSavedMsg:
		if msg.Err != nil {
			logging.Warn("saving ui state", "err", msg.Err)
		}
		return a, nil

	// Gallery traffic is routed even while the upload form is open so the
	// fetch slot is always released.
	case gallery.PageLoadedMsg, gallery.PageErrorMsg, gallery.ThumbnailLoadedMsg, gallery.ResetMsg, tea.WindowSizeMsg:
		var cmd tea.Cmd
		a.gallery, cmd = a.gallery.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var gcmd, ucmd tea.Cmd
		a.gallery, gcmd = a.gallery.Update(msg)
		if a.active == uploadView {
			a.upload, ucmd = a.upload.Update(msg)
		}
		return a, tea.Batch(gcmd, ucmd)
	}

	// Delegate to the active sub-model.
	switch a.active {
	case galleryView:
		updated, cmd := a.gallery.Update(msg)
		a.gallery = updated
		return a, cmd
	case uploadView:
		updated, cmd := a.upload.Update(msg)
		a.upload = updated
		return a, cmd
	}

	return a, nil
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.gallery = a.gallery.Teardown()
	return a, tea.Quit
}

func (a App) recordUpload(msg upload.DoneMsg) tea.Cmd {
	hist := a.deps.History
	if hist == nil || msg.Result == nil {
		return nil
	}
	desc := msg.Result.Description
	if desc == "" {
		desc = msg.Request.Description
	}
	u := domain.Upload{
		ImageID:     msg.Result.ID,
		Description: desc,
		UploadedBy:  msg.Request.UploadedBy,
		GalleryURL:  msg.Result.GalleryURL,
		FileName:    filepath.Base(msg.Request.Path),
	}
	return func() tea.Msg {
		return historyRecordedMsg{Err: hist.Record(context.Background(), u)}
	}
}

func (a App) savePrefs(msg gallery.PrefsChangedMsg) tea.Cmd {
	path := a.deps.StatePath
	if path == "" {
		return nil
	}
	st := config.UIState{HideThumbnails: msg.HideThumbnails}
	return func() tea.Msg {
		return prefsSavedMsg{Err: config.SaveUIState(path, st)}
	}
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case galleryView:
		s = a.gallery.View()
	case uploadView:
		s = a.upload.View()
	}

	if a.status != "" {
		s += "\n" + common.SuccessStyle.Render(a.status)
	}

	return s
}

func refreshGallery() tea.Msg {
	return gallery.ResetMsg{}
}
