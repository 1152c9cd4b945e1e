package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/terminalgallery/app"
	"github.com/CrestNiraj12/terminalgallery/domain"
	"github.com/CrestNiraj12/terminalgallery/infra/logging"
)

type field int

const (
	pathField field = iota
	descriptionField
	uploaderField
	fieldCount
)

// DoneMsg is sent when the form closes. Result is nil when the user cancelled.
type DoneMsg struct {
	Request domain.UploadRequest
	Result  *domain.UploadResult
}

type resultMsg struct {
	req domain.UploadRequest
	res domain.UploadResult
	err error
}

// Model holds the state for the upload form.
type Model struct {
	svc        app.UploadService
	inputs     []textinput.Model
	focus      field
	submitting bool
	err        error
	spinner    spinner.Model
}

// New creates an upload form. uploader pre-fills the "uploaded by" field.
func New(svc app.UploadService, uploader string) Model {
	inputs := make([]textinput.Model, fieldCount)

	inputs[pathField] = textinput.New()
	inputs[pathField].Placeholder = "~/Pictures/photo.jpg"
	inputs[pathField].CharLimit = 1024

	inputs[descriptionField] = textinput.New()
	inputs[descriptionField].Placeholder = "What is in the picture?"
	inputs[descriptionField].CharLimit = 280

	inputs[uploaderField] = textinput.New()
	inputs[uploaderField].Placeholder = "Your name"
	inputs[uploaderField].CharLimit = 64
	inputs[uploaderField].SetValue(uploader)

	for i := range inputs {
		inputs[i].Width = 56
	}
	inputs[pathField].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		svc:     svc,
		inputs:  inputs,
		spinner: s,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Submitting reports whether an upload is in progress.
func (m Model) Submitting() bool {
	return m.submitting
}

// Update handles messages for the upload form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			logging.Warn("upload failed", "file", filepath.Base(msg.req.Path), "err", msg.err)
			return m, nil
		}
		logging.Info("upload complete", "id", msg.res.ID, "file", filepath.Base(msg.req.Path))
		res := msg.res
		return m, done(DoneMsg{Request: msg.req, Result: &res})

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{})
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.focus < uploaderField {
				return m, m.setFocus(m.focus + 1)
			}
			return m.submit()
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[m.focus].Focus()
}

// request builds the upload request from the form fields.
func (m Model) request() domain.UploadRequest {
	return domain.UploadRequest{
		Path:        expandHome(strings.TrimSpace(m.inputs[pathField].Value())),
		Description: strings.TrimSpace(m.inputs[descriptionField].Value()),
		UploadedBy:  strings.TrimSpace(m.inputs[uploaderField].Value()),
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	req := m.request()
	switch {
	case req.Path == "":
		m.err = domain.ErrMissingFile
		return m, m.setFocus(pathField)
	case req.Description == "":
		m.err = domain.ErrEmptyDescription
		return m, m.setFocus(descriptionField)
	case req.UploadedBy == "":
		m.err = domain.ErrEmptyUploader
		return m, m.setFocus(uploaderField)
	}

	m.err = nil
	m.submitting = true
	svc := m.svc
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := svc.Upload(context.Background(), req)
		return resultMsg{req: req, res: res, err: err}
	})
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
