package gallery

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

// stubGallery serves canned pages and records every page requested.
type stubGallery struct {
	mu    sync.Mutex
	pages map[int]domain.Page
	errs  map[int]error
	calls []int
}

func newStubGallery() *stubGallery {
	return &stubGallery{pages: map[int]domain.Page{}, errs: map[int]error{}}
}

func (s *stubGallery) FetchPage(_ context.Context, page, _ int) (domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, page)
	if err := s.errs[page]; err != nil {
		return domain.Page{}, err
	}
	p := s.pages[page]
	p.Number = page
	return p, nil
}

func (s *stubGallery) setErr(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[page] = err
}

func (s *stubGallery) requested() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.calls...)
}

func makeImages(prefix string, n int) []domain.Image {
	out := make([]domain.Image, 0, n)
	for i := range n {
		out = append(out, domain.Image{
			ID:          fmt.Sprintf("%s-%d", prefix, i),
			Description: "image " + prefix,
			UploadedBy:  "tester",
		})
	}
	return out
}

// threePageGallery has three pages of two images, the last one final.
func threePageGallery() *stubGallery {
	s := newStubGallery()
	s.pages[1] = domain.Page{Images: makeImages("p1", 2), HasMore: true}
	s.pages[2] = domain.Page{Images: makeImages("p2", 2), HasMore: true}
	s.pages[3] = domain.Page{Images: makeImages("p3", 2), HasMore: false}
	return s
}

// collectMsgs runs cmd and any batched commands it expands to.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func pageMsgs(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, msg := range collectMsgs(cmd) {
		switch msg.(type) {
		case PageLoadedMsg, PageErrorMsg:
			out = append(out, msg)
		}
	}
	return out
}

// drive feeds page results back into the model until no fetch is pending.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for range 20 {
		msgs := pageMsgs(cmd)
		if len(msgs) == 0 {
			return m
		}
		if len(msgs) > 1 {
			t.Fatalf("expected at most one outstanding fetch, got %d", len(msgs))
		}
		m, cmd = m.Update(msgs[0])
	}
	t.Fatalf("paging did not settle")
	return m
}

func ids(items []domain.Image) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
