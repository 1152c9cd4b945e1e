package gallery

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

func TestModel_ThreePagesLoadThroughSentinel(t *testing.T) {
	stub := threePageGallery()
	m := New(stub, 2, true)

	m = drive(t, m, m.Init())

	want := []string{"p1-0", "p1-1", "p2-0", "p2-1", "p3-0", "p3-1"}
	if got := ids(m.Items()); !slices.Equal(got, want) {
		t.Fatalf("unexpected items: %v", got)
	}
	if m.HasMore() || m.Loading() {
		t.Fatalf("expected exhausted idle feed: hasMore=%v loading=%v", m.HasMore(), m.Loading())
	}
	if got := stub.requested(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("unexpected requests: %v", got)
	}

	for _, k := range []tea.KeyMsg{keyRunes("j"), keyRunes("G"), keyRunes("k")} {
		var cmd tea.Cmd
		m, cmd = m.Update(k)
		if len(pageMsgs(cmd)) != 0 {
			t.Fatalf("no fetch expected after end of data")
		}
	}
	m.sentinel.arm(m.feed.lastID())
	if cmd := m.checkSentinel(); cmd != nil {
		t.Fatalf("sentinel firing after end of data must not fetch")
	}
}

func TestModel_ResetWhilePageTwoInFlight(t *testing.T) {
	stub := threePageGallery()
	m := New(stub, 2, true)

	first := pageMsgs(m.Init())
	m, pageTwo := m.Update(first[0])
	if !m.Loading() {
		t.Fatalf("expected page 2 to be requested by the sentinel")
	}

	m, resetCmd := m.Reset()
	if m.Epoch() != 1 || len(m.Items()) != 0 || !m.Loading() || m.NextPage() != 1 {
		t.Fatalf("unexpected state after reset: epoch=%d items=%d loading=%v next=%d", m.Epoch(), len(m.Items()), m.Loading(), m.NextPage())
	}

	stale := pageMsgs(pageTwo)
	if len(stale) != 1 || stale[0].(PageLoadedMsg).Epoch != 0 {
		t.Fatalf("expected the stale epoch-0 page 2")
	}
	m, cmd := m.Update(stale[0])
	if cmd != nil || len(m.Items()) != 0 || m.NextPage() != 1 {
		t.Fatalf("stale page must be discarded")
	}

	fresh := pageMsgs(resetCmd)
	m, _ = m.Update(fresh[0])
	if got := ids(m.Items()); !slices.Equal(got, []string{"p1-0", "p1-1"}) {
		t.Fatalf("expected only epoch-1 page-1 data, got %v", got)
	}
}

func TestModel_DoubleResetSupersedesFirst(t *testing.T) {
	stub := threePageGallery()
	m := New(stub, 2, true)
	m, firstCmd := m.Update(ResetMsg{})
	m, secondCmd := m.Update(ResetMsg{})
	if m.Epoch() != 2 {
		t.Fatalf("expected epoch 2, got %d", m.Epoch())
	}

	m, _ = m.Update(pageMsgs(firstCmd)[0])
	if len(m.Items()) != 0 || !m.Loading() {
		t.Fatalf("first reset's response must be discarded")
	}
	m, _ = m.Update(pageMsgs(secondCmd)[0])
	if len(m.Items()) != 2 {
		t.Fatalf("expected second reset's page to apply, got %d items", len(m.Items()))
	}
}

func TestModel_PageOneErrorThenManualRetry(t *testing.T) {
	stub := threePageGallery()
	stub.setErr(1, errors.New("boom"))
	m := New(stub, 2, true)

	m, _ = m.Update(pageMsgs(m.Init())[0])
	if m.Err() == nil || m.Loading() || m.NextPage() != 1 || len(m.Items()) != 0 {
		t.Fatalf("unexpected state after failure: err=%v loading=%v next=%d", m.Err(), m.Loading(), m.NextPage())
	}
	if view := m.View(); !strings.Contains(view, "Could not load the gallery: boom") {
		t.Fatalf("expected error banner, got:\n%s", view)
	}

	stub.setErr(1, nil)
	m, cmd := m.Update(keyRunes("R"))
	if !m.Loading() {
		t.Fatalf("retry should claim the fetch slot")
	}
	msgs := pageMsgs(cmd)
	if len(msgs) != 1 || msgs[0].(PageLoadedMsg).Page.Number != 1 {
		t.Fatalf("retry should request page 1 again")
	}
	m, _ = m.Update(msgs[0])
	if m.Err() != nil || len(m.Items()) != 2 {
		t.Fatalf("expected recovery after retry: err=%v items=%d", m.Err(), len(m.Items()))
	}
}

func TestModel_ErrorSuspendsSentinel(t *testing.T) {
	stub := threePageGallery()
	stub.setErr(2, errors.New("page two down"))
	m := New(stub, 2, true)

	m = drive(t, m, m.Init())
	if m.Err() == nil || len(m.Items()) != 2 || m.NextPage() != 2 {
		t.Fatalf("expected page 2 failure with page 1 kept: err=%v items=%d next=%d", m.Err(), len(m.Items()), m.NextPage())
	}

	m.sentinel.arm(m.feed.lastID())
	if cmd := m.checkSentinel(); cmd != nil {
		t.Fatalf("sentinel must stay inert while the feed is in error")
	}
	if got := stub.requested(); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("unexpected requests: %v", got)
	}
	if !strings.Contains(m.View(), "Failed to load page 2") {
		t.Fatalf("expected inline page error in status line")
	}
}

func TestModel_ScrollingRevealsSentinel(t *testing.T) {
	stub := threePageGallery()
	m := New(stub, 2, true)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	m, cmd := m.Update(pageMsgs(m.Init())[0])
	if len(pageMsgs(cmd)) != 0 || m.Loading() {
		t.Fatalf("last item is off screen, no fetch expected yet")
	}

	m, cmd = m.Update(keyRunes("j"))
	msgs := pageMsgs(cmd)
	if len(msgs) != 1 || msgs[0].(PageLoadedMsg).Page.Number != 2 {
		t.Fatalf("scrolling to the last item should request page 2")
	}
}

func TestModel_DetailNavigationRevealsSentinel(t *testing.T) {
	stub := threePageGallery()
	m := New(stub, 2, true)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	m, _ = m.Update(pageMsgs(m.Init())[0])

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsInDetailView() {
		t.Fatalf("enter should open the detail view")
	}
	m, cmd := m.Update(keyRunes("l"))
	if len(pageMsgs(cmd)) != 1 {
		t.Fatalf("viewing the last image should request the next page")
	}
	if sel, _ := m.Selected(); sel.ID != "p1-1" {
		t.Fatalf("unexpected selection %q", sel.ID)
	}

	m, _ = m.Update(keyRunes("q"))
	if m.IsInDetailView() {
		t.Fatalf("q should close the detail view")
	}
}

func TestModel_ReadinessIsEpochScopedAndCosmetic(t *testing.T) {
	stub := threePageGallery()
	m := New(stub, 2, true)
	m, _ = m.Update(pageMsgs(m.Init())[0])
	loading := m.Loading()

	m, _ = m.Update(ThumbnailLoadedMsg{Epoch: m.Epoch(), ID: "p1-0", Preview: "##"})
	if !m.feed.ready.isReady("p1-0") {
		t.Fatalf("expected p1-0 ready")
	}
	if m.Loading() != loading {
		t.Fatalf("readiness must not affect loading state")
	}

	m, _ = m.Update(ThumbnailLoadedMsg{Epoch: m.Epoch() - 1, ID: "p1-1", Preview: "##"})
	if m.feed.ready.isReady("p1-1") {
		t.Fatalf("stale thumbnail must be ignored")
	}

	m, _ = m.Reset()
	if m.feed.ready.isReady("p1-0") {
		t.Fatalf("reset must clear readiness")
	}
}

func TestModel_ThumbnailToggleEmitsPrefs(t *testing.T) {
	m := New(threePageGallery(), 2, true)
	m, cmd := m.Update(keyRunes("t"))
	if m.ThumbnailsHidden() {
		t.Fatalf("expected thumbnails to be shown")
	}
	found := false
	for _, msg := range collectMsgs(cmd) {
		if p, ok := msg.(PrefsChangedMsg); ok && !p.HideThumbnails {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PrefsChangedMsg")
	}
}

func TestModel_TeardownDiscardsPendingPage(t *testing.T) {
	m := New(threePageGallery(), 2, true)
	pending := m.Init()
	m = m.Teardown()
	m, _ = m.Update(pageMsgs(pending)[0])
	if len(m.Items()) != 0 {
		t.Fatalf("page arriving after teardown must be dropped")
	}
}

func TestPaginationSummary(t *testing.T) {
	if got := paginationSummary(12, &domain.Pagination{TotalItems: 58}); got != "Showing 1–12 of 58 images" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if got := paginationSummary(3, nil); got != "3 images loaded" {
		t.Fatalf("unexpected legacy summary: %q", got)
	}
}

func TestModel_ViewShowsSummaryAndEnd(t *testing.T) {
	stub := threePageGallery()
	for n, p := range stub.pages {
		p.Pagination = &domain.Pagination{TotalItems: 6, HasMore: p.HasMore}
		stub.pages[n] = p
	}
	m := New(stub, 2, true)
	m = drive(t, m, m.Init())

	view := m.View()
	if !strings.Contains(view, "Showing 1–6 of 6 images") || !strings.Contains(view, "End of gallery") {
		t.Fatalf("unexpected status line:\n%s", view)
	}
}

func thumbnailGallery(n int) *stubGallery {
	s := newStubGallery()
	imgs := makeImages("p1", n)
	for i := range imgs {
		imgs[i].ThumbnailURL = "http://thumbs.invalid/" + imgs[i].ID
	}
	s.pages[1] = domain.Page{Images: imgs, HasMore: false}
	return s
}

func TestModel_ThumbnailsFetchOnlyNearTheWindow(t *testing.T) {
	m := New(thumbnailGallery(100), 100, false)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(pageMsgs(m.Init())[0])

	// Two columns, one visible row, one row of lookahead.
	if len(m.thumbLoading) != 4 {
		t.Fatalf("expected 4 thumbnail fetches, got %d", len(m.thumbLoading))
	}
	for _, id := range []string{"p1-0", "p1-1", "p1-2", "p1-3"} {
		if !m.thumbLoading[id] {
			t.Fatalf("expected %s to be fetching", id)
		}
	}

	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))
	if !m.thumbLoading["p1-4"] {
		t.Fatalf("scrolling should fetch newly visible thumbnails")
	}
	if m.thumbLoading["p1-20"] {
		t.Fatalf("off-screen thumbnails must not be fetched")
	}
}

func TestModel_ThumbnailFetchesAreBounded(t *testing.T) {
	m := New(thumbnailGallery(100), 100, false)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 400, Height: 200})
	m, _ = m.Update(pageMsgs(m.Init())[0])

	if len(m.thumbLoading) != maxThumbnailFetches {
		t.Fatalf("expected %d fetches in flight, got %d", maxThumbnailFetches, len(m.thumbLoading))
	}

	m, _ = m.Update(ThumbnailLoadedMsg{Epoch: m.Epoch(), ID: "p1-0", Preview: "##"})
	if len(m.thumbLoading) != maxThumbnailFetches {
		t.Fatalf("a finished fetch should free a slot for the next, got %d", len(m.thumbLoading))
	}
	if m.thumbLoading["p1-0"] || !m.thumbLoading[fmt.Sprintf("p1-%d", maxThumbnailFetches)] {
		t.Fatalf("unexpected in-flight set: %v", m.thumbLoading)
	}
}
