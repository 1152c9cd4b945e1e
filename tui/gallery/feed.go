package gallery

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalgallery/app"
	"github.com/CrestNiraj12/terminalgallery/domain"
)

// feedState is the paging state machine behind the grid. It is only mutated
// from Model.Update, so no locking is needed; inFlight is the single fetch slot.
type feedState struct {
	svc   app.GalleryService
	limit int

	epoch    int
	items    []domain.Image
	ids      map[string]struct{}
	ready    readiness
	nextPage int
	hasMore  bool
	inFlight bool
	err      error
	meta     *domain.Pagination

	// ctx is cancelled when the epoch ends so superseded requests stop early.
	// Stale results are still rejected by the epoch check.
	ctx    context.Context
	cancel context.CancelFunc
}

func newFeedState(svc app.GalleryService, limit int) feedState {
	ctx, cancel := context.WithCancel(context.Background())
	return feedState{
		svc:      svc,
		limit:    limit,
		ids:      make(map[string]struct{}),
		ready:    newReadiness(),
		nextPage: 1,
		hasMore:  true,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// reset starts a new epoch and requests page one.
func (f *feedState) reset() tea.Cmd {
	if f.cancel != nil {
		f.cancel()
	}
	f.ctx, f.cancel = context.WithCancel(context.Background())
	f.epoch++
	f.items = nil
	f.ids = make(map[string]struct{})
	f.ready.clear()
	f.nextPage = 1
	f.hasMore = true
	f.inFlight = false
	f.err = nil
	f.meta = nil
	return f.requestNext()
}

// requestNext claims the fetch slot for nextPage. It is a no-op while a fetch
// is outstanding or once the listing is exhausted.
func (f *feedState) requestNext() tea.Cmd {
	if f.inFlight || !f.hasMore {
		return nil
	}
	f.inFlight = true
	return fetchPage(f.ctx, f.svc, f.epoch, f.nextPage, f.limit)
}

// onPageArrived merges a page. It reports false when the page belongs to an
// older epoch and was dropped untouched.
func (f *feedState) onPageArrived(msg PageLoadedMsg) bool {
	if msg.Epoch != f.epoch {
		return false
	}
	for _, img := range msg.Page.Images {
		if img.ID == "" {
			continue
		}
		if _, ok := f.ids[img.ID]; ok {
			continue
		}
		f.ids[img.ID] = struct{}{}
		f.items = append(f.items, img)
	}
	f.hasMore = msg.Page.HasMore
	f.nextPage++
	f.inFlight = false
	f.err = nil
	if msg.Page.Pagination != nil {
		f.meta = msg.Page.Pagination
	}
	return true
}

// onPageFailed records a failed fetch. nextPage and hasMore are kept so the
// next request retries the same page.
func (f *feedState) onPageFailed(msg PageErrorMsg) bool {
	if msg.Epoch != f.epoch {
		return false
	}
	f.inFlight = false
	f.err = msg.Err
	return true
}

// teardown ends the current epoch without starting a new one.
func (f *feedState) teardown() {
	if f.cancel != nil {
		f.cancel()
	}
	f.epoch++
	f.inFlight = false
	f.hasMore = false
}

func (f *feedState) lastID() string {
	if len(f.items) == 0 {
		return ""
	}
	return f.items[len(f.items)-1].ID
}

func (f *feedState) indexOf(id string) int {
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}
