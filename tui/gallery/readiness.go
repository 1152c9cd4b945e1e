package gallery

// readiness tracks which images have a rendered thumbnail. It only drives the
// placeholder to thumbnail transition and never affects paging.
type readiness struct {
	ids map[string]struct{}
}

func newReadiness() readiness {
	return readiness{ids: make(map[string]struct{})}
}

func (r *readiness) markReady(id string) {
	if r.ids == nil {
		r.ids = make(map[string]struct{})
	}
	r.ids[id] = struct{}{}
}

func (r readiness) isReady(id string) bool {
	_, ok := r.ids[id]
	return ok
}

func (r *readiness) clear() {
	r.ids = make(map[string]struct{})
}

func (r readiness) len() int {
	return len(r.ids)
}
