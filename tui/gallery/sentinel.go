package gallery

// sentinel watches the current last item and fires once when it becomes
// visible. It must be re-armed after every append since the last item changes.
type sentinel struct {
	id    string
	armed bool
	fired bool
}

// arm watches id, replacing any previous watch.
func (s *sentinel) arm(id string) {
	if id == "" {
		s.disarm()
		return
	}
	s.id = id
	s.armed = true
	s.fired = false
}

func (s *sentinel) disarm() {
	*s = sentinel{}
}

// observe reports true the first time the watched item is visible.
func (s *sentinel) observe(visible func(id string) bool) bool {
	if !s.armed || s.fired {
		return false
	}
	if !visible(s.id) {
		return false
	}
	s.fired = true
	return true
}
