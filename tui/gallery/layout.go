package gallery

const (
	thumbWidth   = 24
	thumbHeight  = 8
	tileGap      = 1
	headerHeight = 3
	footerHeight = 3
)

func (m Model) viewSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

// tileWidth is the outer width of a card: content, padding and border.
func (m Model) tileWidth() int {
	return thumbWidth + 4
}

// tileHeight is the outer height of a card: two text rows plus the border,
// plus the thumbnail when shown.
func (m Model) tileHeight() int {
	rows := 4
	if !m.hideThumbnails {
		rows += thumbHeight
	}
	return rows
}

func (m Model) columns() int {
	w, _ := m.viewSize()
	return max(1, (w+tileGap)/(m.tileWidth()+tileGap))
}

func (m Model) visibleRows() int {
	_, h := m.viewSize()
	return max(1, (h-headerHeight-footerHeight)/m.tileHeight())
}

func (m Model) fullPreviewSize() (int, int) {
	w, h := m.viewSize()
	return min(max(w-4, 8), 96), min(max(h-12, 4), 36)
}

func (m *Model) ensureCursorVisible() {
	cols := m.columns()
	rows := m.visibleRows()
	row := m.cursor / cols
	if row < m.startRow {
		m.startRow = row
	}
	if row >= m.startRow+rows {
		m.startRow = row - rows + 1
	}
	if m.startRow < 0 {
		m.startRow = 0
	}
}

// isVisible reports whether the image with id is on screen: inside the
// rendered grid window, or the image open in the detail view.
func (m Model) isVisible(id string) bool {
	if m.showDetail {
		sel, ok := m.Selected()
		return ok && sel.ID == id
	}
	idx := m.feed.indexOf(id)
	if idx < 0 {
		return false
	}
	cols := m.columns()
	first := m.startRow * cols
	last := (m.startRow + m.visibleRows()) * cols
	return idx >= first && idx < last
}

// prefetchWindow is the item range [first, last) whose thumbnails are worth
// fetching: the rendered grid window plus one row below it.
func (m Model) prefetchWindow() (int, int) {
	cols := m.columns()
	first := min(m.startRow*cols, len(m.feed.items))
	last := min((m.startRow+m.visibleRows()+1)*cols, len(m.feed.items))
	return first, last
}

func (m *Model) moveCursor(delta int) {
	n := len(m.feed.items)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.ensureCursorVisible()
}
