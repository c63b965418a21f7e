package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how far page keys move in a list of the given viewport height.
func PageStep(viewport int) int {
	if viewport <= 0 {
		return 10
	}
	step := viewport - 1
	if step < 3 {
		step = 3
	}
	return step
}

// Reveal returns the scroll offset that keeps [start, end) visible in a window
// of height rows, moving as little as possible from top.
func Reveal(top, start, end, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if end <= start {
		end = start + 1
	}
	if start < top {
		top = start
	}
	if end > top+height {
		top = end - height
		if top > start {
			top = start
		}
	}
	maxTop := total - height
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

// CenteredWindow returns the [start, end) rows of a height-row window that keeps
// cursor near the middle.
func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}
