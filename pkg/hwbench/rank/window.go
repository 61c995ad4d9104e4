package rank

// Window is the half-open index range [Min, Max) of a sorted list selected for display.
type Window struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether index i falls inside w.
func (w Window) Contains(i int) bool {
	return i >= w.Min && i < w.Max
}

// ComputeWindow sizes a window over a sorted list of length entries.
//
// maxResults is the configured window size: zero shows a single entry and a
// negative value shows all entries. loc is the index of this machine, or -1.
// A window around this machine is centered on it and shifted back inside the
// list when it would run past either end. Without this machine the window
// starts at zero and is empty when maxResults is zero.
func ComputeWindow(length, loc, maxResults int) Window {
	size := maxResults
	switch {
	case size == 0:
		size = 1
	case size < 0:
		size = length
	}

	if loc < 0 {
		if maxResults == 0 {
			return Window{}
		}
		return Window{Min: 0, Max: size}
	}

	w := Window{Min: loc - size/2}
	w.Max = w.Min + size
	switch {
	case w.Min < 0:
		w = Window{Min: 0, Max: min(size, length)}
	case w.Max > length:
		w = Window{Min: max(length-size, 0), Max: length}
	}
	return w
}
