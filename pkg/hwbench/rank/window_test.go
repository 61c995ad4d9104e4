package rank

import "testing"

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		loc        int
		maxResults int
		want       Window
	}{
		{name: "centered", length: 21, loc: 10, maxResults: 5, want: Window{8, 13}},
		{name: "clamped to length", length: 5, loc: 0, maxResults: 10, want: Window{0, 5}},
		{name: "clamped at start", length: 20, loc: 1, maxResults: 6, want: Window{0, 6}},
		{name: "clamped at end", length: 20, loc: 19, maxResults: 6, want: Window{14, 20}},
		{name: "end clamp with short list", length: 3, loc: 2, maxResults: 10, want: Window{0, 3}},
		{name: "zero shows one", length: 10, loc: 4, maxResults: 0, want: Window{4, 5}},
		{name: "negative shows all", length: 7, loc: 3, maxResults: -1, want: Window{0, 7}},
		{name: "absent with size", length: 10, loc: -1, maxResults: 4, want: Window{0, 4}},
		{name: "absent with zero", length: 10, loc: -1, maxResults: 0, want: Window{0, 0}},
		{name: "absent shows all", length: 6, loc: -1, maxResults: -1, want: Window{0, 6}},
		{name: "absent beyond length", length: 2, loc: -1, maxResults: 5, want: Window{0, 5}},
		{name: "empty list", length: 0, loc: -1, maxResults: 3, want: Window{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWindow(tt.length, tt.loc, tt.maxResults)
			if got != tt.want {
				t.Errorf("ComputeWindow(%d, %d, %d) = %+v, want %+v", tt.length, tt.loc, tt.maxResults, got, tt.want)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Min: 2, Max: 4}
	for i, want := range []bool{false, false, true, true, false} {
		if got := w.Contains(i); got != want {
			t.Errorf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
}
