package parallel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		end      int
		threads  int
		wantUsed int
		want     []Partition
	}{
		{
			name:     "remainder goes to last",
			start:    0,
			end:      10,
			threads:  4,
			wantUsed: 4,
			want:     []Partition{{0, 2}, {2, 4}, {4, 6}, {6, 10}},
		},
		{
			name:     "even split",
			start:    10,
			end:      20,
			threads:  5,
			wantUsed: 5,
			want:     []Partition{{10, 12}, {12, 14}, {14, 16}, {16, 18}, {18, 20}},
		},
		{
			name:     "more threads than items",
			start:    0,
			end:      3,
			threads:  8,
			wantUsed: 3,
			want:     []Partition{{0, 1}, {1, 2}, {2, 3}},
		},
		{
			name:     "single thread",
			start:    5,
			end:      9,
			threads:  1,
			wantUsed: 1,
			want:     []Partition{{5, 9}},
		},
		{
			name:     "huge thread hint",
			start:    0,
			end:      2,
			threads:  1_000_000_000,
			wantUsed: 2,
			want:     []Partition{{0, 1}, {1, 2}},
		},
		{name: "empty range", start: 4, end: 4, threads: 4, wantUsed: 0},
		{name: "negative threads", start: 0, end: 10, threads: -3, wantUsed: 0},
		{name: "inverted range", start: 9, end: 4, threads: 4, wantUsed: 0},
		{name: "no threads", start: 0, end: 10, threads: 0, wantUsed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, used := Plan(tt.start, tt.end, tt.threads)
			assert.Equal(t, tt.wantUsed, used)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanCoverage(t *testing.T) {
	for start := 0; start < 4; start++ {
		for end := start + 1; end < 40; end++ {
			for threads := 1; threads <= 12; threads++ {
				parts, used := Plan(start, end, threads)
				if used < 1 || len(parts) != used {
					t.Fatalf("Plan(%d, %d, %d): used=%d parts=%d", start, end, threads, used, len(parts))
				}
				if (end-start)/used < 1 {
					t.Fatalf("Plan(%d, %d, %d): partition size below one", start, end, threads)
				}

				seen := make(map[int]int)
				next := start
				for _, p := range parts {
					if p.Start != next {
						t.Fatalf("Plan(%d, %d, %d): gap or overlap at %d", start, end, threads, p.Start)
					}
					for i := p.Start; i <= p.Last(); i++ {
						seen[i]++
					}
					next = p.End
				}
				if parts[len(parts)-1].Last() != end-1 {
					t.Fatalf("Plan(%d, %d, %d): last inclusive end = %d", start, end, threads, parts[len(parts)-1].Last())
				}
				for i := start; i < end; i++ {
					if seen[i] != 1 {
						t.Fatalf("Plan(%d, %d, %d): index %d covered %d times", start, end, threads, i, seen[i])
					}
				}
			}
		}
	}
}

func TestPartitionBounds(t *testing.T) {
	p := Partition{Start: 6, End: 10}
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, 9, p.Last())
}
