package parallel

// Partition is a half-open index range [Start, End) owned by one worker.
type Partition struct {
	Start int
	End   int
}

// Len returns the number of indices in p.
func (p Partition) Len() int {
	return p.End - p.Start
}

// Last returns the inclusive end index handed to range functions.
func (p Partition) Last() int {
	return p.End - 1
}

// Plan splits [start, end) into contiguous partitions for up to threads workers.
//
// When there are fewer items than workers, the worker count is reduced until
// every partition holds at least one item. Partitions hold (end-start)/used
// items each and the last one absorbs the remainder. used is zero, and parts
// empty, when the range is empty or threads is not positive.
func Plan(start, end, threads int) (parts []Partition, used int) {
	n := end - start
	if n <= 0 {
		return nil, 0
	}

	used = min(threads, n)
	if used <= 0 {
		return nil, 0
	}

	per := n / used
	parts = make([]Partition, used)
	for i := range parts {
		s := start + i*per
		parts[i] = Partition{Start: s, End: s + per}
	}
	parts[used-1].End = end

	return parts, used
}
