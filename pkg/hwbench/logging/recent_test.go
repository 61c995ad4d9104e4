package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecentWraps(t *testing.T) {
	r := NewRecent(3)
	for i := range 5 {
		r.Add(Entry{Message: fmt.Sprint(i)})
	}

	assert.Equal(t, 3, r.Len())

	var msgs []string
	for _, e := range r.Last(0) {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"2", "3", "4"}, msgs)

	last := r.Last(1)
	assert.Equal(t, "4", last[0].Message)
}

func TestRecentPartial(t *testing.T) {
	r := NewRecent(0)
	r.Add(Entry{Message: "a"})
	r.Add(Entry{Message: "b"})

	assert.Equal(t, 2, r.Len())
	got := r.Last(10)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Message)
}
