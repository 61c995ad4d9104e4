package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(bs []*Benchmark) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}

func TestBuiltin(t *testing.T) {
	r := Builtin()
	assert.Equal(t, []string{
		"CPU Fibonacci",
		"CPU N-Queens",
		"CPU Zlib",
		"CPU CryptoHash",
		"CPU xxHash",
		"FPU FFT",
		"Storage Read",
	}, names(r.List()))

	b, ok := r.Get("FPU FFT")
	require.True(t, ok)
	assert.False(t, b.Descending)

	_, ok = r.Get("GPU Drawing")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Fibonacci()))
	assert.ErrorIs(t, r.Register(Fibonacci()), ErrDuplicate)
	assert.Error(t, r.Register(&Benchmark{Name: "no run"}))
}

func TestSelect(t *testing.T) {
	r := Builtin()

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"all", nil, names(r.List())},
		{"exact", []string{"CPU Zlib"}, []string{"CPU Zlib"}},
		{"case insensitive", []string{"cpu zlib"}, []string{"CPU Zlib"}},
		{"prefix", []string{"fpu*"}, []string{"FPU FFT"}},
		{"suffix", []string{"*hash"}, []string{"CPU CryptoHash", "CPU xxHash"}},
		{"registration order", []string{"storage*", "cpu f*"}, []string{"CPU Fibonacci", "Storage Read"}},
		{"overlap", []string{"cpu*", "*zlib"}, []string{"CPU Fibonacci", "CPU N-Queens", "CPU Zlib", "CPU CryptoHash", "CPU xxHash"}},
		{"alternatives", []string{"{fpu,storage}*"}, []string{"FPU FFT", "Storage Read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Select(tt.patterns...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestSelectErrors(t *testing.T) {
	r := Builtin()

	_, err := r.Select("cpu*", "gpu*")
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = r.Select("[")
	assert.Error(t, err)
}
