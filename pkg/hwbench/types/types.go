// Package types provides core data types for the hwbench benchmark runner.
// It includes the measurement value produced by every benchmark, its compact
// text form shared with stored and remote result data, and progress snapshots
// used by live displays.
package types

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// NoRevision marks a value that carries no version or format tag.
const NoRevision = -1

// maxExtraLen bounds the free-form extra field accepted by Parse.
const maxExtraLen = 255

// Value is the outcome of one benchmark run.
//
// A Result below zero is reserved: it means the benchmark failed or was not run
// and must never be treated as a score.
type Value struct {
	// Result is the benchmark score. Whether higher is better depends on the benchmark.
	Result float64 `json:"result"`

	// ElapsedTime is the measured wall-clock duration in seconds.
	ElapsedTime float64 `json:"elapsed_time"`

	// ThreadsUsed is the number of workers that took part in the run.
	ThreadsUsed int `json:"threads_used"`

	// Revision is the benchmark version, or NoRevision.
	Revision int `json:"revision"`

	// Extra is short free-form text attached by the benchmark.
	Extra string `json:"extra,omitempty"`
}

// Empty returns the canonical value of a benchmark that has not produced anything yet.
func Empty() Value {
	return Value{Revision: NoRevision}
}

// Failed returns the sentinel value of a benchmark that could not produce a result.
func Failed() Value {
	v := Empty()
	v.Result = -1
	return v
}

// Valid reports whether v holds a usable (non-sentinel) result.
func (v Value) Valid() bool {
	return v.Result >= 0
}

// Ran reports whether v is a positive result that may take part in ranking.
func (v Value) Ran() bool {
	return v.Result > 0
}

// Elapsed returns ElapsedTime as a time.Duration.
func (v Value) Elapsed() time.Duration {
	return time.Duration(v.ElapsedTime * float64(time.Second))
}

// String formats v as "result; elapsed; threads[; revision[; extra]]".
// Revision is written when it is set or when extra text follows it.
// Numbers always use a decimal point regardless of locale.
func (v Value) String() string {
	var b strings.Builder
	b.WriteString(formatFloat(v.Result))
	b.WriteString("; ")
	b.WriteString(formatFloat(v.ElapsedTime))
	b.WriteString("; ")
	b.WriteString(strconv.Itoa(v.ThreadsUsed))
	if v.Revision >= 0 || v.Extra != "" {
		b.WriteString("; ")
		b.WriteString(strconv.Itoa(v.Revision))
	}
	if v.Extra != "" {
		b.WriteString("; ")
		b.WriteString(v.Extra)
	}
	return b.String()
}

// Parse reads the text form produced by String. A decimal comma is accepted in
// the numeric fields. Input with fewer than three readable leading fields yields
// Empty(); missing optional fields keep their Empty() defaults.
func Parse(s string) Value {
	v := Empty()
	fields := strings.SplitN(s, ";", 5)
	if len(fields) < 3 {
		return v
	}

	result, ok := parseDecimal(fields[0])
	if !ok {
		return v
	}
	elapsed, ok := parseDecimal(fields[1])
	if !ok {
		return v
	}
	threads, ok := parseInt(fields[2])
	if !ok {
		return v
	}
	v.Result = result
	v.ElapsedTime = elapsed
	v.ThreadsUsed = threads

	if len(fields) < 4 {
		return v
	}
	rev, ok := parseInt(fields[3])
	if !ok {
		return v
	}
	v.Revision = rev

	if len(fields) < 5 {
		return v
	}
	extra := strings.TrimLeft(fields[4], " \t")
	if i := strings.IndexAny(extra, "\r\n;|"); i >= 0 {
		extra = extra[:i]
	}
	if len(extra) > maxExtraLen {
		cut := maxExtraLen
		for cut > 0 && !utf8.RuneStart(extra[cut]) {
			cut--
		}
		extra = extra[:cut]
	}
	v.Extra = extra
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// parseDecimal reads the leading number of field. The first comma is taken
// as the decimal point and anything after the number is ignored, so
// "1.234,5" reads as 1.234.
func parseDecimal(field string) (float64, bool) {
	field = strings.Replace(strings.TrimSpace(field), ",", ".", 1)
	end := numberPrefix(field)
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(field[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numberPrefix returns the length of the leading [+-]digits[.digits] run of s,
// or 0 when it holds no digit.
func numberPrefix(s string) int {
	i, digits := 0, 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	return i
}

func parseInt(field string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RunProgress reports the live state of a running benchmark.
type RunProgress struct {
	// Benchmark is the name of the benchmark being run.
	Benchmark string `json:"benchmark"`

	// Threads is the resolved worker count.
	Threads int `json:"threads"`

	// Completions is the number of workload iterations finished so far.
	Completions int64 `json:"completions"`

	// Elapsed is the time since the workers were launched.
	Elapsed time.Duration `json:"elapsed"`

	// Budget is the configured time box, zero for range-based runs.
	Budget time.Duration `json:"budget,omitempty"`
}

// Fraction returns how much of the time box has passed, in [0, 1].
// Range-based runs report 0.
func (p RunProgress) Fraction() float64 {
	if p.Budget <= 0 {
		return 0
	}
	f := float64(p.Elapsed) / float64(p.Budget)
	return min(max(f, 0), 1)
}

// FormatScore renders a score with thousands separators and two decimals.
func FormatScore(f float64) string {
	if f < 0 {
		return "failed"
	}
	return humanize.CommafWithDigits(f, 2)
}

// FormatBytes converts a byte count to a human-readable IEC string.
func FormatBytes(n uint64) string {
	return humanize.IBytes(n)
}
