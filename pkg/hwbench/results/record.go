package results

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// keySeparator joins machine id and benchmark name in database keys.
const keySeparator = '\x00'

// Record is a stored measurement with the time it was taken.
type Record struct {
	Value     types.Value
	UpdatedAt time.Time
}

// wireRecord keeps the value in its text form so stored data stays readable
// by anything that understands result strings.
type wireRecord struct {
	Text      string
	UpdatedAt int64
}

func (r Record) encode() ([]byte, error) {
	var buf bytes.Buffer
	w := wireRecord{Text: r.Value.String(), UpdatedAt: r.UpdatedAt.UnixNano()}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (Record, error) {
	var w wireRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return Record{}, err
	}
	return Record{Value: types.Parse(w.Text), UpdatedAt: time.Unix(0, w.UpdatedAt)}, nil
}

// makeKey builds "<machine>\x00<benchmark>".
func makeKey(machine, benchmark string) []byte {
	return append(makePrefix(machine), benchmark...)
}

func makePrefix(machine string) []byte {
	return []byte(machine + string(keySeparator))
}

func splitKey(key []byte) (machine, benchmark string) {
	idx := bytes.IndexByte(key, keySeparator)
	if idx < 0 {
		return string(key), ""
	}
	return string(key[:idx]), string(key[idx+1:])
}
