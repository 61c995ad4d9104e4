package results

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no result is stored for a key.
var ErrNotFound = errors.New("result not found")

// DB persists benchmark results per machine in a Badger database.
type DB struct {
	db *badger.DB
}

// OpenDB opens or creates the database in dir.
func OpenDB(dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		if pid, ok := lockHolder(dir); ok {
			return nil, fmt.Errorf("%w by process %d", ErrLocked, pid)
		}
		return nil, fmt.Errorf("opening result database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Get returns the record stored for machine and benchmark.
func (d *DB) Get(machine, benchmark string) (Record, error) {
	var rec Record
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(machine, benchmark))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err = decodeRecord(val)
			return err
		})
	})
	return rec, err
}

// Put stores rec for machine and benchmark.
func (d *DB) Put(machine, benchmark string, rec Record) error {
	val, err := rec.encode()
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(machine, benchmark), val)
	})
}

// PutBatch stores several records of one machine with a single write batch.
func (d *DB) PutBatch(machine string, recs map[string]Record) error {
	wb := d.db.NewWriteBatch()
	defer wb.Cancel()

	for benchmark, rec := range recs {
		val, err := rec.encode()
		if err != nil {
			return fmt.Errorf("encoding record %q: %w", benchmark, err)
		}
		if err := wb.Set(makeKey(machine, benchmark), val); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Delete removes one record. Deleting a missing record is not an error.
func (d *DB) Delete(machine, benchmark string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeKey(machine, benchmark))
	})
}

// Scan returns every record stored for machine, keyed by benchmark name.
func (d *DB) Scan(machine string) (map[string]Record, error) {
	out := make(map[string]Record)
	prefix := makePrefix(machine)

	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			_, benchmark := splitKey(item.Key())
			err := item.Value(func(val []byte) error {
				rec, err := decodeRecord(val)
				if err != nil {
					return fmt.Errorf("decoding %q: %w", benchmark, err)
				}
				out[benchmark] = rec
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMachine removes every record of machine.
func (d *DB) DeleteMachine(machine string) (int, error) {
	return d.deleteWhere(makePrefix(machine), func(Record) bool { return true })
}

// Prune removes records of any machine last updated before cutoff.
func (d *DB) Prune(cutoff time.Time) (int, error) {
	return d.deleteWhere(nil, func(rec Record) bool { return rec.UpdatedAt.Before(cutoff) })
}

func (d *DB) deleteWhere(prefix []byte, match func(Record) bool) (int, error) {
	var keys [][]byte
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rec, err := decodeRecord(val)
				if err != nil || match(rec) {
					keys = append(keys, item.KeyCopy(nil))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	wb := d.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
