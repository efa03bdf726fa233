// Package storage persists speaker profile records for the profile store.
//
// The store boundary is an ordered collection of records; implementations
// skip records they cannot decode and keep going, so a corrupt store
// degrades to whatever parsed successfully rather than failing.
package storage

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is the serialized form of one speaker profile.
type Record struct {
	Name        string    `msgpack:"name"`
	Average     []float64 `msgpack:"average"`
	Variance    []float64 `msgpack:"variance"`
	SampleCount int       `msgpack:"sample_count"`
	CreatedAt   time.Time `msgpack:"created_at"`
	UpdatedAt   time.Time `msgpack:"updated_at"`
}

// Valid reports whether the record is structurally usable: a non-empty
// name, a non-empty average vector, a variance vector of equal length,
// and a positive sample count.
func (r Record) Valid() bool {
	return r.Name != "" &&
		len(r.Average) > 0 &&
		len(r.Variance) == len(r.Average) &&
		r.SampleCount > 0
}

// Storage saves and loads the full ordered record collection.
type Storage interface {
	// Save replaces the stored collection with records.
	Save(ctx context.Context, records []Record) error

	// Load returns all readable records in name order. Undecodable
	// records are skipped, not errors; skipped reports how many were
	// dropped.
	Load(ctx context.Context) (records []Record, skipped int, err error)

	Close() error
}

func encodeRecord(r Record) ([]byte, error) {
	return msgpack.Marshal(r)
}

func decodeRecord(data []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}
