package storage

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Memory is an in-process Storage implementation. It runs records through
// the same codec as the persistent backends so tests exercise the real
// decode path.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	log  *zap.Logger
}

// NewMemory creates an empty in-memory storage.
func NewMemory(log *zap.Logger) *Memory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{
		data: make(map[string][]byte),
		log:  log,
	}
}

// Save replaces the stored collection with records.
func (m *Memory) Save(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := make(map[string][]byte, len(records))
	for _, r := range records {
		data, err := encodeRecord(r)
		if err != nil {
			return err
		}
		next[r.Name] = data
	}

	m.mu.Lock()
	m.data = next
	m.mu.Unlock()

	return nil
}

// Load returns all readable records in name order.
func (m *Memory) Load(ctx context.Context) ([]Record, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var records []Record
	skipped := 0

	for name, data := range m.data {
		rec, err := decodeRecord(data)
		if err != nil || !rec.Valid() {
			skipped++
			m.log.Warn("skipping malformed profile record",
				zap.String("name", name),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	return records, skipped, nil
}

// Close is a no-op for in-memory storage.
func (m *Memory) Close() error { return nil }

// PutRaw stores raw bytes under name, bypassing the codec. Intended for
// corruption tests.
func (m *Memory) PutRaw(name string, data []byte) {
	m.mu.Lock()
	m.data[name] = append([]byte(nil), data...)
	m.mu.Unlock()
}
