package memstore

import (
	"errors"

	"github.com/idilsaglam/tasks/internal/store"
)

// In-memory slot. Nothing survives the process; used by tests and by
// the CLI's memory backend.

var ErrWriteDisabled = errors.New("memstore: writes disabled")

type Store struct {
	data map[string][]byte

	// FailWrites makes every Write fail with ErrWriteDisabled.
	FailWrites bool
	Writes     int
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (m *Store) Read(key string) ([]byte, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, store.ErrNoSnapshot
	}
	return append([]byte(nil), b...), nil
}

func (m *Store) Write(key string, data []byte) error {
	if m.FailWrites {
		return ErrWriteDisabled
	}
	m.data[key] = append([]byte(nil), data...)
	m.Writes++
	return nil
}

// Put seeds a raw value, bypassing FailWrites.
func (m *Store) Put(key string, data []byte) {
	m.data[key] = append([]byte(nil), data...)
}
