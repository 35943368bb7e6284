package store

import "errors"

// DefaultKey names the slot the task snapshot lives in.
const DefaultKey = "tasks"

// ErrNoSnapshot is returned by Slot.Read when nothing was ever written.
var ErrNoSnapshot = errors.New("no snapshot")

// Slot is a key-value cell holding one serialized snapshot per key.
// Writes replace the whole value.
type Slot interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}
