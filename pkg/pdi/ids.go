package pdi

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces action-item ids. key identifies the trigger and the
// originating evaluation, so two items from the same call never share an id.
type IDGenerator interface {
	NewID(key string) string
}

// Sequence appends a monotonic counter to the key. Safe for concurrent use.
type Sequence struct {
	n atomic.Uint64
}

// NewSequence creates a counter-based generator starting at 1.
func NewSequence() (seq *Sequence) {
	seq = &Sequence{}
	return seq
}

// NewID returns "<key>-<n>".
func (s *Sequence) NewID(key string) (id string) {
	id = fmt.Sprintf("%s-%d", key, s.n.Add(1))
	return id
}

// UUIDGenerator appends a random UUID to the key.
type UUIDGenerator struct{}

// NewID returns "<key>-<uuid>".
func (UUIDGenerator) NewID(key string) (id string) {
	id = key + "-" + uuid.NewString()
	return id
}
