// Package id generates ULID run identifiers.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu sync.Mutex

	// Monotonic entropy keeps IDs minted within the same millisecond
	// lexicographically increasing, so journal listings and SQLite
	// indexes stay in creation order.
	entropy io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID string (time-sortable identifier).
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		// Only possible if the clock or entropy source fails.
		panic(err)
	}
	return id.String()
}
