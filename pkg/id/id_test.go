package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsSortable(t *testing.T) {
	prev := New()
	assert.Len(t, prev, 26)

	for i := 0; i < 1000; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestNewIsUniqueUnderConcurrency(t *testing.T) {
	const workers, perWorker = 16, 200

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := New()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
