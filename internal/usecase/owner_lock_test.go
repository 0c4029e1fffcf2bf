package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOwnerLocks_SerializesSameOwner(t *testing.T) {
	locks := NewOwnerLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("u1")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.size())
}

func TestOwnerLocks_DifferentOwnersDoNotBlock(t *testing.T) {
	locks := NewOwnerLocks()
	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another owner blocked")
	}
}

func TestOwnerLocks_UnlockIsIdempotent(t *testing.T) {
	locks := NewOwnerLocks()
	unlock := locks.Lock("a")
	unlock()
	unlock()
	assert.Equal(t, 0, locks.size())
}
