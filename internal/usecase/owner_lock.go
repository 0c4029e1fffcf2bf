package usecase

import "sync"

// OwnerLocks serializes mutating sequences per owner id inside one process.
// Entries are reference counted and dropped once nobody holds or waits on them.
type OwnerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func NewOwnerLocks() *OwnerLocks {
	return &OwnerLocks{locks: make(map[string]*ownerLock)}
}

// Lock blocks until ownerID is free and returns the matching unlock.
func (l *OwnerLocks) Lock(ownerID string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[ownerID]
	if !ok {
		entry = &ownerLock{}
		l.locks[ownerID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, ownerID)
			}
			l.mu.Unlock()
		})
	}
}

func (l *OwnerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
