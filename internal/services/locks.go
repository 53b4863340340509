package services

import "sync"

// userLocks hands out one mutex per user id.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: map[string]*sync.Mutex{}}
}

// lock blocks until the user's mutex is held and returns its unlock.
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.m[userID]
	if !ok {
		m = &sync.Mutex{}
		l.m[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
