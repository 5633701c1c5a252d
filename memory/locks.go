package memory

import "sync"

// Locks serializes the read-modify-write of a match's global arena when
// several turns for the same match may be decided at once. Turns for
// different matches do not block each other.
type Locks struct {
	mu      sync.Mutex
	matches map[string]*matchLock
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

// Do runs fn while holding the lock for matchID. An empty matchID is not
// serialized.
func (l *Locks) Do(matchID string, fn func() error) error {
	if matchID == "" {
		return fn()
	}

	l.mu.Lock()
	if l.matches == nil {
		l.matches = make(map[string]*matchLock)
	}
	m, ok := l.matches[matchID]
	if !ok {
		m = &matchLock{}
		l.matches[matchID] = m
	}
	m.refs++
	l.mu.Unlock()

	m.mu.Lock()
	defer func() {
		m.mu.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.matches, matchID)
		}
		l.mu.Unlock()
	}()
	return fn()
}

// Active returns the number of matches with a turn in flight.
func (l *Locks) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.matches)
}
