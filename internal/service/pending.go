package service

import (
	"sync"
	"time"
)

type pendingEntry struct {
	compID    int64
	createdAt time.Time
}

// PendingJoins remembers which competition a user tried to join while
// ineligible, so a later confirmation callback that carries no competition
// id can still be resolved. A newer attempt supersedes the old one; the
// entry is cleared on successful confirmation and expired by the scheduler.
type PendingJoins struct {
	mu  sync.Mutex
	m   map[int64]pendingEntry
	now func() time.Time
}

func NewPendingJoins() *PendingJoins {
	return &PendingJoins{m: make(map[int64]pendingEntry), now: time.Now}
}

func (p *PendingJoins) Set(userID, compID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[userID] = pendingEntry{compID: compID, createdAt: p.now()}
}

func (p *PendingJoins) Get(userID int64) (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[userID]
	return e.compID, ok
}

func (p *PendingJoins) Clear(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, userID)
}

// Sweep drops entries older than ttl.
func (p *PendingJoins) Sweep(ttl time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := p.now().Add(-ttl)
	for id, e := range p.m {
		if e.createdAt.Before(cutoff) {
			delete(p.m, id)
		}
	}
}
