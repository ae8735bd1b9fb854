// Package assistant provides the restaurant chat assistant: a bounded,
// time-expiring conversation window per user and the completion call
// around it.
//
// Window state is held per process by default. A restart or a second
// replica silently resets every user's history; that is an accepted
// limitation of the design, not a bug. Deployments that want shared
// windows across replicas set REDIS_URL and get the Redis backend.
package assistant

import (
	"context"
	"sync"
	"time"
)

const (
	// MaxMessages is the fixed size of the sliding conversation window.
	MaxMessages = 4
	// InactivityTTL is how long an idle user's window is retained.
	InactivityTTL = 3 * time.Minute
	// sweepInterval is how often idle windows are evicted.
	sweepInterval = 60 * time.Second
)

// Turn is a single chat message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Windows stores per-user conversation windows. Append adds a turn,
// drops the oldest beyond MaxMessages, refreshes the inactivity clock
// and returns the window as it now stands.
type Windows interface {
	Append(ctx context.Context, userID int64, turn Turn) ([]Turn, error)
	Close() error
}

type memoryWindow struct {
	turns      []Turn
	lastActive time.Time
}

// MemoryWindows is the in-process Windows backend. A background sweep
// evicts windows whose owner has been idle past the threshold.
type MemoryWindows struct {
	mu      sync.Mutex
	windows map[int64]*memoryWindow
	max     int
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
}

func NewMemoryWindows() *MemoryWindows {
	m := &MemoryWindows{
		windows: make(map[int64]*memoryWindow),
		max:     MaxMessages,
		ttl:     InactivityTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

func (m *MemoryWindows) Append(_ context.Context, userID int64, turn Turn) ([]Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	window, ok := m.windows[userID]
	if !ok {
		window = &memoryWindow{}
		m.windows[userID] = window
	}
	window.turns = appendBounded(window.turns, turn, m.max)
	window.lastActive = m.now()

	out := make([]Turn, len(window.turns))
	copy(out, window.turns)
	return out, nil
}

func (m *MemoryWindows) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep(m.now())
		}
	}
}

// sweep evicts every window idle past the threshold. It holds the same
// lock as Append, so eviction never races a concurrent append.
func (m *MemoryWindows) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, window := range m.windows {
		if now.Sub(window.lastActive) > m.ttl {
			delete(m.windows, userID)
		}
	}
}

func (m *MemoryWindows) Close() error {
	close(m.done)
	return nil
}

// appendBounded keeps the most recent max-1 turns and adds the new one.
func appendBounded(turns []Turn, turn Turn, max int) []Turn {
	if len(turns) >= max {
		turns = turns[len(turns)-(max-1):]
	}
	next := make([]Turn, 0, len(turns)+1)
	next = append(next, turns...)
	return append(next, turn)
}
