package presence

import (
	"sync"
	"time"
)

// Registry holds the open session per user: at most one entry per user
// at any instant. Callers never see the map itself; all access goes
// through the two mark operations under a single mutex.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// MarkJoined opens a session for the user. A join always implies any
// prior open session is stale, so an existing entry is overwritten and
// the timer restarts.
func (r *Registry) MarkJoined(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = r.now()
}

// MarkLeft closes the user's session and returns its duration. The
// second return is false when no session was open, which is expected
// after a process restart or a duplicate leave event.
func (r *Registry) MarkLeft(userID string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	joinedAt, ok := r.sessions[userID]
	if !ok {
		return 0, false
	}
	delete(r.sessions, userID)
	return r.now().Sub(joinedAt), true
}
