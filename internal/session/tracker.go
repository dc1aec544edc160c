package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// SessionTTL is how long an idle wizard session survives before the
	// background cleanup discards it.
	SessionTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = 1 * time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrStepNotAllowed rejects a wizard move outside the forward path.
	ErrStepNotAllowed = errors.New("wizard step not allowed")
)

// Tracker keeps per-user wizard sessions in memory with TTL expiry.
type Tracker struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	ttl time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewTracker creates a tracker and starts its background cleanup goroutine.
func NewTracker() *Tracker {
	t := &Tracker{
		sessions:    make(map[int64]*Session),
		ttl:         SessionTTL,
		stopCleanup: make(chan struct{}),
	}

	t.wg.Add(1)
	go t.cleanupLoop()

	return t
}

// cleanupLoop periodically discards sessions idle past their TTL
func (t *Tracker) cleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.expireSessions()
		case <-t.stopCleanup:
			return
		}
	}
}

func (t *Tracker) expireSessions() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-t.ttl)
	for userID, sess := range t.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(t.sessions, userID)
		}
	}
}

// Start opens a fresh session at the first wizard step, replacing any
// existing session for the user.
func (t *Tracker) Start(_ context.Context, userID int64) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess := &Session{
		UserID:    userID,
		Step:      StepSelectingProducts,
		UpdatedAt: time.Now(),
	}
	t.sessions[userID] = sess

	cp := *sess
	return &cp
}

// Get returns the user's current session.
func (t *Tracker) Get(_ context.Context, userID int64) (*Session, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sess, exists := t.sessions[userID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

// Advance moves the session to the next wizard step, applying mutate to the
// draft under the lock. Only forward moves from the step table are legal.
func (t *Tracker) Advance(_ context.Context, userID int64, next Step, mutate func(*Draft)) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, exists := t.sessions[userID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if !sess.Step.CanAdvance(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStepNotAllowed, sess.Step, next)
	}

	if mutate != nil {
		mutate(&sess.Draft)
	}
	sess.Step = next
	sess.UpdatedAt = time.Now()

	cp := *sess
	return &cp, nil
}

// Reset discards the user's session. Absent session is a no-op.
func (t *Tracker) Reset(_ context.Context, userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.sessions, userID)
}

// Close stops the background cleanup and waits for it to finish
func (t *Tracker) Close() error {
	close(t.stopCleanup)
	t.wg.Wait()
	return nil
}
