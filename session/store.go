// Package session holds per-user search state between a query and the
// button presses that follow it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m3rciful/tunebot/core/logger"
	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/metrics"
	"log/slog"
)

// ErrNotFound signals that the user has no active session. This is a normal
// state (surfaced to the user as "session expired"), not a fault.
var ErrNotFound = errors.New("session: not found")

// Session ties a user's query to its ordered results and current page.
// The track list is fixed at creation; only Page changes afterwards.
type Session struct {
	UserID int64
	Query  string
	Tracks []media.Track
	Page   int
}

type entry struct {
	mu      sync.Mutex
	sess    Session
	touched time.Time
}

// Store maps each user to at most one Session. A new search replaces the
// previous session wholesale. Entries expire after the configured TTL.
//
// The outer RWMutex guards the map; each entry carries its own mutex so
// read-modify-write page mutations for one user are serialized even under
// rapid double input, without blocking other users.
type Store struct {
	mu       sync.RWMutex
	entries  map[int64]*entry
	ttl      time.Duration
	pageSize int
}

// NewStore builds an empty store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Store{
		entries:  make(map[int64]*entry),
		ttl:      ttl,
		pageSize: pageSize,
	}
}

// PageSize returns the configured page size.
func (s *Store) PageSize() int { return s.pageSize }

// Put creates a fresh session at page 0, atomically replacing any prior
// session for that user.
func (s *Store) Put(userID int64, query string, tracks []media.Track) Session {
	sess := Session{
		UserID: userID,
		Query:  query,
		Tracks: tracks,
		Page:   0,
	}

	s.mu.Lock()
	s.entries[userID] = &entry{sess: sess, touched: time.Now()}
	size := len(s.entries)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(size))
	logger.SESS.Debug("session created",
		slog.String("event", "session.put"),
		slog.Int64("user_id", userID),
		slog.Int("count", len(tracks)),
	)
	return sess
}

// Get returns a copy of the user's session. Absence means the session never
// existed or has expired.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s.expired(e) {
		s.remove(userID, e)
		return Session{}, false
	}
	return e.sess, true
}

// MutatePage adjusts the current page by delta, clamped so it never goes
// negative and never advances past the last non-empty page. The boolean
// reports whether the page actually moved; a clamped no-op returns false.
// Returns ErrNotFound if the user has no active session.
func (s *Store) MutatePage(userID int64, delta int) (Session, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s.expired(e) {
		s.remove(userID, e)
		return Session{}, false, ErrNotFound
	}

	page := e.sess.Page + delta
	if page < 0 {
		page = 0
	}
	if max := s.maxPage(len(e.sess.Tracks)); page > max {
		page = max
	}
	moved := page != e.sess.Page
	e.sess.Page = page
	e.touched = time.Now()
	return e.sess, moved, nil
}

// Delete removes the user's session if present.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	delete(s.entries, userID)
	size := len(s.entries)
	s.mu.Unlock()
	metrics.ActiveSessions.Set(float64(size))
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RunJanitor periodically evicts expired sessions until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logger.SESS.Debug("sessions evicted",
					slog.String("event", "session.sweep"),
					slog.Int("count", n),
				)
			}
		}
	}
}

func (s *Store) sweep() int {
	now := time.Now()
	s.mu.Lock()
	removed := 0
	for userID, e := range s.entries {
		if now.Sub(e.touched) > s.ttl {
			delete(s.entries, userID)
			removed++
		}
	}
	size := len(s.entries)
	s.mu.Unlock()
	if removed > 0 {
		metrics.ActiveSessions.Set(float64(size))
	}
	return removed
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && time.Since(e.touched) > s.ttl
}

func (s *Store) remove(userID int64, e *entry) {
	s.mu.Lock()
	if cur, ok := s.entries[userID]; ok && cur == e {
		delete(s.entries, userID)
	}
	size := len(s.entries)
	s.mu.Unlock()
	metrics.ActiveSessions.Set(float64(size))
}

func (s *Store) maxPage(total int) int {
	if total <= 0 {
		return 0
	}
	return (total - 1) / s.pageSize
}
