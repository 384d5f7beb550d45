package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/tablesort/internal/logging"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown or evicted session ids.
	ErrSessionNotFound = errors.New("dataset session not found")

	// ErrUnknownColumn is returned when a header activation names a column
	// the dataset does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrTooManyRows is returned when a table exceeds Options.MaxRows.
	ErrTooManyRows = errors.New("too many rows")
)

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 100
)

// Options configures a Service. Zero values fall back to defaults;
// MaxRows of zero means no row limit.
type Options struct {
	SessionTTL  time.Duration
	MaxSessions int
	MaxRows     int
}

// Service holds loaded datasets in memory, keyed by session id.
type Service struct {
	opts Options
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a new Service instance.
func NewService(opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	return &Service{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Load resolves raw into a dataset and registers it under a new session id.
// The session starts with every column unsorted.
func (s *Service) Load(ctx context.Context, name string, raw RawTable) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.opts.MaxRows > 0 && len(raw.Rows) > s.opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds limit of %d", ErrTooManyRows, len(raw.Rows), s.opts.MaxRows)
	}

	ds, err := BuildDataset(raw)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	sess := newSession(uuid.New().String(), name, ds, s.now())

	s.mu.Lock()
	for len(s.sessions) >= s.opts.MaxSessions {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	activeSessions.Set(float64(count))
	datasetsLoaded.Inc()
	rowsLoaded.Add(float64(len(ds.Rows)))

	logging.WithFields(ctx, "session_id", sess.ID, "name", name).Info("dataset loaded",
		"columns", len(ds.Columns),
		"rows", len(ds.Rows),
		"ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
	)
	return sess, nil
}

// Session returns the session with the given id and marks it as used.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch(s.now())
	return sess, nil
}

// List returns a summary of every session, newest first.
func (s *Service) List() []SessionInfo {
	s.mu.RLock()
	infos := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sess.Info())
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].LoadedAt.Equal(infos[j].LoadedAt) {
			return infos[i].LoadedAt.After(infos[j].LoadedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// View returns the session's rows ordered by its current sort state.
func (s *Service) View(id string) (View, error) {
	sess, err := s.Session(id)
	if err != nil {
		return View{}, err
	}
	return sess.view(sess.State()), nil
}

// Activate handles a column header activation: it advances the column's
// direction, resets every other column, and re-sorts the original rows.
func (s *Service) Activate(ctx context.Context, id, column string) (View, error) {
	sess, err := s.Session(id)
	if err != nil {
		return View{}, err
	}
	if !sess.dataset.HasColumn(column) {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	state, dir := sess.activate(column, s.now())
	sortActivations.WithLabelValues(string(dir)).Inc()

	logging.WithFields(ctx, "session_id", id).Debug("column activated",
		"column", column,
		"direction", dir,
	)
	return sess.render(state, column, dir), nil
}

// Sorted orders the session's original rows by column without touching its
// sort state. The returned view carries the state the sort would produce.
func (s *Service) Sorted(id, column string, dir Direction) (View, error) {
	sess, err := s.Session(id)
	if err != nil {
		return View{}, err
	}
	if !sess.dataset.HasColumn(column) {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	state := NewSortState(sess.dataset.Columns)
	if dir == DirAsc || dir == DirDesc {
		state.dirs[column] = dir
	} else {
		column = ""
		dir = DirNone
	}
	return sess.render(state, column, dir), nil
}

// Drop removes a session.
func (s *Service) Drop(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	activeSessions.Set(float64(count))
	sessionsEvicted.WithLabelValues("dropped").Inc()
	return nil
}

// Count returns the number of sessions held.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// evictOldestLocked removes the least recently used session.
// The caller must hold s.mu.
func (s *Service) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		seen := sess.idleSince()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.sessions, oldestID)
	sessionsEvicted.WithLabelValues("capacity").Inc()
	slog.Info("session evicted", "session_id", oldestID, "reason", "capacity")
}

// EvictExpired removes sessions idle for longer than the configured TTL and
// returns how many were removed.
func (s *Service) EvictExpired() int {
	cutoff := s.now().Add(-s.opts.SessionTTL)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		activeSessions.Set(float64(count))
		sessionsEvicted.WithLabelValues("expired").Add(float64(removed))
	}
	return removed
}

// StartJanitor periodically evicts expired sessions until ctx is cancelled.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	slog.Info("session janitor started",
		"ttl", s.opts.SessionTTL,
		"interval", interval,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := s.EvictExpired(); n > 0 {
				slog.Info("expired sessions evicted", "count", n, "remaining", s.Count())
			}
		}
	}
}
