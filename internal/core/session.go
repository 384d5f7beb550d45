package core

import (
	"sync"
	"time"
)

// Session is one loaded dataset together with its sort state.
//
// The dataset is immutable after load. Only the sort state changes, and it
// is replaced wholesale on every activation.
type Session struct {
	ID       string
	Name     string
	LoadedAt time.Time

	dataset *Dataset
	aggs    Aggregations

	mu       sync.Mutex
	state    SortState
	lastSeen time.Time
}

// SessionInfo is the listing summary of a session.
type SessionInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Columns  []string  `json:"columns"`
	RowCount int       `json:"rowCount"`
	LoadedAt time.Time `json:"loadedAt"`
}

// View is what the table renders: the ordered rows plus the state that
// produced the ordering. Positions[i] is the ingestion index of Rows[i], so
// row selections can follow rows across re-sorts.
type View struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Columns      []string             `json:"columns"`
	Rows         []Row                `json:"rows"`
	Positions    []int                `json:"positions"`
	State        map[string]Direction `json:"state"`
	ActiveColumn string               `json:"activeColumn,omitempty"`
	Direction    Direction            `json:"direction"`
	Aggregations Aggregations         `json:"aggregations"`
}

func newSession(id, name string, ds *Dataset, now time.Time) *Session {
	return &Session{
		ID:       id,
		Name:     name,
		LoadedAt: now,
		dataset:  ds,
		aggs:     Aggregate(ds.Rows, ds.Columns),
		state:    NewSortState(ds.Columns),
		lastSeen: now,
	}
}

// Dataset returns the session's dataset. Callers must not modify it.
func (s *Session) Dataset() *Dataset { return s.dataset }

// State returns the current sort state.
func (s *Session) State() SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Info returns the listing summary.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:       s.ID,
		Name:     s.Name,
		Columns:  s.dataset.Columns,
		RowCount: len(s.dataset.Rows),
		LoadedAt: s.LoadedAt,
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// activate runs the state machine for column and stores the new state.
func (s *Session) activate(column string, now time.Time) (SortState, Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, dir := s.state.Activate(column)
	s.state = next
	s.lastSeen = now
	return next, dir
}

// view orders the original rows according to state.
func (s *Session) view(state SortState) View {
	column, dir, _ := state.Active()
	return s.render(state, column, dir)
}

func (s *Session) render(state SortState, column string, dir Direction) View {
	start := time.Now()
	order := Order(s.dataset.Rows, column, dir)
	sortDuration.Observe(time.Since(start).Seconds())

	return View{
		ID:           s.ID,
		Name:         s.Name,
		Columns:      s.dataset.Columns,
		Rows:         pick(s.dataset.Rows, order),
		Positions:    order,
		State:        state.Map(),
		ActiveColumn: column,
		Direction:    dir,
		Aggregations: s.aggs,
	}
}
