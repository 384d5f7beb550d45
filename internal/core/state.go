package core

// state.go holds the per-column sort state machine.
//
// Each column cycles none -> asc -> desc -> none. At most one column carries
// a direction other than none. SortState is immutable: Activate returns a new
// state and leaves the receiver untouched, so a View can keep rendering an old
// state while a new one is computed.

// SortState maps column names to their current sort direction.
// The zero value is valid and reports DirNone for every column.
type SortState struct {
	dirs map[string]Direction
}

// NewSortState returns a state with every column set to DirNone.
func NewSortState(columns []string) SortState {
	dirs := make(map[string]Direction, len(columns))
	for _, c := range columns {
		dirs[c] = DirNone
	}
	return SortState{dirs: dirs}
}

// Direction returns the direction of column. Unseen columns report DirNone.
func (s SortState) Direction(column string) Direction {
	if d, ok := s.dirs[column]; ok && d != "" {
		return d
	}
	return DirNone
}

// Activate advances column to its next direction and resets every other
// column to DirNone. It returns the new state and the direction to apply.
// Columns never seen before start from DirNone.
func (s SortState) Activate(column string) (SortState, Direction) {
	next := s.Direction(column).Next()

	dirs := make(map[string]Direction, len(s.dirs)+1)
	for c := range s.dirs {
		dirs[c] = DirNone
	}
	dirs[column] = next

	return SortState{dirs: dirs}, next
}

// Active returns the column with a non-none direction, if any.
func (s SortState) Active() (string, Direction, bool) {
	for c, d := range s.dirs {
		if d == DirAsc || d == DirDesc {
			return c, d, true
		}
	}
	return "", DirNone, false
}

// Map returns a copy of the state for rendering.
func (s SortState) Map() map[string]Direction {
	out := make(map[string]Direction, len(s.dirs))
	for c, d := range s.dirs {
		out[c] = d
	}
	return out
}
