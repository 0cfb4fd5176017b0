package auth

import (
	"sync"
	"time"

	"hublens-backend/domain/core/aggregates"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
)

// SelectionTarget identifies one version/view pair picked in the navigation
// tree
type SelectionTarget struct {
	VersionURN valueobjects.VersionURN `json:"versionUrn"`
	ViewGUID   string                  `json:"viewGuid"`
}

// SelectionResult is the applied outcome of a poll-and-merge cycle. Either
// Tree/Records are set or Err is.
type SelectionResult struct {
	Target  SelectionTarget
	Tree    []*entities.ObjectTreeNode
	Records []entities.PropertyRecord
	Err     error
}

// Session holds the per-browser-session state the explorer needs between
// requests: the lazy navigation tree and the active selection. Tokens are
// deliberately absent; credentials travel in cookies and exist server-side
// only for the duration of one request.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	tree      *aggregates.NavigationTree
	selGen    uint64
	selection *SelectionResult
}

// NewSession creates a session with an empty navigation tree
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		tree:      aggregates.NewNavigationTree(),
	}
}

// Tree returns the session's navigation tree
func (s *Session) Tree() *aggregates.NavigationTree {
	return s.tree
}

// BeginSelection registers a new active selection and returns its
// generation. Any cycle started earlier is superseded from this moment: its
// eventual outcome will fail the ApplySelection check and be discarded.
func (s *Session) BeginSelection() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selGen++
	return s.selGen
}

// ApplySelection stores a cycle's outcome if its generation is still the
// active one. It reports whether the result was applied; stale results are
// dropped without touching current state.
func (s *Session) ApplySelection(gen uint64, result *SelectionResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.selGen {
		return false
	}
	s.selection = result
	return true
}

// CurrentSelection returns the last applied selection result, or nil when
// nothing has been selected yet
func (s *Session) CurrentSelection() *SelectionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection
}
