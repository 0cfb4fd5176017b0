package entities

import (
	"hublens-backend/domain/core/valueobjects"
)

// NodeKind identifies what a navigation node represents. Each kind carries
// exactly the ancestor identifiers it needs in NodeRef, so no identifier is
// ever parsed back out of a composite key.
type NodeKind string

const (
	// KindRoot is the invisible root whose children are the hubs
	KindRoot    NodeKind = "root"
	KindHub     NodeKind = "hub"
	KindProject NodeKind = "project"
	KindFolder  NodeKind = "folder"
	KindItem    NodeKind = "item"
	KindVersion NodeKind = "version"
	KindView    NodeKind = "view"
	// KindError is a synthetic inert leaf shown when a version's view
	// listing failed
	KindError NodeKind = "error"
)

// NodeState is the lazy-loading lifecycle of a navigation node
type NodeState int

const (
	StateUnexpanded NodeState = iota
	StateLoading
	StateExpanded
	StateCollapsed
	StateLeafError
)

// String returns the state name for logging
func (s NodeState) String() string {
	switch s {
	case StateUnexpanded:
		return "unexpanded"
	case StateLoading:
		return "loading"
	case StateExpanded:
		return "expanded"
	case StateCollapsed:
		return "collapsed"
	case StateLeafError:
		return "leaf-error"
	}
	return "unknown"
}

// NodeRef carries the ancestor identifiers a node needs to fetch its
// children or to be selected. Only the fields relevant to the node's kind
// are set.
type NodeRef struct {
	HubID      string                  `json:"hubId,omitempty"`
	ProjectID  string                  `json:"projectId,omitempty"`
	FolderID   string                  `json:"folderId,omitempty"`
	ItemID     string                  `json:"itemId,omitempty"`
	VersionURN valueobjects.VersionURN `json:"versionUrn,omitempty"`
	ViewGUID   string                  `json:"viewGuid,omitempty"`
}

// NavigationNode is one node of the lazily expanded navigation hierarchy.
// Children is nil until the first successful fetch and is then cached for
// the life of the session; collapsing never discards it.
type NavigationNode struct {
	ID          string
	DisplayName string
	Kind        NodeKind
	Ref         NodeRef
	Children    []*NavigationNode

	state NodeState
}

// NewNavigationNode creates a node in the unexpanded state
func NewNavigationNode(id, displayName string, kind NodeKind, ref NodeRef) *NavigationNode {
	return &NavigationNode{
		ID:          id,
		DisplayName: displayName,
		Kind:        kind,
		Ref:         ref,
		state:       StateUnexpanded,
	}
}

// NewErrorNode creates the synthetic inert leaf attached under a version
// whose view listing failed
func NewErrorNode(parentID, message string) *NavigationNode {
	n := NewNavigationNode(parentID+"/error", message, KindError, NodeRef{})
	n.state = StateLeafError
	return n
}

// State returns the node's lifecycle state
func (n *NavigationNode) State() NodeState {
	return n.state
}

// SetState moves the node to the given lifecycle state. Transitions are
// coordinated by the owning tree aggregate.
func (n *NavigationNode) SetState(s NodeState) {
	n.state = s
}

// IsLeaf reports whether the node is a terminal: views are selection points
// and error nodes are inert
func (n *NavigationNode) IsLeaf() bool {
	return n.Kind == KindView || n.Kind == KindError
}

// Selectable reports whether clicking the node triggers the derivative
// pipeline rather than an expand/collapse toggle
func (n *NavigationNode) Selectable() bool {
	return n.Kind == KindView
}
