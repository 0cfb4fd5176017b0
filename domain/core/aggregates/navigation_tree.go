package aggregates

import (
	"sync"

	"hublens-backend/domain/core/entities"
	pkgerrors "hublens-backend/pkg/errors"
)

// ExpandAction is the outcome of BeginExpand: what the caller has to do next
type ExpandAction int

const (
	// ActionNone: the node is already expanded, already loading, or an
	// inert leaf; nothing to do
	ActionNone ExpandAction = iota
	// ActionCached: the node was collapsed with cached children; it has
	// been re-expanded without a fetch
	ActionCached
	// ActionFetch: the node transitioned to loading and the caller owns
	// the single outstanding fetch for it
	ActionFetch
)

// NavigationTree is the session-scoped lazy navigation hierarchy. All state
// transitions happen under the tree lock; fetches themselves run outside it,
// bracketed by BeginExpand and CompleteExpand/FailExpand, so expansions of
// different nodes can be in flight concurrently while each node has at most
// one outstanding fetch.
type NavigationTree struct {
	mu    sync.Mutex
	root  *entities.NavigationNode
	nodes map[string]*entities.NavigationNode

	// state the node reverts to if its fetch fails
	revert map[string]entities.NodeState
}

// RootID is the identifier of the implicit root whose children are the hubs
const RootID = "root"

// NewNavigationTree creates an empty tree containing only the implicit root
func NewNavigationTree() *NavigationTree {
	root := entities.NewNavigationNode(RootID, "", entities.KindRoot, entities.NodeRef{})
	return &NavigationTree{
		root:   root,
		nodes:  map[string]*entities.NavigationNode{RootID: root},
		revert: make(map[string]entities.NodeState),
	}
}

// Node looks up a node by its identifier
func (t *NavigationTree) Node(id string) (*entities.NavigationNode, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("navigation node")
	}
	return node, nil
}

// NodeSnapshot is a copy of one node and its direct children, taken under the
// tree lock. Callers serialize snapshots, never live nodes, so reading a
// response cannot race with a concurrent expansion writing Children or state.
type NodeSnapshot struct {
	ID          string
	DisplayName string
	Kind        entities.NodeKind
	State       entities.NodeState
	Ref         entities.NodeRef
	Children    []*NodeSnapshot
}

// Selectable reports whether the node is a selection point
func (s *NodeSnapshot) Selectable() bool {
	return s.Kind == entities.KindView
}

// Snapshot copies a node and one level of children
func (t *NavigationTree) Snapshot(id string) (*NodeSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("navigation node")
	}

	snap := snapshotOf(node)
	snap.Children = make([]*NodeSnapshot, 0, len(node.Children))
	for _, child := range node.Children {
		snap.Children = append(snap.Children, snapshotOf(child))
	}
	return snap, nil
}

func snapshotOf(node *entities.NavigationNode) *NodeSnapshot {
	return &NodeSnapshot{
		ID:          node.ID,
		DisplayName: node.DisplayName,
		Kind:        node.Kind,
		State:       node.State(),
		Ref:         node.Ref,
	}
}

// BeginExpand starts an expansion. It is a no-op while the node is loading
// or already expanded, serves cached children when the node was merely
// collapsed, and otherwise claims the node's single outstanding fetch by
// moving it to the loading state.
func (t *NavigationTree) BeginExpand(id string) (*entities.NavigationNode, ExpandAction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, ActionNone, pkgerrors.NewNotFoundError("navigation node")
	}
	if node.IsLeaf() {
		return node, ActionNone, nil
	}

	switch node.State() {
	case entities.StateExpanded, entities.StateLoading:
		return node, ActionNone, nil
	case entities.StateCollapsed:
		node.SetState(entities.StateExpanded)
		return node, ActionCached, nil
	default:
		t.revert[id] = node.State()
		node.SetState(entities.StateLoading)
		return node, ActionFetch, nil
	}
}

// CompleteExpand attaches fetched children (already sorted by the caller)
// and moves the node to expanded. Children become addressable by id for
// later expansions.
func (t *NavigationTree) CompleteExpand(id string, children []*entities.NavigationNode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("navigation node")
	}
	if node.State() != entities.StateLoading {
		return pkgerrors.NewInternalError("expand completion on a node that is not loading")
	}

	node.Children = children
	for _, child := range children {
		t.nodes[child.ID] = child
	}
	node.SetState(entities.StateExpanded)
	delete(t.revert, id)
	return nil
}

// FailExpand reverts a failed fetch. The failure stays local to the node: it
// returns to the stable state it held before loading so the user can retry
// by expanding again.
func (t *NavigationTree) FailExpand(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok || node.State() != entities.StateLoading {
		return
	}

	prev, ok := t.revert[id]
	if !ok {
		prev = entities.StateUnexpanded
	}
	node.SetState(prev)
	delete(t.revert, id)
}

// Collapse is a pure local toggle; cached children are retained
func (t *NavigationTree) Collapse(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("navigation node")
	}
	if node.State() != entities.StateExpanded {
		return nil
	}
	node.SetState(entities.StateCollapsed)
	return nil
}
