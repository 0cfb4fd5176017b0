package entities

// PropertySet maps a category name to its property name/value pairs
type PropertySet map[string]map[string]interface{}

// ObjectTreeNode is one node of the Revit object hierarchy extracted from a
// model version. Nodes form a rooted, ordered forest. Properties starts out
// nil and is populated at most once, during MergeProperties.
type ObjectTreeNode struct {
	ObjectID   int64             `json:"objectid"`
	Name       string            `json:"name"`
	Children   []*ObjectTreeNode `json:"objects,omitempty"`
	Properties PropertySet       `json:"properties,omitempty"`
}

// PropertyRecord is one entry of the flat property collection, keyed by
// ObjectID. The collection is expected to hold one record per object; when
// duplicates occur the later record wins.
type PropertyRecord struct {
	ObjectID   int64       `json:"objectid"`
	Name       string      `json:"name"`
	Properties PropertySet `json:"properties"`
}

// MergeProperties joins the flat property collection onto the object tree by
// ObjectID and returns the same tree with Properties populated on matching
// nodes. Nodes without a matching record keep a nil Properties; that is the
// normal case for pure grouping nodes, not an error.
//
// The traversal uses an explicit stack: Revit hierarchies nest deeply enough
// that recursion is not call-stack safe.
func MergeProperties(tree []*ObjectTreeNode, records []PropertyRecord) []*ObjectTreeNode {
	if len(tree) == 0 {
		return tree
	}

	// Last-write-wins on duplicate object ids.
	byID := make(map[int64]*PropertyRecord, len(records))
	for i := range records {
		byID[records[i].ObjectID] = &records[i]
	}

	stack := make([]*ObjectTreeNode, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, tree[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		if record, ok := byID[node.ObjectID]; ok {
			node.Properties = record.Properties
		}

		// Descend regardless of whether this node matched.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return tree
}
