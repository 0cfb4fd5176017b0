package entities_test

import (
	"fmt"
	"testing"

	"hublens-backend/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func props(category, key string, value interface{}) entities.PropertySet {
	return entities.PropertySet{category: {key: value}}
}

func TestMergePropertiesAttachesByObjectID(t *testing.T) {
	tree := []*entities.ObjectTreeNode{
		{
			ObjectID: 1,
			Name:     "Model",
			Children: []*entities.ObjectTreeNode{
				{ObjectID: 2, Name: "Walls", Children: []*entities.ObjectTreeNode{
					{ObjectID: 4, Name: "Basic Wall"},
				}},
				{ObjectID: 3, Name: "Doors"},
			},
		},
	}
	records := []entities.PropertyRecord{
		{ObjectID: 4, Name: "Basic Wall", Properties: props("Dimensions", "Length", "3000")},
		{ObjectID: 3, Name: "Doors", Properties: props("Identity", "Type", "Single")},
	}

	merged := entities.MergeProperties(tree, records)
	require.Len(t, merged, 1)

	root := merged[0]
	assert.Nil(t, root.Properties, "grouping node without a record keeps nil properties")
	assert.Nil(t, root.Children[0].Properties)
	assert.Equal(t, props("Identity", "Type", "Single"), root.Children[1].Properties)
	assert.Equal(t, props("Dimensions", "Length", "3000"), root.Children[0].Children[0].Properties)
}

func TestMergePropertiesDuplicateRecordLastWins(t *testing.T) {
	tree := []*entities.ObjectTreeNode{{ObjectID: 7, Name: "Slab"}}
	records := []entities.PropertyRecord{
		{ObjectID: 7, Properties: props("Identity", "Mark", "first")},
		{ObjectID: 7, Properties: props("Identity", "Mark", "second")},
	}

	merged := entities.MergeProperties(tree, records)
	assert.Equal(t, props("Identity", "Mark", "second"), merged[0].Properties)
}

func TestMergePropertiesEmptyInputs(t *testing.T) {
	t.Run("empty tree", func(t *testing.T) {
		merged := entities.MergeProperties(nil, []entities.PropertyRecord{{ObjectID: 1}})
		assert.Empty(t, merged)
	})

	t.Run("empty records", func(t *testing.T) {
		tree := []*entities.ObjectTreeNode{{ObjectID: 1, Name: "Model"}}
		merged := entities.MergeProperties(tree, nil)
		require.Len(t, merged, 1)
		assert.Nil(t, merged[0].Properties)
	})
}

func TestMergePropertiesUnmatchedRecordIgnored(t *testing.T) {
	tree := []*entities.ObjectTreeNode{{ObjectID: 1, Name: "Model"}}
	records := []entities.PropertyRecord{
		{ObjectID: 99, Properties: props("Identity", "Mark", "orphan")},
	}

	merged := entities.MergeProperties(tree, records)
	assert.Nil(t, merged[0].Properties)
}

func TestMergePropertiesDeepHierarchy(t *testing.T) {
	// A pathologically deep chain; recursion would blow the call stack long
	// before this depth.
	const depth = 200000

	root := &entities.ObjectTreeNode{ObjectID: 0, Name: "level-0"}
	current := root
	for i := 1; i < depth; i++ {
		child := &entities.ObjectTreeNode{ObjectID: int64(i), Name: fmt.Sprintf("level-%d", i)}
		current.Children = []*entities.ObjectTreeNode{child}
		current = child
	}

	records := []entities.PropertyRecord{
		{ObjectID: depth - 1, Properties: props("Identity", "Mark", "leaf")},
	}

	merged := entities.MergeProperties([]*entities.ObjectTreeNode{root}, records)

	node := merged[0]
	for len(node.Children) > 0 {
		node = node.Children[0]
	}
	assert.Equal(t, props("Identity", "Mark", "leaf"), node.Properties)
}

func TestMergePropertiesSkipsNilNodes(t *testing.T) {
	tree := []*entities.ObjectTreeNode{
		nil,
		{ObjectID: 2, Name: "Walls", Children: []*entities.ObjectTreeNode{nil}},
	}
	records := []entities.PropertyRecord{
		{ObjectID: 2, Properties: props("Identity", "Mark", "w")},
	}

	merged := entities.MergeProperties(tree, records)
	assert.Equal(t, props("Identity", "Mark", "w"), merged[1].Properties)
}
