package nav

import "github.com/mesh-intelligence/linkshelf/pkg/types"

// BuildForest reconstructs a category forest from rows ordered by
// (parent, weight, name). Rows are loaded into an indexed arena first and the
// tree is then assembled by ID lookup, so no child list is ever aliased.
// Rows whose parent is absent from the set (a foreign or deleted parent)
// surface as roots rather than disappearing.
func BuildForest(rows []types.Category) []*types.CategoryNode {
	nodes := make(map[string]*types.CategoryNode, len(rows))
	order := make([]string, 0, len(rows))
	for _, c := range rows {
		nodes[c.ID] = &types.CategoryNode{Category: c, Children: []*types.CategoryNode{}}
		order = append(order, c.ID)
	}

	roots := []*types.CategoryNode{}
	for _, id := range order {
		n := nodes[id]
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}
