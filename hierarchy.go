package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

const hierarchyRootName = "root"

// HierarchyBranch is one community under the synthetic root.
// Its leaves are Nodes[First:Last] of the owning Hierarchy.
type HierarchyBranch struct {
	CommunityId int
	Label       string
	First       int
	Last        int
}

// Hierarchy is the root -> community -> paper tree used for radial placement,
// stored as index ranges over a flat node table.
type Hierarchy struct {
	Nodes    []PaperNode
	Branches []HierarchyBranch
}

func CommunityLabel(communityId int) string {
	return fmt.Sprintf("C%d", communityId)
}

// BuildHierarchy orders nodes by community id then node id and cuts one branch per community.
// The input slice is not modified.
func BuildHierarchy(nodes []PaperNode) *Hierarchy {
	ordered := slices.Clone(nodes)
	if ordered == nil {
		ordered = []PaperNode{}
	}
	slices.SortFunc(ordered, func(a, b PaperNode) int {
		if c := cmp.Compare(a.Community, b.Community); c != 0 {
			return c
		}
		return strings.Compare(a.Id, b.Id)
	})

	h := &Hierarchy{Nodes: ordered, Branches: []HierarchyBranch{}}
	for i, n := range ordered {
		if i == 0 || ordered[i-1].Community != n.Community {
			h.Branches = append(h.Branches, HierarchyBranch{
				CommunityId: n.Community,
				Label:       CommunityLabel(n.Community),
				First:       i,
			})
		}
		h.Branches[len(h.Branches)-1].Last = i + 1
	}
	return h
}

func (h *Hierarchy) Leaves(b HierarchyBranch) []PaperNode {
	return h.Nodes[b.First:b.Last]
}

type hierarchyLeafJSON struct {
	Name string    `json:"name"`
	Data PaperNode `json:"data"`
}

type hierarchyBranchJSON struct {
	Name      string              `json:"name"`
	Community int                 `json:"community"`
	Children  []hierarchyLeafJSON `json:"children"`
}

// MarshalJSON emits the nested {name, children} form d3.hierarchy expects
func (h *Hierarchy) MarshalJSON() ([]byte, error) {
	branches := make([]hierarchyBranchJSON, 0, len(h.Branches))
	for _, b := range h.Branches {
		leaves := make([]hierarchyLeafJSON, 0, b.Last-b.First)
		for _, n := range h.Leaves(b) {
			leaves = append(leaves, hierarchyLeafJSON{Name: n.Id, Data: n})
		}
		branches = append(branches, hierarchyBranchJSON{
			Name:      b.Label,
			Community: b.CommunityId,
			Children:  leaves,
		})
	}

	return json.Marshal(&struct {
		Name     string                `json:"name"`
		Children []hierarchyBranchJSON `json:"children"`
	}{
		Name:     hierarchyRootName,
		Children: branches,
	})
}
