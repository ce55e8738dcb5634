package main

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultMaxNodesPerCommunity = 20
	DefaultMaxCommunityLabels   = 30
	DefaultMaxCommunities       = 50

	// 아무리 작은 한도가 주어져도 커뮤니티당 이만큼(혹은 커뮤니티 전체)은 남김
	minNodesPerCommunity = 5
)

// SampleLimits bounds the radial view. Non-positive values are clamped to 1.
type SampleLimits struct {
	MaxNodesPerCommunity int `json:"max_nodes_per_community"`
	MaxCommunityLabels   int `json:"max_community_labels"`
	MaxCommunities       int `json:"max_communities"`
}

func DefaultSampleLimits() SampleLimits {
	return SampleLimits{
		MaxNodesPerCommunity: DefaultMaxNodesPerCommunity,
		MaxCommunityLabels:   DefaultMaxCommunityLabels,
		MaxCommunities:       DefaultMaxCommunities,
	}
}

func (l SampleLimits) clamped() SampleLimits {
	return SampleLimits{
		MaxNodesPerCommunity: max(l.MaxNodesPerCommunity, 1),
		MaxCommunityLabels:   max(l.MaxCommunityLabels, 1),
		MaxCommunities:       max(l.MaxCommunities, 1),
	}
}

// ConnectivityIndex maps a node id to the set of its distinct neighbours.
// Nodes that appear in no link have no entry.
type ConnectivityIndex map[string]map[string]struct{}

// BuildConnectivityIndex treats every link as undirected. Self links add no neighbour.
func BuildConnectivityIndex(links []PaperLink) ConnectivityIndex {
	index := ConnectivityIndex{}
	connect := func(from, to string) {
		neighbours, ok := index[from]
		if !ok {
			neighbours = map[string]struct{}{}
			index[from] = neighbours
		}
		neighbours[to] = struct{}{}
	}
	for _, l := range links {
		if l.Source == l.Target {
			continue
		}
		connect(l.Source, l.Target)
		connect(l.Target, l.Source)
	}
	return index
}

func (c ConnectivityIndex) Connections(id string) int {
	return len(c[id])
}

// RankedCommunity is one community with every member taken from the input node list.
type RankedCommunity struct {
	Id      int
	Size    int
	Members []PaperNode
}

// RankCommunities groups nodes by community id, largest first, ties by ascending id.
func RankCommunities(nodes []PaperNode) []RankedCommunity {
	groups := lo.GroupBy(nodes, func(n PaperNode) int { return n.Community })
	ranked := lo.MapToSlice(groups, func(id int, members []PaperNode) RankedCommunity {
		return RankedCommunity{Id: id, Size: len(members), Members: members}
	})
	slices.SortFunc(ranked, compareCommunityRank)
	return ranked
}

func compareCommunityRank(a, b RankedCommunity) int {
	if c := cmp.Compare(b.Size, a.Size); c != 0 {
		return c
	}
	return cmp.Compare(a.Id, b.Id)
}

// SampleCommunity keeps at most limit members, ranked by
// connected-before-isolated, connection count, then degree.
// At least min(5, len(members)) members always survive.
func SampleCommunity(members []PaperNode, index ConnectivityIndex, limit int) []PaperNode {
	keep := min(len(members), max(limit, minNodesPerCommunity))
	ranked := slices.Clone(members)
	slices.SortFunc(ranked, func(a, b PaperNode) int {
		return compareSampleRank(a, b, index)
	})
	return ranked[:keep]
}

func compareSampleRank(a, b PaperNode, index ConnectivityIndex) int {
	ca, cb := index.Connections(a.Id), index.Connections(b.Id)
	if (ca > 0) != (cb > 0) {
		if ca > 0 {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(cb, ca); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Degree, a.Degree); c != 0 {
		return c
	}
	// 입력 순서와 무관하게 같은 결과가 나오도록 id로 마무리
	return strings.Compare(a.Id, b.Id)
}

// FilterLinks keeps links whose source and target are both in kept. Order is preserved.
func FilterLinks(links []PaperLink, kept map[string]struct{}) []PaperLink {
	return lo.Filter(links, func(l PaperLink, _ int) bool {
		_, src := kept[l.Source]
		_, dst := kept[l.Target]
		return src && dst
	})
}

// SelectLabelCommunities returns up to limit community ids in rank order.
func SelectLabelCommunities(ranked []RankedCommunity, limit int) []int {
	limit = min(max(limit, 1), len(ranked))
	return lo.Map(ranked[:limit], func(c RankedCommunity, _ int) int { return c.Id })
}

type RadialSummary struct {
	Nodes               int `json:"nodes"`
	Links               int `json:"links"`
	Communities         int `json:"communities"`
	LabeledCommunities  int `json:"labeled_communities"`
	TotalCommunities    int `json:"total_communities"`
	IntraCommunityLinks int `json:"intra_community_links"`
	InterCommunityLinks int `json:"inter_community_links"`
}

// RadialView is the reduced dataset handed to the radial renderer.
// Nodes are in hierarchy traversal order; Links keep input order.
type RadialView struct {
	Limits           SampleLimits  `json:"limits"`
	Nodes            []PaperNode   `json:"nodes"`
	Links            []PaperLink   `json:"links"`
	Hierarchy        *Hierarchy    `json:"hierarchy"`
	LabelCommunities []int         `json:"label_communities"`
	Summary          RadialSummary `json:"summary"`
}

// IsLabeled reports whether the community may carry a text label.
func (v *RadialView) IsLabeled(communityId int) bool {
	return lo.Contains(v.LabelCommunities, communityId)
}

// Transform reduces the dataset to a bounded radial view. It never fails:
// dangling links are dropped and limits are clamped.
func Transform(dataset *HierarchicalDataset, limits SampleLimits) *RadialView {
	limits = limits.clamped()
	view := &RadialView{
		Limits:           limits,
		Nodes:            []PaperNode{},
		Links:            []PaperLink{},
		Hierarchy:        BuildHierarchy(nil),
		LabelCommunities: []int{},
	}
	if dataset == nil || len(dataset.Nodes) == 0 {
		return view
	}

	nodes := uniqueNodes(dataset.Nodes)
	known := idSet(nodes)
	resolvable := FilterLinks(dataset.Links, known)
	index := BuildConnectivityIndex(resolvable)

	ranked := RankCommunities(nodes)
	view.Summary.TotalCommunities = len(ranked)
	if len(ranked) > limits.MaxCommunities {
		ranked = ranked[:limits.MaxCommunities]
	}

	sampled := make([]PaperNode, 0, len(ranked)*limits.MaxNodesPerCommunity)
	for _, c := range ranked {
		sampled = append(sampled, SampleCommunity(c.Members, index, limits.MaxNodesPerCommunity)...)
	}

	view.Hierarchy = BuildHierarchy(sampled)
	view.Nodes = view.Hierarchy.Nodes
	view.Links = FilterLinks(resolvable, idSet(view.Nodes))
	view.LabelCommunities = SelectLabelCommunities(ranked, limits.MaxCommunityLabels)

	view.Summary.Nodes = len(view.Nodes)
	view.Summary.Links = len(view.Links)
	view.Summary.Communities = len(view.Hierarchy.Branches)
	view.Summary.LabeledCommunities = len(view.LabelCommunities)
	for _, l := range view.Links {
		if l.SourceCommunity == l.TargetCommunity {
			view.Summary.IntraCommunityLinks++
		} else {
			view.Summary.InterCommunityLinks++
		}
	}
	return view
}

// uniqueNodes keeps one node per id. Among duplicates the smallest by
// compareDuplicate wins, so the choice does not depend on input order.
func uniqueNodes(nodes []PaperNode) []PaperNode {
	position := make(map[string]int, len(nodes))
	unique := make([]PaperNode, 0, len(nodes))
	for _, n := range nodes {
		i, seen := position[n.Id]
		if !seen {
			position[n.Id] = len(unique)
			unique = append(unique, n)
			continue
		}
		if compareDuplicate(n, unique[i]) < 0 {
			unique[i] = n
		}
	}
	return unique
}

func compareDuplicate(a, b PaperNode) int {
	if c := cmp.Compare(a.Community, b.Community); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Degree, a.Degree); c != 0 {
		return c
	}
	if c := cmp.Compare(b.CitationCount, a.CitationCount); c != 0 {
		return c
	}
	return cmp.Compare(yearKey(a.Year), yearKey(b.Year))
}

// nil sorts before every year
func yearKey(year *int) int {
	if year == nil {
		return math.MinInt
	}
	return *year
}

func idSet(nodes []PaperNode) map[string]struct{} {
	return lo.SliceToMap(nodes, func(n PaperNode) (string, struct{}) {
		return n.Id, struct{}{}
	})
}
