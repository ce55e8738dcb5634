package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
)

// randomDataset builds a dataset with skewed community sizes and some dangling links
func randomDataset(r *rand.Rand) *HierarchicalDataset {
	dataset := &HierarchicalDataset{Nodes: []PaperNode{}, Links: []PaperLink{}}
	communities := 1 + r.Intn(9)
	n := r.Intn(90)
	for i := 0; i < n; i++ {
		// 작은 id의 커뮤니티가 더 크게 나오도록 치우침
		community := min(r.Intn(communities), r.Intn(communities))
		dataset.Nodes = append(dataset.Nodes, PaperNode{
			Id:            fmt.Sprintf("p%03d", i),
			Name:          fmt.Sprintf("Paper %d", i),
			Community:     community,
			CitationCount: r.Intn(40),
			Degree:        r.Intn(6),
		})
	}
	communityOf := lo.SliceToMap(dataset.Nodes, func(n PaperNode) (string, int) { return n.Id, n.Community })

	pick := func() string {
		if n == 0 || r.Intn(10) == 0 {
			return fmt.Sprintf("ghost%d", r.Intn(5))
		}
		return dataset.Nodes[r.Intn(n)].Id
	}
	m := r.Intn(160)
	for i := 0; i < m; i++ {
		source, target := pick(), pick()
		sc, ok := communityOf[source]
		if !ok {
			sc = -1
		}
		tc, ok := communityOf[target]
		if !ok {
			tc = -1
		}
		dataset.Links = append(dataset.Links, PaperLink{Source: source, Target: target, SourceCommunity: sc, TargetCommunity: tc})
	}
	return dataset
}

// withDuplicates re-adds some node ids with a different community and name
func withDuplicates(r *rand.Rand, dataset *HierarchicalDataset) *HierarchicalDataset {
	duplicated := &HierarchicalDataset{
		Nodes: slices.Clone(dataset.Nodes),
		Links: dataset.Links,
	}
	for _, n := range dataset.Nodes {
		if r.Intn(6) != 0 {
			continue
		}
		n.Community = r.Intn(9)
		n.Name = fmt.Sprintf("Duplicate %s", n.Id)
		n.Degree = r.Intn(6)
		duplicated.Nodes = append(duplicated.Nodes, n)
	}
	return duplicated
}

func shuffledDataset(r *rand.Rand, dataset *HierarchicalDataset) *HierarchicalDataset {
	shuffled := &HierarchicalDataset{
		Nodes: slices.Clone(dataset.Nodes),
		Links: slices.Clone(dataset.Links),
	}
	r.Shuffle(len(shuffled.Nodes), func(i, j int) { shuffled.Nodes[i], shuffled.Nodes[j] = shuffled.Nodes[j], shuffled.Nodes[i] })
	r.Shuffle(len(shuffled.Links), func(i, j int) { shuffled.Links[i], shuffled.Links[j] = shuffled.Links[j], shuffled.Links[i] })
	return shuffled
}

func sortedLinks(links []PaperLink) []PaperLink {
	sorted := slices.Clone(links)
	slices.SortFunc(sorted, func(a, b PaperLink) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.Target, b.Target)
	})
	return sorted
}

func TestTransformProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	limitGen := gen.IntRange(-2, 12)

	properties.Property("only the top ranked communities survive", prop.ForAll(
		func(seed int64, nodes, communities, labels int) bool {
			dataset := randomDataset(rand.New(rand.NewSource(seed)))
			view := Transform(dataset, SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: labels})

			ranked := RankCommunities(uniqueNodes(dataset.Nodes))
			want := lo.Map(ranked[:min(len(ranked), max(communities, 1))], func(c RankedCommunity, _ int) int { return c.Id })
			got := lo.Map(view.Hierarchy.Branches, func(b HierarchyBranch, _ int) int { return b.CommunityId })
			slices.Sort(want)
			return slices.Equal(want, got)
		},
		gen.Int64(), limitGen, limitGen, limitGen,
	))

	properties.Property("community sizes respect limit and floor", prop.ForAll(
		func(seed int64, nodes, communities int) bool {
			dataset := randomDataset(rand.New(rand.NewSource(seed)))
			view := Transform(dataset, SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: 1})

			sizes := lo.CountValuesBy(dataset.Nodes, func(n PaperNode) int { return n.Community })
			for _, b := range view.Hierarchy.Branches {
				size := sizes[b.CommunityId]
				kept := b.Last - b.First
				if kept != min(size, max(nodes, minNodesPerCommunity)) {
					return false
				}
			}
			return true
		},
		gen.Int64(), limitGen, limitGen,
	))

	properties.Property("no dangling links", prop.ForAll(
		func(seed int64, nodes, communities int) bool {
			dataset := randomDataset(rand.New(rand.NewSource(seed)))
			view := Transform(dataset, SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: 1})
			kept := idSet(view.Nodes)
			return lo.EveryBy(view.Links, func(l PaperLink) bool {
				_, src := kept[l.Source]
				_, dst := kept[l.Target]
				return src && dst
			})
		},
		gen.Int64(), limitGen, limitGen,
	))

	properties.Property("every kept node is exactly one leaf under its community", prop.ForAll(
		func(seed int64, nodes, communities int) bool {
			dataset := randomDataset(rand.New(rand.NewSource(seed)))
			view := Transform(dataset, SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: 1})

			seen := map[string]struct{}{}
			for _, b := range view.Hierarchy.Branches {
				if b.Label != CommunityLabel(b.CommunityId) {
					return false
				}
				for _, leaf := range view.Hierarchy.Leaves(b) {
					if leaf.Community != b.CommunityId {
						return false
					}
					if _, dup := seen[leaf.Id]; dup {
						return false
					}
					seen[leaf.Id] = struct{}{}
				}
			}
			return len(seen) == len(view.Nodes)
		},
		gen.Int64(), limitGen, limitGen,
	))

	properties.Property("labels are a rank-order prefix of rendered communities", prop.ForAll(
		func(seed int64, communities, labels int) bool {
			dataset := randomDataset(rand.New(rand.NewSource(seed)))
			view := Transform(dataset, SampleLimits{MaxNodesPerCommunity: 3, MaxCommunities: communities, MaxCommunityLabels: labels})

			rendered := lo.Map(view.Hierarchy.Branches, func(b HierarchyBranch, _ int) int { return b.CommunityId })
			if len(view.LabelCommunities) != min(len(rendered), max(labels, 1)) {
				return false
			}
			return lo.Every(rendered, view.LabelCommunities)
		},
		gen.Int64(), limitGen, limitGen,
	))

	properties.Property("transform is idempotent", prop.ForAll(
		func(seed int64, nodes, communities, labels int) bool {
			dataset := randomDataset(rand.New(rand.NewSource(seed)))
			limits := SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: labels}
			first, err1 := json.Marshal(Transform(dataset, limits))
			second, err2 := json.Marshal(Transform(dataset, limits))
			return err1 == nil && err2 == nil && string(first) == string(second)
		},
		gen.Int64(), limitGen, limitGen, limitGen,
	))

	properties.Property("input order does not change the result", prop.ForAll(
		func(seed int64, nodes, communities, labels int) bool {
			r := rand.New(rand.NewSource(seed))
			dataset := randomDataset(r)
			limits := SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: labels}

			a := Transform(dataset, limits)
			b := Transform(shuffledDataset(r, dataset), limits)

			ha, err1 := json.Marshal(a.Hierarchy)
			hb, err2 := json.Marshal(b.Hierarchy)
			if err1 != nil || err2 != nil || string(ha) != string(hb) {
				return false
			}
			return slices.Equal(a.LabelCommunities, b.LabelCommunities) &&
				slices.Equal(sortedLinks(a.Links), sortedLinks(b.Links))
		},
		gen.Int64(), limitGen, limitGen, limitGen,
	))

	properties.Property("duplicate ids resolve the same way in any order", prop.ForAll(
		func(seed int64, nodes, communities int) bool {
			r := rand.New(rand.NewSource(seed))
			dataset := withDuplicates(r, randomDataset(r))
			limits := SampleLimits{MaxNodesPerCommunity: nodes, MaxCommunities: communities, MaxCommunityLabels: 3}

			a, err1 := json.Marshal(Transform(dataset, limits).Hierarchy)
			b, err2 := json.Marshal(Transform(shuffledDataset(r, dataset), limits).Hierarchy)
			return err1 == nil && err2 == nil && string(a) == string(b)
		},
		gen.Int64(), limitGen, limitGen,
	))

	properties.TestingRun(t)
}
