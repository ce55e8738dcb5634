package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

type JsonNode struct {
	Id            string `json:"id"`
	Label         string `json:"label"`
	Community     int    `json:"community"`
	CitationCount int    `json:"citation_count"`
}

type JsonEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// JsonGraph deduplicates nodes by id and edges by endpoint pair.
// In an undirected graph a-b and b-a are the same edge.
type JsonGraph struct {
	Directed bool                `json:"-"`
	Nodes    map[string]JsonNode `json:"-"`
	Edges    map[string]JsonEdge `json:"-"`
}

func NewJsonGraph(directed bool) *JsonGraph {
	return &JsonGraph{
		Directed: directed,
		Nodes:    make(map[string]JsonNode),
		Edges:    make(map[string]JsonEdge),
	}
}

// NewJsonGraphFromNetwork drops links whose endpoints are not in the node list.
// Repeated links between the same pair accumulate weight.
func NewJsonGraphFromNetwork(network *NetworkData, directed bool) *JsonGraph {
	g := NewJsonGraph(directed)
	for _, n := range network.Nodes {
		label := n.Title
		if label == "" {
			label = n.Id
		}
		g.AddNode(JsonNode{Id: n.Id, Label: label, Community: n.Community, CitationCount: n.CitationCount})
	}
	for _, l := range network.Links {
		weight := l.Weight
		if weight <= 0 {
			weight = 1
		}
		g.AddEdge(l.Source, l.Target, weight)
	}
	return g
}

func (g *JsonGraph) AddNode(n JsonNode) {
	if _, exists := g.Nodes[n.Id]; !exists {
		g.Nodes[n.Id] = n
	}
}

func (g *JsonGraph) AddEdge(from, to string, weight float64) {
	if _, ok := g.Nodes[from]; !ok {
		return
	}
	if _, ok := g.Nodes[to]; !ok {
		return
	}
	if !g.Directed && to < from {
		from, to = to, from
	}
	k := from + "->" + to
	e, exists := g.Edges[k]
	if !exists {
		e = JsonEdge{From: from, To: to}
	}
	e.Weight += weight
	g.Edges[k] = e
}

func (g *JsonGraph) OrderedNodes() []JsonNode {
	nodes := make([]JsonNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b JsonNode) int { return strings.Compare(a.Id, b.Id) })
	return nodes
}

func (g *JsonGraph) OrderedEdges() []JsonEdge {
	edges := make([]JsonEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b JsonEdge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return edges
}

// MarshalJSON overriding for outputting internal maps as standard arrays
func (g *JsonGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Nodes []JsonNode `json:"nodes"`
		Edges []JsonEdge `json:"edges"`
	}{
		Nodes: g.OrderedNodes(),
		Edges: g.OrderedEdges(),
	})
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveRadialJSON saves the reduced radial dataset for the rendering side
func SaveRadialJSON(view *RadialView, outputDir string) (string, error) {
	Logger.Info("saving radial view as JSON")
	jsonPath := filepath.Join(outputDir, "radial.json")
	if err := writeJSONFile(jsonPath, view); err != nil {
		Logger.WithError(err).Error("Failed to write radial.json to disk")
		return "", err
	}
	return jsonPath, nil
}
