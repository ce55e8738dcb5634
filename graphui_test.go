package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSaveNetworkHTML_LargeGraph creates a massive artificial network and tests the vis.js HTML generation.
func TestSaveNetworkHTML_LargeGraph(t *testing.T) {
	const numAuthors = 5000
	const numCoauthorsPerAuthor = 3

	network := &NetworkData{Communities: 50}
	for i := 0; i < numAuthors; i++ {
		network.Nodes = append(network.Nodes, NetworkNode{
			Id:            fmt.Sprintf("AUTHOR-%d", i),
			Title:         fmt.Sprintf("Author &amp; Node <b>%d</b>", i),
			CitationCount: i % 97,
			Community:     i % 50,
		})
	}
	for i := 0; i < numAuthors; i++ {
		for j := 1; j <= numCoauthorsPerAuthor; j++ {
			network.Links = append(network.Links, NetworkLink{
				Source: fmt.Sprintf("AUTHOR-%d", i),
				Target: fmt.Sprintf("AUTHOR-%d", (i+j*7)%numAuthors),
				Weight: float64(j),
			})
		}
	}

	htmlPath := filepath.Join(t.TempDir(), "network_collaboration.html")
	page := NetworkPage{Title: "Collaboration Network", Solution: "Sample <b>per community</b> & cache"}
	if err := SaveNetworkHTML(network, page, htmlPath); err != nil {
		t.Fatalf("Failed to save network HTML: %v", err)
	}

	stat, err := os.Stat(htmlPath)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", htmlPath, err)
	}
	t.Logf("Generated network HTML size: %.2f MB", float64(stat.Size())/1024.0/1024.0)

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", htmlPath, err)
	}
	html := string(data)
	if !strings.Contains(html, "<title>Collaboration Network</title>") {
		t.Fatalf("title is missing from generated page")
	}
	if !strings.Contains(html, `"label":"Author \u0026 Node 42"`) {
		t.Fatalf("node labels must be unescaped and stripped of tags")
	}
	if strings.Contains(html, `"arrows"`) {
		t.Fatalf("undirected network must not draw arrows")
	}
	if !strings.Contains(html, "<p>Sample &lt;b&gt;per community&lt;/b&gt; &amp; cache</p>") {
		t.Fatalf("solution paragraph must be rendered as escaped text")
	}
}

func TestSaveNetworkHTML_WithoutSolution(t *testing.T) {
	htmlPath := filepath.Join(t.TempDir(), "network_citation.html")
	network := &NetworkData{Nodes: []NetworkNode{{Id: "a"}}}
	if err := SaveNetworkHTML(network, NetworkPage{Title: "Citation Network", Directed: true}, htmlPath); err != nil {
		t.Fatalf("Failed to save network HTML: %v", err)
	}
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", htmlPath, err)
	}
	if strings.Contains(string(data), `id="solution"`) {
		t.Fatalf("empty solution must not render a panel")
	}
}

func TestBuildVisPayload(t *testing.T) {
	network := &NetworkData{
		Nodes: []NetworkNode{
			{Id: "p1", Title: "Deep Nets", CitationCount: 12, Community: 3},
			{Id: "p2", Title: "Shallow Nets", CitationCount: 1, Community: 4},
		},
		Links: []NetworkLink{{Source: "p2", Target: "p1"}},
	}

	nodes, edges := BuildVisPayload(NewJsonGraphFromNetwork(network, true))
	assert.Equal(t, []VisNode{
		{ID: "p1", Label: "Deep Nets", Title: "[p1] Deep Nets (citations: 12)", Group: "C3", Value: 12},
		{ID: "p2", Label: "Shallow Nets", Title: "[p2] Shallow Nets (citations: 1)", Group: "C4", Value: 1},
	}, nodes)
	assert.Equal(t, []VisEdge{{From: "p2", To: "p1", Value: 1, Arrows: "to"}}, edges)

	_, undirected := BuildVisPayload(NewJsonGraphFromNetwork(network, false))
	assert.Equal(t, []VisEdge{{From: "p1", To: "p2", Value: 1}}, undirected)
}
