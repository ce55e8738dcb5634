package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-graphviz"
)

func TestEscapeDotString(t *testing.T) {
	cases := map[string]string{
		"  plain  ":                      "plain",
		"Graph &amp; Trees":              "Graph & Trees",
		"<i>Deep</i> Learning<br/>Notes": "Deep LearningNotes",
		"&lt;b&gt;bold&lt;/b&gt;":        "bold",
	}
	for in, want := range cases {
		if got := EscapeDotString(in); got != want {
			t.Errorf("EscapeDotString(%q) = %q, want %q", in, got, want)
		}
	}
}

func hierarchyTestView() *RadialView {
	big, small := makeCommunity(1, 6), makeCommunity(2, 2)
	dataset := &HierarchicalDataset{
		Nodes: append(append([]PaperNode{}, big...), small...),
		Links: append(chain(big), link(big[0], small[1])),
	}
	return Transform(dataset, SampleLimits{MaxNodesPerCommunity: 20, MaxCommunities: 10, MaxCommunityLabels: 1})
}

func TestRenderHierarchyGraph_Dot(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHierarchyGraph(context.Background(), hierarchyTestView(), graphviz.XDOT, &buf); err != nil {
		t.Fatalf("Failed to render hierarchy graph: %v", err)
	}

	dot := buf.String()
	for _, want := range []string{"root", "C1", "C2", "paper:c1-00", "paper:c2-01", "dashed"} {
		if !strings.Contains(dot, want) {
			t.Errorf("rendered graph is missing %q", want)
		}
	}
}

func TestSaveHierarchySVG(t *testing.T) {
	svgPath, err := SaveHierarchySVG(context.Background(), hierarchyTestView(), t.TempDir())
	if err != nil {
		t.Fatalf("Failed to save hierarchy.svg: %v", err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", svgPath, err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("hierarchy.svg is not an SVG document")
	}
}
