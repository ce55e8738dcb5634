package main

import (
	"context"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

var cleanHTMLRegex = regexp.MustCompile("<[^>]*>")

// EscapeDotString HTML 엔티티를 풀고 태그를 제거하여 그래프 라벨로 쓸 수 있게 정리
func EscapeDotString(s string) string {
	processedString := html.UnescapeString(s)
	processedString = cleanHTMLRegex.ReplaceAllString(processedString, "")
	processedString = strings.TrimSpace(processedString)
	return processedString
}

// RenderHierarchyGraph 루트 -> 커뮤니티 -> 논문 트리를 twopi(방사형) 레이아웃으로 렌더링
// 라벨 대상이 아닌 커뮤니티는 이름을 비워 둠
func RenderHierarchyGraph(ctx context.Context, view *RadialView, format graphviz.Format, w io.Writer) error {
	g, err := graphviz.New(ctx)
	if err != nil {
		return err
	}
	defer g.Close()
	g.SetLayout(graphviz.TWOPI)

	graph, err := g.Graph()
	if err != nil {
		return err
	}
	defer graph.Close()

	gRoot, err := graph.CreateNodeByName(hierarchyRootName)
	if err != nil {
		return err
	}
	gRoot.SetLabel("")
	gRoot.SetShape(cgraph.PointShape)

	leaves := map[string]*cgraph.Node{}
	for _, branch := range view.Hierarchy.Branches {
		gCommunity, err := graph.CreateNodeByName(branch.Label)
		if err != nil {
			return err
		}
		if view.IsLabeled(branch.CommunityId) {
			gCommunity.SetLabel(branch.Label)
		} else {
			gCommunity.SetLabel("")
			gCommunity.SetShape(cgraph.PointShape)
		}
		if _, err := graph.CreateEdgeByName("", gRoot, gCommunity); err != nil {
			return err
		}

		for _, paper := range view.Hierarchy.Leaves(branch) {
			gPaper, err := graph.CreateNodeByName("paper:" + paper.Id)
			if err != nil {
				return err
			}
			gPaper.SetLabel(EscapeDotString(paper.Name))
			gPaper.SetShape(cgraph.PlainTextShape)
			if _, err := graph.CreateEdgeByName("", gCommunity, gPaper); err != nil {
				return err
			}
			leaves[paper.Id] = gPaper
		}
	}

	// 인용 링크는 트리 배치에 영향을 주지 않도록 점선으로만 표시
	for _, link := range view.Links {
		e, err := graph.CreateEdgeByName("", leaves[link.Source], leaves[link.Target])
		if err != nil {
			return err
		}
		e.SetStyle(cgraph.DashedEdgeStyle)
		e.SetConstraint(false)
	}

	return g.Render(ctx, graph, format, w)
}

// SaveHierarchySVG 계층 트리를 hierarchy.svg로 저장
func SaveHierarchySVG(ctx context.Context, view *RadialView, outputDir string) (string, error) {
	svgPath := filepath.Join(outputDir, "hierarchy.svg")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	file, err := os.OpenFile(svgPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return "", err
	}
	defer file.Close()

	Logger.WithField("path", svgPath).Info("rendering hierarchy graph")
	if err := RenderHierarchyGraph(ctx, view, graphviz.SVG, file); err != nil {
		return "", err
	}
	return svgPath, nil
}
