package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"
)

// VisNode represents a node in the vis.js network
type VisNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"` // HTML tooltip
	Group string `json:"group"` // community, used for coloring
	Value int    `json:"value"` // citation count, used for sizing
}

// VisEdge represents an edge in the vis.js network
type VisEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Value  float64 `json:"value"`
	Arrows string  `json:"arrows,omitempty"`
}

var networkTemplate = template.Must(template.New("network").Parse(networkHTMLTemplate))

// NetworkPage 네트워크 페이지 한 장의 표시 옵션
type NetworkPage struct {
	Title    string
	Directed bool
	// 페이지 하단에 보여줄 설명 문단, 비어 있으면 생략
	Solution string
}

// BuildVisPayload 네트워크 그래프를 vis.js 노드/엣지 배열로 변환
// 인용 네트워크는 방향이 있으므로 화살표를 표시하고, 공저 네트워크는 표시하지 않음
func BuildVisPayload(graph *JsonGraph) ([]VisNode, []VisEdge) {
	nodes := make([]VisNode, 0, len(graph.Nodes))
	for _, n := range graph.OrderedNodes() {
		nodes = append(nodes, VisNode{
			ID:    n.Id,
			Label: EscapeDotString(n.Label),
			Title: EscapeDotString(fmt.Sprintf("[%s] %s (citations: %d)", n.Id, n.Label, n.CitationCount)),
			Group: CommunityLabel(n.Community),
			Value: n.CitationCount,
		})
	}

	arrows := ""
	if graph.Directed {
		arrows = "to"
	}
	edges := make([]VisEdge, 0, len(graph.Edges))
	for _, e := range graph.OrderedEdges() {
		edges = append(edges, VisEdge{From: e.From, To: e.To, Value: e.Weight, Arrows: arrows})
	}
	return nodes, edges
}

// SaveNetworkHTML 네트워크 데이터를 vis.js 기반 force-directed 인터랙티브 HTML로 저장
func SaveNetworkHTML(network *NetworkData, page NetworkPage, htmlPath string) error {
	Logger.WithField("title", page.Title).Info("generating vis.js network payload")

	nodes, edges := BuildVisPayload(NewJsonGraphFromNetwork(network, page.Directed))
	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = networkTemplate.Execute(&buf, map[string]interface{}{
		"Title":       page.Title,
		"Solution":    page.Solution,
		"Nodes":       string(nodesJSON),
		"Edges":       string(edgesJSON),
		"Communities": network.Communities,
	})
	if err != nil {
		Logger.WithError(err).Error("Failed to render HTML template")
		return err
	}

	Logger.WithField("path", htmlPath).Info("saving interactive network view")
	if err := os.MkdirAll(filepath.Dir(htmlPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(htmlPath, buf.Bytes(), 0644)
}

// OpenInBrowser 기본 브라우저를 통해 HTML 파일 열기
func OpenInBrowser(htmlPath string) {
	Logger.WithField("path", htmlPath).Info("launching default OS browser")
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", htmlPath)
	case "darwin":
		cmd = exec.Command("open", htmlPath)
	default:
		cmd = exec.Command("xdg-open", htmlPath)
	}

	if err := cmd.Start(); err != nil {
		Logger.WithError(err).Errorf("Failed to open browser, please check %s manually.", htmlPath)
	}
}

const networkHTMLTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <script type="text/javascript" src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
    <style type="text/css">
        body, html { font-family: sans-serif; height: 100%; margin: 0; padding: 0; overflow: hidden; }
        #network { width: 100%; height: 100%; border: none; }
        #loading { position: absolute; top: 50%; left: 50%; transform: translate(-50%, -50%); font-size: 24px; font-weight: bold; background: rgba(255,255,255,0.8); padding: 20px; border-radius: 10px; z-index: 100; }
        #info { position: absolute; top: 20px; left: 20px; z-index: 100; background: white; padding: 10px; border: 1px solid #ccc; border-radius: 4px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); font-size: 13px; }
        #solution { position: absolute; bottom: 20px; left: 20px; right: 20px; z-index: 100; background: white; padding: 12px 16px; border: 1px solid #ccc; border-radius: 4px; font-size: 13px; line-height: 1.5; }
    </style>
</head>
<body>
<div id="loading">Physics Simulation Running... Please wait</div>
<div id="info"><strong>{{.Title}}</strong><br/><span id="counts"></span></div>
<div id="network"></div>
{{if .Solution}}<div id="solution"><strong>Scalability</strong><p>{{html .Solution}}</p></div>{{end}}
<script type="text/javascript">
    var nodes = new vis.DataSet({{.Nodes}});
    var edges = new vis.DataSet({{.Edges}});
    document.getElementById('counts').innerText =
        nodes.length + ' nodes, ' + edges.length + ' links, ' + {{.Communities}} + ' communities';

    var container = document.getElementById('network');
    var options = {
        nodes: {
            shape: 'dot',
            scaling: { min: 4, max: 30 },
            font: { size: 10 }
        },
        edges: {
            color: { color: '#999', opacity: 0.6 },
            scaling: { min: 1, max: 6 },
            smooth: false
        },
        physics: {
            enabled: true,
            barnesHut: {
                gravitationalConstant: -2000,
                centralGravity: 0.3,
                springLength: 50,
                springConstant: 0.04,
                damping: 0.09,
                avoidOverlap: 0.1
            },
            stabilization: { enabled: true, iterations: 1000, updateInterval: 100 }
        },
        layout: { improvedLayout: false },
        interaction: { hover: true, tooltipDelay: 200, navigationButtons: true, keyboard: true }
    };

    var network = new vis.Network(container, { nodes: nodes, edges: edges }, options);

    network.on("stabilizationProgress", function(params) {
        document.getElementById('loading').innerText = "Physics Simulation Running... " + Math.round((params.iterations/params.total)*100) + "%";
    });
    network.once("stabilizationIterationsDone", function() {
        document.getElementById('loading').style.display = 'none';
        network.setOptions({ physics: { enabled: false } });
        window.dashboardReady = true;
    });
    network.on("dragStart", function(params) {
        if (params.nodes.length > 0) { network.setOptions({ physics: { enabled: true } }); }
    });
    network.on("dragEnd", function() {
        network.setOptions({ physics: { enabled: false } });
    });
</script>
</body>
</html>
`
