package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"text/template"
)

var radialTemplate = template.Must(template.New("radial").Parse(radialHTMLTemplate))

// RenderRadialHTML renders the hierarchical edge bundling page for a radial view
func RenderRadialHTML(view *RadialView, width, height int) ([]byte, error) {
	viewJSON, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = radialTemplate.Execute(&buf, map[string]interface{}{
		"View":   string(viewJSON),
		"Width":  width,
		"Height": height,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveRadialHTML writes radial.html under outputDir and returns its path
func SaveRadialHTML(view *RadialView, width, height int, outputDir string) (string, error) {
	page, err := RenderRadialHTML(view, width, height)
	if err != nil {
		Logger.WithError(err).Error("Failed to render radial template")
		return "", err
	}

	htmlPath := filepath.Join(outputDir, "radial.html")
	Logger.WithField("path", htmlPath).Info("saving hierarchical edge bundling view")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(htmlPath, page, 0644); err != nil {
		return "", err
	}
	return htmlPath, nil
}

const radialHTMLTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Hierarchical Edge Bundling</title>
    <script src="https://cdn.jsdelivr.net/npm/d3@7"></script>
    <style type="text/css">
        body { font-family: sans-serif; margin: 20px; background: #fafafa; color: #202124; }
        svg { border: 1px solid #dadce0; background: #f8f9fa; border-radius: 8px; }
        .tooltip { position: absolute; padding: 12px 16px; background: white; border-radius: 8px; border: 1px solid #dadce0;
                   box-shadow: 0 2px 8px rgba(0,0,0,0.15); pointer-events: none; opacity: 0; font-size: 13px; max-width: 300px; }
        .summary { font-size: 13px; color: #5f6368; margin-bottom: 12px; }
    </style>
</head>
<body>
<h3>Hierarchical Edge Bundling</h3>
<div class="summary" id="summary"></div>
<svg id="radial" width="{{.Width}}" height="{{.Height}}"></svg>
<div class="tooltip" id="tooltip"></div>
<script type="text/javascript">
    var view = {{.View}};
    var width = {{.Width}}, height = {{.Height}};
    var radius = Math.min(width, height) / 2 - 120;
    var labelAllowed = new Set(view.label_communities);

    document.getElementById('summary').innerText =
        view.summary.nodes + ' papers, ' + view.summary.links + ' links (' +
        view.summary.intra_community_links + ' intra-community), ' +
        view.summary.communities + ' of ' + view.summary.total_communities + ' communities';

    var svg = d3.select('#radial');
    var g = svg.append('g').attr('transform', 'translate(' + width / 2 + ',' + height / 2 + ')');
    var colorScale = d3.scaleOrdinal(d3.schemeCategory10);
    var tooltip = d3.select('#tooltip');

    var tree = d3.cluster()
        .size([2 * Math.PI, radius - 40])
        .separation(function(a, b) { return (a.parent === b.parent ? 1 : 2) / a.depth; });
    var root = d3.hierarchy(view.hierarchy, function(d) { return d.children; })
        .sum(function(d) { return d.children ? 0 : 1; });
    tree(root);

    var nodesById = new Map(root.leaves().map(function(d) { return [d.data.name, d]; }));

    var line = d3.lineRadial()
        .curve(d3.curveBundle.beta(0.95))
        .radius(function(d) { return d.y; })
        .angle(function(d) { return d.x; });

    function linkOpacity(l) { return l.source_community === l.target_community ? 0.4 : 0.15; }

    var links = g.append('g')
        .attr('class', 'links')
        .style('mix-blend-mode', 'multiply')
        .selectAll('path')
        .data(view.links)
        .join('path')
        .attr('d', function(l) {
            var source = nodesById.get(l.source), target = nodesById.get(l.target);
            return source && target ? line(source.path(target)) : null;
        })
        .attr('fill', 'none')
        .attr('stroke-width', 1)
        .attr('stroke', function(l) {
            return l.source_community === l.target_community ? colorScale(String(l.source_community)) : '#aaa';
        })
        .attr('stroke-opacity', linkOpacity);

    var nodeGroup = g.append('g')
        .attr('class', 'nodes')
        .selectAll('g')
        .data(root.leaves())
        .join('g')
        .attr('transform', function(d) { return 'rotate(' + (d.x * 180 / Math.PI - 90) + ') translate(' + d.y + ',0)'; })
        .on('mouseover', function(event, d) {
            var paper = d.data.data;
            d3.select(this).select('circle').attr('stroke', '#000').attr('stroke-width', 2).attr('r', 8);
            links
                .attr('stroke-opacity', function(l) { return (l.source === paper.id || l.target === paper.id) ? 0.9 : 0.03; })
                .attr('stroke-width', function(l) { return (l.source === paper.id || l.target === paper.id) ? 2.5 : 0.5; });
            tooltip.transition().duration(200).style('opacity', 1);
            tooltip.html('<strong>' + paper.name + '</strong><br/>' +
                    '<strong>Community:</strong> ' + paper.community + '<br/>' +
                    '<strong>Citations:</strong> ' + paper.citation_count + '<br/>' +
                    '<strong>Degree:</strong> ' + paper.degree)
                .style('left', (event.pageX + 10) + 'px')
                .style('top', (event.pageY - 28) + 'px');
        })
        .on('mouseout', function() {
            d3.select(this).select('circle').attr('stroke', '#fff').attr('stroke-width', 1).attr('r', 4.5);
            links.attr('stroke-opacity', linkOpacity).attr('stroke-width', 1);
            tooltip.transition().duration(500).style('opacity', 0);
        });

    nodeGroup.append('circle')
        .attr('r', 4.5)
        .attr('fill', function(d) { return colorScale(String(d.data.data.community)); })
        .attr('stroke', '#fff')
        .attr('stroke-width', 1)
        .style('cursor', 'pointer');

    g.append('g')
        .selectAll('g')
        .data(root.children || [])
        .join('g')
        .attr('transform', function(d) { return 'rotate(' + (d.x * 180 / Math.PI - 90) + ') translate(' + (radius - 20) + ',0)'; })
        .append('text')
        .attr('dy', '0.31em')
        .attr('x', function(d) { return d.x < Math.PI ? 6 : -6; })
        .attr('text-anchor', function(d) { return d.x < Math.PI ? 'start' : 'end'; })
        .attr('transform', function(d) { return d.x >= Math.PI ? 'rotate(180)' : null; })
        .text(function(d) { return labelAllowed.has(d.data.community) ? d.data.name : ''; })
        .style('font-size', '10px')
        .style('fill', '#5f6368')
        .style('paint-order', 'stroke')
        .style('stroke', '#f8f9fa')
        .style('stroke-width', '3px');

    g.append('text').attr('y', -10).attr('text-anchor', 'middle')
        .style('font-size', '15px').style('font-weight', '500').text('Citation Network');
    g.append('text').attr('y', 10).attr('text-anchor', 'middle')
        .style('font-size', '13px').style('fill', '#5f6368').text(view.summary.nodes + ' papers');
    g.append('text').attr('y', 28).attr('text-anchor', 'middle')
        .style('font-size', '13px').style('fill', '#5f6368').text(view.summary.communities + ' communities');

    window.dashboardReady = true;
</script>
</body>
</html>
`
