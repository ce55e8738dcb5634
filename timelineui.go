package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"text/template"
)

var timelineTemplate = template.Must(template.New("timeline").Parse(timelineHTMLTemplate))

// SaveTimelineHTML 타임라인과 히스토그램이 연동되는 대시보드 페이지를 저장
// 연도 막대를 클릭하면 미리 집계해 둔 해당 연도의 히스토그램을 그림
func SaveTimelineHTML(timeline *CoordinatedTimeline, outputDir string) (string, error) {
	timelineJSON, err := json.Marshal(timeline)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := timelineTemplate.Execute(&buf, map[string]interface{}{"Timeline": string(timelineJSON)}); err != nil {
		Logger.WithError(err).Error("Failed to render timeline template")
		return "", err
	}

	htmlPath := filepath.Join(outputDir, "timeline.html")
	Logger.WithField("path", htmlPath).Info("saving coordinated timeline view")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return htmlPath, nil
}

const timelineHTMLTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Coordinated Dashboard Views</title>
    <script src="https://cdn.jsdelivr.net/npm/d3@7"></script>
    <style type="text/css">
        body { font-family: sans-serif; margin: 20px; background: #fafafa; color: #202124; }
        svg { border: 1px solid #dadce0; background: white; border-radius: 8px; display: block; margin-bottom: 20px; }
        .bar { fill: #1a73e8; cursor: pointer; }
        .bar.selected { fill: #e8710a; }
        .hist-bar { fill: #34a853; }
        .hint { font-size: 13px; color: #5f6368; }
    </style>
</head>
<body>
<h3>Papers by Year</h3>
<div class="hint">Click any year to show the patent citation distribution of its papers.</div>
<svg id="timeline" width="800" height="300"></svg>
<h3 id="histTitle">Patent Citations</h3>
<svg id="histogram" width="800" height="400"></svg>
<script type="text/javascript">
    var timeline = {{.Timeline}};
    var margin = { top: 40, right: 40, bottom: 60, left: 80 };

    function drawTimeline() {
        var svg = d3.select('#timeline');
        var w = +svg.attr('width') - margin.left - margin.right;
        var h = +svg.attr('height') - margin.top - margin.bottom;
        var g = svg.append('g').attr('transform', 'translate(' + margin.left + ',' + margin.top + ')');

        var x = d3.scaleBand().domain(timeline.points.map(function(p) { return String(p.year); })).range([0, w]).padding(0.1);
        var y = d3.scaleLinear().domain([0, d3.max(timeline.points, function(p) { return p.count; }) || 0]).range([h, 0]).nice();

        g.append('g').attr('transform', 'translate(0,' + h + ')').call(d3.axisBottom(x)
            .tickValues(x.domain().filter(function(d, i) { return i % Math.ceil(x.domain().length / 20) === 0; })));
        g.append('g').call(d3.axisLeft(y));

        g.selectAll('.bar')
            .data(timeline.points)
            .join('rect')
            .attr('class', 'bar')
            .attr('x', function(p) { return x(String(p.year)); })
            .attr('y', function(p) { return y(p.count); })
            .attr('width', x.bandwidth())
            .attr('height', function(p) { return h - y(p.count); })
            .on('click', function(event, p) {
                g.selectAll('.bar').classed('selected', function(q) { return q.year === p.year; });
                drawHistogram(p.year);
            })
            .append('title').text(function(p) { return p.year + ': ' + p.count + ' papers'; });
    }

    function drawHistogram(year) {
        var svg = d3.select('#histogram');
        svg.selectAll('*').remove();
        d3.select('#histTitle').text('Patent Citations (' + year + ')');

        var bins = timeline.histograms[year] || [];
        if (bins.length === 0) {
            svg.append('text').attr('x', 20).attr('y', 30).text('No papers with patent citations in ' + year);
            return;
        }

        var w = +svg.attr('width') - margin.left - margin.right;
        var h = +svg.attr('height') - margin.top - margin.bottom;
        var g = svg.append('g').attr('transform', 'translate(' + margin.left + ',' + margin.top + ')');

        var x = d3.scaleBand().domain(bins.map(function(b) { return String(b.value); })).range([0, w]).padding(0.2);
        var y = d3.scaleLinear().domain([0, d3.max(bins, function(b) { return b.count; }) || 0]).range([h, 0]).nice();

        g.append('g').attr('transform', 'translate(0,' + h + ')').call(d3.axisBottom(x));
        g.append('g').call(d3.axisLeft(y));
        g.append('text').attr('x', w / 2).attr('y', h + 50).attr('text-anchor', 'middle').text('Patent Count');
        g.append('text').attr('transform', 'rotate(-90)').attr('x', -h / 2).attr('y', -55)
            .attr('text-anchor', 'middle').text('Number of Papers');

        g.selectAll('.hist-bar')
            .data(bins)
            .join('rect')
            .attr('class', 'hist-bar')
            .attr('x', function(b) { return x(String(b.value)); })
            .attr('y', function(b) { return y(b.count); })
            .attr('width', x.bandwidth())
            .attr('height', function(b) { return h - y(b.count); })
            .append('title').text(function(b) { return b.count + ' papers with ' + b.value + ' patents'; });
    }

    drawTimeline();
    window.dashboardReady = true;
</script>
</body>
</html>
`
