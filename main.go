package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Logger *logrus.Logger = logrus.New()

const (
	ViewRadial   = "radial"
	ViewNetwork  = "network"
	ViewTimeline = "timeline"
)

var AllViews = []string{ViewRadial, ViewNetwork, ViewTimeline}

type runOptions struct {
	SaveGraph   bool
	OpenBrowser bool
	Snapshot    bool
	Views       []string
}

// 프로그램의 진입점
// 사용자의 입력을 파싱하고 전체 로직을 수행합니다.
func main() {
	var debugLog, saveGraph, openBrowser, snapshot, useGUI bool
	var views string
	flag.BoolVar(&debugLog, "debug", false, "print debug log")
	flag.BoolVar(&saveGraph, "graph", false, "save hierarchy graph image (hierarchy.svg)")
	flag.BoolVar(&openBrowser, "open", false, "open generated views in the default browser")
	flag.BoolVar(&snapshot, "snapshot", false, "capture radial.png through chrome devtools")
	flag.BoolVar(&useGUI, "gui", false, "open desktop control panel")
	flag.StringVar(&views, "views", strings.Join(AllViews, ","), "comma separated views to build: radial,network,timeline")
	flag.Parse()

	if debugLog {
		Logger.SetLevel(logrus.DebugLevel)
	}
	Logger.SetFormatter(&logrus.TextFormatter{})

	// 설정 초기화
	Logger.Info("read setting file")
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	config := lo.Must(LoadConfig(v))
	Logger.WithField("config", config).Debug("config")

	opts := runOptions{
		SaveGraph:   saveGraph,
		OpenBrowser: openBrowser,
		Snapshot:    snapshot,
		Views:       lo.Must(ParseViews(views)),
	}

	if useGUI {
		startGUI(config, opts)
		return
	}

	if _, err := runLogic(context.Background(), config, opts); err != nil {
		Logger.WithError(err).Fatal("failed to build dashboard")
	}
}

// ParseViews 쉼표로 구분된 뷰 이름을 검증하고 중복을 제거
func ParseViews(s string) ([]string, error) {
	views := lo.Uniq(lo.FilterMap(strings.Split(s, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	}))
	if len(views) == 0 {
		return nil, fmt.Errorf("no view selected")
	}
	if unknown := lo.Without(views, AllViews...); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown views %v (valid: %v)", unknown, AllViews)
	}
	return views, nil
}

type runResult struct {
	Dataset *HierarchicalDataset
	Pages   []string
}

// runLogic 데이터셋을 가져와 선택된 뷰들을 output_dir에 생성
func runLogic(ctx context.Context, config DashboardConfig, opts runOptions) (*runResult, error) {
	fetcher, closeFetcher, err := NewFetcher(config)
	if err != nil {
		return nil, err
	}
	defer closeFetcher()

	result := &runResult{}

	if lo.Contains(opts.Views, ViewRadial) {
		Logger.Info("start to build radial view")
		dataset, err := FetchHierarchicalDataset(ctx, fetcher, config)
		if err != nil {
			return nil, fmt.Errorf("fetch hierarchical dataset: %w", err)
		}
		result.Dataset = dataset

		metrics := NewSamplingMetrics()
		var (
			radialPage string
			publishErr error
		)
		recomputer := NewRecomputer(dataset, metrics, func(view *RadialView) {
			radialPage, publishErr = publishRadialView(ctx, config, opts, view)
		})
		recomputer.Recompute(config.Limits())
		if publishErr != nil {
			return nil, fmt.Errorf("save radial view: %w", publishErr)
		}
		result.Pages = append(result.Pages, radialPage)

		if config.MetricsTextfile != "" {
			if err := metrics.WriteTextfile(config.MetricsTextfile); err != nil {
				Logger.WithError(err).Warn("failed to write metrics textfile")
			}
		}
		if opts.Snapshot {
			pngPath := filepath.Join(config.OutputDir, "radial.png")
			if err := SaveSnapshotPNG(config, radialPage, pngPath); err != nil {
				Logger.WithError(err).Warn("failed to capture radial snapshot")
			}
		}
		Logger.Info("complete to build radial view")
	}

	if lo.Contains(opts.Views, ViewNetwork) {
		Logger.Info("start to build network views")
		solution := FetchScalability(ctx, fetcher, config)
		networks := []struct {
			path, title, file string
			directed          bool
		}{
			{config.CitationNetworkPath, "Citation Network", "network_citation.html", true},
			{config.CollaborationNetworkPath, "Collaboration Network", "network_collaboration.html", false},
		}
		for _, n := range networks {
			network, err := FetchNetwork(ctx, fetcher, n.path)
			if err != nil {
				Logger.WithError(err).WithField("path", n.path).Warn("failed to fetch network")
				continue
			}
			htmlPath := filepath.Join(config.OutputDir, n.file)
			page := NetworkPage{Title: n.title, Directed: n.directed, Solution: solution}
			if err := SaveNetworkHTML(network, page, htmlPath); err != nil {
				return nil, fmt.Errorf("save %s: %w", n.file, err)
			}
			result.Pages = append(result.Pages, htmlPath)
		}
		Logger.Info("complete to build network views")
	}

	if lo.Contains(opts.Views, ViewTimeline) {
		Logger.Info("start to build timeline view")
		timeline, err := BuildCoordinatedTimeline(ctx, fetcher, config)
		if err != nil {
			return nil, err
		}
		htmlPath, err := SaveTimelineHTML(timeline, config.OutputDir)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, htmlPath)
		Logger.Info("complete to build timeline view")
	}

	if opts.OpenBrowser {
		for _, page := range result.Pages {
			OpenInBrowser(page)
		}
	}
	return result, nil
}

// publishRadialView 계산된 radial view를 JSON/HTML(선택적으로 SVG)로 저장하고 HTML 경로를 반환
// SVG 렌더링 실패는 경고만 남기고 계속 진행
func publishRadialView(ctx context.Context, config DashboardConfig, opts runOptions, view *RadialView) (string, error) {
	if _, err := SaveRadialJSON(view, config.OutputDir); err != nil {
		return "", err
	}
	htmlPath, err := SaveRadialHTML(view, config.RadialWidth, config.RadialHeight, config.OutputDir)
	if err != nil {
		return "", err
	}
	if opts.SaveGraph {
		if _, err := SaveHierarchySVG(ctx, view, config.OutputDir); err != nil {
			Logger.WithError(err).Warn("failed to render hierarchy graph")
		}
	}
	return htmlPath, nil
}
