package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrUnknownFetchMode = errors.New("unknown fetch mode")
)

// Fetcher 백엔드 API 경로(api_base_url 기준 상대 경로)에 대한 응답 본문을 가져옴
type Fetcher interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// NewFetcher 설정의 fetch_mode에 맞는 Fetcher를 생성
// 반환된 close 함수는 브라우저 세션 등 부가 자원을 정리하므로 반드시 호출해야 함
func NewFetcher(config DashboardConfig) (Fetcher, func(), error) {
	var (
		base    Fetcher
		closeFn = func() {}
	)
	switch config.FetchMode {
	case "http":
		base = &httpFetcher{
			baseURL: strings.TrimSuffix(config.ApiBaseUrl, "/"),
			client:  &http.Client{Timeout: time.Duration(config.RequestTimeout) * time.Second},
		}
	case "file":
		base = &fileFetcher{dir: config.DatasetDir}
	case "browser":
		bf, err := newBrowserFetcher(config)
		if err != nil {
			return nil, closeFn, err
		}
		base, closeFn = bf, bf.Close
	default:
		return nil, closeFn, fmt.Errorf("%w: %q", ErrUnknownFetchMode, config.FetchMode)
	}
	return &pacedFetcher{next: base, interval: time.Duration(config.IntervalPerRequest) * time.Millisecond}, closeFn, nil
}

type httpFetcher struct {
	baseURL string
	client  *http.Client
}

func (f *httpFetcher) Get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUnexpectedStatus, path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// fileFetcher 백엔드 응답을 미리 저장해 둔 디렉토리에서 읽음
// "/network/citation" -> network_citation.json, "/data/patents-by-year?year=2001" -> data_patents-by-year_year=2001.json
type fileFetcher struct {
	dir string
}

func mirrorFileName(path string) string {
	name := strings.TrimPrefix(path, "/")
	name = strings.NewReplacer("/", "_", "?", "_", "&", "_").Replace(name)
	return name + ".json"
}

func (f *fileFetcher) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(f.dir, mirrorFileName(path)))
}

// pacedFetcher 요청 사이에 최소 간격을 두어 백엔드에 의도치 않은 부하를 주지 않도록 함
type pacedFetcher struct {
	next     Fetcher
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (p *pacedFetcher) Get(ctx context.Context, path string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if wait := p.interval - time.Since(p.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
	defer func() { p.last = time.Now() }()

	Logger.WithField("path", path).Debug("fetch")
	return p.next.Get(ctx, path)
}

// browserFetcher 원격 크롬 페이지 안에서 fetch를 실행
// 백엔드가 브라우저 세션(쿠키)을 요구하는 경우 사용
type browserFetcher struct {
	baseURL     string
	taskCtx     context.Context
	cancelAlloc context.CancelFunc
	cancelTask  context.CancelFunc
}

func newBrowserFetcher(config DashboardConfig) (*browserFetcher, error) {
	Logger.WithField("devtools", config.ChromeDevtoolsURL).Info("init chrome connection")
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), config.ChromeDevtoolsURL)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(Logger.Debugf))

	bf := &browserFetcher{
		baseURL:     strings.TrimSuffix(config.ApiBaseUrl, "/"),
		taskCtx:     taskCtx,
		cancelAlloc: cancelAlloc,
		cancelTask:  cancelTask,
	}

	// 같은 출처의 페이지에 먼저 접속해야 쿠키가 포함된 요청이 가능함
	if err := chromedp.Run(taskCtx, chromedp.Navigate(bf.baseURL)); err != nil {
		bf.Close()
		return nil, fmt.Errorf("navigate to %s: %w", bf.baseURL, err)
	}
	return bf, nil
}

func (f *browserFetcher) Get(ctx context.Context, path string) ([]byte, error) {
	// chromedp는 자신의 컨텍스트로만 동작하므로 호출자의 데드라인만 옮겨옴
	runCtx, cancel := f.taskCtx, context.CancelFunc(func() {})
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(f.taskCtx, deadline)
	}
	defer cancel()

	result := ""
	err := chromedp.Run(runCtx,
		executeFetchInPage(f.baseURL+path, createFetchOption("GET"), &result),
	)
	if err != nil {
		return nil, fmt.Errorf("in-page fetch %s: %w", path, err)
	}
	return []byte(result), nil
}

func (f *browserFetcher) Close() {
	f.cancelTask()
	f.cancelAlloc()
}

func fetchJSON[T any](ctx context.Context, f Fetcher, path string) (T, error) {
	var v T
	body, err := f.Get(ctx, path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

// FetchHierarchicalDataset 커뮤니티 정보가 포함된 전체 인용 그래프를 가져옴
func FetchHierarchicalDataset(ctx context.Context, f Fetcher, config DashboardConfig) (*HierarchicalDataset, error) {
	dataset, err := fetchJSON[HierarchicalDataset](ctx, f, config.HierarchicalPath)
	if err != nil {
		return nil, err
	}
	Logger.WithFields(logrus.Fields{
		"nodes":       len(dataset.Nodes),
		"links":       len(dataset.Links),
		"communities": dataset.TotalCommunities,
	}).Info("hierarchical dataset fetched")
	return &dataset, nil
}

func FetchNetwork(ctx context.Context, f Fetcher, path string) (*NetworkData, error) {
	network, err := fetchJSON[NetworkData](ctx, f, path)
	if err != nil {
		return nil, err
	}
	Logger.WithFields(logrus.Fields{
		"path":  path,
		"nodes": len(network.Nodes),
		"links": len(network.Links),
	}).Info("network fetched")
	return &network, nil
}

func FetchTimeline(ctx context.Context, f Fetcher, config DashboardConfig) ([]TimelinePoint, error) {
	return fetchJSON[[]TimelinePoint](ctx, f, config.TimelinePath)
}

func FetchPatentsByYear(ctx context.Context, f Fetcher, config DashboardConfig, year int) ([]float64, error) {
	return fetchJSON[[]float64](ctx, f, fmt.Sprintf(config.PatentsByYearPath, year))
}

// FetchScalability 네트워크 페이지에 덧붙일 설명 문단을 가져옴
// 선택 사항이므로 실패하면 경고만 남기고 빈 문자열을 반환
func FetchScalability(ctx context.Context, f Fetcher, config DashboardConfig) string {
	solution, err := fetchJSON[ScalabilitySolution](ctx, f, config.ScalabilityPath)
	if err != nil {
		Logger.WithError(err).WithField("path", config.ScalabilityPath).Warn("failed to fetch scalability solution")
		return ""
	}
	return solution.SolutionParagraph
}
