package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// createFetchOption은 페이지 내 fetch 요청에 필요한 옵션 객체를 생성합니다.
// 브라우저 세션의 쿠키를 함께 보내기 위해 credentials를 include로 둡니다.
func createFetchOption(httpMethod string) map[string]interface{} {
	return map[string]interface{}{
		"method":      httpMethod,
		"mode":        "cors",
		"cache":       "no-cache",
		"credentials": "include",
		"headers": map[string]string{
			"Accept": "application/json",
		},
	}
}

// executeFetchInPage는 페이지 컨텍스트 내에서 JavaScript fetch API를 실행하고 결과를 가져옵니다.
// 응답이 2xx가 아니면 promise가 reject되어 chromedp.Run이 오류를 반환합니다.
func executeFetchInPage(fetchURL string, options map[string]interface{}, fetchResult *string) chromedp.Action {
	optionsJSON := "{}"
	if options != nil {
		if jsonData, err := json.Marshal(options); err == nil {
			optionsJSON = string(jsonData)
		}
	}
	urlJSON, _ := json.Marshal(fetchURL)

	script := fmt.Sprintf(`
		fetch(%s, %s)
			.then(response => {
				if (!response.ok) {
					throw new Error("response status " + response.status + " " + response.statusText);
				}
				return response.text();
			});
	`, urlJSON, optionsJSON)

	return chromedp.Evaluate(script, fetchResult, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	})
}

// waitUntilJSVariableIsDefined는 특정 JS 변수가 정의될 때까지 기다리는 Action을 반환합니다.
// 대시보드 페이지는 그리기가 끝나면 window.dashboardReady를 정의합니다.
func waitUntilJSVariableIsDefined(variableName string, timeout, interval time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		checkScript := fmt.Sprintf("typeof window.%s !== 'undefined'", variableName)
		var exists bool

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-timeoutCtx.Done():
				return fmt.Errorf("timed out waiting for JavaScript variable %q: %w", variableName, timeoutCtx.Err())
			case <-ticker.C:
				if err := chromedp.Run(timeoutCtx, chromedp.Evaluate(checkScript, &exists)); err != nil {
					continue
				}
				if exists {
					return nil
				}
			}
		}
	})
}

// SaveSnapshotPNG 렌더링된 대시보드 HTML을 원격 크롬에서 열어 전체 화면을 PNG로 저장
func SaveSnapshotPNG(config DashboardConfig, htmlPath, pngPath string) error {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return err
	}

	Logger.WithField("page", absPath).Info("capturing dashboard snapshot")
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), config.ChromeDevtoolsURL)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(Logger.Debugf))
	defer cancelTask()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, time.Duration(config.RequestTimeout)*time.Second)
	defer cancelTimeout()

	var png []byte
	err = chromedp.Run(taskCtx,
		chromedp.EmulateViewport(int64(config.RadialWidth)+400, int64(config.RadialHeight)+200),
		chromedp.Navigate("file://"+filepath.ToSlash(absPath)),
		waitUntilJSVariableIsDefined("dashboardReady", time.Duration(config.RequestTimeout)*time.Second, 200*time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", htmlPath, err)
	}
	return os.WriteFile(pngPath, png, 0644)
}
