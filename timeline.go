package main

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// 0으로 채우는 막대는 이 값까지만 만듦, 더 큰 값은 실제로 나온 값만 막대가 됨
const maxZeroFilledBin = 100

type HistogramBin struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// CoordinatedTimeline 연도별 논문 수 타임라인과, 연도를 선택했을 때 보여줄 특허 인용 히스토그램
type CoordinatedTimeline struct {
	Points     []TimelinePoint        `json:"points"`
	Histograms map[int][]HistogramBin `json:"histograms"`
}

// NormalizeTimeline 연도 오름차순으로 정렬하고 같은 연도는 합산
func NormalizeTimeline(points []TimelinePoint) []TimelinePoint {
	byYear := lo.GroupBy(points, func(p TimelinePoint) int { return p.Year })
	merged := lo.MapToSlice(byYear, func(year int, ps []TimelinePoint) TimelinePoint {
		return TimelinePoint{
			Year:  year,
			Count: lo.SumBy(ps, func(p TimelinePoint) int { return p.Count }),
		}
	})
	slices.SortFunc(merged, func(a, b TimelinePoint) int { return cmp.Compare(a.Year, b.Year) })
	return merged
}

// BinPatentCounts 0 이하 값을 버리고 반올림한 값마다 하나의 막대를 만듦
// 1부터 최댓값(최대 maxZeroFilledBin)까지의 정수 막대는 비어 있어도 0으로 채움
func BinPatentCounts(values []float64) []HistogramBin {
	positive := lo.Filter(values, func(v float64, _ int) bool { return v > 0 })
	if len(positive) == 0 {
		return []HistogramBin{}
	}

	counts := map[int]int{}
	maxValue := lo.Max(positive)
	for i := 1; i <= maxZeroFilledBin && float64(i) <= maxValue; i++ {
		counts[i] = 0
	}
	for _, v := range positive {
		counts[int(math.Round(v))]++
	}

	bins := lo.MapToSlice(counts, func(value, count int) HistogramBin {
		return HistogramBin{Value: value, Count: count}
	})
	slices.SortFunc(bins, func(a, b HistogramBin) int { return cmp.Compare(a.Value, b.Value) })
	return bins
}

// BuildCoordinatedTimeline 타임라인을 가져온 뒤 각 연도의 특허 인용 분포를 순서대로 가져옴
// 특정 연도의 요청이 실패하면 해당 연도는 빈 히스토그램으로 두고 계속 진행
func BuildCoordinatedTimeline(ctx context.Context, f Fetcher, config DashboardConfig) (*CoordinatedTimeline, error) {
	raw, err := FetchTimeline(ctx, f, config)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}

	timeline := &CoordinatedTimeline{
		Points:     NormalizeTimeline(raw),
		Histograms: map[int][]HistogramBin{},
	}
	Logger.WithField("years", len(timeline.Points)).Info("start to fetch patent histograms")

	for i, p := range timeline.Points {
		values, err := FetchPatentsByYear(ctx, f, config, p.Year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			Logger.WithError(err).WithField("year", p.Year).Warn("failed to fetch patents by year")
			values = nil
		}
		timeline.Histograms[p.Year] = BinPatentCounts(values)

		Logger.WithFields(logrus.Fields{
			"year":     p.Year,
			"progress": fmt.Sprintf("%.2f%%", float64(i+1)/float64(len(timeline.Points))*100),
		}).Info("patent histogram fetched")
	}
	return timeline, nil
}
