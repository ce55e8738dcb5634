package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Recomputer 입력 데이터셋은 그대로 두고 한도 값이 바뀔 때마다 radial view를 다시 계산
// 여러 계산이 겹치면 가장 나중에 요청된 결과만 게시됨
type Recomputer struct {
	dataset *HierarchicalDataset
	metrics *SamplingMetrics
	publish func(*RadialView)

	generation atomic.Uint64
	mu         sync.Mutex
	published  uint64
	latest     *RadialView
}

func NewRecomputer(dataset *HierarchicalDataset, metrics *SamplingMetrics, publish func(*RadialView)) *Recomputer {
	return &Recomputer{dataset: dataset, metrics: metrics, publish: publish}
}

// Recompute 결과가 게시되었으면 true, 더 새로운 요청에 밀렸으면 false
func (r *Recomputer) Recompute(limits SampleLimits) (*RadialView, bool) {
	gen := r.generation.Add(1)

	started := time.Now()
	view := Transform(r.dataset, limits)
	elapsed := time.Since(started)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen < r.generation.Load() || gen <= r.published {
		Logger.WithField("generation", gen).Debug("discard superseded radial view")
		return view, false
	}
	r.published = gen
	r.latest = view

	if r.metrics != nil {
		r.metrics.Observe(view, elapsed)
	}
	Logger.WithFields(logrus.Fields{
		"generation":  gen,
		"nodes":       view.Summary.Nodes,
		"links":       view.Summary.Links,
		"communities": view.Summary.Communities,
		"elapsed":     elapsed,
	}).Info("radial view recomputed")

	if r.publish != nil {
		r.publish(view)
	}
	return view, true
}

func (r *Recomputer) Latest() *RadialView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}
