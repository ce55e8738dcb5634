package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SamplingMetrics radial view를 만들 때마다 갱신되는 게이지 모음
// 서버가 없으므로 node_exporter textfile collector 형식으로 파일에 기록
type SamplingMetrics struct {
	registry *prometheus.Registry

	Retained          *prometheus.GaugeVec
	TotalCommunities  prometheus.Gauge
	TransformDuration prometheus.Gauge
	LastTransform     prometheus.Gauge
}

func NewSamplingMetrics() *SamplingMetrics {
	m := &SamplingMetrics{
		registry: prometheus.NewRegistry(),
		Retained: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "citeviz",
			Name:      "radial_retained",
			Help:      "Number of items retained in the radial view, by kind.",
		}, []string{"kind"}),
		TotalCommunities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citeviz",
			Name:      "input_communities",
			Help:      "Number of distinct communities in the input dataset.",
		}),
		TransformDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citeviz",
			Name:      "transform_duration_seconds",
			Help:      "Duration of the last radial transform.",
		}),
		LastTransform: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citeviz",
			Name:      "last_transform_timestamp_seconds",
			Help:      "Unix time of the last radial transform.",
		}),
	}
	m.registry.MustRegister(m.Retained, m.TotalCommunities, m.TransformDuration, m.LastTransform)
	return m
}

func (m *SamplingMetrics) Observe(view *RadialView, elapsed time.Duration) {
	m.Retained.WithLabelValues("nodes").Set(float64(view.Summary.Nodes))
	m.Retained.WithLabelValues("links").Set(float64(view.Summary.Links))
	m.Retained.WithLabelValues("communities").Set(float64(view.Summary.Communities))
	m.Retained.WithLabelValues("labels").Set(float64(view.Summary.LabeledCommunities))
	m.TotalCommunities.Set(float64(view.Summary.TotalCommunities))
	m.TransformDuration.Set(elapsed.Seconds())
	m.LastTransform.SetToCurrentTime()
}

func (m *SamplingMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
