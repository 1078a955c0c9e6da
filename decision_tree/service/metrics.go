package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	evaluations *prometheus.CounterVec
	cacheHits   prometheus.Counter
	duration    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "igsplit_split_evaluations_total",
				Help: "Number of split evaluations, by attribute type and result.",
			}, []string{"type", "result"}),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "igsplit_split_cache_hits_total",
				Help: "Number of split requests answered from the cache.",
			}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "igsplit_split_duration_seconds",
				Help:    "Latency of a single split evaluation.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			}, []string{"type"}),
	}
	reg.MustRegister(m.evaluations, m.cacheHits, m.duration)
	return m
}
