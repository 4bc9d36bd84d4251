package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JetWong0810/football-betting-system/pkg/betparse"
)

var (
	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betting",
		Subsystem: "slip",
		Name:      "parse_total",
		Help:      "Slip parse attempts by outcome.",
	}, []string{"outcome"})

	parseLegs = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betting",
		Subsystem: "slip",
		Name:      "parse_legs",
		Help:      "Bet legs recovered per successfully parsed slip.",
		Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
	})

	parseConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betting",
		Subsystem: "slip",
		Name:      "parse_confidence",
		Help:      "Field-level confidence of parsed slips.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betting",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
)

func observeParse(envelope betparse.Envelope) {
	if !envelope.Success {
		parseTotal.WithLabelValues("failure").Inc()
		return
	}
	parseTotal.WithLabelValues("success").Inc()
	if envelope.Data != nil {
		parseLegs.Observe(float64(len(envelope.Data.Legs)))
		parseConfidence.Observe(envelope.Data.Confidence)
	}
}
