package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the service's collectors on a private registry.
type metrics struct {
	registry        *prometheus.Registry
	forecasts       *prometheus.CounterVec
	forecastSeconds prometheus.Histogram
	comparisons     prometheus.Counter
	storedModels    prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fcast",
			Name:      "forecasts_total",
			Help:      "Forecasts generated, by outcome.",
		}, []string{"outcome"}),
		forecastSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fcast",
			Name:      "forecast_duration_seconds",
			Help:      "Time spent generating a single forecast.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fcast",
			Name:      "comparisons_total",
			Help:      "Scenario comparisons computed.",
		}),
		storedModels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fcast",
			Name:      "stored_models",
			Help:      "Models present after the last directory sync.",
		}),
	}
	m.registry.MustRegister(
		m.forecasts,
		m.forecastSeconds,
		m.comparisons,
		m.storedModels,
		collectors.NewGoCollector(),
	)
	return m
}
