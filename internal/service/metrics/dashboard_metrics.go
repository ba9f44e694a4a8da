package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    EndpointLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "healthpull",
            Subsystem: "dashboard",
            Name:      "latency_seconds",
            Help:      "Latency of dashboard endpoints",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"endpoint"},
    )

    RateLimited = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "healthpull",
            Subsystem: "dashboard",
            Name:      "rate_limited_total",
            Help:      "Requests rejected by the per-session limiter",
        },
        []string{"endpoint"},
    )

    LiveConnections = prometheus.NewGauge(
        prometheus.GaugeOpts{
            Namespace: "healthpull",
            Subsystem: "dashboard",
            Name:      "live_connections",
            Help:      "Open live-update websocket connections",
        },
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(EndpointLatency, RateLimited, LiveConnections)
    })
}
