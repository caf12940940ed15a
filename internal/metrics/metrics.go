package metrics

import (
	"errors"
	"time"

	"main/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	//Request duration histogram with method, endpoint, and status labels
	RequestDuration *prometheus.HistogramVec
	//Login attempts counter
	LoginAttempts *prometheus.CounterVec
	//Total errors counter with error type label
	TotalErrors *prometheus.CounterVec
	//Repository operation duration histogram with operation and status labels
	RepoOpDuration *prometheus.HistogramVec
	//Currently resident (not yet reaped) sessions
	ActiveSessions prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "request_duration_seconds",
			Help: "Duration of HTTP requests in seconds."},
			[]string{"method", "endpoint", "status"},
		),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts.",
		},
			[]string{"status"},
		),
		TotalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "total_errors_total",
				Help: "Number of total errors.",
			},
			[]string{"error_type"},
		),
		RepoOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "repo_op_duration_seconds",
			Help:    "Duration of repository operations in seconds.",
			Buckets: []float64{0.0000001, 0.000001, 0.00001, 0.0001, 0.001, 0.01},
		},
			[]string{"operation", "status"},
		),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of sessions currently held in memory.",
		}),
	}
	// Register metrics with the provided registry
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.LoginAttempts)
	reg.MustRegister(m.TotalErrors)
	reg.MustRegister(m.RepoOpDuration)
	reg.MustRegister(m.ActiveSessions)
	return m
}

// ObserveRepo is a helper method to record the duration and status of repository operations in a consistent way.
func (m *Metrics) ObserveRepo(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()

	status := "ok"
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) || errors.Is(err, storage.ErrSessionNotFound) {
			status = "not_found"
		} else {
			status = "error"
		}
	}

	m.RepoOpDuration.WithLabelValues(operation, status).Observe(duration)
}
