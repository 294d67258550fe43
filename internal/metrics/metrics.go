// Package metrics exposes Prometheus instruments for simulations, friendships
// and RPC latency on a dedicated registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option configures a Metrics instance.
type Option func(*Metrics)

// WithNamespace sets the namespace of every metric.
func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry replaces the private registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Metrics) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithScoreBuckets sets the buckets of the total score histogram.
func WithScoreBuckets(buckets []float64) Option {
	return func(m *Metrics) {
		if len(buckets) > 0 {
			m.scoreBuckets = buckets
		}
	}
}

type Metrics struct {
	namespace    string
	registry     *prometheus.Registry
	scoreBuckets []float64

	simulations      *prometheus.CounterVec
	executedElements *prometheus.CounterVec
	totalScores      prometheus.Histogram
	friendshipsAdded prometheus.Counter
	friendConflicts  prometheus.Counter
	requestDurations *prometheus.HistogramVec
}

func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace:    "skatebook",
		registry:     prometheus.NewRegistry(),
		scoreBuckets: prometheus.LinearBuckets(0, 10, 12),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.simulations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "skating",
		Name:      "simulations_total",
		Help:      "Program simulations by outcome",
	}, []string{"outcome"})

	m.executedElements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "skating",
		Name:      "executed_elements_total",
		Help:      "Simulated elements by success flag",
	}, []string{"success"})

	m.totalScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "skating",
		Name:      "program_total_score",
		Help:      "Total score of persisted executions",
		Buckets:   m.scoreBuckets,
	})

	m.friendshipsAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "social",
		Name:      "friendships_added_total",
		Help:      "Friend edges created",
	})

	m.friendConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "social",
		Name:      "friend_conflicts_total",
		Help:      "Friend requests rejected because the pair is already connected",
	})

	m.requestDurations = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "Duration of unary procedures",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})

	return m
}

// ObserveSimulation records one simulation attempt. Successful attempts also
// record the per-element success flags and the total score.
func (m *Metrics) ObserveSimulation(err error, total float64, successes, failures int) {
	if err != nil {
		m.simulations.WithLabelValues("error").Inc()
		return
	}
	m.simulations.WithLabelValues("ok").Inc()
	m.executedElements.WithLabelValues("true").Add(float64(successes))
	m.executedElements.WithLabelValues("false").Add(float64(failures))
	m.totalScores.Observe(total)
}

func (m *Metrics) FriendshipAdded() {
	m.friendshipsAdded.Inc()
}

func (m *Metrics) FriendConflict() {
	m.friendConflicts.Inc()
}

func (m *Metrics) ObserveRequest(procedure, code string, elapsed time.Duration) {
	m.requestDurations.WithLabelValues(procedure, code).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
