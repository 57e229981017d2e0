package globals

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "globals"

// Result label values.
const (
	resultOK     = "ok"
	resultError  = "error"
	resultAbsent = "absent"
)

// syncMetrics is nil when no registerer was configured; every method is a
// no-op on a nil receiver.
type syncMetrics struct {
	persistTotal    *prometheus.CounterVec
	persistDuration prometheus.Histogram
	hydrateTotal    *prometheus.CounterVec
	hydratedCells   *prometheus.CounterVec
}

// newSyncMetrics registers the collectors on reg. Syncers sharing a
// registerer share the collectors already registered there.
func newSyncMetrics(reg prometheus.Registerer) (*syncMetrics, error) {
	if reg == nil {
		return nil, nil
	}
	persistTotal, err := registerCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "persist_total",
		Help:      "Snapshot writes by result",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}
	persistDuration, err := registerCollector(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "persist_duration_seconds",
		Help:      "Time spent encoding and writing a snapshot",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}))
	if err != nil {
		return nil, err
	}
	hydrateTotal, err := registerCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "hydrate_total",
		Help:      "Snapshot hydrations by result",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}
	hydratedCells, err := registerCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "hydrated_cells_total",
		Help:      "Cells applied to live state during hydration by kind",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	return &syncMetrics{
		persistTotal:    persistTotal,
		persistDuration: persistDuration,
		hydrateTotal:    hydrateTotal,
		hydratedCells:   hydratedCells,
	}, nil
}

// registerCollector registers c, or returns the collector of the same type
// already registered under its descriptor.
func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("globals: register metrics: %w", err)
}

func (m *syncMetrics) observePersist(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.persistTotal.WithLabelValues(resultLabel(err)).Inc()
	m.persistDuration.Observe(duration.Seconds())
}

func (m *syncMetrics) observeHydrate(absent bool, variables, switches int, err error) {
	if m == nil {
		return
	}
	result := resultLabel(err)
	if err == nil && absent {
		result = resultAbsent
	}
	m.hydrateTotal.WithLabelValues(result).Inc()
	m.hydratedCells.WithLabelValues("variable").Add(float64(variables))
	m.hydratedCells.WithLabelValues("switch").Add(float64(switches))
}

func resultLabel(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
