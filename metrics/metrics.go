// Package metrics exposes prometheus collectors for source registration and
// task collection.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gcollect"

// Collector groups the processor's metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registrations  *prometheus.CounterVec
	collections    prometheus.Counter
	tasksCollected *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_registrations_total",
			Help:      "Source registration attempts by outcome (accepted or rejected).",
		}, []string{"outcome"}),
		collections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Completed collection runs across all registered sources.",
		}),
		tasksCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_collected_total",
			Help:      "Tasks collected per source.",
		}, []string{"source"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Failed source calls per source.",
		}, []string{"source"}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Duration of a single source call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}

	for _, col := range []prometheus.Collector{
		c.registrations, c.collections, c.tasksCollected, c.sourceFailures, c.sourceDuration,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveRegistration counts one registration attempt.
func (c *Collector) ObserveRegistration(accepted bool) {
	if c == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	c.registrations.WithLabelValues(outcome).Inc()
}

// ObserveSource records the outcome of one source call.
func (c *Collector) ObserveSource(source string, tasks int, err error, d time.Duration) {
	if c == nil {
		return
	}
	c.sourceDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		c.sourceFailures.WithLabelValues(source).Inc()
		return
	}
	c.tasksCollected.WithLabelValues(source).Add(float64(tasks))
}

// ObserveCollection counts one finished collection run.
func (c *Collector) ObserveCollection() {
	if c == nil {
		return
	}
	c.collections.Inc()
}
