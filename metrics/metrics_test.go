package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Observe(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	c.ObserveRegistration(true)
	c.ObserveRegistration(true)
	c.ObserveRegistration(false)
	c.ObserveSource("file", 3, nil, time.Millisecond)
	c.ObserveSource("file", 2, nil, time.Millisecond)
	c.ObserveSource("api", 0, errors.New("down"), time.Millisecond)
	c.ObserveCollection()

	if got := testutil.ToFloat64(c.registrations.WithLabelValues("accepted")); got != 2 {
		t.Errorf("Expected 2 accepted registrations, got %v", got)
	}
	if got := testutil.ToFloat64(c.registrations.WithLabelValues("rejected")); got != 1 {
		t.Errorf("Expected 1 rejected registration, got %v", got)
	}
	if got := testutil.ToFloat64(c.tasksCollected.WithLabelValues("file")); got != 5 {
		t.Errorf("Expected 5 tasks from 'file', got %v", got)
	}
	if got := testutil.ToFloat64(c.sourceFailures.WithLabelValues("api")); got != 1 {
		t.Errorf("Expected 1 failure for 'api', got %v", got)
	}
	if got := testutil.ToFloat64(c.collections); got != 1 {
		t.Errorf("Expected 1 collection, got %v", got)
	}
	if n := testutil.CollectAndCount(c.sourceDuration); n != 2 {
		t.Errorf("Expected duration series for 2 sources, got %d", n)
	}
}

func TestCollector_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg); err != nil {
		t.Fatalf("first NewCollector failed: %v", err)
	}
	if _, err := NewCollector(reg); err == nil {
		t.Error("Expected error when registering the collectors twice")
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveRegistration(true)
	c.ObserveSource("x", 1, nil, time.Second)
	c.ObserveCollection()
}
