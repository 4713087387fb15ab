// Package processor aggregates tasks from registered sources.
//
// Sources are invoked in registration order. A failing, panicking or slow
// source never aborts the collection: its error is logged and recorded in the
// Report, and the tasks of every other source are still returned.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c-m3-codin/gcollect/metrics"
	"github.com/c-m3-codin/gcollect/models"
)

// Processor holds an append-only, ordered list of task sources.
// It is safe for concurrent use.
type Processor struct {
	mu      sync.RWMutex
	sources []models.TaskSource

	concurrency   int
	sourceTimeout time.Duration
	metrics       *metrics.Collector
	logger        *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency invokes up to n sources at once. Values below 2 keep the
// sequential behavior. Output order is the same either way.
func WithConcurrency(n int) Option {
	return func(p *Processor) { p.concurrency = n }
}

// WithSourceTimeout bounds every source call by d. Zero disables the bound.
func WithSourceTimeout(d time.Duration) Option {
	return func(p *Processor) { p.sourceTimeout = d }
}

// WithMetrics records registrations and source calls on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Processor) { p.metrics = c }
}

// WithLogger sets the logger. By default slog.Default() is used at call time.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// New creates an empty Processor.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// SourceName returns the name a source reports through models.NamedSource,
// or its dynamic type.
func SourceName(src any) string {
	if named, ok := src.(models.NamedSource); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", src)
}

// Register appends source if it implements models.TaskSource and is not nil.
// It reports whether the source was accepted; rejected values are logged and
// otherwise ignored. The same source may be registered more than once.
func (p *Processor) Register(source any) bool {
	src, ok := source.(models.TaskSource)
	if !ok || isNil(source) {
		p.log().Warn("Source rejected: does not implement TaskSource", "source_type", fmt.Sprintf("%T", source))
		p.metrics.ObserveRegistration(false)
		return false
	}

	p.mu.Lock()
	p.sources = append(p.sources, src)
	count := len(p.sources)
	p.mu.Unlock()

	p.log().Info("Source registered successfully", "source_name", SourceName(src), "source_count", count)
	p.metrics.ObserveRegistration(true)
	return true
}

// SourceCount returns the number of registered sources.
func (p *Processor) SourceCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sources)
}

// CollectAll gathers the tasks of every registered source. It never fails;
// see Collect for per-source outcomes.
func (p *Processor) CollectAll() []models.Task {
	return p.CollectAllContext(context.Background())
}

// CollectAllContext is CollectAll with a context for cancellation. Sources
// not yet started when ctx is done are skipped and contribute no tasks.
func (p *Processor) CollectAllContext(ctx context.Context) []models.Task {
	return p.Collect(ctx).Tasks
}

type outcome struct {
	tasks  []models.Task
	result SourceResult
}

// Collect invokes every source registered at call time and returns the
// aggregated tasks with one SourceResult per source. Tasks are ordered by
// source registration, then by the order each source produced them.
func (p *Processor) Collect(ctx context.Context) Report {
	p.mu.RLock()
	snapshot := slices.Clone(p.sources)
	p.mu.RUnlock()

	outcomes := make([]outcome, len(snapshot))
	if p.concurrency > 1 && len(snapshot) > 1 {
		var g errgroup.Group
		g.SetLimit(p.concurrency)
		for i, src := range snapshot {
			g.Go(func() error {
				outcomes[i] = p.collectOne(ctx, i, src)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, src := range snapshot {
			outcomes[i] = p.collectOne(ctx, i, src)
		}
	}

	report := Report{
		Tasks:   make([]models.Task, 0),
		Sources: make([]SourceResult, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		report.Tasks = append(report.Tasks, o.tasks...)
		report.Sources = append(report.Sources, o.result)
	}

	p.metrics.ObserveCollection()
	p.log().Info("Collection finished",
		"source_count", len(snapshot),
		"task_count", len(report.Tasks),
		"failed_sources", len(report.Failed()))
	return report
}

func (p *Processor) collectOne(ctx context.Context, index int, src models.TaskSource) outcome {
	name := SourceName(src)
	start := time.Now()

	tasks, err := p.invoke(ctx, src)
	if err == nil && tasks == nil {
		err = ErrNilTasks
	}
	if err != nil {
		tasks = nil
	}
	elapsed := time.Since(start)

	p.metrics.ObserveSource(name, len(tasks), err, elapsed)
	if err != nil {
		p.log().Error("Failed to collect tasks from source",
			"source_name", name,
			"source_index", index,
			"error", err)
	} else {
		p.log().Info("Collected tasks from source",
			"source_name", name,
			"source_index", index,
			"task_count", len(tasks),
			"duration", elapsed)
	}

	return outcome{
		tasks:  tasks,
		result: SourceResult{Index: index, Name: name, Tasks: len(tasks), Err: err, Duration: elapsed},
	}
}

// invoke runs one source call, honoring cancellation and the per-source
// timeout. A plain TaskSource cannot be interrupted: when the deadline passes
// the processor stops waiting and discards whatever it returns later.
func (p *Processor) invoke(ctx context.Context, src models.TaskSource) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collection cancelled before source ran: %w", err)
	}

	if p.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.sourceTimeout)
		defer cancel()
	}
	if ctx.Done() == nil {
		return p.call(ctx, src)
	}

	type result struct {
		tasks []models.Task
		err   error
	}
	done := make(chan result, 1)
	go func() {
		tasks, err := p.call(ctx, src)
		done <- result{tasks, err}
	}()

	select {
	case r := <-done:
		return r.tasks, r.err
	case <-ctx.Done():
		if p.sourceTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", ErrSourceTimeout, p.sourceTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("collection cancelled: %w", ctx.Err())
	}
}

func (p *Processor) call(ctx context.Context, src models.TaskSource) (tasks []models.Task, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log().Error("Recovered panic in source",
				"source_name", SourceName(src),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			tasks, err = nil, fmt.Errorf("%w: %v", ErrSourcePanic, r)
		}
	}()

	if cs, ok := src.(models.ContextTaskSource); ok {
		return cs.GetTasksContext(ctx)
	}
	return src.GetTasks()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func:
		return rv.IsNil()
	}
	return false
}
