package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c-m3-codin/gcollect/constants"
	"github.com/c-m3-codin/gcollect/models"
)

// APISource stands in for a network-backed source. It never dials the
// endpoint: it waits for a fixed latency and returns three canned records
// mentioning the endpoint. Every call yields fresh task IDs.
type APISource struct {
	endpoint string
	latency  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	mockData []models.TaskRecord
}

type APIOption func(*APISource)

// WithLatency overrides the simulated call latency.
func WithLatency(d time.Duration) APIOption {
	return func(a *APISource) { a.latency = d }
}

// WithSleep replaces the wait used to simulate latency.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) APIOption {
	return func(a *APISource) { a.sleep = sleep }
}

// NewAPISource returns a stub source for endpoint. An empty endpoint uses
// constants.DefaultAPIEndpoint.
func NewAPISource(endpoint string, opts ...APIOption) *APISource {
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}
	a := &APISource{
		endpoint: endpoint,
		latency:  constants.DefaultAPILatency,
		sleep:    sleepContext,
	}
	for i := 1; i <= 3; i++ {
		a.mockData = append(a.mockData, models.TaskRecord{
			Payload: fmt.Sprintf("API data from %s - item %d", endpoint, i),
		})
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *APISource) Name() string { return "api:" + a.endpoint }

func (a *APISource) GetTasks() ([]models.Task, error) {
	return a.GetTasksContext(context.Background())
}

func (a *APISource) GetTasksContext(ctx context.Context) ([]models.Task, error) {
	slog.Info("Calling task API", "endpoint", a.endpoint)
	records, err := a.simulateAPICall(ctx)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", a.endpoint, err)
	}

	tasks := make([]models.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, models.NewTask(rec.Payload))
	}
	return tasks, nil
}

func (a *APISource) simulateAPICall(ctx context.Context) ([]models.TaskRecord, error) {
	if err := a.sleep(ctx, a.latency); err != nil {
		return nil, err
	}
	return a.mockData, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
