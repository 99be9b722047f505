package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angeloszaimis/netcheck/internal/checks"
	"github.com/angeloszaimis/netcheck/internal/metrics"
	"github.com/angeloszaimis/netcheck/internal/probe"
	"github.com/angeloszaimis/netcheck/internal/report"
	"github.com/angeloszaimis/netcheck/internal/request"
)

// Registry is the source of checks and their request descriptors.
type Registry interface {
	Select() []checks.Definition
	Build(def checks.Definition) (request.Descriptor, error)
}

type Executor interface {
	Execute(ctx context.Context, desc request.Descriptor, transport request.Transport, description string, success probe.StatusSet) probe.Outcome
}

// Reporter receives the finished table of one run.
type Reporter interface {
	Report(ctx context.Context, topic string, table report.Table, correlationID string)
}

type Runner struct {
	registry Registry
	executor Executor
	reporter Reporter
	logger   *slog.Logger
	events   chan<- metrics.MetricEvent
}

type Option func(*Runner)

// WithEvents makes the runner emit check events to ch. Events are dropped
// when ch is full.
func WithEvents(ch chan<- metrics.MetricEvent) Option {
	return func(r *Runner) {
		r.events = ch
	}
}

func New(registry Registry, executor Executor, reporter Reporter, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		executor: executor,
		reporter: reporter,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FireChecks runs all selected checks in parallel and waits for them. The
// outcomes are returned in registry order, logged through the reporter under
// topic and correlationID, and finally passed to onComplete if it is not nil.
func (r *Runner) FireChecks(ctx context.Context, topic, correlationID string, onComplete func([]probe.Outcome)) []probe.Outcome {
	defs := r.registry.Select()
	outcomes := make([]probe.Outcome, len(defs))

	r.logger.Debug("Firing checks",
		slog.Int("checks", len(defs)),
		slog.String("correlation_id", correlationID))

	var wg sync.WaitGroup
	for i, def := range defs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = r.run(ctx, def)
		}()
	}
	wg.Wait()

	r.reporter.Report(ctx, topic, report.Tabulate(outcomes), correlationID)

	if onComplete != nil {
		onComplete(outcomes)
	}

	return outcomes
}

func (r *Runner) run(ctx context.Context, def checks.Definition) probe.Outcome {
	r.emit(metrics.MetricEvent{
		Type:      metrics.EventCheckStarted,
		Timestamp: time.Now(),
		Check:     def.Description,
	})

	var outcome probe.Outcome
	desc, err := r.registry.Build(def)
	if err != nil {
		r.logger.Error("Failed to build request",
			slog.String("check", def.Description),
			slog.String("error", err.Error()))
		outcome = probe.Outcome{
			Description: def.Description,
			Error:       err.Error(),
			Result:      probe.Failed,
		}
	} else {
		outcome = r.executor.Execute(ctx, desc, def.Transport, def.Description, def.Success)
	}

	r.emit(metrics.MetricEvent{
		Type:       metrics.EventCheckCompleted,
		Timestamp:  time.Now(),
		Check:      def.Description,
		Duration:   outcome.Duration,
		StatusCode: outcome.StatusCode,
		Passed:     outcome.Passed(),
	})

	return outcome
}

func (r *Runner) emit(event metrics.MetricEvent) {
	if r.events == nil {
		return
	}

	select {
	case r.events <- event:
	default:
	}
}
