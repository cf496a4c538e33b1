// internal/chaos/chaos.go
package chaos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/storage"
	"storefront/internal/storefront"
)

// Experiment injects a storage fault into a live session and checks that the
// shopper-visible behavior still holds.
type Experiment struct {
	Name       string
	Hypothesis string
	Method     []Action
	Workload   func(ctx context.Context, t *Target) error
	Rollback   []Action
	Validation []Assertion
}

// Action is a fault injection or recovery step.
type Action struct {
	Type    string // fail-writes, fail-reads, corrupt, heal, restart
	Execute func(ctx context.Context, t *Target) error
}

// Assertion validates the experiment outcome.
type Assertion struct {
	Message string
	Check   func(ctx context.Context, t *Target) error
}

// Target is the system under test: one shopper session over fault-injectable storage.
type Target struct {
	Store   *storage.FaultyStore
	Service storefront.Service

	logger *zap.Logger
}

func newTarget(ctx context.Context, logger *zap.Logger) *Target {
	t := &Target{Store: storage.NewFaultyStore(storage.NewMemoryStore()), logger: logger}
	t.Restart(ctx)
	return t
}

// Restart replaces the session as a page reload would, restoring the cart from storage.
func (t *Target) Restart(ctx context.Context) {
	products := catalog.NewService(catalog.InitialProducts(), catalog.NewTemplateGenerator(1), t.logger)
	carts := cart.NewStore(ctx, cart.NewKVRepository(t.Store, config.DefaultCartKey), t.logger)
	t.Service = storefront.NewService(products, carts, t.logger)
}

// Result captures one experiment run.
type Result struct {
	Experiment     string        `json:"experiment"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Duration       time.Duration `json:"duration"`
	HypothesisHeld bool          `json:"hypothesis_held"`
	FaultsInjected int           `json:"faults_injected"`
	Violations     []string      `json:"violations"`
	ErrorEvents    []ErrorEvent  `json:"error_events"`
}

type ErrorEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Phase     string    `json:"phase"`
	Error     string    `json:"error"`
}

// Engine runs experiments, each against a fresh Target.
type Engine struct {
	tracer      trace.Tracer
	logger      *zap.Logger
	mu          sync.Mutex
	experiments []Experiment
	results     []Result
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		tracer: otel.Tracer("storefront/chaos"),
		logger: logger.Named("chaos"),
	}
}

func (e *Engine) Register(exps ...Experiment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.experiments = append(e.experiments, exps...)
}

func (e *Engine) Experiments() []Experiment {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Experiment, len(e.experiments))
	copy(out, e.experiments)
	return out
}

// Results returns every result recorded so far.
func (e *Engine) Results() []Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Result, len(e.results))
	copy(out, e.results)
	return out
}

// Run executes one experiment: inject faults, drive the workload, roll back, validate.
// A workload error is a violation, not a Run error: faults must never reach the shopper.
func (e *Engine) Run(ctx context.Context, exp Experiment) Result {
	ctx, span := e.tracer.Start(ctx, "chaos.run_experiment",
		trace.WithAttributes(attribute.String("experiment.name", exp.Name)),
	)
	defer span.End()

	target := newTarget(ctx, e.logger.Named(exp.Name))
	result := Result{Experiment: exp.Name, StartTime: time.Now()}
	record := func(phase string, err error) {
		result.ErrorEvents = append(result.ErrorEvents, ErrorEvent{Timestamp: time.Now(), Phase: phase, Error: err.Error()})
		span.RecordError(err)
	}

	span.AddEvent("injecting_faults")
	for _, a := range exp.Method {
		if err := a.Execute(ctx, target); err != nil {
			record(a.Type, err)
		}
	}

	span.AddEvent("running_workload")
	if exp.Workload != nil {
		if err := exp.Workload(ctx, target); err != nil {
			record("workload", err)
			result.Violations = append(result.Violations, fmt.Sprintf("workload surfaced an error: %v", err))
		}
	}
	result.FaultsInjected = target.Store.Injected()

	span.AddEvent("rolling_back")
	for _, a := range exp.Rollback {
		if err := a.Execute(ctx, target); err != nil {
			record(a.Type, err)
		}
	}

	span.AddEvent("validating_assertions")
	for _, as := range exp.Validation {
		if err := as.Check(ctx, target); err != nil {
			result.Violations = append(result.Violations, fmt.Sprintf("%s: %v", as.Message, err))
		}
	}

	result.HypothesisHeld = len(result.Violations) == 0
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	e.mu.Lock()
	e.results = append(e.results, result)
	e.mu.Unlock()

	span.SetAttributes(
		attribute.Bool("hypothesis_held", result.HypothesisHeld),
		attribute.Int("violations", len(result.Violations)),
		attribute.Int("faults_injected", result.FaultsInjected),
	)
	e.logger.Info("experiment finished",
		zap.String("experiment", exp.Name),
		zap.Bool("hypothesis_held", result.HypothesisHeld),
		zap.Int("faults_injected", result.FaultsInjected))
	return result
}

// ErrHypothesisViolated is returned by RunAll when any experiment's hypothesis fails.
var ErrHypothesisViolated = errors.New("chaos: hypothesis violated")

// RunAll runs every registered experiment in order and prints each result to w.
func (e *Engine) RunAll(ctx context.Context, w io.Writer) error {
	ctx, span := e.tracer.Start(ctx, "chaos.run_all")
	defer span.End()

	failed := 0
	exps := e.Experiments()
	for i, exp := range exps {
		fmt.Fprintf(w, "Experiment %d/%d: %s\n", i+1, len(exps), exp.Name)
		fmt.Fprintf(w, "  Hypothesis: %s\n", exp.Hypothesis)
		r := e.Run(ctx, exp)
		PrintResult(w, r)
		if !r.HypothesisHeld {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d experiments", ErrHypothesisViolated, failed, len(exps))
	}
	return nil
}

func PrintResult(w io.Writer, r Result) {
	if r.HypothesisHeld {
		fmt.Fprintf(w, "  held (%d faults injected, %s)\n", r.FaultsInjected, r.Duration)
		return
	}
	fmt.Fprintf(w, "  VIOLATED (%d faults injected)\n", r.FaultsInjected)
	for _, v := range r.Violations {
		fmt.Fprintf(w, "    - %s\n", v)
	}
}
