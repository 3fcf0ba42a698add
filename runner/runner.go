// Package runner executes suite scenarios outside of go test.
//
// Each scenario gets its own report entry and runs on its own goroutine with a
// T whose FailNow unwinds the goroutine, so deferred fixture cleanups always
// run. Up to Parallelism scenarios run at once. The report is flushed after
// every scenario by Report.Finish.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/jmgilman/go/ghprobe/suite"
	"golang.org/x/sync/errgroup"
)

// Runner executes scenarios against a shared environment.
type Runner struct {
	env         *suite.Env
	report      *report.Report
	parallelism int
	logger      *slog.Logger
	newID       func() string
}

// Option configures a Runner.
type Option func(*Runner) error

// WithParallelism sets how many scenarios may run at once. The default is 1.
func WithParallelism(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			err := errors.New(errors.CodeInvalidInput, "parallelism must be at least 1")
			return errors.WithContext(err, "parallelism", n)
		}
		r.parallelism = n
		return nil
	}
}

// WithLogger sets the logger. Nil keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// WithIDGenerator sets the function producing execution ids.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) error {
		if fn == nil {
			return errors.New(errors.CodeInvalidInput, "id generator cannot be nil")
		}
		r.newID = fn
		return nil
	}
}

// New creates a runner that records into rep.
func New(env *suite.Env, rep *report.Report, opts ...Option) (*Runner, error) {
	if env == nil {
		return nil, errors.New(errors.CodeInvalidInput, "environment cannot be nil")
	}
	if rep == nil {
		return nil, errors.New(errors.CodeInvalidInput, "report cannot be nil")
	}

	r := &Runner{
		env:         env,
		report:      rep,
		parallelism: 1,
		logger:      slog.Default(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Result is the outcome of one scenario.
type Result struct {
	Name     string
	Group    string
	EntryID  string
	Err      error
	Duration time.Duration
}

// Passed reports whether the scenario passed.
func (r Result) Passed() bool { return r.Err == nil }

// Summary is the outcome of a run. Results are in scenario order and only
// include scenarios that started.
type Summary struct {
	Results  []Result
	Skipped  int
	Duration time.Duration
}

// Passed returns the number of passed scenarios.
func (s Summary) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Passed() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed scenarios.
func (s Summary) Failed() int {
	return len(s.Results) - s.Passed()
}

// Failures returns the failed results.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether every scenario ran and passed.
func (s Summary) OK() bool {
	return s.Failed() == 0 && s.Skipped == 0
}

// Run executes scenarios and waits for them to finish.
//
// A failing scenario is not an error: it is recorded in the report and the
// summary. The returned error reports problems with the report itself, such
// as a flush that could not be written. Cancelling ctx stops new scenarios
// from starting; those are counted as skipped.
func (r *Runner) Run(ctx context.Context, scenarios []suite.Scenario) (Summary, error) {
	start := time.Now()
	results := make([]*Result, len(scenarios))

	var g errgroup.Group
	g.SetLimit(r.parallelism)

	for i, s := range scenarios {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := r.runOne(ctx, s)
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	summary := Summary{Duration: time.Since(start)}
	for _, res := range results {
		if res == nil {
			summary.Skipped++
			continue
		}
		summary.Results = append(summary.Results, *res)
	}

	if summary.Skipped > 0 {
		r.logger.Warn("run interrupted", "skipped", summary.Skipped, "error", ctx.Err())
	}
	return summary, err
}

func (r *Runner) runOne(ctx context.Context, s suite.Scenario) (*Result, error) {
	id := r.newID()
	entry, err := r.report.Start(id, s.Name)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With("scenario", s.Name, "id", id)
	logger.Info("scenario started")

	start := time.Now()
	failure := execute(ctx, s, r.env, entry)
	res := &Result{
		Name:     s.Name,
		Group:    s.Group,
		EntryID:  id,
		Err:      failure,
		Duration: time.Since(start),
	}

	if failure != nil {
		logger.Warn("scenario failed", "duration", res.Duration, "error", failure)
	} else {
		logger.Info("scenario passed", "duration", res.Duration)
	}

	if err := r.report.Finish(id, failure); err != nil {
		logger.Error("failed to finish report entry", "error", err)
		return res, err
	}
	return res, nil
}

// execute runs s on a fresh goroutine and returns its failure, if any.
func execute(ctx context.Context, s suite.Scenario, env *suite.Env, entry *report.Entry) error {
	t := &scenarioT{ctx: ctx}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			// recover is nil when FailNow unwinds via runtime.Goexit.
			if v := recover(); v != nil {
				t.Errorf("panic: %v", v)
			}
		}()
		s.Run(t, env, entry)
	}()
	<-done

	return t.err()
}

// scenarioT implements suite.T for the runner.
type scenarioT struct {
	ctx context.Context

	mu       sync.Mutex
	failed   bool
	messages []string
}

func (t *scenarioT) Errorf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
	t.messages = append(t.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (t *scenarioT) FailNow() {
	t.mu.Lock()
	t.failed = true
	t.mu.Unlock()
	runtime.Goexit()
}

func (t *scenarioT) Helper() {}

func (t *scenarioT) Context() context.Context { return t.ctx }

func (t *scenarioT) err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.failed {
		return nil
	}
	if len(t.messages) == 0 {
		return errors.New(errors.CodeExecutionFailed, "test failed")
	}
	return errors.New(errors.CodeExecutionFailed, strings.Join(t.messages, "\n"))
}
