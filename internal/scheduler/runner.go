package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tasnim.dev/instance-scheduler/internal/schedule"
)

// Clock supplies the evaluation time. Tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Target is one resource kind to run. Open sets up provider connectivity;
// it is called at the start of that kind's run so a failure only affects it.
type Target struct {
	Kind Kind
	Open func(ctx context.Context) (Provider, error)
}

// Runner runs each target's pipeline in turn.
type Runner struct {
	targets []Target
	opts    Options
	loc     *time.Location
	clock   Clock
	log     zerolog.Logger
}

func NewRunner(opts Options, loc *time.Location, log zerolog.Logger, targets ...Target) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		targets: targets,
		opts:    opts,
		loc:     loc,
		clock:   RealClock(),
		log:     log,
	}
}

// WithClock replaces the wall clock.
func (r *Runner) WithClock(c Clock) *Runner {
	r.clock = c
	return r
}

// KindReport is the outcome of one kind. Summary is nil when the provider could not be opened.
type KindReport struct {
	Kind    Kind
	Summary *Summary
	Err     error
}

// Report is the outcome of one invocation.
type Report struct {
	Kinds []KindReport
}

// Err joins the errors of every failed kind.
func (r *Report) Err() error {
	var errs []error
	for _, k := range r.Kinds {
		if k.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k.Kind, k.Err))
		}
	}
	return errors.Join(errs...)
}

// Run runs every target. One kind's failure never prevents the next from running.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{}
	for _, t := range r.targets {
		report.Kinds = append(report.Kinds, r.runKind(ctx, t))
	}
	return report
}

func (r *Runner) runKind(ctx context.Context, t Target) KindReport {
	log := r.log.With().Str("kind", string(t.Kind)).Logger()

	provider, err := t.Open(ctx)
	if err != nil {
		log.Error().Err(err).Msg("unable to connect")
		return KindReport{Kind: t.Kind, Err: err}
	}

	now := schedule.At(r.clock.Now(), r.loc)
	summary, err := NewPipeline(provider, r.opts, r.log).Run(ctx, now)
	return KindReport{Kind: t.Kind, Summary: summary, Err: err}
}

// Result is the serialisable form of a KindReport.
type Result struct {
	Kind     Kind     `json:"kind"`
	Started  []string `json:"started"`
	Stopped  []string `json:"stopped"`
	Excluded []string `json:"excluded"`
	Skipped  []string `json:"skipped"`
	Error    string   `json:"error,omitempty"`
}

// Results converts the report for JSON output.
func (r *Report) Results() []Result {
	out := make([]Result, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		res := Result{Kind: k.Kind, Started: []string{}, Stopped: []string{}, Excluded: []string{}, Skipped: []string{}}
		if k.Summary != nil {
			res.Started = ids(k.Summary.Started)
			res.Stopped = ids(k.Summary.Stopped)
			res.Excluded = ids(k.Summary.Excluded)
			res.Skipped = ids(k.Summary.Skipped)
		}
		if k.Err != nil {
			res.Error = k.Err.Error()
		}
		out = append(out, res)
	}
	return out
}
