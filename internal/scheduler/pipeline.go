package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"tasnim.dev/instance-scheduler/internal/schedule"
)

// Options configures a pipeline. The same options apply to every kind.
type Options struct {
	TagName      string
	DefaultValue string
	ForceCreate  bool
	Exclude      []string
	DryRun       bool
}

// Pipeline lists one kind's resources and starts or stops each according
// to its schedule tag. Resources are processed one at a time in listing order.
type Pipeline struct {
	provider Provider
	opts     Options
	exclude  map[string]bool
	log      zerolog.Logger
}

func NewPipeline(p Provider, opts Options, log zerolog.Logger) *Pipeline {
	exclude := make(map[string]bool, len(opts.Exclude))
	for _, id := range opts.Exclude {
		exclude[id] = true
	}
	return &Pipeline{
		provider: p,
		opts:     opts,
		exclude:  exclude,
		log:      log.With().Str("kind", string(p.Kind())).Logger(),
	}
}

// Run evaluates every resource at now. The returned error is the
// *ActionError that aborted the run, if any; the summary holds what was
// done up to that point.
func (p *Pipeline) Run(ctx context.Context, now schedule.Moment) (*Summary, error) {
	p.log.Info().
		Int("hour", now.Hour).
		Str("day", string(now.Day)).
		Bool("dry_run", p.opts.DryRun).
		Msg("checking for instances to start or stop")

	summary := &Summary{Kind: p.provider.Kind()}
	for _, r := range p.list(ctx) {
		if err := p.process(ctx, r, now, summary); err != nil {
			p.log.Error().Err(err).Str("resource", r.ID).Msg("aborting run")
			summary.Log(p.log)
			return summary, err
		}
	}

	summary.Log(p.log)
	return summary, nil
}

func (p *Pipeline) list(ctx context.Context) []Resource {
	resources, err := p.provider.List(ctx)
	if err != nil {
		p.log.Error().Err(&ListingError{Kind: p.provider.Kind(), Err: err}).Msg("unable to list instances")
		return nil
	}
	if len(resources) == 0 {
		p.log.Error().Msg("unable to find any instances, please check configuration")
		return nil
	}
	p.log.Info().Int("count", len(resources)).Msg("checking instances found")
	return resources
}

func (p *Pipeline) process(ctx context.Context, r Resource, now schedule.Moment, s *Summary) error {
	log := p.log.With().Str("resource", r.ID).Str("name", r.Name).Logger()
	log.Debug().Str("state", r.Status).Msg("evaluating instance")

	if p.exclude[r.ID] {
		log.Info().Msg("ignoring instance in exclusion list")
		s.Excluded = append(s.Excluded, r)
		return nil
	}

	value, ok, err := p.provider.ReadTag(ctx, r, p.opts.TagName)
	if err != nil {
		log.Error().Err(err).Str("tag", p.opts.TagName).Msg("unable to read schedule tag")
		s.Skipped = append(s.Skipped, r)
		return nil
	}
	if !ok || value == "" {
		p.bootstrap(ctx, r, log)
		s.Excluded = append(s.Excluded, r)
		return nil
	}

	log.Info().Str("schedule", value).Msg("schedule found")
	rs, err := schedule.Parse(value)
	if err != nil {
		log.Error().Err(err).Str("tag", p.opts.TagName).Msg("invalid schedule tag value, please check")
		s.Skipped = append(s.Skipped, r)
		return nil
	}

	return p.execute(ctx, r, schedule.Evaluate(rs, now), now, s, log)
}

// bootstrap writes the default schedule tag on an untagged resource when
// force-create is enabled and the resource is known not to be autoscaled.
// Callers have already filtered out excluded resources.
func (p *Pipeline) bootstrap(ctx context.Context, r Resource, log zerolog.Logger) {
	switch {
	case !p.opts.ForceCreate:
		log.Debug().Str("tag", p.opts.TagName).Msg("no schedule tag found")
	case r.AutoScaled:
		log.Debug().Str("group", r.AutoScalingGroup).Msg("ignoring instance, part of an auto scaling group")
	case r.AutoScalingUnknown:
		log.Warn().Msg("ignoring instance, auto scaling membership unknown")
	default:
		log.Info().
			Str("tag", p.opts.TagName).
			Str("value", p.opts.DefaultValue).
			Bool("dry_run", p.opts.DryRun).
			Msg("creating default schedule tag")
		if p.opts.DryRun {
			return
		}
		if err := p.provider.WriteTag(ctx, r, p.opts.TagName, p.opts.DefaultValue); err != nil {
			log.Error().Err(&TagWriteError{Resource: r, Tag: p.opts.TagName, Err: err}).Msg("unable to add schedule tag")
		}
	}
}

func (p *Pipeline) execute(ctx context.Context, r Resource, d schedule.Decision, now schedule.Moment, s *Summary, log zerolog.Logger) error {
	if d.Start {
		log.Info().Int("hour", now.Hour).Msg("start time matches")
		if r.State != StateRunning {
			log.Info().Str("state", r.Status).Bool("dry_run", p.opts.DryRun).Msg("instance is not running, starting")
			if !p.opts.DryRun {
				if err := p.provider.Start(ctx, r); err != nil {
					return &ActionError{Action: schedule.Start, Resource: r, Err: err}
				}
			}
			s.Started = append(s.Started, r)
		} else {
			log.Debug().Msg("instance is already running")
		}
	}

	if d.Stop {
		log.Info().Int("hour", now.Hour).Msg("stop time matches")
		if r.State == StateRunning {
			log.Info().Str("state", r.Status).Bool("dry_run", p.opts.DryRun).Msg("instance is running, stopping")
			if !p.opts.DryRun {
				if err := p.provider.Stop(ctx, r); err != nil {
					return &ActionError{Action: schedule.Stop, Resource: r, Err: err}
				}
			}
			s.Stopped = append(s.Stopped, r)
		} else {
			log.Debug().Str("state", r.Status).Msg("instance is already not running")
		}
	}
	return nil
}
