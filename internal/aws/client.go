package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/rs/zerolog"

	awsautoscaling "tasnim.dev/instance-scheduler/internal/aws/autoscaling"
	awsec2 "tasnim.dev/instance-scheduler/internal/aws/ec2"
	awsrds "tasnim.dev/instance-scheduler/internal/aws/rds"
	"tasnim.dev/instance-scheduler/internal/scheduler"
)

// ServiceClient opens the per-kind providers. Each kind loads its own AWS
// config when its run begins.
type ServiceClient struct {
	Profile           string
	Region            string
	AutoScalingLookup bool
	Log               zerolog.Logger
}

// Targets returns one scheduler target per enabled kind, EC2 first.
func (s *ServiceClient) Targets(ec2Enabled, rdsEnabled bool) []scheduler.Target {
	var targets []scheduler.Target
	if ec2Enabled {
		targets = append(targets, scheduler.Target{Kind: scheduler.KindEC2, Open: s.openEC2})
	}
	if rdsEnabled {
		targets = append(targets, scheduler.Target{Kind: scheduler.KindRDS, Open: s.openRDS})
	}
	return targets
}

func (s *ServiceClient) openEC2(ctx context.Context) (scheduler.Provider, error) {
	cfg, err := s.connect(ctx, scheduler.KindEC2)
	if err != nil {
		return nil, err
	}

	client := awsec2.NewClient(ec2.NewFromConfig(cfg)).
		WithLogger(s.Log.With().Str("kind", string(scheduler.KindEC2)).Logger())
	if s.AutoScalingLookup {
		client.WithGroupResolver(awsautoscaling.NewClient(autoscaling.NewFromConfig(cfg)))
	}
	return client, nil
}

func (s *ServiceClient) openRDS(ctx context.Context) (scheduler.Provider, error) {
	cfg, err := s.connect(ctx, scheduler.KindRDS)
	if err != nil {
		return nil, err
	}
	return awsrds.NewClient(rds.NewFromConfig(cfg)), nil
}

func (s *ServiceClient) connect(ctx context.Context, kind scheduler.Kind) (aws.Config, error) {
	log := s.Log.With().Str("kind", string(kind)).Logger()
	log.Info().Str("region", s.Region).Str("profile", s.Profile).Msg("connecting")

	cfg, err := LoadConfig(ctx, s.Profile, s.Region)
	if err != nil {
		return aws.Config{}, err
	}

	log.Info().Str("region", cfg.Region).Str("account", GetAccountID(ctx, cfg)).Msg("connected")
	return cfg, nil
}
