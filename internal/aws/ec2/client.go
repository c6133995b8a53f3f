package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"tasnim.dev/instance-scheduler/internal/constants"
	"tasnim.dev/instance-scheduler/internal/scheduler"
)

type EC2API interface {
	DescribeInstances(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error)
	CreateTags(ctx context.Context, params *awsec2.CreateTagsInput, optFns ...func(*awsec2.Options)) (*awsec2.CreateTagsOutput, error)
	StartInstances(ctx context.Context, params *awsec2.StartInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *awsec2.StopInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StopInstancesOutput, error)
}

// GroupResolver reports the auto scaling group of each instance that belongs to one.
type GroupResolver interface {
	Groups(ctx context.Context, instanceIDs []string) (map[string]string, error)
}

// Client schedules EC2 instances. It implements scheduler.Provider.
type Client struct {
	api    EC2API
	groups GroupResolver
	log    zerolog.Logger
}

func NewClient(api EC2API) *Client {
	return &Client{api: api, log: zerolog.Nop()}
}

func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// WithGroupResolver confirms auto scaling membership of instances that lack
// the aws:autoscaling:groupName tag.
func (c *Client) WithGroupResolver(g GroupResolver) *Client {
	c.groups = g
	return c
}

func (c *Client) Kind() scheduler.Kind { return scheduler.KindEC2 }

// List returns pending, running, stopping and stopped instances.
func (c *Client) List(ctx context.Context) ([]scheduler.Resource, error) {
	var resources []scheduler.Resource
	var nextToken *string

	for {
		out, err := c.api.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
			Filters: []types.Filter{{
				Name:   aws.String("instance-state-name"),
				Values: SchedulableStates,
			}},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances: %w", err)
		}

		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				resources = append(resources, toResource(inst))
			}
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	if c.groups != nil {
		c.resolveGroups(ctx, resources)
	}
	return resources, nil
}

// resolveGroups never fails the listing. When the lookup errors, instances
// not already tagged as autoscaled are marked AutoScalingUnknown.
func (c *Client) resolveGroups(ctx context.Context, resources []scheduler.Resource) {
	var ids []string
	for _, r := range resources {
		if !r.AutoScaled {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	groups, err := c.groups.Groups(ctx, ids)
	if err != nil {
		c.log.Warn().Err(err).Int("count", len(ids)).Msg("unable to confirm auto scaling membership")
		for i := range resources {
			if !resources[i].AutoScaled {
				resources[i].AutoScalingUnknown = true
			}
		}
		return
	}
	for i := range resources {
		if g, ok := groups[resources[i].ID]; ok {
			resources[i].AutoScaled = true
			resources[i].AutoScalingGroup = g
		}
	}
}

// ReadTag reads from the tags returned by List; EC2 needs no extra call.
func (c *Client) ReadTag(ctx context.Context, r scheduler.Resource, key string) (string, bool, error) {
	v, ok := r.Tags[key]
	return v, ok, nil
}

func (c *Client) WriteTag(ctx context.Context, r scheduler.Resource, key, value string) error {
	_, err := c.api.CreateTags(ctx, &awsec2.CreateTagsInput{
		Resources: []string{r.ID},
		Tags:      []types.Tag{{Key: aws.String(key), Value: aws.String(value)}},
	})
	if err != nil {
		return fmt.Errorf("CreateTags: %w", err)
	}
	return nil
}

func (c *Client) Start(ctx context.Context, r scheduler.Resource) error {
	_, err := c.api.StartInstances(ctx, &awsec2.StartInstancesInput{
		InstanceIds: []string{r.ID},
	})
	if err != nil {
		return fmt.Errorf("StartInstances: %w", err)
	}
	return nil
}

func (c *Client) Stop(ctx context.Context, r scheduler.Resource) error {
	_, err := c.api.StopInstances(ctx, &awsec2.StopInstancesInput{
		InstanceIds: []string{r.ID},
	})
	if err != nil {
		return fmt.Errorf("StopInstances: %w", err)
	}
	return nil
}

func toResource(inst types.Instance) scheduler.Resource {
	r := scheduler.Resource{
		ID:   aws.ToString(inst.InstanceId),
		Name: constants.NameNotSet,
		Tags: make(map[string]string, len(inst.Tags)),
	}
	if inst.State != nil {
		r.Status = string(inst.State.Name)
		r.State = powerState(inst.State.Name)
	}

	for _, tag := range inst.Tags {
		key := aws.ToString(tag.Key)
		value := aws.ToString(tag.Value)
		r.Tags[key] = value

		switch key {
		case constants.NameTag:
			r.Name = value
		case constants.AutoScalingGroupTag:
			r.AutoScaled = true
			r.AutoScalingGroup = value
		}
	}
	return r
}

func powerState(name types.InstanceStateName) scheduler.PowerState {
	switch name {
	case types.InstanceStateNameRunning:
		return scheduler.StateRunning
	case types.InstanceStateNameStopped:
		return scheduler.StateStopped
	default:
		return scheduler.StateTransitional
	}
}
