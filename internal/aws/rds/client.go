package rds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	"tasnim.dev/instance-scheduler/internal/constants"
	"tasnim.dev/instance-scheduler/internal/scheduler"
	"tasnim.dev/instance-scheduler/internal/utils"
)

type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *awsrds.DescribeDBInstancesInput, optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBInstancesOutput, error)
	ListTagsForResource(ctx context.Context, params *awsrds.ListTagsForResourceInput, optFns ...func(*awsrds.Options)) (*awsrds.ListTagsForResourceOutput, error)
	AddTagsToResource(ctx context.Context, params *awsrds.AddTagsToResourceInput, optFns ...func(*awsrds.Options)) (*awsrds.AddTagsToResourceOutput, error)
	StartDBInstance(ctx context.Context, params *awsrds.StartDBInstanceInput, optFns ...func(*awsrds.Options)) (*awsrds.StartDBInstanceOutput, error)
	StopDBInstance(ctx context.Context, params *awsrds.StopDBInstanceInput, optFns ...func(*awsrds.Options)) (*awsrds.StopDBInstanceOutput, error)
}

// Client schedules RDS DB instances. It implements scheduler.Provider.
type Client struct {
	api RDSAPI
}

func NewClient(api RDSAPI) *Client {
	return &Client{api: api}
}

func (c *Client) Kind() scheduler.Kind { return scheduler.KindRDS }

// List returns every DB instance regardless of status.
func (c *Client) List(ctx context.Context) ([]scheduler.Resource, error) {
	var resources []scheduler.Resource
	var marker *string

	for {
		out, err := c.api.DescribeDBInstances(ctx, &awsrds.DescribeDBInstancesInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances: %w", err)
		}

		for _, db := range out.DBInstances {
			resources = append(resources, toResource(db))
		}

		if out.Marker == nil {
			break
		}
		marker = out.Marker
	}
	return resources, nil
}

// ReadTag fetches the instance's current tags rather than trusting the listing.
func (c *Client) ReadTag(ctx context.Context, r scheduler.Resource, key string) (string, bool, error) {
	out, err := c.api.ListTagsForResource(ctx, &awsrds.ListTagsForResourceInput{
		ResourceName: aws.String(r.ARN),
	})
	if err != nil {
		return "", false, fmt.Errorf("ListTagsForResource: %w", err)
	}
	for _, tag := range out.TagList {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value), true, nil
		}
	}
	return "", false, nil
}

func (c *Client) WriteTag(ctx context.Context, r scheduler.Resource, key, value string) error {
	_, err := c.api.AddTagsToResource(ctx, &awsrds.AddTagsToResourceInput{
		ResourceName: aws.String(r.ARN),
		Tags:         []types.Tag{{Key: aws.String(key), Value: aws.String(value)}},
	})
	if err != nil {
		return fmt.Errorf("AddTagsToResource: %w", err)
	}
	return nil
}

func (c *Client) Start(ctx context.Context, r scheduler.Resource) error {
	_, err := c.api.StartDBInstance(ctx, &awsrds.StartDBInstanceInput{
		DBInstanceIdentifier: aws.String(r.ID),
	})
	if err != nil {
		return fmt.Errorf("StartDBInstance: %w", err)
	}
	return nil
}

func (c *Client) Stop(ctx context.Context, r scheduler.Resource) error {
	_, err := c.api.StopDBInstance(ctx, &awsrds.StopDBInstanceInput{
		DBInstanceIdentifier: aws.String(r.ID),
	})
	if err != nil {
		return fmt.Errorf("StopDBInstance: %w", err)
	}
	return nil
}

func toResource(db types.DBInstance) scheduler.Resource {
	r := scheduler.Resource{
		ID:     aws.ToString(db.DBInstanceIdentifier),
		Name:   constants.NameNotSet,
		ARN:    aws.ToString(db.DBInstanceArn),
		Status: aws.ToString(db.DBInstanceStatus),
		Tags:   make(map[string]string, len(db.TagList)),
	}
	if r.ID == "" {
		r.ID = utils.ShortName(r.ARN)
	}
	r.State = powerState(r.Status)

	for _, tag := range db.TagList {
		key := aws.ToString(tag.Key)
		r.Tags[key] = aws.ToString(tag.Value)
		if key == constants.NameTag {
			r.Name = r.Tags[key]
		}
	}
	return r
}

func powerState(status string) scheduler.PowerState {
	switch status {
	case StatusAvailable:
		return scheduler.StateRunning
	case StatusStopped:
		return scheduler.StateStopped
	default:
		return scheduler.StateTransitional
	}
}
