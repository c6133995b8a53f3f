package autoscaling

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
)

type AutoScalingAPI interface {
	DescribeAutoScalingInstances(ctx context.Context, params *autoscaling.DescribeAutoScalingInstancesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingInstancesOutput, error)
}

type Client struct {
	api AutoScalingAPI
}

func NewClient(api AutoScalingAPI) *Client {
	return &Client{api: api}
}

// Groups maps each instance that belongs to an auto scaling group to the
// group's name. Instances outside any group are absent from the result.
func (c *Client) Groups(ctx context.Context, instanceIDs []string) (map[string]string, error) {
	groups := map[string]string{}

	for start := 0; start < len(instanceIDs); start += MaxInstanceIDs {
		end := min(start+MaxInstanceIDs, len(instanceIDs))
		batch := instanceIDs[start:end]

		var nextToken *string
		for {
			out, err := c.api.DescribeAutoScalingInstances(ctx, &autoscaling.DescribeAutoScalingInstancesInput{
				InstanceIds: batch,
				NextToken:   nextToken,
			})
			if err != nil {
				return nil, fmt.Errorf("DescribeAutoScalingInstances: %w", err)
			}

			for _, inst := range out.AutoScalingInstances {
				groups[aws.ToString(inst.InstanceId)] = aws.ToString(inst.AutoScalingGroupName)
			}

			if out.NextToken == nil {
				break
			}
			nextToken = out.NextToken
		}
	}
	return groups, nil
}
