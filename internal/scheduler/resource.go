package scheduler

import (
	"context"

	"tasnim.dev/instance-scheduler/internal/utils"
)

// Kind names a schedulable resource type.
type Kind string

const (
	KindEC2 Kind = "ec2"
	KindRDS Kind = "rds"
)

// PowerState is the scheduling view of a resource's provider status.
type PowerState int

const (
	StateTransitional PowerState = iota
	// StateRunning is "running" for EC2 and "available" for RDS.
	StateRunning
	StateStopped
)

func (s PowerState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "transitional"
	}
}

// Resource is one instance as reported by its provider at listing time.
type Resource struct {
	ID   string
	Name string
	// ARN is the provider handle used for tag calls where the ID is not enough.
	ARN    string
	State  PowerState
	Status string
	Tags   map[string]string

	AutoScaled       bool
	AutoScalingGroup string
	// AutoScalingUnknown is set when group membership could not be checked.
	AutoScalingUnknown bool
}

// Label renders the resource as "id (name)".
func (r Resource) Label() string { return utils.Label(r.ID, r.Name) }

// Provider is the capability set one resource kind exposes to the pipeline.
type Provider interface {
	Kind() Kind
	// List returns the resources relevant for scheduling, tags included.
	List(ctx context.Context) ([]Resource, error)
	// ReadTag returns the value of tag key and whether it is set.
	ReadTag(ctx context.Context, r Resource, key string) (string, bool, error)
	WriteTag(ctx context.Context, r Resource, key, value string) error
	Start(ctx context.Context, r Resource) error
	Stop(ctx context.Context, r Resource) error
}
