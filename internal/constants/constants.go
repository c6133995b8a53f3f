package constants

// DefaultTagName is the tag key holding a resource's schedule.
const DefaultTagName = "schedule"

// DefaultScheduleValue is written to untagged resources when bootstrapping is enabled.
const DefaultScheduleValue = "any_start=5"

// DefaultRegion is used when neither flags, environment nor config file name a region.
const DefaultRegion = "eu-west-1"

const (
	// NameTag supplies a resource's display name.
	NameTag = "Name"
	// AutoScalingGroupTag is set by AWS on every instance launched by an auto scaling group.
	AutoScalingGroupTag = "aws:autoscaling:groupName"
	// NameNotSet is the display name used when a resource has no Name tag.
	NameNotSet = "name not set"
)
