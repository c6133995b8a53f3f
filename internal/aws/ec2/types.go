package ec2

// SchedulableStates are the instance-state-name values worth evaluating.
// Terminated and shutting-down instances can never be started again.
var SchedulableStates = []string{"pending", "running", "stopping", "stopped"}
