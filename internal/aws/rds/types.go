package rds

// DB instance status values that map to a settled power state. Every other
// status (starting, stopping, modifying, backing-up, ...) is transitional.
const (
	StatusAvailable = "available"
	StatusStopped   = "stopped"
)
