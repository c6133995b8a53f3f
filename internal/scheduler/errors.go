package scheduler

import (
	"fmt"

	"tasnim.dev/instance-scheduler/internal/schedule"
)

// ListingError reports a provider listing failure. The kind proceeds with no resources.
type ListingError struct {
	Kind Kind
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %s instances: %v", e.Kind, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }

// TagWriteError reports a failed bootstrap tag write. The resource stays untagged until the next run.
type TagWriteError struct {
	Resource Resource
	Tag      string
	Err      error
}

func (e *TagWriteError) Error() string {
	return fmt.Sprintf("adding tag %q to %s: %v", e.Tag, e.Resource.ID, e.Err)
}

func (e *TagWriteError) Unwrap() error { return e.Err }

// ActionError reports a failed start or stop call. It aborts the current kind's run.
type ActionError struct {
	Action   schedule.Action
	Resource Resource
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Resource.Label(), e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
