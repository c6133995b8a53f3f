package utils

import (
	"fmt"
	"time"
)

const DateTime = "2006-01-02 15:04"

// Label renders a resource as "id (name)", or just the id when name is empty.
func Label(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", id, name)
}

// TimeOrDash formats t using layout, or returns a dash if t is zero.
func TimeOrDash(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}
