package engine

import (
	"fmt"
	"time"
)

const (
	// UrgentWindow is how close a due date must be for a task to count as urgent.
	UrgentWindow = 2 * time.Hour

	dueTodayWindow = 24 * time.Hour
)

// IsUrgent reports whether the task is due within UrgentWindow or already overdue.
// Tasks without a due date are never urgent.
func IsUrgent(t Task, now time.Time) bool {
	if t.DueAt == nil {
		return false
	}
	return t.DueAt.Sub(now) <= UrgentWindow || t.IsOverdue
}

// IsDueToday reports whether the due date is within 24 hours of now, in either direction.
func IsDueToday(t Task, now time.Time) bool {
	if t.DueAt == nil {
		return false
	}
	d := t.DueAt.Sub(now)
	if d < 0 {
		d = -d
	}
	return d <= dueTodayWindow
}

// TimeUntilDue formats the time left before the due date.
//
//	"" (no due date), "Overdue", "N days" (more than 24 whole hours),
//	"Hh Mm" (1 to 24 hours), "M minutes" (under an hour)
func TimeUntilDue(t Task, now time.Time) string {
	if t.DueAt == nil {
		return ""
	}
	d := t.DueAt.Sub(now)
	if d < 0 {
		return "Overdue"
	}

	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	switch {
	case hours > 24:
		return fmt.Sprintf("%d days", hours/24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}
