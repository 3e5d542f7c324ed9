package engine

import (
	"fmt"
	"strings"
)

// ParseTaskType parses user input to a TaskType.
// Supported: todo, habit, planning (plan), daily (daily_activity, activity).
func ParseTaskType(input string) (TaskType, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "", "todo", "quest":
		return TaskTypeTodo, nil
	case "habit":
		return TaskTypeHabit, nil
	case "planning", "plan":
		return TaskTypePlanning, nil
	case "daily", "daily_activity", "daily-activity", "activity":
		return TaskTypeDailyActivity, nil
	default:
		return "", fmt.Errorf("%w: task type %q", ErrInvalidInput, input)
	}
}

// ParsePriority parses user input to a Priority. Empty input yields DefaultPriority.
func ParsePriority(input string) (Priority, error) {
	s := strings.TrimSpace(strings.ToUpper(input))
	if s == "" {
		return DefaultPriority, nil
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: priority %q", ErrInvalidInput, input)
	}
	return p, nil
}

// ParseView parses a view name; "all" and "" are reported with ok=false.
func ParseView(input string) (View, bool, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "", "all":
		return "", false, nil
	case string(ViewToday):
		return ViewToday, true, nil
	case string(ViewHabit), "habits":
		return ViewHabit, true, nil
	case string(ViewPlanning), "plan":
		return ViewPlanning, true, nil
	default:
		return "", false, fmt.Errorf("%w: view %q", ErrInvalidInput, input)
	}
}
