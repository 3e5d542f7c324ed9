package engine

type TaskType string

const (
	TaskTypeTodo          TaskType = "TODO"
	TaskTypeHabit         TaskType = "HABIT"
	TaskTypePlanning      TaskType = "PLANNING"
	TaskTypeDailyActivity TaskType = "DAILY_ACTIVITY"
)

// TaskTypes lists every task type in display order.
var TaskTypes = []TaskType{TaskTypeTodo, TaskTypeHabit, TaskTypePlanning, TaskTypeDailyActivity}

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTodo, TaskTypeHabit, TaskTypePlanning, TaskTypeDailyActivity:
		return true
	default:
		return false
	}
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
	TaskStatusSkipped   TaskStatus = "SKIPPED"
)

// IsTerminal reports whether the status can no longer change.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// DefaultPriority is used when user input is missing.
const DefaultPriority Priority = PriorityMedium

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

type CharacterStatus string

const (
	CharacterAlive CharacterStatus = "ALIVE"
	CharacterDead  CharacterStatus = "DEAD"
)

// View names one of the categorized task lists kept by the TaskStore.
type View string

const (
	ViewToday    View = "today"
	ViewHabit    View = "habit"
	ViewPlanning View = "planning"
)
