package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is one user-created quest.
//
// CoinReward and CoinPenalty are frozen at construction. Only the Service
// mutates a live Task; everything handed out of the engine is a copy.
type Task struct {
	ID          string
	Title       string
	Description string
	Type        TaskType
	Status      TaskStatus
	Priority    Priority

	CreatedAt   time.Time
	CompletedAt *time.Time
	DueAt       *time.Time
	ReminderAt  *time.Time
	HasReminder bool

	RecurringPeriodDays int
	CoinReward          int
	CoinPenalty         int
	StreakCount         int
	IsOverdue           bool
}

type coinRule struct {
	reward  int
	penalty int
}

var coinRules = map[TaskType]coinRule{
	TaskTypeTodo:          {reward: 10, penalty: 5},
	TaskTypeHabit:         {reward: 15, penalty: 10},
	TaskTypePlanning:      {reward: 20, penalty: 15},
	TaskTypeDailyActivity: {reward: 5, penalty: 3},
}

// CoinRewardFor returns the coins granted for completing a task of the given type.
func CoinRewardFor(t TaskType) int {
	if r, ok := coinRules[t]; ok {
		return r.reward
	}
	return coinRules[TaskTypeTodo].reward
}

// CoinPenaltyFor returns the coins lost for failing a task of the given type.
func CoinPenaltyFor(t TaskType) int {
	if r, ok := coinRules[t]; ok {
		return r.penalty
	}
	return coinRules[TaskTypeTodo].penalty
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return t, nil
}

// NewTask builds a PENDING task created at now.
func NewTask(title string, typ TaskType, now time.Time) (*Task, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: task type %q", ErrInvalidInput, typ)
	}
	return &Task{
		ID:                  uuid.NewString(),
		Title:               t,
		Type:                typ,
		Status:              TaskStatusPending,
		Priority:            DefaultPriority,
		CreatedAt:           now,
		RecurringPeriodDays: RecurringPeriodDays(typ),
		CoinReward:          CoinRewardFor(typ),
		CoinPenalty:         CoinPenaltyFor(typ),
	}, nil
}

// IsRecurring reports whether the task repeats (habits and daily activities).
func (t Task) IsRecurring() bool {
	return IsRecurringType(t.Type)
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.CompletedAt = cloneTime(t.CompletedAt)
	out.DueAt = cloneTime(t.DueAt)
	out.ReminderAt = cloneTime(t.ReminderAt)
	return out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTasks(in []*Task) []Task {
	out := make([]Task, 0, len(in))
	for _, t := range in {
		out = append(out, t.Clone())
	}
	return out
}
