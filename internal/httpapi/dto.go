package httpapi

import (
	"time"

	"questpet/internal/engine"
)

type TaskItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	ReminderAt   *time.Time `json:"reminder_at,omitempty"`
	HasReminder  bool       `json:"has_reminder"`
	Recurring    bool       `json:"recurring"`
	PeriodDays   int        `json:"recurring_period_days"`
	CoinReward   int        `json:"coin_reward"`
	CoinPenalty  int        `json:"coin_penalty"`
	IsOverdue    bool       `json:"is_overdue"`
	IsUrgent     bool       `json:"is_urgent"`
	TimeUntilDue string     `json:"time_until_due,omitempty"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	ReminderAt  *time.Time `json:"reminder_at"`
}

type DueRequest struct {
	DueAt *time.Time `json:"due_at"`
}

type ReminderRequest struct {
	ReminderAt *time.Time `json:"reminder_at"`
}

type PriorityRequest struct {
	Priority string `json:"priority"`
}

type DescriptionRequest struct {
	Description string `json:"description"`
}

type CharacterItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Price      int    `json:"price"`
	Free       bool   `json:"free"`
	Owned      bool   `json:"owned"`
	Status     string `json:"status"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	NextLevel  int    `json:"next_level_xp"`
}

type GameView struct {
	Coins          int            `json:"coins"`
	CompletedToday bool           `json:"completed_today"`
	Active         *CharacterItem `json:"active"`
}

type CompleteResponse struct {
	Task         TaskItem `json:"task"`
	CoinsAwarded int      `json:"coins_awarded"`
	Balance      int      `json:"balance"`
	XPAwarded    int      `json:"xp_awarded"`
	LevelUp      bool     `json:"level_up"`
	LevelAfter   int      `json:"level_after"`
	Revived      bool     `json:"revived"`
}

type FailResponse struct {
	Task          TaskItem `json:"task"`
	CoinsLost     int      `json:"coins_lost"`
	Balance       int      `json:"balance"`
	CharacterDied bool     `json:"character_died"`
}

type DayView struct {
	Date        string     `json:"date"`
	Tasks       []TaskItem `json:"tasks"`
	Completed   []TaskItem `json:"completed"`
	Total       int        `json:"total"`
	SuccessRate int        `json:"success_rate"`
}

type EventItem struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	TaskID  string    `json:"task_id"`
	At      time.Time `json:"at"`
}

func toTaskItem(t engine.Task, now time.Time) TaskItem {
	return TaskItem{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Type:         string(t.Type),
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		CreatedAt:    t.CreatedAt,
		CompletedAt:  t.CompletedAt,
		DueAt:        t.DueAt,
		ReminderAt:   t.ReminderAt,
		HasReminder:  t.HasReminder,
		Recurring:    t.IsRecurring(),
		PeriodDays:   t.RecurringPeriodDays,
		CoinReward:   t.CoinReward,
		CoinPenalty:  t.CoinPenalty,
		IsOverdue:    t.IsOverdue,
		IsUrgent:     t.Status == engine.TaskStatusPending && engine.IsUrgent(t, now),
		TimeUntilDue: engine.TimeUntilDue(t, now),
	}
}

func toTaskItems(tasks []engine.Task, now time.Time) []TaskItem {
	out := make([]TaskItem, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskItem(t, now))
	}
	return out
}

func toCharacterItem(c engine.Character) CharacterItem {
	return CharacterItem{
		ID:         c.ID,
		Name:       c.Name,
		Slug:       c.Slug,
		Price:      c.Price,
		Free:       c.IsFree,
		Owned:      c.IsOwned,
		Status:     string(c.Status),
		Level:      c.Level,
		Experience: c.Experience,
		NextLevel:  engine.XPThresholdForLevel(c.Level),
	}
}

func toCharacterItems(cs []engine.Character) []CharacterItem {
	out := make([]CharacterItem, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCharacterItem(c))
	}
	return out
}

func toEventItem(e engine.Event) EventItem {
	return EventItem{
		Kind:    string(e.Kind),
		Title:   e.Title,
		Message: e.Message,
		TaskID:  e.TaskID,
		At:      e.At,
	}
}
