package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type CreateTaskInput struct {
	Title       string
	Type        TaskType
	Priority    Priority
	Description string
	DueAt       *time.Time
	ReminderAt  *time.Time
}

// CreateTask registers a new pending task. An empty type means TODO and an
// empty priority means MEDIUM. A future ReminderAt is armed right away.
func (s *Service) CreateTask(_ context.Context, in CreateTaskInput) (Task, error) {
	typ := in.Type
	if typ == "" {
		typ = TaskTypeTodo
	}
	prio := in.Priority
	if prio == "" {
		prio = DefaultPriority
	}
	if !prio.IsValid() {
		return Task{}, fmt.Errorf("%w: priority %q", ErrInvalidInput, prio)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Clock()
	t, err := NewTask(in.Title, typ, now)
	if err != nil {
		return Task{}, err
	}
	t.Priority = prio
	t.Description = in.Description
	t.DueAt = cloneTime(in.DueAt)
	if in.ReminderAt != nil {
		t.ReminderAt = cloneTime(in.ReminderAt)
		t.HasReminder = true
	}

	s.store.Add(t, now)
	armed := s.scheduler.scheduleLocked(t.ID, now)
	if armed {
		s.scheduler.poke()
	}

	s.log.Info("task created",
		zap.String("task_id", t.ID),
		zap.String("type", string(t.Type)),
		zap.Bool("reminder", armed),
	)
	return t.Clone(), nil
}
