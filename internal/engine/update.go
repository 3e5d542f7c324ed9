package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// mutatePending applies fn to a pending task under the lock and re-files it.
func (s *Service) mutatePending(ctx context.Context, id string, fn func(t *Task, now time.Time) error) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.pendingTaskLocked(ctx, id)
	if err != nil {
		return Task{}, err
	}
	now := s.cfg.Clock()
	if err := fn(t, now); err != nil {
		return Task{}, err
	}
	s.store.Update(t, now)
	return t.Clone(), nil
}

// SetDueDate sets or, with nil, clears the due date. A due date that is not
// yet past clears the overdue flag; raising it is left to the next tick so the
// overdue-penalty notice still goes out.
func (s *Service) SetDueDate(ctx context.Context, id string, due *time.Time) (Task, error) {
	return s.mutatePending(ctx, id, func(t *Task, now time.Time) error {
		t.DueAt = cloneTime(due)
		if due == nil || !now.After(*due) {
			t.IsOverdue = false
		}
		return nil
	})
}

// SetReminder sets the reminder instant and arms its one-shot. A reminder at
// or before now is stored but never fires from the heap.
func (s *Service) SetReminder(ctx context.Context, id string, at time.Time) (Task, error) {
	armed := false
	t, err := s.mutatePending(ctx, id, func(t *Task, now time.Time) error {
		t.ReminderAt = &at
		t.HasReminder = true
		armed = s.scheduler.scheduleLocked(t.ID, now)
		return nil
	})
	if armed {
		s.scheduler.poke()
	}
	return t, err
}

func (s *Service) ClearReminder(ctx context.Context, id string) (Task, error) {
	return s.mutatePending(ctx, id, func(t *Task, _ time.Time) error {
		t.ReminderAt = nil
		t.HasReminder = false
		s.scheduler.cancelLocked(t.ID)
		return nil
	})
}

func (s *Service) SetPriority(ctx context.Context, id string, p Priority) (Task, error) {
	if !p.IsValid() {
		return Task{}, fmt.Errorf("%w: priority %q", ErrInvalidInput, p)
	}
	return s.mutatePending(ctx, id, func(t *Task, _ time.Time) error {
		t.Priority = p
		return nil
	})
}

func (s *Service) SetDescription(ctx context.Context, id string, desc string) (Task, error) {
	return s.mutatePending(ctx, id, func(t *Task, _ time.Time) error {
		t.Description = strings.TrimSpace(desc)
		return nil
	})
}
