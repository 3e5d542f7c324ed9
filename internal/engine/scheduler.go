package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTickInterval is how often pending tasks are re-evaluated.
	DefaultTickInterval = 60 * time.Second

	// ReminderTolerance is how far from reminderAt a tick may still fire the reminder.
	ReminderTolerance = time.Minute

	urgentLookaheadHours = 4
)

// Scheduler re-evaluates pending tasks on a fixed tick and fires one-shot
// reminders from a deadline heap. Both paths take the lock shared with the
// Service, so they never interleave with a completion or failure.
type Scheduler struct {
	lock     sync.Locker
	store    *TaskStore
	events   *Broadcaster
	clock    func() time.Time
	loc      *time.Location
	interval time.Duration
	log      *zap.Logger

	// guarded by lock
	deadlines *deadlineQueue
	closed    bool

	wake chan struct{}

	runMu   sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

type SchedulerConfig struct {
	Interval time.Duration
	Clock    func() time.Time
	Location *time.Location
	Logger   *zap.Logger
}

// NewScheduler builds a scheduler over store. lock must be the same lock that
// guards every other mutation of the store's tasks.
func NewScheduler(lock sync.Locker, store *TaskStore, events *Broadcaster, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultTickInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Scheduler{
		lock:      lock,
		store:     store,
		events:    events,
		clock:     cfg.Clock,
		loc:       cfg.Location,
		interval:  cfg.Interval,
		log:       cfg.Logger,
		deadlines: newDeadlineQueue(),
		wake:      make(chan struct{}, 1),
	}
}

// Start launches the run loop. It may be called once; later calls return
// ErrSchedulerStarted, and calls after Shutdown return ErrSchedulerStopped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.stopped {
		return ErrSchedulerStopped
	}
	if s.started {
		return ErrSchedulerStarted
	}
	s.started = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)

	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Shutdown stops the loop, waits for it to exit and drops every pending
// one-shot reminder. Safe to call more than once, and before Start.
func (s *Scheduler) Shutdown() {
	s.runMu.Lock()
	if s.stopped {
		s.runMu.Unlock()
		return
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	s.lock.Lock()
	n := s.deadlines.Len()
	s.deadlines.clear()
	s.closed = true
	s.lock.Unlock()

	s.log.Info("scheduler stopped", zap.Int("dropped_reminders", n))
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Go 1.23 timers: Stop and Reset discard any pending fire, no drain needed.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		s.armTimer(timer)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		case <-timer.C:
			s.FireDue()
		case <-s.wake:
		}
	}
}

func (s *Scheduler) armTimer(timer *time.Timer) {
	s.lock.Lock()
	next, ok := s.deadlines.peek()
	var at time.Time
	if ok {
		at = next.at
	}
	s.lock.Unlock()

	if !ok {
		timer.Stop()
		return
	}
	delay := at.Sub(s.clock())
	if delay < 0 {
		delay = 0
	}
	timer.Reset(delay)
}

func (s *Scheduler) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// ScheduleReminder replaces any one-shot reminder for the task with one at its
// reminderAt. Reminders at or before now are not scheduled.
func (s *Scheduler) ScheduleReminder(id string) {
	s.lock.Lock()
	armed := s.scheduleLocked(id, s.clock())
	s.lock.Unlock()
	if armed {
		s.poke()
	}
}

// CancelReminder drops the pending one-shot reminder for id, if any.
func (s *Scheduler) CancelReminder(id string) {
	s.lock.Lock()
	s.cancelLocked(id)
	s.lock.Unlock()
}

// PendingReminder reports when the one-shot reminder for id is due to fire.
func (s *Scheduler) PendingReminder(id string) (time.Time, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.deadlines.get(id)
}

// ScheduledCount returns the number of pending one-shot reminders.
func (s *Scheduler) ScheduledCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.deadlines.Len()
}

func (s *Scheduler) scheduleLocked(id string, now time.Time) bool {
	s.deadlines.remove(id)
	if s.closed {
		return false
	}
	t, ok := s.store.Get(id)
	if !ok || t.Status != TaskStatusPending || !t.HasReminder || t.ReminderAt == nil {
		return false
	}
	if !t.ReminderAt.After(now) {
		return false
	}
	s.deadlines.set(id, *t.ReminderAt)
	return true
}

func (s *Scheduler) cancelLocked(id string) {
	s.deadlines.remove(id)
}

// FireDue fires every one-shot reminder whose deadline has passed.
func (s *Scheduler) FireDue() {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.clock()
	for _, d := range s.deadlines.popDue(now) {
		t, ok := s.store.Get(d.taskID)
		if !ok || t.Status != TaskStatusPending || !t.HasReminder || t.ReminderAt == nil {
			continue
		}
		// The reminder was moved after this entry was armed.
		if !t.ReminderAt.Equal(d.at) {
			continue
		}
		s.fireReminderLocked(t, now)
	}
}

// Tick runs one evaluation pass over every pending task at the clock's now.
func (s *Scheduler) Tick() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tickLocked(s.clock())
}

func (s *Scheduler) tickLocked(now time.Time) {
	for _, t := range s.store.Pending() {
		s.evaluateOverdueLocked(t, now)
		s.checkDueLocked(t, now)
		if t.HasReminder && t.ReminderAt != nil && absDuration(now.Sub(*t.ReminderAt)) <= ReminderTolerance {
			s.fireReminderLocked(t, now)
		}
		s.checkRecurringLocked(t, now)
	}
}

func (s *Scheduler) evaluateOverdueLocked(t *Task, now time.Time) {
	if t.DueAt == nil {
		t.IsOverdue = false
		return
	}
	was := t.IsOverdue
	t.IsOverdue = now.After(*t.DueAt)
	if was || !t.IsOverdue {
		return
	}
	// Advisory: the balance and the task status are left alone.
	atRisk := t.CoinPenalty / 2
	s.emit(EventOverduePenalty, t, now, "Overdue Penalty!",
		fmt.Sprintf("%d coins at risk for overdue quest: %s", atRisk, t.Title))
}

func (s *Scheduler) checkDueLocked(t *Task, now time.Time) {
	if t.DueAt == nil {
		return
	}
	d := t.DueAt.Sub(now)
	hours := int64(d / time.Hour)

	switch {
	case hours == 24:
		s.emit(EventDueTomorrow, t, now, "Due Tomorrow!",
			fmt.Sprintf("Your quest '%s' is due tomorrow!", t.Title))
	case hours == 2:
		s.emit(EventDueSoon, t, now, "Due Soon!",
			fmt.Sprintf("Your quest '%s' is due in 2 hours!", t.Title))
	case hours == 0 && d > 0 && d <= time.Hour:
		s.emit(EventDueNow, t, now, "Due Now!",
			fmt.Sprintf("Your quest '%s' is due within an hour!", t.Title))
	case d < 0:
		s.emit(EventOverdue, t, now, "Overdue!",
			fmt.Sprintf("Quest '%s' is overdue! Your character is in danger!", t.Title))
	}
}

func (s *Scheduler) checkRecurringLocked(t *Task, now time.Time) {
	local := now.In(s.loc)
	if !recurringSlot(t.Type, local.Hour(), local.Minute()) {
		return
	}
	switch t.Type {
	case TaskTypeDailyActivity:
		s.emit(EventDailyAvailable, t, now, "Daily Quest Available!", "Time for your daily quest: "+t.Title)
	case TaskTypeHabit:
		s.emit(EventHabitCheck, t, now, "Habit Check!", "Don't forget your habit: "+t.Title)
	}
}

// fireReminderLocked is the only place a custom reminder fires. Clearing
// HasReminder and the heap entry together keeps it one-shot across both paths.
func (s *Scheduler) fireReminderLocked(t *Task, now time.Time) {
	msg := "Time to work on: " + t.Title
	if t.DueAt != nil {
		msg += "\nDue: " + TimeUntilDue(*t, now)
	}
	t.HasReminder = false
	s.cancelLocked(t.ID)
	s.emit(EventReminderFired, t, now, "Quest Reminder!", msg)
}

func (s *Scheduler) emit(kind EventKind, t *Task, now time.Time, title string, msg string) {
	s.events.Publish(Event{
		Kind:    kind,
		Title:   title,
		Message: msg,
		TaskID:  t.ID,
		At:      now,
	})
}

// OverdueTasks returns the pending tasks flagged overdue by the last tick.
func (s *Scheduler) OverdueTasks() []Task {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.overdueLocked()
}

func (s *Scheduler) overdueLocked() []Task {
	var out []Task
	for _, t := range s.store.Pending() {
		if t.IsOverdue {
			out = append(out, t.Clone())
		}
	}
	return out
}

// UpcomingTasks returns pending tasks due strictly after now and within
// hoursAhead hours, earliest first. Tasks without a due date are left out.
func (s *Scheduler) UpcomingTasks(hoursAhead int) []Task {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.upcomingLocked(s.clock(), hoursAhead)
}

func (s *Scheduler) upcomingLocked(now time.Time, hoursAhead int) []Task {
	window := time.Duration(hoursAhead) * time.Hour
	var out []Task
	for _, t := range s.store.Pending() {
		if t.DueAt == nil {
			continue
		}
		d := t.DueAt.Sub(now)
		if d > 0 && d <= window {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueAt.Before(*out[j].DueAt)
	})
	return out
}

// UrgentTasks lists overdue tasks followed by urgent ones due in the next few hours.
func (s *Scheduler) UrgentTasks() []Task {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.clock()
	out := s.overdueLocked()
	for _, t := range s.upcomingLocked(now, urgentLookaheadHours) {
		if IsUrgent(t, now) {
			out = append(out, t)
		}
	}
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
