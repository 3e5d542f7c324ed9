package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"questpet/internal/storage"
)

// Config tunes a Service. Zero values fall back to the defaults.
type Config struct {
	StartingCoins int
	TickInterval  time.Duration
	EventBuffer   int
	Location      *time.Location
	Clock         func() time.Time
	Logger        *zap.Logger
	// Roster replaces DefaultRoster when non-empty.
	Roster []*Character
}

const DefaultEventBuffer = 64

func (c Config) normalized() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = DefaultEventBuffer
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if len(c.Roster) == 0 {
		c.Roster = DefaultRoster()
	}
	return c
}

// Service is the composition root: it owns the task store, the game state and
// the scheduler, and serializes every operation on one mutex.
type Service struct {
	mu sync.Mutex

	cfg       Config
	log       *zap.Logger
	store     *TaskStore
	game      *GameState
	events    *Broadcaster
	scheduler *Scheduler
}

// NewService wires a Service over db, which holds the task archive.
func NewService(db *sqlx.DB, cfg Config) *Service {
	cfg = cfg.normalized()
	s := &Service{
		cfg: cfg,
		log: cfg.Logger,
	}
	s.store = NewTaskStore(cfg.Location)
	history := NewSQLHistory(storage.NewHistoryRepo(db), cfg.Location)
	s.game = NewGameState(cfg.StartingCoins, cfg.Roster, history, cfg.Logger.Named("game"))
	s.events = NewBroadcaster(cfg.Logger.Named("events"))
	s.scheduler = NewScheduler(&s.mu, s.store, s.events, SchedulerConfig{
		Interval: cfg.TickInterval,
		Clock:    cfg.Clock,
		Location: cfg.Location,
		Logger:   cfg.Logger.Named("scheduler"),
	})
	return s
}

func (s *Service) Scheduler() *Scheduler { return s.scheduler }

func (s *Service) Location() *time.Location { return s.cfg.Location }

func (s *Service) Now() time.Time { return s.cfg.Clock() }

func (s *Service) Start(ctx context.Context) error {
	return s.scheduler.Start(ctx)
}

// Shutdown stops the scheduler and closes every event subscription.
func (s *Service) Shutdown() {
	s.scheduler.Shutdown()
	s.events.Close()
}

// Subscribe returns a channel of scheduler events and a func to unsubscribe.
// A buffer of 0 uses the configured default.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = s.cfg.EventBuffer
	}
	return s.events.Subscribe(buffer)
}

// liveTaskLocked returns the live task for id. Ids that only survive in the
// archive report ErrTaskNotPending.
func (s *Service) liveTaskLocked(ctx context.Context, id string) (*Task, error) {
	if t, ok := s.store.Get(id); ok {
		return t, nil
	}
	archived, err := s.game.History().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if archived != nil {
		return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotPending)
	}
	return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
}

func (s *Service) pendingTaskLocked(ctx context.Context, id string) (*Task, error) {
	t, err := s.liveTaskLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != TaskStatusPending {
		return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotPending)
	}
	return t, nil
}

func (s *Service) CompleteTask(ctx context.Context, id string) (*CompleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.pendingTaskLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.cfg.Clock()
	res, err := s.game.CompleteTask(ctx, t, now)
	if err != nil {
		return nil, err
	}
	s.scheduler.cancelLocked(id)
	s.store.Update(t, now)
	return res, nil
}

func (s *Service) FailTask(ctx context.Context, id string) (*FailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.pendingTaskLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.game.FailTask(ctx, t)
	if err != nil {
		return nil, err
	}
	s.scheduler.cancelLocked(id)
	s.store.Update(t, s.cfg.Clock())
	return res, nil
}

// SkipTask retires a pending task without reward or penalty. Skipped tasks
// are not archived.
func (s *Service) SkipTask(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.pendingTaskLocked(ctx, id)
	if err != nil {
		return Task{}, err
	}
	t.Status = TaskStatusSkipped
	s.scheduler.cancelLocked(id)
	s.store.Update(t, s.cfg.Clock())
	s.log.Info("task skipped", zap.String("task_id", id))
	return t.Clone(), nil
}

// DeleteTask removes a live task and its pending reminder.
func (s *Service) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler.cancelLocked(id)
	if !s.store.Remove(id) {
		return fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	s.log.Info("task deleted", zap.String("task_id", id))
	return nil
}

// Task returns a live task, falling back to the archive.
func (s *Service) Task(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.store.Get(id); ok {
		return t.Clone(), nil
	}
	archived, err := s.game.History().Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if archived == nil {
		return Task{}, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	return *archived, nil
}

func (s *Service) AllTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.store.All())
}

func (s *Service) TodayTasks() []Task    { return s.viewTasks(ViewToday) }
func (s *Service) HabitTasks() []Task    { return s.viewTasks(ViewHabit) }
func (s *Service) PlanningTasks() []Task { return s.viewTasks(ViewPlanning) }

func (s *Service) viewTasks(v View) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.store.View(v))
}

func (s *Service) OverdueTasks() []Task { return s.scheduler.OverdueTasks() }

func (s *Service) UpcomingTasks(hoursAhead int) []Task { return s.scheduler.UpcomingTasks(hoursAhead) }

func (s *Service) UrgentTasks() []Task { return s.scheduler.UrgentTasks() }

// TasksByDate returns every task created or due on day's calendar day, live
// tasks first, then archived ones not already listed.
func (s *Service) TasksByDate(ctx context.Context, day time.Time) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := DayBounds(day, s.cfg.Location)
	seen := map[string]bool{}
	var out []Task
	for _, t := range s.store.All() {
		if touchesDay(*t, start, end) {
			seen[t.ID] = true
			out = append(out, t.Clone())
		}
	}
	archived, err := s.game.History().ListTouching(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, t := range archived {
		if !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out, nil
}

// CompletedTasksByDate returns the tasks whose completion falls on day's
// calendar day, whenever they were created.
func (s *Service) CompletedTasksByDate(ctx context.Context, day time.Time) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := DayBounds(day, s.cfg.Location)
	seen := map[string]bool{}
	var out []Task
	for _, t := range s.store.All() {
		if t.Status == TaskStatusCompleted && t.CompletedAt != nil && inRange(*t.CompletedAt, start, end) {
			seen[t.ID] = true
			out = append(out, t.Clone())
		}
	}
	archived, err := s.game.History().ListCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, t := range archived {
		if !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out, nil
}

type DayStats struct {
	Total       int
	Completed   int
	SuccessRate int // percent, 0 when there were no tasks
}

func (s *Service) DayStats(ctx context.Context, day time.Time) (DayStats, error) {
	all, err := s.TasksByDate(ctx, day)
	if err != nil {
		return DayStats{}, err
	}
	completed, err := s.CompletedTasksByDate(ctx, day)
	if err != nil {
		return DayStats{}, err
	}
	st := DayStats{Total: len(all), Completed: len(completed)}
	if st.Total > 0 {
		// Completions of older tasks count toward the day too.
		st.SuccessRate = min(st.Completed*100/st.Total, 100)
	}
	return st, nil
}

// HabitStreak counts archived completions of the habit with this exact title.
func (s *Service) HabitStreak(ctx context.Context, title string) (int, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	done, err := s.game.History().ListCompletedByTitle(ctx, TaskTypeHabit, title)
	if err != nil {
		return 0, err
	}
	return len(done), nil
}

func touchesDay(t Task, start, end time.Time) bool {
	if inRange(t.CreatedAt, start, end) {
		return true
	}
	return t.DueAt != nil && inRange(*t.DueAt, start, end)
}

func inRange(v, start, end time.Time) bool {
	return !v.Before(start) && v.Before(end)
}

// Game operations.

func (s *Service) Coins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Coins()
}

func (s *Service) CompletedTaskToday() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.CompletedToday()
}

func (s *Service) Characters() []Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Characters()
}

func (s *Service) OwnedCharacters() []Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Owned()
}

func (s *Service) ActiveCharacter() (Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Active()
}

func (s *Service) characterLocked(ref string) (*Character, error) {
	c, ok := s.game.Character(ref)
	if !ok {
		return nil, fmt.Errorf("character %s: %w", ref, ErrCharacterNotFound)
	}
	return c, nil
}

// BuyCharacter purchases the character with the given id or slug.
func (s *Service) BuyCharacter(ref string) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.characterLocked(ref)
	if err != nil {
		return Character{}, err
	}
	if err := s.game.BuyCharacter(c); err != nil {
		return Character{}, err
	}
	return *c, nil
}

func (s *Service) SetActiveCharacter(ref string) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.characterLocked(ref)
	if err != nil {
		return Character{}, err
	}
	if err := s.game.SetActiveCharacter(c); err != nil {
		return Character{}, err
	}
	return *c, nil
}

func (s *Service) ResetDailyProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.ResetDailyProgress()
	s.log.Info("daily progress reset")
}

// IsPrecondition reports whether err is a rejected operation that left state
// untouched, as opposed to a lookup miss or an internal failure.
func IsPrecondition(err error) bool {
	var coins InsufficientCoinsError
	return errors.Is(err, ErrTaskNotPending) ||
		errors.Is(err, ErrCharacterOwned) ||
		errors.Is(err, ErrCharacterNotOwned) ||
		errors.As(err, &coins)
}
