package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questpet/internal/storage"
)

// Monday, 08:00 UTC.
var testStart = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestService(t *testing.T, start time.Time) (*Service, *fakeClock) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := newFakeClock(start)
	svc := NewService(db, Config{
		StartingCoins: DefaultStartingCoins,
		Location:      time.UTC,
		Clock:         clock.Now,
	})
	t.Cleanup(svc.Shutdown)
	return svc, clock
}

func mustCreate(t *testing.T, svc *Service, title string, typ TaskType) Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), CreateTaskInput{Title: title, Type: typ})
	require.NoError(t, err)
	return task
}

func at(v time.Time) *time.Time { return &v }

func TestCoinRulesFixedPerType(t *testing.T) {
	cases := map[TaskType][2]int{
		TaskTypeTodo:          {10, 5},
		TaskTypeHabit:         {15, 10},
		TaskTypePlanning:      {20, 15},
		TaskTypeDailyActivity: {5, 3},
	}
	for typ, want := range cases {
		task, err := NewTask("quest", typ, testStart)
		require.NoError(t, err)
		assert.Equal(t, want[0], task.CoinReward, typ)
		assert.Equal(t, want[1], task.CoinPenalty, typ)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Equal(t, PriorityMedium, task.Priority)
	}
}

func TestNewTaskDerivedFields(t *testing.T) {
	daily, err := NewTask("  stretch  ", TaskTypeDailyActivity, testStart)
	require.NoError(t, err)
	assert.Equal(t, "stretch", daily.Title)
	assert.True(t, daily.IsRecurring())
	assert.Equal(t, 1, daily.RecurringPeriodDays)

	plan, err := NewTask("plan week", TaskTypePlanning, testStart)
	require.NoError(t, err)
	assert.False(t, plan.IsRecurring())
	assert.Equal(t, 7, plan.RecurringPeriodDays)
	assert.NotEqual(t, daily.ID, plan.ID)

	_, err = NewTask("   ", TaskTypeTodo, testStart)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewTask("x", TaskType("BOGUS"), testStart)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCloneIsDeep(t *testing.T) {
	task, err := NewTask("quest", TaskTypeTodo, testStart)
	require.NoError(t, err)
	task.DueAt = at(testStart.Add(time.Hour))

	c := task.Clone()
	*c.DueAt = testStart
	assert.Equal(t, testStart.Add(time.Hour), *task.DueAt)
}

func TestGainExperienceAdvancesOneLevelPerCall(t *testing.T) {
	c := NewCharacter("Pet", "pet", 0, true)
	c.GainExperience(100)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 100, c.Experience)

	big := NewCharacter("Pet", "pet", 0, true)
	big.GainExperience(500)
	assert.Equal(t, 2, big.Level)
	assert.Equal(t, 500, big.Experience)

	small := NewCharacter("Pet", "pet", 0, true)
	small.GainExperience(99)
	assert.Equal(t, 1, small.Level)
	small.GainExperience(0)
	small.GainExperience(-5)
	assert.Equal(t, 99, small.Experience)
}

func TestIsUrgent(t *testing.T) {
	now := testStart
	task := Task{}
	assert.False(t, IsUrgent(task, now), "no due date")

	task.DueAt = at(now.Add(2 * time.Hour))
	assert.True(t, IsUrgent(task, now))

	task.DueAt = at(now.Add(2*time.Hour + time.Second))
	assert.False(t, IsUrgent(task, now))

	task.IsOverdue = true
	assert.True(t, IsUrgent(task, now))
}

func TestTimeUntilDue(t *testing.T) {
	now := testStart
	cases := []struct {
		due  *time.Time
		want string
	}{
		{nil, ""},
		{at(now.Add(25 * time.Hour)), "1 days"},
		{at(now.Add(72*time.Hour + time.Minute)), "3 days"},
		{at(now.Add(24 * time.Hour)), "24h 0m"},
		{at(now.Add(90 * time.Minute)), "1h 30m"},
		{at(now.Add(30 * time.Minute)), "30 minutes"},
		{at(now.Add(-10 * time.Minute)), "Overdue"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeUntilDue(Task{DueAt: tc.due}, now))
	}
}

func TestIsDueToday(t *testing.T) {
	now := testStart
	assert.True(t, IsDueToday(Task{DueAt: at(now.Add(23 * time.Hour))}, now))
	assert.True(t, IsDueToday(Task{DueAt: at(now.Add(-23 * time.Hour))}, now))
	assert.False(t, IsDueToday(Task{DueAt: at(now.Add(25 * time.Hour))}, now))
	assert.False(t, IsDueToday(Task{}, now))
}

func TestCalendarDayHelpers(t *testing.T) {
	late := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC)
	assert.False(t, SameDay(late, early, time.UTC), "two minutes apart but different days")
	assert.True(t, SameDay(testStart, late, time.UTC))

	start, end := DayBounds(late, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, end, NextMidnight(late, time.UTC))
}

func TestParseInputs(t *testing.T) {
	typ, err := ParseTaskType("")
	require.NoError(t, err)
	assert.Equal(t, TaskTypeTodo, typ)
	typ, err = ParseTaskType("Daily")
	require.NoError(t, err)
	assert.Equal(t, TaskTypeDailyActivity, typ)
	_, err = ParseTaskType("chore")
	require.Error(t, err)

	p, err := ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)
	_, err = ParsePriority("meh")
	require.Error(t, err)

	v, ok, err := ParseView("habits")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ViewHabit, v)
	_, ok, err = ParseView("all")
	require.NoError(t, err)
	assert.False(t, ok)
}
