package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questpet/internal/engine"
	"questpet/internal/storage"
)

var boardNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestBoard(t *testing.T) (boardModel, *engine.Service) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := engine.NewService(db, engine.Config{
		StartingCoins: engine.DefaultStartingCoins,
		Location:      time.UTC,
		Clock:         func() time.Time { return boardNow },
	})
	t.Cleanup(svc.Shutdown)
	return newBoardModel(context.Background(), svc, nil), svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds one key and runs any resulting command synchronously.
func press(t *testing.T, m boardModel, key tea.KeyMsg) boardModel {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(boardModel)
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case actionMsg, refreshMsg:
		next, _ = m.Update(msg)
		m = next.(boardModel)
	}
	return m
}

// typeText feeds runes into the add prompt. Its cursor blink commands are
// timers and are dropped.
func typeText(t *testing.T, m boardModel, text string) boardModel {
	t.Helper()
	next, _ := m.Update(runes(text))
	return next.(boardModel)
}

func TestBoardStartsOnTodayTab(t *testing.T) {
	m, _ := newTestBoard(t)
	view := m.View()
	assert.Contains(t, view, "Questpet")
	assert.Contains(t, view, "no quests here")
	assert.Contains(t, view, "Starter Pet")
	assert.Nil(t, m.Init(), "no event channel, no wait command")
}

func TestBoardAddAndCompleteQuest(t *testing.T) {
	m, svc := newTestBoard(t)

	m = press(t, m, runes("a"))
	require.Equal(t, modeAdd, m.mode)
	m = typeText(t, m, "water plants")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeList, m.mode)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "water plants", m.tasks[0].Title)
	assert.Equal(t, engine.TaskTypeTodo, m.tasks[0].Type)
	assert.Contains(t, m.lastLog, "water plants")

	m = press(t, m, runes("c"))
	assert.Equal(t, 60, svc.Coins())
	assert.Equal(t, 60, m.coins)
	assert.Empty(t, m.tasks)
	assert.Contains(t, m.lastLog, "+10 coins")
}

func TestBoardAddUsesTabType(t *testing.T) {
	m, svc := newTestBoard(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, tabHabits, m.tab)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "stretch")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	habits := svc.HabitTasks()
	require.Len(t, habits, 1)
	assert.Equal(t, "stretch", habits[0].Title)
	assert.Len(t, m.tasks, 1)
}

func TestBoardEscCancelsAdd(t *testing.T) {
	m, svc := newTestBoard(t)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "nope")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, svc.AllTasks())

	m = press(t, m, runes("a"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeAdd, m.mode, "empty title keeps the prompt open")
	assert.Equal(t, "Title cannot be empty.", m.lastLog)
}

func TestBoardFailKillsCompanion(t *testing.T) {
	m, svc := newTestBoard(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.CreateTask(ctx, engine.CreateTaskInput{Title: "chore", Type: engine.TaskTypePlanning})
		require.NoError(t, err)
	}
	m = press(t, m, runes("r"))
	require.Len(t, m.tasks, 0, "planning quests are not on the today list")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, tabPlanning, m.tab)
	require.Len(t, m.tasks, 3)

	for i := 0; i < 3; i++ {
		m = press(t, m, runes("f"))
	}
	assert.Equal(t, 5, svc.Coins())
	assert.Empty(t, m.tasks)

	_, err := svc.CreateTask(ctx, engine.CreateTaskInput{Title: "last", Type: engine.TaskTypeHabit})
	require.NoError(t, err)
	_, err = svc.FailTask(ctx, svc.HabitTasks()[0].ID)
	require.NoError(t, err)
	m = press(t, m, runes("r"))
	require.NotNil(t, m.active)
	assert.Equal(t, engine.CharacterDead, m.active.Status)
}

func TestBoardShopBuyAndActivate(t *testing.T) {
	m, svc := newTestBoard(t)
	for i := 0; i < 4; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	require.Equal(t, tabShop, m.tab)
	require.Len(t, m.chars, 5)
	assert.Contains(t, m.View(), "Dragon")

	m = press(t, m, runes("j"))
	m = press(t, m, runes("b"))
	assert.Contains(t, m.lastLog, "not enough coins")
	assert.Equal(t, 50, m.coins)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.lastLog, "not owned")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		task, err := svc.CreateTask(ctx, engine.CreateTaskInput{Title: "plan", Type: engine.TaskTypePlanning})
		require.NoError(t, err)
		_, err = svc.CompleteTask(ctx, task.ID)
		require.NoError(t, err)
	}
	m = press(t, m, runes("b"))
	assert.Contains(t, m.lastLog, "Bought Dragon")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.active)
	assert.Equal(t, "dragon", m.active.Slug)
	assert.Contains(t, m.View(), "(active)")
}

func TestBoardEventLogKeepsRecentEvents(t *testing.T) {
	m, _ := newTestBoard(t)
	for i := 0; i < eventLogSize+2; i++ {
		next, cmd := m.Update(eventMsg{ok: true, event: engine.Event{
			Kind:    engine.EventReminderFired,
			Title:   "Reminder",
			Message: "Time to work on: quest\nDue: 1h 0m",
			At:      boardNow,
		}})
		m = next.(boardModel)
		assert.Nil(t, cmd, "nil channel yields no follow-up wait")
	}
	assert.Len(t, m.eventLog, eventLogSize)
	assert.Contains(t, m.eventLog[0], "Time to work on: quest")
	assert.NotContains(t, m.eventLog[0], "Due:")
	assert.Contains(t, m.View(), "Events")

	next, _ := m.Update(eventMsg{ok: false})
	m = next.(boardModel)
	assert.Nil(t, m.events)
}

func TestBoardQuit(t *testing.T) {
	m, _ := newTestBoard(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[#####-----]", progressBar(50, 100, 10))
	assert.Equal(t, "[----------]", progressBar(-1, 100, 10))
	assert.Equal(t, "[##########]", progressBar(500, 100, 10))
	assert.Equal(t, "[---]", progressBar(0, 0, 1))
}
