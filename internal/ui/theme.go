package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"questpet/internal/engine"
)

// Questpet theme (CLI + TUI).

const (
	IconQuest    = "🗺️"
	IconHabit    = "🔁"
	IconPlan     = "📋"
	IconDaily    = "☀️"
	IconCoin     = "🪙"
	IconSparkle  = "✨"
	IconDone     = "✅"
	IconFailed   = "💀"
	IconSkipped  = "⏭️"
	IconBell     = "🔔"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconPet      = "🐾"
	IconShop     = "🛒"
	IconScroll   = "📜"
	IconHeart    = "❤️"
	IconTombstone = "🪦"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Tab         = lipgloss.NewStyle().Foreground(cMuted).Padding(0, 1)
	ActiveTab   = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Coins renders a balance, red when negative.
func Coins(n int) string {
	s := fmt.Sprintf("%s %d", IconCoin, n)
	if n < 0 {
		return Bad.Render(s)
	}
	return Gold.Render(s)
}

func StatusText(s engine.TaskStatus) string {
	switch s {
	case engine.TaskStatusCompleted:
		return Good.Render("completed")
	case engine.TaskStatusFailed:
		return Bad.Render("failed")
	case engine.TaskStatusSkipped:
		return Muted.Render("skipped")
	default:
		return Warn.Render("pending")
	}
}

func TypeIcon(t engine.TaskType) string {
	switch t {
	case engine.TaskTypeHabit:
		return IconHabit
	case engine.TaskTypePlanning:
		return IconPlan
	case engine.TaskTypeDailyActivity:
		return IconDaily
	default:
		return IconQuest
	}
}

func PriorityText(p engine.Priority) string {
	switch p {
	case engine.PriorityUrgent:
		return Bad.Render("urgent")
	case engine.PriorityHigh:
		return Warn.Render("high")
	case engine.PriorityLow:
		return Muted.Render("low")
	default:
		return "medium"
	}
}

func CharacterStatusText(s engine.CharacterStatus) string {
	if s == engine.CharacterDead {
		return Bad.Render(IconTombstone + " dead")
	}
	return Good.Render(IconHeart + " alive")
}

// EventIcon picks a glyph for a scheduler event kind.
func EventIcon(k engine.EventKind) string {
	switch k {
	case engine.EventOverdue, engine.EventOverduePenalty:
		return IconWarn
	case engine.EventDailyAvailable:
		return IconDaily
	case engine.EventHabitCheck:
		return IconHabit
	default:
		return IconBell
	}
}
