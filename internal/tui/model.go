package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"questpet/internal/engine"
	"questpet/internal/ui"
)

type tab int

const (
	tabToday tab = iota
	tabHabits
	tabPlanning
	tabAll
	tabShop
	tabCount
)

var tabNames = [tabCount]string{"Today", "Habits", "Planning", "All", "Shop"}

type mode int

const (
	modeList mode = iota
	modeAdd
)

const eventLogSize = 6

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	events <-chan engine.Event

	width  int
	height int

	tab      tab
	selected int
	mode     mode
	input    textinput.Model
	addType  int

	tasks  []engine.Task
	chars  []engine.Character
	coins  int
	active *engine.Character

	eventLog []string
	lastLog  string
}

type refreshMsg struct{}

type eventMsg struct {
	event engine.Event
	ok    bool
}

type actionMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, events <-chan engine.Event) boardModel {
	ti := textinput.New()
	ti.Placeholder = "Quest title"
	ti.CharLimit = 200
	ti.Width = 40

	m := boardModel{
		ctx:     ctx,
		svc:     svc,
		events:  events,
		input:   ti,
		lastLog: "Press a to add a quest, tab to switch lists.",
	}
	m.reload()
	return m
}

func (m boardModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(ch <-chan engine.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		return eventMsg{event: e, ok: ok}
	}
}

// reload snapshots the service; every call is in-memory.
func (m *boardModel) reload() {
	switch m.tab {
	case tabToday:
		m.tasks = m.svc.TodayTasks()
	case tabHabits:
		m.tasks = m.svc.HabitTasks()
	case tabPlanning:
		m.tasks = m.svc.PlanningTasks()
	case tabAll:
		m.tasks = m.svc.AllTasks()
	default:
		m.tasks = nil
	}
	m.chars = m.svc.Characters()
	m.coins = m.svc.Coins()
	m.active = nil
	if c, ok := m.svc.ActiveCharacter(); ok {
		m.active = &c
	}
	m.clampSelection()
}

func (m *boardModel) rowCount() int {
	if m.tab == tabShop {
		return len(m.chars)
	}
	return len(m.tasks)
}

func (m *boardModel) clampSelection() {
	n := m.rowCount()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) selectedTask() (engine.Task, bool) {
	if m.tab == tabShop || m.selected >= len(m.tasks) {
		return engine.Task{}, false
	}
	return m.tasks[m.selected], true
}

func (m boardModel) selectedCharacter() (engine.Character, bool) {
	if m.tab != tabShop || m.selected >= len(m.chars) {
		return engine.Character{}, false
	}
	return m.chars[m.selected], true
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)
		return m, nil
	case refreshMsg:
		m.reload()
		return m, nil
	case eventMsg:
		if !msg.ok {
			m.events = nil
			return m, nil
		}
		m.pushEvent(msg.event)
		m.reload()
		return m, waitForEvent(m.events)
	case actionMsg:
		if msg.err != nil {
			m.lastLog = ui.IconError + " " + msg.err.Error()
		} else {
			m.lastLog = msg.log
		}
		m.reload()
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg)
	}
	return m, nil
}

func (m *boardModel) pushEvent(e engine.Event) {
	line := fmt.Sprintf("%s %s %s", e.At.Format("15:04"), ui.EventIcon(e.Kind), e.Title)
	if msg := strings.SplitN(e.Message, "\n", 2)[0]; msg != "" {
		line += " " + msg
	}
	m.eventLog = append(m.eventLog, line)
	if len(m.eventLog) > eventLogSize {
		m.eventLog = m.eventLog[len(m.eventLog)-eventLogSize:]
	}
}

func (m boardModel) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.lastLog = "Cancelled."
		return m, nil
	case "tab":
		m.addType = (m.addType + 1) % len(engine.TaskTypes)
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.lastLog = "Title cannot be empty."
			return m, nil
		}
		typ := engine.TaskTypes[m.addType]
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, m.createCmd(title, typ)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m boardModel) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % tabCount
		m.selected = 0
		m.reload()
		return m, nil
	case "shift+tab", "left", "h":
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.selected = 0
		m.reload()
		return m, nil
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < m.rowCount()-1 {
			m.selected++
		}
		return m, nil
	case "r":
		m.lastLog = "Refreshed."
		return m, func() tea.Msg { return refreshMsg{} }
	case "a":
		if m.tab == tabShop {
			return m, nil
		}
		m.mode = modeAdd
		m.addType = defaultAddType(m.tab)
		m.input.Focus()
		return m, textinput.Blink
	}

	if m.tab == tabShop {
		c, ok := m.selectedCharacter()
		if !ok {
			return m, nil
		}
		switch msg.String() {
		case "b":
			return m, m.buyCmd(c)
		case "enter", " ":
			return m, m.activateCmd(c)
		}
		return m, nil
	}

	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "c", " ":
		return m, m.completeCmd(t)
	case "f":
		return m, m.failCmd(t)
	case "s":
		return m, m.skipCmd(t)
	case "d":
		return m, m.deleteCmd(t)
	}
	return m, nil
}

func defaultAddType(t tab) int {
	want := engine.TaskTypeTodo
	switch t {
	case tabHabits:
		want = engine.TaskTypeHabit
	case tabPlanning:
		want = engine.TaskTypePlanning
	}
	for i, typ := range engine.TaskTypes {
		if typ == want {
			return i
		}
	}
	return 0
}

func (m boardModel) createCmd(title string, typ engine.TaskType) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.CreateTask(m.ctx, engine.CreateTaskInput{Title: title, Type: typ})
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("%s Added %q (+%d / -%d coins)", ui.TypeIcon(t.Type), t.Title, t.CoinReward, t.CoinPenalty)}
	}
}

func (m boardModel) completeCmd(t engine.Task) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, t.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		log := fmt.Sprintf("%s Completed %q: +%d coins", ui.IconDone, t.Title, res.CoinsAwarded)
		switch {
		case res.Revived:
			log += ", your companion is back!"
		case res.LevelUp:
			log += fmt.Sprintf(", %s level %d", ui.BadgeLevelUp, res.LevelAfter)
		case res.XPAwarded > 0:
			log += fmt.Sprintf(", +%d XP", res.XPAwarded)
		}
		return actionMsg{log: log}
	}
}

func (m boardModel) failCmd(t engine.Task) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.FailTask(m.ctx, t.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		log := fmt.Sprintf("%s Failed %q: -%d coins", ui.IconFailed, t.Title, res.CoinsLost)
		if res.CharacterDied {
			log += ", your companion died. Complete a quest to revive it."
		}
		return actionMsg{log: log}
	}
}

func (m boardModel) skipCmd(t engine.Task) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.SkipTask(m.ctx, t.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("%s Skipped %q", ui.IconSkipped, t.Title)}
	}
}

func (m boardModel) deleteCmd(t engine.Task) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteTask(m.ctx, t.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("Deleted %q", t.Title)}
	}
}

func (m boardModel) buyCmd(c engine.Character) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.BuyCharacter(c.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("%s Bought %s", ui.IconShop, c.Name)}
	}
}

func (m boardModel) activateCmd(c engine.Character) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.SetActiveCharacter(c.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("%s %s is now your companion", ui.IconPet, c.Name)}
	}
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	if m.tab == tabShop {
		b.WriteString(m.renderShop())
	} else {
		b.WriteString(m.renderTasks())
	}
	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(ui.LabelValue("New "+strings.ToLower(string(engine.TaskTypes[m.addType])), m.input.View()))
		b.WriteString("\n")
		b.WriteString(ui.Muted.Render("enter: save  tab: change type  esc: cancel"))
		b.WriteString("\n")
	}
	b.WriteString(m.renderEvents())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m boardModel) renderHeader() string {
	head := ui.Heading(ui.IconPet, "Questpet") + "  " + ui.Coins(m.coins)
	if m.active == nil {
		return head
	}
	c := m.active
	bar := progressBar(c.Experience, engine.XPThresholdForLevel(c.Level), 20)
	return fmt.Sprintf("%s  |  %s L%d %s %s", head, c.Name, c.Level, bar, ui.CharacterStatusText(c.Status))
}

func (m boardModel) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts = append(parts, ui.ActiveTab.Render(name))
		} else {
			parts = append(parts, ui.Tab.Render(name))
		}
	}
	return strings.Join(parts, " ")
}

func (m boardModel) renderTasks() string {
	if len(m.tasks) == 0 {
		return ui.Muted.Render("(no quests here)")
	}
	now := m.svc.Now()
	lines := make([]string, 0, len(m.tasks))
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s [%s]", cursor, ui.TypeIcon(t.Type), t.Title, ui.PriorityText(t.Priority))
		if t.Status != engine.TaskStatusPending {
			line += " " + ui.StatusText(t.Status)
		} else if due := engine.TimeUntilDue(t, now); due != "" {
			switch {
			case engine.IsUrgent(t, now):
				due = ui.Bad.Render(due)
			case engine.IsDueToday(t, now):
				due = ui.Warn.Render(due)
			}
			line += " due: " + due
		}
		if t.HasReminder {
			line += " " + ui.IconBell
		}
		if i == m.selected {
			line = ui.SelectedRow.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderShop() string {
	lines := make([]string, 0, len(m.chars))
	for i, c := range m.chars {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		price := ui.Coins(c.Price)
		switch {
		case c.IsFree:
			price = ui.Good.Render("free")
		case c.IsOwned:
			price = ui.Good.Render("owned")
		}
		line := fmt.Sprintf("%s%s L%d %s %s", cursor, c.Name, c.Level, price, ui.CharacterStatusText(c.Status))
		if m.active != nil && m.active.ID == c.ID {
			line += " " + ui.Gold.Render("(active)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderEvents() string {
	if len(m.eventLog) == 0 {
		return ""
	}
	return "\n" + ui.H2.Render(ui.IconScroll+" Events") + "\n" + strings.Join(m.eventLog, "\n") + "\n"
}

func (m boardModel) renderFooter() string {
	keys := "a: add  c/space: complete  f: fail  s: skip  d: delete  tab: switch  q: quit"
	if m.tab == tabShop {
		keys = "b: buy  enter: set active  tab: switch  q: quit"
	}
	return m.lastLog + "\n" + ui.Muted.Render(keys)
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
