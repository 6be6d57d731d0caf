package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Interactive week board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("%w: the board needs a terminal; try `planboard week`", domain.ErrValidation)
			}
			p := tea.NewProgram(
				newBoardModel(cmd.Context(), app),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}

// ── keys ─────────────────────────────────────────────────────────────────────

type boardKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevWeek  key.Binding
	NextWeek  key.Binding
	Today     key.Binding
	Pick      key.Binding
	Schedule  key.Binding
	Extend    key.Binding
	Shrink    key.Binding
	Remove    key.Binding
	Move      key.Binding
	Duplicate key.Binding
	Hours     key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	CloseDay  key.Binding
	ReopenDay key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev block")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next block")),
		PrevWeek:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Pick:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "initiative")),
		Schedule:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "schedule")),
		Extend:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "extend")),
		Shrink:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shrink")),
		Remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Move:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Duplicate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		Hours:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit hours")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop here")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		CloseDay:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close day")),
		ReopenDay: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "reopen day")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Schedule, k.CloseDay, k.Remove, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.PrevWeek, k.NextWeek, k.Today},
		{k.Pick, k.Schedule, k.Extend, k.Shrink, k.Remove},
		{k.Move, k.Duplicate, k.Hours, k.Confirm, k.Cancel},
		{k.CloseDay, k.ReopenDay, k.Help, k.Quit},
	}
}

// ── model ────────────────────────────────────────────────────────────────────

type boardMode int

const (
	modeBrowse boardMode = iota
	modeMove
	modeDuplicate
	modeHours
)

// boardModel shows one work week as five day columns. Services mutate the
// board in place, so every action runs synchronously inside Update.
type boardModel struct {
	ctx  context.Context
	app  *App
	keys boardKeyMap
	help help.Model

	mode    boardMode
	carried string // block ID picked up by move or duplicate
	input   textinput.Model

	week time.Time // Monday of the visible week
	day  int       // 0..4
	row  int       // block index within the selected day
	pick int       // index into the active initiatives

	status string
	err    error
	width  int
}

func newBoardModel(ctx context.Context, app *App) *boardModel {
	today := app.today()
	day := 0
	if workweek.IsWorkDay(today) {
		day = int(today.Weekday()) - 1
	}
	input := textinput.New()
	input.Prompt = "hours: "
	input.CharLimit = 5
	input.Width = 6
	return &boardModel{
		ctx:   ctx,
		app:   app,
		keys:  defaultBoardKeyMap(),
		help:  help.New(),
		input: input,
		week:  workweek.WeekStart(today),
		day:   day,
	}
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) selectedDate() time.Time {
	return m.week.AddDate(0, 0, m.day)
}

func (m *boardModel) dayBlocks(d time.Time) []*domain.ScheduledBlock {
	return m.app.Schedule.BlocksInRange(m.app.Board, d, d)
}

func (m *boardModel) selectedBlock() *domain.ScheduledBlock {
	blocks := m.dayBlocks(m.selectedDate())
	if m.row < 0 || m.row >= len(blocks) {
		return nil
	}
	return blocks[m.row]
}

func (m *boardModel) activeInitiatives() []*domain.Initiative {
	return m.app.Initiatives.List(m.app.Board, domain.FilterActive)
}

func (m *boardModel) pickedInitiative() *domain.Initiative {
	active := m.activeInitiatives()
	if len(active) == 0 {
		return nil
	}
	return active[m.pick%len(active)]
}

func (m *boardModel) clampRow() {
	n := len(m.dayBlocks(m.selectedDate()))
	m.row = max(min(m.row, n-1), 0)
}

func (m *boardModel) report(status string, err error) {
	m.status, m.err = status, err
	if err != nil {
		m.status = ""
	}
	m.clampRow()
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, b := m.ctx, m.app.Board

	if m.mode == modeHours && msg.Type != tea.KeyCtrlC {
		return m.handleHoursKey(msg)
	}
	if m.mode == modeMove || m.mode == modeDuplicate {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.drop()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.mode, m.carried = modeBrowse, ""
			m.report("Cancelled", nil)
			return m, nil
		case key.Matches(msg, m.keys.Left, m.keys.Right, m.keys.Up, m.keys.Down,
			m.keys.PrevWeek, m.keys.NextWeek, m.keys.Today, m.keys.Help, m.keys.Quit):
		default:
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.day > 0 {
			m.day--
		} else {
			m.week, m.day = m.week.AddDate(0, 0, -7), 4
		}
		m.row = 0
	case key.Matches(msg, m.keys.Right):
		if m.day < 4 {
			m.day++
		} else {
			m.week, m.day = m.week.AddDate(0, 0, 7), 0
		}
		m.row = 0
	case key.Matches(msg, m.keys.Up):
		m.row--
		m.clampRow()
	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampRow()
	case key.Matches(msg, m.keys.PrevWeek):
		m.week = m.week.AddDate(0, 0, -7)
		m.clampRow()
	case key.Matches(msg, m.keys.NextWeek):
		m.week = m.week.AddDate(0, 0, 7)
		m.clampRow()
	case key.Matches(msg, m.keys.Today):
		fresh := newBoardModel(m.ctx, m.app)
		m.week, m.day, m.row = fresh.week, fresh.day, 0

	case key.Matches(msg, m.keys.Pick):
		if n := len(m.activeInitiatives()); n > 0 {
			m.pick = (m.pick + 1) % n
		}

	case key.Matches(msg, m.keys.Schedule):
		i := m.pickedInitiative()
		if i == nil {
			m.report("", fmt.Errorf("create an initiative first"))
			break
		}
		blk, err := m.app.Schedule.Schedule(ctx, b, i.ID, m.selectedDate())
		if err == nil {
			m.row = indexOf(m.dayBlocks(m.selectedDate()), blk.ID)
		}
		m.report(fmt.Sprintf("Scheduled %s on %s", i.Name, formatter.DayLabel(m.selectedDate())), err)

	case key.Matches(msg, m.keys.Extend):
		if blk := m.selectedBlock(); blk != nil {
			_, err := m.app.Schedule.Extend(ctx, b, blk.ID)
			m.report("Extended block", err)
		}
	case key.Matches(msg, m.keys.Shrink):
		if blk := m.selectedBlock(); blk != nil {
			_, err := m.app.Schedule.Shrink(ctx, b, blk.ID)
			m.report("Shrunk block", err)
		}
	case key.Matches(msg, m.keys.Remove):
		if blk := m.selectedBlock(); blk != nil {
			m.report("Removed block", m.app.Schedule.Remove(ctx, b, blk.ID))
		}

	case key.Matches(msg, m.keys.Move, m.keys.Duplicate):
		blk := m.selectedBlock()
		if blk == nil {
			break
		}
		verb := "Moving"
		m.mode = modeMove
		if key.Matches(msg, m.keys.Duplicate) {
			verb, m.mode = "Duplicating", modeDuplicate
		}
		m.carried = blk.ID
		m.report(fmt.Sprintf("%s %s: pick a day, enter to drop, esc to cancel", verb, m.blockName(blk)), nil)

	case key.Matches(msg, m.keys.Hours):
		blk := m.selectedBlock()
		if blk == nil {
			break
		}
		m.mode, m.carried = modeHours, blk.ID
		m.input.SetValue(strconv.FormatFloat(blk.HoursOn(m.selectedDate()), 'f', -1, 64))
		m.input.CursorEnd()
		m.status, m.err = "", nil
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.CloseDay):
		c, err := m.app.Ledger.CloseDay(ctx, b, m.selectedDate())
		status := ""
		if err == nil {
			status = fmt.Sprintf("Closed %s: %s consumed", formatter.DayLabel(c.Date), formatter.Hours(c.Total()))
		}
		m.report(status, err)
	case key.Matches(msg, m.keys.ReopenDay):
		m.report("Reopened "+formatter.DayLabel(m.selectedDate()), m.app.Ledger.ReopenDay(ctx, b, m.selectedDate()))
	}
	return m, nil
}

func (m *boardModel) handleHoursKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endHours()
		m.report("Cancelled", nil)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		id, value := m.carried, m.input.Value()
		m.endHours()
		h, err := parseHours(value)
		if err == nil {
			_, err = m.app.Schedule.UpdateHours(m.ctx, m.app.Board, id, m.selectedDate(), h)
		}
		m.report(fmt.Sprintf("Set %s on %s", formatter.Hours(h), formatter.DayLabel(m.selectedDate())), err)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) endHours() {
	m.mode, m.carried = modeBrowse, ""
	m.input.Blur()
}

// drop applies a pending move or duplicate on the selected day.
func (m *boardModel) drop() {
	ctx, b, target := m.ctx, m.app.Board, m.selectedDate()
	mode, id := m.mode, m.carried
	m.mode, m.carried = modeBrowse, ""

	blk, ok := b.Block(id)
	if !ok {
		m.report("", fmt.Errorf("%w: block %s is gone", domain.ErrNotFound, id))
		return
	}
	name := m.blockName(blk)

	if mode == modeMove {
		moved, err := m.app.Schedule.Move(ctx, b, id, target)
		if err == nil {
			m.row = indexOf(m.dayBlocks(target), moved.ID)
		}
		m.report(fmt.Sprintf("Moved %s to %s", name, formatter.DayLabel(target)), err)
		return
	}

	hours := domain.HoursOrDefault(blk.HoursPerDay, workweek.Key(blk.StartDate))
	res, err := m.app.Schedule.Duplicate(ctx, b, id,
		[]service.DuplicateTarget{{Date: target, Hours: hours}}, domain.DuplicateBestEffort)
	if err == nil && len(res.Skipped) > 0 {
		err = res.Skipped[0].Err
	}
	if err == nil && len(res.Created) > 0 {
		m.row = indexOf(m.dayBlocks(target), res.Created[0].ID)
	}
	m.report(fmt.Sprintf("Duplicated %s to %s", name, formatter.DayLabel(target)), err)
}

func (m *boardModel) blockName(blk *domain.ScheduledBlock) string {
	if i, ok := m.app.Board.Initiative(blk.InitiativeID); ok {
		return i.Name
	}
	return blk.DisplayID()
}

func indexOf(blocks []*domain.ScheduledBlock, id string) int {
	for n, blk := range blocks {
		if blk.ID == id {
			return n
		}
	}
	return 0
}

// ── view ─────────────────────────────────────────────────────────────────────

const defaultColumnWidth = 22

func (m *boardModel) View() string {
	var b strings.Builder

	title := formatter.StyleHeader.Render("WEEK OF " + strings.ToUpper(m.week.Format("Jan 2, 2006")))
	picked := formatter.Dim("no active initiatives")
	if i := m.pickedInitiative(); i != nil {
		picked = formatter.Swatch(i.Color) + " " + formatter.Bold(i.Name)
	}
	b.WriteString(title + "   " + formatter.Dim("scheduling:") + " " + picked + "\n\n")

	width := defaultColumnWidth
	if m.width > 0 {
		width = max(m.width/5-2, 14)
	}
	columns := make([]string, 0, 5)
	for n, d := range workweek.WeekDays(m.week) {
		columns = append(columns, m.renderDay(d, n == m.day, width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	switch {
	case m.mode == modeHours:
		b.WriteString(m.input.View() + formatter.Dim("  enter to save, esc to cancel"))
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("✗ " + m.err.Error()))
	case m.status != "":
		b.WriteString(formatter.StyleGreen.Render("✔ " + m.status))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *boardModel) renderDay(d time.Time, selected bool, width int) string {
	b := m.app.Board
	closed := b.IsClosed(d)
	today := workweek.SameDay(d, m.app.today())

	var lines []string
	label := formatter.DayLabel(d)
	switch {
	case closed:
		label = formatter.Dim("🔒 " + label)
	case today:
		label = formatter.StyleBlue.Render(label)
	default:
		label = formatter.Bold(label)
	}
	lines = append(lines, label)

	var total float64
	blocks := m.dayBlocks(d)
	for n, blk := range blocks {
		h := blk.HoursOn(d)
		total += h
		name := blk.InitiativeID
		color := domain.DefaultColor
		if i, ok := b.Initiative(blk.InitiativeID); ok {
			name, color = i.Name, i.Color
		}
		line := formatter.Swatch(color) + " " + formatter.Truncate(name, width-9) + " " + formatter.Hours(h)
		if selected && n == m.row {
			line = lipgloss.NewStyle().Reverse(true).Render(line)
		}
		lines = append(lines, line)
	}
	if len(blocks) == 0 {
		lines = append(lines, formatter.Dim("free"))
	}
	lines = append(lines, "", formatter.RenderLoadBar(total/m.app.capacity(), width-8)+" "+formatter.Hours(total))

	border := formatter.ColorDim
	if selected {
		border = formatter.ColorHeader
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
