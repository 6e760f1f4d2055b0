package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"cleansteps/internal/recovery"
	"cleansteps/internal/ui"
)

type boardModel struct {
	ctx    context.Context
	svc    *recovery.Service
	keys   KeyMap
	locale string

	width  int
	height int

	addictions []recovery.Addiction
	current    int // index into addictions
	status     *recovery.AddictionStatus
	milestones []*recovery.Milestone
	selected   int // index into goalLines

	changes <-chan struct{}

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	addictions []recovery.Addiction
	current    int
	status     *recovery.AddictionStatus
	milestones []*recovery.Milestone
	err        error
}

type completedMsg struct {
	goal recovery.AnyGoal
	err  error
}

type checkedMsg struct {
	report *recovery.ProgressReport
	err    error
}

type dbChangedMsg struct{}

func newBoardModel(ctx context.Context, svc *recovery.Service, locale string, changes <-chan struct{}) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		keys:    DefaultKeyMap(),
		locale:  locale,
		changes: changes,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForChange())
}

// waitForChange blocks until the database changes on disk. It yields nil
// when no watcher is attached.
func (m boardModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}

func (m boardModel) currentID() int64 {
	if m.current < 0 || m.current >= len(m.addictions) {
		return 0
	}
	return m.addictions[m.current].ID
}

func (m boardModel) loadCmd() tea.Cmd {
	wantID := m.currentID()
	return func() tea.Msg {
		addictions, err := m.svc.ListAddictions(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{addictions: addictions}
		if len(addictions) == 0 {
			return msg
		}
		for i, a := range addictions {
			if a.ID == wantID {
				msg.current = i
			}
		}
		id := addictions[msg.current].ID
		if msg.status, err = m.svc.AddictionStatus(m.ctx, id); err != nil {
			return loadedMsg{err: err}
		}
		if msg.milestones, err = m.svc.ListMilestones(m.ctx, id); err != nil {
			return loadedMsg{err: err}
		}
		return msg
	}
}

func (m boardModel) completeCmd(milestoneID int64, goalID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		g, err := m.svc.CompleteGoal(m.ctx, milestoneID, goalID)
		return completedMsg{goal: g, err: err}
	}
}

func (m boardModel) checkCmd(addictionID int64) tea.Cmd {
	return func() tea.Msg {
		r, err := m.svc.CheckProgress(m.ctx, addictionID)
		return checkedMsg{report: r, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.addictions = msg.addictions
		m.current = msg.current
		m.status = msg.status
		m.milestones = msg.milestones
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case dbChangedMsg:
		return m, tea.Batch(m.loadCmd(), m.waitForChange())
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completed %q.", msg.goal.Title())
		return m, m.loadCmd()
	case checkedMsg:
		if msg.err != nil {
			m.lastLog = "Check failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Checked: %d goal(s) reached, %d milestone(s) achieved.",
			len(msg.report.GoalsReached), len(msg.report.MilestonesAchieved))
		return m, m.loadCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.lastLog = "Refreshing…"
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.goalLines())-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.Next):
		if len(m.addictions) < 2 {
			return m, nil
		}
		step := 1
		if key.Matches(msg, m.keys.Prev) {
			step = len(m.addictions) - 1
		}
		m.current = (m.current + step) % len(m.addictions)
		m.selected = 0
		m.loading = true
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Check):
		id := m.currentID()
		if id == 0 {
			m.lastLog = "No addiction selected."
			return m, nil
		}
		m.lastLog = "Checking progress…"
		return m, m.checkCmd(id)
	case key.Matches(msg, m.keys.Complete):
		lines := m.goalLines()
		if m.selected < 0 || m.selected >= len(lines) {
			return m, nil
		}
		line := lines[m.selected]
		if line.goal.IsCompleted() {
			m.lastLog = "Already done."
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completing %q…", line.goal.Title())
		return m, m.completeCmd(line.milestoneID, line.goal.ID())
	}
	return m, nil
}

type goalLine struct {
	milestoneID int64
	goal        recovery.AnyGoal
}

func (m boardModel) goalLines() []goalLine {
	var out []goalLine
	for _, ms := range m.milestones {
		for _, g := range ms.Goals {
			out = append(out, goalLine{milestoneID: ms.ID, goal: g})
		}
	}
	return out
}

func (m *boardModel) clampSelection() {
	n := len(m.goalLines())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.status == nil {
		if m.loading {
			return "CleanSteps — loading…"
		}
		return "CleanSteps — no addictions tracked yet (cs add <substance>)"
	}
	a := m.status.Addiction
	next := "none"
	if m.status.NextMilestone != nil {
		next = recovery.FormatCleanTime(m.status.UntilNext)
	}
	return fmt.Sprintf("CleanSteps | %s | clean %s | next milestone in %s",
		a.Substance, recovery.FormatCleanTime(m.status.CleanTime), next)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Addictions"}
	if len(m.addictions) == 0 {
		lines = append(lines, "(none)")
	}
	for i, a := range m.addictions {
		cursor := "  "
		if i == m.current {
			cursor = "> "
		}
		state := ""
		if !a.IsEnabled {
			state = " (paused)"
		}
		lines = append(lines, fmt.Sprintf("%s%s%s", cursor, a.Substance, state))
	}
	if m.status != nil && len(m.status.Savings) > 0 {
		lines = append(lines, "", "Saved")
		for _, s := range m.status.Savings {
			prefix := s.Savings.SavingsType == recovery.SavingsMoney
			lines = append(lines, "- "+ui.Amount(m.locale, s.Accrued, s.Savings.Unit, prefix))
		}
	}
	lines = append(lines, "", "Keys")
	lines = append(lines, m.keys.helpLines()...)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{"Milestones"}
	if len(m.milestones) == 0 {
		out = append(out, "(none yet; try: cs milestone add <id> --seed)")
		return strings.Join(out, "\n")
	}

	idx := 0
	for _, ms := range m.milestones {
		done := 0
		for _, g := range ms.Goals {
			if g.IsCompleted() {
				done++
			}
		}
		head := fmt.Sprintf("#%d %s %d/%d", ms.ID, ui.ProgressBar(done, len(ms.Goals), 12), done, len(ms.Goals))
		if ms.IsAchieved() {
			head += " " + ui.BadgeAchieved
		}
		out = append(out, head)
		for _, g := range ms.Goals {
			cursor := "  "
			if idx == m.selected {
				cursor = "> "
			}
			out = append(out, fmt.Sprintf("%s  %s %s%s", cursor, ui.Check(g.IsCompleted()), g.Title(), goalDetail(g)))
			idx++
		}
		if n := len(ms.Unloadable); n > 0 {
			out = append(out, fmt.Sprintf("    %s %d goal(s) could not be loaded", ui.IconBroken, n))
		}
	}
	return strings.Join(out, "\n")
}

func goalDetail(g recovery.AnyGoal) string {
	if mg, ok := g.Meetings(); ok {
		return fmt.Sprintf(" (%d/%d meetings)", mg.CurrentMeetingsCount, mg.TargetMeetingsCount)
	}
	if tg, ok := g.Task(); ok && len(tg.Steps) > 0 {
		return fmt.Sprintf(" (%d/%d steps)", tg.CompletedSteps(), len(tg.Steps))
	}
	return ""
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
