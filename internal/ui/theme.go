package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CleanSteps theme (CLI + TUI).

const (
	IconLeaf     = "🌱"
	IconPlus     = "➕"
	IconDone     = "✅"
	IconOpen     = "⬜"
	IconTrophy   = "🏆"
	IconFlag     = "🚩"
	IconCalendar = "📅"
	IconMoney    = "💰"
	IconMeeting  = "🤝"
	IconTask     = "📝"
	IconClock    = "⏳"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconPaused   = "⏸️"
	IconBroken   = "🧩"
	IconReset    = "🔁"
)

var (
	cPrimary = lipgloss.Color("35")  // teal
	cAccent  = lipgloss.Color("79")  // sea green
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

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeAchieved = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("ACHIEVED")
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

// Check renders a completion marker.
func Check(done bool) string {
	if done {
		return IconDone
	}
	return IconOpen
}

func EnabledText(enabled bool) string {
	if enabled {
		return Good.Render("tracking")
	}
	return Muted.Render("paused")
}

// GoalIcon maps a goal type tag to its icon.
func GoalIcon(goalType string) string {
	switch goalType {
	case "cleanTimeGoal":
		return IconClock
	case "meetingsGoal":
		return IconMeeting
	case "taskGoal":
		return IconTask
	default:
		return IconBroken
	}
}
