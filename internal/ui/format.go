package ui

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount formats a savings amount with locale digit grouping. prefix puts
// the unit in front, as for currency symbols.
func Amount(locale string, amount float64, unit string, prefix bool) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	n := message.NewPrinter(tag).Sprintf("%.2f", amount)
	unit = strings.TrimSpace(unit)
	switch {
	case unit == "":
		return n
	case prefix:
		return unit + n
	default:
		return n + " " + unit
	}
}

// Date renders an optional timestamp in local time, or a dash when unset.
func Date(t *time.Time) string {
	if t == nil {
		return Muted.Render("—")
	}
	return t.Local().Format("2006-01-02 15:04")
}

func ProgressBar(done, total, width int) string {
	if width <= 0 {
		width = 20
	}
	if total <= 0 {
		return "[" + strings.Repeat("░", width) + "]"
	}
	if done > total {
		done = total
	}
	filled := done * width / total
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
