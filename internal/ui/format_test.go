package ui

import (
	"strings"
	"testing"
	"time"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		amount float64
		unit   string
		prefix bool
		want   string
	}{
		{"currency prefix", "en-US", 1234.5, "$", true, "$1,234.50"},
		{"suffix unit", "en-US", 90, "min", false, "90.00 min"},
		{"no unit", "en-US", 3, "", false, "3.00"},
		{"german grouping", "de-DE", 1234.5, "€", false, "1.234,50 €"},
		{"bad locale falls back", "???", 10, "$", true, "$10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.locale, tt.amount, tt.unit, tt.prefix); got != tt.want {
				t.Errorf("Amount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(1, 2, 10); got != "["+strings.Repeat("█", 5)+strings.Repeat("░", 5)+"]" {
		t.Errorf("half bar = %q", got)
	}
	if got := ProgressBar(5, 2, 4); got != "[████]" {
		t.Errorf("overfull bar = %q", got)
	}
	if got := ProgressBar(0, 0, 3); got != "[░░░]" {
		t.Errorf("empty bar = %q", got)
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, 3, 6, 10, 30, 0, 0, time.Local)
	if got := Date(&ts); got != "2024-03-06 10:30" {
		t.Errorf("Date() = %q", got)
	}
}
