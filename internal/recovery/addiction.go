package recovery

import (
	"fmt"
	"strings"
	"time"
)

// Addiction is one tracked substance with its sobriety start date and the
// savings entries it owns.
type Addiction struct {
	ID               int64
	Substance        Substance
	Reason           string
	IsEnabled        bool
	SobrietyDate     *time.Time
	LastMilestone    *time.Time
	NextMilestone    *time.Time
	FellowUsersCount int
	Savings          []Savings
	CreatedAt        time.Time
}

type AddictionInput struct {
	Substance        Substance
	Reason           string
	IsEnabled        bool
	SobrietyDate     *time.Time
	FellowUsersCount int
}

func NewAddiction(in AddictionInput) (*Addiction, error) {
	if !in.Substance.IsValid() {
		return nil, ValidationError{Field: "substance", Reason: fmt.Sprintf("unknown substance %q", in.Substance)}
	}
	if in.FellowUsersCount < 0 {
		return nil, ValidationError{Field: "fellowUsersCount", Reason: "must not be negative"}
	}
	a := &Addiction{
		Substance:        in.Substance,
		Reason:           strings.TrimSpace(in.Reason),
		IsEnabled:        in.IsEnabled,
		FellowUsersCount: in.FellowUsersCount,
	}
	if in.SobrietyDate != nil {
		d := in.SobrietyDate.UTC()
		a.SobrietyDate = &d
	}
	return a, nil
}

// CleanTime is the time elapsed since SobrietyDate, or 0 when no date is set.
// A sobriety date in the future also yields 0.
func (a *Addiction) CleanTime(now time.Time) time.Duration {
	if a.SobrietyDate == nil {
		return 0
	}
	d := now.Sub(*a.SobrietyDate)
	if d < 0 {
		return 0
	}
	return d
}

func (a *Addiction) SubstanceInfo() string {
	return a.Substance.Description()
}

// ResetSobriety restarts the clean-time clock at the given instant, e.g.
// after a relapse. Milestone dates derived from the old start are cleared.
func (a *Addiction) ResetSobriety(at time.Time) {
	d := at.UTC()
	a.SobrietyDate = &d
	a.LastMilestone = nil
	a.NextMilestone = nil
}

// RefreshMilestoneDates derives LastMilestone and NextMilestone from the
// predefined clean-time thresholds.
func (a *Addiction) RefreshMilestoneDates(now time.Time) {
	a.LastMilestone = nil
	a.NextMilestone = nil
	if a.SobrietyDate == nil {
		return
	}
	clean := a.CleanTime(now)
	if last, ok := LastPredefinedMilestone(clean); ok {
		t := a.SobrietyDate.Add(last)
		a.LastMilestone = &t
	}
	if next, ok := NextPredefinedMilestone(clean); ok {
		t := a.SobrietyDate.Add(next)
		a.NextMilestone = &t
	}
}

// SavingsAccrued sums AccruedOver for every savings entry, keyed by unit.
func (a *Addiction) SavingsAccrued(now time.Time) map[string]float64 {
	clean := a.CleanTime(now)
	totals := make(map[string]float64, len(a.Savings))
	for _, s := range a.Savings {
		totals[s.Unit] += s.AccruedOver(clean)
	}
	return totals
}
