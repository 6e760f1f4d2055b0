package recovery

import (
	"context"
	"log/slog"
	"time"
)

func (s *Service) CreateAddiction(ctx context.Context, in AddictionInput) (*Addiction, error) {
	a, err := NewAddiction(in)
	if err != nil {
		return nil, err
	}
	now := s.now()
	a.CreatedAt = now
	a.RefreshMilestoneDates(now)

	id, err := s.addictions.Insert(ctx, addictionToRow(a))
	if err != nil {
		return nil, err
	}
	a.ID = id
	slog.Info("addiction created", "id", id, "substance", a.Substance)
	return a, nil
}

// GetAddiction loads an addiction together with its savings entries.
func (s *Service) GetAddiction(ctx context.Context, id int64) (*Addiction, error) {
	row, err := s.addictions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a := addictionFromRow(*row)
	if err := s.loadSavings(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) ListAddictions(ctx context.Context) ([]Addiction, error) {
	rows, err := s.addictions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Addiction, 0, len(rows))
	for _, r := range rows {
		a := addictionFromRow(r)
		if err := s.loadSavings(ctx, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) loadSavings(ctx context.Context, a *Addiction) error {
	rows, err := s.savings.ListByAddiction(ctx, a.ID)
	if err != nil {
		return err
	}
	a.Savings = make([]Savings, 0, len(rows))
	for _, r := range rows {
		a.Savings = append(a.Savings, savingsFromRow(r))
	}
	return nil
}

// ResetSobriety restarts the clean-time clock of an addiction at "at", or
// at the current time when at is zero.
func (s *Service) ResetSobriety(ctx context.Context, id int64, at time.Time) (*Addiction, error) {
	a, err := s.GetAddiction(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if at.IsZero() {
		at = now
	}
	a.ResetSobriety(at)
	a.RefreshMilestoneDates(now)
	if err := s.addictions.Update(ctx, addictionToRow(a)); err != nil {
		return nil, err
	}
	slog.Info("sobriety reset", "id", id, "at", a.SobrietyDate)
	return a, nil
}

func (s *Service) SetAddictionEnabled(ctx context.Context, id int64, enabled bool) error {
	a, err := s.GetAddiction(ctx, id)
	if err != nil {
		return err
	}
	if a.IsEnabled == enabled {
		return nil
	}
	a.IsEnabled = enabled
	if err := s.addictions.Update(ctx, addictionToRow(a)); err != nil {
		return err
	}
	slog.Info("addiction toggled", "id", id, "enabled", enabled)
	return nil
}

// DeleteAddiction removes the addiction and its savings. Its milestones are
// kept but no longer reference it.
func (s *Service) DeleteAddiction(ctx context.Context, id int64) error {
	if err := s.addictions.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("addiction deleted", "id", id)
	return nil
}

func (s *Service) AddSavings(ctx context.Context, in SavingsInput) (*Savings, error) {
	sv, err := NewSavings(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.addictions.Get(ctx, in.AddictionID); err != nil {
		return nil, err
	}
	sv.CreatedAt = s.now()
	id, err := s.savings.Insert(ctx, savingsToRow(sv))
	if err != nil {
		return nil, err
	}
	sv.ID = id
	slog.Info("savings added", "id", id, "addiction", sv.AddictionID, "amount", sv.AmountSaved, "unit", sv.Unit)
	return sv, nil
}

func (s *Service) RemoveSavings(ctx context.Context, id int64) error {
	if err := s.savings.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("savings removed", "id", id)
	return nil
}

// SavingsTotal is one savings entry with the amount accrued so far.
type SavingsTotal struct {
	Savings Savings
	Accrued float64
}

type AddictionStatus struct {
	Addiction     Addiction
	CleanTime     time.Duration
	Savings       []SavingsTotal
	LastMilestone *time.Time
	NextMilestone *time.Time
	// UntilNext is zero when there is no next milestone.
	UntilNext time.Duration
}

func (s *Service) AddictionStatus(ctx context.Context, id int64) (*AddictionStatus, error) {
	a, err := s.GetAddiction(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	a.RefreshMilestoneDates(now)

	st := &AddictionStatus{
		Addiction:     *a,
		CleanTime:     a.CleanTime(now),
		Savings:       make([]SavingsTotal, 0, len(a.Savings)),
		LastMilestone: a.LastMilestone,
		NextMilestone: a.NextMilestone,
	}
	for _, sv := range a.Savings {
		st.Savings = append(st.Savings, SavingsTotal{Savings: sv, Accrued: sv.AccruedOver(st.CleanTime)})
	}
	if a.NextMilestone != nil {
		st.UntilNext = a.NextMilestone.Sub(now)
	}
	return st, nil
}
