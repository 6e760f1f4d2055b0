package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cleansteps/internal/storage"
)

func (s *Service) CreateMilestone(ctx context.Context, addictionID int64, goals ...AnyGoal) (*Milestone, error) {
	a, err := s.GetAddiction(ctx, addictionID)
	if err != nil {
		return nil, err
	}
	m, err := NewMilestone(a, goals...)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = s.now()

	rows := make([]storage.MilestoneGoal, 0, len(m.Goals))
	for _, g := range m.Goals {
		row, err := goalToRow(0, g)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	id, err := s.milestones.Insert(ctx, storage.Milestone{
		AddictionID: m.AddictionID,
		Date:        m.Date,
		CreatedAt:   m.CreatedAt,
	}, rows)
	if err != nil {
		return nil, err
	}
	m.ID = id
	slog.Info("milestone created", "id", id, "addiction", addictionID, "goals", len(m.Goals))
	return m, nil
}

// SeedMilestones creates one milestone per predefined clean-time threshold,
// each holding a single clean-time goal for that threshold.
func (s *Service) SeedMilestones(ctx context.Context, addictionID int64) ([]*Milestone, error) {
	out := make([]*Milestone, 0, len(predefinedMilestones))
	for _, target := range predefinedMilestones {
		g, err := NewCleanTimeGoal(FormatCleanTime(target)+" clean", target)
		if err != nil {
			return nil, err
		}
		m, err := s.CreateMilestone(ctx, addictionID, WrapGoal(g))
		if err != nil {
			return nil, fmt.Errorf("seed milestone %s: %w", target, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// GetMilestone loads a milestone and decodes each stored goal on its own.
// Goals that fail to decode are listed in Unloadable; the rest are returned
// normally.
func (s *Service) GetMilestone(ctx context.Context, id int64) (*Milestone, error) {
	row, err := s.milestones.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadMilestone(ctx, *row)
}

func (s *Service) loadMilestone(ctx context.Context, row storage.Milestone) (*Milestone, error) {
	goalRows, err := s.goals.ListByMilestone(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	records := make([][]byte, len(goalRows))
	for i, g := range goalRows {
		records[i] = []byte(g.Payload)
	}
	goals, failed := DecodeGoals(records)
	for i := range failed {
		failed[i].GoalID = goalRows[failed[i].Index].GoalID
		slog.Warn("goal could not be loaded", "milestone", row.ID, "goal", failed[i].GoalID, "err", failed[i].Err)
	}
	return &Milestone{
		ID:          row.ID,
		Date:        utcPtr(row.Date),
		Goals:       goals,
		AddictionID: row.AddictionID,
		CreatedAt:   row.CreatedAt.UTC(),
		Unloadable:  failed,
	}, nil
}

// ListMilestones returns the milestones of one addiction.
func (s *Service) ListMilestones(ctx context.Context, addictionID int64) ([]*Milestone, error) {
	rows, err := s.milestones.ListByAddiction(ctx, addictionID)
	if err != nil {
		return nil, err
	}
	return s.loadMilestones(ctx, rows)
}

// ListAllMilestones includes milestones whose addiction has been deleted.
func (s *Service) ListAllMilestones(ctx context.Context) ([]*Milestone, error) {
	rows, err := s.milestones.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadMilestones(ctx, rows)
}

func (s *Service) loadMilestones(ctx context.Context, rows []storage.Milestone) ([]*Milestone, error) {
	out := make([]*Milestone, 0, len(rows))
	for _, r := range rows {
		m, err := s.loadMilestone(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Service) DeleteMilestone(ctx context.Context, id int64) error {
	if err := s.milestones.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("milestone deleted", "id", id)
	return nil
}

func (s *Service) AddGoal(ctx context.Context, milestoneID int64, g AnyGoal) error {
	m, err := s.GetMilestone(ctx, milestoneID)
	if err != nil {
		return err
	}
	if err := m.AddGoal(g); err != nil {
		return err
	}
	row, err := goalToRow(milestoneID, g)
	if err != nil {
		return err
	}
	if err := s.goals.Append(ctx, row); err != nil {
		return err
	}
	slog.Info("goal added", "milestone", milestoneID, "goal", g.ID(), "type", g.Type())
	return nil
}

// RemoveGoal deletes a goal record. It also works for goals that can no
// longer be decoded.
func (s *Service) RemoveGoal(ctx context.Context, milestoneID int64, goalID uuid.UUID) error {
	if err := s.goals.Delete(ctx, milestoneID, goalID.String()); err != nil {
		return err
	}
	slog.Info("goal removed", "milestone", milestoneID, "goal", goalID)
	return nil
}

func (s *Service) CompleteGoal(ctx context.Context, milestoneID int64, goalID uuid.UUID) (AnyGoal, error) {
	return s.updateGoal(ctx, milestoneID, goalID, func(g AnyGoal) error {
		g.Complete()
		return nil
	})
}

func (s *Service) RecordMeetings(ctx context.Context, milestoneID int64, goalID uuid.UUID, count int) (AnyGoal, error) {
	return s.updateGoal(ctx, milestoneID, goalID, func(g AnyGoal) error {
		mg, ok := g.Meetings()
		if !ok {
			return ValidationError{Field: "goalType", Reason: fmt.Sprintf("%s is not a meetings goal", g.Type())}
		}
		return mg.UpdateMeetingsCount(count)
	})
}

func (s *Service) SetTaskStep(ctx context.Context, milestoneID int64, goalID, stepID uuid.UUID, done bool) (AnyGoal, error) {
	return s.updateGoal(ctx, milestoneID, goalID, func(g AnyGoal) error {
		tg, ok := g.Task()
		if !ok {
			return ValidationError{Field: "goalType", Reason: fmt.Sprintf("%s is not a task goal", g.Type())}
		}
		return tg.SetStepCompleted(stepID, done)
	})
}

func (s *Service) RenameGoal(ctx context.Context, milestoneID int64, goalID uuid.UUID, title string) (AnyGoal, error) {
	return s.updateGoal(ctx, milestoneID, goalID, func(g AnyGoal) error {
		return g.SetTitle(title)
	})
}

// updateGoal applies fn to one goal of a milestone through its shared cell,
// persists the goal, and marks the milestone achieved once all of its goals
// are complete.
func (s *Service) updateGoal(ctx context.Context, milestoneID int64, goalID uuid.UUID, fn func(AnyGoal) error) (AnyGoal, error) {
	m, err := s.GetMilestone(ctx, milestoneID)
	if err != nil {
		return AnyGoal{}, err
	}
	g, ok := m.Goal(goalID)
	if !ok {
		return AnyGoal{}, fmt.Errorf("goal %s in milestone %d: %w", goalID, milestoneID, ErrNotFound)
	}
	if err := fn(g); err != nil {
		return AnyGoal{}, err
	}
	if err := s.saveGoal(ctx, milestoneID, g); err != nil {
		return AnyGoal{}, err
	}
	if _, err := s.achieveIfComplete(ctx, m); err != nil {
		return AnyGoal{}, err
	}
	return g, nil
}

func (s *Service) saveGoal(ctx context.Context, milestoneID int64, g AnyGoal) error {
	payload, err := EncodeGoal(g)
	if err != nil {
		return err
	}
	return s.goals.UpdatePayload(ctx, milestoneID, g.ID().String(), string(payload))
}

func (s *Service) achieveIfComplete(ctx context.Context, m *Milestone) (bool, error) {
	if !m.AllGoalsCompleted() || !m.MarkAchieved(s.now()) {
		return false, nil
	}
	if err := s.milestones.UpdateDate(ctx, m.ID, m.Date); err != nil {
		return false, err
	}
	slog.Info("milestone achieved", "id", m.ID, "date", m.Date)
	return true, nil
}

// ProgressReport summarizes one CheckProgress run.
type ProgressReport struct {
	AddictionID        int64
	CleanTime          time.Duration
	GoalsReached       []AnyGoal
	MilestonesAchieved []int64
	LastMilestone      *time.Time
	NextMilestone      *time.Time
}

// CheckProgress evaluates every clean-time goal of the addiction's milestones
// against its current clean time, records milestones whose goals are all
// complete, and refreshes the addiction's last and next milestone dates.
func (s *Service) CheckProgress(ctx context.Context, addictionID int64) (*ProgressReport, error) {
	a, err := s.GetAddiction(ctx, addictionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	a.RefreshMilestoneDates(now)
	if err := s.addictions.Update(ctx, addictionToRow(a)); err != nil {
		return nil, err
	}

	report := &ProgressReport{
		AddictionID:   a.ID,
		CleanTime:     a.CleanTime(now),
		LastMilestone: a.LastMilestone,
		NextMilestone: a.NextMilestone,
	}
	milestones, err := s.ListMilestones(ctx, addictionID)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		for _, g := range m.CheckCleanTimeGoals(report.CleanTime) {
			if err := s.saveGoal(ctx, m.ID, g); err != nil {
				return nil, err
			}
			report.GoalsReached = append(report.GoalsReached, g)
		}
		achieved, err := s.achieveIfComplete(ctx, m)
		if err != nil {
			return nil, err
		}
		if achieved {
			report.MilestonesAchieved = append(report.MilestonesAchieved, m.ID)
		}
	}
	slog.Debug("progress checked", "addiction", addictionID, "goals", len(report.GoalsReached),
		"milestones", len(report.MilestonesAchieved))
	return report, nil
}

// CheckAllProgress runs CheckProgress for every enabled addiction.
func (s *Service) CheckAllProgress(ctx context.Context) ([]*ProgressReport, error) {
	addictions, err := s.ListAddictions(ctx)
	if err != nil {
		return nil, err
	}
	var out []*ProgressReport
	for _, a := range addictions {
		if !a.IsEnabled {
			continue
		}
		r, err := s.CheckProgress(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ExportGoal returns the stored tagged JSON of a goal exactly as persisted.
func (s *Service) ExportGoal(ctx context.Context, milestoneID int64, goalID uuid.UUID) ([]byte, error) {
	row, err := s.goals.Get(ctx, milestoneID, goalID.String())
	if err != nil {
		return nil, err
	}
	return []byte(row.Payload), nil
}

// ImportGoal decodes a tagged goal record and appends it to the milestone.
// Nothing is stored when decoding fails.
func (s *Service) ImportGoal(ctx context.Context, milestoneID int64, data []byte) (AnyGoal, error) {
	g, err := DecodeGoal(data)
	if err != nil {
		return AnyGoal{}, err
	}
	if err := s.AddGoal(ctx, milestoneID, g); err != nil {
		return AnyGoal{}, err
	}
	return g, nil
}
