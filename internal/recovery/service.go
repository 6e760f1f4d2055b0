package recovery

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"cleansteps/internal/storage"
)

type Service struct {
	db         *sqlx.DB
	addictions *storage.AddictionRepo
	savings    *storage.SavingsRepo
	milestones *storage.MilestoneRepo
	goals      *storage.GoalRepo

	now func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:         db,
		addictions: storage.NewAddictionRepo(db),
		savings:    storage.NewSavingsRepo(db),
		milestones: storage.NewMilestoneRepo(db),
		goals:      storage.NewGoalRepo(db),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service clock. Tests use it to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ValidationError{Field: "title", Reason: "is required"}
	}
	return t, nil
}

func addictionFromRow(r storage.Addiction) Addiction {
	return Addiction{
		ID:               r.ID,
		Substance:        Substance(r.Substance),
		Reason:           r.Reason,
		IsEnabled:        r.IsEnabled,
		SobrietyDate:     utcPtr(r.SobrietyDate),
		LastMilestone:    utcPtr(r.LastMilestone),
		NextMilestone:    utcPtr(r.NextMilestone),
		FellowUsersCount: r.FellowUsersCount,
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

func addictionToRow(a *Addiction) storage.Addiction {
	return storage.Addiction{
		ID:               a.ID,
		Substance:        string(a.Substance),
		Reason:           a.Reason,
		IsEnabled:        a.IsEnabled,
		SobrietyDate:     a.SobrietyDate,
		LastMilestone:    a.LastMilestone,
		NextMilestone:    a.NextMilestone,
		FellowUsersCount: a.FellowUsersCount,
		CreatedAt:        a.CreatedAt,
	}
}

func savingsFromRow(r storage.Savings) Savings {
	return Savings{
		ID:          r.ID,
		AddictionID: r.AddictionID,
		AmountSaved: r.AmountSaved,
		Unit:        r.Unit,
		SavingsType: SavingsType(r.SavingsType),
		Periodicity: Periodicity(r.Periodicity),
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func savingsToRow(sv *Savings) storage.Savings {
	return storage.Savings{
		ID:          sv.ID,
		AddictionID: sv.AddictionID,
		AmountSaved: sv.AmountSaved,
		Unit:        sv.Unit,
		SavingsType: string(sv.SavingsType),
		Periodicity: string(sv.Periodicity),
		CreatedAt:   sv.CreatedAt,
	}
}

func goalToRow(milestoneID int64, g AnyGoal) (storage.MilestoneGoal, error) {
	payload, err := EncodeGoal(g)
	if err != nil {
		return storage.MilestoneGoal{}, err
	}
	return storage.MilestoneGoal{
		MilestoneID: milestoneID,
		GoalID:      g.ID().String(),
		GoalType:    string(g.Type()),
		Payload:     string(payload),
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
