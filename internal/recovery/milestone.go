package recovery

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const day = 24 * time.Hour

// predefinedMilestones are the starter clean-time thresholds. Users can add
// milestones of their own; these are seed data, not constraints.
var predefinedMilestones = [...]time.Duration{
	1 * day,
	3 * day,
	7 * day,
	30 * day,
	60 * day,
	90 * day,
	180 * day,
	270 * day,
	365 * day,
	547*day + 12*time.Hour,
	730 * day,
	1825 * day,
	3650 * day,
	7300 * day,
	9125 * day,
}

// PredefinedMilestones returns a copy of the starter thresholds, ascending.
func PredefinedMilestones() []time.Duration {
	out := make([]time.Duration, len(predefinedMilestones))
	copy(out, predefinedMilestones[:])
	return out
}

// LastPredefinedMilestone is the largest threshold already reached.
func LastPredefinedMilestone(cleanTime time.Duration) (time.Duration, bool) {
	var last time.Duration
	found := false
	for _, m := range predefinedMilestones {
		if m > cleanTime {
			break
		}
		last, found = m, true
	}
	return last, found
}

// NextPredefinedMilestone is the smallest threshold not yet reached.
func NextPredefinedMilestone(cleanTime time.Duration) (time.Duration, bool) {
	for _, m := range predefinedMilestones {
		if m > cleanTime {
			return m, true
		}
	}
	return 0, false
}

// Milestone is a recovery checkpoint for an addiction. Date stays nil until
// the milestone is achieved. AddictionID is a non-owning reference and
// becomes nil when the addiction is deleted.
type Milestone struct {
	ID          int64
	Date        *time.Time
	Goals       []AnyGoal
	AddictionID *int64
	CreatedAt   time.Time

	// Unloadable lists stored goals that failed to decode. They are kept out
	// of Goals so the rest of the milestone stays usable.
	Unloadable []GoalLoadError
}

func NewMilestone(a *Addiction, goals ...AnyGoal) (*Milestone, error) {
	if a == nil {
		return nil, ValidationError{Field: "addiction", Reason: "is required"}
	}
	m := &Milestone{Goals: []AnyGoal{}}
	if a.ID != 0 {
		id := a.ID
		m.AddictionID = &id
	}
	for _, g := range goals {
		if err := m.AddGoal(g); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Milestone) AddGoal(g AnyGoal) error {
	if g.IsZero() {
		return errors.New("add goal: empty goal")
	}
	if _, ok := m.Goal(g.ID()); ok {
		return fmt.Errorf("add goal: goal %s already in milestone", g.ID())
	}
	for _, bad := range m.Unloadable {
		if bad.GoalID == g.ID().String() {
			return fmt.Errorf("add goal: goal %s already stored in milestone but unloadable", g.ID())
		}
	}
	m.Goals = append(m.Goals, g)
	return nil
}

// Goal returns the goal with the given id. The returned AnyGoal shares its
// cell with the element in m.Goals.
func (m *Milestone) Goal(id uuid.UUID) (AnyGoal, bool) {
	for _, g := range m.Goals {
		if g.ID() == id {
			return g, true
		}
	}
	return AnyGoal{}, false
}

func (m *Milestone) RemoveGoal(id uuid.UUID) bool {
	for i, g := range m.Goals {
		if g.ID() == id {
			m.Goals = append(m.Goals[:i], m.Goals[i+1:]...)
			return true
		}
	}
	return false
}

// CheckCleanTimeGoals runs CheckIfGoalReached on every clean-time goal and
// returns the goals that became completed by this call.
func (m *Milestone) CheckCleanTimeGoals(cleanTime time.Duration) []AnyGoal {
	var reached []AnyGoal
	for _, g := range m.Goals {
		ct, ok := g.CleanTime()
		if !ok || ct.IsCompleted {
			continue
		}
		if ct.CheckIfGoalReached(cleanTime) {
			reached = append(reached, g)
		}
	}
	return reached
}

// AllGoalsCompleted reports whether the milestone has at least one goal and
// every goal is completed. A milestone with unloadable goals never counts as
// complete.
func (m *Milestone) AllGoalsCompleted() bool {
	if len(m.Goals) == 0 || len(m.Unloadable) > 0 {
		return false
	}
	for _, g := range m.Goals {
		if !g.IsCompleted() {
			return false
		}
	}
	return true
}

func (m *Milestone) IsAchieved() bool { return m.Date != nil }

// MarkAchieved records the achievement date once. It returns false when the
// milestone was already achieved.
func (m *Milestone) MarkAchieved(at time.Time) bool {
	if m.Date != nil {
		return false
	}
	d := at.UTC()
	m.Date = &d
	return true
}
