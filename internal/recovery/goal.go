package recovery

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// GoalType is the discriminator written next to every serialized goal.
type GoalType string

const (
	GoalTypeCleanTime GoalType = "cleanTimeGoal"
	GoalTypeMeetings  GoalType = "meetingsGoal"
	GoalTypeTask      GoalType = "taskGoal"
)

func (t GoalType) IsValid() bool {
	switch t {
	case GoalTypeCleanTime, GoalTypeMeetings, GoalTypeTask:
		return true
	default:
		return false
	}
}

// Goal is the capability set shared by every goal variant. It is implemented
// by *CleanTimeGoal, *MeetingsGoal and *TaskGoal only.
type Goal interface {
	Type() GoalType
	Base() *GoalBase
	Complete()
}

// GoalBase carries the fields common to every goal.
type GoalBase struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	IsCompleted  bool      `json:"isCompleted"`
	CreationDate time.Time `json:"creationDate"`
}

func newGoalBase(title string) (GoalBase, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return GoalBase{}, err
	}
	return GoalBase{
		ID:           uuid.New(),
		Title:        t,
		CreationDate: time.Now().UTC(),
	}, nil
}

func (b *GoalBase) Base() *GoalBase { return b }

// Complete marks the goal as completed. Calling it again has no further effect;
// nothing in this package ever clears IsCompleted.
func (b *GoalBase) Complete() {
	b.IsCompleted = true
}

// CleanTimeGoal completes once the tracked clean time reaches TargetCleanTime.
type CleanTimeGoal struct {
	GoalBase
	TargetCleanTime time.Duration
}

func NewCleanTimeGoal(title string, target time.Duration) (*CleanTimeGoal, error) {
	if target < 0 {
		return nil, ValidationError{Field: "targetCleanTime", Reason: "must not be negative"}
	}
	base, err := newGoalBase(title)
	if err != nil {
		return nil, err
	}
	return &CleanTimeGoal{GoalBase: base, TargetCleanTime: target}, nil
}

func (g *CleanTimeGoal) Type() GoalType { return GoalTypeCleanTime }

// CheckIfGoalReached completes the goal when current >= TargetCleanTime and
// reports whether the goal is completed after the check.
func (g *CleanTimeGoal) CheckIfGoalReached(current time.Duration) bool {
	if current >= g.TargetCleanTime {
		g.Complete()
	}
	return g.IsCompleted
}

type cleanTimeGoalJSON struct {
	GoalBase
	TargetCleanTime float64 `json:"targetCleanTime"`
}

// MarshalJSON writes targetCleanTime as a number of seconds.
func (g CleanTimeGoal) MarshalJSON() ([]byte, error) {
	return json.Marshal(cleanTimeGoalJSON{
		GoalBase:        g.GoalBase,
		TargetCleanTime: g.TargetCleanTime.Seconds(),
	})
}

func (g *CleanTimeGoal) UnmarshalJSON(data []byte) error {
	var w cleanTimeGoalJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	g.GoalBase = w.GoalBase
	g.TargetCleanTime = secondsToDuration(w.TargetCleanTime)
	return nil
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(math.Round(secs * float64(time.Second)))
}

// MeetingsGoal completes once enough meetings have been attended.
type MeetingsGoal struct {
	GoalBase
	TargetMeetingsCount  int `json:"targetMeetingsCount"`
	CurrentMeetingsCount int `json:"currentMeetingsCount"`
}

func NewMeetingsGoal(title string, target int) (*MeetingsGoal, error) {
	if target < 0 {
		return nil, ValidationError{Field: "targetMeetingsCount", Reason: "must not be negative"}
	}
	base, err := newGoalBase(title)
	if err != nil {
		return nil, err
	}
	return &MeetingsGoal{GoalBase: base, TargetMeetingsCount: target}, nil
}

func (g *MeetingsGoal) Type() GoalType { return GoalTypeMeetings }

// UpdateMeetingsCount stores n as the current count and completes the goal
// when it reaches the target. A smaller n than the stored count is accepted
// (corrections are allowed) but never un-completes the goal.
func (g *MeetingsGoal) UpdateMeetingsCount(n int) error {
	if n < 0 {
		return ValidationError{Field: "currentMeetingsCount", Reason: "must not be negative"}
	}
	g.CurrentMeetingsCount = n
	if g.CurrentMeetingsCount >= g.TargetMeetingsCount {
		g.Complete()
	}
	return nil
}

// TaskGoal is a checklist goal. Completion is manual; step state is
// informational and does not drive IsCompleted.
type TaskGoal struct {
	GoalBase
	Description string     `json:"description"`
	Steps       []TaskStep `json:"steps"`
}

type TaskStep struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
}

func NewTaskStep(title, description string) (TaskStep, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return TaskStep{}, err
	}
	return TaskStep{ID: uuid.New(), Title: t, Description: description}, nil
}

func NewTaskGoal(title, description string, steps ...TaskStep) (*TaskGoal, error) {
	base, err := newGoalBase(title)
	if err != nil {
		return nil, err
	}
	if steps == nil {
		steps = []TaskStep{}
	}
	return &TaskGoal{GoalBase: base, Description: description, Steps: steps}, nil
}

func (g *TaskGoal) Type() GoalType { return GoalTypeTask }

// MarshalJSON always writes steps as an array, never null.
func (g TaskGoal) MarshalJSON() ([]byte, error) {
	type alias TaskGoal
	if g.Steps == nil {
		g.Steps = []TaskStep{}
	}
	return json.Marshal(alias(g))
}

// SetStepCompleted updates a single step. The goal's own IsCompleted is left
// alone.
func (g *TaskGoal) SetStepCompleted(stepID uuid.UUID, done bool) error {
	for i := range g.Steps {
		if g.Steps[i].ID == stepID {
			g.Steps[i].IsCompleted = done
			return nil
		}
	}
	return fmt.Errorf("task step %s: %w", stepID, ErrNotFound)
}

// CompletedSteps returns how many steps are checked off.
func (g *TaskGoal) CompletedSteps() int {
	n := 0
	for _, s := range g.Steps {
		if s.IsCompleted {
			n++
		}
	}
	return n
}
