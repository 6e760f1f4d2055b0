package recovery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// goalCell is the single mutable slot that owns a goal variant.
type goalCell struct {
	goal Goal
}

// AnyGoal lets heterogeneous goals live in one ordered collection. Copies of
// an AnyGoal share one goalCell, so a mutation made through any copy (for
// example Complete on an element of Milestone.Goals) is seen by every other
// copy. The zero AnyGoal holds no goal.
type AnyGoal struct {
	cell *goalCell
}

// WrapGoal puts g into a new cell. The AnyGoal takes ownership of g.
func WrapGoal(g Goal) AnyGoal {
	if g == nil {
		return AnyGoal{}
	}
	return AnyGoal{cell: &goalCell{goal: g}}
}

func (a AnyGoal) IsZero() bool { return a.cell == nil || a.cell.goal == nil }

// Goal returns the wrapped variant, or nil for the zero AnyGoal.
func (a AnyGoal) Goal() Goal {
	if a.cell == nil {
		return nil
	}
	return a.cell.goal
}

func (a AnyGoal) Type() GoalType {
	if a.IsZero() {
		return ""
	}
	return a.cell.goal.Type()
}

func (a AnyGoal) base() *GoalBase {
	if a.IsZero() {
		return &GoalBase{}
	}
	return a.cell.goal.Base()
}

func (a AnyGoal) ID() uuid.UUID           { return a.base().ID }
func (a AnyGoal) Title() string           { return a.base().Title }
func (a AnyGoal) IsCompleted() bool       { return a.base().IsCompleted }
func (a AnyGoal) CreationDate() time.Time { return a.base().CreationDate }

func (a AnyGoal) SetTitle(title string) error {
	t, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	if a.IsZero() {
		return errors.New("set title on empty goal")
	}
	a.cell.goal.Base().Title = t
	return nil
}

// Complete marks the wrapped goal completed through the shared cell.
func (a AnyGoal) Complete() {
	if a.IsZero() {
		return
	}
	a.cell.goal.Complete()
}

func (a AnyGoal) CleanTime() (*CleanTimeGoal, bool) {
	g, ok := a.Goal().(*CleanTimeGoal)
	return g, ok
}

func (a AnyGoal) Meetings() (*MeetingsGoal, bool) {
	g, ok := a.Goal().(*MeetingsGoal)
	return g, ok
}

func (a AnyGoal) Task() (*TaskGoal, bool) {
	g, ok := a.Goal().(*TaskGoal)
	return g, ok
}

type goalEnvelope struct {
	GoalType GoalType `json:"goalType"`
	Goal     Goal     `json:"goal"`
}

// EncodeGoal serializes a goal as {"goalType": <tag>, "goal": {...}}.
func EncodeGoal(a AnyGoal) ([]byte, error) {
	if a.IsZero() {
		return nil, errors.New("encode goal: empty goal")
	}
	return json.Marshal(goalEnvelope{GoalType: a.Type(), Goal: a.Goal()})
}

func (a AnyGoal) MarshalJSON() ([]byte, error) {
	return EncodeGoal(a)
}

func (a *AnyGoal) UnmarshalJSON(data []byte) error {
	g, err := DecodeGoal(data)
	if err != nil {
		return err
	}
	*a = g
	return nil
}

// DecodeGoal parses a tagged goal record. The discriminator is read on its
// own first; only then is the nested payload decoded into the variant it
// names. Any failure yields a DecodeError and the zero AnyGoal.
func DecodeGoal(data []byte) (AnyGoal, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return AnyGoal{}, DecodeError{Reason: "malformed goal record", Err: err}
	}
	if unknown := firstUnknown(env, envelopeFields); unknown != "" {
		return AnyGoal{}, DecodeError{Field: unknown, Reason: "unknown field"}
	}

	if isAbsent(env["goalType"]) {
		return AnyGoal{}, DecodeError{Field: "goalType", Reason: "missing discriminator"}
	}
	var tag string
	if err := json.Unmarshal(env["goalType"], &tag); err != nil {
		return AnyGoal{}, DecodeError{Field: "goalType", Reason: "discriminator must be a string", Err: err}
	}
	goalType := GoalType(tag)
	if !goalType.IsValid() {
		return AnyGoal{}, DecodeError{GoalType: tag, Field: "goalType", Reason: "unknown goal type"}
	}

	g, err := decodeVariant(goalType, env["goal"])
	if err != nil {
		return AnyGoal{}, err
	}
	return WrapGoal(g), nil
}

// DecodeGoals decodes each record independently. A record that fails is
// reported in the returned errors and skipped; its siblings still load.
func DecodeGoals(records [][]byte) ([]AnyGoal, []GoalLoadError) {
	goals := make([]AnyGoal, 0, len(records))
	var failed []GoalLoadError
	for i, rec := range records {
		g, err := DecodeGoal(rec)
		if err != nil {
			failed = append(failed, GoalLoadError{Index: i, Err: err})
			continue
		}
		goals = append(goals, g)
	}
	return goals, failed
}

var envelopeFields = []string{"goalType", "goal"}

var baseGoalFields = []string{"id", "title", "isCompleted", "creationDate"}

var variantFields = map[GoalType][]string{
	GoalTypeCleanTime: {"targetCleanTime"},
	GoalTypeMeetings:  {"targetMeetingsCount", "currentMeetingsCount"},
	GoalTypeTask:      {"description", "steps"},
}

var taskStepFields = []string{"id", "title", "description", "isCompleted"}

func decodeVariant(goalType GoalType, payload json.RawMessage) (Goal, error) {
	fail := func(field, reason string, err error) error {
		return DecodeError{GoalType: string(goalType), Field: field, Reason: reason, Err: err}
	}

	if isAbsent(payload) {
		return nil, fail("goal", "missing goal payload", nil)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fail("goal", "goal payload must be an object", err)
	}
	if missing := firstMissing(fields, baseGoalFields); missing != "" {
		return nil, fail(missing, "required field missing", nil)
	}
	if missing := firstMissing(fields, variantFields[goalType]); missing != "" {
		return nil, fail(missing, "required field missing", nil)
	}
	// encoding/json matches keys case-insensitively, so anything but the
	// exact names could shadow a checked field.
	allowed := append(append([]string{}, baseGoalFields...), variantFields[goalType]...)
	if unknown := firstUnknown(fields, allowed); unknown != "" {
		return nil, fail(unknown, "unknown field", nil)
	}

	var g Goal
	switch goalType {
	case GoalTypeCleanTime:
		var secs float64
		if err := json.Unmarshal(fields["targetCleanTime"], &secs); err != nil {
			return nil, fail("targetCleanTime", "must be a number of seconds", err)
		}
		if secs < 0 || secs > maxCleanTimeSeconds {
			return nil, fail("targetCleanTime", "out of range", nil)
		}
		g = &CleanTimeGoal{}
	case GoalTypeMeetings:
		g = &MeetingsGoal{}
	case GoalTypeTask:
		if err := checkTaskSteps(fields["steps"]); err != nil {
			return nil, fail("steps", err.Error(), nil)
		}
		g = &TaskGoal{}
	default:
		return nil, fail("goalType", "unknown goal type", nil)
	}

	if err := json.Unmarshal(payload, g); err != nil {
		field := ""
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field = typeErr.Field
		}
		return nil, fail(field, "invalid goal payload", err)
	}
	if mg, ok := g.(*MeetingsGoal); ok {
		if mg.TargetMeetingsCount < 0 {
			return nil, fail("targetMeetingsCount", "must not be negative", nil)
		}
		if mg.CurrentMeetingsCount < 0 {
			return nil, fail("currentMeetingsCount", "must not be negative", nil)
		}
	}
	return g, nil
}

// maxCleanTimeSeconds is the largest whole number of seconds a
// time.Duration can hold.
const maxCleanTimeSeconds = float64(math.MaxInt64 / int64(time.Second))

func checkTaskSteps(raw json.RawMessage) error {
	var steps []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &steps); err != nil {
		return errors.New("must be an array of objects")
	}
	for i, s := range steps {
		if missing := firstMissing(s, taskStepFields); missing != "" {
			return fmt.Errorf("step %d: required field %q missing", i, missing)
		}
		if unknown := firstUnknown(s, taskStepFields); unknown != "" {
			return fmt.Errorf("step %d: unknown field %q", i, unknown)
		}
	}
	return nil
}

func firstMissing(fields map[string]json.RawMessage, names []string) string {
	for _, name := range names {
		if isAbsent(fields[name]) {
			return name
		}
	}
	return ""
}

// firstUnknown returns the alphabetically first key not in names, or "".
func firstUnknown(fields map[string]json.RawMessage, names []string) string {
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if !slices.Contains(names, key) {
			return key
		}
	}
	return ""
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
