package recovery

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustCleanTime(t *testing.T, title string, target time.Duration) *CleanTimeGoal {
	t.Helper()
	g, err := NewCleanTimeGoal(title, target)
	if err != nil {
		t.Fatalf("NewCleanTimeGoal: %v", err)
	}
	return g
}

func TestGoalRoundTrip(t *testing.T) {
	meetings, _ := NewMeetingsGoal("Meetings", 10)
	_ = meetings.UpdateMeetingsCount(4)
	step, _ := NewTaskStep("Write letter", "to myself")
	step.IsCompleted = true
	task, _ := NewTaskGoal("Journal", "daily reflections", step)
	task.Complete()

	tests := []struct {
		name string
		goal Goal
	}{
		{"clean time", mustCleanTime(t, "30 days", 30*24*time.Hour)},
		{"meetings", meetings},
		{"task", task},
		{"task without steps", func() Goal { g, _ := NewTaskGoal("Empty", ""); return g }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeGoal(WrapGoal(tt.goal))
			if err != nil {
				t.Fatalf("EncodeGoal: %v", err)
			}
			got, err := DecodeGoal(data)
			if err != nil {
				t.Fatalf("DecodeGoal(%s): %v", data, err)
			}
			if got.Type() != tt.goal.Type() {
				t.Fatalf("type=%q, want %q", got.Type(), tt.goal.Type())
			}
			if diff := cmp.Diff(tt.goal, got.Goal()); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeGoalWireFormat(t *testing.T) {
	g := mustCleanTime(t, "30 days", 2_592_000*time.Second)
	data, err := EncodeGoal(WrapGoal(g))
	if err != nil {
		t.Fatalf("EncodeGoal: %v", err)
	}
	var env struct {
		GoalType string         `json:"goalType"`
		Goal     map[string]any `json:"goal"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.GoalType != "cleanTimeGoal" {
		t.Fatalf("goalType=%q", env.GoalType)
	}
	for _, k := range []string{"id", "title", "isCompleted", "creationDate", "targetCleanTime"} {
		if _, ok := env.Goal[k]; !ok {
			t.Errorf("payload missing %q: %s", k, data)
		}
	}
	if env.Goal["targetCleanTime"] != float64(2_592_000) {
		t.Fatalf("targetCleanTime=%v, want seconds", env.Goal["targetCleanTime"])
	}
}

func TestThirtyDayScenario(t *testing.T) {
	g := mustCleanTime(t, "30 days", 2_592_000*time.Second)
	data, err := EncodeGoal(WrapGoal(g))
	if err != nil {
		t.Fatalf("EncodeGoal: %v", err)
	}
	decoded, err := DecodeGoal(data)
	if err != nil {
		t.Fatalf("DecodeGoal: %v", err)
	}
	ct, ok := decoded.CleanTime()
	if !ok {
		t.Fatalf("decoded goal is %s", decoded.Type())
	}
	if ct.IsCompleted {
		t.Fatalf("completed before check")
	}
	ct.CheckIfGoalReached(2_600_000 * time.Second)
	if !decoded.IsCompleted() {
		t.Fatalf("IsCompleted=false after reaching target")
	}
}

func TestDecodeGoalErrors(t *testing.T) {
	const base = `"id":"6f1c3a52-8a57-4a5e-9d38-0c6a8cbe51a0","title":"t","isCompleted":false,"creationDate":"2024-03-06T00:00:00Z"`
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"unknown type", `{"goalType":"unknownType","goal":{}}`, "goalType"},
		{"missing type", `{"goal":{` + base + `,"targetCleanTime":60}}`, "goalType"},
		{"null type", `{"goalType":null,"goal":{}}`, "goalType"},
		{"numeric type", `{"goalType":3,"goal":{}}`, "goalType"},
		{"empty type", `{"goalType":"","goal":{}}`, "goalType"},
		{"not json", `not json`, ""},
		{"array", `[1,2]`, ""},
		{"missing payload", `{"goalType":"taskGoal"}`, "goal"},
		{"payload not object", `{"goalType":"taskGoal","goal":"x"}`, "goal"},
		{"missing title", `{"goalType":"meetingsGoal","goal":{"id":"6f1c3a52-8a57-4a5e-9d38-0c6a8cbe51a0","isCompleted":false,"creationDate":"2024-03-06T00:00:00Z","targetMeetingsCount":1,"currentMeetingsCount":0}}`, "title"},
		{"missing variant field", `{"goalType":"cleanTimeGoal","goal":{` + base + `}}`, "targetCleanTime"},
		{"wrong field type", `{"goalType":"meetingsGoal","goal":{` + base + `,"targetMeetingsCount":"ten","currentMeetingsCount":0}}`, "targetMeetingsCount"},
		{"bad uuid", `{"goalType":"taskGoal","goal":{"id":"nope","title":"t","isCompleted":false,"creationDate":"2024-03-06T00:00:00Z","description":"","steps":[]}}`, ""},
		{"step missing field", `{"goalType":"taskGoal","goal":{` + base + `,"description":"","steps":[{"id":"6f1c3a52-8a57-4a5e-9d38-0c6a8cbe51a0","title":"s"}]}}`, "steps"},
		{"steps not array", `{"goalType":"taskGoal","goal":{` + base + `,"description":"","steps":{}}}`, "steps"},
		{"clean time overflows duration", `{"goalType":"cleanTimeGoal","goal":{` + base + `,"targetCleanTime":1e12}}`, "targetCleanTime"},
		{"negative clean time", `{"goalType":"cleanTimeGoal","goal":{` + base + `,"targetCleanTime":-60}}`, "targetCleanTime"},
		{"clean time not a number", `{"goalType":"cleanTimeGoal","goal":{` + base + `,"targetCleanTime":"60"}}`, "targetCleanTime"},
		{"negative meetings target", `{"goalType":"meetingsGoal","goal":{` + base + `,"targetMeetingsCount":-5,"currentMeetingsCount":0}}`, "targetMeetingsCount"},
		{"negative meetings count", `{"goalType":"meetingsGoal","goal":{` + base + `,"targetMeetingsCount":5,"currentMeetingsCount":-9}}`, "currentMeetingsCount"},
		{"case variant key", `{"goalType":"cleanTimeGoal","goal":{` + base + `,"Title":"b","targetCleanTime":60}}`, "Title"},
		{"unknown goal key", `{"goalType":"cleanTimeGoal","goal":{` + base + `,"targetCleanTime":60,"extra":1}}`, "extra"},
		{"case variant envelope key", `{"goalType":"taskGoal","GoalType":"meetingsGoal","goal":{}}`, "GoalType"},
		{"unknown step key", `{"goalType":"taskGoal","goal":{` + base + `,"description":"","steps":[{"id":"6f1c3a52-8a57-4a5e-9d38-0c6a8cbe51a0","title":"s","description":"","isCompleted":false,"Title":"x"}]}}`, "steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodeGoal([]byte(tt.data))
			if err == nil {
				t.Fatalf("expected error, got goal %v", g.Type())
			}
			var de DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("err=%T %v, want DecodeError", err, err)
			}
			if !IsDecodeError(err) {
				t.Fatalf("IsDecodeError=false")
			}
			if !g.IsZero() {
				t.Fatalf("a goal was returned alongside the error")
			}
			if tt.field != "" && de.Field != tt.field {
				t.Fatalf("Field=%q, want %q (%v)", de.Field, tt.field, err)
			}
		})
	}
}

func TestDecodeGoalLargestCleanTime(t *testing.T) {
	const data = `{"goalType":"cleanTimeGoal","goal":{"id":"6f1c3a52-8a57-4a5e-9d38-0c6a8cbe51a0","title":"t","isCompleted":false,"creationDate":"2024-03-06T00:00:00Z","targetCleanTime":9223372036}}`
	g, err := DecodeGoal([]byte(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ct, _ := g.CleanTime()
	if ct.TargetCleanTime != 9223372036*time.Second {
		t.Fatalf("target=%v", ct.TargetCleanTime)
	}
	if ct.CheckIfGoalReached(0) {
		t.Fatalf("huge target reached at zero clean time")
	}
}

func TestDecodeUnknownTypeMessage(t *testing.T) {
	_, err := DecodeGoal([]byte(`{"goalType":"unknownType","goal":{}}`))
	if err == nil || !strings.Contains(err.Error(), "unknownType") {
		t.Fatalf("err=%v, want the offending tag in the message", err)
	}
}

func TestAnyGoalCopiesShareState(t *testing.T) {
	a := WrapGoal(mustCleanTime(t, "1 day", 24*time.Hour))
	b := a

	b.Complete()
	if !a.IsCompleted() {
		t.Fatalf("completion through a copy not visible in the original")
	}
	if err := a.SetTitle("First day"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if b.Title() != "First day" {
		t.Fatalf("title=%q through copy", b.Title())
	}
	if err := a.SetTitle("  "); err == nil {
		t.Fatalf("blank title accepted")
	}
}

func TestAnyGoalJSONField(t *testing.T) {
	g, _ := NewMeetingsGoal("Meetings", 2)
	in := struct {
		Goal AnyGoal `json:"goal"`
	}{Goal: WrapGoal(g)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Goal AnyGoal `json:"goal"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Goal.ID() != g.ID || out.Goal.Type() != GoalTypeMeetings {
		t.Fatalf("got %s %s", out.Goal.Type(), out.Goal.ID())
	}
}

func TestDecodeGoalsIsolatesFailures(t *testing.T) {
	good1, _ := EncodeGoal(WrapGoal(mustCleanTime(t, "a", time.Hour)))
	good2, _ := EncodeGoal(WrapGoal(mustCleanTime(t, "b", time.Hour)))
	records := [][]byte{good1, []byte(`{"goalType":"unknownType","goal":{}}`), good2}

	goals, failed := DecodeGoals(records)
	if len(goals) != 2 {
		t.Fatalf("loaded %d goals, want 2", len(goals))
	}
	if goals[0].Title() != "a" || goals[1].Title() != "b" {
		t.Fatalf("unexpected order: %q %q", goals[0].Title(), goals[1].Title())
	}
	if len(failed) != 1 || failed[0].Index != 1 || !IsDecodeError(failed[0]) {
		t.Fatalf("failed=%v", failed)
	}
}

func TestZeroAnyGoal(t *testing.T) {
	var z AnyGoal
	if !z.IsZero() || z.Type() != "" || z.Title() != "" {
		t.Fatalf("zero AnyGoal not empty")
	}
	z.Complete()
	if _, err := EncodeGoal(z); err == nil {
		t.Fatalf("encoding an empty goal should fail")
	}
}
