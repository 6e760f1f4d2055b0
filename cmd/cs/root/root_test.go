package root

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// run executes cs with args against dbPath and returns stdout.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	if err != nil {
		t.Fatalf("cs %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestCLI_TrackAndSeed(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "cs.db")

	out := mustRun(t, dbPath, "add", "alcohol", "--since", "10d", "--reason", "health")
	if !strings.Contains(out, "Alcohol") || !strings.Contains(out, "id 1") {
		t.Fatalf("add output=%q", out)
	}

	mustRun(t, dbPath, "savings", "add", "1", "12.5", "--per", "day")
	out = mustRun(t, dbPath, "status", "1")
	if !strings.Contains(out, "1 week, 3 days") {
		t.Fatalf("status missing clean time:\n%s", out)
	}
	if !strings.Contains(out, "commonly consumed in beverages") {
		t.Fatalf("status missing substance description:\n%s", out)
	}
	if !strings.Contains(out, "$125.00") {
		t.Fatalf("status missing accrued savings:\n%s", out)
	}

	out = mustRun(t, dbPath, "milestone", "add", "1", "--seed")
	if !strings.Contains(out, "Seeded 15 milestones (3 already achieved)") {
		t.Fatalf("seed output=%q", out)
	}

	out = mustRun(t, dbPath, "milestone", "show", "3")
	if !strings.Contains(out, "ACHIEVED") {
		t.Fatalf("7-day milestone not achieved:\n%s", out)
	}
}

func TestCLI_GoalLifecycle(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "cs.db")

	mustRun(t, dbPath, "add", "nicotine")
	mustRun(t, dbPath, "milestone", "add", "1")
	mustRun(t, dbPath, "goal", "add", "meetings", "1", "Attend meetings", "--target", "2")

	out := mustRun(t, dbPath, "milestone", "show", "1")
	fields := strings.Fields(out)
	var goalRef string
	for i, f := range fields {
		if f == "Attend" && i > 0 {
			goalRef = fields[i-1]
		}
	}
	if len(goalRef) != 8 {
		t.Fatalf("could not find goal id in:\n%s", out)
	}

	out = mustRun(t, dbPath, "goal", "meetings", "1", goalRef, "2")
	if !strings.Contains(out, "2/2 meetings") {
		t.Fatalf("meetings output=%q", out)
	}
	if !strings.Contains(out, "ACHIEVED") {
		t.Fatalf("milestone should be achieved once its only goal completes:\n%s", out)
	}

	exported := mustRun(t, dbPath, "goal", "export", "1", goalRef)
	if !strings.Contains(exported, `"goalType":"meetingsGoal"`) {
		t.Fatalf("export output=%q", exported)
	}

	if _, err := run(t, dbPath, "goal", "meetings", "1", goalRef, "--", "-1"); err == nil {
		t.Fatalf("expected negative meetings count to fail")
	}
}

func TestCLI_ImportRejectsUnknownGoalType(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cs.db")
	mustRun(t, dbPath, "add", "cannabis")
	mustRun(t, dbPath, "milestone", "add", "1")

	file := filepath.Join(dir, "goal.json")
	if err := os.WriteFile(file, []byte(`{"goalType":"unknownType","goal":{}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := run(t, dbPath, "goal", "import", "1", file)
	if err == nil || !strings.Contains(err.Error(), "unknown goal type") {
		t.Fatalf("import err=%v, want unknown goal type", err)
	}
}

func TestCLI_BadArgs(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "cs.db")
	if _, err := run(t, dbPath, "status", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if _, err := run(t, dbPath, "add", "chocolate"); err == nil {
		t.Fatalf("expected error for unknown substance")
	}
	if _, err := run(t, dbPath, "status", "42"); err == nil {
		t.Fatalf("expected not found")
	}
}
