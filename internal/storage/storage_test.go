package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		db, err := Open(ctx, path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = db.Close()
	}
}

func TestResolveDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := ResolveDBPath("~/data/cs.db")
	if err != nil || got != filepath.Join(home, "data", "cs.db") {
		t.Fatalf("ResolveDBPath(~/...)=%q,%v", got, err)
	}
	got, _ = ResolveDBPath("")
	if got != filepath.Join(home, ".cleansteps.db") {
		t.Fatalf("default=%q", got)
	}
	got, _ = ResolveDBPath("/tmp/x.db")
	if got != "/tmp/x.db" {
		t.Fatalf("absolute=%q", got)
	}
}

func TestAddictionRepoCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAddictionRepo(db)

	since := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := repo.Insert(ctx, Addiction{Substance: "Alcohol", IsEnabled: true, SobrietyDate: &since})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	a, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Substance != "Alcohol" || !a.IsEnabled || a.SobrietyDate == nil || !a.SobrietyDate.Equal(since) {
		t.Fatalf("got %+v", a)
	}
	if a.LastMilestone != nil {
		t.Fatalf("LastMilestone=%v, want nil", a.LastMilestone)
	}

	a.IsEnabled = false
	a.Reason = "sleep"
	if err := repo.Update(ctx, *a); err != nil {
		t.Fatalf("update: %v", err)
	}
	a, _ = repo.Get(ctx, id)
	if a.IsEnabled || a.Reason != "sleep" {
		t.Fatalf("update not stored: %+v", a)
	}

	if err := repo.Update(ctx, Addiction{ID: 999, Substance: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing err=%v", err)
	}
	if _, err := repo.Get(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing err=%v", err)
	}
}

func TestAddictionDeleteDetachesMilestones(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	addictions := NewAddictionRepo(db)
	savings := NewSavingsRepo(db)
	milestones := NewMilestoneRepo(db)

	id, _ := addictions.Insert(ctx, Addiction{Substance: "Nicotine", IsEnabled: true})
	other, _ := addictions.Insert(ctx, Addiction{Substance: "Cannabis", IsEnabled: true})
	for _, aid := range []int64{id, other} {
		if _, err := savings.Insert(ctx, Savings{AddictionID: aid, AmountSaved: 8, Unit: "$", SavingsType: "Money", Periodicity: "Per Day"}); err != nil {
			t.Fatalf("insert savings: %v", err)
		}
	}
	msID, err := milestones.Insert(ctx, Milestone{AddictionID: &id}, nil)
	if err != nil {
		t.Fatalf("insert milestone: %v", err)
	}

	if err := addictions.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	left, _ := savings.ListByAddiction(ctx, id)
	if len(left) != 0 {
		t.Fatalf("%d savings rows left", len(left))
	}
	kept, _ := savings.ListByAddiction(ctx, other)
	if len(kept) != 1 {
		t.Fatalf("other addiction lost its savings")
	}
	m, err := milestones.Get(ctx, msID)
	if err != nil {
		t.Fatalf("milestone deleted: %v", err)
	}
	if m.AddictionID != nil {
		t.Fatalf("AddictionID=%d, want nil", *m.AddictionID)
	}
	all, _ := milestones.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("ListAll=%d", len(all))
	}
}

func TestGoalRepoOrderingAndUpdates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	milestones := NewMilestoneRepo(db)
	goals := NewGoalRepo(db)

	msID, err := milestones.Insert(ctx, Milestone{}, []MilestoneGoal{
		{GoalID: "a", GoalType: "taskGoal", Payload: `{"n":1}`},
		{GoalID: "b", GoalType: "taskGoal", Payload: `{"n":2}`},
	})
	if err != nil {
		t.Fatalf("insert milestone: %v", err)
	}
	if err := goals.Append(ctx, MilestoneGoal{MilestoneID: msID, GoalID: "c", GoalType: "taskGoal", Payload: `{"n":3}`}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := goals.Append(ctx, MilestoneGoal{MilestoneID: msID, GoalID: "a", GoalType: "taskGoal", Payload: `{"n":9}`}); err == nil {
		t.Fatalf("duplicate goal id accepted")
	}
	if err := goals.Delete(ctx, msID, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := goals.Append(ctx, MilestoneGoal{MilestoneID: msID, GoalID: "d", GoalType: "taskGoal", Payload: `{"n":4}`}); err != nil {
		t.Fatalf("append after delete: %v", err)
	}
	if err := goals.UpdatePayload(ctx, msID, "a", `{"n":10}`); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, err := goals.ListByMilestone(ctx, msID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.GoalID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "c" || ids[2] != "d" {
		t.Fatalf("order=%v, want [a c d]", ids)
	}
	if rows[0].Payload != `{"n":10}` {
		t.Fatalf("payload=%s", rows[0].Payload)
	}

	g, err := goals.Get(ctx, msID, "c")
	if err != nil || g.Payload != `{"n":3}` {
		t.Fatalf("get=%v err=%v", g, err)
	}
	if err := goals.UpdatePayload(ctx, msID, "zzz", "{}"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing err=%v", err)
	}

	if err := milestones.Delete(ctx, msID); err != nil {
		t.Fatalf("delete milestone: %v", err)
	}
	rows, _ = goals.ListByMilestone(ctx, msID)
	if len(rows) != 0 {
		t.Fatalf("%d goal rows survived milestone delete", len(rows))
	}
}

func TestMilestoneUpdateDate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewMilestoneRepo(db)

	id, _ := repo.Insert(ctx, Milestone{}, nil)
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdateDate(ctx, id, &at); err != nil {
		t.Fatalf("update date: %v", err)
	}
	m, _ := repo.Get(ctx, id)
	if m.Date == nil || !m.Date.Equal(at) {
		t.Fatalf("Date=%v", m.Date)
	}
	if err := repo.UpdateDate(ctx, 999, &at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}
