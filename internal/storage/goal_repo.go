package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GoalRepo stores goal records of milestones. Records are written and read
// one row at a time so that a single unreadable payload never blocks access
// to the others.
type GoalRepo struct {
	db *sqlx.DB
}

func NewGoalRepo(db *sqlx.DB) *GoalRepo {
	return &GoalRepo{db: db}
}

// ListByMilestone returns the stored goal records of a milestone in order.
func (r *GoalRepo) ListByMilestone(ctx context.Context, milestoneID int64) ([]MilestoneGoal, error) {
	var out []MilestoneGoal
	err := r.db.SelectContext(ctx, &out, `
		SELECT milestone_id, position, goal_id, goal_type, payload
		FROM milestone_goals
		WHERE milestone_id = ?
		ORDER BY position ASC
	`, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("goal list: %w", err)
	}
	return out, nil
}

// Append adds g after the milestone's last goal. g.Position is ignored.
func (r *GoalRepo) Append(ctx context.Context, g MilestoneGoal) error {
	return appendGoal(ctx, r.db, g)
}

func appendGoal(ctx context.Context, ex sqlx.ExecerContext, g MilestoneGoal) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO milestone_goals (milestone_id, position, goal_id, goal_type, payload)
		VALUES (?, (SELECT COALESCE(MAX(position) + 1, 0) FROM milestone_goals WHERE milestone_id = ?), ?, ?, ?)
	`, g.MilestoneID, g.MilestoneID, g.GoalID, g.GoalType, g.Payload)
	if err != nil {
		return fmt.Errorf("goal insert: %w", err)
	}
	return nil
}

// UpdatePayload rewrites the payload of one goal in place.
func (r *GoalRepo) UpdatePayload(ctx context.Context, milestoneID int64, goalID, payload string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE milestone_goals SET payload = ? WHERE milestone_id = ? AND goal_id = ?
	`, payload, milestoneID, goalID)
	if err != nil {
		return fmt.Errorf("goal update: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("goal %s", goalID))
}

func (r *GoalRepo) Delete(ctx context.Context, milestoneID int64, goalID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM milestone_goals WHERE milestone_id = ? AND goal_id = ?
	`, milestoneID, goalID)
	if err != nil {
		return fmt.Errorf("goal delete: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("goal %s", goalID))
}

func (r *GoalRepo) Get(ctx context.Context, milestoneID int64, goalID string) (*MilestoneGoal, error) {
	var out []MilestoneGoal
	err := r.db.SelectContext(ctx, &out, `
		SELECT milestone_id, position, goal_id, goal_type, payload
		FROM milestone_goals
		WHERE milestone_id = ? AND goal_id = ?
		LIMIT 1
	`, milestoneID, goalID)
	if err != nil {
		return nil, fmt.Errorf("goal get: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	return &out[0], nil
}
