package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type MilestoneRepo struct {
	db *sqlx.DB
}

func NewMilestoneRepo(db *sqlx.DB) *MilestoneRepo {
	return &MilestoneRepo{db: db}
}

// Insert stores m and its initial goals in one transaction. The MilestoneID
// of each goal is overwritten with the new row id.
func (r *MilestoneRepo) Insert(ctx context.Context, m Milestone, goals []MilestoneGoal) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	var id int64
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO milestones (addiction_id, date, created_at) VALUES (?, ?, ?)
		`, m.AddictionID, m.Date, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("milestone insert: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("milestone last insert id: %w", err)
		}
		for _, g := range goals {
			g.MilestoneID = id
			if err := appendGoal(ctx, tx, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MilestoneRepo) Get(ctx context.Context, id int64) (*Milestone, error) {
	var m Milestone
	err := r.db.GetContext(ctx, &m, `SELECT id, addiction_id, date, created_at FROM milestones WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("milestone %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("milestone get: %w", err)
	}
	return &m, nil
}

func (r *MilestoneRepo) ListByAddiction(ctx context.Context, addictionID int64) ([]Milestone, error) {
	var out []Milestone
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, addiction_id, date, created_at
		FROM milestones
		WHERE addiction_id = ?
		ORDER BY id ASC
	`, addictionID)
	if err != nil {
		return nil, fmt.Errorf("milestone list: %w", err)
	}
	return out, nil
}

func (r *MilestoneRepo) ListAll(ctx context.Context) ([]Milestone, error) {
	var out []Milestone
	if err := r.db.SelectContext(ctx, &out, `SELECT id, addiction_id, date, created_at FROM milestones ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("milestone list all: %w", err)
	}
	return out, nil
}

func (r *MilestoneRepo) UpdateDate(ctx context.Context, id int64, date *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE milestones SET date = ? WHERE id = ?`, date, id)
	if err != nil {
		return fmt.Errorf("milestone update date: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("milestone %d", id))
}

func (r *MilestoneRepo) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM milestone_goals WHERE milestone_id = ?`, id); err != nil {
			return fmt.Errorf("milestone delete goals: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM milestones WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("milestone delete: %w", err)
		}
		return requireAffected(res, fmt.Sprintf("milestone %d", id))
	})
}
