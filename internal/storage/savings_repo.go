package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type SavingsRepo struct {
	db *sqlx.DB
}

func NewSavingsRepo(db *sqlx.DB) *SavingsRepo {
	return &SavingsRepo{db: db}
}

func (r *SavingsRepo) Insert(ctx context.Context, s Savings) (int64, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO savings (addiction_id, amount_saved, unit, savings_type, periodicity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.AddictionID, s.AmountSaved, s.Unit, s.SavingsType, s.Periodicity, s.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("savings insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("savings last insert id: %w", err)
	}
	return id, nil
}

func (r *SavingsRepo) ListByAddiction(ctx context.Context, addictionID int64) ([]Savings, error) {
	var out []Savings
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, addiction_id, amount_saved, unit, savings_type, periodicity, created_at
		FROM savings
		WHERE addiction_id = ?
		ORDER BY id ASC
	`, addictionID)
	if err != nil {
		return nil, fmt.Errorf("savings list: %w", err)
	}
	return out, nil
}

func (r *SavingsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("savings delete: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("savings %d", id))
}
