package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const addictionColumns = `id, substance, reason, is_enabled, sobriety_date, last_milestone, next_milestone,
	fellow_users_count, created_at`

type AddictionRepo struct {
	db *sqlx.DB
}

func NewAddictionRepo(db *sqlx.DB) *AddictionRepo {
	return &AddictionRepo{db: db}
}

func (r *AddictionRepo) Insert(ctx context.Context, a Addiction) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO addictions (
			substance, reason, is_enabled, sobriety_date, last_milestone, next_milestone,
			fellow_users_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Substance, a.Reason, boolToInt(a.IsEnabled), a.SobrietyDate, a.LastMilestone, a.NextMilestone,
		a.FellowUsersCount, a.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("addiction insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("addiction last insert id: %w", err)
	}
	return id, nil
}

func (r *AddictionRepo) Get(ctx context.Context, id int64) (*Addiction, error) {
	var a Addiction
	err := r.db.GetContext(ctx, &a, `SELECT `+addictionColumns+` FROM addictions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("addiction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("addiction get: %w", err)
	}
	return &a, nil
}

func (r *AddictionRepo) ListAll(ctx context.Context) ([]Addiction, error) {
	var out []Addiction
	if err := r.db.SelectContext(ctx, &out, `SELECT `+addictionColumns+` FROM addictions ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("addiction list: %w", err)
	}
	return out, nil
}

func (r *AddictionRepo) Update(ctx context.Context, a Addiction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addictions
		SET substance = ?, reason = ?, is_enabled = ?, sobriety_date = ?, last_milestone = ?,
			next_milestone = ?, fellow_users_count = ?
		WHERE id = ?
	`, a.Substance, a.Reason, boolToInt(a.IsEnabled), a.SobrietyDate, a.LastMilestone,
		a.NextMilestone, a.FellowUsersCount, a.ID)
	if err != nil {
		return fmt.Errorf("addiction update: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("addiction %d", a.ID))
}

// Delete removes the addiction together with the savings it owns. Milestones
// that referenced it are kept and their addiction_id is cleared.
func (r *AddictionRepo) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM savings WHERE addiction_id = ?`, id); err != nil {
			return fmt.Errorf("addiction delete savings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE milestones SET addiction_id = NULL WHERE addiction_id = ?`, id); err != nil {
			return fmt.Errorf("addiction detach milestones: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM addictions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("addiction delete: %w", err)
		}
		return requireAffected(res, fmt.Sprintf("addiction %d", id))
	})
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
