package storage

import "time"

type Addiction struct {
	ID               int64      `db:"id"`
	Substance        string     `db:"substance"`
	Reason           string     `db:"reason"`
	IsEnabled        bool       `db:"is_enabled"`
	SobrietyDate     *time.Time `db:"sobriety_date"`
	LastMilestone    *time.Time `db:"last_milestone"`
	NextMilestone    *time.Time `db:"next_milestone"`
	FellowUsersCount int        `db:"fellow_users_count"`
	CreatedAt        time.Time  `db:"created_at"`
}

type Savings struct {
	ID          int64     `db:"id"`
	AddictionID int64     `db:"addiction_id"`
	AmountSaved float64   `db:"amount_saved"`
	Unit        string    `db:"unit"`
	SavingsType string    `db:"savings_type"`
	Periodicity string    `db:"periodicity"`
	CreatedAt   time.Time `db:"created_at"`
}

type Milestone struct {
	ID          int64      `db:"id"`
	AddictionID *int64     `db:"addiction_id"`
	Date        *time.Time `db:"date"`
	CreatedAt   time.Time  `db:"created_at"`
}

// MilestoneGoal is one stored goal record. Payload is the tagged JSON
// envelope exactly as produced by the goal codec.
type MilestoneGoal struct {
	MilestoneID int64  `db:"milestone_id"`
	Position    int    `db:"position"`
	GoalID      string `db:"goal_id"`
	GoalType    string `db:"goal_type"`
	Payload     string `db:"payload"`
}
