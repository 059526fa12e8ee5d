package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/smsgoals/internal/model"
)

var (
	ErrGoalRecordNotFound = errors.New("goal record not found")
)

type GoalRecordRepository interface {
	ByDate(ctx context.Context, phoneNumber string, date model.Date) (*model.GoalRecord, error)
	Since(ctx context.Context, phoneNumber string, from model.Date) ([]*model.GoalRecord, error)
	ReplaceGoals(ctx context.Context, phoneNumber string, date model.Date, goals []string) (*model.GoalRecord, error)
	ApplyCompletion(ctx context.Context, phoneNumber string, date model.Date, flags []bool) (*model.GoalRecord, bool, error)
}

type goalRecordRepository struct {
	db *sqlx.DB
}

func NewGoalRecordRepository(db *sqlx.DB) GoalRecordRepository {
	return &goalRecordRepository{db: db}
}

func (r *goalRecordRepository) ByDate(ctx context.Context, phoneNumber string, date model.Date) (*model.GoalRecord, error) {
	return byDate(ctx, r.db, phoneNumber, date)
}

// Since returns the records dated on or after from, oldest first.
func (r *goalRecordRepository) Since(ctx context.Context, phoneNumber string, from model.Date) ([]*model.GoalRecord, error) {
	var records []*model.GoalRecord
	query := `SELECT * FROM goal_records WHERE phone_number = $1 AND date >= $2 ORDER BY date ASC`

	err := r.db.SelectContext(ctx, &records, query, phoneNumber, from)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		rec.Normalize()
	}
	return records, nil
}

// ReplaceGoals upserts the record for (phoneNumber, date). An existing
// record keeps its completion flags only if the goal count is unchanged.
func (r *goalRecordRepository) ReplaceGoals(ctx context.Context, phoneNumber string, date model.Date, goals []string) (*model.GoalRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	record, err := byDate(ctx, tx, phoneNumber, date)
	switch {
	case errors.Is(err, ErrGoalRecordNotFound):
		record = model.NewGoalRecord(uuid.New().String(), phoneNumber, date, goals)
		record.CreatedAt = now
	case err != nil:
		return nil, err
	default:
		record.SetGoals(goals)
	}
	record.UpdatedAt = now

	query := `INSERT INTO goal_records (id, phone_number, date, goals, completion_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (phone_number, date) DO UPDATE
	          SET goals = excluded.goals,
	              completion_status = excluded.completion_status,
	              updated_at = excluded.updated_at`

	_, err = tx.ExecContext(ctx, query,
		record.ID,
		record.PhoneNumber,
		record.Date,
		record.Goals,
		record.CompletionStatus,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ApplyCompletion aligns flags with the stored goals by position. The bool
// result is false when the flag count did not match the goal count; the
// best-effort update is stored either way.
func (r *goalRecordRepository) ApplyCompletion(ctx context.Context, phoneNumber string, date model.Date, flags []bool) (*model.GoalRecord, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	record, err := byDate(ctx, tx, phoneNumber, date)
	if err != nil {
		return nil, false, err
	}

	matched := record.ApplyFlags(flags)
	record.UpdatedAt = time.Now().UTC()

	query := `UPDATE goal_records SET completion_status = $1, updated_at = $2 WHERE id = $3`
	_, err = tx.ExecContext(ctx, query, record.CompletionStatus, record.UpdatedAt, record.ID)
	if err != nil {
		return nil, false, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, false, err
	}

	return record, matched, nil
}

func byDate(ctx context.Context, q sqlx.QueryerContext, phoneNumber string, date model.Date) (*model.GoalRecord, error) {
	record := &model.GoalRecord{}
	query := `SELECT * FROM goal_records WHERE phone_number = $1 AND date = $2`

	err := sqlx.GetContext(ctx, q, record, query, phoneNumber, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	record.Normalize()
	return record, nil
}
