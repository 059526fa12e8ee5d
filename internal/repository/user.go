package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/smsgoals/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("phone number already registered")
	// ErrUserActive means the user replied between the sweep scan and the
	// counter update, so the miss was not recorded.
	ErrUserActive = errors.New("user responded within the window")
	// ErrMissRecorded means a miss was already counted for the sweep date.
	ErrMissRecorded = errors.New("miss already recorded for this date")
)

// MissResult is the outcome of recording one missed day for a user.
type MissResult struct {
	Misses    int  // counter value after the increment, before any reset
	Escalated bool // threshold reached; the stored counter is back to 0
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByPhone(ctx context.Context, phoneNumber string) (*model.User, error)
	All(ctx context.Context) ([]*model.User, error)
	Inactive(ctx context.Context, ref model.Date) ([]*model.User, error)
	RecordResponse(ctx context.Context, phoneNumber string, day model.Date) error
	RecordMiss(ctx context.Context, phoneNumber string, ref model.Date, threshold int) (*MissResult, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO users (phone_number, emergency_contact, last_response, consecutive_misses, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		user.PhoneNumber,
		user.EmergencyContact,
		user.LastResponse,
		user.ConsecutiveMisses,
		user.CreatedAt,
	)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateUser
		}
		return err
	}

	return nil
}

func (r *userRepository) ByPhone(ctx context.Context, phoneNumber string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE phone_number = $1`

	err := r.db.GetContext(ctx, user, query, phoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) All(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users ORDER BY created_at ASC, phone_number ASC`

	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Inactive lists users who never replied or whose last reply is older than
// the day before ref.
func (r *userRepository) Inactive(ctx context.Context, ref model.Date) ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users
	          WHERE last_response IS NULL OR last_response < $1
	          ORDER BY phone_number ASC`

	err := r.db.SelectContext(ctx, &users, query, ref.AddDays(-1))
	if err != nil {
		return nil, err
	}

	return users, nil
}

// RecordResponse marks a reply on day and clears the miss counter in a single
// statement, so it cannot interleave with RecordMiss.
func (r *userRepository) RecordResponse(ctx context.Context, phoneNumber string, day model.Date) error {
	query := `UPDATE users SET last_response = $1, consecutive_misses = 0 WHERE phone_number = $2`

	result, err := r.db.ExecContext(ctx, query, day, phoneNumber)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RecordMiss increments the miss counter only while the user is still
// inactive for ref and no miss has been counted for ref yet, and resets it to
// zero once it reaches threshold. Both steps run in one transaction and the
// reset is a compare-and-set on the value just written.
func (r *userRepository) RecordMiss(ctx context.Context, phoneNumber string, ref model.Date, threshold int) (*MissResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	increment := `UPDATE users
	              SET consecutive_misses = consecutive_misses + 1, last_missed = $2
	              WHERE phone_number = $1
	                AND (last_response IS NULL OR last_response < $3)
	                AND (last_missed IS NULL OR last_missed < $2)
	              RETURNING consecutive_misses`

	var misses int
	err = tx.QueryRowxContext(ctx, increment, phoneNumber, ref, ref.AddDays(-1)).Scan(&misses)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missSkipReason(ctx, tx, phoneNumber, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment misses: %w", err)
	}

	result := &MissResult{Misses: misses}
	if threshold > 0 && misses >= threshold {
		reset := `UPDATE users SET consecutive_misses = 0 WHERE phone_number = $1 AND consecutive_misses = $2`
		res, err := tx.ExecContext(ctx, reset, phoneNumber, misses)
		if err != nil {
			return nil, fmt.Errorf("failed to reset misses: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		result.Escalated = rows == 1
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// missSkipReason explains why RecordMiss matched no row.
func (r *userRepository) missSkipReason(ctx context.Context, tx *sqlx.Tx, phoneNumber string, ref model.Date) error {
	user := &model.User{}
	err := tx.GetContext(ctx, user, `SELECT * FROM users WHERE phone_number = $1`, phoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if user.LastMissed != nil && !user.LastMissed.Before(ref) {
		return ErrMissRecorded
	}
	return ErrUserActive
}
