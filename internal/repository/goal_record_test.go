package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/testutil"
)

func newGoalRepos(t *testing.T) (UserRepository, GoalRecordRepository) {
	t.Helper()
	database := testutil.NewDB(t)
	users := NewUserRepository(database)
	createUser(t, users, "+15551234567")
	return users, NewGoalRecordRepository(database)
}

func TestReplaceGoalsCreatesRecord(t *testing.T) {
	_, repo := newGoalRepos(t)
	ctx := context.Background()

	record, err := repo.ReplaceGoals(ctx, "+15551234567", today, []string{"Grocery shopping", "call mom", "gym"})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)

	stored, err := repo.ByDate(ctx, "+15551234567", today)
	require.NoError(t, err)
	assert.Equal(t, model.TextList{"Grocery shopping", "call mom", "gym"}, stored.Goals)
	assert.Equal(t, model.FlagList{false, false, false}, stored.CompletionStatus)
	assert.Equal(t, today, stored.Date)
}

func TestReplaceGoalsIsIdempotent(t *testing.T) {
	_, repo := newGoalRepos(t)
	ctx := context.Background()
	goals := []string{"a", "b"}

	first, err := repo.ReplaceGoals(ctx, "+15551234567", today, goals)
	require.NoError(t, err)
	second, err := repo.ReplaceGoals(ctx, "+15551234567", today, goals)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	records, err := repo.Since(ctx, "+15551234567", today.AddDays(-7))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.TextList{"a", "b"}, records[0].Goals)
}

func TestReplaceGoalsResizesFlags(t *testing.T) {
	_, repo := newGoalRepos(t)
	ctx := context.Background()

	_, err := repo.ReplaceGoals(ctx, "+15551234567", today, []string{"a", "b"})
	require.NoError(t, err)
	_, _, err = repo.ApplyCompletion(ctx, "+15551234567", today, []bool{true, true})
	require.NoError(t, err)

	record, err := repo.ReplaceGoals(ctx, "+15551234567", today, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, model.FlagList{false, false, false}, record.CompletionStatus)

	stored, err := repo.ByDate(ctx, "+15551234567", today)
	require.NoError(t, err)
	assert.Len(t, stored.CompletionStatus, len(stored.Goals))
}

func TestApplyCompletion(t *testing.T) {
	_, repo := newGoalRepos(t)
	ctx := context.Background()
	yesterday := today.AddDays(-1)

	_, err := repo.ReplaceGoals(ctx, "+15551234567", yesterday, []string{"a", "b", "c"})
	require.NoError(t, err)

	record, matched, err := repo.ApplyCompletion(ctx, "+15551234567", yesterday, []bool{true, false, true})
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, model.FlagList{true, false, true}, record.CompletionStatus)

	stored, err := repo.ByDate(ctx, "+15551234567", yesterday)
	require.NoError(t, err)
	assert.Equal(t, model.FlagList{true, false, true}, stored.CompletionStatus)
}

func TestApplyCompletionMismatchIsBestEffort(t *testing.T) {
	_, repo := newGoalRepos(t)
	ctx := context.Background()

	_, err := repo.ReplaceGoals(ctx, "+15551234567", today, []string{"a", "b", "c"})
	require.NoError(t, err)

	record, matched, err := repo.ApplyCompletion(ctx, "+15551234567", today, []bool{true, true})
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, model.FlagList{true, true, false}, record.CompletionStatus)
}

func TestApplyCompletionWithoutRecord(t *testing.T) {
	_, repo := newGoalRepos(t)

	_, _, err := repo.ApplyCompletion(context.Background(), "+15551234567", today, []bool{true})
	assert.ErrorIs(t, err, ErrGoalRecordNotFound)
}

func TestSinceOrdersOldestFirst(t *testing.T) {
	_, repo := newGoalRepos(t)
	ctx := context.Background()

	for _, offset := range []int{0, -3, -1, -9} {
		_, err := repo.ReplaceGoals(ctx, "+15551234567", today.AddDays(offset), []string{"goal"})
		require.NoError(t, err)
	}

	records, err := repo.Since(ctx, "+15551234567", today.AddDays(-7))
	require.NoError(t, err)

	var dates []string
	for _, r := range records {
		dates = append(dates, r.Date.String())
	}
	assert.Equal(t, []string{"2025-06-07", "2025-06-09", "2025-06-10"}, dates)
}
