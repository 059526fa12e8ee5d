package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/testutil"
)

var today = model.Date{Year: 2025, Month: time.June, Day: 10}

func createUser(t *testing.T, repo UserRepository, phone string) {
	t.Helper()
	err := repo.Create(context.Background(), &model.User{PhoneNumber: phone, EmergencyContact: "+15559876543"})
	require.NoError(t, err)
}

func TestUserCreateAndLookup(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()

	createUser(t, repo, "+15551234567")

	user, err := repo.ByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "+15559876543", user.EmergencyContact)
	assert.Nil(t, user.LastResponse)
	assert.Zero(t, user.ConsecutiveMisses)

	_, err = repo.ByPhone(ctx, "+15550000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserCreateDuplicate(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))

	createUser(t, repo, "+15551234567")
	err := repo.Create(context.Background(), &model.User{PhoneNumber: "+15551234567", EmergencyContact: "+15550000000"})

	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRecordResponseResetsMisses(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	createUser(t, repo, "+15551234567")

	_, err := repo.RecordMiss(ctx, "+15551234567", today, 5)
	require.NoError(t, err)

	require.NoError(t, repo.RecordResponse(ctx, "+15551234567", today))

	user, err := repo.ByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	require.NotNil(t, user.LastResponse)
	assert.Equal(t, today, *user.LastResponse)
	assert.Zero(t, user.ConsecutiveMisses)

	assert.ErrorIs(t, repo.RecordResponse(ctx, "+15550000000", today), ErrUserNotFound)
}

func TestInactive(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()

	createUser(t, repo, "+15550000001") // never replied
	createUser(t, repo, "+15550000002")
	createUser(t, repo, "+15550000003")
	createUser(t, repo, "+15550000004")
	require.NoError(t, repo.RecordResponse(ctx, "+15550000002", today))
	require.NoError(t, repo.RecordResponse(ctx, "+15550000003", today.AddDays(-1)))
	require.NoError(t, repo.RecordResponse(ctx, "+15550000004", today.AddDays(-2)))

	users, err := repo.Inactive(ctx, today)
	require.NoError(t, err)

	var phones []string
	for _, u := range users {
		phones = append(phones, u.PhoneNumber)
		assert.True(t, u.InactiveOn(today))
	}
	assert.Equal(t, []string{"+15550000001", "+15550000004"}, phones)
}

func TestRecordMissEscalatesAndResets(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	createUser(t, repo, "+15551234567")

	first, err := repo.RecordMiss(ctx, "+15551234567", today, 2)
	require.NoError(t, err)
	assert.Equal(t, MissResult{Misses: 1}, *first)

	second, err := repo.RecordMiss(ctx, "+15551234567", today.AddDays(1), 2)
	require.NoError(t, err)
	assert.Equal(t, MissResult{Misses: 2, Escalated: true}, *second)

	user, err := repo.ByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	assert.Zero(t, user.ConsecutiveMisses)
}

func TestRecordMissCountsOncePerDate(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	createUser(t, repo, "+15551234567")

	first, err := repo.RecordMiss(ctx, "+15551234567", today, 2)
	require.NoError(t, err)
	assert.Equal(t, MissResult{Misses: 1}, *first)

	_, err = repo.RecordMiss(ctx, "+15551234567", today, 2)
	assert.ErrorIs(t, err, ErrMissRecorded)

	user, err := repo.ByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ConsecutiveMisses)
	require.NotNil(t, user.LastMissed)
	assert.Equal(t, today, *user.LastMissed)

	_, err = repo.RecordMiss(ctx, "+15550000000", today, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordMissSkipsUserWhoRepliedAfterScan(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	createUser(t, repo, "+15551234567")

	users, err := repo.Inactive(ctx, today)
	require.NoError(t, err)
	require.Len(t, users, 1)

	// Reply lands between the scan and the counter update.
	require.NoError(t, repo.RecordResponse(ctx, "+15551234567", today))

	_, err = repo.RecordMiss(ctx, "+15551234567", today, 2)
	assert.ErrorIs(t, err, ErrUserActive)

	user, err := repo.ByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	assert.Zero(t, user.ConsecutiveMisses)
	assert.Equal(t, today, *user.LastResponse)
}

func TestRecordMissAndResponseNeverLoseTheReply(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	createUser(t, repo, "+15551234567")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.RecordMiss(ctx, "+15551234567", today, 100)
		}()
		go func() {
			defer wg.Done()
			_ = repo.RecordResponse(ctx, "+15551234567", today)
		}()
	}
	wg.Wait()

	// Once a reply for today is stored no later miss for today can apply.
	user, err := repo.ByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	require.NotNil(t, user.LastResponse)
	assert.Equal(t, today, *user.LastResponse)
	assert.Zero(t, user.ConsecutiveMisses)
}
