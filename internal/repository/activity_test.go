package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestActivityRepositoryCRUD(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	activities := NewActivityRepository(database)
	user := createUser(t, users, "alice")

	activity := newActivity(user.ID, "Morning run", model.NewDate(2024, 1, 15))
	activity.DurationMinutes = intPtr(30)
	activity.WorkoutType = strPtr("running")
	require.NoError(t, activities.Create(activity))

	got, err := activities.ByID(user.ID, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning run", got.Title)
	assert.Equal(t, "2024-01-15", got.Date.String())
	assert.Equal(t, model.ActivityStatusPlanned, got.Status)
	require.NotNil(t, got.DurationMinutes)
	assert.Equal(t, 30, *got.DurationMinutes)
	assert.Equal(t, "running", *got.WorkoutType)
	assert.Nil(t, got.Calories)

	got.Status = model.ActivityStatusCompleted
	got.DurationMinutes = nil
	got.UpdatedAt = time.Time{}
	require.NoError(t, activities.Update(got))
	assert.False(t, got.UpdatedAt.IsZero())

	updated, err := activities.ByID(user.ID, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActivityStatusCompleted, updated.Status)
	assert.Nil(t, updated.DurationMinutes)

	require.NoError(t, activities.Delete(user.ID, activity.ID))
	_, err = activities.ByID(user.ID, activity.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)
	assert.ErrorIs(t, activities.Delete(user.ID, activity.ID), ErrActivityNotFound)
}

func TestActivityRepositoryOwnership(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	activities := NewActivityRepository(database)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	activity := newActivity(alice.ID, "Alice only", model.NewDate(2024, 1, 15))
	require.NoError(t, activities.Create(activity))

	_, err := activities.ByID(bob.ID, activity.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	stolen := *activity
	stolen.UserID = bob.ID
	stolen.Title = "Hijacked"
	assert.ErrorIs(t, activities.Update(&stolen), ErrActivityNotFound)
	assert.ErrorIs(t, activities.Delete(bob.ID, activity.ID), ErrActivityNotFound)

	list, err := activities.Activities(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	got, err := activities.ByID(alice.ID, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice only", got.Title)
}

func TestActivityRepositoryOrdering(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	activities := NewActivityRepository(database)
	user := createUser(t, users, "alice")

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	older := newActivity(user.ID, "older", model.NewDate(2024, 1, 10))
	sameDayFirst := newActivity(user.ID, "same day first", model.NewDate(2024, 1, 20))
	sameDaySecond := newActivity(user.ID, "same day second", model.NewDate(2024, 1, 20))
	newest := newActivity(user.ID, "newest", model.NewDate(2024, 2, 1))

	older.CreatedAt = base.Add(3 * time.Hour)
	sameDayFirst.CreatedAt = base
	sameDaySecond.CreatedAt = base.Add(time.Hour)
	newest.CreatedAt = base.Add(2 * time.Hour)

	for _, a := range []*model.Activity{older, sameDayFirst, sameDaySecond, newest} {
		require.NoError(t, activities.Create(a))
	}

	list, err := activities.Activities(user.ID)
	require.NoError(t, err)

	var titles []string
	for _, a := range list {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"newest", "same day second", "same day first", "older"}, titles)
}

func TestActivityRepositorySummary(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	activities := NewActivityRepository(database)
	user := createUser(t, users, "alice")
	other := createUser(t, users, "bob")

	empty, err := activities.Summary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, map[string]int{"workout": 0, "meal": 0, "steps": 0}, empty.ByType)
	assert.Nil(t, empty.LastActivityDate)

	run := newActivity(user.ID, "run", model.NewDate(2024, 1, 15))
	run.DurationMinutes = intPtr(30)
	run.Status = model.ActivityStatusCompleted

	lunch := newActivity(user.ID, "lunch", model.NewDate(2024, 1, 16))
	lunch.ActivityType = model.ActivityTypeMeal
	lunch.Calories = intPtr(650)

	walk := newActivity(user.ID, "walk", model.NewDate(2024, 1, 14))
	walk.ActivityType = model.ActivityTypeSteps
	walk.StepCount = intPtr(8000)
	walk.Status = model.ActivityStatusInProgress

	foreign := newActivity(other.ID, "not mine", model.NewDate(2025, 1, 1))
	foreign.Calories = intPtr(9999)

	for _, a := range []*model.Activity{run, lunch, walk, foreign} {
		require.NoError(t, activities.Create(a))
	}

	summary, err := activities.Summary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, map[string]int{"workout": 1, "meal": 1, "steps": 1}, summary.ByType)
	assert.Equal(t, map[string]int{"planned": 1, "in_progress": 1, "completed": 1}, summary.ByStatus)
	assert.Equal(t, 30, summary.TotalDurationMinutes)
	assert.Equal(t, 650, summary.TotalCalories)
	assert.Equal(t, 8000, summary.TotalSteps)
	require.NotNil(t, summary.LastActivityDate)
	assert.Equal(t, "2024-01-16", summary.LastActivityDate.String())
}

func TestActivityRepositoryCascadeOnUserDelete(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	activities := NewActivityRepository(database)
	user := createUser(t, users, "alice")

	require.NoError(t, activities.Create(newActivity(user.ID, "run", model.NewDate(2024, 1, 15))))

	_, err := database.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM activities`))
	assert.Equal(t, 0, count)
}

func TestActivityRepositoryDatabaseErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewActivityRepository(sqlx.NewDb(mockDB, "sqlmock"))
	boom := errors.New("database is locked")

	mock.ExpectQuery("SELECT \\* FROM activities WHERE user_id").WillReturnError(boom)
	mock.ExpectExec("DELETE FROM activities").WillReturnResult(sqlmock.NewErrorResult(boom))

	_, err = repo.Activities("user")
	assert.ErrorIs(t, err, boom)

	err = repo.Delete("user", uuid.New().String())
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
