package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(user))
	return user
}

func newActivity(userID, title string, date model.Date) *model.Activity {
	now := time.Now().UTC()
	return &model.Activity{
		ID:           uuid.New().String(),
		UserID:       userID,
		ActivityType: model.ActivityTypeWorkout,
		Title:        title,
		Date:         date,
		Status:       model.ActivityStatusPlanned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
