package service

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
)

type testEnv struct {
	db         *sqlx.DB
	users      repository.UserRepository
	tokens     repository.TokenRepository
	activities repository.ActivityRepository
	auth       *AuthService
	activity   *ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	env := &testEnv{
		db:         database,
		users:      repository.NewUserRepository(database),
		tokens:     repository.NewTokenRepository(database),
		activities: repository.NewActivityRepository(database),
	}
	email := NewEmailService("", "noreply@example.com", "http://localhost:8000", "fittrack", true)
	env.auth = NewAuthService(env.users, env.tokens, email)
	env.activity = NewActivityService(env.activities)
	return env
}

func registerInput(username, email, password, confirm string) RegisterInput {
	return RegisterInput{
		Username:        model.SetField(username),
		Email:           model.SetField(email),
		Password:        model.SetField(password),
		PasswordConfirm: model.SetField(confirm),
	}
}

func (e *testEnv) register(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := e.auth.Register(registerInput(username, username+"@example.com", "s3cret-pass", "s3cret-pass"))
	require.NoError(t, err)
	return user
}

// requireFieldErrors asserts err is a *ValidationError and returns its fields.
func requireFieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T: %v", err, err)
	return validationErr.Fields
}
