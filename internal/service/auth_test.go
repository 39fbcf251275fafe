package service

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(registerInput("  alice  ", "alice@example.com", "s3cret-pass", "s3cret-pass"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))

	stored, err := env.users.ByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	// Registration does not log the user in
	_, err = env.tokens.ByUserID(user.ID)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(registerInput("alice", "alice@example.com", "one", "two"))
	fields := requireFieldErrors(t, err)
	assert.Equal(t, map[string][]string{"non_field_errors": {"Passwords don't match"}}, fields)

	_, err = env.users.ByUsername("alice")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRegisterFieldErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(RegisterInput{})
	fields := requireFieldErrors(t, err)
	for _, name := range []string{"username", "email", "password", "password_confirm"} {
		assert.Equal(t, []string{"This field is required."}, fields[name], name)
	}

	_, err = env.auth.Register(RegisterInput{
		Username:        model.NullField[string](),
		Email:           model.SetField("   "),
		Password:        model.SetField("pw"),
		PasswordConfirm: model.SetField("pw"),
	})
	fields = requireFieldErrors(t, err)
	assert.Equal(t, []string{"This field may not be null."}, fields["username"])
	assert.Equal(t, []string{"This field may not be blank."}, fields["email"])

	_, err = env.auth.Register(registerInput("bad name!", "not-an-email", "pw", "pw"))
	fields = requireFieldErrors(t, err)
	assert.Contains(t, fields["username"][0], "Enter a valid username.")
	assert.Equal(t, []string{"Enter a valid email address."}, fields["email"])
	assert.NotContains(t, fields, "non_field_errors")
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := env.auth.Register(registerInput("alice", "new@example.com", "pw", "pw"))
	fields := requireFieldErrors(t, err)
	assert.Equal(t, []string{"A user with that username already exists."}, fields["username"])

	_, err = env.auth.Register(registerInput("alice2", "ALICE@example.com", "pw", "pw"))
	fields = requireFieldErrors(t, err)
	assert.Equal(t, []string{"A user with that email already exists."}, fields["email"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice")

	token, loggedIn, err := env.auth.Login("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), token.Key)

	stored, err := env.users.ByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)

	// A second login reuses the token
	again, _, err := env.auth.Login("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, token.Key, again.Key)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice")

	_, _, err := env.auth.Login("", "s3cret-pass")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	_, _, err = env.auth.Login("alice", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	_, _, err = env.auth.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = env.auth.Login("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.auth.SetUserActive("alice", false))
	_, _, err = env.auth.Login("alice", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Rejected logins never issue a token or stamp last_login
	_, err = env.tokens.ByUserID(user.ID)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	stored, err := env.users.ByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastLogin)
}

func TestDummyPasswordHash(t *testing.T) {
	hash := dummyPasswordHash()

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.Equal(t, hash, dummyPasswordHash())

	env := newTestEnv(t)
	assert.Error(t, env.auth.ComparePassword("s3cret-pass", hash))
}

// blockingMailer holds every send until release is closed.
type blockingMailer struct {
	release chan struct{}
	sent    chan string
}

func (m *blockingMailer) SendWelcomeEmail(email, username string) error {
	<-m.release
	m.sent <- email
	return errors.New("smtp unavailable")
}

func TestRegisterSendsWelcomeEmailInBackground(t *testing.T) {
	env := newTestEnv(t)
	mailer := &blockingMailer{release: make(chan struct{}), sent: make(chan string, 1)}
	auth := NewAuthService(env.users, env.tokens, mailer)

	// Register returns while the email is still pending
	user, err := auth.Register(registerInput("alice", "alice@example.com", "s3cret-pass", "s3cret-pass"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	close(mailer.release)
	select {
	case to := <-mailer.sent:
		assert.Equal(t, "alice@example.com", to)
	case <-time.After(5 * time.Second):
		t.Fatal("welcome email was never sent")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	token, _, err := env.auth.Login("alice", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = env.auth.Authenticate(token.Key)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(token.Key))

	_, _, err = env.auth.Authenticate(token.Key)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, env.auth.Logout(token.Key), ErrInvalidToken)

	fresh, _, err := env.auth.Login("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, token.Key, fresh.Key)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice")

	token, _, err := env.auth.Login("alice", "s3cret-pass")
	require.NoError(t, err)

	got, gotToken, err := env.auth.Authenticate(token.Key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, token.Key, gotToken.Key)

	_, _, err = env.auth.Authenticate("unknown")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, env.auth.SetUserActive("alice", false))
	_, _, err = env.auth.Authenticate(token.Key)
	assert.ErrorIs(t, err, ErrUserInactive)

	current, err := env.auth.CurrentUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)
}

func TestGenerateToken(t *testing.T) {
	env := newTestEnv(t)

	seen := map[string]bool{}
	for range 50 {
		key, err := env.auth.GenerateToken()
		require.NoError(t, err)
		assert.Len(t, key, 40)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

// racingTokens loses the insert race once: the first lookup misses, the insert hits
// the unique constraint, and the re-read finds the winner's token.
type racingTokens struct {
	repository.TokenRepository
	winner  *model.Token
	lookups int
}

func (r *racingTokens) ByUserID(userID string) (*model.Token, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, repository.ErrTokenNotFound
	}
	return r.winner, nil
}

func (r *racingTokens) Create(token *model.Token) error {
	return repository.ErrDuplicateToken
}

func TestLoginConcurrentTokenCreation(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice")

	tokens := &racingTokens{
		TokenRepository: env.tokens,
		winner:          &model.Token{Key: "winner", UserID: user.ID, CreatedAt: time.Now()},
	}
	auth := NewAuthService(env.users, tokens, nil)

	token, _, err := auth.Login("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "winner", token.Key)
	assert.Equal(t, 2, tokens.lookups)
}

type failingLastLogin struct {
	repository.UserRepository
}

func (failingLastLogin) UpdateLastLogin(string, time.Time) error {
	return errors.New("disk I/O error")
}

func TestLoginFailureAfterAuthentication(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	auth := NewAuthService(failingLastLogin{env.users}, env.tokens, nil)

	_, _, err := auth.Login("alice", "s3cret-pass")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
