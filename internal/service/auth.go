package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/metrics"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken    = "A user with that username already exists."
	msgEmailTaken       = "A user with that email already exists."
	msgPasswordMismatch = "Passwords don't match"
)

// RegisterInput is the registration payload. Fields are tri-state so a missing key
// and an empty string produce different messages.
type RegisterInput struct {
	Username        model.Field[string] `json:"username"`
	Email           model.Field[string] `json:"email"`
	Password        model.Field[string] `json:"password"`
	PasswordConfirm model.Field[string] `json:"password_confirm"`
}

// WelcomeMailer sends the post-registration email. *EmailService implements it.
type WelcomeMailer interface {
	SendWelcomeEmail(email, username string) error
}

type AuthService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	emailService    WelcomeMailer
}

// NewAuthService wires the auth service. emailService may be nil to skip welcome emails.
func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService WelcomeMailer,
) *AuthService {
	return &AuthService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		emailService:    emailService,
	}
}

// Register creates an active user. No token is issued; the client logs in afterwards.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	errs := validation.FieldErrors{}

	username := requiredString(errs, "username", input.Username, true)
	email := requiredString(errs, "email", input.Email, true)
	password := requiredString(errs, "password", input.Password, false)
	passwordConfirm := requiredString(errs, "password_confirm", input.PasswordConfirm, false)

	if _, failed := errs["username"]; !failed {
		err := validation.ValidateUsername(username)
		if err != nil {
			errs.Add("username", err.Error())
		} else {
			exists, err := s.userRepository.ExistsByUsername(username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if exists {
				errs.Add("username", msgUsernameTaken)
			}
		}
	}

	if _, failed := errs["email"]; !failed {
		err := validation.ValidateEmail(email)
		if err != nil {
			errs.Add("email", err.Error())
		} else {
			exists, err := s.userRepository.ExistsByEmail(email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				errs.Add("email", msgEmailTaken)
			}
		}
	}

	if _, failed := errs["password"]; !failed {
		err := validation.ValidatePassword(password)
		if err != nil {
			errs.Add("password", err.Error())
		}
	}

	if !errs.Empty() {
		return nil, newValidationError(errs)
	}

	if password != passwordConfirm {
		errs.Add("non_field_errors", msgPasswordMismatch)
		return nil, newValidationError(errs)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(user)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		errs.Add("username", msgUsernameTaken)
		return nil, newValidationError(errs)
	}
	if errors.Is(err, repository.ErrDuplicateEmail) {
		errs.Add("email", msgEmailTaken)
		return nil, newValidationError(errs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.RecordRegistration()

	if s.emailService != nil {
		go s.sendWelcomeEmail(user)
	}

	return user, nil
}

// sendWelcomeEmail runs off the request path; a failure is only logged.
func (s *AuthService) sendWelcomeEmail(user *model.User) {
	err := s.emailService.SendWelcomeEmail(user.Email, user.Username)
	if err != nil {
		slog.Error("failed to send welcome email", "error", err, "user_id", user.ID)
	}
}

// Login checks credentials, stamps last_login and returns the user's token,
// creating it on first login.
func (s *AuthService) Login(username, password string) (*model.Token, *model.User, error) {
	if username == "" || password == "" {
		return nil, nil, ErrCredentialsRequired
	}

	user, err := s.userRepository.ByUsername(username)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Pay the same hashing cost as a known user so response time does not reveal
		// which usernames exist.
		_ = s.ComparePassword(password, dummyPasswordHash())
		s.loginRejected(username, "unknown username")
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordLogin(metrics.LoginError)
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		s.loginRejected(username, "wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.loginRejected(username, "inactive user")
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	err = s.userRepository.UpdateLastLogin(user.ID, now)
	if err != nil {
		metrics.RecordLogin(metrics.LoginError)
		return nil, nil, fmt.Errorf("%w: update last login: %w", ErrLoginFailed, err)
	}
	user.LastLogin = &now

	token, err := s.tokenFor(user.ID)
	if err != nil {
		metrics.RecordLogin(metrics.LoginError)
		return nil, nil, fmt.Errorf("%w: issue token: %w", ErrLoginFailed, err)
	}

	metrics.RecordLogin(metrics.LoginSuccess)
	slog.Info("user logged in", "user_id", user.ID)

	return token, user, nil
}

func (s *AuthService) loginRejected(username, reason string) {
	metrics.RecordLogin(metrics.LoginInvalid)
	slog.Warn("login rejected", "username", username, "reason", reason)
}

// tokenFor returns the user's existing token or creates one. A concurrent login may
// insert first; the unique constraint on user_id turns that into a re-read.
func (s *AuthService) tokenFor(userID string) (*model.Token, error) {
	token, err := s.tokenRepository.ByUserID(userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, repository.ErrTokenNotFound) {
		return nil, err
	}

	key, err := s.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token = &model.Token{
		Key:       key,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	err = s.tokenRepository.Create(token)
	if errors.Is(err, repository.ErrDuplicateToken) {
		return s.tokenRepository.ByUserID(userID)
	}
	if err != nil {
		return nil, err
	}

	return token, nil
}

// Logout revokes the token the request authenticated with.
func (s *AuthService) Logout(key string) error {
	err := s.tokenRepository.DeleteByKey(key)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Authenticate resolves a token key to its active owner.
func (s *AuthService) Authenticate(key string) (*model.User, *model.Token, error) {
	token, err := s.tokenRepository.ByKey(key)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get token: %w", err)
	}

	user, err := s.userRepository.ByID(token.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, ErrUserInactive
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	return user, token, nil
}

func (s *AuthService) CurrentUser(userID string) (*model.User, error) {
	return s.userRepository.ByID(userID)
}

// SetUserActive enables or disables a user. An inactive user can neither log in nor
// authenticate with an existing token.
func (s *AuthService) SetUserActive(username string, active bool) error {
	err := s.userRepository.SetActive(username, active)
	if err != nil {
		return fmt.Errorf("failed to set active=%t for %q: %w", active, username, err)
	}
	slog.Info("user active flag changed", "username", username, "active", active)
	return nil
}

// dummyPasswordHash is built once, at the default cost, on the first login for an
// unknown username.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("fittrack-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to build dummy password hash: %v", err))
	}
	return string(hash)
})

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateToken returns a 40 character hex key.
func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 20)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// requiredString reads a required text field, recording a message when it is absent,
// null or (after trimming, if trim is set) empty.
func requiredString(errs validation.FieldErrors, name string, field model.Field[string], trim bool) string {
	if !field.Set {
		errs.Add(name, validation.MsgRequired)
		return ""
	}
	if field.Value == nil {
		errs.Add(name, validation.MsgNull)
		return ""
	}

	value := *field.Value
	if trim {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		errs.Add(name, validation.MsgBlank)
	}
	return value
}
