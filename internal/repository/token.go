package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var (
	ErrTokenNotFound  = errors.New("token not found")
	ErrDuplicateToken = errors.New("token already exists")
)

type TokenRepository interface {
	Create(token *model.Token) error
	ByKey(key string) (*model.Token, error)
	ByUserID(userID string) (*model.Token, error)
	DeleteByKey(key string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Create inserts a token. A user holds at most one token, so a second insert for the
// same user fails with ErrDuplicateToken.
func (r *tokenRepository) Create(token *model.Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO tokens (key, user_id, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(query, token.Key, token.UserID, token.CreatedAt)
	if _, ok := uniqueViolation(err); ok {
		return ErrDuplicateToken
	}
	return err
}

func (r *tokenRepository) ByKey(key string) (*model.Token, error) {
	var t model.Token
	err := r.db.Get(&t, `SELECT * FROM tokens WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) ByUserID(userID string) (*model.Token, error) {
	var t model.Token
	err := r.db.Get(&t, `SELECT * FROM tokens WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) DeleteByKey(key string) error {
	result, err := r.db.Exec(`DELETE FROM tokens WHERE key = $1`, key)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTokenNotFound
	}

	return nil
}
