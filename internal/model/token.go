package model

import (
	"time"
)

// Token is the single opaque API credential a user holds between login and logout.
type Token struct {
	Key       string    `db:"key"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
