package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// uniqueViolation reports whether err is a unique constraint violation and, when it can
// tell, which column caused it. It understands PostgreSQL (pgx) and SQLite messages.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		// Postgres names them <table>_<column>_key / <table>_pkey
		name := strings.TrimSuffix(pgErr.ConstraintName, "_key")
		name = strings.TrimSuffix(name, "_pkey")
		_, column, found := strings.Cut(name, "_")
		if !found {
			return "", true
		}
		return column, true
	}

	// SQLite: "UNIQUE constraint failed: users.username (2067)"
	msg := err.Error()
	_, rest, found := strings.Cut(msg, "UNIQUE constraint failed: ")
	if !found {
		if strings.Contains(msg, "duplicate key value") {
			return "", true
		}
		return "", false
	}
	rest, _, _ = strings.Cut(rest, " ")
	_, column, _ := strings.Cut(rest, ".")
	return column, true
}
