package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/app"
	"github.com/templui/fittrack/internal/config"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/logger"
)

// openDB loads the server configuration and opens its database without migrating.
func openDB() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.AppName, cfg.AppEnv, "")

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, database, nil
}

// openApp is openDB plus the wired services.
func openApp() (*app.App, error) {
	cfg, database, err := openDB()
	if err != nil {
		return nil, err
	}
	return app.NewWithDB(cfg, database), nil
}
