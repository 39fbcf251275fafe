package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/config"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	ActivityService *service.ActivityService
	EmailService    *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.DBAutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return NewWithDB(cfg, database), nil
}

// NewWithDB wires repositories and services on an already opened database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	activityRepository := repository.NewActivityRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, tokenRepository, emailService)
	activityService := service.NewActivityService(activityRepository)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		ActivityService: activityService,
		EmailService:    emailService,
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
