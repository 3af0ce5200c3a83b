// Package project assembles the application skeleton: merged configuration,
// database handle and session factory, the authorized-user directory, and
// the background task runner.
package project

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	// Registers the pgx driver with database/sql under the "pgx" name.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/carbonforge/plinth/internal/auth"
	"github.com/carbonforge/plinth/internal/config"
	"github.com/carbonforge/plinth/internal/store"
	"github.com/carbonforge/plinth/internal/task"
)

// Project holds the wired subsystems of one scaffolded application. It is
// constructed once at startup and passed explicitly to whatever needs it;
// its configuration is read-only after construction.
type Project struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	Sessions  *store.SessionFactory
	Directory *auth.Directory
	Runner    *task.Runner
}

// New builds a Project from merged configuration: it connects the database
// engine, applies pending migrations when a migrations directory is
// configured, populates the user directory from the authorized email list,
// and starts the task runner.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Project, error) {
	db, err := openDatabase(ctx, cfg.Engine)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if dir := cfg.Engine.MigrationsDir; dir != "" {
		if err := migrate(ctx, db, dir); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("migrations applied", "dir", dir)
	}

	runner := task.NewRunner(cfg.Task, logger.With("component", "task_runner"))
	runner.Start()

	p := &Project{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Sessions:  store.NewSessionFactory(db),
		Directory: auth.NewDirectory(cfg.Emails()),
		Runner:    runner,
	}
	logger.Info("project assembled",
		"name", cfg.Project.Name,
		"domain", cfg.Domain(),
		"authorized_users", p.Directory.Len())
	return p, nil
}

// Domain returns the project domain derived from configuration.
func (p *Project) Domain() string {
	return p.Config.Domain()
}

// Close releases the project's resources: the task runner first so in-flight
// work can still reach the database, then the database handle.
func (p *Project) Close() {
	if p.Runner != nil {
		p.Runner.Stop()
	}
	if p.DB != nil {
		if err := p.DB.Close(); err != nil {
			p.Logger.Error("closing database", "error", err)
		}
	}
}

func openDatabase(ctx context.Context, cfg config.EngineConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("parsing ENGINE.CONN_MAX_LIFETIME: %w", err)
		}
		db.SetConnMaxLifetime(lifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
