package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/carbonforge/plinth/internal/api"
	"github.com/carbonforge/plinth/internal/auth"
	"github.com/carbonforge/plinth/internal/config"
	"github.com/carbonforge/plinth/internal/project"
)

// application holds the shared dependencies so startup wiring and shutdown
// cleanup live in one place.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	project  *project.Project
	sessions *scs.SessionManager
	signIn   *api.SignInHandler
}

// newApplication assembles the project and the sign-in flow around it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	pj, err := project.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("assembling project: %w", err)
	}

	sessions := scs.New()
	sessions.IdleTimeout = 15 * time.Minute
	sessions.Lifetime = 6 * time.Hour
	sessions.Cookie.HttpOnly = true

	flow := auth.NewFlow(cfg.Auth.ClientID, pj.Directory)
	signIn := api.NewSignInHandler(flow, sessions, cfg.Server.PublicURL)

	return &application{
		config:   cfg,
		logger:   logger,
		project:  pj,
		sessions: sessions,
		signIn:   signIn,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	return app.startHTTPServer(ctx, router)
}

// cleanup releases the project's resources.
func (app *application) cleanup() {
	if app.project != nil {
		app.project.Close()
	}
	app.logger.Info("application shutdown completed")
}
