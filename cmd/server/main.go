// Command server boots a scaffolded application: it loads the project
// configuration, assembles the project (database, task runner, user
// directory), and serves the sign-in flow plus the hosted application
// routes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/carbonforge/plinth/internal/config"
	"github.com/carbonforge/plinth/internal/platform/logger"
	"github.com/carbonforge/plinth/internal/project"
)

func main() {
	var configFile string
	pflag.StringVar(&configFile, "config", "project.cfg", "path to the project configuration file")
	pflag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		// Configuration failures are fatal: the process must not serve
		// traffic on a broken config.
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	if cfg.Auth.ClientID == "" {
		fmt.Fprintln(os.Stderr, "ERROR: PLINTH_OAUTH_CLIENT_ID environment variable must be set")
		os.Exit(2)
	}

	log := logger.Setup(cfg.Server)
	ctx := context.Background()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	if err := project.Register(app.project); err != nil {
		log.Error("failed to register project", "error", err)
		app.cleanup()
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
