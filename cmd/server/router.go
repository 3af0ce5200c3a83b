package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/carbonforge/plinth/internal/api"
	"github.com/carbonforge/plinth/internal/api/middleware"
)

// setupRouter wires the middleware chain and the route table.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace(app.logger))
	r.Use(app.sessions.LoadAndSave)

	// Sign-in sequence. These routes stay usable when the database is down,
	// so they run without a request session.
	r.Get(api.PathSignIn, app.signIn.SignIn)
	r.Get(api.PathOAuth2Callback, app.signIn.OAuth2Callback)
	r.Get(api.PathCatchToken, app.signIn.CatchToken)
	r.Get(api.PathSignOut, app.signIn.SignOut)

	// Application routes get a database session per request, torn down
	// (committed or rolled back) when the handler returns.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSession(app.project.Sessions, app.config.Project.CommitOnTeardown))
		r.Get("/", app.home)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// home is the skeleton's landing page: anonymous visitors are sent to the
// sign-in prompt, authenticated ones get a stub page the generated project
// replaces.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	email, ok := app.signIn.CurrentEmail(r)
	if !ok {
		http.Redirect(w, r, api.PathSignIn+"?next=/", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s: signed in as %s\n", app.config.Project.Name, email)
}
