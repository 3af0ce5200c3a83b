package middleware

import (
	"context"
	"net/http"

	"github.com/carbonforge/plinth/internal/platform/logger"
	"github.com/carbonforge/plinth/internal/store"
)

type sessionContextKey struct{}

// RequestSession opens a database session for each request and tears it down
// when the handler returns: committed when commitOnTeardown is set, rolled
// back otherwise. The session is released on every exit path; a teardown
// conflict is logged and surfaces nothing to the client since the response
// has already been written.
func RequestSession(factory *store.SessionFactory, commitOnTeardown bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, err := factory.Open(ctx)
			if err != nil {
				logger.FromContext(ctx).Error("opening request session", "error", err)
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			defer func() {
				if err := sess.Teardown(commitOnTeardown); err != nil {
					logger.FromContext(ctx).Error("request session teardown", "error", err)
				}
			}()

			ctx = context.WithValue(ctx, sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the request's database session, when the
// RequestSession middleware is installed.
func SessionFromContext(ctx context.Context) (*store.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*store.Session)
	return sess, ok
}
