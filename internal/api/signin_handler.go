package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/carbonforge/plinth/internal/auth"
	"github.com/carbonforge/plinth/internal/platform/logger"
)

// Session key under which the authenticated email is stored.
const sessionKeyEmail = "userEmail"

// Route paths owned by the sign-in handler.
const (
	PathSignIn         = "/sign_in"
	PathOAuth2Callback = "/oauth2callback"
	PathCatchToken     = "/catch_token"
	PathSignOut        = "/sign_out"
)

// SignInHandler implements the redirect-based Google sign-in sequence.
type SignInHandler struct {
	flow     *auth.Flow
	sessions *scs.SessionManager

	// publicURL, when set, overrides the scheme and host used to build the
	// OAuth callback URL. Otherwise they are derived from the request.
	publicURL string
}

// NewSignInHandler creates the handler for the four sign-in routes.
func NewSignInHandler(flow *auth.Flow, sessions *scs.SessionManager, publicURL string) *SignInHandler {
	return &SignInHandler{
		flow:      flow,
		sessions:  sessions,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SignIn renders the login prompt with a fresh authorization URL. The
// optional next query parameter is the path to return to after sign-in.
func (h *SignInHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	renderPrompt(w, http.StatusOK, promptData{
		Header:    "Welcome!",
		Color:     "primary",
		SignInURL: h.authorizationURL(r, r.URL.Query().Get("next")),
	})
}

// OAuth2Callback receives the provider redirect. The token lives in the URL
// fragment, which the transport never sends to a server, so the response is
// a page of client-side script that forwards the fragment contents as query
// parameters to the token-capture endpoint. The token must not appear in any
// server-observable URL or log produced by this step.
func (h *SignInHandler) OAuth2Callback(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("provider callback received, forwarding fragment to token capture")
	renderForward(w, PathCatchToken)
}

// CatchToken receives the forwarded token as ordinary query parameters and
// runs the sign-in state machine: validate the token, fetch the email it
// belongs to, check the allow-list, then establish the session.
func (h *SignInHandler) CatchToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	token := r.URL.Query().Get("access_token")
	user, err := h.flow.Authenticate(ctx, token)
	switch {
	case err == nil:
		// Established identity: renew the session token before binding it.
		if err := h.sessions.RenewToken(ctx); err != nil {
			log.Error("renewing session token", "error", err)
			http.Error(w, "sign-in failed", http.StatusInternalServerError)
			return
		}
		h.sessions.Put(ctx, sessionKeyEmail, user.ID)
		log.Info("signed in", "email", user.ID)
		http.Redirect(w, r, returnPath(r.URL.Query().Get("state")), http.StatusFound)

	case errors.Is(err, auth.ErrNotAuthorized):
		// Valid token, unknown email. No session is ever created for
		// unauthorized users.
		log.Warn("sign-in rejected", "error", err)
		renderPrompt(w, http.StatusForbidden, promptData{
			Header:    "Unauthorized",
			Color:     "warning",
			SignInURL: h.authorizationURL(r, ""),
		})

	case errors.Is(err, auth.ErrProviderUnavailable):
		log.Error("identity provider unreachable", "error", err)
		http.Error(w, "identity provider unavailable, please retry", http.StatusBadGateway)

	default:
		// Dead or missing token. Tokens are validated once, never retried;
		// the user gets a fresh authorization URL instead.
		log.Warn("access token rejected", "error", err)
		renderPrompt(w, http.StatusUnauthorized, promptData{
			Header:    "Invalid token",
			Color:     "danger",
			SignInURL: h.authorizationURL(r, ""),
		})
	}
}

// SignOut terminates the session when one exists and always renders the
// goodbye prompt. Signing out without a session is a no-op.
func (h *SignInHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sessions.Exists(ctx, sessionKeyEmail) {
		email := h.sessions.GetString(ctx, sessionKeyEmail)
		if err := h.sessions.Destroy(ctx); err != nil {
			logger.FromContext(ctx).Error("destroying session", "error", err)
		} else {
			logger.FromContext(ctx).Info("signed out", "email", email)
		}
	}
	renderPrompt(w, http.StatusOK, promptData{
		Header:    "Goodbye",
		Color:     "success",
		SignInURL: h.authorizationURL(r, ""),
	})
}

// CurrentEmail returns the signed-in email for the request, if any.
func (h *SignInHandler) CurrentEmail(r *http.Request) (string, bool) {
	if !h.sessions.Exists(r.Context(), sessionKeyEmail) {
		return "", false
	}
	return h.sessions.GetString(r.Context(), sessionKeyEmail), true
}

func (h *SignInHandler) authorizationURL(r *http.Request, next string) string {
	return h.flow.AuthorizationURL(h.callbackURL(r), returnPath(next))
}

// callbackURL builds the absolute URL of the provider callback endpoint from
// the configured public URL, or from the request when none is configured.
func (h *SignInHandler) callbackURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL + PathOAuth2Callback
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + PathOAuth2Callback
}

// returnPath normalizes the post-login redirect target. Anything empty or
// not a local path collapses to "/".
func returnPath(state string) string {
	if state == "" || !strings.HasPrefix(state, "/") || strings.HasPrefix(state, "//") {
		return "/"
	}
	return state
}
