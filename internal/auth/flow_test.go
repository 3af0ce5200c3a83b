package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationURL(t *testing.T) {
	f := NewFlow("client-123", NewDirectory(nil))

	raw := f.AuthorizationURL("https://app.example/oauth2callback", "/reports?week=2")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "/o/oauth2/auth", u.Path)

	q := u.Query()
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "https://app.example/oauth2callback", q.Get("redirect_uri"))
	assert.Equal(t, ScopeEmail, q.Get("scope"))
	assert.Equal(t, "/reports?week=2", q.Get("state"), "return path is echoed as state")
	assert.Contains(t, raw, "state=%2Freports%3Fweek%3D2", "state value is URL-encoded")
}

func TestAuthorizationURLDefaultsState(t *testing.T) {
	f := NewFlow("client-123", NewDirectory(nil))

	u, err := url.Parse(f.AuthorizationURL("https://app.example/oauth2callback", ""))
	require.NoError(t, err)
	assert.Equal(t, "/", u.Query().Get("state"), "missing return path defaults to /")
}

// fakeProvider stands in for the Google token-info and user-info endpoints.
type fakeProvider struct {
	tokenInfoBody string
	userInfoBody  string
	userInfoCalls atomic.Int32
	lastAuth      string
	lastToken     string
}

func (p *fakeProvider) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tokeninfo", func(w http.ResponseWriter, r *http.Request) {
		p.lastToken = r.URL.Query().Get("access_token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(p.tokenInfoBody))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		p.userInfoCalls.Add(1)
		p.lastAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(p.userInfoBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestFlow(t *testing.T, p *fakeProvider, emails ...string) *Flow {
	t.Helper()
	srv := p.start(t)
	f := NewFlow("client-123", NewDirectory(emails))
	f.TokenInfoURL = srv.URL + "/tokeninfo"
	f.UserInfoURL = srv.URL + "/userinfo"
	return f
}

func TestValidateToken(t *testing.T) {
	provider := &fakeProvider{tokenInfoBody: `{"audience":"client-123","expires_in":3600}`}
	f := newTestFlow(t, provider)

	require.NoError(t, f.ValidateToken(context.Background(), "tok-1"))
	assert.Equal(t, "tok-1", provider.lastToken, "token travels as the access_token query parameter")
}

func TestValidateTokenRejected(t *testing.T) {
	provider := &fakeProvider{tokenInfoBody: `{"error":"invalid_token"}`}
	f := newTestFlow(t, provider)

	err := f.ValidateToken(context.Background(), "tok-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenProviderDown(t *testing.T) {
	f := NewFlow("client-123", NewDirectory(nil))
	f.TokenInfoURL = "http://127.0.0.1:1/tokeninfo"

	err := f.ValidateToken(context.Background(), "tok-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestUserInfo(t *testing.T) {
	provider := &fakeProvider{
		tokenInfoBody: `{}`,
		userInfoBody:  `{"email":"a@x.com","verified_email":true}`,
	}
	f := newTestFlow(t, provider)

	email, err := f.UserInfo(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
	assert.Equal(t, "Bearer tok-1", provider.lastAuth, "token travels as a bearer header")
}

func TestAuthenticate(t *testing.T) {
	t.Run("authorized email", func(t *testing.T) {
		provider := &fakeProvider{
			tokenInfoBody: `{}`,
			userInfoBody:  `{"email":"a@x.com"}`,
		}
		f := newTestFlow(t, provider, "a@x.com", "b@x.com")

		user, err := f.Authenticate(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.ID)
	})

	t.Run("unauthorized email", func(t *testing.T) {
		provider := &fakeProvider{
			tokenInfoBody: `{}`,
			userInfoBody:  `{"email":"intruder@x.com"}`,
		}
		f := newTestFlow(t, provider, "a@x.com")

		_, err := f.Authenticate(context.Background(), "tok-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Contains(t, err.Error(), "intruder@x.com", "rejected email is reported")
	})

	t.Run("invalid token short-circuits before user-info", func(t *testing.T) {
		provider := &fakeProvider{
			tokenInfoBody: `{"error":"invalid_token"}`,
			userInfoBody:  `{"email":"a@x.com"}`,
		}
		f := newTestFlow(t, provider, "a@x.com")

		_, err := f.Authenticate(context.Background(), "tok-1")
		require.ErrorIs(t, err, ErrTokenInvalid)
		assert.Zero(t, provider.userInfoCalls.Load(), "user-info must not be called after a failed validation")
	})
}
