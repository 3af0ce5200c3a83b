package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Google API endpoints. The authorization endpoint comes from
// golang.org/x/oauth2/google; these two are the legacy v1/v2 endpoints the
// implicit grant uses.
const (
	tokenInfoEndpoint = "https://www.googleapis.com/oauth2/v1/tokeninfo"
	userInfoEndpoint  = "https://www.googleapis.com/oauth2/v2/userinfo"

	// ScopeEmail is the only scope requested: the email claim is the sole
	// authorization input.
	ScopeEmail = "https://www.googleapis.com/auth/userinfo.email"
)

// The provider calls are plain request/response exchanges; a hung provider
// must not hang the request handler, so both carry a bounded timeout.
const providerTimeout = 10 * time.Second

// Flow holds everything needed to drive the implicit-grant sign-in dance:
// URL construction, token validation, user-info retrieval and the final
// allow-list check.
type Flow struct {
	// ClientID is the OAuth2 client ID of this application, supplied
	// externally at bootstrap.
	ClientID string

	// HTTPClient performs the outbound provider calls.
	HTTPClient *http.Client

	// Endpoint is the provider authorization endpoint.
	Endpoint oauth2.Endpoint

	// TokenInfoURL and UserInfoURL may be overridden in tests to point at a
	// fake provider.
	TokenInfoURL string
	UserInfoURL  string

	// Directory is the allow-list consulted after token validation.
	Directory *Directory
}

// NewFlow creates a Flow wired to the real Google endpoints.
func NewFlow(clientID string, directory *Directory) *Flow {
	return &Flow{
		ClientID:     clientID,
		HTTPClient:   &http.Client{Timeout: providerTimeout},
		Endpoint:     google.Endpoint,
		TokenInfoURL: tokenInfoEndpoint,
		UserInfoURL:  userInfoEndpoint,
		Directory:    directory,
	}
}

// AuthorizationURL constructs the provider authorization URL for the
// implicit grant. returnPath travels as the OAuth state parameter and is the
// path the user is redirected to after a successful sign-in; it defaults to
// "/" when empty. All parameter values are URL-encoded.
func (f *Flow) AuthorizationURL(redirectURI, returnPath string) string {
	if returnPath == "" {
		returnPath = "/"
	}
	conf := &oauth2.Config{
		ClientID:    f.ClientID,
		Endpoint:    f.Endpoint,
		RedirectURL: redirectURI,
		Scopes:      []string{ScopeEmail},
	}
	// The implicit grant returns the token directly in the redirect
	// fragment, so response_type is "token" rather than the default "code".
	return conf.AuthCodeURL(returnPath, oauth2.SetAuthURLParam("response_type", "token"))
}

// tokenInfo is the subset of the provider's token-info response we care
// about: the presence of an error field means the token is dead.
type tokenInfo struct {
	Error string `json:"error"`
}

// ValidateToken checks token liveness against the provider's token-info
// endpoint. A response containing an error field yields ErrTokenInvalid; a
// transport failure yields ErrProviderUnavailable.
func (f *Flow) ValidateToken(ctx context.Context, token string) error {
	u := f.TokenInfoURL + "?access_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building token-info request: %w", err)
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: token-info: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("%w: decoding token-info response: %v", ErrProviderUnavailable, err)
	}
	if info.Error != "" {
		return fmt.Errorf("%w: %s", ErrTokenInvalid, info.Error)
	}
	return nil
}

// UserInfo fetches the email claim associated with the token. It must only
// be called for tokens that passed ValidateToken.
func (f *Flow) UserInfo(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.UserInfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("building user-info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: user-info: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("%w: decoding user-info response: %v", ErrProviderUnavailable, err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("%w: user-info response carries no email claim", ErrProviderUnavailable)
	}
	return info.Email, nil
}

// Authenticate runs the token-capture sequence: validate the token, fetch
// the email it belongs to, and look that email up in the directory. The two
// provider calls are sequential and a validation failure short-circuits
// before user-info is attempted. On an allow-list miss the rejected email is
// attached to ErrNotAuthorized so callers can log it.
func (f *Flow) Authenticate(ctx context.Context, token string) (User, error) {
	if err := f.ValidateToken(ctx, token); err != nil {
		return User{}, err
	}
	email, err := f.UserInfo(ctx, token)
	if err != nil {
		return User{}, err
	}
	user, ok := f.Directory.Lookup(email)
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrNotAuthorized, email)
	}
	return user, nil
}
