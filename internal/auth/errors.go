package auth

import "errors"

// Sign-in failure modes. All are recovered locally by re-rendering the
// sign-in prompt; none crashes the request handler.
var (
	// ErrTokenInvalid is returned when the provider's token-info endpoint
	// reports an error for the presented access token. Tokens are validated
	// once and never retried.
	ErrTokenInvalid = errors.New("access token rejected by provider")

	// ErrNotAuthorized is returned when a valid token resolves to an email
	// that is not in the allow-list. No session is created for such users.
	ErrNotAuthorized = errors.New("email not authorized")

	// ErrProviderUnavailable is returned when the identity provider cannot
	// be reached or answers with an unparseable response. Callers may treat
	// it as retryable.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)
