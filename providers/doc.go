// Package providers defines the OAuth provider interface and the types shared by
// provider implementations.
//
// This package contains:
//   - Provider: redirect URL, code exchange and user fetch for one identity provider
//   - Options: per-request configuration (client credentials, scopes, state, logging)
//   - TokenResponse: the token endpoint body, kept verbatim
//   - SimplifiedUser: the normalized user record every provider produces
//   - ConfigError, TokenError, ProviderGetUserError: the error taxonomy
//
// Implementations are provided in subpackages:
//   - providers/linkedin: LinkedIn OAuth 2.0 (OpenID Connect and legacy v2 API)
//   - providers/mock: Mock provider for testing
//
// Errors are inspected with errors.As:
//
//	var tokenErr *providers.TokenError
//	if errors.As(err, &tokenErr) {
//	    log.Printf("token endpoint rejected the code: %s", tokenErr.Message)
//	}
package providers
