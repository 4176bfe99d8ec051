package oauth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/giantswarm/linkedin-oauth/providers"
)

// OAuth error codes as constants
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeInvalidGrant   = "invalid_grant"
	ErrorCodeServerError    = "server_error"
	ErrorCodeAccessDenied   = "access_denied"
)

// OAuthError represents an OAuth 2.0 error response
type OAuthError struct {
	Code        string // OAuth error code (e.g., "invalid_request", "invalid_grant")
	Description string // Human-readable error description
	Status      int    // HTTP status code
}

// Error implements the error interface
func (e *OAuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewOAuthError creates a new OAuth error
func NewOAuthError(code, description string, status int) *OAuthError {
	return &OAuthError{
		Code:        code,
		Description: description,
		Status:      status,
	}
}

// Common OAuth errors as reusable constructors
var (
	// ErrInvalidRequest indicates the request is malformed or missing required parameters
	ErrInvalidRequest = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeInvalidRequest, desc, http.StatusBadRequest)
	}

	// ErrInvalidGrant indicates the authorization code is invalid or expired
	ErrInvalidGrant = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeInvalidGrant, desc, http.StatusBadRequest)
	}

	// ErrServerError indicates an internal server error occurred
	ErrServerError = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeServerError, desc, http.StatusInternalServerError)
	}

	// ErrUpstream indicates LinkedIn could not be reached or returned unusable data
	ErrUpstream = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeServerError, desc, http.StatusBadGateway)
	}
)

// ErrorFromProviderError maps an error from the login flow onto an OAuth error response.
//
//   - *providers.ConfigError becomes 400 invalid_request
//   - *providers.TokenError becomes 400 with the upstream code (invalid_grant when empty)
//   - *providers.ProviderGetUserError becomes 502 server_error
//   - an *OAuthError is returned as is
//   - anything else becomes 500 server_error with a generic description
func ErrorFromProviderError(err error) *OAuthError {
	if err == nil {
		return nil
	}

	var oauthErr *OAuthError
	if errors.As(err, &oauthErr) {
		return oauthErr
	}

	var cfgErr *providers.ConfigError
	if errors.As(err, &cfgErr) {
		return ErrInvalidRequest(cfgErr.Message)
	}

	var tokenErr *providers.TokenError
	if errors.As(err, &tokenErr) {
		code := tokenErr.Code
		if code == "" {
			code = ErrorCodeInvalidGrant
		}
		return NewOAuthError(code, tokenErr.Message, http.StatusBadRequest)
	}

	var userErr *providers.ProviderGetUserError
	if errors.As(err, &userErr) {
		return ErrUpstream(userErr.Message)
	}

	return ErrServerError("Authorization failed")
}
