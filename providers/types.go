package providers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// Options holds the per-request configuration supplied by the caller.
type Options struct {
	// ClientID is the OAuth client ID (required for the redirect)
	ClientID string

	// ClientSecret is the OAuth client secret
	ClientSecret string

	// RedirectURL is the OAuth callback URL.
	// Kept for backward compatibility; RedirectTo takes precedence when building the redirect.
	RedirectURL string

	// RedirectTo is the OAuth callback URL used by the authorization redirect.
	RedirectTo string

	// Scope lists the requested scopes in order. Empty means the provider default.
	Scope []string

	// ResponseType is the OAuth response type (default: "code")
	ResponseType string

	// State is the opaque CSRF state forwarded to the provider, if any
	State string

	// UserAgent overrides the User-Agent sent to the provider's user endpoints
	UserAgent string

	// IsLogEnabled enables diagnostic logging for the call
	IsLogEnabled bool

	// Logger receives diagnostic log lines when IsLogEnabled is set.
	// Falls back to slog.Default() when nil.
	Logger *slog.Logger
}

// ResolveLogger returns the logger diagnostic lines for this call are written to.
// Logging disabled yields a logger that discards everything.
func (o Options) ResolveLogger() *slog.Logger {
	if !o.IsLogEnabled {
		return slog.New(slog.DiscardHandler)
	}
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// CallbackURL returns the redirect URI for the authorization request.
func (o Options) CallbackURL() string {
	if o.RedirectTo != "" {
		return o.RedirectTo
	}
	return o.RedirectURL
}

// TokenResponse is the token endpoint response.
// The decoded body is kept verbatim in Raw and is what MarshalJSON emits.
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type,omitempty"`
	ExpiresIn             int64  `json:"expires_in,omitempty"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in,omitempty"`
	Scope                 string `json:"scope,omitempty"`
	IDToken               string `json:"id_token,omitempty"`
	Error                 string `json:"error,omitempty"`
	ErrorDescription      string `json:"error_description,omitempty"`

	// Raw is the decoded response body
	Raw map[string]any `json:"-"`
}

// ParseTokenResponse decodes a token endpoint body without validating its schema.
// Known fields are read leniently; anything else stays in Raw.
// The body must be a JSON object or null: an array or a bare scalar is a decode error.
func ParseTokenResponse(body []byte) (*TokenResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	return &TokenResponse{
		AccessToken:           stringField(raw, "access_token"),
		TokenType:             stringField(raw, "token_type"),
		ExpiresIn:             intField(raw, "expires_in"),
		RefreshToken:          stringField(raw, "refresh_token"),
		RefreshTokenExpiresIn: intField(raw, "refresh_token_expires_in"),
		Scope:                 stringField(raw, "scope"),
		IDToken:               stringField(raw, "id_token"),
		Error:                 errorField(raw),
		ErrorDescription:      stringField(raw, "error_description"),
		Raw:                   raw,
	}, nil
}

// MarshalJSON emits the verbatim response body when available.
func (t *TokenResponse) MarshalJSON() ([]byte, error) {
	if t.Raw != nil {
		return json.Marshal(t.Raw)
	}
	type plain TokenResponse
	return json.Marshal((*plain)(t))
}

// Token converts the response into a standard oauth2.Token.
// The raw body is attached so Extra("id_token") and friends keep working.
func (t *TokenResponse) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		tok.ExpiresIn = t.ExpiresIn
		tok.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	if t.Raw != nil {
		return tok.WithExtra(t.Raw)
	}
	return tok
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func intField(raw map[string]any, key string) int64 {
	switch v := raw[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// errorField returns the error code when the body reports one.
// Any truthy value counts; non-string values are reported as "unknown_error".
func errorField(raw map[string]any) string {
	switch v := raw["error"].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "unknown_error"
		}
		return ""
	case float64:
		if v != 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return ""
	default:
		return "unknown_error"
	}
}
