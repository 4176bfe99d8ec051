// Package providers defines the interface for OAuth identity providers and the
// option, token and user types shared by every provider implementation.
package providers

import (
	"context"
)

// Provider defines the interface for OAuth identity providers.
// A provider builds the authorization redirect, exchanges the authorization code
// and fetches the authenticated user. It holds no per-request state.
type Provider interface {
	// Name returns the provider name (e.g., "linkedin")
	Name() string

	// AuthorizationURL builds the URL the user is redirected to for consent.
	// It performs no I/O and fails with *ConfigError when required options are missing.
	AuthorizationURL(opts Options) (string, error)

	// ExchangeCode exchanges an authorization code for tokens.
	// An error reported by the token endpoint is returned as *TokenError.
	ExchangeCode(ctx context.Context, code string, opts Options) (*TokenResponse, error)

	// GetUser fetches the user the access token belongs to.
	// opts supplies the user agent and the logging handle for the call.
	GetUser(ctx context.Context, accessToken string, opts Options) (User, error)
}

// User is a provider-shaped user record that can be normalized into a SimplifiedUser.
type User interface {
	Simplified() SimplifiedUser
}

// SimplifiedUser is the normalized, provider-agnostic user record.
// ID, FirstName, LastName and FullName are always present, possibly empty.
type SimplifiedUser struct {
	// ID is the unique user identifier from the provider
	ID string `json:"id"`

	// FirstName is the user's given name
	FirstName string `json:"firstName"`

	// LastName is the user's family name
	LastName string `json:"lastName"`

	// Email is the user's email address, omitted when the provider did not return one
	Email string `json:"email,omitempty"`

	// FullName is the display name of the user
	FullName string `json:"fullName"`

	// ProfilePicture is the URL of the profile picture, null when unknown
	ProfilePicture *string `json:"profilePicture"`
}
