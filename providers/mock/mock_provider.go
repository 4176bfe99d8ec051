// Package mock provides mock implementations of the Provider interface for testing.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/giantswarm/linkedin-oauth/providers"
)

// Compile-time check that MockProvider implements the providers.Provider interface.
var _ providers.Provider = (*MockProvider)(nil)

// MockUser is a providers.User that carries only its simplified form.
type MockUser struct {
	SimplifiedUser providers.SimplifiedUser `json:"simplified"`
}

// Simplified returns the simplified user
func (u *MockUser) Simplified() providers.SimplifiedUser {
	return u.SimplifiedUser
}

// MockProvider is a mock implementation of the Provider interface for testing
type MockProvider struct {
	// NameFunc is called when Name() is invoked
	NameFunc func() string

	// AuthorizationURLFunc is called when AuthorizationURL() is invoked
	AuthorizationURLFunc func(opts providers.Options) (string, error)

	// ExchangeCodeFunc is called when ExchangeCode() is invoked
	ExchangeCodeFunc func(ctx context.Context, code string, opts providers.Options) (*providers.TokenResponse, error)

	// GetUserFunc is called when GetUser() is invoked
	GetUserFunc func(ctx context.Context, accessToken string, opts providers.Options) (providers.User, error)

	// CallCounts tracks how many times each method was called
	CallCounts map[string]int

	// mu protects CallCounts from concurrent access
	mu sync.RWMutex
}

// NewMockProvider creates a new mock provider with default implementations
func NewMockProvider() *MockProvider {
	return &MockProvider{
		CallCounts: make(map[string]int),
		NameFunc: func() string {
			return "mock"
		},
		AuthorizationURLFunc: func(opts providers.Options) (string, error) {
			if opts.ClientID == "" {
				return "", &providers.ConfigError{Message: "No client id passed"}
			}
			return fmt.Sprintf("https://mock.example.com/authorize?client_id=%s&state=%s", opts.ClientID, opts.State), nil
		},
		ExchangeCodeFunc: func(ctx context.Context, code string, opts providers.Options) (*providers.TokenResponse, error) {
			return &providers.TokenResponse{
				AccessToken: "mock-access-token",
				ExpiresIn:   3600,
				Raw: map[string]any{
					"access_token": "mock-access-token",
					"expires_in":   float64(3600),
				},
			}, nil
		},
		GetUserFunc: func(ctx context.Context, accessToken string, opts providers.Options) (providers.User, error) {
			return &MockUser{SimplifiedUser: providers.SimplifiedUser{
				ID:        "mock-user-123",
				FirstName: "Mock",
				LastName:  "User",
				Email:     "mock@example.com",
				FullName:  "Mock User",
			}}, nil
		},
	}
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	// Release the lock before calling the user function; it may call other mock methods.
	m.mu.Lock()
	m.CallCounts["Name"]++
	fn := m.NameFunc
	m.mu.Unlock()

	if fn == nil {
		return "mock"
	}
	return fn()
}

// AuthorizationURL builds the URL to redirect users to for authentication
func (m *MockProvider) AuthorizationURL(opts providers.Options) (string, error) {
	m.mu.Lock()
	m.CallCounts["AuthorizationURL"]++
	fn := m.AuthorizationURLFunc
	m.mu.Unlock()
	if fn == nil {
		return "https://mock.example.com/authorize?state=" + opts.State, nil
	}
	return fn(opts)
}

// ExchangeCode exchanges an authorization code for tokens
func (m *MockProvider) ExchangeCode(ctx context.Context, code string, opts providers.Options) (*providers.TokenResponse, error) {
	m.mu.Lock()
	m.CallCounts["ExchangeCode"]++
	fn := m.ExchangeCodeFunc
	m.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("ExchangeCodeFunc not configured")
	}
	return fn(ctx, code, opts)
}

// GetUser returns the user the access token belongs to
func (m *MockProvider) GetUser(ctx context.Context, accessToken string, opts providers.Options) (providers.User, error) {
	m.mu.Lock()
	m.CallCounts["GetUser"]++
	fn := m.GetUserFunc
	m.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("GetUserFunc not configured")
	}
	return fn(ctx, accessToken, opts)
}

// ResetCallCounts resets all call counters
func (m *MockProvider) ResetCallCounts() {
	m.mu.Lock()
	m.CallCounts = make(map[string]int)
	m.mu.Unlock()
}

// GetCallCount returns the number of times a method was called
func (m *MockProvider) GetCallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.CallCounts[method]
}
