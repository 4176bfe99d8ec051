package providers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultRequestTimeout bounds provider API calls when the caller's context has no deadline.
const DefaultRequestTimeout = 30 * time.Second

// EnsureContextTimeout ensures the context has a deadline, adding one if needed.
// Returns a new context with timeout and a cancel function that should be deferred.
// If the context already has a deadline, returns the original context with a no-op cancel.
func EnsureContextTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// BearerClient returns an HTTP client that authenticates every request with accessToken.
// The returned client reuses httpClient's transport.
func BearerClient(ctx context.Context, httpClient *http.Client, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// IsSuccess reports whether status is a 2xx HTTP status code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
