package providers

// Messages used when the upstream response carries no better description.
const (
	DefaultTokenErrorMessage   = "Failed to get access token"
	DefaultGetUserErrorMessage = "There was an error fetching the user"
)

// ConfigError reports missing required input, such as the client ID or the
// authorization code.
type ConfigError struct {
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return e.Message
}

// TokenError reports an error returned by the provider's token endpoint.
type TokenError struct {
	// Code is the upstream OAuth error code (e.g., "invalid_grant")
	Code string

	// Message is the upstream error_description, or DefaultTokenErrorMessage
	Message string
}

// Error implements the error interface
func (e *TokenError) Error() string {
	return e.Message
}

// ProviderGetUserError reports any failure while fetching or parsing user data.
// The message is always generic; the underlying cause is only reachable through
// errors.Unwrap so it never leaks into responses built from Error().
type ProviderGetUserError struct {
	Message string
	cause   error
}

// NewProviderGetUserError wraps cause in a ProviderGetUserError with the default message.
func NewProviderGetUserError(cause error) *ProviderGetUserError {
	return &ProviderGetUserError{
		Message: DefaultGetUserErrorMessage,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ProviderGetUserError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *ProviderGetUserError) Unwrap() error {
	return e.cause
}
