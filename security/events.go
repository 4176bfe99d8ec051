package security

// Event types for login audit logging.
const (
	// EventLoginStarted is logged when the user is redirected to LinkedIn
	EventLoginStarted = "login_started"

	// EventLoginSucceeded is logged when the callback returned a user and tokens
	EventLoginSucceeded = "login_succeeded"

	// EventLoginFailed is logged when the callback failed (upstream error, bad code, user fetch failure)
	EventLoginFailed = "login_failed"

	// EventStateMismatch is logged when the callback state does not match the login state (possible CSRF)
	EventStateMismatch = "state_mismatch"
)
