// Package security provides the HTTP hardening used by the login endpoints:
// response security headers, request IDs, login state generation and the state
// cookie, client IP extraction and login audit logging.
//
// # State
//
// ServeLogin stores the state it sends to LinkedIn in a short-lived HttpOnly
// cookie; ServeCallback compares it with the state LinkedIn echoes back using
// StatesEqual (constant time).
//
//	state := security.GenerateState()
//	security.SetStateCookie(w, state, true)
//	...
//	if !security.StatesEqual(security.StateFromCookie(r), r.URL.Query().Get("state")) {
//		// reject
//	}
//
// # Audit logging
//
// The Auditor writes one "security_audit" log line per login event. User IDs
// are hashed (SHA-256, truncated) before they are logged.
package security
