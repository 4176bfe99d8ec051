package security

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// StateCookieName is the cookie that carries the login state to the callback.
	StateCookieName = "linkedin_oauth_state"

	// StateCookieTTL is how long a login may take before its state cookie expires.
	StateCookieTTL = 10 * time.Minute
)

// GenerateState returns an unguessable state value (a random UUID without hyphens).
func GenerateState() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// StatesEqual compares two state values in constant time.
func StatesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SetStateCookie stores state for the callback to verify.
func SetStateCookie(w http.ResponseWriter, state string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(StateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// StateFromCookie returns the state stored by SetStateCookie, or "" when absent.
func StateFromCookie(r *http.Request) string {
	c, err := r.Cookie(StateCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ClearStateCookie expires the state cookie.
func ClearStateCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
