package security

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Auditor writes login audit events. User IDs are hashed before they are logged.
type Auditor struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditor creates a new login auditor
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		logger:  logger,
		enabled: enabled,
	}
}

// Event is a login audit event
type Event struct {
	Type      string
	UserID    string
	ClientID  string
	IPAddress string
	RequestID string
	Details   map[string]any
	Timestamp time.Time
}

// LogEvent logs an event. A nil Auditor logs nothing.
func (a *Auditor) LogEvent(event Event) {
	if a == nil || !a.enabled {
		return
	}

	event.Timestamp = time.Now()

	a.logger.Info("security_audit",
		"event_type", event.Type,
		"user_id_hash", hashForLogging(event.UserID),
		"client_id", event.ClientID,
		"ip_address", event.IPAddress,
		"request_id", event.RequestID,
		"details", event.Details,
		"timestamp", event.Timestamp,
	)
}

// LogLoginStarted logs a redirect to LinkedIn
func (a *Auditor) LogLoginStarted(clientID, ipAddress, requestID string) {
	a.LogEvent(Event{
		Type:      EventLoginStarted,
		ClientID:  clientID,
		IPAddress: ipAddress,
		RequestID: requestID,
	})
}

// LogLoginSucceeded logs a completed callback
func (a *Auditor) LogLoginSucceeded(userID, clientID, ipAddress, requestID string) {
	a.LogEvent(Event{
		Type:      EventLoginSucceeded,
		UserID:    userID,
		ClientID:  clientID,
		IPAddress: ipAddress,
		RequestID: requestID,
	})
}

// LogLoginFailed logs a failed callback
func (a *Auditor) LogLoginFailed(clientID, ipAddress, requestID, reason string) {
	a.LogEvent(Event{
		Type:      EventLoginFailed,
		ClientID:  clientID,
		IPAddress: ipAddress,
		RequestID: requestID,
		Details: map[string]any{
			"reason": reason,
		},
	})
}

// LogStateMismatch logs a callback whose state did not match the login's
func (a *Auditor) LogStateMismatch(clientID, ipAddress, requestID string) {
	a.LogEvent(Event{
		Type:      EventStateMismatch,
		ClientID:  clientID,
		IPAddress: ipAddress,
		RequestID: requestID,
	})
}

// hashForLogging creates a SHA256 hash of sensitive data for logging
func hashForLogging(sensitive string) string {
	if sensitive == "" {
		return "<empty>"
	}
	hash := sha256.Sum256([]byte(sensitive))
	return hex.EncodeToString(hash[:])[:16]
}
