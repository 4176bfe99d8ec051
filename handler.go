package oauth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/giantswarm/linkedin-oauth/instrumentation"
	"github.com/giantswarm/linkedin-oauth/internal/util"
	"github.com/giantswarm/linkedin-oauth/providers"
	"github.com/giantswarm/linkedin-oauth/providers/linkedin"
	"github.com/giantswarm/linkedin-oauth/security"
)

// CallbackResult is the outcome of a successful login: the provider's user record
// and the verbatim token response.
type CallbackResult struct {
	User   providers.User           `json:"user"`
	Tokens *providers.TokenResponse `json:"tokens"`
}

// Handler runs the LinkedIn login flow.
//
// Redirect and Callback are the library entry points and take their options per call.
// ServeLogin and ServeCallback adapt them to net/http using the options the Handler
// was built with.
type Handler struct {
	provider        providers.Provider
	options         providers.Options
	logger          *slog.Logger
	instrumentation *instrumentation.Instrumentation
	tracer          trace.Tracer
	auditor         *security.Auditor

	// TrustProxy makes audit logs use X-Forwarded-For / X-Real-IP for the client IP.
	TrustProxy bool
}

// NewHandler creates a new login handler.
// logger and inst are optional; options.Logger defaults to logger.
func NewHandler(provider providers.Provider, options providers.Options, logger *slog.Logger, inst *instrumentation.Instrumentation) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if inst == nil {
		inst = instrumentation.Disabled()
	}
	if options.Logger == nil {
		options.Logger = logger
	}

	return &Handler{
		provider:        provider,
		options:         options,
		logger:          logger,
		instrumentation: inst,
		tracer:          inst.Tracer("http"),
		auditor:         security.NewAuditor(logger, true),
	}
}

// Redirect returns the LinkedIn authorization URL for opts.
func (h *Handler) Redirect(opts providers.Options) (string, error) {
	authURL, err := h.provider.AuthorizationURL(opts)
	if err != nil {
		return "", err
	}
	h.instrumentation.Metrics().RecordAuthorizationStarted(context.Background(), h.provider.Name(), providerVariant(h.provider))
	return authURL, nil
}

// Callback completes the login for the request LinkedIn redirected back with.
// It exchanges the "code" query parameter for tokens and fetches the user with the
// resulting access token. A missing code fails with *providers.ConfigError before
// any network call; provider failures are returned unchanged. A placeholder user
// (see IsPlaceholderUser) is returned with a nil error but counted as a failed callback.
func (h *Handler) Callback(ctx context.Context, r *http.Request, opts providers.Options) (*CallbackResult, error) {
	ctx, span := h.tracer.Start(ctx, "oauth.callback")
	defer span.End()

	if opts.Logger == nil {
		opts.Logger = h.logger
	}
	logger := opts.ResolveLogger()

	code := r.URL.Query().Get("code")
	logger.Info("[code]", "code", util.MaskSecret(code))
	instrumentation.SetSpanAttributes(span, attribute.Bool(instrumentation.AttrCodePresent, code != ""))
	instrumentation.AddOAuthFlowAttributes(span, opts.ClientID, "", "")

	if code == "" {
		err := &providers.ConfigError{Message: "No code is passed!"}
		h.instrumentation.Metrics().RecordCallbackProcessed(ctx, h.provider.Name(), false)
		instrumentation.RecordError(span, err)
		return nil, err
	}

	tokens, err := h.provider.ExchangeCode(ctx, code, opts)
	if err != nil {
		h.instrumentation.Metrics().RecordCallbackProcessed(ctx, h.provider.Name(), false)
		instrumentation.RecordError(span, err)
		return nil, err
	}
	logger.Info("[access_token]", "access_token", util.MaskSecret(tokens.AccessToken))

	user, err := h.provider.GetUser(ctx, tokens.AccessToken, opts)
	if err != nil {
		h.instrumentation.Metrics().RecordCallbackProcessed(ctx, h.provider.Name(), false)
		instrumentation.RecordError(span, err)
		return nil, err
	}

	result := &CallbackResult{User: user, Tokens: tokens}

	// The OIDC variant reports a rejected userinfo call as a placeholder user, not an error
	if IsPlaceholderUser(user) {
		h.instrumentation.Metrics().RecordCallbackProcessed(ctx, h.provider.Name(), false)
		instrumentation.SetSpanError(span, "provider returned placeholder user")
		return result, nil
	}

	h.instrumentation.Metrics().RecordCallbackProcessed(ctx, h.provider.Name(), true)
	instrumentation.AddOAuthFlowAttributes(span, "", user.Simplified().ID, "")
	instrumentation.SetSpanSuccess(span)

	return result, nil
}

// ServeLogin redirects the browser to LinkedIn.
// When no state is configured a random one is generated; either way the state is
// stored in a short-lived cookie for ServeCallback to verify.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, span := h.tracer.Start(r.Context(), "oauth.http.login")
	defer span.End()
	logger := security.LoggerWithRequestID(ctx, h.logger)

	if r.Method != http.MethodGet {
		h.recordHTTPMetrics(ctx, "login", r.Method, http.StatusMethodNotAllowed, startTime)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts := h.options
	if opts.State == "" {
		opts.State = security.GenerateState()
	}
	instrumentation.SetSpanAttributes(span,
		attribute.Bool(instrumentation.AttrStatePresent, true),
		attribute.String(instrumentation.AttrRedirectURI, opts.CallbackURL()),
		attribute.String(instrumentation.AttrRequestID, security.GetRequestID(ctx)),
	)

	authURL, err := h.Redirect(opts)
	if err != nil {
		logger.Error("Failed to build authorization URL", "error", err)
		instrumentation.RecordError(span, err)
		oauthErr := ErrorFromProviderError(err)
		h.recordHTTPMetrics(ctx, "login", r.Method, oauthErr.Status, startTime)
		h.writeError(w, oauthErr)
		return
	}

	h.auditor.LogLoginStarted(opts.ClientID, security.GetClientIP(r, h.TrustProxy), security.GetRequestID(ctx))

	security.SetSecurityHeaders(w, h.options.CallbackURL())
	security.SetStateCookie(w, opts.State, h.secureCookies())
	h.recordHTTPMetrics(ctx, "login", r.Method, http.StatusFound, startTime)
	instrumentation.SetSpanSuccess(span)

	http.Redirect(w, r, authURL, http.StatusFound)
}

// ServeCallback handles the redirect back from LinkedIn and writes the CallbackResult as JSON.
// A placeholder user is answered with 502 server_error and audited as a failed login.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, span := h.tracer.Start(r.Context(), "oauth.http.callback")
	defer span.End()
	r = r.WithContext(ctx)

	logger := security.LoggerWithRequestID(ctx, h.logger)
	clientIP := security.GetClientIP(r, h.TrustProxy)
	requestID := security.GetRequestID(ctx)
	instrumentation.SetSpanAttributes(span, attribute.String(instrumentation.AttrRequestID, requestID))

	if r.Method != http.MethodGet {
		h.recordHTTPMetrics(ctx, "callback", r.Method, http.StatusMethodNotAllowed, startTime)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	// The user declined consent or LinkedIn rejected the request
	if errorParam := query.Get("error"); errorParam != "" {
		errorDesc := query.Get("error_description")
		logger.Warn("Provider returned error", "error", errorParam, "description", errorDesc)
		h.auditor.LogLoginFailed(h.options.ClientID, clientIP, requestID, errorParam)
		h.instrumentation.Metrics().RecordCallbackProcessed(ctx, h.provider.Name(), false)
		instrumentation.SetSpanAttributes(span,
			attribute.String(instrumentation.AttrError, errorParam),
			attribute.String(instrumentation.AttrErrorDescription, errorDesc),
		)
		instrumentation.SetSpanError(span, errorParam)
		h.recordHTTPMetrics(ctx, "callback", r.Method, http.StatusBadRequest, startTime)
		h.writeError(w, NewOAuthError(errorParam, errorDesc, http.StatusBadRequest))
		return
	}

	if !h.stateMatches(r) {
		logger.Warn("Callback state does not match login state")
		h.auditor.LogStateMismatch(h.options.ClientID, clientIP, requestID)
		instrumentation.SetSpanError(span, "state mismatch")
		h.recordHTTPMetrics(ctx, "callback", r.Method, http.StatusBadRequest, startTime)
		h.writeError(w, ErrInvalidRequest("state does not match the login request"))
		return
	}
	security.ClearStateCookie(w, h.secureCookies())

	result, err := h.Callback(ctx, r, h.options)
	if err != nil {
		logger.Error("Failed to complete login", "error", err)
		oauthErr := ErrorFromProviderError(err)
		h.auditor.LogLoginFailed(h.options.ClientID, clientIP, requestID, oauthErr.Code)
		instrumentation.RecordError(span, err)
		h.recordHTTPMetrics(ctx, "callback", r.Method, oauthErr.Status, startTime)
		h.writeError(w, oauthErr)
		return
	}

	if IsPlaceholderUser(result.User) {
		logger.Warn("LinkedIn rejected the userinfo request")
		h.auditor.LogLoginFailed(h.options.ClientID, clientIP, requestID, "provider_user_error")
		instrumentation.SetSpanError(span, "provider returned placeholder user")
		oauthErr := ErrUpstream(providers.DefaultGetUserErrorMessage)
		h.recordHTTPMetrics(ctx, "callback", r.Method, oauthErr.Status, startTime)
		h.writeError(w, oauthErr)
		return
	}

	h.auditor.LogLoginSucceeded(result.User.Simplified().ID, h.options.ClientID, clientIP, requestID)
	instrumentation.SetSpanSuccess(span)
	h.recordHTTPMetrics(ctx, "callback", r.Method, http.StatusOK, startTime)

	security.SetSecurityHeaders(w, h.options.CallbackURL())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error("Failed to write callback response", "error", err)
	}
}

// stateMatches checks the callback state against the state cookie set by ServeLogin,
// or against the configured state when there is no cookie. With neither, any state is accepted.
func (h *Handler) stateMatches(r *http.Request) bool {
	expected := security.StateFromCookie(r)
	if expected == "" {
		expected = h.options.State
	}
	if expected == "" {
		return true
	}
	return security.StatesEqual(expected, r.URL.Query().Get("state"))
}

func (h *Handler) secureCookies() bool {
	return strings.HasPrefix(h.options.CallbackURL(), "https://")
}

func (h *Handler) writeError(w http.ResponseWriter, oauthErr *OAuthError) {
	security.SetSecurityHeaders(w, h.options.CallbackURL())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(oauthErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             oauthErr.Code,
		"error_description": oauthErr.Description,
	})
}

// recordHTTPMetrics records HTTP request metrics (total count and duration)
func (h *Handler) recordHTTPMetrics(ctx context.Context, endpoint, method string, status int, startTime time.Time) {
	duration := time.Since(startTime).Seconds() * 1000 // convert to milliseconds
	instrumentation.AddHTTPAttributes(trace.SpanFromContext(ctx), method, endpoint, status)
	h.instrumentation.Metrics().RecordHTTPRequest(ctx, method, endpoint, status, duration)
}

// IsPlaceholderUser reports whether user stands in for a failed user lookup
// (see linkedin.UserResponse.IsPlaceholder).
func IsPlaceholderUser(user providers.User) bool {
	p, ok := user.(interface{ IsPlaceholder() bool })
	return ok && p.IsPlaceholder()
}

// providerVariant returns the provider's API variant when it exposes one.
func providerVariant(p providers.Provider) string {
	if v, ok := p.(interface{ Variant() linkedin.Variant }); ok {
		return string(v.Variant())
	}
	return ""
}
