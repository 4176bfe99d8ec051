package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/giantswarm/linkedin-oauth/instrumentation"
	"github.com/giantswarm/linkedin-oauth/providers"
)

// Compile-time check that Provider implements the providers.Provider interface.
var _ providers.Provider = (*Provider)(nil)

// providerName is the name returned by Provider.Name().
const providerName = "linkedin"

// Variant selects the LinkedIn API generation used to fetch the user.
type Variant string

const (
	// VariantOIDC fetches the user from the OpenID Connect userinfo endpoint.
	VariantOIDC Variant = "oidc"

	// VariantLegacy fetches the user from the v2 profile and email endpoints.
	VariantLegacy Variant = "legacy"
)

// ParseVariant converts a configuration string into a Variant.
// The empty string selects VariantOIDC.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantOIDC:
		return VariantOIDC, nil
	case VariantLegacy:
		return VariantLegacy, nil
	default:
		return "", fmt.Errorf("unsupported LinkedIn API variant %q (want %q or %q)", s, VariantOIDC, VariantLegacy)
	}
}

// LinkedIn endpoints
const (
	authURL          = "https://www.linkedin.com/oauth/v2/authorization"
	tokenURL         = "https://www.linkedin.com/oauth/v2/accessToken"
	userInfoEndpoint = "https://api.linkedin.com/v2/userinfo"
	profileEndpoint  = "https://api.linkedin.com/v2/me?projection=(id,firstName,lastName,profilePicture(displayImage~:playableStreams))"
	emailEndpoint    = "https://api.linkedin.com/v2/emailAddress?q=members&projection=(elements*(handle~))"
)

// Endpoint is LinkedIn's OAuth 2.0 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:   authURL,
	TokenURL:  tokenURL,
	AuthStyle: oauth2.AuthStyleInParams,
}

const (
	// DefaultUserAgent is sent to the user endpoints when the caller sets none.
	DefaultUserAgent = "linkedin-oauth-go"

	defaultResponseType = "code"
)

var (
	defaultOIDCScopes   = []string{"profile", "email", "openid"}
	defaultLegacyScopes = []string{"r_liteprofile", "r_emailaddress"}
)

// Provider implements the providers.Provider interface for LinkedIn.
// Redirect and code exchange are shared; the user fetch strategy depends on the Variant.
type Provider struct {
	// Endpoint holds the authorization and token URLs.
	Endpoint oauth2.Endpoint

	// UserInfoURL is the OIDC userinfo endpoint.
	UserInfoURL string

	// ProfileURL is the legacy profile endpoint, including its projection.
	ProfileURL string

	// EmailURL is the legacy email endpoint, including its projection.
	EmailURL string

	variant          Variant
	fetcher          userFetcher
	httpClient       *http.Client
	requestTimeout   time.Duration
	defaultUserAgent string
	instrumentation  *instrumentation.Instrumentation
	tracer           trace.Tracer
}

// Config holds LinkedIn provider configuration.
// Client credentials are not part of it: they travel with each call in providers.Options.
type Config struct {
	// Variant selects the API generation (default: VariantOIDC).
	Variant Variant

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client

	// RequestTimeout is the timeout for LinkedIn API calls when the context has no deadline (default: 30s).
	RequestTimeout time.Duration

	// UserAgent is the default User-Agent for user endpoints (default: DefaultUserAgent).
	UserAgent string

	// Instrumentation is optional; no-op instrumentation is used when nil.
	Instrumentation *instrumentation.Instrumentation
}

// NewProvider creates a new LinkedIn provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	variant, err := ParseVariant(string(cfg.Variant))
	if err != nil {
		return nil, err
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout == 0 {
		requestTimeout = providers.DefaultRequestTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: requestTimeout,
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	inst := cfg.Instrumentation
	if inst == nil {
		inst = instrumentation.Disabled()
	}

	p := &Provider{
		Endpoint:         Endpoint,
		UserInfoURL:      userInfoEndpoint,
		ProfileURL:       profileEndpoint,
		EmailURL:         emailEndpoint,
		variant:          variant,
		httpClient:       httpClient,
		requestTimeout:   requestTimeout,
		defaultUserAgent: userAgent,
		instrumentation:  inst,
		tracer:           inst.Tracer("provider"),
	}

	switch variant {
	case VariantLegacy:
		p.fetcher = &legacyFetcher{p: p}
	default:
		p.fetcher = &oidcFetcher{p: p}
	}

	return p, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Variant returns the API generation this provider fetches users from.
func (p *Provider) Variant() Variant {
	return p.variant
}

// DefaultScopes returns the scopes requested when the caller sets none.
// Returns a copy to prevent external modification.
func (p *Provider) DefaultScopes() []string {
	src := defaultOIDCScopes
	if p.variant == VariantLegacy {
		src = defaultLegacyScopes
	}
	scopes := make([]string, len(src))
	copy(scopes, src)
	return scopes
}

// AuthorizationURL builds the LinkedIn authorization URL.
// It sends client_id, response_type and the space-joined scope, plus redirect_uri and
// state when set. RedirectTo takes precedence over RedirectURL.
func (p *Provider) AuthorizationURL(opts providers.Options) (string, error) {
	if opts.ClientID == "" {
		return "", &providers.ConfigError{Message: "No client id passed"}
	}

	scopes := opts.Scope
	if len(scopes) == 0 {
		scopes = p.DefaultScopes()
	} else {
		scopes = append([]string(nil), scopes...)
	}

	config := oauth2.Config{
		ClientID:    opts.ClientID,
		RedirectURL: opts.CallbackURL(),
		Scopes:      scopes,
		Endpoint:    p.Endpoint,
	}

	var authOpts []oauth2.AuthCodeOption
	if opts.ResponseType != "" && opts.ResponseType != defaultResponseType {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("response_type", opts.ResponseType))
	}

	return encodeQuerySpaces(config.AuthCodeURL(opts.State, authOpts...)), nil
}

// encodeQuerySpaces rewrites the form encoding of spaces ("+") in the query as "%20".
// Literal plus signs are already escaped as %2B, so every "+" in the query is a space.
func encodeQuerySpaces(rawURL string) string {
	base, query, found := strings.Cut(rawURL, "?")
	if !found {
		return rawURL
	}
	return base + "?" + strings.ReplaceAll(query, "+", "%20")
}

// recordAPICall records metrics for a single LinkedIn API round trip.
func (p *Provider) recordAPICall(ctx context.Context, operation string, statusCode int, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000
	p.instrumentation.Metrics().RecordProviderAPICall(ctx, providerName, operation, statusCode, durationMs, err)
}
