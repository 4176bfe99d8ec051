package oauth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/giantswarm/linkedin-oauth/instrumentation"
	"github.com/giantswarm/linkedin-oauth/providers"
	"github.com/giantswarm/linkedin-oauth/providers/linkedin"
)

// Config holds the LinkedIn login configuration, usually loaded from the environment
type Config struct {
	// ClientID is the LinkedIn application client ID (required).
	ClientID string `env:"LINKEDIN_CLIENT_ID"`

	// ClientSecret is the LinkedIn application client secret (required).
	ClientSecret string `env:"LINKEDIN_CLIENT_SECRET"`

	// RedirectURL is where LinkedIn redirects after authentication.
	RedirectURL string `env:"LINKEDIN_REDIRECT_URL"`

	// Scopes overrides the variant's default scopes (comma-separated in the environment).
	Scopes []string `env:"LINKEDIN_SCOPES" envSeparator:","`

	// APIVariant selects the user API: "oidc" or "legacy".
	APIVariant string `env:"LINKEDIN_API_VARIANT" envDefault:"oidc"`

	// UserAgent is sent to the LinkedIn user endpoints.
	UserAgent string `env:"LINKEDIN_USER_AGENT"`

	// State is a fixed state value. When empty, a random state is generated per login.
	State string `env:"LINKEDIN_STATE"`

	// LogEnabled turns on diagnostic logging of the login flow.
	LogEnabled bool `env:"LINKEDIN_LOG_ENABLED"`

	// RequestTimeout bounds each LinkedIn API call.
	// Default: 30 seconds
	RequestTimeout time.Duration `env:"LINKEDIN_REQUEST_TIMEOUT" envDefault:"30s"`

	// ListenAddr is the address the demo server listens on.
	ListenAddr string `env:"LINKEDIN_LISTEN_ADDR" envDefault:":8080"`

	// InstrumentationEnabled turns on OpenTelemetry tracing and metrics.
	InstrumentationEnabled bool `env:"LINKEDIN_INSTRUMENTATION_ENABLED"`
}

// LoadConfigFromEnv loads the configuration from environment variables.
// It does not validate the result; call Validate before use.
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, errors.New("LINKEDIN_CLIENT_ID is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("LINKEDIN_CLIENT_SECRET is required"))
	}
	if _, err := linkedin.ParseVariant(c.APIVariant); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("LINKEDIN_REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// Options builds the per-request options for the login flow.
func (c *Config) Options(logger *slog.Logger) providers.Options {
	var scopes []string
	for _, s := range c.Scopes {
		if s != "" {
			scopes = append(scopes, s)
		}
	}

	return providers.Options{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scope:        scopes,
		State:        c.State,
		UserAgent:    c.UserAgent,
		IsLogEnabled: c.LogEnabled,
		Logger:       logger,
	}
}

// NewProvider builds the LinkedIn provider described by the configuration.
// httpClient and inst are optional.
func (c *Config) NewProvider(httpClient *http.Client, inst *instrumentation.Instrumentation) (*linkedin.Provider, error) {
	variant, err := linkedin.ParseVariant(c.APIVariant)
	if err != nil {
		return nil, err
	}
	return linkedin.NewProvider(&linkedin.Config{
		Variant:         variant,
		HTTPClient:      httpClient,
		RequestTimeout:  c.RequestTimeout,
		UserAgent:       c.UserAgent,
		Instrumentation: inst,
	})
}
