package linkedin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/linkedin-oauth/instrumentation"
	"github.com/giantswarm/linkedin-oauth/providers"
)

// userFetcher is the per-variant strategy for loading and normalizing the user.
type userFetcher interface {
	fetchUser(ctx context.Context, req *userRequest) (*UserResponse, error)
}

// userRequest carries what every user endpoint call needs.
type userRequest struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// GetUser fetches the user the access token belongs to.
// It implements providers.Provider; see FetchUser for the concrete result.
func (p *Provider) GetUser(ctx context.Context, accessToken string, opts providers.Options) (providers.User, error) {
	user, err := p.FetchUser(ctx, accessToken, opts)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FetchUser fetches and normalizes the user with the configured variant.
//
// Any failure is logged and returned as *providers.ProviderGetUserError. The OIDC
// variant is the exception for non-2xx userinfo responses: it returns a placeholder
// user with ID ErrorUserID and the upstream error fields instead of failing.
func (p *Provider) FetchUser(ctx context.Context, accessToken string, opts providers.Options) (*UserResponse, error) {
	logger := opts.ResolveLogger()

	ctx, span := p.tracer.Start(ctx, "linkedin.get_user")
	defer span.End()
	instrumentation.AddProviderAttributes(span, providerName, string(p.variant), "get_user")

	ctx, cancel := providers.EnsureContextTimeout(ctx, p.requestTimeout)
	defer cancel()

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = p.defaultUserAgent
	}

	user, err := p.fetcher.fetchUser(ctx, &userRequest{
		client:    providers.BearerClient(ctx, p.httpClient, accessToken),
		userAgent: userAgent,
		logger:    logger,
	})
	if err != nil {
		logger.Error("[error]", "variant", p.variant, "error", err)
		instrumentation.RecordError(span, err)
		return nil, providers.NewProviderGetUserError(err)
	}

	if user.IsPlaceholder() {
		status := 0
		if user.Status != nil {
			status = *user.Status
		}
		p.instrumentation.Metrics().RecordUserFallback(ctx, providerName, status)
		instrumentation.SetSpanAttributes(span, attribute.Bool(instrumentation.AttrProviderFallback, true))
		instrumentation.SetSpanError(span, "userinfo request failed")
		return user, nil
	}

	instrumentation.AddOAuthFlowAttributes(span, "", user.ID, "")
	instrumentation.SetSpanSuccess(span)
	return user, nil
}

// get performs one GET against a LinkedIn user endpoint and returns the status and body.
// A non-2xx status is not an error here; each variant decides what it means.
func (p *Provider) get(ctx context.Context, req *userRequest, operation, endpoint string) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("User-Agent", req.userAgent)

	start := time.Now()
	resp, err := req.client.Do(httpReq)
	if err != nil {
		p.recordAPICall(ctx, operation, 0, start, err)
		return 0, nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	p.recordAPICall(ctx, operation, resp.StatusCode, start, err)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	return resp.StatusCode, body, nil
}

func providerStatusAttr(status int) attribute.KeyValue {
	return attribute.Int(instrumentation.AttrProviderStatus, status)
}

func errorAttr(code string) attribute.KeyValue {
	return attribute.String(instrumentation.AttrError, code)
}
