package linkedin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/giantswarm/linkedin-oauth/instrumentation"
	"github.com/giantswarm/linkedin-oauth/internal/util"
	"github.com/giantswarm/linkedin-oauth/providers"
)

// maxResponseBytes bounds how much of a LinkedIn response body is read.
const maxResponseBytes = 1 << 20

// secretTokenFields are masked before a token response is logged.
var secretTokenFields = []string{"access_token", "refresh_token", "id_token"}

// ExchangeCode exchanges an authorization code for tokens.
// The decoded body is returned verbatim unless it carries an "error" field, in which
// case a *providers.TokenError with the upstream error_description is returned.
// The redirect_uri sent is opts.CallbackURL(): RedirectTo when set, otherwise RedirectURL,
// so it matches the one in the authorization URL.
func (p *Provider) ExchangeCode(ctx context.Context, code string, opts providers.Options) (*providers.TokenResponse, error) {
	logger := opts.ResolveLogger()

	ctx, span := p.tracer.Start(ctx, "linkedin.exchange_code")
	defer span.End()
	instrumentation.AddProviderAttributes(span, providerName, string(p.variant), "exchange_code")
	instrumentation.AddOAuthFlowAttributes(span, opts.ClientID, "", "")

	ctx, cancel := providers.EnsureContextTimeout(ctx, p.requestTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", opts.ClientID)
	form.Set("client_secret", opts.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", opts.CallbackURL())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		instrumentation.RecordError(span, err)
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordAPICall(ctx, "exchange_code", 0, start, err)
		instrumentation.RecordError(span, err)
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	p.recordAPICall(ctx, "exchange_code", resp.StatusCode, start, err)
	instrumentation.SetSpanAttributes(span, providerStatusAttr(resp.StatusCode))
	if err != nil {
		instrumentation.RecordError(span, err)
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	token, err := providers.ParseTokenResponse(body)
	if err != nil {
		instrumentation.RecordError(span, err)
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	logger.Info("[tokens]", "status", resp.StatusCode, "result", util.RedactFields(token.Raw, secretTokenFields...))

	if token.Error != "" {
		message := token.ErrorDescription
		if message == "" {
			message = providers.DefaultTokenErrorMessage
		}
		tokenErr := &providers.TokenError{Code: token.Error, Message: message}
		p.instrumentation.Metrics().RecordCodeExchange(ctx, providerName, token.Error)
		instrumentation.SetSpanAttributes(span, errorAttr(token.Error))
		instrumentation.RecordError(span, tokenErr)
		return nil, tokenErr
	}

	p.instrumentation.Metrics().RecordCodeExchange(ctx, providerName, "")
	instrumentation.AddTokenAttributes(span, token.TokenType, token.ExpiresIn, token.RefreshToken != "")
	instrumentation.SetSpanSuccess(span)

	return token, nil
}
