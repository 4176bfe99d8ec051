package providers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseTokenResponse(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantAccess    string
		wantExpiresIn int64
		wantError     string
		wantErr       bool
	}{
		{
			name:          "oidc token",
			body:          `{"access_token":"AQX","expires_in":5184000,"scope":"email,openid,profile","token_type":"Bearer","id_token":"eyJ"}`,
			wantAccess:    "AQX",
			wantExpiresIn: 5184000,
		},
		{
			name:          "expires_in as string",
			body:          `{"access_token":"AQX","expires_in":"60"}`,
			wantAccess:    "AQX",
			wantExpiresIn: 60,
		},
		{
			name:      "error body",
			body:      `{"error":"invalid_grant","error_description":"expired"}`,
			wantError: "invalid_grant",
		},
		{
			name:      "non-string error is truthy",
			body:      `{"error":true}`,
			wantError: "unknown_error",
		},
		{
			name: "false error is ignored",
			body: `{"error":false,"access_token":"AQX"}`,
			// LinkedIn never sends this, but a falsy value must not be treated as a failure
			wantAccess: "AQX",
		},
		{
			name:    "not JSON",
			body:    `<html>`,
			wantErr: true,
		},
		{
			name: "JSON null",
			body: `null`,
		},
		{
			name:    "JSON array",
			body:    `[{"access_token":"AQX"}]`,
			wantErr: true,
		},
		{
			name:    "JSON string",
			body:    `"AQX"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTokenResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTokenResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.AccessToken != tt.wantAccess {
				t.Errorf("AccessToken = %q, want %q", got.AccessToken, tt.wantAccess)
			}
			if got.ExpiresIn != tt.wantExpiresIn {
				t.Errorf("ExpiresIn = %d, want %d", got.ExpiresIn, tt.wantExpiresIn)
			}
			if got.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", got.Error, tt.wantError)
			}
			if got.Raw == nil {
				t.Error("Raw is nil")
			}
		})
	}
}

func TestTokenResponse_MarshalJSON_Verbatim(t *testing.T) {
	body := `{"access_token":"AQX","custom":{"nested":[1,2]},"expires_in":60}`
	tok, err := ParseTokenResponse([]byte(body))
	if err != nil {
		t.Fatalf("ParseTokenResponse() error = %v", err)
	}

	got, err := tok.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(got) != body {
		t.Errorf("MarshalJSON() = %s, want %s", got, body)
	}
}

func TestTokenResponse_Token(t *testing.T) {
	tok, err := ParseTokenResponse([]byte(`{"access_token":"AQX","token_type":"Bearer","expires_in":3600,"id_token":"eyJ"}`))
	if err != nil {
		t.Fatalf("ParseTokenResponse() error = %v", err)
	}

	before := time.Now()
	oauthTok := tok.Token()

	if oauthTok.AccessToken != "AQX" {
		t.Errorf("AccessToken = %q, want %q", oauthTok.AccessToken, "AQX")
	}
	if oauthTok.Expiry.Before(before.Add(59*time.Minute)) || oauthTok.Expiry.After(before.Add(61*time.Minute)) {
		t.Errorf("Expiry = %v, want about one hour from now", oauthTok.Expiry)
	}
	if oauthTok.Extra("id_token") != "eyJ" {
		t.Errorf("Extra(id_token) = %v, want %q", oauthTok.Extra("id_token"), "eyJ")
	}
}

func TestOptions_ResolveLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Options{Logger: logger}.ResolveLogger().Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("disabled logging wrote %q", buf.String())
	}

	Options{Logger: logger, IsLogEnabled: true}.ResolveLogger().Info("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("enabled logging wrote %q, want it to contain %q", buf.String(), "shown")
	}

	if (Options{IsLogEnabled: true}).ResolveLogger() == nil {
		t.Error("ResolveLogger() without Logger returned nil")
	}
}

func TestOptions_CallbackURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "none", opts: Options{}, want: ""},
		{name: "redirect url", opts: Options{RedirectURL: "https://a"}, want: "https://a"},
		{name: "redirect to wins", opts: Options{RedirectURL: "https://a", RedirectTo: "https://b"}, want: "https://b"},
	}
	for _, tt := range tests {
		if got := tt.opts.CallbackURL(); got != tt.want {
			t.Errorf("%s: CallbackURL() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("profile request failed with status 500")
	err := NewProviderGetUserError(cause)

	if err.Error() != DefaultGetUserErrorMessage {
		t.Errorf("Error() = %q, want %q", err.Error(), DefaultGetUserErrorMessage)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	var cfgErr error = &ConfigError{Message: "No code is passed!"}
	if cfgErr.Error() != "No code is passed!" {
		t.Errorf("ConfigError.Error() = %q", cfgErr.Error())
	}

	var tokErr error = &TokenError{Code: "invalid_grant", Message: DefaultTokenErrorMessage}
	if tokErr.Error() != DefaultTokenErrorMessage {
		t.Errorf("TokenError.Error() = %q", tokErr.Error())
	}
}

func TestEnsureContextTimeout(t *testing.T) {
	ctx, cancel := EnsureContextTimeout(context.Background(), time.Second)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("EnsureContextTimeout() did not add a deadline")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Hour)
	defer parentCancel()
	ctx2, cancel2 := EnsureContextTimeout(parent, time.Second)
	defer cancel2()
	if ctx2 != parent {
		t.Error("EnsureContextTimeout() replaced a context that already had a deadline")
	}
}

func TestBearerClient(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := BearerClient(context.Background(), server.Client(), "tok")
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()

	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok")
	}
}

func TestIsSuccess(t *testing.T) {
	for status, want := range map[int]bool{199: false, 200: true, 204: true, 299: true, 300: false, 401: false} {
		if got := IsSuccess(status); got != want {
			t.Errorf("IsSuccess(%d) = %v, want %v", status, got, want)
		}
	}
}
