package main

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oauth "github.com/giantswarm/linkedin-oauth"
	"github.com/giantswarm/linkedin-oauth/providers"
	"github.com/giantswarm/linkedin-oauth/providers/mock"
	"github.com/giantswarm/linkedin-oauth/security"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	h := oauth.NewHandler(mock.NewMockProvider(), providers.Options{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/auth/linkedin/callback",
	}, slog.New(slog.DiscardHandler), nil)

	return security.RequestIDMiddleware(newRouter(h, "mock"))
}

func TestRouter_Healthz(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mock", body["provider"])
}

func TestRouter_LoginThenCallback(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, loginPath, nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(security.RequestIDHeader))

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "https://mock.example.com/authorize"), location)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	state := cookies[0].Value

	req := httptest.NewRequest(http.MethodGet, callbackPath+"?code=abc&state="+state, nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "mock-user-123")
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oauth/authorize", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_ListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = busy.Close() }()

	t.Setenv("LINKEDIN_CLIENT_ID", "client-1")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "secret-1")
	t.Setenv("LINKEDIN_LISTEN_ADDR", busy.Addr().String())

	done := make(chan error, 1)
	go func() { done <- run(slog.New(slog.DiscardHandler)) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), busy.Addr().String())
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return after the listen address was already in use")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "")

	err := run(slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINKEDIN_CLIENT_ID is required")
}
