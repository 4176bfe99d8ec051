package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Paths served by LinkedInServer.
const (
	TokenPath    = "/oauth/v2/accessToken"
	UserInfoPath = "/v2/userinfo"
	ProfilePath  = "/v2/me"
	EmailPath    = "/v2/emailAddress"
)

// TestAccessToken is the access token returned by the default token response.
const TestAccessToken = "test-access-token"

// Default response bodies, shaped like LinkedIn's.
const (
	DefaultTokenBody = `{"access_token":"test-access-token","expires_in":5184000,"scope":"email,openid,profile","token_type":"Bearer","id_token":"test-id-token"}`

	DefaultUserInfoBody = `{"sub":"782bbtaQ","name":"John Doe","given_name":"John","family_name":"Doe","picture":"https://media.licdn.com/dms/image/photo.jpg","locale":"en-US","email":"doe@email.com","email_verified":true}`

	DefaultProfileBody = `{"id":"REDACTED","firstName":{"localized":{"fr_FR":"Jean","en_US":"John"},"preferredLocale":{"country":"US","language":"en"}},"lastName":{"localized":{"fr_FR":"Dupont","en_US":"Doe"},"preferredLocale":{"country":"US","language":"en"}},"profilePicture":{"displayImage":"urn:li:digitalmediaAsset:C4D00AAAAbBCDEFGhiJ","displayImage~":{"elements":[{"identifiers":[{"identifier":"https://media.licdn.com/100_100/photo.jpg","identifierType":"EXTERNAL_URL"}]},{"identifiers":[{"identifier":"urn:li:digitalmediaMediaArtifact:800","identifierType":"URN"},{"identifier":"https://media.licdn.com/800_800/photo.jpg","identifierType":"EXTERNAL_URL"}]}]}}}`

	DefaultEmailBody = `{"elements":[{"handle":"urn:li:emailAddress:3775708763","handle~":{"emailAddress":"hsimpson@linkedin.com"}}]}`
)

// RecordedRequest is a request received by LinkedInServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Form   url.Values
}

type cannedResponse struct {
	status int
	body   string
}

// LinkedInServer is a fake LinkedIn API serving the token, userinfo, profile and
// email endpoints with canned responses. It records every request it receives.
type LinkedInServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []RecordedRequest
}

// NewLinkedInServer starts a fake LinkedIn API with default 200 responses.
// The server is closed when the test finishes.
func NewLinkedInServer(t testing.TB) *LinkedInServer {
	t.Helper()

	s := &LinkedInServer{
		responses: map[string]cannedResponse{
			TokenPath:    {status: http.StatusOK, body: DefaultTokenBody},
			UserInfoPath: {status: http.StatusOK, body: DefaultUserInfoBody},
			ProfilePath:  {status: http.StatusOK, body: DefaultProfileBody},
			EmailPath:    {status: http.StatusOK, body: DefaultEmailBody},
		},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)
	return s
}

// SetResponse replaces the canned response for path.
func (s *LinkedInServer) SetResponse(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = cannedResponse{status: status, body: body}
}

// Requests returns the requests received for path, in arrival order.
func (s *LinkedInServer) Requests(path string) []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []RecordedRequest
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// RequestCount returns the total number of requests received.
func (s *LinkedInServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// TokenURL returns the token endpoint URL.
func (s *LinkedInServer) TokenURL() string { return s.URL + TokenPath }

// UserInfoURL returns the OIDC userinfo endpoint URL.
func (s *LinkedInServer) UserInfoURL() string { return s.URL + UserInfoPath }

// ProfileURL returns the legacy profile endpoint URL, with LinkedIn's projection.
func (s *LinkedInServer) ProfileURL() string {
	return s.URL + ProfilePath + "?projection=(id,firstName,lastName,profilePicture(displayImage~:playableStreams))"
}

// EmailURL returns the legacy email endpoint URL, with LinkedIn's projection.
func (s *LinkedInServer) EmailURL() string {
	return s.URL + EmailPath + "?q=members&projection=(elements*(handle~))"
}

func (s *LinkedInServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	recorded := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	}
	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		recorded.Form, _ = url.ParseQuery(string(body))
	}

	s.mu.Lock()
	s.requests = append(s.requests, recorded)
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

// GenerateRandomString generates a random base64-encoded string
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate random string: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length]
}
