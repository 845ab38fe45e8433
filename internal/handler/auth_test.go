package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marco-souza/tremtec/internal/handler"
	"github.com/marco-souza/tremtec/internal/model"
	"github.com/marco-souza/tremtec/internal/service"
	"github.com/marco-souza/tremtec/internal/session"
)

// stubProvider implements auth.Provider without talking to any identity
// service: AuthURL is canned and Exchange returns whatever the test set up.
type stubProvider struct {
	name    model.Provider
	payload map[string]any
	token   string
	err     error
}

func (s *stubProvider) Name() model.Provider { return s.name }

func (s *stubProvider) AuthURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (s *stubProvider) Exchange(_ context.Context, _ string) (map[string]any, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.payload, s.token, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthHandler(production bool) *handler.AuthHandler {
	svc := service.NewAuthService(nil, testLogger())
	return handler.NewAuthHandler(svc, production, testLogger())
}

func githubStub() *stubProvider {
	return &stubProvider{
		name:  model.ProviderGitHub,
		token: "gho_token",
		payload: map[string]any{
			"login":      "johndoe",
			"name":       "John Doe",
			"email":      "john@github.com",
			"avatar_url": "https://avatars.githubusercontent.com/u/1",
		},
	}
}

// callbackRequest builds the provider's redirect-back request with a state
// cookie matching the query parameter.
func callbackRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target+"&state=st-123", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-123"})
	return req
}

// sessionCookieFrom digs the session cookie out of a recorded response.
func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// =========================================================================
// BEGIN FLOW
// =========================================================================

func TestHandleOAuth_BeginFlow(t *testing.T) {
	h := newAuthHandler(false)
	p := githubStub()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github", nil)
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)

	// The redirect target carries the same state that went into the cookie.
	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c.Value
		}
	}
	require.NotEmpty(t, state, "begin flow must set the state cookie")
	assert.Equal(t, "https://provider.example/authorize?state="+state, rr.Header().Get("Location"))
}

// =========================================================================
// CALLBACK — SUCCESS
// =========================================================================

func TestHandleOAuth_CallbackSuccess(t *testing.T) {
	h := newAuthHandler(true)
	p := githubStub()

	req := callbackRequest("/api/auth/github?code=authcode")
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	cookie := sessionCookieFrom(t, rr)
	require.NotNil(t, cookie, "successful callback must set the session cookie")
	assert.True(t, cookie.Secure, "production session cookie must be Secure")
	assert.True(t, cookie.HttpOnly, "production session cookie must be HttpOnly")

	envelope := session.Decode(cookie.Value)
	require.NotNil(t, envelope)
	assert.Equal(t, "johndoe", envelope.User.Login)
	assert.Equal(t, "gho_token", envelope.Token)
}

func TestHandleOAuth_CallbackSuccessDevelopment(t *testing.T) {
	h := newAuthHandler(false)
	p := githubStub()

	req := callbackRequest("/api/auth/github?code=authcode")
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	cookie := sessionCookieFrom(t, rr)
	require.NotNil(t, cookie)
	assert.False(t, cookie.Secure, "development cookie works over plain http")
	assert.False(t, cookie.HttpOnly)
}

// =========================================================================
// CALLBACK — FAILURES all end at /login?error=<provider>_auth_failed
// =========================================================================

func assertFailureRedirect(t *testing.T, rr *httptest.ResponseRecorder, provider string) {
	t.Helper()
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?error="+provider+"_auth_failed", rr.Header().Get("Location"))
	assert.Nil(t, sessionCookieFrom(t, rr), "failure must not set a session cookie")
}

func TestHandleOAuth_ProviderDenied(t *testing.T) {
	h := newAuthHandler(false)
	p := githubStub()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github?error=access_denied", nil)
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	assertFailureRedirect(t, rr, "github")
}

func TestHandleOAuth_StateMismatch(t *testing.T) {
	h := newAuthHandler(false)
	p := githubStub()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github?code=authcode&state=attacker", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-123"})
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	assertFailureRedirect(t, rr, "github")
}

func TestHandleOAuth_MissingStateCookie(t *testing.T) {
	h := newAuthHandler(false)
	p := githubStub()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github?code=authcode&state=st-123", nil)
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	assertFailureRedirect(t, rr, "github")
}

func TestHandleOAuth_ExchangeFailure(t *testing.T) {
	h := newAuthHandler(false)
	p := githubStub()
	p.err = errors.New("token endpoint unreachable")

	req := callbackRequest("/api/auth/github?code=authcode")
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	assertFailureRedirect(t, rr, "github")
}

func TestHandleOAuth_NormalizationFailure(t *testing.T) {
	h := newAuthHandler(false)
	p := &stubProvider{
		name:  model.ProviderGoogle,
		token: "ya29.token",
		payload: map[string]any{
			"email":   "not-an-email",
			"picture": "https://example.com/jane.jpg",
		},
	}

	req := callbackRequest("/api/auth/google?code=authcode")
	rr := httptest.NewRecorder()
	h.HandleOAuth(p)(rr, req)

	assertFailureRedirect(t, rr, "google")
}

// =========================================================================
// LOGOUT
// =========================================================================

func TestHandleLogout(t *testing.T) {
	h := newAuthHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	header := rr.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, session.CookieName+"="), "logout must clear the session cookie")
	assert.Contains(t, header, "Max-Age=0")
}

func TestHandleLogout_WithoutSession(t *testing.T) {
	// No session cookie on the request: logout still clears and redirects.
	h := newAuthHandler(false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

// =========================================================================
// CURRENT USER
// =========================================================================

func TestHandleMe_Authenticated(t *testing.T) {
	h := newAuthHandler(false)

	user := model.UserSession{
		Name:     "Jane Doe",
		Login:    "jane",
		Email:    "jane@gmail.com",
		Provider: model.ProviderGoogle,
		Avatar:   "https://example.com/jane.jpg",
	}
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(session.WithUser(req.Context(), user))

	rr := httptest.NewRecorder()
	h.HandleMe(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"login":"jane"`)
	assert.Contains(t, rr.Body.String(), `"provider":"google"`)
}

func TestHandleMe_Anonymous(t *testing.T) {
	h := newAuthHandler(false)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rr := httptest.NewRecorder()
	h.HandleMe(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
