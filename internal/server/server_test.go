package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marco-souza/tremtec/internal/config"
	"github.com/marco-souza/tremtec/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		BaseURL:      "http://localhost:8080",
		GitHubID:     "github-id",
		GitHubSecret: "github-secret",
		GoogleID:     "google-id",
		GoogleSecret: "google-secret",
		Env:          "development",
		Port:         8080,
		DBPath:       "", // stateless: no login directory in router tests
	}
}

// newTestServer assembles the real router with test credentials and no login
// directory, so tests drive the full middleware + routing stack.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	templateDir, err := filepath.Abs("../../web/templates")
	if err != nil {
		t.Fatalf("resolving template dir: %v", err)
	}
	staticDir, err := filepath.Abs("../../web/static")
	if err != nil {
		t.Fatalf("resolving static dir: %v", err)
	}

	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(cfg, templateDir, staticDir, logger)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	return srv
}

func TestHealthcheckThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("body = %q, want {\"status\":\"ok\"}", got)
	}
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestLandingPageIsPublic(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestLogoutThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	header := rr.Header().Get("Set-Cookie")
	if !strings.HasPrefix(header, session.CookieName+"=") || !strings.Contains(header, "Max-Age=0") {
		t.Errorf("Set-Cookie = %q, want cleared session cookie", header)
	}
}

func TestOAuthBeginFlowThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	loc := rr.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://github.com/login/oauth/authorize") {
		t.Errorf("Location = %q, want GitHub authorize URL", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("Location %q missing state parameter", loc)
	}
}
