package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/marco-souza/tremtec/internal/session"
)

// PageHandler renders the site pages. Templates are parsed once at startup;
// each page is its own template set sharing base.html, since every page
// defines the same "content" block.
//
// The pages carry no logic beyond showing the session user where one exists
// — the interesting decisions (who may see /dashboard) happen in the
// access-control middleware before these handlers run.
type PageHandler struct {
	landing   *template.Template
	login     *template.Template
	dashboard *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the page templates from templateDir.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	parse := func(page string) (*template.Template, error) {
		return template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
	}

	landing, err := parse("landing.html")
	if err != nil {
		return nil, err
	}
	login, err := parse("login.html")
	if err != nil {
		return nil, err
	}
	dashboard, err := parse("dashboard.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		landing:   landing,
		login:     login,
		dashboard: dashboard,
		logger:    logger,
	}, nil
}

// HandleLanding serves the marketing landing page.
//
// HTTP: GET /
func (h *PageHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	_, authenticated := session.UserFromContext(r.Context())
	h.render(w, h.landing, map[string]any{
		"Title":         "TremTec - Build Trustworthy Software Faster",
		"Authenticated": authenticated,
	})
}

// HandleLogin serves the login page. A failed OAuth attempt lands back here
// with ?error=<provider>_auth_failed, which the page surfaces to the user.
//
// HTTP: GET /login
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.login, map[string]any{
		"Title": "Log in - TremTec",
		"Error": r.URL.Query().Get("error"),
	})
}

// HandleDashboard serves the private dashboard. By the time this runs, the
// access-control middleware guarantees an authenticated session is in the
// context.
//
// HTTP: GET /dashboard
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	h.render(w, h.dashboard, map[string]any{
		"Title": "Dashboard - TremTec",
		"User":  user,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, tmpl *template.Template, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
