package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/marco-souza/tremtec/internal/auth"
	"github.com/marco-souza/tremtec/internal/routes"
	"github.com/marco-souza/tremtec/internal/service"
	"github.com/marco-souza/tremtec/internal/session"
)

// stateCookieName holds the anti-CSRF state between the redirect to the
// provider and the callback. Short-lived and single-use.
const stateCookieName = "oauth_state"

// AuthHandler serves the OAuth login flow and session lifecycle.
//
// Each provider gets ONE route (/api/auth/github, /api/auth/google) that
// plays both roles: a request without a code begins the flow by redirecting
// to the provider, and the provider's redirect back to the same URL — now
// carrying a code — completes it. The site has always exposed these as
// single paths, so both halves live in one handler.
type AuthHandler struct {
	svc        *service.AuthService
	production bool
	logger     *slog.Logger
}

// NewAuthHandler creates an AuthHandler. production selects the cookie
// flag behavior (see session.Write).
func NewAuthHandler(svc *service.AuthService, production bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:        svc,
		production: production,
		logger:     logger,
	}
}

// HandleOAuth returns the handler for one provider's login route.
//
// HTTP: GET /api/auth/{provider}
//
// Failure at ANY step — user denied at the provider, state mismatch, code
// exchange failure, profile rejected by normalization — ends the same way:
// 302 to /login?error=<provider>_auth_failed, with no session cookie set.
// The error marker in the query string is the only failure signal the
// browser ever sees; nothing on this path produces a 5xx.
func (h *AuthHandler) HandleOAuth(p auth.Provider) http.HandlerFunc {
	failureURL := routes.Login + "?error=" + string(p.Name()) + "_auth_failed"

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		// The provider reports denial/cancellation via an error parameter.
		if errParam := query.Get("error"); errParam != "" {
			h.logger.Info("oauth: provider returned error",
				slog.String("provider", string(p.Name())),
				slog.String("error", errParam),
			)
			http.Redirect(w, r, failureURL, http.StatusFound)
			return
		}

		code := query.Get("code")
		if code == "" {
			h.beginFlow(w, r, p)
			return
		}

		// --- Callback half: verify state first ---
		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || query.Get("state") != stateCookie.Value {
			h.logger.Warn("oauth: state mismatch",
				slog.String("provider", string(p.Name())),
			)
			http.Redirect(w, r, failureURL, http.StatusFound)
			return
		}
		clearStateCookie(w)

		// --- Exchange the code for token + raw profile ---
		payload, token, err := p.Exchange(r.Context(), code)
		if err != nil {
			h.logger.Error("oauth: exchange failed",
				slog.String("provider", string(p.Name())),
				slog.String("error", err.Error()),
			)
			http.Redirect(w, r, failureURL, http.StatusFound)
			return
		}

		// --- Normalize, encode, record ---
		value, err := h.svc.CompleteOAuth(r.Context(), p.Name(), payload, token)
		if err != nil {
			h.logger.Warn("oauth: login rejected",
				slog.String("provider", string(p.Name())),
				slog.String("error", err.Error()),
			)
			http.Redirect(w, r, failureURL, http.StatusFound)
			return
		}

		session.Write(w, value, h.production)
		http.Redirect(w, r, routes.Dashboard, http.StatusFound)
	}
}

// beginFlow starts the authorization dance: random state into a short-lived
// cookie, browser off to the provider.
func (h *AuthHandler) beginFlow(w http.ResponseWriter, r *http.Request, p auth.Provider) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, p.AuthURL(state), http.StatusFound)
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// HandleLogout clears the session cookie and sends the browser back to the
// login page.
//
// HTTP: GET /api/auth/logout
//
// No preconditions: logging out without a session still clears the cookie
// and still redirects. "Logout" for a client-held session just means the
// browser forgets the cookie — there is nothing server-side to revoke.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session.Clear(w, h.production)
	http.Redirect(w, r, routes.Login, http.StatusFound)
}

// HandleMe returns the current session's user as JSON, or 401 for anonymous
// requests. The response comes straight from the request context — no
// storage lookup, the cookie is the session.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "no active session",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}
