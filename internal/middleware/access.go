package middleware

import (
	"net/http"
	"strings"

	"github.com/marco-souza/tremtec/internal/routes"
	"github.com/marco-souza/tremtec/internal/session"
)

// AccessControl is the once-per-request authentication gate. It runs after
// the request logger and before any page or API handler.
//
// Per request, in order:
//
//  1. Read the session cookie by its fixed name. Absent or empty → the
//     request stays anonymous.
//  2. Run the cookie value through the session codec. Success → the user
//     lands in the request context. Failure (malformed or forged cookie) →
//     the request stays anonymous; no error reaches the client.
//  3. Classify the path and decide:
//     private path + anonymous      → 302 to the login page (handler never runs)
//     login path + authenticated    → 302 to the dashboard
//     anything else                 → pass through unchanged
//
// Identity travels as an explicit context value (session.WithUser), never
// as shared state — each request parses its own cookie and computes its own
// decision.
func AccessControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated := false

		if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			if envelope := session.Decode(cookie.Value); envelope != nil {
				r = r.WithContext(session.WithUser(r.Context(), envelope.User))
				authenticated = true
			}
		}

		path := r.URL.Path

		if routes.IsPrivate(path) && !authenticated {
			http.Redirect(w, r, routes.Login, http.StatusFound)
			return
		}

		// An authenticated user has no business on the login page.
		if strings.HasPrefix(path, routes.Login) && authenticated {
			http.Redirect(w, r, routes.Dashboard, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
