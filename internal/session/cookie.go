// Package session holds everything about the client-held session: the cookie
// policy, the codec that converts cookie bytes to trusted identity, and the
// request-context plumbing that carries that identity to handlers.
//
// THE SERVER HOLDS NO SESSION STATE.
// The cookie value IS the session: a validated envelope of the canonical
// user plus the provider token. There is no session table, no revocation
// list, no refresh. A login overwrites the cookie; a logout clears it; the
// max-age expires it. Integrity rests on HTTPS plus the HttpOnly/Secure/
// SameSite flags — see codec.go for what that means for trust.
package session

import (
	"net/http"
	"time"
)

// CookieName is the single source of truth for the session cookie's
// identity. Everything that reads or writes the session cookie goes through
// this constant.
const CookieName = "tremtec_session"

// maxSessionAge is the fixed session lifetime: seven days, in seconds,
// because cookie Max-Age is specified in seconds.
const maxSessionAge = int(7 * 24 * time.Hour / time.Second)

// Config is the fixed set of attributes applied whenever the session cookie
// is set or cleared.
type Config struct {
	Name     string
	MaxAge   int
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Path     string
}

// CookieConfig returns the session cookie policy.
//
// It builds a fresh value on every call — callers receive their own copy
// and can override fields (the logout path overrides the lifetime) without
// mutating anyone else's view of the policy.
func CookieConfig() Config {
	return Config{
		Name:     CookieName,
		MaxAge:   maxSessionAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
}

// Write sets the session cookie carrying an encoded envelope.
//
// The Secure and HttpOnly flags follow the environment: both on outside
// local development, both off in development so the flow works over plain
// http://localhost. This matches how the site has always behaved.
func Write(w http.ResponseWriter, value string, production bool) {
	cfg := CookieConfig()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     cfg.Path,
		MaxAge:   cfg.MaxAge,
		HttpOnly: production,
		Secure:   production,
		SameSite: cfg.SameSite,
	})
}

// Clear expires the session cookie. Same policy shape as Write, with the
// lifetime forced to zero. It has no preconditions — clearing an absent
// session is a no-op for the browser.
//
// net/http quirk: http.Cookie{MaxAge: 0} omits the Max-Age attribute
// entirely; a negative value is what serializes as "Max-Age=0".
func Clear(w http.ResponseWriter, production bool) {
	cfg := CookieConfig()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		MaxAge:   -1,
		HttpOnly: production,
		Secure:   production,
		SameSite: cfg.SameSite,
	})
}
