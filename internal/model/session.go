package model

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/marco-souza/tremtec/internal/apperror"
)

// UserSession is the canonical identity record built from an OAuth provider's
// profile payload. It is what the rest of the application sees — handlers and
// templates never touch provider-specific shapes.
//
// STRICTNESS:
// A UserSession is only ever constructed through Validate-checked paths
// (the normalizer on login, the session codec on every request). There is no
// "partially valid" UserSession: every field below is required and checked.
// The session cookie is attacker-writable in principle, so anything that
// doesn't match this exact shape is treated as no session at all.
type UserSession struct {
	Name     string   `json:"name"`     // Display name; the normalizer fills a fallback when the provider omits it
	Login    string   `json:"login"`    // Stable provider-specific handle (GitHub username, Google email local part)
	Email    string   `json:"email"`    // Must be a syntactically valid email address
	Provider Provider `json:"provider"` // One of the closed Provider set
	Avatar   string   `json:"avatar"`   // Must be a syntactically valid http(s) URL
}

// Validate checks every field of the record. It returns the first violation
// as an apperror.ErrValidation so callers can distinguish a malformed record
// from infrastructure failures.
//
// WHY HAND-WRITTEN CHECKS?
// The original site validated these with a runtime schema. In Go we express
// the same contract as explicit per-field checks: the set of fields is small
// and fixed, and the checks double as documentation of the record's shape.
func (u UserSession) Validate() error {
	if u.Name == "" {
		return apperror.ValidationFailed("name", "name must not be empty")
	}
	if u.Login == "" {
		return apperror.ValidationFailed("login", "login must not be empty")
	}
	if !validEmail(u.Email) {
		return apperror.ValidationFailed("email", "email must be a valid email address")
	}
	if !u.Provider.Valid() {
		return apperror.ValidationFailed("provider", "provider must be github or google")
	}
	if !validHTTPURL(u.Avatar) {
		return apperror.ValidationFailed("avatar", "avatar must be a valid URL")
	}
	return nil
}

// SessionEnvelope is exactly what gets serialized into the session cookie:
// the canonical user plus the provider's opaque access token. The token is
// kept for reference only — nothing in this codebase ever parses it.
type SessionEnvelope struct {
	User  UserSession `json:"user"`
	Token string      `json:"token"`
}

// Validate checks the whole envelope. An envelope is all-or-nothing: either
// every field (including the nested user) passes, or the envelope is
// rejected as a unit.
func (e SessionEnvelope) Validate() error {
	if err := e.User.Validate(); err != nil {
		return err
	}
	if e.Token == "" {
		return apperror.ValidationFailed("token", "token must not be empty")
	}
	return nil
}

// validEmail checks addr is a bare, syntactically valid address.
//
// mail.ParseAddress accepts RFC 5322 forms like `Jane <jane@example.com>`;
// we additionally require the parsed address to equal the input so that only
// the bare `jane@example.com` form passes.
func validEmail(addr string) bool {
	if addr == "" {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

// validHTTPURL checks raw is an absolute http(s) URL with a host.
// url.Parse alone is too lenient — it accepts almost any string.
func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
