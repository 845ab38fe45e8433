// Package routes is the route-classification table: the fixed lists of path
// prefixes that decide whether a request needs an authenticated identity.
//
// The lists are disjoint and deliberately tiny — this is a marketing site
// with exactly one private area. The access-control middleware consumes
// IsPrivate and the Login/Dashboard constants; nothing here inspects
// requests or sessions.
package routes

import "strings"

// Named routes referenced across the server. Redirect targets always use
// these constants, never string literals.
const (
	Home      = "/"
	Login     = "/login"
	Logout    = "/api/auth/logout"
	Dashboard = "/dashboard"
)

// private lists path prefixes that require an authenticated session.
var private = []string{
	Dashboard,
}

// public lists path prefixes reachable without a session, including the
// login entry point itself.
var public = []string{
	Home,
	Login,
	Logout,
}

// IsPrivate reports whether path falls under a private prefix.
func IsPrivate(path string) bool {
	return hasAnyPrefix(path, private)
}

// IsPublic reports whether path falls under a public prefix. Note that the
// Home prefix "/" matches everything; public-ness is informational, the
// gating decision only ever consults IsPrivate.
func IsPublic(path string) bool {
	return hasAnyPrefix(path, public)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
