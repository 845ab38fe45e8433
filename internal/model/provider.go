package model

// Provider identifies which OAuth identity service authenticated a user.
//
// CLOSED ENUMERATION:
// The set of providers is fixed and finite — GitHub and Google. Code that
// branches on a Provider does so with a switch over these constants, and
// anything outside the set is rejected before it reaches provider-specific
// logic. We use a named string type (not iota ints) so the value reads
// naturally in JSON, logs, and URLs ("github", not 0).
type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderGoogle Provider = "google"
)

// ParseProvider converts a raw string (e.g. from a URL segment) into a
// Provider. Returns ("", false) for anything outside the known set.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderGitHub, ProviderGoogle:
		return Provider(s), true
	default:
		return "", false
	}
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	_, ok := ParseProvider(string(p))
	return ok
}
