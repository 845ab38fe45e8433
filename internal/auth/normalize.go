package auth

import (
	"strings"

	"github.com/marco-souza/tremtec/internal/model"
)

// Normalize maps a provider-specific profile payload into the canonical
// UserSession, or returns nil if the payload cannot produce a valid record.
//
// CONTRACT:
// - Pure function: no I/O, no side effects, no logging.
// - Unknown providers return nil before any field mapping runs.
// - Failure is total: either the candidate passes full validation or the
//   caller gets nil. A payload with a well-formed login but a malformed
//   email yields nil, never a partial record.
//
// FIELD MAPPINGS (one case per provider, the set is closed):
//
//	github: name ← name | login | "GitHub User"
//	        login ← login (required)
//	        email ← email, avatar ← avatar_url
//	google: name ← name | "Google User"
//	        login ← local part of email | "user"
//	        email ← email, avatar ← picture
func Normalize(provider model.Provider, payload map[string]any) *model.UserSession {
	var candidate model.UserSession

	switch provider {
	case model.ProviderGitHub:
		login := stringField(payload, "login")
		candidate = model.UserSession{
			Name:     firstNonEmpty(stringField(payload, "name"), login, "GitHub User"),
			Login:    login,
			Email:    stringField(payload, "email"),
			Provider: model.ProviderGitHub,
			Avatar:   stringField(payload, "avatar_url"),
		}

	case model.ProviderGoogle:
		email := stringField(payload, "email")
		candidate = model.UserSession{
			Name:     firstNonEmpty(stringField(payload, "name"), "Google User"),
			Login:    firstNonEmpty(emailLocalPart(email), "user"),
			Email:    email,
			Provider: model.ProviderGoogle,
			Avatar:   stringField(payload, "picture"),
		}

	default:
		return nil
	}

	if err := candidate.Validate(); err != nil {
		return nil
	}
	return &candidate
}

// stringField extracts a string value from the loosely-typed payload.
// Missing keys and non-string values both come back as "".
func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

// firstNonEmpty returns the first non-empty value, mirroring the `a || b`
// fallback chains the provider mappings are specified with.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// emailLocalPart returns the part of addr before the first "@".
// An addr without "@" is returned whole; validation downstream decides
// whether the record as a whole is acceptable.
func emailLocalPart(addr string) string {
	return strings.Split(addr, "@")[0]
}
