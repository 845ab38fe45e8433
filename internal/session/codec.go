package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/marco-souza/tremtec/internal/model"
)

// This codec is the sole point where attacker-controllable cookie bytes are
// converted into trusted in-memory identity. Decode must reject anything
// that is not exactly a valid envelope — there is no partial trust.
//
// KNOWN LIMITATION (kept intentionally):
// The payload is NOT cryptographically signed or encrypted; it is plain JSON
// behind base64. Confidentiality and integrity rest on HTTPS and the cookie
// flags, as they always have for this site. A client that can write its own
// cookies can mint a session that passes Decode. Changing that would change
// observable behavior (and the cookie format), so it stays as is.

// Encode validates the (user, token) envelope and serializes it into a
// cookie-safe string.
//
// The JSON is wrapped in unpadded base64url: raw JSON contains quotes and
// may contain spaces, neither of which net/http will write into a cookie
// value.
func Encode(user model.UserSession, token string) (string, error) {
	envelope := model.SessionEnvelope{User: user, Token: token}
	if err := envelope.Validate(); err != nil {
		return "", fmt.Errorf("session: encoding envelope: %w", err)
	}

	b, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("session: marshaling envelope: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses a raw cookie value back into a validated envelope.
//
// Returns nil — never an error, never a panic — on any failure:
//   - not base64url
//   - not JSON
//   - JSON with unknown fields, at any nesting level
//   - JSON with wrong field types
//   - trailing bytes after the envelope
//   - an envelope that fails full validation (missing login, bad email, ...)
//
// Callers treat nil as "no session"; the request proceeds anonymous.
func Decode(raw string) *model.SessionEnvelope {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var envelope model.SessionEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return nil
	}
	if dec.More() {
		return nil
	}

	if err := envelope.Validate(); err != nil {
		return nil
	}
	return &envelope
}
