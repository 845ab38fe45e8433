// Package auth implements the OAuth provider integrations and the
// normalization of provider profiles into the canonical session record.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User hits /api/auth/github (or /google) with no code → redirected to
//    the provider's authorization page with a random state
// 2. The provider redirects back to the same URL with ?code=...&state=...
// 3. Server exchanges the code for an access token and fetches the raw
//    profile from the provider's user-info endpoint
// 4. Normalize() maps the provider-specific payload into a UserSession
// 5. The session codec serializes {user, token} into the session cookie
//
// The exchange happens server-to-server using the client secret; the access
// token itself is only ever stored inside the session envelope, opaque.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/marco-souza/tremtec/internal/model"
)

// Provider is one OAuth identity service wired into the login flow.
//
// Exchange returns the raw profile as a loosely-typed map on purpose: each
// provider's user-info response has a different shape, and Normalize is the
// single place that knows the field mappings. Keeping the payload untyped
// here means a provider adapter can't accidentally pre-trust fields.
type Provider interface {
	// Name returns the provider identifier ("github", "google").
	Name() model.Provider

	// AuthURL returns the provider authorization URL carrying the given
	// anti-CSRF state value.
	AuthURL(state string) string

	// Exchange trades the authorization code for the provider access token
	// and the raw user profile. Both must be present on success.
	Exchange(ctx context.Context, code string) (payload map[string]any, token string, err error)
}

// githubProvider wraps golang.org/x/oauth2 for the GitHub Authorization
// Code flow.
type githubProvider struct {
	config *oauth2.Config
}

// NewGitHub creates the GitHub provider.
//
// Scopes:
//   - "read:user"   — public profile (login, name, avatar)
//   - "user:email"  — email addresses
//
// callbackURL must exactly match the "Authorization callback URL" configured
// in the GitHub OAuth app settings.
func NewGitHub(clientID, clientSecret, callbackURL string) Provider {
	return &githubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *githubProvider) Name() model.Provider { return model.ProviderGitHub }

func (p *githubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *githubProvider) Exchange(ctx context.Context, code string) (map[string]any, string, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("auth: exchanging GitHub code: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, "", fmt.Errorf("auth: GitHub returned an empty access token")
	}

	payload, err := fetchProfile(ctx, p.config, tok, "https://api.github.com/user")
	if err != nil {
		return nil, "", fmt.Errorf("auth: fetching GitHub profile: %w", err)
	}
	return payload, tok.AccessToken, nil
}

// googleProvider wraps golang.org/x/oauth2 for the Google OpenID Connect
// code flow. We only use the plain userinfo endpoint — no ID-token parsing.
type googleProvider struct {
	config *oauth2.Config
}

// NewGoogle creates the Google provider. The scopes mirror what the site has
// always requested: openid, email, profile.
func NewGoogle(clientID, clientSecret, callbackURL string) Provider {
	return &googleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) Name() model.Provider { return model.ProviderGoogle }

func (p *googleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (map[string]any, string, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("auth: exchanging Google code: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, "", fmt.Errorf("auth: Google returned an empty access token")
	}

	payload, err := fetchProfile(ctx, p.config, tok, "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, "", fmt.Errorf("auth: fetching Google profile: %w", err)
	}
	return payload, tok.AccessToken, nil
}

// fetchProfile calls a provider user-info endpoint with the freshly issued
// token and decodes the JSON body into a loosely-typed map.
//
// oauth2.Config.Client returns an *http.Client that attaches the
// "Authorization: Bearer <token>" header to every request.
func fetchProfile(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, endpoint string) (map[string]any, error) {
	client := cfg.Client(ctx, tok)

	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user-info endpoint returned status %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding user-info response: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("user-info endpoint returned an empty profile")
	}
	return payload, nil
}
