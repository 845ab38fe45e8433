// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the auth/session packages:
//
//	handler (HTTP) → AuthService (orchestration) → auth.Normalize
//	                                             → session.Encode
//	                                             → repository.UserRepository
//
// The handler stays pure HTTP (cookies, redirects); this layer owns the
// sequence normalize → encode → record and is testable with a mock
// repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marco-souza/tremtec/internal/auth"
	"github.com/marco-souza/tremtec/internal/model"
	"github.com/marco-souza/tremtec/internal/repository"
	"github.com/marco-souza/tremtec/internal/session"
)

// ErrProfileRejected is returned when a provider callback cannot produce a
// valid session: missing token/profile, unknown provider, or a payload that
// fails normalization. Handlers translate it into the per-provider error
// redirect; it never becomes a 5xx.
var ErrProfileRejected = errors.New("provider profile rejected")

// AuthService completes OAuth logins.
type AuthService struct {
	users  repository.UserRepository // nil when the login directory is disabled
	logger *slog.Logger
}

// NewAuthService creates an AuthService. users may be nil: the login
// directory is optional and the flow works identically without it.
func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// CompleteOAuth turns a provider callback result into an encoded session
// cookie value.
//
// Preconditions: both the access token and the raw profile must be present;
// absence of either fails immediately.
//
// Steps:
//  1. Normalize the payload into the canonical user (nil → rejected)
//  2. Encode the {user, token} envelope into the cookie value
//  3. Record the login in the directory — best effort: a storage failure is
//     logged but never fails an otherwise valid login
func (s *AuthService) CompleteOAuth(ctx context.Context, provider model.Provider, payload map[string]any, token string) (string, error) {
	if token == "" || len(payload) == 0 {
		return "", fmt.Errorf("service/auth: %s callback missing token or profile: %w", provider, ErrProfileRejected)
	}

	user := auth.Normalize(provider, payload)
	if user == nil {
		return "", fmt.Errorf("service/auth: normalizing %s profile: %w", provider, ErrProfileRejected)
	}

	value, err := session.Encode(*user, token)
	if err != nil {
		return "", fmt.Errorf("service/auth: encoding session for %s/%s: %w", provider, user.Login, err)
	}

	if s.users != nil {
		record := &model.User{
			Provider:  user.Provider,
			Login:     user.Login,
			Name:      user.Name,
			Email:     user.Email,
			AvatarURL: user.Avatar,
		}
		if err := s.users.Upsert(ctx, record); err != nil {
			s.logger.Warn("recording login failed",
				slog.String("provider", string(provider)),
				slog.String("login", user.Login),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("user authenticated",
		slog.String("provider", string(provider)),
		slog.String("login", user.Login),
	)

	return value, nil
}
