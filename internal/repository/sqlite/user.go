package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/marco-souza/tremtec/internal/apperror"
	"github.com/marco-souza/tremtec/internal/model"
	"github.com/marco-souza/tremtec/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert inserts or refreshes a user keyed on (provider, login).
//
// First login creates the row with a fresh xid; subsequent logins keep the
// internal ID and update name/email/avatar in case the user changed them at
// the provider, bumping last_login_at either way. The user struct is updated
// in place so the caller sees the canonical record.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	var existingID string
	var createdAt time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE provider = ? AND login = ?`,
		user.Provider, user.Login,
	).Scan(&existingID, &createdAt)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user %s/%s: %w", user.Provider, user.Login, err)
	}

	now := time.Now()

	if existingID != "" {
		user.ID = existingID
		user.CreatedAt = createdAt
		user.UpdatedAt = now
		user.LastLoginAt = now
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, avatar_url = ?, updated_at = ?, last_login_at = ?
			 WHERE id = ?`,
			user.Name,
			user.Email,
			user.AvatarURL,
			user.UpdatedAt,
			user.LastLoginAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastLoginAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, provider, login, name, email, avatar_url, created_at, updated_at, last_login_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Provider,
		user.Login,
		user.Name,
		user.Email,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s/%s: %w", user.Provider, user.Login, err)
	}

	return nil
}

// GetByLogin retrieves a user by provider and login.
// Returns apperror.ErrNotFound if no such user has ever signed in.
func (db *DB) GetByLogin(ctx context.Context, provider model.Provider, login string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, provider, login, name, email, avatar_url, created_at, updated_at, last_login_at
		 FROM users WHERE provider = ? AND login = ?`,
		provider, login,
	).Scan(
		&u.ID,
		&u.Provider,
		&u.Login,
		&u.Name,
		&u.Email,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", string(provider)+"/"+login)
		}
		return nil, fmt.Errorf("sqlite: getting user %s/%s: %w", provider, login, err)
	}

	return &u, nil
}

// List returns users ordered by most recent login.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, provider, login, name, email, avatar_url, created_at, updated_at, last_login_at
		 FROM users ORDER BY last_login_at DESC LIMIT ? OFFSET ?`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID,
			&u.Provider,
			&u.Login,
			&u.Name,
			&u.Email,
			&u.AvatarURL,
			&u.CreatedAt,
			&u.UpdatedAt,
			&u.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}
