// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a row in the login directory: a record of everyone who has signed
// in through one of the OAuth providers.
//
// This is NOT the session. The session lives entirely in the client's cookie
// (see UserSession/SessionEnvelope); the directory is a write-behind record
// updated on successful logins so the site owner can see who signed up. No
// request is ever authenticated against this table.
//
// IDENTITY:
// The natural key is (provider, login) — a GitHub "octocat" and a Google
// "octocat" are different people. We still generate our own internal string
// ID (xid) so primary keys aren't tied to a third party's handle.
type User struct {
	ID          string    `json:"id"          db:"id"`
	Provider    Provider  `json:"provider"    db:"provider"`
	Login       string    `json:"login"       db:"login"`
	Name        string    `json:"name"        db:"name"`
	Email       string    `json:"email"       db:"email"`
	AvatarURL   string    `json:"avatarUrl"   db:"avatar_url"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
	LastLoginAt time.Time `json:"lastLoginAt" db:"last_login_at"`
}
