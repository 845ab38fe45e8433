// Package repository defines the storage interfaces consumed by the service
// layer. Concrete implementations live in subpackages (sqlite); the service
// only ever sees these interfaces, so storage can be swapped or disabled
// without touching business logic.
package repository

import (
	"context"

	"github.com/marco-souza/tremtec/internal/model"
)

// ListOptions carries paging parameters for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the login directory: a record of everyone who has signed
// in, keyed by (provider, login). Upsert runs on every successful OAuth
// callback; the read side exists for the admin's benefit, never for request
// authentication.
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByLogin(ctx context.Context, provider model.Provider, login string) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
}
