// Package session binds authenticated users to opaque, revocable
// session references. Only the user id is stored; every resolution
// re-fetches the account row so downstream code always sees current
// data and a deleted account immediately invalidates its sessions.
package session

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
)

// ErrUnauthenticated indicates the request carries no resolvable
// session. Callers must treat a dangling reference (expired, revoked,
// or pointing at a deleted user) exactly like "not logged in".
var ErrUnauthenticated = errors.New("session: unauthenticated")

// Store persists the reference-to-user mapping.
type Store interface {
	Put(ctx context.Context, ref string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, ref string) (int64, error)
	Delete(ctx context.Context, ref string) error
}

// Binder issues and resolves session references.
type Binder struct {
	store  Store
	users  repository.UserRepository
	ttl    time.Duration
	logger *slog.Logger
}

// NewBinder constructs a Binder.
func NewBinder(store Store, users repository.UserRepository, ttl time.Duration, logger *slog.Logger) Binder {
	return Binder{store: store, users: users, ttl: ttl, logger: logger}
}

// Bind stores the user's id under a fresh opaque reference.
func (b Binder) Bind(ctx context.Context, user *domain.User) (string, error) {
	ref := uuid.NewString()
	if err := b.store.Put(ctx, ref, user.ID, b.ttl); err != nil {
		return "", err
	}
	b.logger.Info("session bound", "user_id", user.ID)
	return ref, nil
}

// Resolve rehydrates the full user from a session reference. The row
// is fetched fresh on every call; there is no cached identity.
func (b Binder) Resolve(ctx context.Context, ref string) (*domain.User, error) {
	if ref == "" {
		return nil, ErrUnauthenticated
	}
	userID, err := b.store.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	user, err := b.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Account deleted after the session was issued.
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// Revoke destroys a session reference.
func (b Binder) Revoke(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return b.store.Delete(ctx, ref)
}
