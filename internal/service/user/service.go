// Package user handles profile updates.
package user

import (
	"context"
	"errors"
	"strings"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/repository"
)

var (
	// ErrInvalidUsername rejects blank usernames.
	ErrInvalidUsername = errors.New("user: username is required")
	// ErrUsernameTaken indicates the username is already in use.
	ErrUsernameTaken = errors.New("user: username taken")
)

// Service handles profile workflows.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger) Service {
	return Service{users: users, logger: logger}
}

// UpdateUsername sets the caller's public username. Uniqueness is
// enforced by the store's constraint so two concurrent claims cannot
// both win.
func (s Service) UpdateUsername(ctx context.Context, callerID int64, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidUsername
	}
	if err := s.users.UpdateUsername(ctx, callerID, username); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUsernameTaken
		}
		return err
	}
	s.logger.Info("username updated", "user_id", callerID)
	return nil
}
