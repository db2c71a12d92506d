package user

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/repository"
)

type userRepoMock struct {
	repository.UserRepository
	updateUsernameFunc func(ctx context.Context, id int64, username string) error
}

func (m *userRepoMock) UpdateUsername(ctx context.Context, id int64, username string) error {
	return m.updateUsernameFunc(ctx, id, username)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpdateUsername(t *testing.T) {
	repo := &userRepoMock{updateUsernameFunc: func(_ context.Context, id int64, username string) error {
		if id != 7 || username != "ada" {
			t.Fatalf("unexpected update: id=%d username=%q", id, username)
		}
		return nil
	}}
	svc := New(repo, newLogger())
	if err := svc.UpdateUsername(context.Background(), 7, "  ada  "); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestUpdateUsernameTaken(t *testing.T) {
	repo := &userRepoMock{updateUsernameFunc: func(_ context.Context, _ int64, _ string) error {
		return repository.ErrDuplicate
	}}
	svc := New(repo, newLogger())
	if err := svc.UpdateUsername(context.Background(), 7, "ada"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateUsernameBlank(t *testing.T) {
	svc := New(&userRepoMock{}, newLogger())
	if err := svc.UpdateUsername(context.Background(), 7, "   "); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
}
