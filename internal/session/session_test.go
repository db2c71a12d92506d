package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
)

type userRepoMock struct {
	repository.UserRepository
	getByIDFunc func(ctx context.Context, id int64) (*domain.User, error)
}

func (m userRepoMock) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBindResolveRoundTrip(t *testing.T) {
	users := userRepoMock{getByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
		if id != 7 {
			t.Fatalf("unexpected lookup id: %d", id)
		}
		return &domain.User{ID: 7, Email: "ada@example.com"}, nil
	}}
	b := NewBinder(NewMemoryStore(), users, time.Hour, newLogger())

	ref, err := b.Bind(context.Background(), &domain.User{ID: 7})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected non-empty session reference")
	}
	user, err := b.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestResolveUnknownReference(t *testing.T) {
	b := NewBinder(NewMemoryStore(), userRepoMock{}, time.Hour, newLogger())
	if _, err := b.Resolve(context.Background(), "nope"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveEmptyReference(t *testing.T) {
	b := NewBinder(NewMemoryStore(), userRepoMock{}, time.Hour, newLogger())
	if _, err := b.Resolve(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveDeletedUser(t *testing.T) {
	users := userRepoMock{getByIDFunc: func(_ context.Context, _ int64) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}}
	b := NewBinder(NewMemoryStore(), users, time.Hour, newLogger())

	ref, err := b.Bind(context.Background(), &domain.User{ID: 9})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, err := b.Resolve(context.Background(), ref); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected deleted user to resolve as unauthenticated, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	users := userRepoMock{getByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
		return &domain.User{ID: id}, nil
	}}
	b := NewBinder(NewMemoryStore(), users, time.Hour, newLogger())

	ref, err := b.Bind(context.Background(), &domain.User{ID: 3})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := b.Revoke(context.Background(), ref); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := b.Resolve(context.Background(), ref); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected revoked session to be unauthenticated, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Put(context.Background(), "ref", 1, time.Nanosecond); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(context.Background(), "ref"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected expired entry to be unauthenticated, got %v", err)
	}
}
