// Package postgres implements the repository interfaces on PostgreSQL
// via pgx. Constraint violations are translated to the repository
// sentinel errors so services never see driver error codes.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ttithipan/67011671-Todo/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository = (*Repository)(nil)
	_ repository.TeamRepository = (*Repository)(nil)
	_ repository.TaskRepository = (*Repository)(nil)
)

// translateError maps PostgreSQL constraint errors to repository
// sentinels. Unique violations become ErrDuplicate so callers can
// surface conflicts (duplicate email, username, membership) without
// inspecting pg error codes.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return repository.ErrDuplicate
		case "23503":
			return repository.ErrNotFound
		case "23514", "22P02":
			return repository.ErrInvalidArgument
		}
	}
	return err
}
