package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
)

const userColumns = `id, email, password_hash, salt, google_id, full_name, username, avatar, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Salt,
		&u.GoogleID,
		&u.FullName,
		&u.Username,
		&u.Avatar,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an account and fills in its generated id.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("user required")
	}
	const query = `INSERT INTO users (email, password_hash, salt, google_id, full_name, username, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.GoogleID,
		user.FullName,
		user.Username,
		user.Avatar,
	).Scan(&user.ID, &user.CreatedAt)
	return translateError(err)
}

// CreateUserWithMembership inserts the account and its team membership
// in one transaction, so a registration never leaves a user behind
// without its personal team row.
func (r *Repository) CreateUserWithMembership(ctx context.Context, user *domain.User, member *domain.Membership) error {
	if user == nil || member == nil {
		return fmt.Errorf("user and membership required")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertUser = `INSERT INTO users (email, password_hash, salt, google_id, full_name, username, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err = tx.QueryRow(ctx, insertUser,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.GoogleID,
		user.FullName,
		user.Username,
		user.Avatar,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return translateError(err)
	}

	member.UserID = user.ID
	const insertMember = `INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3) RETURNING joined_at`
	err = tx.QueryRow(ctx, insertMember, member.TeamID, member.UserID, string(member.Role)).Scan(&member.JoinedAt)
	if err != nil {
		return translateError(err)
	}

	return tx.Commit(ctx)
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetUserByEmail fetches a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByGoogleID fetches a user by linked federated identifier.
func (r *Repository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, googleID))
}

// UpdateFullName refreshes the display name.
func (r *Repository) UpdateFullName(ctx context.Context, id int64, fullName string) error {
	const query = `UPDATE users SET full_name = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, fullName)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LinkGoogleID attaches a federated identity to an existing account
// and refreshes the display name at the same time.
func (r *Repository) LinkGoogleID(ctx context.Context, id int64, googleID, fullName string) error {
	const query = `UPDATE users SET google_id = $2, full_name = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, googleID, fullName)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateUsername sets the unique public username.
func (r *Repository) UpdateUsername(ctx context.Context, id int64, username string) error {
	const query = `UPDATE users SET username = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, username)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
