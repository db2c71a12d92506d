package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
)

// CreateTeam creates a team record.
func (r *Repository) CreateTeam(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return fmt.Errorf("team required")
	}
	const query = `INSERT INTO teams (name) VALUES ($1) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, team.Name).Scan(&team.ID, &team.CreatedAt)
	return translateError(err)
}

// GetTeamByID fetches a team.
func (r *Repository) GetTeamByID(ctx context.Context, teamID int64) (*domain.Team, error) {
	const query = `SELECT id, name, created_at FROM teams WHERE id = $1`
	var t domain.Team
	if err := r.pool.QueryRow(ctx, query, teamID).Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// RenameTeam updates the team display name.
func (r *Repository) RenameTeam(ctx context.Context, teamID int64, name string) error {
	const query = `UPDATE teams SET name = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, teamID, name)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListTeamsByIDs returns teams matching the given identifiers.
func (r *Repository) ListTeamsByIDs(ctx context.Context, teamIDs []int64) ([]domain.Team, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, name, created_at FROM teams WHERE id = ANY($1) ORDER BY id`
	rows, err := r.pool.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]domain.Team, 0, len(teamIDs))
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// AddMember inserts a membership row.
func (r *Repository) AddMember(ctx context.Context, member *domain.Membership) error {
	if member == nil {
		return fmt.Errorf("membership required")
	}
	const query = `INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3) RETURNING joined_at`
	err := r.pool.QueryRow(ctx, query, member.TeamID, member.UserID, string(member.Role)).Scan(&member.JoinedAt)
	return translateError(err)
}

// RemoveMember deletes a membership row.
func (r *Repository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	const query = `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetMembership fetches the membership row for a (team, user) pair.
func (r *Repository) GetMembership(ctx context.Context, teamID, userID int64) (*domain.Membership, error) {
	const query = `SELECT team_id, user_id, role, joined_at
		FROM team_members WHERE team_id = $1 AND user_id = $2`
	var m domain.Membership
	var role string
	err := r.pool.QueryRow(ctx, query, teamID, userID).Scan(&m.TeamID, &m.UserID, &role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	m.Role = domain.Role(role)
	return &m, nil
}

// ListMembershipsByUser enumerates a user's memberships.
func (r *Repository) ListMembershipsByUser(ctx context.Context, userID int64) ([]domain.Membership, error) {
	const query = `SELECT team_id, user_id, role, joined_at
		FROM team_members WHERE user_id = $1 ORDER BY team_id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

// ListMembersByTeams enumerates membership rows across teams.
func (r *Repository) ListMembersByTeams(ctx context.Context, teamIDs []int64) ([]domain.Membership, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT team_id, user_id, role, joined_at
		FROM team_members WHERE team_id = ANY($1) ORDER BY team_id, user_id`
	rows, err := r.pool.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func scanMemberships(rows pgx.Rows) ([]domain.Membership, error) {
	members := make([]domain.Membership, 0)
	for rows.Next() {
		var m domain.Membership
		var role string
		if err := rows.Scan(&m.TeamID, &m.UserID, &role, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}
