// Package team handles team workflows. Every mutation passes through
// the authorization matrix before touching the store.
package team

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
	"github.com/ttithipan/67011671-Todo/internal/service/authz"
)

var (
	// ErrInvalidName rejects blank team names.
	ErrInvalidName = errors.New("team: name is required")
	// ErrAlreadyMember indicates the (team, user) pair already exists.
	ErrAlreadyMember = errors.New("team: user is already a member")
	// ErrPersonalTeam rejects membership and name changes on the
	// shared personal team, which is seeded once and joined only
	// through registration.
	ErrPersonalTeam = errors.New("team: the personal team cannot be modified")
)

// Service handles team workflows.
type Service struct {
	repo   repository.TeamRepository
	authz  authz.Service
	logger *slog.Logger
}

// New constructs a Service.
func New(repo repository.TeamRepository, authority authz.Service, logger *slog.Logger) Service {
	return Service{repo: repo, authz: authority, logger: logger}
}

// Create registers a team with the creator as its first leader.
func (s Service) Create(ctx context.Context, creatorID int64, name string) (*domain.Team, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	team := &domain.Team{Name: name}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	member := &domain.Membership{TeamID: team.ID, UserID: creatorID, Role: domain.RoleLeader}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("add creator as leader: %w", err)
	}
	s.logger.Info("team created", "team_id", team.ID, "creator_id", creatorID)
	return team, nil
}

// Rename updates the team display name. Leader only.
func (s Service) Rename(ctx context.Context, callerID, teamID int64, name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if teamID == domain.PersonalTeamID {
		return ErrPersonalTeam
	}
	if err := s.authz.Authorize(ctx, callerID, teamID, authz.ActionRenameTeam, nil); err != nil {
		return err
	}
	return s.repo.RenameTeam(ctx, teamID, name)
}

// AddMember joins a user to a team. Leader only; an omitted role
// defaults to member. Leaders cannot self-escalate through this path:
// an existing membership is a conflict, never an update.
func (s Service) AddMember(ctx context.Context, callerID, teamID, userID int64, role domain.Role) error {
	if teamID == domain.PersonalTeamID {
		return ErrPersonalTeam
	}
	if role == domain.RoleNone {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return fmt.Errorf("team: invalid role %q", role)
	}
	if err := s.authz.Authorize(ctx, callerID, teamID, authz.ActionManageMembers, nil); err != nil {
		return err
	}
	member := &domain.Membership{TeamID: teamID, UserID: userID, Role: role}
	if err := s.repo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyMember
		}
		return err
	}
	s.logger.Info("member added", "team_id", teamID, "user_id", userID, "role", string(role))
	return nil
}

// RemoveMember deletes a membership. Leader only.
func (s Service) RemoveMember(ctx context.Context, callerID, teamID, userID int64) error {
	if teamID == domain.PersonalTeamID {
		return ErrPersonalTeam
	}
	if err := s.authz.Authorize(ctx, callerID, teamID, authz.ActionManageMembers, nil); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}
	s.logger.Info("member removed", "team_id", teamID, "user_id", userID, "by", callerID)
	return nil
}

// ListMemberships enumerates the caller's own memberships.
func (s Service) ListMemberships(ctx context.Context, callerID int64) ([]domain.Membership, error) {
	return s.repo.ListMembershipsByUser(ctx, callerID)
}

// TeamNames resolves team identifiers to their display names.
func (s Service) TeamNames(ctx context.Context, teamIDs []int64) ([]domain.Team, error) {
	return s.repo.ListTeamsByIDs(ctx, teamIDs)
}

// ListMembersByTeams returns membership rows for the given teams.
func (s Service) ListMembersByTeams(ctx context.Context, teamIDs []int64) ([]domain.Membership, error) {
	return s.repo.ListMembersByTeams(ctx, teamIDs)
}
