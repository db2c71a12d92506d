// Package authz computes a caller's role within a team and enforces
// the action-permission matrix. Every decision reads the membership
// row fresh from the store, so role changes take effect on the very
// next request.
package authz

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
)

// ErrForbidden indicates the caller is authenticated but their role
// does not permit the action. Distinct from an unauthenticated request
// so clients know not to re-prompt for login.
var ErrForbidden = errors.New("authz: forbidden")

// Service is the team authority.
type Service struct {
	teams  repository.TeamRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(teams repository.TeamRepository, logger *slog.Logger) Service {
	return Service{teams: teams, logger: logger}
}

// RoleOf returns the caller's role in a team, RoleNone when no
// membership row exists.
func (s Service) RoleOf(ctx context.Context, userID, teamID int64) (domain.Role, error) {
	member, err := s.teams.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, err
	}
	return member.Role, nil
}

// Authorize applies the permission matrix for an action against a
// team. Task-level actions must supply the task row; cross-team access
// is denied outright regardless of role.
//
// Inside the personal team every user is a leader of the same shared
// row, so the leader override is suspended there: task mutations fall
// back to owner/assignee checks, keeping personal scopes private.
func (s Service) Authorize(ctx context.Context, userID, teamID int64, action Action, task *domain.Task) error {
	if action.RequiresTask() && task == nil {
		return fmt.Errorf("authz: action %s requires a task", action)
	}
	if task != nil && task.TeamID != teamID {
		s.logger.Warn("cross-team task access denied",
			"user_id", userID, "team_id", teamID, "task_team_id", task.TeamID, "action", action.String())
		return ErrForbidden
	}

	role, err := s.RoleOf(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if role == domain.RoleNone {
		return ErrForbidden
	}

	switch action {
	case ActionReadTasks, ActionCreateTask:
		return nil

	case ActionRenameTeam, ActionManageMembers:
		if role == domain.RoleLeader {
			return nil
		}
		return ErrForbidden

	case ActionReassignTask:
		if role == domain.RoleLeader && teamID != domain.PersonalTeamID {
			return nil
		}
		return ErrForbidden

	case ActionUpdateTask:
		if s.leaderOverride(role, teamID) {
			return nil
		}
		if task.OwnerID == userID || task.AssignedTo(userID) {
			return nil
		}
		return ErrForbidden

	case ActionDeleteTask:
		if s.leaderOverride(role, teamID) {
			return nil
		}
		if task.OwnerID == userID {
			return nil
		}
		return ErrForbidden
	}
	return fmt.Errorf("authz: unhandled action %d", action)
}

// leaderOverride reports whether a leader may act on tasks they do not
// own. Suspended in the personal team where leadership is shared by
// everyone.
func (s Service) leaderOverride(role domain.Role, teamID int64) bool {
	return role == domain.RoleLeader && teamID != domain.PersonalTeamID
}
