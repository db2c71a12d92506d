// Package task implements todo workflows on top of the authorization
// matrix. Task-level mutations load the row first so the matrix can
// weigh ownership and assignment against the caller's role.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
	"github.com/ttithipan/67011671-Todo/internal/service/authz"
)

var (
	// ErrInvalidTask rejects blank task text.
	ErrInvalidTask = errors.New("task: text is required")
	// ErrAssigneeNotMember rejects assignment to someone outside the
	// team.
	ErrAssigneeNotMember = errors.New("task: assignee is not a team member")
)

// Service handles task workflows.
type Service struct {
	repo   repository.TaskRepository
	authz  authz.Service
	logger *slog.Logger
}

// New constructs a Service.
func New(repo repository.TaskRepository, authority authz.Service, logger *slog.Logger) Service {
	return Service{repo: repo, authz: authority, logger: logger}
}

// List returns the tasks visible to the caller in a team. The shared
// personal team is scoped to the caller's own rows.
func (s Service) List(ctx context.Context, callerID, teamID int64) ([]domain.Task, error) {
	if err := s.authz.Authorize(ctx, callerID, teamID, authz.ActionReadTasks, nil); err != nil {
		return nil, err
	}
	if teamID == domain.PersonalTeamID {
		return s.repo.ListTasksByTeamAndOwner(ctx, teamID, callerID)
	}
	return s.repo.ListTasksByTeam(ctx, teamID)
}

// Create inserts a task owned by the caller.
func (s Service) Create(ctx context.Context, callerID, teamID int64, text string, assigneeID *int64) (*domain.Task, error) {
	if text == "" {
		return nil, ErrInvalidTask
	}
	if err := s.authz.Authorize(ctx, callerID, teamID, authz.ActionCreateTask, nil); err != nil {
		return nil, err
	}
	if assigneeID != nil {
		if err := s.requireMember(ctx, *assigneeID, teamID); err != nil {
			return nil, err
		}
	}
	task := &domain.Task{
		OwnerID:    callerID,
		TeamID:     teamID,
		AssigneeID: assigneeID,
		Task:       text,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task created", "task_id", task.ID, "team_id", teamID, "owner_id", callerID)
	return task, nil
}

// SetDone toggles the completion flag.
func (s Service) SetDone(ctx context.Context, callerID, taskID int64, done bool) error {
	task, err := s.authorizeOnTask(ctx, callerID, taskID, authz.ActionUpdateTask)
	if err != nil {
		return err
	}
	return s.repo.UpdateTaskDone(ctx, task.ID, done)
}

// SetTargetDate sets the due date.
func (s Service) SetTargetDate(ctx context.Context, callerID, taskID int64, target time.Time) error {
	task, err := s.authorizeOnTask(ctx, callerID, taskID, authz.ActionUpdateTask)
	if err != nil {
		return err
	}
	return s.repo.UpdateTaskTargetDate(ctx, task.ID, target)
}

// Reassign moves the task to another assignee (nil clears it). Leader
// only, and the new assignee must belong to the task's team.
func (s Service) Reassign(ctx context.Context, callerID, taskID int64, assigneeID *int64) error {
	task, err := s.authorizeOnTask(ctx, callerID, taskID, authz.ActionReassignTask)
	if err != nil {
		return err
	}
	if assigneeID != nil {
		if err := s.requireMember(ctx, *assigneeID, task.TeamID); err != nil {
			return err
		}
	}
	if err := s.repo.UpdateTaskAssignee(ctx, task.ID, assigneeID); err != nil {
		return err
	}
	s.logger.Info("task reassigned", "task_id", task.ID, "by", callerID)
	return nil
}

// Delete removes a task. Owner always; leader for any task in their
// team outside the personal scope.
func (s Service) Delete(ctx context.Context, callerID, taskID int64) error {
	task, err := s.authorizeOnTask(ctx, callerID, taskID, authz.ActionDeleteTask)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, task.ID); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", task.ID, "by", callerID)
	return nil
}

// authorizeOnTask loads the row and runs the matrix against the
// task's own team, so a forged team id in the request cannot widen
// access.
func (s Service) authorizeOnTask(ctx context.Context, callerID, taskID int64, action authz.Action) (*domain.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, callerID, task.TeamID, action, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s Service) requireMember(ctx context.Context, userID, teamID int64) error {
	role, err := s.authz.RoleOf(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if role == domain.RoleNone {
		return fmt.Errorf("%w: user %d in team %d", ErrAssigneeNotMember, userID, teamID)
	}
	return nil
}
