package repository

import (
	"context"
	"time"

	"github.com/ttithipan/67011671-Todo/internal/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	// CreateUserWithMembership inserts the user and a membership row
	// in one atomic write. member.UserID is taken from the generated
	// user id. Neither row survives if the other insert fails.
	CreateUserWithMembership(ctx context.Context, user *domain.User, member *domain.Membership) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	UpdateFullName(ctx context.Context, id int64, fullName string) error
	LinkGoogleID(ctx context.Context, id int64, googleID, fullName string) error
	UpdateUsername(ctx context.Context, id int64, username string) error
}

// TeamRepository manages teams and memberships.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *domain.Team) error
	GetTeamByID(ctx context.Context, teamID int64) (*domain.Team, error)
	RenameTeam(ctx context.Context, teamID int64, name string) error
	ListTeamsByIDs(ctx context.Context, teamIDs []int64) ([]domain.Team, error)

	AddMember(ctx context.Context, member *domain.Membership) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
	GetMembership(ctx context.Context, teamID, userID int64) (*domain.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID int64) ([]domain.Membership, error)
	ListMembersByTeams(ctx context.Context, teamIDs []int64) ([]domain.Membership, error)
}

// TaskRepository persists todo items.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTaskByID(ctx context.Context, id int64) (*domain.Task, error)
	ListTasksByTeam(ctx context.Context, teamID int64) ([]domain.Task, error)
	ListTasksByTeamAndOwner(ctx context.Context, teamID, ownerID int64) ([]domain.Task, error)
	UpdateTaskDone(ctx context.Context, id int64, done bool) error
	UpdateTaskTargetDate(ctx context.Context, id int64, target time.Time) error
	UpdateTaskAssignee(ctx context.Context, id int64, assigneeID *int64) error
	DeleteTask(ctx context.Context, id int64) error
}
