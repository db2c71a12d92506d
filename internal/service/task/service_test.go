package task

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
	"github.com/ttithipan/67011671-Todo/internal/service/authz"
)

type taskRepoMock struct {
	repository.TaskRepository
	createFunc          func(ctx context.Context, task *domain.Task) error
	getByIDFunc         func(ctx context.Context, id int64) (*domain.Task, error)
	listByTeamFunc      func(ctx context.Context, teamID int64) ([]domain.Task, error)
	listByTeamOwnerFunc func(ctx context.Context, teamID, ownerID int64) ([]domain.Task, error)
	updateDoneFunc      func(ctx context.Context, id int64, done bool) error
	updateAssigneeFunc  func(ctx context.Context, id int64, assigneeID *int64) error
	deleteFunc          func(ctx context.Context, id int64) error
}

func (m *taskRepoMock) CreateTask(ctx context.Context, task *domain.Task) error {
	return m.createFunc(ctx, task)
}

func (m *taskRepoMock) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *taskRepoMock) ListTasksByTeam(ctx context.Context, teamID int64) ([]domain.Task, error) {
	return m.listByTeamFunc(ctx, teamID)
}

func (m *taskRepoMock) ListTasksByTeamAndOwner(ctx context.Context, teamID, ownerID int64) ([]domain.Task, error) {
	return m.listByTeamOwnerFunc(ctx, teamID, ownerID)
}

func (m *taskRepoMock) UpdateTaskDone(ctx context.Context, id int64, done bool) error {
	return m.updateDoneFunc(ctx, id, done)
}

func (m *taskRepoMock) UpdateTaskAssignee(ctx context.Context, id int64, assigneeID *int64) error {
	return m.updateAssigneeFunc(ctx, id, assigneeID)
}

func (m *taskRepoMock) DeleteTask(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

type teamRepoMock struct {
	repository.TeamRepository
	rows map[[2]int64]domain.Role
}

func (m *teamRepoMock) GetMembership(_ context.Context, teamID, userID int64) (*domain.Membership, error) {
	role, ok := m.rows[[2]int64{teamID, userID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.Membership{TeamID: teamID, UserID: userID, Role: role}, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	leaderID   int64 = 1
	memberID   int64 = 2
	otherID    int64 = 3
	strangerID int64 = 9
	teamID     int64 = 5
)

func teamRows() *teamRepoMock {
	return &teamRepoMock{rows: map[[2]int64]domain.Role{
		{teamID, leaderID}: domain.RoleLeader,
		{teamID, memberID}: domain.RoleMember,
		{teamID, otherID}:  domain.RoleMember,
	}}
}

func newService(repo *taskRepoMock, teams *teamRepoMock) Service {
	return New(repo, authz.New(teams, newLogger()), newLogger())
}

func TestListTeamTasks(t *testing.T) {
	repo := &taskRepoMock{listByTeamFunc: func(_ context.Context, id int64) ([]domain.Task, error) {
		if id != teamID {
			t.Fatalf("unexpected team id: %d", id)
		}
		return []domain.Task{{ID: 1, TeamID: teamID}}, nil
	}}
	svc := newService(repo, teamRows())

	tasks, err := svc.List(context.Background(), memberID, teamID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}
}

func TestListDeniedForNonMember(t *testing.T) {
	svc := newService(&taskRepoMock{}, teamRows())
	if _, err := svc.List(context.Background(), strangerID, teamID); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member read, got %v", err)
	}
}

func TestListPersonalTeamScopesToOwner(t *testing.T) {
	teams := &teamRepoMock{rows: map[[2]int64]domain.Role{
		{domain.PersonalTeamID, memberID}: domain.RoleLeader,
	}}
	repo := &taskRepoMock{listByTeamOwnerFunc: func(_ context.Context, tID, ownerID int64) ([]domain.Task, error) {
		if tID != domain.PersonalTeamID || ownerID != memberID {
			t.Fatalf("expected owner-scoped personal listing, got team=%d owner=%d", tID, ownerID)
		}
		return nil, nil
	}}
	svc := newService(repo, teams)
	if _, err := svc.List(context.Background(), memberID, domain.PersonalTeamID); err != nil {
		t.Fatalf("list personal: %v", err)
	}
}

func TestCreateTask(t *testing.T) {
	repo := &taskRepoMock{createFunc: func(_ context.Context, task *domain.Task) error {
		if task.OwnerID != memberID || task.TeamID != teamID {
			t.Fatalf("unexpected ownership: %+v", task)
		}
		task.ID = 10
		return nil
	}}
	svc := newService(repo, teamRows())

	task, err := svc.Create(context.Background(), memberID, teamID, "write tests", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != 10 {
		t.Fatalf("expected persisted id, got %d", task.ID)
	}
}

func TestCreateRejectsOutsideAssignee(t *testing.T) {
	svc := newService(&taskRepoMock{}, teamRows())
	outside := strangerID
	if _, err := svc.Create(context.Background(), memberID, teamID, "x", &outside); !errors.Is(err, ErrAssigneeNotMember) {
		t.Fatalf("expected ErrAssigneeNotMember, got %v", err)
	}
}

func TestSetDoneOwnTask(t *testing.T) {
	updated := false
	repo := &taskRepoMock{
		getByIDFunc: func(_ context.Context, id int64) (*domain.Task, error) {
			return &domain.Task{ID: id, OwnerID: memberID, TeamID: teamID}, nil
		},
		updateDoneFunc: func(_ context.Context, _ int64, done bool) error {
			if !done {
				t.Fatalf("expected done=true")
			}
			updated = true
			return nil
		},
	}
	svc := newService(repo, teamRows())
	if err := svc.SetDone(context.Background(), memberID, 10, true); err != nil {
		t.Fatalf("set done: %v", err)
	}
	if !updated {
		t.Fatalf("expected update to reach the store")
	}
}

func TestDeleteMatrix(t *testing.T) {
	deleted := 0
	repo := &taskRepoMock{
		getByIDFunc: func(_ context.Context, id int64) (*domain.Task, error) {
			// Task created by memberID.
			return &domain.Task{ID: id, OwnerID: memberID, TeamID: teamID}, nil
		},
		deleteFunc: func(_ context.Context, _ int64) error {
			deleted++
			return nil
		},
	}
	svc := newService(repo, teamRows())

	// A different member cannot delete someone else's task.
	if err := svc.Delete(context.Background(), otherID, 10); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected other member delete to be forbidden, got %v", err)
	}
	// The owner can.
	if err := svc.Delete(context.Background(), memberID, 10); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	// The leader can delete any task in the team.
	if err := svc.Delete(context.Background(), leaderID, 10); err != nil {
		t.Fatalf("leader delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected two deletions to reach the store, got %d", deleted)
	}
}

func TestReassignLeaderOnlyAndMemberCheck(t *testing.T) {
	var assigned *int64
	repo := &taskRepoMock{
		getByIDFunc: func(_ context.Context, id int64) (*domain.Task, error) {
			return &domain.Task{ID: id, OwnerID: memberID, TeamID: teamID}, nil
		},
		updateAssigneeFunc: func(_ context.Context, _ int64, assigneeID *int64) error {
			assigned = assigneeID
			return nil
		},
	}
	svc := newService(repo, teamRows())

	target := otherID
	if err := svc.Reassign(context.Background(), memberID, 10, &target); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected member reassign to be forbidden, got %v", err)
	}
	if err := svc.Reassign(context.Background(), leaderID, 10, &target); err != nil {
		t.Fatalf("leader reassign: %v", err)
	}
	if assigned == nil || *assigned != otherID {
		t.Fatalf("expected assignee to be stored, got %v", assigned)
	}
	outside := strangerID
	if err := svc.Reassign(context.Background(), leaderID, 10, &outside); !errors.Is(err, ErrAssigneeNotMember) {
		t.Fatalf("expected ErrAssigneeNotMember, got %v", err)
	}
}

func TestMutationAfterRemovalForbidden(t *testing.T) {
	teams := teamRows()
	repo := &taskRepoMock{
		getByIDFunc: func(_ context.Context, id int64) (*domain.Task, error) {
			return &domain.Task{ID: id, OwnerID: memberID, TeamID: teamID}, nil
		},
		updateDoneFunc: func(_ context.Context, _ int64, _ bool) error { return nil },
	}
	svc := newService(repo, teams)

	if err := svc.SetDone(context.Background(), memberID, 10, true); err != nil {
		t.Fatalf("member update before removal: %v", err)
	}
	delete(teams.rows, [2]int64{teamID, memberID})
	if err := svc.SetDone(context.Background(), memberID, 10, true); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected forbidden immediately after removal, got %v", err)
	}
}
