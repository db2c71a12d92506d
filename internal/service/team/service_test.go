package team

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

type teamRepoMock struct {
	repository.TeamRepository
	createTeamFunc    func(ctx context.Context, team *domain.Team) error
	renameFunc        func(ctx context.Context, teamID int64, name string) error
	addMemberFunc     func(ctx context.Context, member *domain.Membership) error
	removeMemberFunc  func(ctx context.Context, teamID, userID int64) error
	getMembershipFunc func(ctx context.Context, teamID, userID int64) (*domain.Membership, error)
}

func (m *teamRepoMock) CreateTeam(ctx context.Context, team *domain.Team) error {
	return m.createTeamFunc(ctx, team)
}

func (m *teamRepoMock) RenameTeam(ctx context.Context, teamID int64, name string) error {
	return m.renameFunc(ctx, teamID, name)
}

func (m *teamRepoMock) AddMember(ctx context.Context, member *domain.Membership) error {
	return m.addMemberFunc(ctx, member)
}

func (m *teamRepoMock) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return m.removeMemberFunc(ctx, teamID, userID)
}

func (m *teamRepoMock) GetMembership(ctx context.Context, teamID, userID int64) (*domain.Membership, error) {
	return m.getMembershipFunc(ctx, teamID, userID)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func roleTable(rows map[[2]int64]domain.Role) func(context.Context, int64, int64) (*domain.Membership, error) {
	return func(_ context.Context, teamID, userID int64) (*domain.Membership, error) {
		role, ok := rows[[2]int64{teamID, userID}]
		if !ok {
			return nil, repository.ErrNotFound
		}
		return &domain.Membership{TeamID: teamID, UserID: userID, Role: role}, nil
	}
}

func newService(repo *teamRepoMock) Service {
	return New(repo, authz.New(repo, newLogger()), newLogger())
}

func TestCreateMakesCreatorLeader(t *testing.T) {
	var member *domain.Membership
	repo := &teamRepoMock{
		createTeamFunc: func(_ context.Context, team *domain.Team) error {
			team.ID = 5
			return nil
		},
		addMemberFunc: func(_ context.Context, m *domain.Membership) error {
			member = m
			return nil
		},
	}
	svc := newService(repo)

	team, err := svc.Create(context.Background(), 1, "backend")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if team.ID != 5 {
		t.Fatalf("unexpected team id: %d", team.ID)
	}
	if member == nil || member.Role != domain.RoleLeader || member.UserID != 1 {
		t.Fatalf("expected creator as leader, got %+v", member)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := newService(&teamRepoMock{})
	if _, err := svc.Create(context.Background(), 1, ""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestRenameLeaderOnly(t *testing.T) {
	renamed := ""
	repo := &teamRepoMock{
		getMembershipFunc: roleTable(map[[2]int64]domain.Role{
			{5, 1}: domain.RoleLeader,
			{5, 2}: domain.RoleMember,
		}),
		renameFunc: func(_ context.Context, _ int64, name string) error {
			renamed = name
			return nil
		},
	}
	svc := newService(repo)

	if err := svc.Rename(context.Background(), 1, 5, "platform"); err != nil {
		t.Fatalf("leader rename: %v", err)
	}
	if renamed != "platform" {
		t.Fatalf("expected rename to hit the store")
	}
	if err := svc.Rename(context.Background(), 2, 5, "nope"); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected member rename to be forbidden, got %v", err)
	}
}

func TestAddMemberLeaderOnlyAndDefaultsRole(t *testing.T) {
	var added *domain.Membership
	repo := &teamRepoMock{
		getMembershipFunc: roleTable(map[[2]int64]domain.Role{
			{5, 1}: domain.RoleLeader,
			{5, 2}: domain.RoleMember,
		}),
		addMemberFunc: func(_ context.Context, m *domain.Membership) error {
			added = m
			return nil
		},
	}
	svc := newService(repo)

	if err := svc.AddMember(context.Background(), 1, 5, 9, domain.RoleNone); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if added == nil || added.Role != domain.RoleMember || added.UserID != 9 {
		t.Fatalf("expected default member role, got %+v", added)
	}
	if err := svc.AddMember(context.Background(), 2, 5, 9, domain.RoleMember); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected member to be forbidden, got %v", err)
	}
}

func TestAddMemberDuplicate(t *testing.T) {
	repo := &teamRepoMock{
		getMembershipFunc: roleTable(map[[2]int64]domain.Role{{5, 1}: domain.RoleLeader}),
		addMemberFunc: func(_ context.Context, _ *domain.Membership) error {
			return repository.ErrDuplicate
		},
	}
	svc := newService(repo)
	if err := svc.AddMember(context.Background(), 1, 5, 9, domain.RoleMember); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestRemoveMemberLeaderOnly(t *testing.T) {
	removed := false
	repo := &teamRepoMock{
		getMembershipFunc: roleTable(map[[2]int64]domain.Role{
			{5, 1}: domain.RoleLeader,
			{5, 2}: domain.RoleMember,
		}),
		removeMemberFunc: func(_ context.Context, teamID, userID int64) error {
			if teamID != 5 || userID != 2 {
				t.Fatalf("unexpected removal: team=%d user=%d", teamID, userID)
			}
			removed = true
			return nil
		},
	}
	svc := newService(repo)

	if err := svc.RemoveMember(context.Background(), 2, 5, 1); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected member removal attempt to be forbidden, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), 1, 5, 2); err != nil {
		t.Fatalf("leader removal: %v", err)
	}
	if !removed {
		t.Fatalf("expected removal to reach the store")
	}
}

func TestPersonalTeamGuards(t *testing.T) {
	svc := newService(&teamRepoMock{})
	if err := svc.Rename(context.Background(), 1, domain.PersonalTeamID, "mine"); !errors.Is(err, ErrPersonalTeam) {
		t.Fatalf("expected ErrPersonalTeam on rename, got %v", err)
	}
	if err := svc.AddMember(context.Background(), 1, domain.PersonalTeamID, 2, domain.RoleMember); !errors.Is(err, ErrPersonalTeam) {
		t.Fatalf("expected ErrPersonalTeam on add, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), 1, domain.PersonalTeamID, 2); !errors.Is(err, ErrPersonalTeam) {
		t.Fatalf("expected ErrPersonalTeam on remove, got %v", err)
	}
}
