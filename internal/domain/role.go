package domain

// Role is a member's standing within a team. The hierarchy is fixed at
// two levels: leaders administer the team, members read and create.
type Role string

const (
	// RoleLeader may rename the team, manage members, reassign tasks
	// and delete any task in the team.
	RoleLeader Role = "leader"
	// RoleMember may read the team's tasks, create tasks, and mutate
	// tasks they own or are assigned to.
	RoleMember Role = "member"
	// RoleNone marks the absence of a membership row.
	RoleNone Role = ""
)

// Valid reports whether the role is one that can be persisted.
func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleMember
}
