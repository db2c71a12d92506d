package domain

import "time"

// PersonalTeamID is the distinguished team every user joins as leader
// at registration. It holds tasks with no real team context and is
// seeded by the initial migration.
const PersonalTeamID int64 = 1

// Team is a named task scope shared between members.
type Team struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Membership ties a user to a team with a role. Unique per
// (team, user) pair.
type Membership struct {
	TeamID   int64
	UserID   int64
	Role     Role
	JoinedAt time.Time
}
