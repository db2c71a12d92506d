package domain

import "time"

// Task is a todo item. OwnerID is the creator and never changes;
// AssigneeID is optional and may be moved by a team leader. TeamID is
// always set, defaulting to the personal team.
type Task struct {
	ID         int64
	OwnerID    int64
	TeamID     int64
	AssigneeID *int64
	Task       string
	Done       bool
	TargetDate *time.Time
	Updated    time.Time
}

// AssignedTo reports whether the task is assigned to the given user.
func (t *Task) AssignedTo(userID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
