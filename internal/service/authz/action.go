package authz

// Action enumerates every operation the permission matrix covers. The
// set is closed: Authorize switches over it exhaustively, so adding an
// action without a matrix rule surfaces as an explicit error rather
// than an accidental allow.
type Action int

const (
	// ActionReadTasks lists a team's tasks.
	ActionReadTasks Action = iota
	// ActionCreateTask creates a task inside a team.
	ActionCreateTask
	// ActionRenameTeam changes the team display name.
	ActionRenameTeam
	// ActionManageMembers adds or removes team members.
	ActionManageMembers
	// ActionReassignTask moves a task to another assignee.
	ActionReassignTask
	// ActionUpdateTask toggles a task's done flag or target date.
	ActionUpdateTask
	// ActionDeleteTask removes a task.
	ActionDeleteTask
)

func (a Action) String() string {
	switch a {
	case ActionReadTasks:
		return "read_tasks"
	case ActionCreateTask:
		return "create_task"
	case ActionRenameTeam:
		return "rename_team"
	case ActionManageMembers:
		return "manage_members"
	case ActionReassignTask:
		return "reassign_task"
	case ActionUpdateTask:
		return "update_task"
	case ActionDeleteTask:
		return "delete_task"
	}
	return "unknown"
}

// RequiresTask reports whether the action operates on a specific task
// row and therefore needs one passed to Authorize.
func (a Action) RequiresTask() bool {
	switch a {
	case ActionReassignTask, ActionUpdateTask, ActionDeleteTask:
		return true
	}
	return false
}
