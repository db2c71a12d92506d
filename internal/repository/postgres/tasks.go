package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/repository"
)

const taskColumns = `id, owner_id, team_id, assignee_id, task, done, target_date, updated`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.TeamID,
		&t.AssigneeID,
		&t.Task,
		&t.Done,
		&t.TargetDate,
		&t.Updated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CreateTask inserts a todo row and fills in generated fields.
func (r *Repository) CreateTask(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return fmt.Errorf("task required")
	}
	const query = `INSERT INTO todo (owner_id, team_id, assignee_id, task, done, target_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, updated`
	err := r.pool.QueryRow(ctx, query,
		task.OwnerID,
		task.TeamID,
		task.AssigneeID,
		task.Task,
		task.Done,
		task.TargetDate,
	).Scan(&task.ID, &task.Updated)
	return translateError(err)
}

// GetTaskByID fetches a single todo row.
func (r *Repository) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM todo WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

// ListTasksByTeam returns a team's tasks, newest first.
func (r *Repository) ListTasksByTeam(ctx context.Context, teamID int64) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM todo WHERE team_id = $1 ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListTasksByTeamAndOwner returns tasks in a team created by one user.
// Used for the personal team, where each member only sees their own
// rows.
func (r *Repository) ListTasksByTeamAndOwner(ctx context.Context, teamID, ownerID int64) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM todo WHERE team_id = $1 AND owner_id = $2 ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, teamID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// UpdateTaskDone toggles completion and bumps the updated timestamp.
func (r *Repository) UpdateTaskDone(ctx context.Context, id int64, done bool) error {
	const query = `UPDATE todo SET done = $2, updated = NOW() WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, done)
}

// UpdateTaskTargetDate sets the due date and bumps the updated timestamp.
func (r *Repository) UpdateTaskTargetDate(ctx context.Context, id int64, target time.Time) error {
	const query = `UPDATE todo SET target_date = $2, updated = NOW() WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, target)
}

// UpdateTaskAssignee moves the task to another assignee (nil clears it).
func (r *Repository) UpdateTaskAssignee(ctx context.Context, id int64, assigneeID *int64) error {
	const query = `UPDATE todo SET assignee_id = $2, updated = NOW() WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, assigneeID)
}

// DeleteTask removes a todo row.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	const query = `DELETE FROM todo WHERE id = $1`
	return r.execExpectingRow(ctx, query, id)
}

func (r *Repository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.TeamID,
			&t.AssigneeID,
			&t.Task,
			&t.Done,
			&t.TargetDate,
			&t.Updated,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
