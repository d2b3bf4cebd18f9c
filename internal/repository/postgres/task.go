package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/smart-todo-server/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

const taskColumns = `id, owner_id, title, description, priority, completed, completed_at, is_archived, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.Priority,
		&task.Completed, &task.CompletedAt, &task.IsArchived, &task.DueDate,
		&task.CreatedAt, &task.UpdatedAt,
	)
	return task, err
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (id, owner_id, title, description, priority, completed, completed_at, is_archived, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + taskColumns

	savedTask, err := scanTask(r.db.QueryRow(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description, string(task.Priority),
		task.Completed, task.CompletedAt, task.IsArchived, task.DueDate,
		task.CreatedAt, task.UpdatedAt,
	))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return savedTask, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTask(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

// List returns the owner's tasks for one view. Optional predicates are
// passed as apply-flag/value pairs so the statement stays static.
func (r *TaskRepository) List(ctx context.Context, q model.TaskQuery) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1 AND is_archived = $2
		  AND (NOT $3::boolean OR priority = $4)
		  AND (NOT $5::boolean OR completed = $6)
		ORDER BY created_at DESC`

	var (
		priority  string
		completed bool
	)
	if q.Priority != nil {
		priority = string(*q.Priority)
	}
	if q.Completed != nil {
		completed = *q.Completed
	}

	rows, err := r.db.Query(ctx, query,
		q.OwnerID, q.Archived,
		q.Priority != nil, priority,
		q.Completed != nil, completed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	return tasks, nil
}

// Update applies a partial update in a single statement so the patch is
// atomic per record. completed_at is set or cleared together with completed.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error) {
	query := `
		UPDATE tasks SET
			completed = CASE WHEN $3::boolean THEN $4::boolean ELSE completed END,
			completed_at = CASE WHEN $3::boolean THEN
				CASE WHEN $4::boolean THEN NOW() ELSE NULL END
			ELSE completed_at END,
			priority = CASE WHEN $5::boolean THEN $6 ELSE priority END,
			is_archived = CASE WHEN $7::boolean THEN $8::boolean ELSE is_archived END,
			due_date = CASE WHEN $9::boolean THEN $10::timestamptz ELSE due_date END,
			updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns

	var (
		completed bool
		priority  string
		archived  bool
	)
	if patch.Completed != nil {
		completed = *patch.Completed
	}
	if patch.Priority != nil {
		priority = string(*patch.Priority)
	}
	if patch.IsArchived != nil {
		archived = *patch.IsArchived
	}

	task, err := scanTask(r.db.QueryRow(ctx, query,
		id, ownerID,
		patch.Completed != nil, completed,
		patch.Priority != nil, priority,
		patch.IsArchived != nil, archived,
		patch.DueDateSet, patch.DueDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) Archive(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `UPDATE tasks SET is_archived = TRUE, updated_at = NOW() WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to archive task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
