package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStore defines persistence operations for tasks. Every operation that
// touches a single task is scoped by owner in addition to id.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Task, error)
	List(ctx context.Context, query TaskQuery) ([]Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch TaskPatch) (Task, error)
	Archive(ctx context.Context, ownerID, id uuid.UUID) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Task represents a stored task entity.
type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Completed   bool
	CompletedAt *time.Time
	IsArchived  bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Priority enumerates task priorities.
type Priority string

const (
	// PriorityLow is the lowest task priority.
	PriorityLow Priority = "low"
	// PriorityMedium is the default task priority.
	PriorityMedium Priority = "medium"
	// PriorityHigh is the highest task priority.
	PriorityHigh Priority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the sort rank of the priority. High sorts first. Unknown
// values rank with low so a bad stored value never floats to the top.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// View enumerates the two task views.
type View string

const (
	// ViewMain is the view over non-archived tasks.
	ViewMain View = "main"
	// ViewRecycleBin is the view over archived tasks.
	ViewRecycleBin View = "recycle_bin"
)

// FilterAll is the wildcard filter value.
const FilterAll = "all"

// TaskFilter is the raw list request as received from a client. Priority and
// Completed are unparsed; empty or "all" means no constraint.
type TaskFilter struct {
	View      View
	Priority  string
	Completed string
}

// TaskQuery is a resolved, typed query passed to the store. Nil optional
// fields mean no constraint.
type TaskQuery struct {
	OwnerID   uuid.UUID
	Archived  bool
	Priority  *Priority
	Completed *bool
}

// TaskPatch describes a partial task update. Nil fields are left untouched.
// DueDateSet distinguishes "clear the due date" from "leave it alone".
type TaskPatch struct {
	Completed  *bool
	Priority   *Priority
	IsArchived *bool
	DueDate    *time.Time
	DueDateSet bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Completed == nil && p.Priority == nil && p.IsArchived == nil && !p.DueDateSet
}

// CreateTaskParams contains parameters to create a task.
type CreateTaskParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// DeleteResult reports the outcome of a delete operation.
type DeleteResult struct {
	Archived           bool
	PermanentlyDeleted bool
}
