package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

// Task implements the task lifecycle and query engine: creation rules, the
// archive/restore/delete state machine, and the deterministic list order.
type Task struct {
	taskStore model.TaskStore
	logger    *logger.Logger
}

func NewTask(taskStore model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		taskStore: taskStore,
		logger:    logger,
	}
}

func (s *Task) CreateTask(ctx context.Context, params model.CreateTaskParams) (model.Task, error) {
	s.logger.Debug("Task service: creating task",
		"owner_id", params.OwnerID)

	if params.Title == "" {
		return model.Task{}, model.NewValidationError("title is required")
	}

	priority := params.Priority
	if priority == "" {
		priority = model.PriorityMedium
	} else if !priority.Valid() {
		return model.Task{}, model.NewValidationError(fmt.Sprintf("unknown priority %q", priority))
	}

	now := time.Now()
	task := model.Task{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.taskStore.Create(ctx, task)
	if err != nil {
		s.logger.Error("Task service: failed to create task",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task service: task created",
		"owner_id", params.OwnerID,
		"task_id", saved.ID)

	return saved, nil
}

func (s *Task) ListTasks(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	query, err := resolveQuery(ownerID, filter)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskStore.List(ctx, query)
	if err != nil {
		s.logger.Error("Task service: failed to list tasks",
			"owner_id", ownerID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	sortTasks(tasks)

	return tasks, nil
}

func (s *Task) UpdateTask(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error) {
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Task{}, model.NewValidationError(fmt.Sprintf("unknown priority %q", *patch.Priority))
	}

	task, err := s.taskStore.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, model.ErrNotFound
		}
		s.logger.Error("Task service: failed to update task",
			"owner_id", ownerID,
			"task_id", id,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask archives a live task and permanently removes an archived one.
// An explicit permanent flag removes the task regardless of archive state.
func (s *Task) DeleteTask(ctx context.Context, ownerID, id uuid.UUID, permanent bool) (model.DeleteResult, error) {
	task, err := s.taskStore.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.DeleteResult{}, model.ErrNotFound
		}
		return model.DeleteResult{}, fmt.Errorf("failed to get task: %w", err)
	}

	if permanent || task.IsArchived {
		if err := s.taskStore.Delete(ctx, ownerID, id); err != nil {
			return model.DeleteResult{}, fmt.Errorf("failed to delete task: %w", err)
		}
		s.logger.Info("Task service: task permanently deleted",
			"owner_id", ownerID,
			"task_id", id)
		return model.DeleteResult{PermanentlyDeleted: true}, nil
	}

	if err := s.taskStore.Archive(ctx, ownerID, id); err != nil {
		return model.DeleteResult{}, fmt.Errorf("failed to archive task: %w", err)
	}
	s.logger.Info("Task service: task archived",
		"owner_id", ownerID,
		"task_id", id)
	return model.DeleteResult{Archived: true}, nil
}

// resolveQuery turns a raw filter into a typed store query. Filters apply
// only to the main view; the recycle bin ignores them.
func resolveQuery(ownerID uuid.UUID, filter model.TaskFilter) (model.TaskQuery, error) {
	view := filter.View
	if view == "" {
		view = model.ViewMain
	}
	if view != model.ViewMain && view != model.ViewRecycleBin {
		return model.TaskQuery{}, model.NewValidationError(fmt.Sprintf("unknown view %q", view))
	}

	query := model.TaskQuery{
		OwnerID:  ownerID,
		Archived: view == model.ViewRecycleBin,
	}
	if query.Archived {
		return query, nil
	}

	switch filter.Priority {
	case "", model.FilterAll:
	default:
		priority := model.Priority(filter.Priority)
		if !priority.Valid() {
			return model.TaskQuery{}, model.NewValidationError(fmt.Sprintf("unknown priority %q", filter.Priority))
		}
		query.Priority = &priority
	}

	switch filter.Completed {
	case "", model.FilterAll:
	case "true":
		completed := true
		query.Completed = &completed
	case "false":
		completed := false
		query.Completed = &completed
	default:
		return model.TaskQuery{}, model.NewValidationError(fmt.Sprintf("unknown completed filter %q", filter.Completed))
	}

	return query, nil
}

// sortTasks orders tasks incomplete-first, then high priority first, then
// newest first. The sort is stable so equal tasks keep their store order.
func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
