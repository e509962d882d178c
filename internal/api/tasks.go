package api

import (
	"context"
	"net/http"

	"taskflow/tui/internal/models"
)

// ListTasks fetches all tasks owned by the current session, newest first
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a new task and returns the backend's copy
func (c *Client) CreateTask(ctx context.Context, fields models.TaskFields) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask patches an existing task with the given fields
func (c *Client) UpdateTask(ctx context.Context, id string, fields models.TaskFields) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleComplete flips the task between completed and its prior state
func (c *Client) ToggleComplete(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id+"/complete", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task. The backend answers 204 on success.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}
