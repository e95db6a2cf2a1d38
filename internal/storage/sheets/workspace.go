package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agency-dashboard/internal/storage"
)

// ListProjects returns the workspace's clients. A blank status reads as
// active, matching how the sheet is usually filled in.
func (s *Storage) ListProjects(ctx context.Context, f storage.Filter) ([]storage.Project, error) {
	const op = "storage.sheets.ListProjects"

	out, err := list(ctx, s, projects, storage.Filter{WorkspaceID: f.WorkspaceID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range out {
		out[i].Status = strings.ToLower(strings.TrimSpace(out[i].Status))
		if out[i].Status == "" {
			out[i].Status = storage.StatusActive
		}
	}
	return out, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]storage.User, error) {
	const op = "storage.sheets.ListUsers"

	out, err := list(ctx, s, users, storage.Filter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) ListTasks(ctx context.Context, f storage.Filter) ([]storage.Task, error) {
	const op = "storage.sheets.ListTasks"

	out, err := list(ctx, s, tasks, storage.Filter{WorkspaceID: f.WorkspaceID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// UpdateTask applies an edit only when task.Version matches the stored
// version, then bumps it. A task that becomes completed gets completed_at
// stamped if the caller left it empty.
func (s *Storage) UpdateTask(ctx context.Context, id string, task storage.Task, user string) (storage.Task, error) {
	const op = "storage.sheets.UpdateTask"

	out, err := update(ctx, s, tasks, id, func(existing storage.Task) (storage.Task, error) {
		if task.Version != existing.Version {
			return task, fmt.Errorf("%w: task %s is at version %d, got %d",
				storage.ErrVersionConflict, id, existing.Version, task.Version)
		}

		now := s.now()
		task.ID = id
		task.Version = existing.Version + 1
		task.UpdatedBy = user
		task.UpdatedAt = now.UTC().Format(time.RFC3339)
		if task.WorkspaceID == "" {
			task.WorkspaceID = existing.WorkspaceID
		}
		if task.IsCompleted() && task.CompletedAt == "" {
			task.CompletedAt = existing.CompletedAt
			if task.CompletedAt == "" {
				task.CompletedAt = now.Format(time.DateOnly)
			}
		}
		return task, nil
	})
	if err != nil {
		return storage.Task{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
