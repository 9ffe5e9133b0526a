package ports

import (
	"context"

	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
)

// TaskRepository is the storage contract implemented by every engine adapter.
//
// UpdateTaskStatus returns (nil, nil) when no matching task exists; every
// other mutator reports a miss as domain.ErrTaskNotFound. Callers branch on
// that asymmetry, so all three adapters preserve it.
type TaskRepository interface {
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	GetTasksByUser(ctx context.Context, userID string, page, limit int, filter domain.TaskFilter) (domain.TaskPage, error)
	UpdateTask(ctx context.Context, id string, updates domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
	ArchiveTask(ctx context.Context, id, userID string) error
	UnarchiveTask(ctx context.Context, id, userID string) error
	UpdateTaskStatus(ctx context.Context, id, status, userID string) (*domain.Task, error)
	BulkCreateTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	GetTasksByUser(ctx context.Context, userID string, page, limit int, filter domain.TaskFilter) (domain.TaskPage, error)
	UpdateTask(ctx context.Context, id string, updates domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
	ArchiveTask(ctx context.Context, id, userID string) error
	UnarchiveTask(ctx context.Context, id, userID string) error
	UpdateTaskStatus(ctx context.Context, id, status, userID string) (*domain.Task, error)
	BulkCreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error)
}
