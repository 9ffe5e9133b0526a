package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
)

// TaskService owns id and creation-timestamp assignment and forwards
// everything else to whichever repository the engine selector resolved.
type TaskService struct {
	taskRepository ports.TaskRepository
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(taskRepository ports.TaskRepository) *TaskService {
	return &TaskService{taskRepository: taskRepository}
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	return s.taskRepository.CreateTask(ctx, newTask(input))
}

func (s *TaskService) GetTasksByUser(ctx context.Context, userID string, page, limit int, filter domain.TaskFilter) (domain.TaskPage, error) {
	return s.taskRepository.GetTasksByUser(ctx, userID, page, limit, filter)
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, updates domain.TaskUpdate) (domain.Task, error) {
	return s.taskRepository.UpdateTask(ctx, id, updates)
}

func (s *TaskService) DeleteTask(ctx context.Context, id, userID string) error {
	return s.taskRepository.DeleteTask(ctx, id, userID)
}

func (s *TaskService) ArchiveTask(ctx context.Context, id, userID string) error {
	return s.taskRepository.ArchiveTask(ctx, id, userID)
}

func (s *TaskService) UnarchiveTask(ctx context.Context, id, userID string) error {
	return s.taskRepository.UnarchiveTask(ctx, id, userID)
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, id, status, userID string) (*domain.Task, error) {
	return s.taskRepository.UpdateTaskStatus(ctx, id, status, userID)
}

func (s *TaskService) BulkCreateTasks(ctx context.Context, inputs []domain.CreateTaskInput) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(inputs))
	for _, input := range inputs {
		tasks = append(tasks, newTask(input))
	}
	return s.taskRepository.BulkCreateTasks(ctx, tasks)
}

func newTask(input domain.CreateTaskInput) domain.Task {
	status := input.Status
	if status == "" {
		status = domain.TaskStatusNew
	}

	checklist := make([]domain.ChecklistItem, 0, len(input.Checklist))
	for _, item := range input.Checklist {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		checklist = append(checklist, item)
	}
	if len(checklist) == 0 {
		checklist = nil
	}

	return domain.Task{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Checklist:   checklist,
		DueDate:     input.DueDate,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
}
