package mapper

import (
	"time"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/dto"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID,
		Title:     task.Title,
		Status:    task.Status,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	for _, entry := range task.Checklist {
		item.Checklist = append(item.Checklist, dto.ChecklistItem{
			ID:        entry.ID,
			Text:      entry.Text,
			Completed: entry.Completed,
		})
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(time.RFC3339)
		item.DueDate = &value
	}

	if task.ModifiedAt != nil {
		value := task.ModifiedAt.Format(time.RFC3339)
		item.ModifiedAt = &value
	}

	if task.ArchivedAt != nil {
		value := task.ArchivedAt.Format(time.RFC3339)
		item.ArchivedAt = &value
	}

	return item
}

func ToPaginatedTasks(page domain.TaskPage) dto.PaginatedTasks {
	return dto.PaginatedTasks{
		Items:       ToTaskItems(page.Items),
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
}
