package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/dto"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

func BuildCreateTaskInput(userID string, req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	status := ""
	if req.Status != nil {
		status = *req.Status
	}

	return domain.CreateTaskInput{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Checklist:   toChecklist(req.Checklist),
		DueDate:     dueDate,
		Status:      status,
	}, nil
}

// BuildUpdateTaskInput distinguishes omitted fields from fields explicitly set
// to null: only keys present in the raw payload are applied, and a JSON null
// clears the field.
func BuildUpdateTaskInput(userID string, req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.TaskUpdate, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.TaskUpdate{}, ErrInvalidTaskPayload
	}

	updates := domain.TaskUpdate{UserID: userID}

	if hasJSONField(raw, "title") {
		if req.Title == nil {
			return domain.TaskUpdate{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.TaskUpdate{}, ErrInvalidTaskPayload
		}
		updates.Title = &value
	}

	if hasJSONField(raw, "description") {
		if !isJSONNull(raw["description"]) && req.Description == nil {
			return domain.TaskUpdate{}, ErrInvalidTaskPayload
		}
		updates.Description = req.Description
		updates.DescriptionSet = true
	}

	if hasJSONField(raw, "checklist") {
		updates.Checklist = toChecklist(req.Checklist)
		updates.ChecklistSet = true
	}

	if hasJSONField(raw, "due_date") {
		if !isJSONNull(raw["due_date"]) {
			if req.DueDate == nil {
				return domain.TaskUpdate{}, ErrInvalidTaskPayload
			}
			parsed, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				return domain.TaskUpdate{}, ErrInvalidTaskPayload
			}
			updates.DueDate = &parsed
		}
		updates.DueDateSet = true
	}

	if hasJSONField(raw, "status") {
		if req.Status == nil {
			return domain.TaskUpdate{}, ErrInvalidTaskPayload
		}
		updates.Status = req.Status
	}

	return updates, nil
}

// BuildListFilter parses the archived/status/due_date query parameters.
func BuildListFilter(archived, status, dueDate string) (domain.TaskFilter, error) {
	var filter domain.TaskFilter

	switch archived {
	case "":
	case "true":
		value := true
		filter.Archived = &value
	case "false":
		value := false
		filter.Archived = &value
	default:
		return domain.TaskFilter{}, ErrInvalidTaskPayload
	}

	if status != "" {
		filter.Status = &status
	}

	if dueDate != "" {
		parsed, err := time.Parse(time.RFC3339, dueDate)
		if err != nil {
			return domain.TaskFilter{}, ErrInvalidTaskPayload
		}
		filter.DueDate = &parsed
	}

	return filter, nil
}

func toChecklist(items []dto.ChecklistItem) []domain.ChecklistItem {
	if len(items) == 0 {
		return nil
	}
	checklist := make([]domain.ChecklistItem, 0, len(items))
	for _, item := range items {
		checklist = append(checklist, domain.ChecklistItem{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		})
	}
	return checklist
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "checklist") ||
		hasJSONField(raw, "due_date") ||
		hasJSONField(raw, "status")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
