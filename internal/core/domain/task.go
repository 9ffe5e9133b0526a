package domain

import "time"

// Conventional status values. The persistence layer stores whatever string it
// is given; these constants exist for callers, not for validation.
const (
	TaskStatusNew       = "new"
	TaskStatusActive    = "active"
	TaskStatusCompleted = "completed"
	TaskStatusRemoved   = "removed"
)

// ChecklistItem lives only nested inside a Task's checklist; it has no
// lifecycle of its own.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is the canonical in-memory shape shared by every storage engine.
// Title, Description and the serialized Checklist are ciphertext at rest;
// adapters decrypt them before a Task ever leaves the persistence layer.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Checklist   []ChecklistItem
	DueDate     *time.Time
	Status      string
	CreatedAt   time.Time
	ModifiedAt  *time.Time
	ArchivedAt  *time.Time
	DeletedAt   *time.Time
}

type CreateTaskInput struct {
	UserID      string
	Title       string
	Description *string
	Checklist   []ChecklistItem
	DueDate     *time.Time
	Status      string
}

// TaskUpdate is a partial task. The *Set flags distinguish "leave unchanged"
// from "clear this field", which a nil pointer alone cannot express.
type TaskUpdate struct {
	UserID         string
	Title          *string
	Description    *string
	DescriptionSet bool
	Checklist      []ChecklistItem
	ChecklistSet   bool
	DueDate        *time.Time
	DueDateSet     bool
	Status         *string
}

// TaskFilter narrows GetTasksByUser. A nil field means no constraint on that
// dimension, except Archived: nil defaults to "not archived". DueDate is
// interpreted as "due on or before".
type TaskFilter struct {
	Archived *bool
	Status   *string
	DueDate  *time.Time
}

type TaskPage struct {
	Items       []Task
	TotalItems  int64
	TotalPages  int
	CurrentPage int
}

// TotalPages computes ceil(totalItems / limit). Callers must reject limit == 0
// before querying, so limit is assumed positive here.
func TotalPages(totalItems int64, limit int) int {
	return int((totalItems + int64(limit) - 1) / int64(limit))
}
