package dto

type ChecklistItem struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type TaskItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
	DueDate     *string         `json:"due_date,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	ModifiedAt  *string         `json:"modified_at,omitempty"`
	ArchivedAt  *string         `json:"archived_at,omitempty"`
}

type PaginatedTasks struct {
	Items       []TaskItem `json:"items"`
	TotalItems  int64      `json:"total_items"`
	TotalPages  int        `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
}

type CreateTaskRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description *string         `json:"description"`
	Checklist   []ChecklistItem `json:"checklist"`
	DueDate     *string         `json:"due_date" binding:"omitempty"`
	Status      *string         `json:"status"`
}

type UpdateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Checklist   []ChecklistItem `json:"checklist"`
	DueDate     *string         `json:"due_date"`
	Status      *string         `json:"status"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
