package domain

import "errors"

var (
	// ErrTaskNotFound covers tasks that do not exist, are soft-deleted, or
	// belong to another user. Callers cannot tell those cases apart.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidLimit rejects limit == 0 before any query is issued.
	ErrInvalidLimit = errors.New("limit must be greater than zero")

	ErrUnsupportedEngine = errors.New("unsupported task engine")
)

// Engine failures are replaced by one of these operation-scoped errors after
// the original cause has been logged; the underlying driver error never
// reaches the service layer.
var (
	ErrTaskCreateFailed  = errors.New("task creation failed")
	ErrTaskFetchFailed   = errors.New("failed to fetch tasks")
	ErrTaskUpdateFailed  = errors.New("task update failed")
	ErrTaskDeleteFailed  = errors.New("task deletion failed")
	ErrTaskArchiveFailed = errors.New("task archive failed")
	ErrTaskStatusFailed  = errors.New("task status update failed")
	ErrBulkCreateFailed  = errors.New("bulk task creation failed")
)
