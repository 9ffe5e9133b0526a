package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/db/fieldcrypt"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
)

const insertTaskQuery = `
INSERT INTO tasks (id, user_id, title, description, checklist, due_date, status, created_at, modified_at, archived_at, deleted_at)
VALUES (:id, :user_id, :title, :description, :checklist, :due_date, :status, :created_at, :modified_at, :archived_at, :deleted_at)
`

const selectLiveTaskByIDQuery = `
SELECT * FROM tasks WHERE id = ? AND deleted_at IS NULL
`

const selectLiveTaskByIDAndUserQuery = `
SELECT * FROM tasks WHERE id = ? AND user_id = ? AND deleted_at IS NULL
`

// Deliberately not filtered on deleted_at: status changes reach soft-deleted
// rows while every other mutator refuses them. Pinned by a regression test.
const selectTaskByIDAndUserQuery = `
SELECT * FROM tasks WHERE id = ? AND user_id = ?
`

const updateTaskContentQuery = `
UPDATE tasks
SET title = :title, description = :description, checklist = :checklist,
    due_date = :due_date, status = :status, modified_at = :modified_at
WHERE id = :id
`

type TaskRepository struct {
	db  *sqlx.DB
	enc ports.Encryptor
}

type taskRow struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Checklist   string       `db:"checklist"`
	DueDate     sql.NullTime `db:"due_date"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	ModifiedAt  sql.NullTime `db:"modified_at"`
	ArchivedAt  sql.NullTime `db:"archived_at"`
	DeletedAt   sql.NullTime `db:"deleted_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB, enc ports.Encryptor) *TaskRepository {
	return &TaskRepository{db: db, enc: enc}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	row, err := r.toRow(task)
	if err != nil {
		zap.L().Error("failed to seal task fields", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}

	if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, row); err != nil {
		zap.L().Error("failed to insert task", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}

	// Round-trip through decrypt so the returned task matches what a
	// subsequent read would produce.
	created, err := r.fromRow(row)
	if err != nil {
		zap.L().Error("failed to open created task", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}
	return created, nil
}

func (r *TaskRepository) GetTasksByUser(ctx context.Context, userID string, page, limit int, filter domain.TaskFilter) (domain.TaskPage, error) {
	if limit <= 0 {
		return domain.TaskPage{}, domain.ErrInvalidLimit
	}
	if page < 1 {
		page = 1
	}

	where, args := buildListFilter(userID, filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		zap.L().Error("failed to count tasks", zap.String("user_id", userID), zap.Error(err))
		return domain.TaskPage{}, domain.ErrTaskFetchFailed
	}

	listQuery := "SELECT * FROM tasks WHERE " + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	listArgs := append(args, limit, (page-1)*limit)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, listArgs...); err != nil {
		zap.L().Error("failed to fetch tasks", zap.String("user_id", userID), zap.Error(err))
		return domain.TaskPage{}, domain.ErrTaskFetchFailed
	}

	items := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := r.fromRow(row)
		if err != nil {
			zap.L().Error("failed to open task fields", zap.String("task_id", row.ID), zap.Error(err))
			return domain.TaskPage{}, domain.ErrTaskFetchFailed
		}
		items = append(items, task)
	}

	return domain.TaskPage{
		Items:       items,
		TotalItems:  total,
		TotalPages:  domain.TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id string, updates domain.TaskUpdate) (domain.Task, error) {
	task, err := r.loadTask(ctx, selectLiveTaskByIDQuery, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.Task{}, err
		}
		zap.L().Error("failed to load task for update", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}

	applyUpdate(task, updates)
	now := time.Now().UTC()
	task.ModifiedAt = &now

	row, err := r.toRow(*task)
	if err != nil {
		zap.L().Error("failed to seal task fields", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}
	if _, err := r.db.NamedExecContext(ctx, updateTaskContentQuery, row); err != nil {
		zap.L().Error("failed to update task", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}

	return *task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id, userID string) error {
	return r.setLifecycleTimestamp(ctx, id, userID, "deleted_at", domain.ErrTaskDeleteFailed)
}

func (r *TaskRepository) ArchiveTask(ctx context.Context, id, userID string) error {
	return r.setLifecycleTimestamp(ctx, id, userID, "archived_at", domain.ErrTaskArchiveFailed)
}

func (r *TaskRepository) UnarchiveTask(ctx context.Context, id, userID string) error {
	if _, err := r.loadTask(ctx, selectLiveTaskByIDAndUserQuery, id, userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		zap.L().Error("failed to load task for unarchive", zap.String("task_id", id), zap.Error(err))
		return domain.ErrTaskArchiveFailed
	}

	if _, err := r.db.ExecContext(ctx, "UPDATE tasks SET archived_at = NULL WHERE id = ?", id); err != nil {
		zap.L().Error("failed to unarchive task", zap.String("task_id", id), zap.Error(err))
		return domain.ErrTaskArchiveFailed
	}
	return nil
}

func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, id, status, userID string) (*domain.Task, error) {
	task, err := r.loadTask(ctx, selectTaskByIDAndUserQuery, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			// A miss is a nil return here, not an error; callers branch on it.
			return nil, nil
		}
		zap.L().Error("failed to load task for status update", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}

	now := time.Now().UTC()
	task.Status = status
	task.ModifiedAt = &now

	if _, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET status = ?, modified_at = ? WHERE id = ?", status, now, id); err != nil {
		zap.L().Error("failed to update task status", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}

	return task, nil
}

func (r *TaskRepository) BulkCreateTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	stmt, err := r.db.PrepareNamedContext(ctx, insertTaskQuery)
	if err != nil {
		zap.L().Error("failed to prepare bulk insert", zap.Error(err))
		return nil, domain.ErrBulkCreateFailed
	}
	defer func() {
		_ = stmt.Close()
	}()

	// Best effort: each row stands alone, failures are skipped and only the
	// rows that made it in are returned.
	created := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		row, err := r.toRow(task)
		if err != nil {
			zap.L().Warn("skipping bulk task, failed to seal fields", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			zap.L().Warn("skipping bulk task, insert failed", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		opened, err := r.fromRow(row)
		if err != nil {
			zap.L().Warn("skipping bulk task, failed to open fields", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		created = append(created, opened)
	}

	return created, nil
}

// setLifecycleTimestamp stamps deleted_at or archived_at on a live row owned
// by userID.
func (r *TaskRepository) setLifecycleTimestamp(ctx context.Context, id, userID, column string, opErr error) error {
	if _, err := r.loadTask(ctx, selectLiveTaskByIDAndUserQuery, id, userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		zap.L().Error("failed to load task", zap.String("task_id", id), zap.String("column", column), zap.Error(err))
		return opErr
	}

	query := fmt.Sprintf("UPDATE tasks SET %s = ? WHERE id = ?", column)
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		zap.L().Error("failed to stamp task", zap.String("task_id", id), zap.String("column", column), zap.Error(err))
		return opErr
	}
	return nil
}

func (r *TaskRepository) loadTask(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task, err := r.fromRow(row)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func buildListFilter(userID string, filter domain.TaskFilter) (string, []any) {
	where := "user_id = ? AND deleted_at IS NULL"
	args := []any{userID}

	if filter.Archived != nil && *filter.Archived {
		where += " AND archived_at IS NOT NULL"
	} else {
		where += " AND archived_at IS NULL"
	}
	if filter.Status != nil {
		where += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.DueDate != nil {
		where += " AND due_date <= ?"
		args = append(args, *filter.DueDate)
	}

	return where, args
}

func applyUpdate(task *domain.Task, updates domain.TaskUpdate) {
	if updates.Title != nil {
		task.Title = *updates.Title
	}
	if updates.DescriptionSet {
		task.Description = updates.Description
	}
	if updates.ChecklistSet {
		task.Checklist = updates.Checklist
	}
	if updates.DueDateSet {
		task.DueDate = updates.DueDate
	}
	if updates.Status != nil {
		task.Status = *updates.Status
	}
}

func (r *TaskRepository) toRow(task domain.Task) (taskRow, error) {
	title, err := fieldcrypt.EncryptField(r.enc, task.Title)
	if err != nil {
		return taskRow{}, err
	}

	description := ""
	if task.Description != nil {
		description, err = fieldcrypt.EncryptField(r.enc, *task.Description)
		if err != nil {
			return taskRow{}, err
		}
	}

	checklist, err := fieldcrypt.EncryptChecklist(r.enc, task.Checklist)
	if err != nil {
		return taskRow{}, err
	}

	return taskRow{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       title,
		Description: description,
		Checklist:   checklist,
		DueDate:     toNullTime(task.DueDate),
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		ModifiedAt:  toNullTime(task.ModifiedAt),
		ArchivedAt:  toNullTime(task.ArchivedAt),
		DeletedAt:   toNullTime(task.DeletedAt),
	}, nil
}

func (r *TaskRepository) fromRow(row taskRow) (domain.Task, error) {
	title, err := fieldcrypt.DecryptField(r.enc, row.Title)
	if err != nil {
		return domain.Task{}, err
	}

	var description *string
	if row.Description != "" {
		value, err := fieldcrypt.DecryptField(r.enc, row.Description)
		if err != nil {
			return domain.Task{}, err
		}
		description = &value
	}

	checklist, err := fieldcrypt.DecryptChecklist(r.enc, row.Checklist)
	if err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       title,
		Description: description,
		Checklist:   checklist,
		DueDate:     fromNullTime(row.DueDate),
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		ModifiedAt:  fromNullTime(row.ModifiedAt),
		ArchivedAt:  fromNullTime(row.ArchivedAt),
		DeletedAt:   fromNullTime(row.DeletedAt),
	}, nil
}

func toNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func fromNullTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
