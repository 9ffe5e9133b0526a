package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/db/fieldcrypt"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
)

// containerOps is the slice of the SDK container surface the repository
// touches. *azcosmos.ContainerClient satisfies it.
type containerOps interface {
	ReadItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemID string, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	CreateItem(ctx context.Context, partitionKey azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	ReplaceItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemID string, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	NewQueryItemsPager(query string, partitionKey azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse]
}

// Items are partitioned by userId; every query and point read stays within
// one partition.
type TaskRepository struct {
	container containerOps
	enc       ports.Encryptor
}

// itemTimeFormat pads fractional seconds to three digits so the engine's
// lexicographic string comparisons (dueDate range filter, createdAt ORDER
// BY) order timestamps correctly. A variable-length fraction would make
// ".5Z" sort after ".51Z".
const itemTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// itemTime persists as a fixed-width UTC timestamp string.
type itemTime time.Time

func (t itemTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(itemTimeFormat))
}

func (t *itemTime) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	*t = itemTime(parsed)
	return nil
}

type taskItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Checklist   string    `json:"checklist"`
	DueDate     *itemTime `json:"dueDate"`
	Status      string    `json:"status"`
	CreatedAt   itemTime  `json:"createdAt"`
	ModifiedAt  *itemTime `json:"modifiedAt"`
	ArchivedAt  *itemTime `json:"archivedAt"`
	DeletedAt   *itemTime `json:"deletedAt"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(container *azcosmos.ContainerClient, enc ports.Encryptor) *TaskRepository {
	return &TaskRepository{container: container, enc: enc}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	item, err := r.toItem(task)
	if err != nil {
		zap.L().Error("failed to seal task fields", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}

	if err := r.createItem(ctx, item); err != nil {
		zap.L().Error("failed to create task item", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}

	created, err := r.fromItem(item)
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

	where, params := buildWhereClause(userID, filter)
	partitionKey := azcosmos.NewPartitionKeyString(userID)

	total, err := r.countTasks(ctx, partitionKey, where, params)
	if err != nil {
		zap.L().Error("failed to count task items", zap.String("user_id", userID), zap.Error(err))
		return domain.TaskPage{}, domain.ErrTaskFetchFailed
	}

	query := fmt.Sprintf(
		"SELECT * FROM c WHERE %s ORDER BY c.createdAt DESC OFFSET @offset LIMIT @limit",
		where,
	)
	pageParams := append(params,
		azcosmos.QueryParameter{Name: "@offset", Value: (page - 1) * limit},
		azcosmos.QueryParameter{Name: "@limit", Value: limit},
	)

	pager := r.container.NewQueryItemsPager(query, partitionKey, &azcosmos.QueryOptions{
		QueryParameters: pageParams,
	})

	items := make([]domain.Task, 0, limit)
	for pager.More() {
		response, err := pager.NextPage(ctx)
		if err != nil {
			zap.L().Error("failed to fetch task items", zap.String("user_id", userID), zap.Error(err))
			return domain.TaskPage{}, domain.ErrTaskFetchFailed
		}
		for _, raw := range response.Items {
			var item taskItem
			if err := json.Unmarshal(raw, &item); err != nil {
				zap.L().Error("failed to decode task item", zap.String("user_id", userID), zap.Error(err))
				return domain.TaskPage{}, domain.ErrTaskFetchFailed
			}
			task, err := r.fromItem(item)
			if err != nil {
				zap.L().Error("failed to open task fields", zap.String("task_id", item.ID), zap.Error(err))
				return domain.TaskPage{}, domain.ErrTaskFetchFailed
			}
			items = append(items, task)
		}
	}

	return domain.TaskPage{
		Items:       items,
		TotalItems:  total,
		TotalPages:  domain.TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id string, updates domain.TaskUpdate) (domain.Task, error) {
	item, err := r.readOwnedItem(ctx, id, updates.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.Task{}, err
		}
		zap.L().Error("failed to read task item for update", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}
	if item.DeletedAt != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	task, err := r.fromItem(*item)
	if err != nil {
		zap.L().Error("failed to open task fields", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}

	applyUpdate(&task, updates)
	now := time.Now().UTC()
	task.ModifiedAt = &now

	replacement, err := r.toItem(task)
	if err != nil {
		zap.L().Error("failed to seal task fields", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}
	if err := r.replaceItem(ctx, replacement); err != nil {
		zap.L().Error("failed to replace task item", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}

	return task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id, userID string) error {
	return r.stampLifecycle(ctx, id, userID, func(item *taskItem, now itemTime) {
		item.DeletedAt = &now
	}, domain.ErrTaskDeleteFailed)
}

func (r *TaskRepository) ArchiveTask(ctx context.Context, id, userID string) error {
	return r.stampLifecycle(ctx, id, userID, func(item *taskItem, now itemTime) {
		item.ArchivedAt = &now
	}, domain.ErrTaskArchiveFailed)
}

func (r *TaskRepository) UnarchiveTask(ctx context.Context, id, userID string) error {
	return r.stampLifecycle(ctx, id, userID, func(item *taskItem, _ itemTime) {
		item.ArchivedAt = nil
	}, domain.ErrTaskArchiveFailed)
}

func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, id, status, userID string) (*domain.Task, error) {
	item, err := r.readOwnedItem(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			// A miss is a nil return here, not an error; callers branch on it.
			return nil, nil
		}
		zap.L().Error("failed to read task item for status update", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}

	now := itemTime(time.Now().UTC())
	item.Status = status
	item.ModifiedAt = &now

	if err := r.replaceItem(ctx, *item); err != nil {
		zap.L().Error("failed to replace task item", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}

	task, err := r.fromItem(*item)
	if err != nil {
		zap.L().Error("failed to open task fields", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}
	return &task, nil
}

// BulkCreateTasks issues one create per task concurrently and fails the whole
// call on the first error. That is stricter than the other engines, which are
// best effort; the divergence is intentional and pinned by tests.
func (r *TaskRepository) BulkCreateTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	items := make([]taskItem, len(tasks))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		group.Go(func() error {
			item, err := r.toItem(task)
			if err != nil {
				return err
			}
			if err := r.createItem(groupCtx, item); err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		zap.L().Error("bulk task creation failed", zap.Error(err))
		return nil, domain.ErrBulkCreateFailed
	}

	created := make([]domain.Task, 0, len(items))
	for _, item := range items {
		task, err := r.fromItem(item)
		if err != nil {
			zap.L().Error("failed to open task fields", zap.String("task_id", item.ID), zap.Error(err))
			return nil, domain.ErrBulkCreateFailed
		}
		created = append(created, task)
	}
	return created, nil
}

// stampLifecycle reads the item, verifies ownership, mutates the in-memory
// copy and replaces the whole item. The engine has no update-by-filter
// primitive, so a read always precedes the write.
func (r *TaskRepository) stampLifecycle(ctx context.Context, id, userID string, mutate func(*taskItem, itemTime), opErr error) error {
	item, err := r.readOwnedItem(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		zap.L().Error("failed to read task item", zap.String("task_id", id), zap.Error(err))
		return opErr
	}
	if item.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}

	mutate(item, itemTime(time.Now().UTC()))

	if err := r.replaceItem(ctx, *item); err != nil {
		zap.L().Error("failed to replace task item", zap.String("task_id", id), zap.Error(err))
		return opErr
	}
	return nil
}

// readOwnedItem fetches the item by id and checks userId ownership in
// application code. An ownership mismatch is reported as not-found; this is
// an authorization decision, not a storage filter.
func (r *TaskRepository) readOwnedItem(ctx context.Context, id, userID string) (*taskItem, error) {
	response, err := r.container.ReadItem(ctx, azcosmos.NewPartitionKeyString(userID), id, nil)
	if err != nil {
		var responseErr *azcore.ResponseError
		if errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	var item taskItem
	if err := json.Unmarshal(response.Value, &item); err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return &item, nil
}

func (r *TaskRepository) createItem(ctx context.Context, item taskItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = r.container.CreateItem(ctx, azcosmos.NewPartitionKeyString(item.UserID), raw, nil)
	return err
}

func (r *TaskRepository) replaceItem(ctx context.Context, item taskItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = r.container.ReplaceItem(ctx, azcosmos.NewPartitionKeyString(item.UserID), item.ID, raw, nil)
	return err
}

func (r *TaskRepository) countTasks(ctx context.Context, partitionKey azcosmos.PartitionKey, where string, params []azcosmos.QueryParameter) (int64, error) {
	query := fmt.Sprintf("SELECT VALUE COUNT(1) FROM c WHERE %s", where)
	pager := r.container.NewQueryItemsPager(query, partitionKey, &azcosmos.QueryOptions{
		QueryParameters: params,
	})

	var total int64
	for pager.More() {
		response, err := pager.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		for _, raw := range response.Items {
			var count int64
			if err := json.Unmarshal(raw, &count); err != nil {
				return 0, err
			}
			total += count
		}
	}
	return total, nil
}

// buildWhereClause assembles the WHERE string shared by the count query and
// the windowed query, with the same filter precedence as the other engines.
func buildWhereClause(userID string, filter domain.TaskFilter) (string, []azcosmos.QueryParameter) {
	where := "c.userId = @userId AND IS_NULL(c.deletedAt)"
	params := []azcosmos.QueryParameter{{Name: "@userId", Value: userID}}

	if filter.Archived != nil && *filter.Archived {
		where += " AND NOT IS_NULL(c.archivedAt)"
	} else {
		where += " AND IS_NULL(c.archivedAt)"
	}
	if filter.Status != nil {
		where += " AND c.status = @status"
		params = append(params, azcosmos.QueryParameter{Name: "@status", Value: *filter.Status})
	}
	if filter.DueDate != nil {
		where += " AND c.dueDate <= @dueDate"
		params = append(params, azcosmos.QueryParameter{
			Name:  "@dueDate",
			Value: filter.DueDate.UTC().Format(itemTimeFormat),
		})
	}

	return where, params
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

func (r *TaskRepository) toItem(task domain.Task) (taskItem, error) {
	title, err := fieldcrypt.EncryptField(r.enc, task.Title)
	if err != nil {
		return taskItem{}, err
	}

	description := ""
	if task.Description != nil {
		description, err = fieldcrypt.EncryptField(r.enc, *task.Description)
		if err != nil {
			return taskItem{}, err
		}
	}

	checklist, err := fieldcrypt.EncryptChecklist(r.enc, task.Checklist)
	if err != nil {
		return taskItem{}, err
	}

	return taskItem{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       title,
		Description: description,
		Checklist:   checklist,
		DueDate:     toItemTime(task.DueDate),
		Status:      task.Status,
		CreatedAt:   itemTime(task.CreatedAt),
		ModifiedAt:  toItemTime(task.ModifiedAt),
		ArchivedAt:  toItemTime(task.ArchivedAt),
		DeletedAt:   toItemTime(task.DeletedAt),
	}, nil
}

func (r *TaskRepository) fromItem(item taskItem) (domain.Task, error) {
	title, err := fieldcrypt.DecryptField(r.enc, item.Title)
	if err != nil {
		return domain.Task{}, err
	}

	var description *string
	if item.Description != "" {
		value, err := fieldcrypt.DecryptField(r.enc, item.Description)
		if err != nil {
			return domain.Task{}, err
		}
		description = &value
	}

	checklist, err := fieldcrypt.DecryptChecklist(r.enc, item.Checklist)
	if err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:          item.ID,
		UserID:      item.UserID,
		Title:       title,
		Description: description,
		Checklist:   checklist,
		DueDate:     fromItemTime(item.DueDate),
		Status:      item.Status,
		CreatedAt:   time.Time(item.CreatedAt),
		ModifiedAt:  fromItemTime(item.ModifiedAt),
		ArchivedAt:  fromItemTime(item.ArchivedAt),
		DeletedAt:   fromItemTime(item.DeletedAt),
	}, nil
}

func toItemTime(value *time.Time) *itemTime {
	if value == nil {
		return nil
	}
	t := itemTime(*value)
	return &t
}

func fromItemTime(value *itemTime) *time.Time {
	if value == nil {
		return nil
	}
	t := time.Time(*value)
	return &t
}
