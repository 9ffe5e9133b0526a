package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/db/fieldcrypt"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
)

const tasksCollection = "tasks"

type TaskRepository struct {
	collection *mongo.Collection
	enc        ports.Encryptor
}

type taskDoc struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"userId"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Checklist   string     `bson:"checklist"`
	DueDate     *time.Time `bson:"dueDate"`
	Status      string     `bson:"status"`
	CreatedAt   time.Time  `bson:"createdAt"`
	ModifiedAt  *time.Time `bson:"modifiedAt"`
	ArchivedAt  *time.Time `bson:"archivedAt"`
	DeletedAt   *time.Time `bson:"deletedAt"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(database *mongo.Database, enc ports.Encryptor) *TaskRepository {
	return &TaskRepository{collection: database.Collection(tasksCollection), enc: enc}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	doc, err := r.toDoc(task)
	if err != nil {
		zap.L().Error("failed to seal task fields", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		zap.L().Error("failed to insert task document", zap.String("task_id", task.ID), zap.Error(err))
		return domain.Task{}, domain.ErrTaskCreateFailed
	}

	created, err := r.fromDoc(doc)
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

	query := buildListFilter(userID, filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		zap.L().Error("failed to count task documents", zap.String("user_id", userID), zap.Error(err))
		return domain.TaskPage{}, domain.ErrTaskFetchFailed
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		zap.L().Error("failed to fetch task documents", zap.String("user_id", userID), zap.Error(err))
		return domain.TaskPage{}, domain.ErrTaskFetchFailed
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		zap.L().Error("failed to decode task documents", zap.String("user_id", userID), zap.Error(err))
		return domain.TaskPage{}, domain.ErrTaskFetchFailed
	}

	items := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := r.fromDoc(doc)
		if err != nil {
			zap.L().Error("failed to open task fields", zap.String("task_id", doc.ID), zap.Error(err))
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
	task, err := r.loadTask(ctx, bson.M{"_id": id, "deletedAt": nil})
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

	doc, err := r.toDoc(*task)
	if err != nil {
		zap.L().Error("failed to seal task fields", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}

	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"checklist":   doc.Checklist,
		"dueDate":     doc.DueDate,
		"status":      doc.Status,
		"modifiedAt":  doc.ModifiedAt,
	}}
	if _, err := r.collection.UpdateByID(ctx, id, update); err != nil {
		zap.L().Error("failed to update task document", zap.String("task_id", id), zap.Error(err))
		return domain.Task{}, domain.ErrTaskUpdateFailed
	}

	return *task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id, userID string) error {
	return r.setLifecycleTimestamp(ctx, id, userID, "deletedAt", domain.ErrTaskDeleteFailed)
}

func (r *TaskRepository) ArchiveTask(ctx context.Context, id, userID string) error {
	return r.setLifecycleTimestamp(ctx, id, userID, "archivedAt", domain.ErrTaskArchiveFailed)
}

func (r *TaskRepository) UnarchiveTask(ctx context.Context, id, userID string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID, "deletedAt": nil},
		bson.M{"$set": bson.M{"archivedAt": nil}},
	)
	if err != nil {
		zap.L().Error("failed to unarchive task document", zap.String("task_id", id), zap.Error(err))
		return domain.ErrTaskArchiveFailed
	}
	if result.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, id, status, userID string) (*domain.Task, error) {
	now := time.Now().UTC()

	var doc taskDoc
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"status": status, "modifiedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// A miss is a nil return here, not an error; callers branch on it.
			return nil, nil
		}
		zap.L().Error("failed to update task status", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}

	task, err := r.fromDoc(doc)
	if err != nil {
		zap.L().Error("failed to open task fields", zap.String("task_id", id), zap.Error(err))
		return nil, domain.ErrTaskStatusFailed
	}
	return &task, nil
}

func (r *TaskRepository) BulkCreateTasks(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	docs := make([]taskDoc, 0, len(tasks))
	payload := make([]interface{}, 0, len(tasks))
	for _, task := range tasks {
		doc, err := r.toDoc(task)
		if err != nil {
			zap.L().Warn("skipping bulk task, failed to seal fields", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
		payload = append(payload, doc)
	}
	if len(payload) == 0 {
		return []domain.Task{}, nil
	}

	// Unordered insert keeps going past individual document failures; the
	// write exception tells us which indexes were rejected.
	_, err := r.collection.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
	failed := map[int]bool{}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			zap.L().Error("bulk insert failed", zap.Error(err))
			return nil, domain.ErrBulkCreateFailed
		}
		for _, writeErr := range bulkErr.WriteErrors {
			zap.L().Warn("bulk task rejected", zap.Int("index", writeErr.Index), zap.Error(writeErr))
			failed[writeErr.Index] = true
		}
	}

	created := make([]domain.Task, 0, len(docs))
	for i, doc := range docs {
		if failed[i] {
			continue
		}
		task, err := r.fromDoc(doc)
		if err != nil {
			zap.L().Warn("skipping bulk task, failed to open fields", zap.String("task_id", doc.ID), zap.Error(err))
			continue
		}
		created = append(created, task)
	}
	return created, nil
}

func (r *TaskRepository) setLifecycleTimestamp(ctx context.Context, id, userID, field string, opErr error) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID, "deletedAt": nil},
		bson.M{"$set": bson.M{field: time.Now().UTC()}},
	)
	if err != nil {
		zap.L().Error("failed to stamp task document", zap.String("task_id", id), zap.String("field", field), zap.Error(err))
		return opErr
	}
	if result.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) loadTask(ctx context.Context, query bson.M) (*domain.Task, error) {
	var doc taskDoc
	if err := r.collection.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task, err := r.fromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func buildListFilter(userID string, filter domain.TaskFilter) bson.M {
	query := bson.M{
		"userId":    userID,
		"deletedAt": nil,
	}

	if filter.Archived != nil && *filter.Archived {
		query["archivedAt"] = bson.M{"$ne": nil}
	} else {
		query["archivedAt"] = nil
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.DueDate != nil {
		query["dueDate"] = bson.M{"$lte": *filter.DueDate}
	}

	return query
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

func (r *TaskRepository) toDoc(task domain.Task) (taskDoc, error) {
	title, err := fieldcrypt.EncryptField(r.enc, task.Title)
	if err != nil {
		return taskDoc{}, err
	}

	description := ""
	if task.Description != nil {
		description, err = fieldcrypt.EncryptField(r.enc, *task.Description)
		if err != nil {
			return taskDoc{}, err
		}
	}

	checklist, err := fieldcrypt.EncryptChecklist(r.enc, task.Checklist)
	if err != nil {
		return taskDoc{}, err
	}

	return taskDoc{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       title,
		Description: description,
		Checklist:   checklist,
		DueDate:     task.DueDate,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		ModifiedAt:  task.ModifiedAt,
		ArchivedAt:  task.ArchivedAt,
		DeletedAt:   task.DeletedAt,
	}, nil
}

func (r *TaskRepository) fromDoc(doc taskDoc) (domain.Task, error) {
	title, err := fieldcrypt.DecryptField(r.enc, doc.Title)
	if err != nil {
		return domain.Task{}, err
	}

	var description *string
	if doc.Description != "" {
		value, err := fieldcrypt.DecryptField(r.enc, doc.Description)
		if err != nil {
			return domain.Task{}, err
		}
		description = &value
	}

	checklist, err := fieldcrypt.DecryptChecklist(r.enc, doc.Checklist)
	if err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Title:       title,
		Description: description,
		Checklist:   checklist,
		DueDate:     doc.DueDate,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		ModifiedAt:  doc.ModifiedAt,
		ArchivedAt:  doc.ArchivedAt,
		DeletedAt:   doc.DeletedAt,
	}, nil
}
