package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/crypto"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestBuildListFilter_DefaultExcludesArchivedAndDeleted(t *testing.T) {
	query := buildListFilter("u1", domain.TaskFilter{})

	require.Equal(t, bson.M{
		"userId":     "u1",
		"deletedAt":  nil,
		"archivedAt": nil,
	}, query)
}

func TestBuildListFilter_ArchivedTrue(t *testing.T) {
	query := buildListFilter("u1", domain.TaskFilter{Archived: boolPtr(true)})

	require.Equal(t, bson.M{"$ne": nil}, query["archivedAt"])
}

func TestBuildListFilter_StatusAndDueDate(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	query := buildListFilter("u1", domain.TaskFilter{
		Status:  strPtr("active"),
		DueDate: &due,
	})

	require.Equal(t, "active", query["status"])
	require.Equal(t, bson.M{"$lte": due}, query["dueDate"])
}

func TestDocCodec_RoundTripAndCiphertextAtRest(t *testing.T) {
	enc, err := crypto.NewAESGCM(testKey)
	require.NoError(t, err)
	repo := &TaskRepository{enc: enc}

	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	task := domain.Task{
		ID:          "t1",
		UserID:      "u1",
		Title:       "Buy milk",
		Description: strPtr("from the corner shop"),
		Checklist: []domain.ChecklistItem{
			{ID: "c1", Text: "semi-skimmed", Completed: true},
		},
		DueDate:   &due,
		Status:    domain.TaskStatusNew,
		CreatedAt: time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC),
	}

	doc, err := repo.toDoc(task)
	require.NoError(t, err)
	require.NotEqual(t, task.Title, doc.Title)
	require.NotContains(t, doc.Description, "corner shop")
	require.NotContains(t, doc.Checklist, "semi-skimmed")

	got, err := repo.fromDoc(doc)
	require.NoError(t, err)
	require.Equal(t, task, got)
}

func TestDocCodec_AbsentFieldsStayEmpty(t *testing.T) {
	enc, err := crypto.NewAESGCM(testKey)
	require.NoError(t, err)
	repo := &TaskRepository{enc: enc}

	doc, err := repo.toDoc(domain.Task{ID: "t1", UserID: "u1", Title: "Buy milk"})
	require.NoError(t, err)
	require.Empty(t, doc.Description)
	require.Empty(t, doc.Checklist)

	got, err := repo.fromDoc(doc)
	require.NoError(t, err)
	require.Nil(t, got.Description)
	require.Nil(t, got.Checklist)
}
