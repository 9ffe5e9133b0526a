package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/crypto"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func boolPtr(v bool) *bool          { return &v }
func strPtr(v string) *string       { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestBuildListFilter_DefaultExcludesArchivedAndDeleted(t *testing.T) {
	where, args := buildListFilter("u1", domain.TaskFilter{})

	require.Equal(t, "user_id = ? AND deleted_at IS NULL AND archived_at IS NULL", where)
	require.Equal(t, []any{"u1"}, args)
}

func TestBuildListFilter_ArchivedTrue(t *testing.T) {
	where, _ := buildListFilter("u1", domain.TaskFilter{Archived: boolPtr(true)})

	require.Equal(t, "user_id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL", where)
}

func TestBuildListFilter_ArchivedFalseMatchesDefault(t *testing.T) {
	explicit, _ := buildListFilter("u1", domain.TaskFilter{Archived: boolPtr(false)})
	implicit, _ := buildListFilter("u1", domain.TaskFilter{})

	require.Equal(t, implicit, explicit)
}

func TestBuildListFilter_StatusAndDueDate(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildListFilter("u1", domain.TaskFilter{
		Status:  strPtr("active"),
		DueDate: &due,
	})

	require.Equal(t,
		"user_id = ? AND deleted_at IS NULL AND archived_at IS NULL AND status = ? AND due_date <= ?",
		where)
	require.Equal(t, []any{"u1", "active", due}, args)
}

func TestRowCodec_RoundTripAndCiphertextAtRest(t *testing.T) {
	enc, err := crypto.NewAESGCM(testKey)
	require.NoError(t, err)
	repo := NewTaskRepository(nil, enc)

	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	task := domain.Task{
		ID:          "t1",
		UserID:      "u1",
		Title:       "Buy milk",
		Description: strPtr("from the corner shop"),
		Checklist: []domain.ChecklistItem{
			{ID: "c1", Text: "semi-skimmed", Completed: false},
		},
		DueDate:   &due,
		Status:    domain.TaskStatusNew,
		CreatedAt: time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC),
	}

	row, err := repo.toRow(task)
	require.NoError(t, err)

	// Sensitive fields are opaque ciphertext in the row.
	require.NotEqual(t, task.Title, row.Title)
	require.NotContains(t, row.Description, "corner shop")
	require.NotContains(t, row.Checklist, "semi-skimmed")

	got, err := repo.fromRow(row)
	require.NoError(t, err)
	require.Equal(t, task, got)
}

func TestRowCodec_AbsentFieldsStayEmpty(t *testing.T) {
	enc, err := crypto.NewAESGCM(testKey)
	require.NoError(t, err)
	repo := NewTaskRepository(nil, enc)

	task := domain.Task{
		ID:        "t1",
		UserID:    "u1",
		Title:     "Buy milk",
		Status:    domain.TaskStatusNew,
		CreatedAt: time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC),
	}

	row, err := repo.toRow(task)
	require.NoError(t, err)
	// Absent description and checklist persist as empty strings, never as
	// encrypted emptiness.
	require.Empty(t, row.Description)
	require.Empty(t, row.Checklist)

	got, err := repo.fromRow(row)
	require.NoError(t, err)
	require.Nil(t, got.Description)
	require.Nil(t, got.Checklist)
}

func TestApplyUpdate_SetFlagsClearFields(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := domain.Task{
		Title:       "old",
		Description: strPtr("keep me?"),
		DueDate:     &due,
		Status:      domain.TaskStatusNew,
	}

	applyUpdate(&task, domain.TaskUpdate{
		Title:          strPtr("new"),
		DescriptionSet: true, // nil value clears
		Status:         strPtr(domain.TaskStatusActive),
	})

	require.Equal(t, "new", task.Title)
	require.Nil(t, task.Description)
	require.Equal(t, &due, task.DueDate) // DueDateSet not raised, untouched
	require.Equal(t, domain.TaskStatusActive, task.Status)
}

func TestApplyUpdate_UntouchedWithoutFlags(t *testing.T) {
	original := domain.Task{
		Title:       "old",
		Description: strPtr("desc"),
		Checklist:   []domain.ChecklistItem{{ID: "c1", Text: "x"}},
		DueDate:     timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		Status:      domain.TaskStatusNew,
	}
	task := original

	applyUpdate(&task, domain.TaskUpdate{})

	require.Equal(t, original, task)
}
