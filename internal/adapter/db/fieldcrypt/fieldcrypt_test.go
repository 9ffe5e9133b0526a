package fieldcrypt_test

import (
	"testing"

	"github.com/gagovictor/task-manager-sub000/internal/adapter/db/fieldcrypt"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/crypto"

	"github.com/stretchr/testify/require"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func newEncryptor(t *testing.T) *crypto.AESGCM {
	t.Helper()
	enc, err := crypto.NewAESGCM(testKey)
	require.NoError(t, err)
	return enc
}

func TestField_EmptyBypassesEncryption(t *testing.T) {
	enc := newEncryptor(t)

	sealed, err := fieldcrypt.EncryptField(enc, "")
	require.NoError(t, err)
	require.Empty(t, sealed)

	opened, err := fieldcrypt.DecryptField(enc, "")
	require.NoError(t, err)
	require.Empty(t, opened)
}

func TestField_RoundTrip(t *testing.T) {
	enc := newEncryptor(t)

	sealed, err := fieldcrypt.EncryptField(enc, "Buy milk")
	require.NoError(t, err)
	require.NotEqual(t, "Buy milk", sealed)

	opened, err := fieldcrypt.DecryptField(enc, sealed)
	require.NoError(t, err)
	require.Equal(t, "Buy milk", opened)
}

func TestChecklist_RoundTrip(t *testing.T) {
	enc := newEncryptor(t)
	items := []domain.ChecklistItem{
		{ID: "1", Text: "eggs", Completed: true},
		{ID: "2", Text: "flour", Completed: false},
	}

	blob, err := fieldcrypt.EncryptChecklist(enc, items)
	require.NoError(t, err)
	require.NotContains(t, blob, "eggs")

	got, err := fieldcrypt.DecryptChecklist(enc, blob)
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestChecklist_EmptyPersistsAsEmptyString(t *testing.T) {
	enc := newEncryptor(t)

	blob, err := fieldcrypt.EncryptChecklist(enc, nil)
	require.NoError(t, err)
	require.Empty(t, blob)

	got, err := fieldcrypt.DecryptChecklist(enc, "")
	require.NoError(t, err)
	require.Nil(t, got)
}
