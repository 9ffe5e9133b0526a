package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	dbadapter "github.com/gagovictor/task-manager-sub000/internal/adapter/db"
	"github.com/gagovictor/task-manager-sub000/internal/config"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/crypto"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestStore_UnsupportedEngineIsFatal(t *testing.T) {
	enc, err := crypto.NewAESGCM(testKey)
	require.NoError(t, err)

	store := dbadapter.NewStore(&config.Config{TaskEngine: "graph"}, enc)

	repo, err := store.Repository(context.Background())
	require.Nil(t, repo)
	require.ErrorIs(t, err, domain.ErrUnsupportedEngine)

	// Resolution happens once; later calls see the same outcome.
	repo, again := store.Repository(context.Background())
	require.Nil(t, repo)
	require.Equal(t, err, again)

	require.ErrorIs(t, store.Ping(context.Background()), domain.ErrUnsupportedEngine)
	require.NoError(t, store.Close(context.Background()))
}
