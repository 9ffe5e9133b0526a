// Package db resolves the configured storage engine to a task repository.
package db

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	cosmosadapter "github.com/gagovictor/task-manager-sub000/internal/adapter/db/cosmos"
	mongoadapter "github.com/gagovictor/task-manager-sub000/internal/adapter/db/mongo"
	mysqladapter "github.com/gagovictor/task-manager-sub000/internal/adapter/db/mysql"
	"github.com/gagovictor/task-manager-sub000/internal/config"
	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
)

type EngineType string

const (
	EngineRelational    EngineType = "relational"
	EngineDocument      EngineType = "document"
	EngineCloudDocument EngineType = "cloud-document"
)

// Store owns the process-wide engine client. The first Repository call
// connects; the once-guard keeps concurrent first requests from opening
// duplicate connections. Construct one Store in main, inject it, and Close
// it on shutdown.
type Store struct {
	cfg *config.Config
	enc ports.Encryptor

	once    sync.Once
	repo    ports.TaskRepository
	err     error
	pingFn  func(context.Context) error
	closeFn func(context.Context) error
}

func NewStore(cfg *config.Config, enc ports.Encryptor) *Store {
	return &Store{cfg: cfg, enc: enc}
}

func (s *Store) Repository(ctx context.Context) (ports.TaskRepository, error) {
	s.once.Do(func() {
		s.connect(ctx)
	})
	return s.repo, s.err
}

func (s *Store) connect(ctx context.Context) {
	switch EngineType(s.cfg.TaskEngine) {
	case EngineRelational:
		db, err := mysqladapter.Connect(s.cfg)
		if err != nil {
			s.err = fmt.Errorf("connect mysql: %w", err)
			return
		}
		s.repo = mysqladapter.NewTaskRepository(db, s.enc)
		s.pingFn = db.PingContext
		s.closeFn = func(context.Context) error { return db.Close() }

	case EngineDocument:
		client, err := mongoadapter.Connect(ctx, s.cfg.MongoURI)
		if err != nil {
			s.err = fmt.Errorf("connect mongodb: %w", err)
			return
		}
		s.repo = mongoadapter.NewTaskRepository(client.Database(s.cfg.MongoDatabase), s.enc)
		s.pingFn = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		s.closeFn = client.Disconnect

	case EngineCloudDocument:
		container, err := cosmosadapter.Connect(s.cfg)
		if err != nil {
			s.err = fmt.Errorf("connect cosmos: %w", err)
			return
		}
		s.repo = cosmosadapter.NewTaskRepository(container, s.enc)
		s.pingFn = func(ctx context.Context) error {
			_, err := container.Read(ctx, nil)
			return err
		}

	default:
		s.err = fmt.Errorf("%w: %q", domain.ErrUnsupportedEngine, s.cfg.TaskEngine)
	}
}

// Ping reports whether the resolved engine is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	if s.pingFn == nil {
		return fmt.Errorf("store not initialized")
	}
	return s.pingFn(ctx)
}

// Close tears down the underlying client, if the engine has one.
func (s *Store) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}
