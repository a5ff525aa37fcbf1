package backend

import (
	"context"
	"errors"
	"fmt"

	"gagyebu/internal/amqp"
	"gagyebu/internal/groups"
	"gagyebu/internal/groups/memory"
	applog "gagyebu/internal/log"
	"gagyebu/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store   groups.Store
		cleanup CleanupFunc
		err     error
	)
	switch config.Type {
	case SQLiteBackend:
		store, cleanup, err = f.createSQLiteStore(ctx, config)
	case MemoryBackend:
		store, err = f.createMemoryStore(ctx, config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Groups: store, Cleanup: cleanup}
	if config.AMQPURL == "" {
		f.logger.InfoContext(ctx, "AMQP not configured, reports will not be published")
		return result, nil
	}

	// Publishing is optional.
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without publishing",
			applog.FieldError, err)
		return result, nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	result.Publisher = client
	result.Cleanup = chain(cleanup, client.Close)
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (groups.Store, CleanupFunc, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createMemoryStore(ctx context.Context, config Config) (groups.Store, error) {
	if config.GroupsFile == "" {
		f.logger.InfoContext(ctx, "Initialized memory backend with default groups")
		return memory.New(), nil
	}
	store, err := memory.NewFromFile(config.GroupsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups file: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized memory backend", "groups_file", config.GroupsFile)
	return store, nil
}

func chain(fns ...CleanupFunc) CleanupFunc {
	return func() error {
		var errs []error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
