// Package badgerstore provides the durable key-value backend for the global
// snapshot on top of BadgerDB. It plays the role browser local storage plays
// for web hosts: one fixed key, one opaque blob.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/goliatone/go-globals/pkg/state"
)

// Config holds configuration for a Badger-backed Store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory keeps everything in RAM. Intended for tests.
	InMemory bool
	// SyncWrites fsyncs every write. Global state is written rarely and must
	// survive a crash, so DefaultConfig enables it.
	SyncWrites bool
	// Logger receives Badger's internal logs. Nil silences them.
	Logger *slog.Logger
}

// DefaultConfig returns a durable configuration for path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store implements state.Store on a BadgerDB instance.
type Store struct {
	db *badger.DB
}

var _ state.Store = (*Store)(nil)

// Open opens (creating when needed) the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgerstore: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badgerstore: create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Opener adapts Open to state.Opener so state.Open can build a durable
// key-value backend for browser environments.
func Opener(logger *slog.Logger) state.Opener {
	return func(_ context.Context, path string) (state.Store, func() error, error) {
		cfg := DefaultConfig(path)
		cfg.Logger = logger
		store, err := Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}

func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, state.ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badgerstore: read %q: %w", key, err)
	}
	return string(blob), true, nil
}

func (s *Store) Write(ctx context.Context, key string, blob string) error {
	if key == "" {
		return state.ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(blob))
	})
	if err != nil {
		return fmt.Errorf("badgerstore: write %q: %w", key, err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
