package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flotilladb/flotilla/gologger"
	"github.com/flotilladb/flotilla/tabular"
)

const (
	DefaultLockTimeout  = 5 * time.Second
	DefaultCacheEntries = 128
)

type Config struct {
	Dir          string
	LockTimeout  time.Duration
	CacheEntries int
}

// Engine is the storage facade: a synchronous, table-granular CRUD surface
// over workbook files, with locking, pre-write snapshots and a read cache.
// It performs no internal concurrency; callers bring their own.
type Engine struct {
	config    *Config
	locks     *LockManager
	snapshots *SnapshotManager
	cache     *CacheLayer
	log       zerolog.Logger
}

func NewEngine(config *Config) (*Engine, error) {

	if config.LockTimeout <= 0 {
		config.LockTimeout = DefaultLockTimeout
	}
	if config.CacheEntries <= 0 {
		config.CacheEntries = DefaultCacheEntries
	}

	err := os.MkdirAll(config.Dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	cache, err := NewCacheLayer(config.CacheEntries)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:    config,
		locks:     NewLockManager(config.Dir, config.LockTimeout),
		snapshots: NewSnapshotManager(config.Dir),
		cache:     cache,
		log:       gologger.NewLogger().With().Str("component", "store").Logger(),
	}, nil
}

func (e *Engine) Stop() {
	e.cache.Clear()
}

// Datasets lists the dataset files present in the data directory.
func (e *Engine) Datasets() ([]string, error) {
	entries, err := os.ReadDir(e.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	datasets := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, workbookExtension) {
			continue
		}
		datasets = append(datasets, strings.TrimSuffix(filepath.Base(name), workbookExtension))
	}
	return datasets, nil
}

// Read returns the full table, from the cache when present and valid, else
// decoded from disk and cached.
func (e *Engine) Read(ctx context.Context, key Key) (*tabular.Table, error) {

	err := validDataset(key.Dataset)
	if err != nil {
		return nil, err
	}

	lock, err := e.acquire(ctx, key.Dataset, LockRead)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	readsTotal.Inc()

	if table, hit := e.cache.Get(key); hit {
		cacheHitsTotal.Inc()
		return table, nil
	}
	cacheMissesTotal.Inc()

	table, err := e.readFromDisk(key)
	if err != nil {
		return nil, err
	}

	e.cache.Put(key, table)

	return table, nil
}

// Append adds a new row; its key must not be present yet.
func (e *Engine) Append(ctx context.Context, key Key, input map[string]any) (tabular.Row, error) {

	var appended tabular.Row

	err := e.mutate(ctx, key, false, func(table *tabular.Table) error {
		row, err := coerceRow(table.Schema, input)
		if err != nil {
			return err
		}

		rowKey, err := table.KeyOf(row)
		if err != nil {
			return err
		}
		if table.FindRow(rowKey) >= 0 {
			return fmt.Errorf("%w: '%s' in table '%s'", ErrDuplicateKey, rowKey, key.Table)
		}

		table.Rows = append(table.Rows, row)
		appended = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return appended, nil
}

// Update applies a partial field set to the row with the given key.
func (e *Engine) Update(ctx context.Context, key Key, rowKey string, patch map[string]any) (tabular.Row, error) {

	var updated tabular.Row

	err := e.mutate(ctx, key, false, func(table *tabular.Table) error {
		i := table.FindRow(rowKey)
		if i < 0 {
			return fmt.Errorf("%w: row '%s' in table '%s'", ErrNotFound, rowKey, key.Table)
		}

		row := table.Rows[i]
		for name, value := range patch {
			column, exists := table.Schema.Column(name)
			if !exists {
				return fmt.Errorf("%w: unknown column '%s'", tabular.ErrSchema, name)
			}
			coerced, err := tabular.Coerce(value, column.Kind)
			if err != nil {
				return err
			}
			if name == table.Schema.Key() {
				newKey, err := tabular.Format(coerced, column.Kind)
				if err != nil {
					return err
				}
				if newKey != rowKey && table.FindRow(newKey) >= 0 {
					return fmt.Errorf("%w: '%s' in table '%s'", ErrDuplicateKey, newKey, key.Table)
				}
			}
			row[name] = coerced
		}

		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the row with the given key, preserving the order of the
// remaining rows.
func (e *Engine) Delete(ctx context.Context, key Key, rowKey string) error {

	return e.mutate(ctx, key, false, func(table *tabular.Table) error {
		i := table.FindRow(rowKey)
		if i < 0 {
			return fmt.Errorf("%w: row '%s' in table '%s'", ErrNotFound, rowKey, key.Table)
		}

		table.Rows = append(table.Rows[:i], table.Rows[i+1:]...)
		return nil
	})
}

// Write persists a complete replacement table, creating the dataset file if
// needed. This is the bulk import path.
func (e *Engine) Write(ctx context.Context, key Key, table *tabular.Table) error {

	if table.Name != key.Table {
		return fmt.Errorf("%w: table is named '%s', key says '%s'", tabular.ErrSchema, table.Name, key.Table)
	}
	err := table.Validate()
	if err != nil {
		return err
	}

	replacement := table.Clone()

	return e.mutateWorkbook(ctx, key, true, func(workbook *tabular.Workbook) error {
		workbook.Replace(replacement)
		return nil
	})
}

// Restore overwrites the live dataset file with its retained pre-write
// snapshot. It takes the same write lock as ordinary mutations, so it
// serializes with any in-flight write.
func (e *Engine) Restore(ctx context.Context, dataset string) error {

	err := validDataset(dataset)
	if err != nil {
		return err
	}

	lock, err := e.acquire(ctx, dataset, LockWrite)
	if err != nil {
		return err
	}
	defer lock.Release()

	err = e.snapshots.Restore(dataset)
	if err != nil {
		return err
	}

	e.cache.InvalidateDataset(dataset)
	restoresTotal.Inc()
	e.log.Warn().Str("dataset", dataset).Msg("restored dataset from snapshot")

	return nil
}

// mutate runs fn against one table inside the standard write transaction.
func (e *Engine) mutate(ctx context.Context, key Key, allowCreate bool, fn func(table *tabular.Table) error) error {
	return e.mutateWorkbook(ctx, key, allowCreate, func(workbook *tabular.Workbook) error {
		table := workbook.Table(key.Table)
		if table == nil {
			return fmt.Errorf("%w: table '%s' in dataset '%s'", ErrNotFound, key.Table, key.Dataset)
		}
		return fn(table)
	})
}

// mutateWorkbook is the single write transaction: write lock, snapshot
// capture, decode, mutate, encode, write, snapshot commit, cache
// invalidation. Any failure before the final write leaves the prior on-disk
// state; the write lock excludes every concurrent observer meanwhile.
func (e *Engine) mutateWorkbook(ctx context.Context, key Key, allowCreate bool, fn func(workbook *tabular.Workbook) error) error {

	err := validDataset(key.Dataset)
	if err != nil {
		return err
	}

	lock, err := e.acquire(ctx, key.Dataset, LockWrite)
	if err != nil {
		return err
	}
	defer lock.Release()

	handle, err := e.snapshots.Capture(key.Dataset)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if !allowCreate {
			return fmt.Errorf("%w: dataset '%s'", ErrNotFound, key.Dataset)
		}
		handle = nil // nothing on disk yet, nothing to snapshot
	}

	workbook := &tabular.Workbook{}
	if handle != nil {
		source, err := os.ReadFile(datasetPath(e.config.Dir, key.Dataset))
		if err != nil {
			return fmt.Errorf("read dataset '%s': %w", key.Dataset, err)
		}
		workbook, err = tabular.Decode(source)
		if err != nil {
			return err
		}
	}

	err = fn(workbook)
	if err != nil {
		return err
	}

	encoded, err := tabular.Encode(workbook)
	if err != nil {
		return err
	}

	err = os.WriteFile(datasetPath(e.config.Dir, key.Dataset), encoded, 0666)
	if err != nil {
		return fmt.Errorf("write dataset '%s': %w", key.Dataset, err)
	}

	if handle != nil {
		err = e.snapshots.Commit(handle)
		if err != nil {
			return err
		}
	}

	e.cache.Invalidate(key)
	writesTotal.Inc()
	e.log.Debug().Str("dataset", key.Dataset).Str("table", key.Table).Msg("committed write")

	return nil
}

func (e *Engine) acquire(ctx context.Context, dataset string, mode LockMode) (*Lock, error) {
	lock, err := e.locks.Acquire(ctx, dataset, mode)
	if errors.Is(err, ErrLockTimeout) {
		lockTimeoutsTotal.Inc()
	}
	return lock, err
}

func (e *Engine) readFromDisk(key Key) (*tabular.Table, error) {

	source, err := os.ReadFile(datasetPath(e.config.Dir, key.Dataset))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: dataset '%s'", ErrNotFound, key.Dataset)
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset '%s': %w", key.Dataset, err)
	}

	workbook, err := tabular.Decode(source)
	if err != nil {
		return nil, err
	}

	table := workbook.Table(key.Table)
	if table == nil {
		return nil, fmt.Errorf("%w: table '%s' in dataset '%s'", ErrNotFound, key.Table, key.Dataset)
	}

	return table, nil
}

// coerceRow validates a row against the schema: every column present, no
// extra fields, every value coercible to its column kind.
func coerceRow(schema tabular.Schema, input map[string]any) (tabular.Row, error) {

	for name := range input {
		if _, exists := schema.Column(name); !exists {
			return nil, fmt.Errorf("%w: unknown column '%s'", tabular.ErrSchema, name)
		}
	}

	row := tabular.Row{}
	for _, column := range schema.Columns {
		value, exists := input[column.Name]
		if !exists {
			return nil, fmt.Errorf("%w: missing column '%s'", tabular.ErrSchema, column.Name)
		}
		coerced, err := tabular.Coerce(value, column.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w (column '%s')", err, column.Name)
		}
		row[column.Name] = coerced
	}

	return row, nil
}
