package store

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// SnapshotManager keeps at most one pre-write copy per dataset, written as a
// .backup sibling of the live workbook. A snapshot is captured right before a
// mutation and discarded once the write verifies; a failed write leaves it in
// place for Restore.
type SnapshotManager struct {
	dir string
}

type SnapshotHandle struct {
	ID      string
	Dataset string
}

func NewSnapshotManager(dir string) *SnapshotManager {
	return &SnapshotManager{dir: dir}
}

// Capture copies the dataset's current on-disk bytes aside. The temp file and
// rename keep a crash mid-capture from clobbering the previous snapshot.
func (sm *SnapshotManager) Capture(dataset string) (*SnapshotHandle, error) {

	source, err := os.ReadFile(datasetPath(sm.dir, dataset))
	if err != nil {
		return nil, fmt.Errorf("capture snapshot of '%s': %w", dataset, err)
	}

	backup := backupPath(sm.dir, dataset)
	temp := backup + ".tmp"

	err = os.WriteFile(temp, source, 0666)
	if err != nil {
		return nil, fmt.Errorf("write snapshot of '%s': %w", dataset, err)
	}

	err = os.Rename(temp, backup)
	if err != nil {
		return nil, fmt.Errorf("rename snapshot of '%s': %w", dataset, err)
	}

	return &SnapshotHandle{
		ID:      uuid.New().String(),
		Dataset: dataset,
	}, nil
}

// Commit discards the snapshot after a verified successful write.
func (sm *SnapshotManager) Commit(handle *SnapshotHandle) error {
	err := os.Remove(backupPath(sm.dir, handle.Dataset))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("commit snapshot of '%s': %w", handle.Dataset, err)
	}
	return nil
}

// Restore overwrites the live workbook with the most recent retained
// snapshot. It fails with ErrNoSnapshot if none is retained.
func (sm *SnapshotManager) Restore(dataset string) error {

	backup, err := os.ReadFile(backupPath(sm.dir, dataset))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: dataset '%s'", ErrNoSnapshot, dataset)
	}
	if err != nil {
		return fmt.Errorf("read snapshot of '%s': %w", dataset, err)
	}

	err = os.WriteFile(datasetPath(sm.dir, dataset), backup, 0666)
	if err != nil {
		return fmt.Errorf("restore '%s': %w", dataset, err)
	}

	return nil
}
