package store

import (
	"errors"
	"os"
	"testing"

	. "github.com/fulldump/biff"
)

func TestSnapshotCaptureRestore(t *testing.T) {

	dir := t.TempDir()
	sm := NewSnapshotManager(dir)

	original := []byte("pre-write table bytes")
	AssertNil(os.WriteFile(datasetPath(dir, "fleet"), original, 0666))

	handle, err := sm.Capture("fleet")
	AssertNil(err)
	AssertEqual(handle.Dataset, "fleet")
	AssertNotEqual(handle.ID, "")

	// A partial write corrupts the live file.
	AssertNil(os.WriteFile(datasetPath(dir, "fleet"), []byte("garb"), 0666))

	AssertNil(sm.Restore("fleet"))

	restored, err := os.ReadFile(datasetPath(dir, "fleet"))
	AssertNil(err)
	AssertEqual(restored, original)
}

func TestSnapshotCommitDiscards(t *testing.T) {

	dir := t.TempDir()
	sm := NewSnapshotManager(dir)

	AssertNil(os.WriteFile(datasetPath(dir, "fleet"), []byte("content"), 0666))

	handle, err := sm.Capture("fleet")
	AssertNil(err)
	AssertNil(sm.Commit(handle))

	err = sm.Restore("fleet")
	AssertNotNil(err)
	AssertEqual(errors.Is(err, ErrNoSnapshot), true)
}

func TestSnapshotCaptureMissingSource(t *testing.T) {

	sm := NewSnapshotManager(t.TempDir())

	_, err := sm.Capture("fleet")
	AssertNotNil(err)
	AssertEqual(errors.Is(err, os.ErrNotExist), true)
}

func TestSnapshotSupersedes(t *testing.T) {

	dir := t.TempDir()
	sm := NewSnapshotManager(dir)

	AssertNil(os.WriteFile(datasetPath(dir, "fleet"), []byte("first"), 0666))
	_, err := sm.Capture("fleet")
	AssertNil(err)

	AssertNil(os.WriteFile(datasetPath(dir, "fleet"), []byte("second"), 0666))
	_, err = sm.Capture("fleet")
	AssertNil(err)

	AssertNil(sm.Restore("fleet"))
	content, err := os.ReadFile(datasetPath(dir, "fleet"))
	AssertNil(err)
	AssertEqual(string(content), "second")
}
