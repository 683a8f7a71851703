package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

const workbookExtension = ".xlsx"

func datasetPath(dir, dataset string) string {
	return filepath.Join(dir, dataset+workbookExtension)
}

func backupPath(dir, dataset string) string {
	return datasetPath(dir, dataset) + ".backup"
}

func lockPath(dir, dataset string) string {
	return datasetPath(dir, dataset) + ".lock"
}

// validDataset rejects identifiers that would escape the data directory.
func validDataset(dataset string) error {
	if dataset == "" {
		return fmt.Errorf("%w: empty dataset name", ErrNotFound)
	}
	if strings.ContainsAny(dataset, `/\`) || dataset == "." || dataset == ".." {
		return fmt.Errorf("%w: invalid dataset name '%s'", ErrNotFound, dataset)
	}
	return nil
}
