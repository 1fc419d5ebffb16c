// Package artifact persists pipeline outputs - composed and scored tables
// and their diagnostics reports - in blob storage, keyed by run ID.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for pipeline artifacts. Tables are
// delimited text; reports are JSON.
type StorageClient interface {
	PutTable(ctx context.Context, runID, name string, data []byte) error
	GetTable(ctx context.Context, runID, name string) ([]byte, error)
	PutReport(ctx context.Context, runID, name string, data []byte) error
	GetReport(ctx context.Context, runID, name string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(runID, kind, name, ext string) string {
	return filepath.Join(s.BaseDir, runID, kind, name+ext)
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutTable stores a table artifact.
func (s *LocalStorage) PutTable(ctx context.Context, runID, name string, data []byte) error {
	return s.put(s.path(runID, "tables", name, ".csv"), data)
}

// GetTable retrieves a table artifact.
func (s *LocalStorage) GetTable(ctx context.Context, runID, name string) ([]byte, error) {
	return os.ReadFile(s.path(runID, "tables", name, ".csv"))
}

// PutReport stores a diagnostics report.
func (s *LocalStorage) PutReport(ctx context.Context, runID, name string, data []byte) error {
	return s.put(s.path(runID, "reports", name, ".json"), data)
}

// GetReport retrieves a diagnostics report.
func (s *LocalStorage) GetReport(ctx context.Context, runID, name string) ([]byte, error) {
	return os.ReadFile(s.path(runID, "reports", name, ".json"))
}
