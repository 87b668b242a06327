package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// OutputStore abstracts the filesystem operations the workflow relies on
// when reading inputs and writing expanded configs. It hides direct `os`
// access so the workflow logic can be tested without touching the disk.
type OutputStore interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.FilePath) ([]byte, error)

	// EnsureDir creates a directory (and parents) if absent.
	EnsureDir(path m.FilePath) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.FilePath, content []byte, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.FilePath

	// Stem returns the base name of a path without its extension.
	Stem(path m.FilePath) string

	// Extension returns the extension of a path, including the dot.
	Extension(path m.FilePath) string
}

// LocalOutputStore is the concrete OutputStore backed by the local
// filesystem.
type LocalOutputStore struct{}

// NewLocalOutputStore constructs a LocalOutputStore instance ready to be
// wired into the workflow.
func NewLocalOutputStore() *LocalOutputStore {
	return &LocalOutputStore{}
}

// ReadFile loads file contents from disk.
func (s *LocalOutputStore) ReadFile(path m.FilePath) ([]byte, error) {
	return os.ReadFile(string(path))
}

// EnsureDir creates the directory and any missing parents.
func (s *LocalOutputStore) EnsureDir(path m.FilePath) error {
	if err := os.MkdirAll(string(path), 0o750); err != nil {
		slog.Error("failed to create directory", "path", path, "error", err)
		return err
	}

	return nil
}

// WriteFile writes content to a file with the given permissions.
func (s *LocalOutputStore) WriteFile(path m.FilePath, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// JoinPath joins path elements into a single path.
func (s *LocalOutputStore) JoinPath(elem ...string) m.FilePath {
	return m.FilePath(filepath.Join(elem...))
}

// Stem returns the file name without directory or extension.
func (s *LocalOutputStore) Stem(path m.FilePath) string {
	base := filepath.Base(string(path))

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extension returns the file extension including the dot.
func (s *LocalOutputStore) Extension(path m.FilePath) string {
	return filepath.Ext(string(path))
}
