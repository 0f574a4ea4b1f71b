package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/xolan/certtrack/internal/tracker"
)

// FileStore keeps the document as an indented JSON file and rotates up to
// MaxBackupCount copies of the previous version before every write.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

// Location implements Store.
func (s *FileStore) Location() string {
	return "file " + s.path
}

// Close implements Store. There is nothing to release.
func (s *FileStore) Close() error {
	return nil
}

// Load reads the document. A missing file is the empty document.
func (s *FileStore) Load(ctx context.Context) (tracker.Document, error) {
	if err := ctx.Err(); err != nil {
		return EmptyDocument(), err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptyDocument(), nil
		}
		return EmptyDocument(), err
	}
	return decodeDocument(data)
}

// Save backs up the current file and then replaces it atomically
// (write to a temp file, then rename).
func (s *FileStore) Save(ctx context.Context, doc tracker.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	if err := CreateBackup(s.path); err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// CreateBackup implements BackupStore.
func (s *FileStore) CreateBackup() error {
	return CreateBackup(s.path)
}

// ListBackups implements BackupStore.
func (s *FileStore) ListBackups() ([]BackupInfo, error) {
	return ListBackupsForStorage(s.path)
}

// RestoreBackup implements BackupStore.
func (s *FileStore) RestoreBackup(n int) error {
	return RestoreBackupForStorage(s.path, n)
}

func writeFileAtomic(path string, data []byte) error {
	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return err
	}

	// Close temp file before rename
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}
