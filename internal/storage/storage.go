// Package storage persists the tracker document. Every backend reads and
// writes the whole document at once.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/osutil"
	"github.com/xolan/certtrack/internal/tracker"
)

const (
	// DocumentFile is the default file backend location inside the app directory
	DocumentFile = "tracker.json"
	// DatabaseFile is the default sqlite backend location inside the app directory
	DatabaseFile = "tracker.db"
	// DocumentKey names the document on json-server remotes and in the sqlite table
	DocumentKey = "timeTrackerData"
	// DefaultHTTPTimeout bounds each request of the http backend
	DefaultHTTPTimeout = 10 * time.Second
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

var (
	ErrUnknownBackend     = errors.New("unknown storage backend")
	ErrBackupsUnsupported = errors.New("backups are only available for the file backend")
)

// Store loads and saves the tracker document.
// A store that has never been written to loads the empty document.
type Store interface {
	Load(ctx context.Context) (tracker.Document, error)
	Save(ctx context.Context, doc tracker.Document) error
	// Location describes where the document lives, for status output and logs.
	Location() string
	Close() error
}

// BackupStore is implemented by stores that keep rotating backups.
type BackupStore interface {
	Store
	ListBackups() ([]BackupInfo, error)
	RestoreBackup(n int) error
	CreateBackup() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Path      string // file and sqlite; defaults to the app directory
	RemoteURL string // http
	Timeout   time.Duration
}

// Open returns the store described by opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		path, err := pathOrDefault(opts.Path, DocumentFile)
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		path, err := pathOrDefault(opts.Path, DatabaseFile)
		if err != nil {
			return nil, err
		}
		return OpenSQLiteStore(path)
	case BackendHTTP:
		return NewHTTPStore(opts.RemoteURL, opts.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// GetStoragePath returns the default document path for the file backend.
// Creates the app directory if it doesn't exist.
func GetStoragePath() (string, error) {
	return osutil.AppFile(DocumentFile)
}

func pathOrDefault(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	return osutil.AppFile(name)
}

// EmptyDocument is what a store returns before anything was saved.
func EmptyDocument() tracker.Document {
	return tracker.Document{Courses: []course.Entry{}}
}

// decodeDocument parses a stored document. Blank input is the empty document.
func decodeDocument(data []byte) (tracker.Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return EmptyDocument(), nil
	}

	var doc tracker.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return EmptyDocument(), fmt.Errorf("failed to decode tracker document: %w", err)
	}
	if doc.Courses == nil {
		doc.Courses = []course.Entry{}
	}
	return doc, nil
}

func encodeDocument(doc tracker.Document) ([]byte, error) {
	if doc.Courses == nil {
		doc.Courses = []course.Entry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
