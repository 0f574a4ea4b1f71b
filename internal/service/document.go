package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xolan/certtrack/internal/storage"
	"github.com/xolan/certtrack/internal/tracker"
)

// documentOwner serializes access to the stored document so concurrent
// callers (HTTP handlers, the TUI) behave as one writer.
type documentOwner struct {
	mu     sync.Mutex
	store  storage.Store
	logger *zap.Logger
}

func newDocumentOwner(store storage.Store, logger *zap.Logger) *documentOwner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentOwner{store: store, logger: logger}
}

// read returns the current document.
func (o *documentOwner) read(ctx context.Context) (tracker.Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	doc, err := o.store.Load(ctx)
	if err != nil {
		return doc, fmt.Errorf("failed to read tracker document: %w", err)
	}
	return doc, nil
}

// update loads the document, applies fn and saves the result.
// Nothing is saved when fn fails.
func (o *documentOwner) update(ctx context.Context, op string, fn func(tracker.Document) (tracker.Document, error)) (tracker.Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	doc, err := o.store.Load(ctx)
	if err != nil {
		return doc, fmt.Errorf("failed to read tracker document: %w", err)
	}

	next, err := fn(doc)
	if err != nil {
		return doc, err
	}

	if err := o.store.Save(ctx, next); err != nil {
		o.logger.Error("save failed", zap.String("op", op), zap.String("store", o.store.Location()), zap.Error(err))
		return doc, fmt.Errorf("failed to save tracker document: %w", err)
	}

	o.logger.Debug("document saved",
		zap.String("op", op),
		zap.Int("courses", len(next.Courses)),
		zap.Float64("hoursCompleted", next.HoursCompleted),
		zap.Float64("hoursRemaining", next.HoursRemaining),
	)
	return next, nil
}

// locked runs fn while holding the document lock. Used by operations that
// touch the store outside load/save, such as restoring a backup.
func (o *documentOwner) locked(fn func(storage.Store) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return fn(o.store)
}
