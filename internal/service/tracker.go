package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xolan/certtrack/internal/stats"
	"github.com/xolan/certtrack/internal/tracker"
)

// HoursField names one of the three editable hour values.
type HoursField string

const (
	FieldTotal     HoursField = "total"
	FieldCompleted HoursField = "completed"
	FieldRemaining HoursField = "remaining"
)

var (
	ErrUnknownHoursField = errors.New("unknown hours field")
	ErrInvalidHours      = errors.New("hours must be a finite number")
)

// ParseHoursField accepts total, completed and remaining, plus the document
// key forms totalHours, hoursCompleted and hoursRemaining.
func ParseHoursField(s string) (HoursField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "total", "totalhours":
		return FieldTotal, nil
	case "completed", "hourscompleted":
		return FieldCompleted, nil
	case "remaining", "hoursremaining":
		return FieldRemaining, nil
	default:
		return "", fmt.Errorf("%w %q: use total, completed or remaining", ErrUnknownHoursField, s)
	}
}

// Event returns the reconciliation event that sets the field to hours.
func (f HoursField) Event(hours float64) (tracker.Event, error) {
	switch f {
	case FieldTotal:
		return tracker.SetTotal{Hours: hours}, nil
	case FieldCompleted:
		return tracker.SetCompleted{Hours: hours}, nil
	case FieldRemaining:
		return tracker.SetRemaining{Hours: hours}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownHoursField, string(f))
	}
}

// TrackerService reads and edits the hours triple and the document as a whole.
type TrackerService struct {
	owner *documentOwner
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(owner *documentOwner) *TrackerService {
	return &TrackerService{owner: owner}
}

// Status returns the hours triple with course totals.
func (s *TrackerService) Status(ctx context.Context) (*StatusResult, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		State:             doc.State,
		CourseCount:       len(doc.Courses),
		CountedHours:      tracker.CountedHours(doc.Courses),
		CompletionPercent: stats.CompletionPercent(doc.State),
		Location:          s.owner.store.Location(),
	}, nil
}

// SetHours edits one hour value and re-derives the dependent one.
// Values are not clamped; a total below completed yields negative remaining.
func (s *TrackerService) SetHours(ctx context.Context, field HoursField, hours float64) (tracker.State, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return tracker.State{}, ErrInvalidHours
	}

	ev, err := field.Event(hours)
	if err != nil {
		return tracker.State{}, err
	}

	doc, err := s.owner.update(ctx, "set "+string(field), func(d tracker.Document) (tracker.Document, error) {
		return d.Apply(ev), nil
	})
	if err != nil {
		return tracker.State{}, err
	}
	return doc.State, nil
}

// Document returns the whole stored document.
func (s *TrackerService) Document(ctx context.Context) (tracker.Document, error) {
	return s.owner.read(ctx)
}

// ReplaceDocument stores doc as a whole, refreshing derived course fields and
// hours remaining. Course ids must be present and unique.
func (s *TrackerService) ReplaceDocument(ctx context.Context, doc tracker.Document) (tracker.Document, error) {
	seen := make(map[string]bool, len(doc.Courses))
	for _, c := range doc.Courses {
		if c.ID == "" {
			return doc, tracker.ErrMissingID
		}
		if seen[string(c.ID)] {
			return doc, fmt.Errorf("%w: %s", tracker.ErrDuplicateID, c.ID)
		}
		seen[string(c.ID)] = true
		if err := c.Validate(); err != nil {
			return doc, fmt.Errorf("course %s: %w", c.ID, err)
		}
	}

	return s.owner.update(ctx, "replace document", func(tracker.Document) (tracker.Document, error) {
		return doc.Normalize(), nil
	})
}

// Check runs the consistency check over the stored document.
func (s *TrackerService) Check(ctx context.Context) (tracker.Health, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return tracker.Health{}, err
	}
	return tracker.Check(doc), nil
}

// Repair rewrites the document with derived fields refreshed and the
// remaining-hours invariant restored. Hours completed is left as stored.
func (s *TrackerService) Repair(ctx context.Context) (tracker.Health, error) {
	doc, err := s.owner.update(ctx, "repair", func(d tracker.Document) (tracker.Document, error) {
		return d.Normalize(), nil
	})
	if err != nil {
		return tracker.Health{}, err
	}
	return tracker.Check(doc), nil
}
