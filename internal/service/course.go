package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xolan/certtrack/internal/config"
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/timeutil"
	"github.com/xolan/certtrack/internal/tracker"
)

// Common errors for the course service
var (
	ErrInvalidIndex       = errors.New("invalid course index")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNoCourses          = errors.New("no courses logged")
	ErrNoChangesSpecified = errors.New("at least one change must be specified")
	ErrMissingDuration    = errors.New("a duration is required")
)

// AddRequest describes a single course typed by the user.
// An empty Category uses the configured default category; Counts nil uses
// the configured default for counting toward completed.
type AddRequest struct {
	Name     string
	Time     string
	Category string
	Custom   string
	Counts   *bool
}

// EditRequest lists the fields to change; nil fields are kept.
// A Category of "Auto-detect" or "Custom" is resolved against the (new) name
// and Custom like on creation.
type EditRequest struct {
	Name     *string
	Time     *string
	Category *string
	Custom   string
	Counts   *bool
}

// IsEmpty reports whether the request changes nothing.
func (r EditRequest) IsEmpty() bool {
	return r.Name == nil && r.Time == nil && r.Category == nil && r.Counts == nil
}

// ImportRequest describes a bulk import block and its block-wide options.
// An empty Category uses the configured default; Counts nil uses the configured default.
type ImportRequest struct {
	Text     string
	Category string
	Custom   string
	Counts   *bool
	DryRun   bool
	// Categories overrides the category of single drafts, keyed by 1-based position
	Categories map[int]string
}

// CourseService provides operations on the course log
type CourseService struct {
	owner  *documentOwner
	config config.Config
	newID  func() course.ID
}

// NewCourseService creates a new CourseService
func NewCourseService(owner *documentOwner, cfg config.Config) *CourseService {
	return &CourseService{
		owner:  owner,
		config: cfg,
		newID:  func() course.ID { return course.ID(uuid.New().String()) },
	}
}

// Add logs one course and adds its duration to hours completed when it counts.
func (s *CourseService) Add(ctx context.Context, req AddRequest) (*course.Entry, tracker.State, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tracker.State{}, course.ErrEmptyName
	}
	if strings.TrimSpace(req.Time) == "" {
		return nil, tracker.State{}, ErrMissingDuration
	}

	d, err := timeutil.ParseDuration(req.Time)
	if err != nil {
		return nil, tracker.State{}, err
	}

	category := course.ResolveCategory(s.categoryOrDefault(req.Category), req.Custom, name)
	counts := s.countsOrDefault(req.Counts)

	var added course.Entry
	doc, err := s.owner.update(ctx, "add course", func(doc tracker.Document) (tracker.Document, error) {
		added = course.New(s.uniqueID(doc, nil), name, d, category, counts)
		return doc.AddCourses(added)
	})
	if err != nil {
		return nil, tracker.State{}, err
	}
	return &added, doc.State, nil
}

// Preview parses a bulk block without saving anything.
func (s *CourseService) Preview(req ImportRequest) ([]course.Draft, error) {
	return s.parseDrafts(req)
}

// Import parses a bulk block and commits every line or none. The whole batch
// moves hours completed by one aggregate delta.
func (s *CourseService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	drafts, err := s.parseDrafts(req)
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		doc, err := s.owner.read(ctx)
		if err != nil {
			return nil, err
		}
		entries := course.Entries(drafts)
		return &ImportResult{
			Courses:    entries,
			AddedHours: tracker.CountedHours(entries),
			State:      tracker.Reconcile(doc.State, tracker.CoursesAdded{Courses: entries}),
			DryRun:     true,
		}, nil
	}

	var committed []course.Entry
	doc, err := s.owner.update(ctx, "import courses", func(doc tracker.Document) (tracker.Document, error) {
		committed = s.commitDrafts(doc, drafts)
		return doc.AddCourses(committed...)
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Courses:    committed,
		AddedHours: tracker.CountedHours(committed),
		State:      doc.State,
	}, nil
}

// List returns courses matching f with their log positions.
func (s *CourseService) List(ctx context.Context, f *filter.Filter) (*ListResult, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Courses: []IndexedCourse{}, Filtered: !f.IsEmpty()}
	durations := make([]timeutil.Duration, 0, len(doc.Courses))
	for i, c := range doc.Courses {
		if !f.Matches(c) {
			continue
		}
		result.Courses = append(result.Courses, IndexedCourse{Course: c, Index: i + 1})
		durations = append(durations, c.Duration())
		result.CountedHours += c.CountedHours()
	}
	result.Total = timeutil.Sum(durations...)

	return result, nil
}

// Categories returns the known platform categories followed by every other
// category in use, in order of first appearance.
func (s *CourseService) Categories(ctx context.Context) ([]string, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := []string{}
	for _, c := range course.KnownCategories() {
		seen[c] = true
		categories = append(categories, c)
	}
	for _, c := range doc.Courses {
		if !seen[c.Category] {
			seen[c.Category] = true
			categories = append(categories, c.Category)
		}
	}
	return categories, nil
}

// Get returns the course with the given id.
func (s *CourseService) Get(ctx context.Context, id course.ID) (*IndexedCourse, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return nil, err
	}

	c, idx, ok := doc.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tracker.ErrCourseNotFound, id)
	}
	return &IndexedCourse{Course: c, Index: idx + 1}, nil
}

// GetByIndex returns the course at the given user index (1-based)
func (s *CourseService) GetByIndex(ctx context.Context, userIndex int) (*IndexedCourse, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return nil, err
	}

	c, err := courseAt(doc, userIndex)
	if err != nil {
		return nil, err
	}
	return &IndexedCourse{Course: c, Index: userIndex}, nil
}

// Edit replaces the course with the given id by its edited version and
// reconciles hours completed against the old version.
func (s *CourseService) Edit(ctx context.Context, id course.ID, req EditRequest) (*EditResult, error) {
	return s.edit(ctx, req, func(doc tracker.Document) (course.Entry, error) {
		c, _, ok := doc.Find(id)
		if !ok {
			return course.Entry{}, fmt.Errorf("%w: %s", tracker.ErrCourseNotFound, id)
		}
		return c, nil
	})
}

// EditByIndex edits the course at the given user index (1-based)
func (s *CourseService) EditByIndex(ctx context.Context, userIndex int, req EditRequest) (*EditResult, error) {
	if userIndex < 1 {
		return nil, ErrInvalidIndex
	}
	return s.edit(ctx, req, func(doc tracker.Document) (course.Entry, error) {
		return courseAt(doc, userIndex)
	})
}

// Delete removes the course with the given id, taking its hours back out of
// hours completed when it counted.
func (s *CourseService) Delete(ctx context.Context, id course.ID) (*DeleteResult, error) {
	var removed course.Entry
	doc, err := s.owner.update(ctx, "delete course", func(doc tracker.Document) (tracker.Document, error) {
		next, old, err := doc.DeleteCourse(id)
		removed = old
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Course: removed, State: doc.State}, nil
}

// DeleteByIndex removes the course at the given user index (1-based)
func (s *CourseService) DeleteByIndex(ctx context.Context, userIndex int) (*DeleteResult, error) {
	if userIndex < 1 {
		return nil, ErrInvalidIndex
	}

	var removed course.Entry
	doc, err := s.owner.update(ctx, "delete course", func(doc tracker.Document) (tracker.Document, error) {
		c, err := courseAt(doc, userIndex)
		if err != nil {
			return doc, err
		}
		next, old, err := doc.DeleteCourse(c.ID)
		removed = old
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Course: removed, State: doc.State}, nil
}

func (s *CourseService) edit(ctx context.Context, req EditRequest, pick func(tracker.Document) (course.Entry, error)) (*EditResult, error) {
	if req.IsEmpty() {
		return nil, ErrNoChangesSpecified
	}

	// parse before taking the lock so bad input never touches the store
	var d *timeutil.Duration
	if req.Time != nil {
		parsed, err := timeutil.ParseDuration(*req.Time)
		if err != nil {
			return nil, err
		}
		d = &parsed
	}

	result := &EditResult{}
	doc, err := s.owner.update(ctx, "edit course", func(doc tracker.Document) (tracker.Document, error) {
		old, err := pick(doc)
		if err != nil {
			return doc, err
		}

		edited := old
		if req.Name != nil {
			edited.Name = strings.TrimSpace(*req.Name)
		}
		if d != nil {
			edited.Hours = d.Hours
			edited.Minutes = d.Minutes
		}
		if req.Category != nil {
			edited.Category = course.ResolveCategory(strings.TrimSpace(*req.Category), req.Custom, edited.Name)
		}
		if req.Counts != nil {
			edited.CountsTowardCompleted = *req.Counts
		}

		next, prev, err := doc.EditCourse(edited)
		if err != nil {
			return doc, err
		}
		result.Old = prev
		result.New, _, _ = next.Find(edited.ID)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	result.State = doc.State
	return result, nil
}

// commitDrafts replaces temporary draft ids by fresh ids, unique against the
// document and within the batch.
func (s *CourseService) commitDrafts(doc tracker.Document, drafts []course.Draft) []course.Entry {
	batch := make(map[course.ID]bool, len(drafts))
	entries := make([]course.Entry, 0, len(drafts))
	for _, d := range drafts {
		e := d.Entry
		e.ID = s.uniqueID(doc, batch)
		batch[e.ID] = true
		entries = append(entries, e)
	}
	return entries
}

func (s *CourseService) uniqueID(doc tracker.Document, batch map[course.ID]bool) course.ID {
	for {
		id := s.newID()
		if _, _, taken := doc.Find(id); taken || batch[id] {
			continue
		}
		return id
	}
}

func (s *CourseService) parseDrafts(req ImportRequest) ([]course.Draft, error) {
	drafts, err := course.ParseBlock(req.Text, s.blockOptions(req))
	if err != nil {
		return nil, err
	}
	if err := course.ApplyCategories(drafts, req.Categories); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (s *CourseService) blockOptions(req ImportRequest) course.BlockOptions {
	return course.BlockOptions{
		DefaultCategory:       s.categoryOrDefault(req.Category),
		CustomCategory:        req.Custom,
		CountsTowardCompleted: s.countsOrDefault(req.Counts),
	}
}

func (s *CourseService) categoryOrDefault(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return s.config.DefaultCategory
}

func (s *CourseService) countsOrDefault(counts *bool) bool {
	if counts != nil {
		return *counts
	}
	return s.config.CountTowardCompleted
}

func courseAt(doc tracker.Document, userIndex int) (course.Entry, error) {
	if userIndex < 1 {
		return course.Entry{}, ErrInvalidIndex
	}
	if len(doc.Courses) == 0 {
		return course.Entry{}, ErrNoCourses
	}
	if userIndex > len(doc.Courses) {
		return course.Entry{}, fmt.Errorf("%w: valid range is 1-%d", ErrIndexOutOfRange, len(doc.Courses))
	}
	return doc.Courses[userIndex-1], nil
}
