package tracker

import (
	"errors"
	"fmt"

	"github.com/xolan/certtrack/internal/course"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrDuplicateID    = errors.New("duplicate course id")
	ErrMissingID      = errors.New("course id is required")
)

// Document is the unit that gets persisted: the hours triple plus the course log.
// Transitions return a new Document and never modify the receiver's slice.
type Document struct {
	State   `yaml:",inline"`
	Courses []course.Entry `json:"courses" yaml:"courses"`
}

// Apply reconciles an hours event (SetTotal, SetCompleted, SetRemaining).
// Course events must go through AddCourses, EditCourse or DeleteCourse so the
// course list changes together with the state.
func (d Document) Apply(ev Event) Document {
	switch ev.(type) {
	case CoursesAdded, CourseEdited, CourseDeleted:
		return d
	}
	d.State = Reconcile(d.State, ev)
	return d
}

// Find returns the course with the given id and its position.
func (d Document) Find(id course.ID) (course.Entry, int, bool) {
	for i, c := range d.Courses {
		if c.ID == id {
			return c, i, true
		}
	}
	return course.Entry{}, -1, false
}

// AddCourses appends courses and moves hours completed by their counted total
// in one step. Ids must be set and unique across the document and the batch.
func (d Document) AddCourses(entries ...course.Entry) (Document, error) {
	if len(entries) == 0 {
		return d, nil
	}

	seen := make(map[course.ID]bool, len(d.Courses)+len(entries))
	for _, c := range d.Courses {
		seen[c.ID] = true
	}

	added := make([]course.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return d, ErrMissingID
		}
		if seen[e.ID] {
			return d, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		if err := e.Validate(); err != nil {
			return d, err
		}
		seen[e.ID] = true
		added = append(added, e.Normalize())
	}

	courses := make([]course.Entry, 0, len(d.Courses)+len(added))
	courses = append(courses, d.Courses...)
	courses = append(courses, added...)

	d.State = Reconcile(d.State, CoursesAdded{Courses: added})
	d.Courses = courses
	return d, nil
}

// EditCourse replaces the course with the same id and returns the previous version.
func (d Document) EditCourse(e course.Entry) (Document, course.Entry, error) {
	old, idx, ok := d.Find(e.ID)
	if !ok {
		return d, course.Entry{}, fmt.Errorf("%w: %s", ErrCourseNotFound, e.ID)
	}
	if err := e.Validate(); err != nil {
		return d, course.Entry{}, err
	}
	e = e.Normalize()

	courses := make([]course.Entry, len(d.Courses))
	copy(courses, d.Courses)
	courses[idx] = e

	d.State = Reconcile(d.State, CourseEdited{Old: old, New: e})
	d.Courses = courses
	return d, old, nil
}

// DeleteCourse removes the course with the given id and returns it.
func (d Document) DeleteCourse(id course.ID) (Document, course.Entry, error) {
	old, idx, ok := d.Find(id)
	if !ok {
		return d, course.Entry{}, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
	}

	courses := make([]course.Entry, 0, len(d.Courses)-1)
	courses = append(courses, d.Courses[:idx]...)
	courses = append(courses, d.Courses[idx+1:]...)

	d.State = Reconcile(d.State, CourseDeleted{Course: old})
	d.Courses = courses
	return d, old, nil
}

// Normalize refreshes every course's derived fields and restores the
// remaining-hours invariant. Used when a whole document is replaced from outside.
func (d Document) Normalize() Document {
	courses := make([]course.Entry, len(d.Courses))
	for i, c := range d.Courses {
		courses[i] = c.Normalize()
	}
	d.Courses = courses
	d.HoursRemaining = d.TotalHours - d.HoursCompleted
	return d
}
