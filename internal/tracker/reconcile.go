// Package tracker holds the hours bookkeeping for a certification goal:
// the total/completed/remaining triple and the transitions that keep
// remaining == total - completed after every change.
package tracker

import "github.com/xolan/certtrack/internal/course"

// State is the tracked hours triple. Values are never clamped, so a negative
// remaining (goal exceeded) is reported as is.
type State struct {
	TotalHours     float64 `json:"totalHours" yaml:"total_hours"`
	HoursCompleted float64 `json:"hoursCompleted" yaml:"hours_completed"`
	HoursRemaining float64 `json:"hoursRemaining" yaml:"hours_remaining"`
}

// Event is a reconciliation event. The set of events is closed.
type Event interface {
	isEvent()
}

// SetTotal replaces the total hours needed.
type SetTotal struct{ Hours float64 }

// SetCompleted replaces the hours completed.
type SetCompleted struct{ Hours float64 }

// SetRemaining replaces the hours remaining; completed is derived from it.
type SetRemaining struct{ Hours float64 }

// CoursesAdded records one or more new courses. A batch is applied as a single
// aggregate change.
type CoursesAdded struct{ Courses []course.Entry }

// CourseEdited records a full replacement of a course.
type CourseEdited struct{ Old, New course.Entry }

// CourseDeleted records the removal of a course.
type CourseDeleted struct{ Course course.Entry }

func (SetTotal) isEvent()      {}
func (SetCompleted) isEvent()  {}
func (SetRemaining) isEvent()  {}
func (CoursesAdded) isEvent()  {}
func (CourseEdited) isEvent()  {}
func (CourseDeleted) isEvent() {}

// Reconcile applies ev to s and returns the new state. Exactly one field is
// re-derived from the other two.
func Reconcile(s State, ev Event) State {
	switch ev := ev.(type) {
	case SetTotal:
		s.TotalHours = ev.Hours
		s.HoursRemaining = s.TotalHours - s.HoursCompleted
	case SetCompleted:
		s.HoursCompleted = ev.Hours
		s.HoursRemaining = s.TotalHours - s.HoursCompleted
	case SetRemaining:
		s.HoursRemaining = ev.Hours
		s.HoursCompleted = s.TotalHours - s.HoursRemaining
	case CoursesAdded, CourseEdited, CourseDeleted:
		s.HoursCompleted += CompletedDelta(ev)
		s.HoursRemaining = s.TotalHours - s.HoursCompleted
	}
	return s
}

// CompletedDelta is the signed change a course event makes to hours completed.
// For an edit it follows the table:
//
//	old counted, new counted   new - old
//	only new counted           +new
//	only old counted           -old
//	neither                    0
func CompletedDelta(ev Event) float64 {
	switch ev := ev.(type) {
	case CoursesAdded:
		return CountedHours(ev.Courses)
	case CourseDeleted:
		return -ev.Course.CountedHours()
	case CourseEdited:
		return ev.New.CountedHours() - ev.Old.CountedHours()
	}
	return 0
}

// CountedHours sums the durations of the courses that count toward completed.
func CountedHours(courses []course.Entry) float64 {
	total := 0.0
	for _, c := range courses {
		total += c.CountedHours()
	}
	return total
}
