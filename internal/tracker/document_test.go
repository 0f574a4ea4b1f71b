package tracker

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xolan/certtrack/internal/course"
)

func sampleDocument() Document {
	return Document{
		State: State{TotalHours: 50, HoursCompleted: 10, HoursRemaining: 40},
		Courses: []course.Entry{
			entry("a", 2, 0, true),
			entry("b", 1, 30, false),
		},
	}
}

func TestDocument_AddCourses(t *testing.T) {
	doc := sampleDocument()

	updated, err := doc.AddCourses(entry("c", 3, 0, true), entry("d", 4, 0, false))
	if err != nil {
		t.Fatalf("AddCourses() returned unexpected error: %v", err)
	}
	if len(updated.Courses) != 4 {
		t.Fatalf("len(Courses) = %d, expected 4", len(updated.Courses))
	}
	if !almostEqual(updated.HoursCompleted, 13) || !almostEqual(updated.HoursRemaining, 37) {
		t.Errorf("state after add = %+v, expected completed 13 remaining 37", updated.State)
	}
	if len(doc.Courses) != 2 {
		t.Error("AddCourses() must not modify the original document")
	}
}

func TestDocument_AddCoursesRejectsBadIDs(t *testing.T) {
	doc := sampleDocument()

	tests := []struct {
		name    string
		entries []course.Entry
		wantErr error
	}{
		{"existing id", []course.Entry{entry("a", 1, 0, true)}, ErrDuplicateID},
		{"duplicate within batch", []course.Entry{entry("x", 1, 0, true), entry("x", 2, 0, true)}, ErrDuplicateID},
		{"missing id", []course.Entry{entry("", 1, 0, true)}, ErrMissingID},
		{"empty name", []course.Entry{{ID: "y", Name: " "}}, course.ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := doc.AddCourses(tt.entries...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddCourses() error = %v, expected %v", err, tt.wantErr)
			}
			if len(result.Courses) != len(doc.Courses) || result.State != doc.State {
				t.Error("a failed AddCourses() must return the document unchanged")
			}
		})
	}
}

func TestDocument_EditCourse(t *testing.T) {
	doc := sampleDocument()

	// b was not counted; counting it with a new duration adds the new duration
	edited := entry("b", 2, 0, true)
	updated, old, err := doc.EditCourse(edited)
	if err != nil {
		t.Fatalf("EditCourse() returned unexpected error: %v", err)
	}
	if old.ID != "b" || old.CountsTowardCompleted {
		t.Errorf("EditCourse() returned old = %+v", old)
	}
	if !almostEqual(updated.HoursCompleted, 12) {
		t.Errorf("HoursCompleted = %v, expected 12", updated.HoursCompleted)
	}
	if updated.Courses[1].Hours != 2 || !updated.Courses[1].CountsTowardCompleted {
		t.Errorf("course not replaced: %+v", updated.Courses[1])
	}
	if doc.Courses[1].Hours != 1 {
		t.Error("EditCourse() must not modify the original document")
	}

	// a was counted; uncounting it removes its old duration
	updated, _, err = updated.EditCourse(entry("a", 2, 0, false))
	if err != nil {
		t.Fatalf("EditCourse() returned unexpected error: %v", err)
	}
	if !almostEqual(updated.HoursCompleted, 10) {
		t.Errorf("HoursCompleted = %v, expected 10", updated.HoursCompleted)
	}
}

func TestDocument_EditCourseUnknown(t *testing.T) {
	_, _, err := sampleDocument().EditCourse(entry("zzz", 1, 0, true))
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("EditCourse() error = %v, expected ErrCourseNotFound", err)
	}
}

func TestDocument_DeleteCourse(t *testing.T) {
	doc := sampleDocument()

	updated, removed, err := doc.DeleteCourse("a")
	if err != nil {
		t.Fatalf("DeleteCourse() returned unexpected error: %v", err)
	}
	if removed.ID != "a" {
		t.Errorf("removed = %+v", removed)
	}
	if len(updated.Courses) != 1 || updated.Courses[0].ID != "b" {
		t.Errorf("Courses after delete = %+v", updated.Courses)
	}
	if !almostEqual(updated.HoursCompleted, 8) || !almostEqual(updated.HoursRemaining, 42) {
		t.Errorf("state after delete = %+v", updated.State)
	}

	updated, _, err = updated.DeleteCourse("b")
	if err != nil {
		t.Fatalf("DeleteCourse() returned unexpected error: %v", err)
	}
	if !almostEqual(updated.HoursCompleted, 8) {
		t.Errorf("deleting an uncounted course changed completed to %v", updated.HoursCompleted)
	}
	if updated.Courses == nil {
		t.Error("Courses should be an empty slice, not nil")
	}

	if _, _, err := updated.DeleteCourse("a"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("DeleteCourse() of a missing id error = %v, expected ErrCourseNotFound", err)
	}
}

func TestDocument_Apply(t *testing.T) {
	doc := sampleDocument()

	updated := doc.Apply(SetTotal{Hours: 80})
	if updated.TotalHours != 80 || updated.HoursRemaining != 70 {
		t.Errorf("Apply(SetTotal) = %+v", updated.State)
	}

	ignored := doc.Apply(CourseDeleted{Course: doc.Courses[0]})
	if ignored.State != doc.State {
		t.Error("Apply() must ignore course events")
	}
}

func TestDocument_Normalize(t *testing.T) {
	doc := Document{
		State: State{TotalHours: 20, HoursCompleted: 5, HoursRemaining: 1},
		Courses: []course.Entry{
			{ID: "a", Name: "Stale", Hours: 1, Minutes: 30, DecimalHours: 99, Time: "wrong"},
		},
	}

	n := doc.Normalize()
	if n.HoursRemaining != 15 {
		t.Errorf("HoursRemaining = %v, expected 15", n.HoursRemaining)
	}
	if n.Courses[0].DecimalHours != 1.5 || n.Courses[0].Time != "1h 30m" || n.Courses[0].Category != course.CategoryUncategorized {
		t.Errorf("course not normalized: %+v", n.Courses[0])
	}
	if doc.Courses[0].DecimalHours != 99 {
		t.Error("Normalize() must not modify the original document")
	}
}

func TestDocument_JSONShape(t *testing.T) {
	data, err := json.Marshal(sampleDocument())
	if err != nil {
		t.Fatalf("Marshal() returned unexpected error: %v", err)
	}

	for _, key := range []string{`"totalHours":50`, `"hoursCompleted":10`, `"hoursRemaining":40`, `"courses":[`, `"updateHoursCompleted":true`, `"timeInHours":2`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("document JSON %s is missing %s", data, key)
		}
	}
}
