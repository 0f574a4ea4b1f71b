package service

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/tracker"
)

func TestParseHoursField(t *testing.T) {
	tests := []struct {
		input    string
		expected HoursField
	}{
		{"total", FieldTotal},
		{"Total", FieldTotal},
		{"totalHours", FieldTotal},
		{"completed", FieldCompleted},
		{"hoursCompleted", FieldCompleted},
		{" remaining ", FieldRemaining},
		{"hoursRemaining", FieldRemaining},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHoursField(tt.input)
			if err != nil {
				t.Fatalf("ParseHoursField(%q) returned unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseHoursField(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}

	if _, err := ParseHoursField("done"); !errors.Is(err, ErrUnknownHoursField) {
		t.Errorf("ParseHoursField(\"done\") error = %v, expected ErrUnknownHoursField", err)
	}
}

func TestTrackerService_SetHours(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	steps := []struct {
		field    HoursField
		value    float64
		expected tracker.State
	}{
		{FieldTotal, 100, tracker.State{TotalHours: 100, HoursCompleted: 0, HoursRemaining: 100}},
		{FieldCompleted, 40, tracker.State{TotalHours: 100, HoursCompleted: 40, HoursRemaining: 60}},
		{FieldRemaining, 10, tracker.State{TotalHours: 100, HoursCompleted: 90, HoursRemaining: 10}},
		{FieldTotal, 50, tracker.State{TotalHours: 50, HoursCompleted: 90, HoursRemaining: -40}},
	}

	for _, step := range steps {
		state, err := services.Tracker.SetHours(ctx, step.field, step.value)
		if err != nil {
			t.Fatalf("SetHours(%s, %v) returned unexpected error: %v", step.field, step.value, err)
		}
		if state != step.expected {
			t.Errorf("SetHours(%s, %v) = %+v, expected %+v", step.field, step.value, state, step.expected)
		}
	}

	status, err := services.Tracker.Status(ctx)
	if err != nil {
		t.Fatalf("Status() returned unexpected error: %v", err)
	}
	if status.State != steps[len(steps)-1].expected {
		t.Errorf("Status().State = %+v, expected the last saved state", status.State)
	}
	if status.CompletionPercent != 180 {
		t.Errorf("CompletionPercent = %v, expected 180", status.CompletionPercent)
	}
}

func TestTrackerService_SetHoursRejectsNonFinite(t *testing.T) {
	services, storagePath := newTestServices(t)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := services.Tracker.SetHours(context.Background(), FieldTotal, v); !errors.Is(err, ErrInvalidHours) {
			t.Errorf("SetHours(%v) error = %v, expected ErrInvalidHours", v, err)
		}
	}
	if _, err := os.Stat(storagePath); !os.IsNotExist(err) {
		t.Error("rejected edits should not write the document")
	}
}

func TestTrackerService_ReplaceDocument(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	stale := course.Entry{ID: "x", Name: "Stale", Hours: 2, Minutes: 30, DecimalHours: 99, CountsTowardCompleted: true}
	doc := tracker.Document{
		State:   tracker.State{TotalHours: 10, HoursCompleted: 4, HoursRemaining: 123},
		Courses: []course.Entry{stale},
	}

	saved, err := services.Tracker.ReplaceDocument(ctx, doc)
	if err != nil {
		t.Fatalf("ReplaceDocument() returned unexpected error: %v", err)
	}
	if saved.HoursRemaining != 6 {
		t.Errorf("HoursRemaining = %v, expected 6", saved.HoursRemaining)
	}
	if saved.Courses[0].DecimalHours != 2.5 || saved.Courses[0].Time != "2h 30m" || saved.Courses[0].Category != course.CategoryUncategorized {
		t.Errorf("course not normalized: %+v", saved.Courses[0])
	}

	health, err := services.Tracker.Check(ctx)
	if err != nil {
		t.Fatalf("Check() returned unexpected error: %v", err)
	}
	if !health.OK() {
		t.Errorf("Check() after replace found problems: %+v", health.Problems)
	}
}

func TestTrackerService_ReplaceDocumentRejectsBadCourses(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		courses  []course.Entry
		expected error
	}{
		{"missing id", []course.Entry{{Name: "A"}}, tracker.ErrMissingID},
		{"duplicate id", []course.Entry{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}, tracker.ErrDuplicateID},
		{"empty name", []course.Entry{{ID: "a"}}, course.ErrEmptyName},
		{"negative duration", []course.Entry{{ID: "a", Name: "A", Hours: -1}}, course.ErrNegativeDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Tracker.ReplaceDocument(ctx, tracker.Document{Courses: tt.courses})
			if !errors.Is(err, tt.expected) {
				t.Errorf("ReplaceDocument() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestTrackerService_Repair(t *testing.T) {
	services, storagePath := newTestServices(t)
	ctx := context.Background()

	drifted := `{"totalHours": 10, "hoursCompleted": 3, "hoursRemaining": 1, "courses": [
  {"id": 7, "name": "Old", "hours": 1, "minutes": 0, "timeInHours": 5, "category": "", "updateHoursCompleted": true}
]}`
	if err := os.WriteFile(storagePath, []byte(drifted), 0644); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	before, err := services.Tracker.Check(ctx)
	if err != nil {
		t.Fatalf("Check() returned unexpected error: %v", err)
	}
	if before.OK() {
		t.Fatal("Check() should report the drifted document")
	}

	after, err := services.Tracker.Repair(ctx)
	if err != nil {
		t.Fatalf("Repair() returned unexpected error: %v", err)
	}
	if !after.OK() {
		t.Errorf("Repair() left problems: %+v", after.Problems)
	}

	doc, _ := services.Tracker.Document(ctx)
	if doc.HoursCompleted != 3 || doc.HoursRemaining != 7 {
		t.Errorf("Repair() changed completed or missed remaining: %+v", doc.State)
	}
}

func TestTrackerService_ConcurrentAddsKeepInvariant(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	if _, err := services.Tracker.SetHours(ctx, FieldTotal, 100); err != nil {
		t.Fatalf("SetHours() returned unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = services.Course.Add(ctx, AddRequest{Name: "Parallel", Time: "30m", Counts: boolPtr(true)})
		}()
	}
	wg.Wait()

	doc, err := services.Tracker.Document(ctx)
	if err != nil {
		t.Fatalf("Document() returned unexpected error: %v", err)
	}
	if len(doc.Courses) != 20 {
		t.Fatalf("stored %d courses, expected 20 (lost update)", len(doc.Courses))
	}
	if math.Abs(doc.HoursCompleted-10) > tracker.Epsilon || math.Abs(doc.HoursRemaining-90) > tracker.Epsilon {
		t.Errorf("state after concurrent adds = %+v, expected 10 completed / 90 remaining", doc.State)
	}
	if got := tracker.CountedHours(doc.Courses); math.Abs(got-10) > tracker.Epsilon {
		t.Errorf("CountedHours = %v, expected 10", got)
	}
}
