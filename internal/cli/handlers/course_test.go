package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/service"
)

func TestAddCourse(t *testing.T) {
	env := setupTestDeps(t)
	env.seed(t, `{"totalHours": 100, "hoursCompleted": 10, "hoursRemaining": 90, "courses": []}`)

	AddCourse(context.Background(), env.deps, service.AddRequest{Name: "Udemy Go Bootcamp", Time: "5h 30m"})

	if *env.exitCode != 0 {
		t.Fatalf("unexpected exit code %d: %s", *env.exitCode, env.stderr.String())
	}
	output := env.stdout.String()
	assertContains(t, output, "Logged: Udemy Go Bootcamp [Udemy] (5h 30m)")
	assertContains(t, output, "Total: 100h  Completed: 15.5h  Remaining: 84.5h")
}

func TestAddCourse_NotCounted(t *testing.T) {
	env := setupTestDeps(t)

	AddCourse(context.Background(), env.deps, service.AddRequest{
		Name:     "Side Reading",
		Time:     "45m",
		Category: "Custom",
		Custom:   "Books",
		Counts:   boolPtr(false),
	})

	output := env.stdout.String()
	assertContains(t, output, "Logged: Side Reading [Books] (45m) *")
	assertContains(t, output, "Completed: 0h")
}

func TestAddCourse_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  service.AddRequest
		want []string
	}{
		{"empty name", service.AddRequest{Name: "  ", Time: "2h"}, []string{"Error: Course name cannot be empty"}},
		{"missing time", service.AddRequest{Name: "Go"}, []string{"Error: A duration is required", "Example:"}},
		{"bad time", service.AddRequest{Name: "Go", Time: "two hours"}, []string{"Error: Invalid duration 'two hours'", "Details:", "Hint:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestDeps(t)

			AddCourse(context.Background(), env.deps, tt.req)

			if *env.exitCode != 1 {
				t.Errorf("exit code = %d, expected 1", *env.exitCode)
			}
			for _, want := range tt.want {
				assertContains(t, env.stderr.String(), want)
			}
		})
	}
}

func TestListCourses(t *testing.T) {
	env := setupTestDeps(t)
	env.addCourse(t, "Coursera ML", "10h")
	env.addCourse(t, "Udemy Go", "1h 30m")

	ListCourses(context.Background(), env.deps, nil)

	output := env.stdout.String()
	assertContains(t, output, "Courses:")
	assertContains(t, output, "[1] Coursera ML [Coursera] (10h)")
	assertContains(t, output, "[2] Udemy Go [Udemy] (1h 30m)")
	assertContains(t, output, "Total: 11h 30m (2 courses, 11.5h counted)")
	if strings.Contains(output, "not counted") {
		t.Errorf("legend should only appear with uncounted courses: %s", output)
	}
}

func TestListCourses_FilterKeepsIndices(t *testing.T) {
	env := setupTestDeps(t)
	env.addCourse(t, "Coursera ML", "10h")
	env.addCourse(t, "Udemy Go", "1h 30m")

	ListCourses(context.Background(), env.deps, filter.NewFilter("", "udemy"))

	output := env.stdout.String()
	assertContains(t, output, "Courses (category: udemy):")
	assertContains(t, output, "[2] Udemy Go [Udemy] (1h 30m)")
	if strings.Contains(output, "Coursera") {
		t.Errorf("filtered list contains excluded course: %s", output)
	}
}

func TestListCourses_Empty(t *testing.T) {
	env := setupTestDeps(t)

	ListCourses(context.Background(), env.deps, nil)
	assertContains(t, env.stdout.String(), "No courses logged yet")

	env.reset()
	ListCourses(context.Background(), env.deps, filter.NewFilter("rust", ""))
	assertContains(t, env.stdout.String(), "No courses found for courses (search: rust)")
}

func TestListCategories(t *testing.T) {
	env := setupTestDeps(t)
	AddCourse(context.Background(), env.deps, service.AddRequest{Name: "Book", Time: "1h", Category: "Custom", Custom: "Reading"})
	env.reset()

	ListCategories(context.Background(), env.deps)

	output := env.stdout.String()
	assertContains(t, output, "  Uncategorized")
	assertContains(t, output, "  Udemy")
	assertContains(t, output, "  Reading")
	assertContains(t, output, "Also accepted: Auto-detect, Custom")
}

func TestEditCourse(t *testing.T) {
	env := setupTestDeps(t)
	env.seed(t, `{"totalHours": 20, "hoursCompleted": 0, "hoursRemaining": 20, "courses": []}`)
	env.addCourse(t, "Go Basics", "2h")

	EditCourse(context.Background(), env.deps, "1", service.EditRequest{Time: strPtr("3h 30m")})

	if *env.exitCode != 0 {
		t.Fatalf("unexpected exit code %d: %s", *env.exitCode, env.stderr.String())
	}
	output := env.stdout.String()
	assertContains(t, output, "Updated course 1: Go Basics [Uncategorized] (3h 30m)")
	assertContains(t, output, "Hours completed +1.5h")
	assertContains(t, output, "Completed: 3.5h  Remaining: 16.5h")
}

func TestEditCourse_StopCounting(t *testing.T) {
	env := setupTestDeps(t)
	env.addCourse(t, "Go Basics", "2h")

	EditCourse(context.Background(), env.deps, "1", service.EditRequest{Counts: boolPtr(false)})

	output := env.stdout.String()
	assertContains(t, output, "Hours completed -2h")
	assertContains(t, output, "Completed: 0h")
}

func TestEditCourse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		index string
		req   service.EditRequest
		want  string
	}{
		{"no changes", "1", service.EditRequest{}, "Error: At least one flag"},
		{"bad index", "abc", service.EditRequest{Name: strPtr("x")}, "Error: Invalid index 'abc'"},
		{"zero index", "0", service.EditRequest{Name: strPtr("x")}, "Error: Index must be 1 or greater"},
		{"out of range", "5", service.EditRequest{Name: strPtr("x")}, "index out of range: valid range is 1-1"},
		{"bad time", "1", service.EditRequest{Time: strPtr("soon")}, "Error: Invalid duration 'soon'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestDeps(t)
			env.addCourse(t, "Go Basics", "2h")

			EditCourse(context.Background(), env.deps, tt.index, tt.req)

			if *env.exitCode != 1 {
				t.Errorf("exit code = %d, expected 1", *env.exitCode)
			}
			assertContains(t, env.stderr.String(), tt.want)
		})
	}
}

func TestEditCourse_NoCourses(t *testing.T) {
	env := setupTestDeps(t)

	EditCourse(context.Background(), env.deps, "1", service.EditRequest{Name: strPtr("x")})

	assertContains(t, env.stderr.String(), "Error: No courses logged")
}

func TestDeleteCourse_Confirmed(t *testing.T) {
	env := setupTestDepsWithStdin(t, "y\n")
	env.seed(t, `{"totalHours": 10, "hoursCompleted": 0, "hoursRemaining": 10, "courses": []}`)
	env.addCourse(t, "Go Basics", "2h")

	DeleteCourse(context.Background(), env.deps, "1", false)

	if *env.exitCode != 0 {
		t.Fatalf("unexpected exit code %d: %s", *env.exitCode, env.stderr.String())
	}
	output := env.stdout.String()
	assertContains(t, output, "Course to delete:")
	assertContains(t, output, "2h will be taken off hours completed")
	assertContains(t, output, "Delete this course? [y/N]: ")
	assertContains(t, output, "Deleted: Go Basics")
	assertContains(t, output, "Total: 10h  Completed: 0h  Remaining: 10h")
}

func TestDeleteCourse_Cancelled(t *testing.T) {
	env := setupTestDepsWithStdin(t, "n\n")
	env.addCourse(t, "Go Basics", "2h")

	DeleteCourse(context.Background(), env.deps, "1", false)

	assertContains(t, env.stdout.String(), "Deletion cancelled")

	env.reset()
	ListCourses(context.Background(), env.deps, nil)
	assertContains(t, env.stdout.String(), "[1] Go Basics")
}

func TestDeleteCourse_SkipConfirm(t *testing.T) {
	env := setupTestDeps(t)
	env.addCourse(t, "Go Basics", "2h")

	DeleteCourse(context.Background(), env.deps, "1", true)

	output := env.stdout.String()
	if strings.Contains(output, "[y/N]") {
		t.Errorf("prompt shown with --yes: %s", output)
	}
	assertContains(t, output, "Deleted: Go Basics")
}

func TestDeleteCourse_OutOfRange(t *testing.T) {
	env := setupTestDeps(t)
	env.addCourse(t, "Go Basics", "2h")

	DeleteCourse(context.Background(), env.deps, "3", true)

	if *env.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", *env.exitCode)
	}
	assertContains(t, env.stderr.String(), "Hint: List courses with 'certtrack list'")
}
