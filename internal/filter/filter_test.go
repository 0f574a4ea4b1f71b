package filter

import (
	"testing"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/timeutil"
)

// Helper function to create test entries
func makeCourse(id, name, category string, counts bool) course.Entry {
	return course.New(course.ID(id), name, timeutil.Duration{Hours: 1}, category, counts)
}

func sampleCourses() []course.Entry {
	return []course.Entry{
		makeCourse("1", "Coursera Machine Learning", "Coursera", true),
		makeCourse("2", "Udemy Go Bootcamp", "Udemy", true),
		makeCourse("3", "Reading the Go spec", "", false),
		makeCourse("4", "Advanced Go on Coursera", "Coursera", false),
	}
}

func ids(entries []course.Entry) []course.ID {
	out := make([]course.ID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestNewFilter(t *testing.T) {
	f := NewFilter("  go ", " Udemy ")
	if f.Keyword != "go" || f.Category != "Udemy" {
		t.Errorf("NewFilter() = %+v, expected trimmed fields", f)
	}
	if f.Counted != nil {
		t.Error("NewFilter() should leave Counted unset")
	}
}

func TestIsEmpty(t *testing.T) {
	yes := true
	tests := []struct {
		name     string
		filter   *Filter
		expected bool
	}{
		{"nil filter", nil, true},
		{"zero filter", &Filter{}, true},
		{"keyword", &Filter{Keyword: "go"}, false},
		{"category", &Filter{Category: "Udemy"}, false},
		{"counted", &Filter{Counted: &yes}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.expected {
				t.Errorf("IsEmpty() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFilterCourses(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name     string
		filter   *Filter
		expected []course.ID
	}{
		{"empty filter returns all", &Filter{}, []course.ID{"1", "2", "3", "4"}},
		{"keyword is case-insensitive", NewFilter("GO", ""), []course.ID{"2", "3", "4"}},
		{"category is case-insensitive", NewFilter("", "coursera"), []course.ID{"1", "4"}},
		{"default category", NewFilter("", "Uncategorized"), []course.ID{"3"}},
		{"keyword and category", NewFilter("go", "Coursera"), []course.ID{"4"}},
		{"counted only", &Filter{Counted: &yes}, []course.ID{"1", "2"}},
		{"uncounted only", &Filter{Counted: &no}, []course.ID{"3", "4"}},
		{"no match", NewFilter("rust", ""), []course.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterCourses(sampleCourses(), tt.filter))
			if len(got) != len(tt.expected) {
				t.Fatalf("FilterCourses() = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("FilterCourses()[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMatches_NilFilter(t *testing.T) {
	var f *Filter
	if !f.Matches(makeCourse("1", "anything", "", true)) {
		t.Error("nil filter should match every course")
	}
}
