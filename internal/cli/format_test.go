package cli

import (
	"strings"
	"testing"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/timeutil"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h"},
		{5, "5h"},
		{5.5, "5.5h"},
		{2.3333333, "2.33h"},
		{0.75, "0.75h"},
		{-10, "-10h"},
		{-0.001, "0h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := FormatHours(tt.hours)
			if result != tt.want {
				t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, result, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(37.54); got != "37.5%" {
		t.Errorf("FormatPercent(37.54) = %q, want %q", got, "37.5%")
	}
	if got := FormatPercent(0); got != "0.0%" {
		t.Errorf("FormatPercent(0) = %q, want %q", got, "0.0%")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		want    string
	}{
		{"empty", 0, 10, "[----------]"},
		{"half", 50, 10, "[#####-----]"},
		{"full", 100, 4, "[####]"},
		{"over complete is clamped", 140, 4, "[####]"},
		{"negative is clamped", -20, 4, "[----]"},
		{"zero width", 50, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressBar(tt.percent, tt.width); got != tt.want {
				t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.percent, tt.width, got, tt.want)
			}
		})
	}
}

func TestFormatCourse(t *testing.T) {
	counted := course.New("1", "Go Basics", timeutil.Duration{Hours: 5, Minutes: 30}, "Udemy", true)
	if got := FormatCourse(counted); got != "Go Basics [Udemy] (5h 30m)" {
		t.Errorf("FormatCourse() = %q", got)
	}

	uncounted := course.New("2", "Rust Intro", timeutil.Duration{Minutes: 45}, "", false)
	if got := FormatCourse(uncounted); got != "Rust Intro [Uncategorized] (45m) *" {
		t.Errorf("FormatCourse() = %q", got)
	}
}

func TestFormatLineParseError(t *testing.T) {
	short := &course.LineParseError{Number: 3, Line: "5 hours - Go"}
	if got := FormatLineParseError(short); got != "  Line 3: 5 hours - Go" {
		t.Errorf("FormatLineParseError() = %q", got)
	}

	long := &course.LineParseError{Number: 1, Line: strings.Repeat("x", 80)}
	got := FormatLineParseError(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated line, got %q", got)
	}
	if len(got) != len("  Line 1: ")+50 {
		t.Errorf("truncated line has length %d", len(got))
	}
}

func TestBuildTitleWithFilters(t *testing.T) {
	counted := true
	tests := []struct {
		name string
		f    *filter.Filter
		want string
	}{
		{"nil filter", nil, "Courses"},
		{"empty filter", filter.NewFilter("", ""), "Courses"},
		{"category", filter.NewFilter("", "Udemy"), "Courses (category: Udemy)"},
		{"both", filter.NewFilter("go", "Udemy"), "Courses (category: Udemy, search: go)"},
		{"counted", &filter.Filter{Counted: &counted}, "Courses (counted)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTitleWithFilters("Courses", tt.f); got != tt.want {
				t.Errorf("BuildTitleWithFilters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		word  string
		count int
		want  string
	}{
		{"course", 0, "courses"},
		{"course", 1, "course"},
		{"course", 2, "courses"},
		{"line", 1, "line"},
	}

	for _, tt := range tests {
		if got := Pluralize(tt.word, tt.count); got != tt.want {
			t.Errorf("Pluralize(%q, %d) = %q, want %q", tt.word, tt.count, got, tt.want)
		}
	}
}
