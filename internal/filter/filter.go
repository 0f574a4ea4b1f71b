package filter

import (
	"strings"

	"github.com/xolan/certtrack/internal/course"
)

// Filter narrows a course list. All fields are optional; empty values match everything.
type Filter struct {
	Keyword  string // Case-insensitive substring search in course names
	Category string // Exact category match (case-insensitive)
	Counted  *bool  // When set, only entries whose counts-toward-completed flag equals it
}

// NewFilter creates a new Filter with the given criteria.
func NewFilter(keyword, category string) *Filter {
	return &Filter{
		Keyword:  strings.TrimSpace(keyword),
		Category: strings.TrimSpace(category),
	}
}

// IsEmpty returns true if all filter fields are empty (matches all entries)
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.Keyword == "" && f.Category == "" && f.Counted == nil)
}

// FilterCourses returns the entries matching f, in their original order.
// If the filter is empty, returns all entries.
func FilterCourses(entries []course.Entry, f *Filter) []course.Entry {
	if f.IsEmpty() {
		return entries
	}

	filtered := make([]course.Entry, 0)
	for _, e := range entries {
		if f.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// MatchesKeyword returns true if the keyword is found in the course name (case-insensitive).
func (f *Filter) MatchesKeyword(e course.Entry) bool {
	if f.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Keyword))
}

// MatchesCategory returns true if the course category equals the filter category (case-insensitive).
func (f *Filter) MatchesCategory(e course.Entry) bool {
	if f.Category == "" {
		return true
	}
	return strings.EqualFold(e.Category, f.Category)
}

// MatchesCounted returns true if the course's counted flag matches.
func (f *Filter) MatchesCounted(e course.Entry) bool {
	if f.Counted == nil {
		return true
	}
	return e.CountsTowardCompleted == *f.Counted
}

// Matches returns true if the entry satisfies every criterion (AND logic).
func (f *Filter) Matches(e course.Entry) bool {
	if f.IsEmpty() {
		return true
	}
	return f.MatchesKeyword(e) && f.MatchesCategory(e) && f.MatchesCounted(e)
}
