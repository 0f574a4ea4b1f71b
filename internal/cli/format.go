package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
)

// FormatHours formats decimal hours with at most two decimals: "12.5h", "0h".
func FormatHours(hours float64) string {
	rounded := math.Round(hours*100) / 100
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "h"
}

// FormatPercent formats a completion percentage with one decimal.
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// ProgressBar renders percent as a text bar of the given width.
// The bar is clamped to [0, 100] even when the percentage is not.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	p := math.Max(0, math.Min(100, percent))
	filled := int(math.Round(p / 100 * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// FormatCourse formats a course for one-line display.
// Returns format like: "Go Basics [Udemy] (5h 30m)", with " *" appended when
// the course does not count toward hours completed.
func FormatCourse(e course.Entry) string {
	line := fmt.Sprintf("%s [%s] (%s)", e.Name, e.Category, e.Duration())
	if !e.CountsTowardCompleted {
		line += " *"
	}
	return line
}

// FormatLineParseError formats a bulk import line error for display,
// truncating long lines to 50 characters.
func FormatLineParseError(lineErr *course.LineParseError) string {
	content := lineErr.Line
	if len(content) > 50 {
		content = content[:47] + "..."
	}
	return fmt.Sprintf("  Line %d: %s", lineErr.Number, content)
}

// BuildTitleWithFilters appends filter information to a list title.
// Example: "Courses" -> "Courses (category: Udemy, search: go)"
func BuildTitleWithFilters(title string, f *filter.Filter) string {
	if f.IsEmpty() {
		return title
	}

	var filters []string
	if f.Category != "" {
		filters = append(filters, "category: "+f.Category)
	}
	if f.Keyword != "" {
		filters = append(filters, "search: "+f.Keyword)
	}
	if f.Counted != nil {
		if *f.Counted {
			filters = append(filters, "counted")
		} else {
			filters = append(filters, "not counted")
		}
	}

	return fmt.Sprintf("%s (%s)", title, strings.Join(filters, ", "))
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
