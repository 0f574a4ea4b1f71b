package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/tui/ui"
)

// CourseRenderOptions configures how courses are rendered
type CourseRenderOptions struct {
	Width  int // Available width for rendering
	Cursor int // Currently selected course (-1 for none)
}

// RenderCourseList renders a list of courses with aligned columns.
// Courses that do not count toward hours completed are marked with *.
func RenderCourseList(courses []service.IndexedCourse, styles ui.Styles, opts CourseRenderOptions) string {
	if len(courses) == 0 {
		return ""
	}

	maxIndexWidth := 0
	maxNameWidth := 0
	maxCategoryWidth := 0

	type courseData struct {
		index    string
		name     string
		category string
		duration string
		counted  bool
	}
	data := make([]courseData, len(courses))

	for i, ic := range courses {
		c := ic.Course

		indexStr := fmt.Sprintf("[%d]", ic.Index)
		maxIndexWidth = max(maxIndexWidth, len(indexStr))

		name := c.Name
		if !c.CountsTowardCompleted {
			name += " *"
		}
		maxNameWidth = max(maxNameWidth, lipgloss.Width(name))

		category := "[" + c.Category + "]"
		maxCategoryWidth = max(maxCategoryWidth, lipgloss.Width(category))

		data[i] = courseData{
			index:    indexStr,
			name:     name,
			category: category,
			duration: c.Duration().String(),
			counted:  c.CountsTowardCompleted,
		}
	}

	// Leave room for the index, category and duration columns
	maxAllowedNameWidth := max(20, opts.Width-maxIndexWidth-maxCategoryWidth-16)
	maxNameWidth = min(maxNameWidth, maxAllowedNameWidth)

	var b strings.Builder
	for i, cd := range data {
		style := styles.CourseNormal
		if i == opts.Cursor {
			style = styles.CourseSelected
		}

		name := truncate(cd.name, maxNameWidth)
		nameCol := fmt.Sprintf("%-*s", maxNameWidth, name)
		if !cd.counted {
			nameCol = styles.CourseUncounted.Render(nameCol)
		}

		index := styles.CourseIndex.Render(fmt.Sprintf("%-*s", maxIndexWidth, cd.index))
		category := styles.CourseCategory.Render(fmt.Sprintf("%-*s", maxCategoryWidth, cd.category))
		duration := styles.CourseDuration.Render(cd.duration)

		line := fmt.Sprintf("%s %s %s %s", index, nameCol, category, duration)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderProgressBar renders percent as a bar of the given width followed by
// the percentage. The bar is clamped to [0, 100]; the label is not.
func RenderProgressBar(percent float64, width int, styles ui.Styles) string {
	if width <= 0 {
		return styles.ProgressPercent.Render(cli.FormatPercent(percent))
	}
	p := math.Max(0, math.Min(100, percent))
	filled := int(math.Round(p / 100 * float64(width)))

	bar := styles.ProgressFull.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))
	return bar + " " + styles.ProgressPercent.Render(cli.FormatPercent(percent))
}

// truncate shortens s to width cells, ending with an ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 || len(runes) < width {
		return string(runes[:min(len(runes), max(width, 0))])
	}
	return string(runes[:width-1]) + "…"
}

func formatHours(hours float64) string {
	return cli.FormatHours(hours)
}

func pluralize(word string, count int) string {
	return cli.Pluralize(word, count)
}
