// Package stats aggregates a course log into totals and per-category breakdowns.
package stats

import (
	"sort"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/timeutil"
	"github.com/xolan/certtrack/internal/tracker"
)

// Statistics contains aggregated figures for a course log and tracker state.
type Statistics struct {
	CourseCount       int
	CountedCount      int
	TotalTime         timeutil.Duration // every course
	CountedTime       timeutil.Duration // courses that count toward completed
	TotalHours        float64           // decimal form of TotalTime
	CountedHours      float64           // decimal form of CountedTime
	AverageHours      float64           // per course
	CompletionPercent float64           // hours completed / total hours, 0 when total is 0
}

// CategoryBreakdown contains statistics for a single category
type CategoryBreakdown struct {
	Category     string
	Time         timeutil.Duration
	Hours        float64
	CourseCount  int
	CountedHours float64
}

// CalculateStatistics computes totals for courses against the tracker state.
func CalculateStatistics(courses []course.Entry, state tracker.State) Statistics {
	stats := Statistics{CourseCount: len(courses)}

	all := make([]timeutil.Duration, 0, len(courses))
	counted := make([]timeutil.Duration, 0, len(courses))
	for _, c := range courses {
		all = append(all, c.Duration())
		if c.CountsTowardCompleted {
			stats.CountedCount++
			counted = append(counted, c.Duration())
		}
	}

	stats.TotalTime = timeutil.Sum(all...)
	stats.CountedTime = timeutil.Sum(counted...)
	stats.TotalHours = stats.TotalTime.DecimalHours()
	stats.CountedHours = stats.CountedTime.DecimalHours()
	if stats.CourseCount > 0 {
		stats.AverageHours = stats.TotalHours / float64(stats.CourseCount)
	}
	stats.CompletionPercent = CompletionPercent(state)

	return stats
}

// CompletionPercent returns hours completed as a percentage of total hours.
// The result is not clamped, so over-completion reads above 100.
func CompletionPercent(state tracker.State) float64 {
	if state.TotalHours == 0 {
		return 0
	}
	return state.HoursCompleted / state.TotalHours * 100
}

// CalculateCategoryBreakdown groups courses by category, sorted by hours
// descending and then by name.
func CalculateCategoryBreakdown(courses []course.Entry) []CategoryBreakdown {
	if len(courses) == 0 {
		return []CategoryBreakdown{}
	}

	durations := make(map[string][]timeutil.Duration)
	categoryMap := make(map[string]*CategoryBreakdown)

	for _, c := range courses {
		name := c.Category
		if name == "" {
			name = course.CategoryUncategorized
		}

		if _, exists := categoryMap[name]; !exists {
			categoryMap[name] = &CategoryBreakdown{Category: name}
		}
		categoryMap[name].CourseCount++
		categoryMap[name].CountedHours += c.CountedHours()
		durations[name] = append(durations[name], c.Duration())
	}

	breakdowns := make([]CategoryBreakdown, 0, len(categoryMap))
	for name, breakdown := range categoryMap {
		breakdown.Time = timeutil.Sum(durations[name]...)
		breakdown.Hours = breakdown.Time.DecimalHours()
		breakdowns = append(breakdowns, *breakdown)
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Hours != breakdowns[j].Hours {
			return breakdowns[i].Hours > breakdowns[j].Hours
		}
		return breakdowns[i].Category < breakdowns[j].Category
	})

	return breakdowns
}
