package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/stats"
)

// ShowStats shows totals and the per-category breakdown of the course log
func ShowStats(ctx context.Context, deps *cli.Deps) {
	result, err := deps.Services.Stats.Summary(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	displayStatistics(deps, result.Statistics)
	if len(result.Categories) > 0 {
		displayCategoryBreakdown(deps, result.Categories)
	}
}

func displayStatistics(deps *cli.Deps, s stats.Statistics) {
	_, _ = fmt.Fprintln(deps.Stdout, "Statistics")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Courses:         %d %s (%d counted)\n", s.CourseCount, cli.Pluralize("course", s.CourseCount), s.CountedCount)
	_, _ = fmt.Fprintf(deps.Stdout, "Course time:     %s (%s)\n", s.TotalTime, cli.FormatHours(s.TotalHours))
	_, _ = fmt.Fprintf(deps.Stdout, "Counted time:    %s (%s)\n", s.CountedTime, cli.FormatHours(s.CountedHours))
	_, _ = fmt.Fprintf(deps.Stdout, "Average/Course:  %s\n", cli.FormatHours(s.AverageHours))
	_, _ = fmt.Fprintf(deps.Stdout, "Completion:      %s\n", cli.FormatPercent(s.CompletionPercent))
	_, _ = fmt.Fprintln(deps.Stdout)
}

func displayCategoryBreakdown(deps *cli.Deps, breakdowns []stats.CategoryBreakdown) {
	_, _ = fmt.Fprintln(deps.Stdout, "By Category:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))

	for _, b := range breakdowns {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-28s  %10s  (%d %s)\n",
			b.Category,
			b.Time,
			b.CourseCount,
			cli.Pluralize("course", b.CourseCount))
	}

	_, _ = fmt.Fprintln(deps.Stdout)
}
