package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/tracker"
)

// ShowStatus prints the hours triple, completion and course totals
func ShowStatus(ctx context.Context, deps *cli.Deps) {
	result, err := deps.Services.Tracker.Status(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read tracker data")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	s := result.State
	_, _ = fmt.Fprintln(deps.Stdout, "Certification progress")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Total hours:     %s\n", cli.FormatHours(s.TotalHours))
	_, _ = fmt.Fprintf(deps.Stdout, "Completed:       %s\n", cli.FormatHours(s.HoursCompleted))
	_, _ = fmt.Fprintf(deps.Stdout, "Remaining:       %s\n", cli.FormatHours(s.HoursRemaining))
	_, _ = fmt.Fprintf(deps.Stdout, "Progress:        %s %s\n",
		cli.ProgressBar(result.CompletionPercent, 30),
		cli.FormatPercent(result.CompletionPercent))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Courses:         %d %s (%s counted)\n",
		result.CourseCount,
		cli.Pluralize("course", result.CourseCount),
		cli.FormatHours(result.CountedHours))
	_, _ = fmt.Fprintf(deps.Stdout, "Storage:         %s\n", result.Location)

	if s.TotalHours == 0 {
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Set your goal with 'certtrack hours total <n>'")
	}
}

// SetHours edits one of total, completed or remaining
func SetHours(ctx context.Context, deps *cli.Deps, fieldStr, valueStr string) {
	field, err := service.ParseHoursField(fieldStr)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown field '%s'\n", fieldStr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use one of: total, completed, remaining")
		deps.Exit(1)
		return
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid number of hours '%s'\n", valueStr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use decimal hours, e.g. 120 or 37.5")
		deps.Exit(1)
		return
	}

	state, err := deps.Services.Tracker.SetHours(ctx, field, value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidHours) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid number of hours '%s'\n", valueStr)
		} else {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to update hours")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Updated %s hours to %s\n", field, cli.FormatHours(value))
	printState(deps, state)
}

// Validate checks the stored document and optionally repairs it
func Validate(ctx context.Context, deps *cli.Deps, fix bool) {
	var (
		health tracker.Health
		err    error
	)
	if fix {
		health, err = deps.Services.Tracker.Repair(ctx)
	} else {
		health, err = deps.Services.Tracker.Check(ctx)
	}
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to validate tracker data")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	status, _ := deps.Services.Tracker.Status(ctx)
	if status != nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Storage: %s\n", status.Location)
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Courses:          %d\n", health.Courses)
	_, _ = fmt.Fprintf(deps.Stdout, "Counted courses:  %d\n", health.CountedCourses)
	_, _ = fmt.Fprintf(deps.Stdout, "Counted hours:    %s\n", cli.FormatHours(health.CountedHours))
	if status != nil {
		drift := status.State.HoursCompleted - health.CountedHours
		_, _ = fmt.Fprintf(deps.Stdout, "Manual hours:     %s (completed minus counted courses)\n", cli.FormatHours(drift))
	}

	if len(health.Problems) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
		_, _ = fmt.Fprintln(deps.Stdout, "Problems:")
		for _, p := range health.Problems {
			if p.CourseID != "" {
				_, _ = fmt.Fprintf(deps.Stdout, "  course %s: %s\n", p.CourseID, p.Message)
			} else {
				_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", p.Message)
			}
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if health.OK() {
		if fix {
			_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Tracker data repaired and healthy")
		} else {
			_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Tracker data is healthy")
		}
		return
	}

	_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Tracker data has %d %s\n", len(health.Problems), cli.Pluralize("problem", len(health.Problems)))
	if !fix {
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Run 'certtrack validate --fix' to refresh derived fields and hours remaining")
	}
	deps.Exit(1)
}

func printState(deps *cli.Deps, s tracker.State) {
	_, _ = fmt.Fprintf(deps.Stdout, "  Total: %s  Completed: %s  Remaining: %s\n",
		cli.FormatHours(s.TotalHours),
		cli.FormatHours(s.HoursCompleted),
		cli.FormatHours(s.HoursRemaining))
}
