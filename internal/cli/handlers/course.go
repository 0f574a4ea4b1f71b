package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/timeutil"
)

// AddCourse logs a single course
func AddCourse(ctx context.Context, deps *cli.Deps, req service.AddRequest) {
	added, state, err := deps.Services.Course.Add(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, course.ErrEmptyName):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Course name cannot be empty")
			_, _ = fmt.Fprintln(deps.Stderr, "Usage: certtrack add <name> --time <duration>")
		case errors.Is(err, service.ErrMissingDuration):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: A duration is required")
			_, _ = fmt.Fprintln(deps.Stderr, "Usage: certtrack add <name> --time <duration>")
			_, _ = fmt.Fprintln(deps.Stderr, "Example: certtrack add Go Basics --time \"5h 30m\"")
		case errors.Is(err, timeutil.ErrInvalidFormat):
			printInvalidDuration(deps, req.Time, err)
		default:
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to save course")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Logged: %s\n", cli.FormatCourse(*added))
	printState(deps, state)
}

// ListCourses lists the course log, optionally filtered
func ListCourses(ctx context.Context, deps *cli.Deps, f *filter.Filter) {
	result, err := deps.Services.Course.List(ctx, f)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read courses")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	title := cli.BuildTitleWithFilters("Courses", f)
	if len(result.Courses) == 0 {
		if result.Filtered {
			_, _ = fmt.Fprintf(deps.Stdout, "No courses found for %s\n", strings.ToLower(title[:1])+title[1:])
		} else {
			_, _ = fmt.Fprintln(deps.Stdout, "No courses logged yet")
			_, _ = fmt.Fprintln(deps.Stdout, "Hint: Log one with 'certtrack add <name> --time <duration>' or 'certtrack import'")
		}
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "%s:\n", title)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))

	maxIndex := result.Courses[len(result.Courses)-1].Index
	maxIndexWidth := len(strconv.Itoa(maxIndex))
	uncounted := 0
	for _, ic := range result.Courses {
		if !ic.Course.CountsTowardCompleted {
			uncounted++
		}
		_, _ = fmt.Fprintf(deps.Stdout, "[%*d] %s\n", maxIndexWidth, ic.Index, cli.FormatCourse(ic.Course))
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s (%d %s, %s counted)\n",
		result.Total,
		len(result.Courses),
		cli.Pluralize("course", len(result.Courses)),
		cli.FormatHours(result.CountedHours))
	if uncounted > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "* not counted toward hours completed")
	}
}

// ListCategories prints the selectable categories
func ListCategories(ctx context.Context, deps *cli.Deps) {
	categories, err := deps.Services.Course.Categories(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Categories:")
	for _, c := range categories {
		_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", c)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Also accepted: %s, %s\n", course.CategoryAutoDetect, course.CategoryCustom)
}

// EditCourse edits the course at the given 1-based index
func EditCourse(ctx context.Context, deps *cli.Deps, indexStr string, req service.EditRequest) {
	userIndex, ok := parseIndex(deps, indexStr)
	if !ok {
		return
	}

	result, err := deps.Services.Course.EditByIndex(ctx, userIndex, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoChangesSpecified):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: At least one flag (--name, --time, --category, --count or --no-count) is required")
			_, _ = fmt.Fprintln(deps.Stderr, "Usage:")
			_, _ = fmt.Fprintln(deps.Stderr, "  certtrack edit <index> --name 'new name'")
			_, _ = fmt.Fprintln(deps.Stderr, "  certtrack edit <index> --time 2h")
		case errors.Is(err, timeutil.ErrInvalidFormat):
			text := ""
			if req.Time != nil {
				text = *req.Time
			}
			printInvalidDuration(deps, text, err)
		default:
			printIndexError(deps, err)
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Updated course %d: %s\n", userIndex, cli.FormatCourse(result.New))
	if result.Old.CountedHours() != result.New.CountedHours() {
		delta := result.New.CountedHours() - result.Old.CountedHours()
		sign := "+"
		if delta < 0 {
			sign = ""
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Hours completed %s%s\n", sign, cli.FormatHours(delta))
	}
	printState(deps, result.State)
}

// DeleteCourse deletes the course at the given index with optional confirmation
func DeleteCourse(ctx context.Context, deps *cli.Deps, indexStr string, skipConfirm bool) {
	userIndex, ok := parseIndex(deps, indexStr)
	if !ok {
		return
	}

	// Get the course first to show it
	ic, err := deps.Services.Course.GetByIndex(ctx, userIndex)
	if err != nil {
		printIndexError(deps, err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Course to delete:")
	_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatCourse(ic.Course))
	if ic.Course.CountsTowardCompleted {
		_, _ = fmt.Fprintf(deps.Stdout, "  %s will be taken off hours completed\n", cli.FormatHours(ic.Course.CountedHours()))
	}

	// Prompt for confirmation unless --yes flag is set
	if !skipConfirm {
		if !promptConfirmation(deps.Stdout, deps.Stdin) {
			_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
			return
		}
	}

	// Delete by id so a concurrent change to the log cannot shift the target
	result, err := deps.Services.Course.Delete(ctx, ic.Course.ID)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to delete course")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Deleted: %s\n", cli.FormatCourse(result.Course))
	printState(deps, result.State)
}

func parseIndex(deps *cli.Deps, indexStr string) (int, bool) {
	userIndex, err := strconv.Atoi(indexStr)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid index '%s'. Index must be a number\n", indexStr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List courses with 'certtrack list' to see available indices")
		deps.Exit(1)
		return 0, false
	}
	if userIndex < 1 {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Index must be 1 or greater (got %d)\n", userIndex)
		deps.Exit(1)
		return 0, false
	}
	return userIndex, true
}

func printIndexError(deps *cli.Deps, err error) {
	switch {
	case errors.Is(err, service.ErrNoCourses):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: No courses logged")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Log one first with 'certtrack add <name> --time <duration>'")
	case errors.Is(err, service.ErrIndexOutOfRange):
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List courses with 'certtrack list' to see all indices")
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
	}
}

func printInvalidDuration(deps *cli.Deps, input string, err error) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid duration '%s'\n", input)
	_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use formats like '5h 30m', '5.5h', '330m' or '5.5'")
}

// promptConfirmation asks the user to confirm deletion
func promptConfirmation(stdout io.Writer, stdin io.Reader) bool {
	_, _ = fmt.Fprint(stdout, "Delete this course? [y/N]: ")

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}
