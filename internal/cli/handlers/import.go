package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/service"
)

// ImportCourses reads a bulk block from source ("" or "-" for stdin) and
// imports every line or none
func ImportCourses(ctx context.Context, deps *cli.Deps, source string, req service.ImportRequest) {
	text, err := readSource(deps.Stdin, source)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to read %s\n", sourceName(source))
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}
	req.Text = text

	result, err := deps.Services.Course.Import(ctx, req)
	if err != nil {
		var lineErr *course.LineParseError
		switch {
		case errors.As(err, &lineErr):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Could not parse line %d, nothing was imported\n", lineErr.Number)
			_, _ = fmt.Fprintln(deps.Stderr, cli.FormatLineParseError(lineErr))
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Each line must look like '%s'\n", course.BulkLineFormat)
		case errors.Is(err, course.ErrBadOverride):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Run with --dry-run to see the course numbers")
		case errors.Is(err, course.ErrEmptyBlock):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: No course lines found in %s\n", sourceName(source))
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Each line must look like '%s'\n", course.BulkLineFormat)
		default:
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to import courses")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	n := len(result.Courses)
	if result.DryRun {
		_, _ = fmt.Fprintf(deps.Stdout, "Would import %d %s:\n", n, cli.Pluralize("course", n))
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Imported %d %s:\n", n, cli.Pluralize("course", n))
	}
	for _, c := range result.Courses {
		_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatCourse(c))
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Hours completed +%s\n", cli.FormatHours(result.AddedHours))
	printState(deps, result.State)
	if result.DryRun {
		_, _ = fmt.Fprintln(deps.Stdout, "Dry run: nothing was saved")
	}
}

func readSource(stdin io.Reader, source string) (string, error) {
	if source == "" || source == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(source)
	return string(data), err
}

func sourceName(source string) string {
	if strings.TrimSpace(source) == "" || source == "-" {
		return "standard input"
	}
	return source
}
