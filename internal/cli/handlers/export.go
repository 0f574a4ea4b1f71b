package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/tracker"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// exportMetadata describes an export; filter criteria are only set when used.
type exportMetadata struct {
	ExportTimestamp time.Time         `json:"export_timestamp" yaml:"export_timestamp"`
	TotalCourses    int               `json:"total_courses" yaml:"total_courses"`
	FilterCriteria  map[string]string `json:"filter_criteria,omitempty" yaml:"filter_criteria,omitempty"`
}

type exportDocument struct {
	Metadata exportMetadata `json:"metadata" yaml:"metadata"`
	State    tracker.State  `json:"state" yaml:"state"`
	Courses  []course.Entry `json:"courses" yaml:"courses"`
}

var csvHeaders = []string{"id", "name", "time", "hours", "minutes", "time_in_hours", "category", "counts_toward_completed"}

// Export writes the tracker state and the (filtered) course log to stdout
func Export(ctx context.Context, deps *cli.Deps, format string, f *filter.Filter) {
	doc, err := deps.Services.Tracker.Document(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read tracker data")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	courses := filter.FilterCourses(doc.Courses, f)
	if courses == nil {
		courses = []course.Entry{}
	}

	switch format {
	case FormatJSON:
		out := buildExport(doc.State, courses, f)
		encoder := json.NewEncoder(deps.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			exportFailed(deps, "JSON", err)
		}
	case FormatYAML:
		out := buildExport(doc.State, courses, f)
		encoder := yaml.NewEncoder(deps.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(out); err != nil {
			exportFailed(deps, "YAML", err)
			return
		}
		if err := encoder.Close(); err != nil {
			exportFailed(deps, "YAML", err)
		}
	case FormatCSV:
		writeCSV(deps, courses)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown export format '%s'\n", format)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use one of: json, csv, yaml")
		deps.Exit(1)
	}
}

func buildExport(state tracker.State, courses []course.Entry, f *filter.Filter) exportDocument {
	out := exportDocument{
		Metadata: exportMetadata{
			ExportTimestamp: time.Now(),
			TotalCourses:    len(courses),
		},
		State:   state,
		Courses: courses,
	}
	if !f.IsEmpty() {
		out.Metadata.FilterCriteria = make(map[string]string)
		if f.Category != "" {
			out.Metadata.FilterCriteria["category"] = f.Category
		}
		if f.Keyword != "" {
			out.Metadata.FilterCriteria["search"] = f.Keyword
		}
		if f.Counted != nil {
			out.Metadata.FilterCriteria["counted"] = strconv.FormatBool(*f.Counted)
		}
	}
	return out
}

func writeCSV(deps *cli.Deps, courses []course.Entry) {
	writer := csv.NewWriter(deps.Stdout)

	if err := writer.Write(csvHeaders); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write CSV headers")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	for _, c := range courses {
		row := []string{
			string(c.ID),
			c.Name,
			c.Time,
			strconv.Itoa(c.Hours),
			strconv.FormatFloat(c.Minutes, 'f', -1, 64),
			strconv.FormatFloat(c.DecimalHours, 'f', 2, 64),
			c.Category,
			strconv.FormatBool(c.CountsTowardCompleted),
		}
		if err := writer.Write(row); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write CSV row")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		exportFailed(deps, "CSV", err)
	}
}

func exportFailed(deps *cli.Deps, format string, err error) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to encode %s output\n", format)
	_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	deps.Exit(1)
}
