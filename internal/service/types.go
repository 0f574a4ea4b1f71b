// Package service provides the business logic layer for certtrack.
// It owns the tracker document, runs every change through the tracker
// transitions and persists the result, providing one API for the CLI,
// the TUI and the HTTP server.
package service

import (
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/stats"
	"github.com/xolan/certtrack/internal/timeutil"
	"github.com/xolan/certtrack/internal/tracker"
)

// IndexedCourse is a course with its 1-based position in the course log.
// Positions are stable under filtering, so a filtered list still shows
// the index that edit and delete accept.
type IndexedCourse struct {
	Course course.Entry
	Index  int
}

// StatusResult summarizes the tracker for the status screen.
type StatusResult struct {
	State             tracker.State
	CourseCount       int
	CountedHours      float64 // sum over counted courses
	CompletionPercent float64
	Location          string // where the document is stored
}

// ListResult contains the results of listing courses
type ListResult struct {
	Courses      []IndexedCourse
	Total        timeutil.Duration // sum over the listed courses
	CountedHours float64           // listed courses that count toward completed
	Filtered     bool
}

// EditResult contains both versions of an edited course and the state after the edit.
type EditResult struct {
	Old   course.Entry
	New   course.Entry
	State tracker.State
}

// DeleteResult contains the removed course and the state after the removal.
type DeleteResult struct {
	Course course.Entry
	State  tracker.State
}

// ImportResult contains the committed courses of a bulk import.
type ImportResult struct {
	Courses    []course.Entry
	AddedHours float64 // counted hours added to hours completed
	State      tracker.State
	DryRun     bool
}

// StatsResult contains statistics for the whole course log
type StatsResult struct {
	Statistics stats.Statistics
	Categories []stats.CategoryBreakdown
	State      tracker.State
}
