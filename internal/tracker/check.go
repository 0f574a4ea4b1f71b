package tracker

import (
	"fmt"
	"math"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/timeutil"
)

// Epsilon is the tolerance used when comparing hour values.
const Epsilon = 1e-6

// Problem describes one inconsistency found in a document.
type Problem struct {
	CourseID course.ID // empty for document-level problems
	Message  string
}

// Health summarizes a document's consistency.
type Health struct {
	Courses        int
	CountedCourses int
	CountedHours   float64 // sum over counted courses
	Drift          float64 // stored remaining minus (total - completed)
	Problems       []Problem
}

// OK reports whether no problems were found.
func (h Health) OK() bool {
	return len(h.Problems) == 0
}

// Check inspects a document without changing it.
func Check(d Document) Health {
	h := Health{
		Courses:      len(d.Courses),
		CountedHours: CountedHours(d.Courses),
		Drift:        d.HoursRemaining - (d.TotalHours - d.HoursCompleted),
		Problems:     []Problem{},
	}

	if math.Abs(h.Drift) > Epsilon {
		h.Problems = append(h.Problems, Problem{
			Message: fmt.Sprintf("hours remaining (%g) does not equal total minus completed (%g)", d.HoursRemaining, d.TotalHours-d.HoursCompleted),
		})
	}

	seen := make(map[course.ID]bool, len(d.Courses))
	for _, c := range d.Courses {
		if c.CountsTowardCompleted {
			h.CountedCourses++
		}

		if c.ID == "" {
			h.Problems = append(h.Problems, Problem{Message: fmt.Sprintf("course %q has no id", c.Name)})
		} else if seen[c.ID] {
			h.Problems = append(h.Problems, Problem{CourseID: c.ID, Message: "duplicate id"})
		}
		seen[c.ID] = true

		if err := c.Validate(); err != nil {
			h.Problems = append(h.Problems, Problem{CourseID: c.ID, Message: err.Error()})
			continue
		}
		if math.Abs(c.DecimalHours-timeutil.ToDecimalHours(c.Hours, c.Minutes)) > Epsilon {
			h.Problems = append(h.Problems, Problem{
				CourseID: c.ID,
				Message:  fmt.Sprintf("decimal hours %g does not match %s", c.DecimalHours, c.Duration()),
			})
		}
	}

	return h
}
