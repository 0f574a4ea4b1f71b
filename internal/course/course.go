// Package course defines logged course entries and the bulk import grammar.
package course

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xolan/certtrack/internal/timeutil"
)

// Category sentinels
const (
	// CategoryUncategorized is the default category
	CategoryUncategorized = "Uncategorized"
	// CategoryAutoDetect asks for the platform to be detected from the course name
	CategoryAutoDetect = "Auto-detect"
	// CategoryCustom means the caller supplies its own category text
	CategoryCustom = "Custom"
)

var (
	ErrEmptyName        = errors.New("course name cannot be empty")
	ErrNegativeDuration = errors.New("course duration cannot be negative")
)

// ID identifies a course entry. Documents written by older versions used
// numeric ids; those are accepted and kept in their decimal form.
type ID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("course id must be a string or a number, got %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

// Entry is a single logged course.
// Time, DecimalHours are derived from Hours and Minutes and are refreshed by Normalize.
type Entry struct {
	ID                    ID      `json:"id" yaml:"id"`
	Name                  string  `json:"name" yaml:"name"`
	Time                  string  `json:"time" yaml:"time"`
	DecimalHours          float64 `json:"timeInHours" yaml:"time_in_hours"`
	Hours                 int     `json:"hours" yaml:"hours"`
	Minutes               float64 `json:"minutes" yaml:"minutes"`
	Category              string  `json:"category" yaml:"category"`
	CountsTowardCompleted bool    `json:"updateHoursCompleted" yaml:"counts_toward_completed"`
}

// UnmarshalJSON accepts fractional hours such as "hours": 5.5 from older
// documents and folds the fraction into Minutes.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	aux := struct {
		*plain
		Hours float64 `json:"hours"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Hours == math.Trunc(aux.Hours) && math.Abs(aux.Hours) <= timeutil.MaxHours {
		e.Hours = int(aux.Hours)
		return nil
	}

	d, err := timeutil.FromMinutes(aux.Hours*60 + e.Minutes)
	if err != nil {
		return fmt.Errorf("course %s: %w", e.ID, err)
	}
	e.Hours, e.Minutes = d.Hours, d.Minutes
	e.DecimalHours = d.DecimalHours()
	e.Time = d.String()
	return nil
}

// New builds an entry with its derived fields filled in.
func New(id ID, name string, d timeutil.Duration, category string, counts bool) Entry {
	e := Entry{
		ID:                    id,
		Name:                  strings.TrimSpace(name),
		Hours:                 d.Hours,
		Minutes:               d.Minutes,
		Category:              category,
		CountsTowardCompleted: counts,
	}
	return e.Normalize()
}

// Duration returns the entry's duration as stored (not re-normalized).
func (e Entry) Duration() timeutil.Duration {
	return timeutil.Duration{Hours: e.Hours, Minutes: e.Minutes}
}

// Normalize recomputes the derived fields and applies the default category.
func (e Entry) Normalize() Entry {
	e.DecimalHours = timeutil.ToDecimalHours(e.Hours, e.Minutes)
	e.Time = timeutil.FormatDuration(e.Hours, e.Minutes)
	if strings.TrimSpace(e.Category) == "" {
		e.Category = CategoryUncategorized
	}
	return e
}

// CountedHours is the entry's contribution to hours completed.
func (e Entry) CountedHours() float64 {
	if !e.CountsTowardCompleted {
		return 0
	}
	return e.DecimalHours
}

// Validate checks the fields a caller can get wrong.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Hours < 0 || e.Minutes < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// ResolveCategory picks the category for a course named name given the
// selected category and the custom text typed next to it.
// Auto-detect falls back to Uncategorized when no platform is recognized.
func ResolveCategory(selected, custom, name string) string {
	switch selected {
	case CategoryAutoDetect:
		if platform, ok := DetectPlatform(name); ok {
			return platform
		}
		return CategoryUncategorized
	case CategoryCustom:
		if c := strings.TrimSpace(custom); c != "" {
			return c
		}
		return CategoryUncategorized
	case "":
		return CategoryUncategorized
	default:
		return selected
	}
}
