package timeutil

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a duration text matches none of the accepted forms.
var ErrInvalidFormat = errors.New("invalid time format")

const (
	number   = `(\d+\.?\d*)`
	hourUnit = `h(?:ours?|rs?)?`
	minUnit  = `m(?:inutes?|ins?)?`
)

var (
	// combinedPattern matches "5h 30m", "5h30m", "5hrs 38mins", "5 hours and 30 minutes"
	combinedPattern = regexp.MustCompile(`^` + number + `\s*` + hourUnit + `\s*(?:and\s*)?` + number + `\s*` + minUnit + `$`)

	// hoursPattern matches "5h", "5.5 hours"
	hoursPattern = regexp.MustCompile(`^` + number + `\s*` + hourUnit + `$`)

	// minutesPattern matches "330m", "45 minutes"
	minutesPattern = regexp.MustCompile(`^` + number + `\s*` + minUnit + `$`)

	// decimalPattern matches a bare number of hours such as "5.5"
	decimalPattern = regexp.MustCompile(`^` + number + `$`)
)

// Duration is a normalized length of time: whole hours plus minutes in [0, 60).
type Duration struct {
	Hours   int
	Minutes float64
}

// DecimalHours returns the duration as fractional hours.
func (d Duration) DecimalHours() float64 {
	return ToDecimalHours(d.Hours, d.Minutes)
}

// String returns the compact display label, e.g. "5h 30m".
func (d Duration) String() string {
	return FormatDuration(d.Hours, d.Minutes)
}

// ParseDuration parses free-form duration text. Forms are tried in order and the
// first match wins:
//
//	"5h 30m", "5hrs 38mins", "5 hours and 30 minutes"   hours and minutes
//	"5h", "5.5 hours"                                   hours only
//	"330m", "45 minutes"                                minutes only
//	"5.5"                                               decimal hours
//
// Matching is case-insensitive and ignores surrounding whitespace. The result is
// normalized so that "5.5h", "330m" and "5.5" all yield 5h 30m.
func ParseDuration(input string) (Duration, error) {
	text := strings.ToLower(strings.TrimSpace(input))

	if m := combinedPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		minutes, _ := strconv.ParseFloat(m[2], 64)
		return checked(input, hours*60+minutes)
	}

	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		return checked(input, hours*60)
	}

	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.ParseFloat(m[1], 64)
		return checked(input, minutes)
	}

	if m := decimalPattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		whole := math.Floor(value)
		return checked(input, whole*60+math.Round((value-whole)*60))
	}

	return Duration{}, fmt.Errorf("%w: %q (use formats like \"5h 30m\", \"5.5h\" or \"330m\")", ErrInvalidFormat, input)
}

func checked(input string, total float64) (Duration, error) {
	d, err := FromMinutes(total)
	if err != nil {
		return Duration{}, fmt.Errorf("%w: %q is too large", ErrInvalidFormat, input)
	}
	return d, nil
}

// MaxHours is the largest whole-hour count a Duration can hold.
const MaxHours = math.MaxInt32

// FromMinutes normalizes a total minute count, which may carry fractional
// hours folded in, into whole hours and minutes in [0, 60).
func FromMinutes(total float64) (Duration, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) || math.Abs(total)/60 > MaxHours {
		return Duration{}, fmt.Errorf("%w: %v minutes is out of range", ErrInvalidFormat, total)
	}
	return fromMinutes(total), nil
}

// FormatDuration formats hours and minutes as a compact label: "0m", "5h", "30m"
// or "5h 30m". Minutes are rounded, so the label is for display only.
func FormatDuration(hours int, minutes float64) string {
	if hours == 0 && minutes == 0 {
		return "0m"
	}

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", int(math.Round(minutes))))
	}
	return strings.Join(parts, " ")
}

// ToDecimalHours converts hours and minutes to fractional hours.
func ToDecimalHours(hours int, minutes float64) float64 {
	return float64(hours) + minutes/60
}

// Sum adds durations that may not be normalized and returns a normalized total.
func Sum(durations ...Duration) Duration {
	hours := 0
	minutes := 0.0
	for _, d := range durations {
		hours += d.Hours
		minutes += d.Minutes
	}
	carry := math.Floor(minutes / 60)
	return Duration{Hours: hours + int(carry), Minutes: cleanMinutes(minutes - carry*60)}
}

// fromMinutes normalizes a minute count into whole hours and remaining minutes.
func fromMinutes(total float64) Duration {
	total = cleanMinutes(total)
	hours := math.Floor(total / 60)
	minutes := cleanMinutes(total - hours*60)
	if minutes >= 60 {
		hours++
		minutes -= 60
	}
	return Duration{Hours: int(hours), Minutes: minutes}
}

// cleanMinutes drops float noise such as 66.00000000000001 from 1.1h * 60.
func cleanMinutes(m float64) float64 {
	return math.Round(m*1e6) / 1e6
}
