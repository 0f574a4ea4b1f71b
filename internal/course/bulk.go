package course

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xolan/certtrack/internal/timeutil"
)

// BulkLineFormat describes the only line shape accepted by ParseBlock.
const BulkLineFormat = "5hrs 38mins - Course Name"

// bulkLinePattern is deliberately stricter than timeutil.ParseDuration:
// integer hours and minutes with the literal hrs/mins units only.
var bulkLinePattern = regexp.MustCompile(`(?i)^(\d+)hrs\s+(\d+)mins\s*-\s*(.*)$`)

var (
	// ErrEmptyBlock is returned when a block has no non-blank lines
	ErrEmptyBlock = errors.New("no course lines to import")
	// ErrLineParse matches any *LineParseError via errors.Is
	ErrLineParse = errors.New("could not parse line")
	// ErrBadOverride is returned for a category override that is not N=Category
	// or names a draft the block does not have
	ErrBadOverride = errors.New("invalid category override")
)

// LineParseError reports the first line of a block that does not match the bulk format.
type LineParseError struct {
	Number int    // 1-based line number within the block
	Line   string // the line as it was given
}

func (e *LineParseError) Error() string {
	return fmt.Sprintf("could not parse line %d: %q. Expected format: %q", e.Number, e.Line, BulkLineFormat)
}

func (e *LineParseError) Unwrap() error {
	return ErrLineParse
}

// BlockOptions are the choices made once for a whole import block.
type BlockOptions struct {
	DefaultCategory       string // a category, CategoryAutoDetect or CategoryCustom
	CustomCategory        string // used when DefaultCategory is CategoryCustom
	CountsTowardCompleted bool
}

// Draft is a parsed course that has not been given its final id yet.
type Draft struct {
	Entry
	Line int // line number the draft came from
}

// ParseBlock parses one course per non-blank line:
//
//	5hrs 38mins - Prompt Engineering Application
//	7hrs 26mins - Blockchain Certification Training
//
// Parsing is all-or-nothing: the first bad line fails the whole block and no
// drafts are returned. Drafts carry temporary ids ("draft-1", "draft-2", ...).
func ParseBlock(text string, opts BlockOptions) ([]Draft, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var drafts []Draft
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		e, ok := parseBulkLine(trimmed, opts)
		if !ok {
			return nil, &LineParseError{Number: i + 1, Line: line}
		}
		e.ID = ID(fmt.Sprintf("draft-%d", len(drafts)+1))
		drafts = append(drafts, Draft{Entry: e, Line: i + 1})
	}

	if len(drafts) == 0 {
		return nil, ErrEmptyBlock
	}
	return drafts, nil
}

func parseBulkLine(line string, opts BlockOptions) (Entry, bool) {
	m := bulkLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return Entry{}, false
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return Entry{}, false
	}

	name := strings.TrimSpace(m[3])
	if name == "" {
		return Entry{}, false
	}

	d := timeutil.Duration{Hours: hours, Minutes: float64(minutes)}
	category := ResolveCategory(opts.DefaultCategory, opts.CustomCategory, name)
	return New("", name, d, category, opts.CountsTowardCompleted), true
}

// ParseCategoryOverrides parses "N=Category" pairs, N being the 1-based
// position of a draft in its block.
func ParseCategoryOverrides(pairs []string) (map[int]string, error) {
	overrides := make(map[int]string, len(pairs))
	for _, pair := range pairs {
		pos, category, ok := strings.Cut(pair, "=")
		n, err := strconv.Atoi(strings.TrimSpace(pos))
		if !ok || err != nil || n < 1 || strings.TrimSpace(category) == "" {
			return nil, fmt.Errorf("%w: %q (expected N=Category)", ErrBadOverride, pair)
		}
		overrides[n] = strings.TrimSpace(category)
	}
	return overrides, nil
}

// ApplyCategories replaces the category of individual drafts before they are
// committed. Keys are 1-based draft positions; CategoryAutoDetect is honored.
func ApplyCategories(drafts []Draft, overrides map[int]string) error {
	for n := range overrides {
		if n < 1 || n > len(drafts) {
			return fmt.Errorf("%w: draft %d does not exist (block has %d)", ErrBadOverride, n, len(drafts))
		}
	}
	for n, category := range overrides {
		d := &drafts[n-1]
		d.Category = ResolveCategory(category, "", d.Name)
	}
	return nil
}

// Entries returns the drafts' entries in order.
func Entries(drafts []Draft) []Entry {
	entries := make([]Entry, len(drafts))
	for i, d := range drafts {
		entries[i] = d.Entry
	}
	return entries
}
