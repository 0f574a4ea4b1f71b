package course

import "strings"

type platform struct {
	needle string
	name   string
}

// platforms is checked in order; the first match wins.
var platforms = []platform{
	{"simplilearn", "Simplilearn"},
	{"linkedin", "LinkedIn"},
	{"coursera", "Coursera"},
	{"udemy", "Udemy"},
	{"edx", "edX"},
	{"pluralsight", "Pluralsight"},
}

// DetectPlatform looks for a known learning platform in a course name.
func DetectPlatform(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, p := range platforms {
		if strings.Contains(lower, p.needle) {
			return p.name, true
		}
	}
	return "", false
}

// KnownCategories returns the categories offered for selection, default first.
func KnownCategories() []string {
	categories := []string{CategoryUncategorized}
	for _, p := range platforms {
		categories = append(categories, p.name)
	}
	return categories
}
