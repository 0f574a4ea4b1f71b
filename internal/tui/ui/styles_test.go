package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()

	tests := []struct {
		name  string
		style lipgloss.Style
	}{
		{"App", styles.App},
		{"TabBar", styles.TabBar},
		{"TabActive", styles.TabActive},
		{"TabInactive", styles.TabInactive},
		{"ViewTitle", styles.ViewTitle},
		{"StatusBar", styles.StatusBar},
		{"StatusKey", styles.StatusKey},
		{"StatusHelp", styles.StatusHelp},
		{"CourseSelected", styles.CourseSelected},
		{"CourseNormal", styles.CourseNormal},
		{"CourseIndex", styles.CourseIndex},
		{"CourseCategory", styles.CourseCategory},
		{"CourseDuration", styles.CourseDuration},
		{"CourseUncounted", styles.CourseUncounted},
		{"ProgressFull", styles.ProgressFull},
		{"ProgressEmpty", styles.ProgressEmpty},
		{"ProgressPercent", styles.ProgressPercent},
		{"StatLabel", styles.StatLabel},
		{"StatValue", styles.StatValue},
		{"Dialog", styles.Dialog},
		{"Error", styles.Error},
		{"Warning", styles.Warning},
		{"Success", styles.Success},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Render some text with the style to verify it works
			rendered := tt.style.Render("test")
			if rendered == "" {
				t.Errorf("expected non-empty rendered output for style %s", tt.name)
			}
		})
	}
}

func TestDefaultStyles_FixedWidths(t *testing.T) {
	styles := DefaultStyles()

	if w := lipgloss.Width(styles.CourseDuration.Render("5h")); w != 10 {
		t.Errorf("CourseDuration width = %d, expected 10", w)
	}
	if w := lipgloss.Width(styles.StatLabel.Render("Total:")); w != 20 {
		t.Errorf("StatLabel width = %d, expected 20", w)
	}
}
