package handlers

import (
	"context"
	"strings"
	"testing"
)

func TestShowStats(t *testing.T) {
	env := setupTestDeps(t)
	env.seed(t, exportSeed)

	ShowStats(context.Background(), env.deps)

	if *env.exitCode != 0 {
		t.Fatalf("unexpected exit code %d: %s", *env.exitCode, env.stderr.String())
	}
	output := env.stdout.String()
	assertContains(t, output, "Courses:         2 courses (1 counted)")
	assertContains(t, output, "Course time:     7h 30m (7.5h)")
	assertContains(t, output, "Counted time:    5h 30m (5.5h)")
	assertContains(t, output, "Average/Course:  3.75h")
	assertContains(t, output, "Completion:      15.0%")
	assertContains(t, output, "By Category:")

	udemy := strings.Index(output, "Udemy")
	coursera := strings.Index(output, "Coursera")
	if udemy < 0 || coursera < 0 || udemy > coursera {
		t.Errorf("expected Udemy (5.5h) listed before Coursera (2h):\n%s", output)
	}
}

func TestShowStats_Empty(t *testing.T) {
	env := setupTestDeps(t)

	ShowStats(context.Background(), env.deps)

	output := env.stdout.String()
	assertContains(t, output, "Courses:         0 courses (0 counted)")
	if strings.Contains(output, "By Category:") {
		t.Errorf("breakdown shown without courses: %s", output)
	}
}
