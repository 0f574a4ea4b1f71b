package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/certtrack/internal/cli/handlers"
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/service"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <name...> --time <duration>",
	Short: "Log a completed course",
	Long: `Log a completed course. The duration is added to hours completed unless
--no-count is given.

The category defaults to the configured default_category. "Auto-detect"
recognises Simplilearn, LinkedIn, Coursera, Udemy, edX and Pluralsight in the
course name; "Custom" takes the text given with --custom.

Examples:
  certtrack add Go Basics --time "5h 30m"
  certtrack add "Udemy Kubernetes" --time 4.5h --category Auto-detect
  certtrack add Side reading --time 90m --no-count`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		flags := cmd.Flags()
		req := service.AddRequest{Name: strings.Join(args, " ")}
		req.Time, _ = flags.GetString("time")
		req.Category, _ = flags.GetString("category")
		req.Custom, _ = flags.GetString("custom")
		if noCount, _ := flags.GetBool("no-count"); noCount {
			req.Counts = boolPtr(false)
		}
		handlers.AddCourse(cmd.Context(), deps, req)
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged courses",
	Long: `List logged courses with their 1-based index, category and duration.
Courses marked with * do not count toward hours completed.

Indices stay the same when filtering, so they can be passed to edit and delete.`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.ListCourses(cmd.Context(), deps, filterFromFlags(cmd))
	},
}

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List known and used categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.ListCategories(cmd.Context(), deps)
	},
}

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit a logged course",
	Long: `Edit a logged course. Hours completed moves by the difference between the
old and new counted durations.

Usage:
  certtrack edit <index> --name 'new name'
  certtrack edit <index> --time 2h
  certtrack edit <index> --category Coursera
  certtrack edit <index> --no-count

The index refers to the course number shown by list (starting from 1).
At least one flag is required.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		handlers.EditCourse(cmd.Context(), deps, args[0], editRequestFromFlags(cmd))
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a logged course",
	Long: `Delete a logged course by its index. A counted course is subtracted from
hours completed. Asks for confirmation unless --yes is given.`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		yes, _ := cmd.Flags().GetBool("yes")
		handlers.DeleteCourse(cmd.Context(), deps, args[0], yes)
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Import a block of courses",
	Long: `Import several courses at once. Each non-blank line must look like

  5hrs 38mins - Course Name

The whole block is imported or nothing is: the first line that does not
match stops the import. Without a file, or with "-", the block is read from
standard input.

Examples:
  certtrack import courses.txt
  pbpaste | certtrack import --category Coursera
  certtrack import courses.txt --dry-run
  certtrack import courses.txt --set-category 2=Udemy --set-category 3=Auto-detect`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		source := ""
		if len(args) == 1 {
			source = args[0]
		}
		flags := cmd.Flags()
		var req service.ImportRequest
		req.Category, _ = flags.GetString("category")
		req.Custom, _ = flags.GetString("custom")
		req.DryRun, _ = flags.GetBool("dry-run")
		if noCount, _ := flags.GetBool("no-count"); noCount {
			req.Counts = boolPtr(false)
		}
		pairs, _ := flags.GetStringArray("set-category")
		categories, err := course.ParseCategoryOverrides(pairs)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use --set-category 2=Udemy to change the category of the second course")
			deps.Exit(1)
			return
		}
		req.Categories = categories
		handlers.ImportCourses(cmd.Context(), deps, source, req)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(importCmd)

	addCmd.Flags().StringP("time", "t", "", "Course duration (e.g., \"5h 30m\", 5.5h, 330m)")
	addCmd.Flags().StringP("category", "c", "", "Category, \"Auto-detect\" or \"Custom\"")
	addCmd.Flags().String("custom", "", "Category text used with --category Custom")
	addCmd.Flags().Bool("no-count", false, "Do not add the duration to hours completed")

	listCmd.Flags().StringP("category", "c", "", "Only show courses in this category")
	listCmd.Flags().StringP("search", "s", "", "Only show courses whose name contains this text")
	listCmd.Flags().Bool("counted", false, "Only show courses that count toward hours completed")

	editCmd.Flags().String("name", "", "New course name")
	editCmd.Flags().StringP("time", "t", "", "New duration")
	editCmd.Flags().StringP("category", "c", "", "New category, \"Auto-detect\" or \"Custom\"")
	editCmd.Flags().String("custom", "", "Category text used with --category Custom")
	editCmd.Flags().Bool("count", false, "Count the course toward hours completed")
	editCmd.Flags().Bool("no-count", false, "Stop counting the course toward hours completed")
	editCmd.MarkFlagsMutuallyExclusive("count", "no-count")

	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	importCmd.Flags().StringP("category", "c", "", "Category for every imported course")
	importCmd.Flags().String("custom", "", "Category text used with --category Custom")
	importCmd.Flags().Bool("no-count", false, "Do not add the durations to hours completed")
	importCmd.Flags().Bool("dry-run", false, "Show what would be imported without saving")
	importCmd.Flags().StringArray("set-category", nil, "Category for one course as N=Category (repeatable)")
}

// filterFromFlags builds a course filter from --category, --search and --counted.
// Returns nil when no filter flag was given.
func filterFromFlags(cmd *cobra.Command) *filter.Filter {
	category, _ := cmd.Flags().GetString("category")
	search, _ := cmd.Flags().GetString("search")
	f := filter.NewFilter(search, category)
	if cmd.Flags().Lookup("counted") != nil {
		if counted, _ := cmd.Flags().GetBool("counted"); counted {
			f.Counted = boolPtr(true)
		}
	}
	if f.IsEmpty() {
		return nil
	}
	return f
}

// editRequestFromFlags only sets the fields whose flags were given, so an
// explicit empty --name still reaches the validation.
func editRequestFromFlags(cmd *cobra.Command) service.EditRequest {
	flags := cmd.Flags()
	var req service.EditRequest
	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		req.Name = &name
	}
	if flags.Changed("time") {
		t, _ := flags.GetString("time")
		req.Time = &t
	}
	if flags.Changed("category") {
		category, _ := flags.GetString("category")
		req.Category = &category
	}
	req.Custom, _ = flags.GetString("custom")
	if flags.Changed("count") {
		count, _ := flags.GetBool("count")
		req.Counts = &count
	}
	if flags.Changed("no-count") {
		noCount, _ := flags.GetBool("no-count")
		req.Counts = boolPtr(!noCount)
	}
	return req
}

func boolPtr(b bool) *bool {
	return &b
}
