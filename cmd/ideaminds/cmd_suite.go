package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/singampalli/ideaminds/pkg/testsuite"
)

func newSuiteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Manage the generated test suite",
	}
	cmd.AddCommand(
		newSuiteImportCmd(a),
		newSuiteListCmd(a),
		newSuiteFacetsCmd(a),
		newSuiteAddCmd(a),
		newSuiteDeleteCmd(a),
		newSuiteExportCmd(a),
	)
	return cmd
}

func newSuiteImportCmd(a *app) *cobra.Command {
	var (
		from    string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import test cases from markdown, generated JSON or an exported suite",
		Long: `Imports test cases into the stored suite.

Formats:
  md    markdown outline (# Category, - Test title, Expected Result: ...)
  llm   JSON array produced by a model, optionally fenced in a code block
  json  a suite previously written by "suite export --format json"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := a.readInput(path)
			if err != nil {
				return err
			}

			var cases []testsuite.TestCase
			switch strings.ToLower(from) {
			case "md", "markdown":
				cases = testsuite.ParseMarkdown(string(data))
			case "llm":
				cases, err = testsuite.ParseLLMJSON(string(data))
			case "json":
				imported := testsuite.NewSuite()
				err = imported.Import(data)
				cases = imported.Cases()
			default:
				return fmt.Errorf("unknown format %q (md, llm, json)", from)
			}
			if err != nil {
				return err
			}

			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			if replace {
				suite.Replace(cases)
			} else {
				suite.Replace(append(suite.Cases(), cases...))
			}
			if err := a.saveSuite(cmd, suite); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d test case(s); suite has %d.\n", len(cases), suite.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "md", "input format: md, llm or json")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the stored suite instead of appending")
	return cmd
}

func newSuiteListCmd(a *app) *cobra.Command {
	var filter testsuite.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			cases := suite.Filter(filter)
			if len(cases) == 0 {
				fmt.Fprintln(a.out, "No tests found. Add one or change filters.")
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tPRIORITY\tTITLE\tPLATFORMS")
			for _, tc := range cases {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", tc.ID, tc.Category, tc.Priority, tc.Title, strings.Join(tc.Platforms, ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", testsuite.All, "only cases in this category")
	cmd.Flags().StringVar(&filter.Priority, "priority", testsuite.All, "only cases with this priority")
	cmd.Flags().StringVar(&filter.Search, "search", "", "case-insensitive search over title, expected result and sample data")
	return cmd
}

func newSuiteFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Show the categories and priorities in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(suite.Categories(), ", "))
			fmt.Fprintf(a.out, "Priorities: %s\n", strings.Join(suite.Priorities(), ", "))
			return nil
		},
	}
}

func newSuiteAddCmd(a *app) *cobra.Command {
	var (
		tc      testsuite.TestCase
		locator string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a test case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if locator != "" {
				tc.Locators = []testsuite.Locator{{Element: tc.Title, Locator: locator}}
			}
			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			added, err := suite.Add(tc)
			if err != nil {
				return err
			}
			if err := a.saveSuite(cmd, suite); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s\n", added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&tc.Title, "title", "", "test title")
	cmd.Flags().StringVar(&tc.Category, "category", testsuite.DefaultCategory, "category")
	cmd.Flags().StringVar(&tc.Priority, "priority", testsuite.DefaultAddPriority, "priority")
	cmd.Flags().StringVar(&tc.Expected, "expected", "", "expected result")
	cmd.Flags().StringVar(&tc.SampleData, "sample-data", "", "sample data or condition")
	cmd.Flags().StringVar(&tc.Preconditions, "preconditions", "", "preconditions")
	cmd.Flags().StringVar(&locator, "locator", "", "element locator")
	cmd.Flags().StringSliceVar(&tc.Platforms, "platform", nil, "platforms (repeatable or comma separated)")
	return cmd
}

func newSuiteDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			if err := suite.Delete(args[0]); err != nil {
				return err
			}
			if err := a.saveSuite(cmd, suite); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newSuiteExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the suite as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = suite.ExportJSON()
			case "yaml", "yml":
				data, err = suite.ExportYAML()
			default:
				return fmt.Errorf("unknown format %q (json, yaml)", format)
			}
			if err != nil {
				return err
			}
			return a.writeOutput(output, data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty, e.g. test-suite.json)")
	return cmd
}

func (a *app) loadSuite(cmd *cobra.Command) (*testsuite.Suite, error) {
	store, err := a.storage(cmd.Context())
	if err != nil {
		return nil, err
	}
	return testsuite.Load(cmd.Context(), store)
}

func (a *app) saveSuite(cmd *cobra.Command, suite *testsuite.Suite) error {
	store, err := a.storage(cmd.Context())
	if err != nil {
		return err
	}
	return suite.Save(cmd.Context(), store)
}
