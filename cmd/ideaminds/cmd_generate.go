package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/singampalli/ideaminds/pkg/inference"
	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/orchestrator"
	"github.com/singampalli/ideaminds/pkg/render"
	"github.com/singampalli/ideaminds/pkg/testsuite"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		templateID    string
		templateFile  string
		imagePath     string
		sets          []string
		collector     string
		backend       string
		dryRun        bool
		substituteAll bool
		output        string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fill a template and send the prompt to the generation backend",
		Long: `Resolves a template, collects a value for every placeholder and sends the
composed prompt to the configured backend.

Values come from repeated --set Label=value flags. Without --set the
placeholders are prompted for interactively. Templates containing an
{attached_image} placeholder require --image.

Example:
  ideaminds generate --template 3 --set "Tone=witty" --set "Topic=Go"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := orchestrator.Request{
				TemplateID: templateID,
				Collector:  collector,
				Backend:    backend,
			}
			if templateFile != "" {
				data, err := a.readInput(templateFile)
				if err != nil {
					return err
				}
				req.Template = &model.Template{Name: templateFile, Content: string(data)}
			}
			if len(sets) > 0 {
				values, err := parseSets(sets)
				if err != nil {
					return err
				}
				req.Values = values
			}
			if imagePath != "" {
				image, err := inference.LoadImage(imagePath)
				if err != nil {
					return err
				}
				req.Image = image
			}

			orch, err := a.orchestrator(orchestrator.WithSubstituteAll(substituteAll))
			if err != nil {
				return err
			}

			var result orchestrator.Result
			if dryRun {
				result, err = orch.Compose(cmd.Context(), req)
			} else {
				result, err = orch.Generate(cmd.Context(), req)
			}
			if err != nil {
				return explain(err)
			}
			if dryRun {
				return a.writeOutput(output, []byte(result.Prompt))
			}
			return a.writeOutput(output, []byte(result.Output))
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "stored template id")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "use a local template file instead of a stored one")
	cmd.Flags().StringVar(&imagePath, "image", "", "image to attach")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "placeholder value as Label=value (repeatable)")
	cmd.Flags().StringVar(&collector, "collector", "", "renderer used to prompt for values (default tui)")
	cmd.Flags().StringVar(&backend, "backend", "", "inference backend (local, openai)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the composed prompt without generating")
	cmd.Flags().BoolVar(&substituteAll, "substitute-all", false, "replace every occurrence of repeated placeholders")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newExecuteCmd(a *app) *cobra.Command {
	var (
		generatorID string
		imagePath   string
		importSuite bool
	)
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Upload an image to the generation executor",
		Long: `Sends an image and a generator id to the generation executor and prints
the JSON reply. With --import-suite the reply is parsed as generated test
cases and appended to the stored test suite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath == "" {
				return errors.New("--image is required")
			}
			image, err := inference.LoadImage(imagePath)
			if err != nil {
				return err
			}
			raw, err := a.api().Templates().ExecuteGeneration(cmd.Context(), image, generatorID)
			if err != nil {
				return err
			}
			if !importSuite {
				return a.writeOutput("", raw)
			}

			cases, err := testsuite.ParseLLMJSON(string(raw))
			if err != nil {
				return err
			}
			suite, err := a.loadSuite(cmd)
			if err != nil {
				return err
			}
			suite.Replace(append(suite.Cases(), cases...))
			if err := a.saveSuite(cmd, suite); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d test case(s)\n", len(cases))
			return nil
		},
	}
	cmd.Flags().StringVar(&generatorID, "generator", "", "generator id")
	cmd.Flags().StringVar(&imagePath, "image", "", "image to upload")
	cmd.Flags().BoolVar(&importSuite, "import-suite", false, "parse the reply as test cases and store them")
	return cmd
}

// parseSets turns Label=value pairs into form values. The label is matched
// case-insensitively by the substitutor, so any casing works.
func parseSets(sets []string) (model.FormValues, error) {
	values := make(model.FormValues, len(sets))
	for _, set := range sets {
		label, value, ok := strings.Cut(set, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected Label=value", set)
		}
		values[strings.TrimSpace(label)] = value
	}
	return values, nil
}

// explain rewrites validation failures into one line per field.
func explain(err error) error {
	var verr *render.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var lines []string
	for _, label := range verr.Labels {
		lines = append(lines, verr.Fields[label]...)
	}
	return fmt.Errorf("missing values:\n  %s", strings.Join(lines, "\n  "))
}

func renderOptions(action string) render.RenderOptions {
	return render.RenderOptions{Action: action}
}
