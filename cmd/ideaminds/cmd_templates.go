package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/singampalli/ideaminds/pkg/model"
	pkgopenapi "github.com/singampalli/ideaminds/pkg/openapi"
	"github.com/singampalli/ideaminds/pkg/orchestrator"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "tpl"},
		Short:   "Manage prompt templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(a),
		newTemplatesGetCmd(a),
		newTemplatesCreateCmd(a),
		newTemplatesUpdateCmd(a),
		newTemplatesDeleteCmd(a),
		newTemplatesFieldsCmd(a),
		newTemplatesExportCmd(a),
		newTemplatesFormCmd(a),
	)
	return cmd
}

func newTemplatesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := a.api().Templates().List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFIELDS\tIMAGE")
			builder := model.NewBuilder()
			for _, tpl := range templates {
				form := builder.Build(tpl)
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", tpl.ID, tpl.Name, len(form.Labels()), form.RequiresImage())
			}
			return w.Flush()
		},
	}
}

func newTemplatesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := a.api().Templates().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(tpl)
			if err != nil {
				return err
			}
			return a.writeOutput("", data)
		},
	}
}

type templateFlags struct {
	name    string
	content string
	file    string
}

func (f *templateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "template name")
	cmd.Flags().StringVar(&f.content, "content", "", "template body with {placeholders}")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the template body from a file (- for stdin)")
}

func (f *templateFlags) template(a *app) (model.Template, error) {
	tpl := model.Template{Name: f.name, Content: f.content}
	if f.file != "" {
		data, err := a.readInput(f.file)
		if err != nil {
			return model.Template{}, err
		}
		tpl.Content = string(data)
	}
	return tpl, nil
}

func newTemplatesCreateCmd(a *app) *cobra.Command {
	flags := &templateFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := flags.template(a)
			if err != nil {
				return err
			}
			created, err := a.api().Templates().Create(cmd.Context(), tpl)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created template %s (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newTemplatesUpdateCmd(a *app) *cobra.Command {
	flags := &templateFlags{}
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := flags.template(a)
			if err != nil {
				return err
			}
			updated, err := a.api().Templates().Update(cmd.Context(), args[0], tpl)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated template %s (%s)\n", args[0], updated.Name)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newTemplatesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.api().Templates().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			message := result.Message
			if message == "" {
				message = "Deleted template " + args[0]
			}
			fmt.Fprintln(a.out, message)
			return nil
		},
	}
}

func newTemplatesFieldsCmd(a *app) *cobra.Command {
	var (
		asJSON     bool
		schemaPath string
	)
	cmd := &cobra.Command{
		Use:   "fields [id]",
		Short: "Show the form fields derived from a template's placeholders",
		Long: `Shows the form fields derived from a stored template. With --schema the
fields are read back from a document written by "templates export-schema".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				form model.FormModel
				err  error
			)
			switch {
			case schemaPath != "":
				form, err = a.schemaForm(cmd, schemaPath)
			case len(args) == 1:
				var orch *orchestrator.Orchestrator
				orch, err = a.orchestrator()
				if err == nil {
					form, err = orch.FormModel(cmd.Context(), orchestrator.Request{TemplateID: args[0]})
				}
			default:
				err = errors.New("a template id or --schema is required")
			}
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(form, "", "  ")
				if err != nil {
					return err
				}
				return a.writeOutput("", data)
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LABEL\tPLACEHOLDER\tHINT")
			for _, field := range form.Fields {
				fmt.Fprintf(w, "%s\t{%s}\t%s\n", field.Label, field.Name, field.Hint)
			}
			if form.RequiresImage() {
				fmt.Fprintf(w, "(image)\t%d attachment(s)\t\n", form.Attachments)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the form model as JSON")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "read fields from an exported OpenAPI document (- for stdin)")
	return cmd
}

func (a *app) schemaForm(cmd *cobra.Command, path string) (model.FormModel, error) {
	data, err := a.readInput(path)
	if err != nil {
		return model.FormModel{}, err
	}
	doc, err := pkgopenapi.Load(cmd.Context(), data)
	if err != nil {
		return model.FormModel{}, err
	}
	return pkgopenapi.Import(doc)
}

func newTemplatesExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-schema [id]",
		Short: "Export a template's request schema as an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			form, err := orch.FormModel(cmd.Context(), orchestrator.Request{TemplateID: args[0]})
			if err != nil {
				return err
			}
			title := form.Name
			if strings.TrimSpace(title) == "" {
				title = args[0]
			}
			doc, err := pkgopenapi.Export(form, pkgopenapi.WithTitle(title), pkgopenapi.WithVersion(version))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			return a.writeOutput(output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newTemplatesFormCmd(a *app) *cobra.Command {
	var (
		output   string
		renderer string
		action   string
	)
	cmd := &cobra.Command{
		Use:   "form [id]",
		Short: "Render a template's form as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			html, err := orch.Form(cmd.Context(), orchestrator.Request{
				TemplateID:    args[0],
				Renderer:      renderer,
				RenderOptions: renderOptions(action),
			})
			if err != nil {
				return err
			}
			return a.writeOutput(output, html)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&renderer, "renderer", "vanilla", "renderer to use")
	cmd.Flags().StringVar(&action, "action", "", "form submission target")
	return cmd
}
