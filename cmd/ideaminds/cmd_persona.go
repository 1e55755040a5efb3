package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/singampalli/ideaminds/pkg/persona"
)

func newPersonaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "persona",
		Aliases: []string{"personas"},
		Short:   "Ask personas for feedback on your ideas",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List personas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				personas, err := a.api().Personas().List(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tROLE\tTONE")
				for _, p := range personas {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Role, p.Tone)
				}
				return w.Flush()
			},
		},
		newPersonaCreateCmd(a),
		&cobra.Command{
			Use:   "delete [id]",
			Short: "Delete a persona",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := a.api().Personas().Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, strings.TrimSpace("Deleted persona "+args[0]+". "+result.Message))
				return nil
			},
		},
		newPersonaAskCmd(a),
	)
	return cmd
}

func newPersonaCreateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a persona from a YAML or JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(file)
			if err != nil {
				return err
			}
			var p persona.Persona
			if err := yaml.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("parse persona: %w", err)
			}
			created, err := a.api().Personas().Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created persona %s (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "persona document (- for stdin)")
	return cmd
}

func newPersonaAskCmd(a *app) *cobra.Command {
	var (
		personaID  string
		ignoreIdea bool
		asHTML     bool
	)
	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a persona a question, grounded on your saved notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if personaID == "" {
				return errors.New("--persona is required")
			}
			personas, err := a.api().Personas().List(cmd.Context())
			if err != nil {
				return err
			}
			selected, ok := persona.Find(personas, personaID)
			if !ok {
				return fmt.Errorf("persona %q not found", personaID)
			}

			client, err := a.defaultBackend()
			if err != nil {
				return err
			}
			notes, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}
			session := persona.NewSession(client,
				persona.WithNotes(notes),
				persona.WithConsiderIdea(!ignoreIdea),
				persona.WithLogger(a.logger.Named("persona")),
			)
			if err := session.Select(selected); err != nil {
				return err
			}
			if _, err := session.Send(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}

			messages := session.Messages()
			if asHTML {
				html, err := persona.RenderHTML(messages)
				if err != nil {
					return err
				}
				return a.writeOutput("", []byte(html))
			}
			for _, msg := range messages {
				fmt.Fprintln(a.out, persona.Prefix(msg.Sender)+msg.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&personaID, "persona", "p", "", "persona id")
	cmd.Flags().BoolVar(&ignoreIdea, "ignore-idea", false, "do not ground the answer on the saved notes")
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the transcript as sanitized HTML")
	return cmd
}
