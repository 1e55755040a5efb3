package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/singampalli/ideaminds/pkg/notepad"
)

func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"notepad"},
		Short:   "Read and edit the idea notepad",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved notes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pad, err := a.notepad(cmd, false)
				if err != nil {
					return err
				}
				if pad.Text() == "" {
					fmt.Fprintln(a.errOut, "No saved notes.")
					return nil
				}
				return a.writeOutput("", []byte(pad.Text()))
			},
		},
		newNotesSaveCmd(a),
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the saved notes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pad, err := a.notepad(cmd, false)
				if err != nil {
					return err
				}
				if err := pad.Delete(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Notes cleared.")
				return nil
			},
		},
		newNotesRephraseCmd(a),
	)
	return cmd
}

func newNotesSaveCmd(a *app) *cobra.Command {
	var (
		file       string
		appendText bool
	)
	cmd := &cobra.Command{
		Use:   "save [text...]",
		Short: "Replace (or append to) the saved notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := a.readInput(file)
				if err != nil {
					return err
				}
				text = string(data)
			}

			pad, err := a.notepad(cmd, false)
			if err != nil {
				return err
			}
			if appendText && pad.Text() != "" {
				text = strings.TrimRight(pad.Text(), "\n") + "\n" + text
			}
			if err := pad.SetText(cmd.Context(), text); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Notes saved.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read notes from a file when no text is given (default stdin)")
	cmd.Flags().BoolVar(&appendText, "append", false, "append instead of replacing")
	return cmd
}

func newNotesRephraseCmd(a *app) *cobra.Command {
	var tone string
	cmd := &cobra.Command{
		Use:   "rephrase",
		Short: "Rewrite the saved notes in another tone",
		Long: fmt.Sprintf(`Rewrites the saved notes in the chosen tone and saves the result.

Tones: %s`, toneNames()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := notepad.ParseTone(tone)
			if err != nil {
				return err
			}
			pad, err := a.notepad(cmd, true)
			if err != nil {
				return err
			}
			text, err := pad.Rephrase(cmd.Context(), parsed)
			if err != nil {
				return err
			}
			return a.writeOutput("", []byte(text))
		},
	}
	cmd.Flags().StringVar(&tone, "tone", string(notepad.ToneFormal), "target tone")
	return cmd
}

func (a *app) notepad(cmd *cobra.Command, withClient bool) (*notepad.Notepad, error) {
	store, err := a.storage(cmd.Context())
	if err != nil {
		return nil, err
	}
	options := []notepad.Option{notepad.WithLogger(a.logger.Named("notepad"))}
	if withClient {
		client, err := a.defaultBackend()
		if err != nil {
			return nil, err
		}
		options = append(options, notepad.WithClient(client))
	}
	pad := notepad.New(store, options...)
	if _, err := pad.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return pad, nil
}

func toneNames() string {
	names := make([]string, 0, len(notepad.Tones))
	for _, tone := range notepad.Tones {
		names = append(names, string(tone))
	}
	return strings.Join(names, ", ")
}
