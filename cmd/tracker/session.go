package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/snapshot"
)

func newShowCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.current(cmd)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := snapshot.Encode(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			printSession(cmd.OutOrStdout(), s, c.clock.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session document instead of a summary")

	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var outDir string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session to a dated JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			out, err := svc.Export(cmd.Context(), &session.ExportInput{})
			if err != nil {
				return err
			}

			if toStdout {
				_, err := cmd.OutOrStdout().Write(append(out.Data, '\n'))
				return err
			}

			path := filepath.Join(outDir, out.Filename)
			if err := os.WriteFile(path, out.Data, 0o600); err != nil {
				return errors.Wrapf(err, "failed to write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the export to")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the document to stdout instead of a file")

	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the session with an exported document",
		Long: `Replace the session with an exported document. The document is checked
against the session schema first; a rejected document leaves the current
session untouched. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read import")
			}

			svc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			out, err := svc.Import(cmd.Context(), &session.ImportInput{Data: data})
			if err != nil {
				return err
			}
			if !out.Persisted {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: the import was applied but could not be saved")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q with %d characters\n", out.Session.Name, len(out.Session.Characters))
			return nil
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the session with a fresh empty one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.dispatch(cmd, reducer.ResetSession{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started %q (%s)\n", out.Session.Name, out.Session.ID)
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema imports are validated against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := snapshot.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newNotesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Show or replace the session notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.current(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Notes)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <text...>",
		Short: "Replace the session notes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.dispatch(cmd, reducer.UpdateNotes{Notes: strings.Join(args, " ")})
			return err
		},
	})

	return cmd
}

func newRenameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name...>",
		Short: "Rename the session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.dispatch(cmd, reducer.RenameSession{Name: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session is now %q\n", out.Session.Name)
			return nil
		},
	}
}
