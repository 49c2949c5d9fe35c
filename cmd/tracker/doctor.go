package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/errors"
	sessionrepo "github.com/KirkDiggler/rpg-session/internal/repositories/session"
	"github.com/KirkDiggler/rpg-session/internal/snapshot"
)

func newDoctorCmd(c *cli) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored session document",
		Long: `doctor reads the stored session without starting it and reports whether
it decodes. With --fix a readable document is written back in the current
format, which upgrades exports saved before map editing existed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := c.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			key := c.cfg.StorageKey

			loaded, err := repo.Load(cmd.Context(), &sessionrepo.LoadInput{Key: key})
			switch {
			case errors.IsNotFound(err):
				fmt.Fprintf(out, "%s: nothing stored\n", key)
				return nil
			case errors.IsDataLoss(err):
				fmt.Fprintf(out, "%s: corrupt (%v)\n", key, err)
				fmt.Fprintln(out, "Run 'tracker import <file>' or 'tracker reset' to replace it.")
				return nil
			case err != nil:
				return err
			}

			s := loaded.Session
			fmt.Fprintf(out, "%s: ok, %q with %d characters, %d groups and %d obstacles\n",
				key, s.Name, len(s.Characters), len(s.Groups), len(s.BattleMap.Obstacles))

			if !fix {
				return nil
			}
			saved, err := repo.Save(cmd.Context(), &sessionrepo.SaveInput{
				Key:     key,
				Session: snapshot.Migrate(s),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Rewrote %s (%d bytes)\n", key, saved.Bytes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "write the document back in the current format")
	return cmd
}
