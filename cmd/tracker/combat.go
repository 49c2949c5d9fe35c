package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/orchestrators/initiative"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

func newCombatCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combat",
		Short: "Run the combat turn order",
	}

	simple := func(use, short string, action reducer.Action) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out, err := c.dispatch(cmd, action)
				if err != nil {
					return err
				}
				printCombat(cmd.OutOrStdout(), out.Session, c.clock.Now())
				return nil
			},
		}
	}

	cmd.AddCommand(
		newCombatStartCmd(c),
		simple("end", "End combat and clear the turn order", reducer.EndCombat{}),
		simple("next", "Advance to the next turn", reducer.NextTurn{}),
		simple("prev", "Step back to the previous turn", reducer.PreviousTurn{}),
		simple("sort", "Reorder participants by initiative", reducer.SortByInitiative{}),
		&cobra.Command{
			Use:   "add <id...>",
			Short: "Add characters to the end of the turn order",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.AddToCombat{IDs: args})
				return err
			},
		},
		&cobra.Command{
			Use:   "remove <id...>",
			Short: "Drop characters from the turn order",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveFromCombat{IDs: args})
				return err
			},
		},
		newCombatRollCmd(c),
		newCombatTimerCmd(c),
	)

	return cmd
}

func newCombatStartCmd(c *cli) *cobra.Command {
	var useGroups bool

	cmd := &cobra.Command{
		Use:   "start [id...]",
		Short: "Start combat with the given characters, or everyone",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				s, err := c.current(cmd)
				if err != nil {
					return err
				}
				for _, ch := range s.Characters {
					ids = append(ids, ch.ID)
				}
			}

			out, err := c.dispatch(cmd, reducer.StartCombat{ParticipantIDs: ids, UseGroupInitiative: useGroups})
			if err != nil {
				return err
			}
			printCombat(cmd.OutOrStdout(), out.Session, c.clock.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&useGroups, "group-initiative", false, "take turns by group")

	return cmd
}

func newCombatRollCmd(c *cli) *cobra.Command {
	var (
		modifiers []string
		sortAfter bool
	)

	cmd := &cobra.Command{
		Use:   "roll [id...]",
		Short: "Roll d20 initiative",
		Long: `Roll d20 initiative for the given characters. Without ids the combat
participants roll, or the whole roster when combat is not active.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := parseModifiers(modifiers)
			if err != nil {
				return err
			}

			s, err := c.current(cmd)
			if err != nil {
				return err
			}

			roller, err := c.initiativeService()
			if err != nil {
				return err
			}

			rolled, err := roller.Roll(cmd.Context(), &initiative.RollInput{
				Session:      s,
				CharacterIDs: args,
				Modifiers:    mods,
				Sort:         sortAfter,
			})
			if err != nil {
				return err
			}
			if len(rolled.Actions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nobody to roll for.")
				return nil
			}

			if _, err := c.dispatch(cmd, rolled.Actions...); err != nil {
				return err
			}
			for _, r := range rolled.Results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d (%d%+d)\n", r.Name, r.Total, r.Roll, r.Modifier)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&modifiers, "mod", nil, "initiative modifier as id=n, repeatable")
	cmd.Flags().BoolVar(&sortAfter, "sort", true, "sort the turn order after rolling")

	return cmd
}

func newCombatTimerCmd(c *cli) *cobra.Command {
	var clearLimit bool

	cmd := &cobra.Command{
		Use:   "timer [seconds]",
		Short: "Set or clear the per-turn time limit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch entities.CombatPatch
			switch {
			case clearLimit:
				patch.ClearTurnTimeLimit = true
			case len(args) == 1:
				seconds, err := parseInt("seconds", args[0])
				if err != nil {
					return err
				}
				if seconds <= 0 {
					return errors.InvalidArgument("seconds must be positive")
				}
				patch.TurnTimeLimit = &seconds
			default:
				return errors.InvalidArgument("give a number of seconds or --clear")
			}

			_, err := c.dispatch(cmd, reducer.UpdateCombat{Patch: patch})
			return err
		},
	}
	cmd.Flags().BoolVar(&clearLimit, "clear", false, "remove the time limit")

	return cmd
}

// parseModifiers reads id=n pairs
func parseModifiers(pairs []string) (map[string]int, error) {
	mods := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, errors.InvalidArgumentf("modifier %q must look like id=n", pair)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.InvalidArgumentf("modifier %q must look like id=n", pair)
		}
		mods[id] = n
	}
	return mods, nil
}
