package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

type characterFlags struct {
	name       string
	playerName string
	isPlayer   bool
	maxHP      int
	currentHP  int
	armorClass int
	initiative int
	notes      string
	conditions []string
}

func (f *characterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "character name")
	cmd.Flags().StringVar(&f.playerName, "player-name", "", "name of the player controlling the character")
	cmd.Flags().BoolVar(&f.isPlayer, "player", false, "mark as a player character")
	cmd.Flags().IntVar(&f.maxHP, "hp", 10, "maximum hit points")
	cmd.Flags().IntVar(&f.currentHP, "current-hp", 0, "current hit points (defaults to --hp)")
	cmd.Flags().IntVar(&f.armorClass, "ac", 10, "armor class")
	cmd.Flags().IntVar(&f.initiative, "init", 0, "initiative")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free text notes")
	cmd.Flags().StringSliceVar(&f.conditions, "conditions", nil, "comma separated conditions")
}

// patch builds a patch from the flags the user actually set
func (f *characterFlags) patch(cmd *cobra.Command) entities.CharacterPatch {
	changed := cmd.Flags().Changed
	var p entities.CharacterPatch
	if changed("name") {
		p.Name = &f.name
	}
	if changed("player-name") {
		p.PlayerName = &f.playerName
	}
	if changed("player") {
		p.IsPlayer = &f.isPlayer
	}
	if changed("hp") {
		p.MaxHP = &f.maxHP
	}
	if changed("current-hp") {
		p.CurrentHP = &f.currentHP
	}
	if changed("ac") {
		p.ArmorClass = &f.armorClass
	}
	if changed("init") {
		p.Initiative = &f.initiative
	}
	if changed("notes") {
		p.Notes = &f.notes
	}
	if changed("conditions") {
		p.Conditions = append([]string{}, f.conditions...)
	}
	return p
}

func newCharacterCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Manage the character roster",
	}

	cmd.AddCommand(
		newCharacterAddCmd(c),
		newCharacterUpdateCmd(c),
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a character from the roster and the turn order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveCharacter{ID: args[0]})
				return err
			},
		},
		&cobra.Command{
			Use:   "clone <id>",
			Short: "Copy a character at full HP",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.dispatch(cmd, reducer.CloneCharacter{ID: args[0]})
				if err != nil || !out.Changed {
					return err
				}
				printAdded(cmd, out.Session)
				return nil
			},
		},
		newHPCmd(c, "damage", "Damage characters, stopping at 0 HP", func(ids []string, amount int) reducer.Action {
			return reducer.ApplyDamage{IDs: ids, Amount: amount}
		}),
		newHPCmd(c, "heal", "Heal characters, stopping at max HP", func(ids []string, amount int) reducer.Action {
			return reducer.Heal{IDs: ids, Amount: amount}
		}),
		newConditionCmd(c),
		newMoveCmd(c),
		newSpellSlotCmd(c),
	)

	return cmd
}

func newCharacterAddCmd(c *cli) *cobra.Command {
	f := &characterFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			currentHP := f.maxHP
			if cmd.Flags().Changed("current-hp") {
				currentHP = f.currentHP
			}

			out, err := c.dispatch(cmd, reducer.AddCharacter{Character: entities.Character{
				Name:       f.name,
				PlayerName: f.playerName,
				IsPlayer:   f.isPlayer,
				MaxHP:      f.maxHP,
				CurrentHP:  currentHP,
				ArmorClass: f.armorClass,
				Initiative: f.initiative,
				Notes:      f.notes,
				Conditions: append([]string{}, f.conditions...),
				GroupIDs:   []string{},
			}})
			if err != nil {
				return err
			}
			printAdded(cmd, out.Session)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCharacterUpdateCmd(c *cli) *cobra.Command {
	f := &characterFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.dispatch(cmd, reducer.UpdateCharacter{ID: args[0], Patch: f.patch(cmd)})
			return err
		},
	}
	f.register(cmd)

	return cmd
}

func newHPCmd(c *cli, use, short string, build func(ids []string, amount int) reducer.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <amount> <id...>",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseInt("amount", args[0])
			if err != nil {
				return err
			}

			out, err := c.dispatch(cmd, build(args[1:], amount))
			if err != nil {
				return err
			}
			for _, id := range args[1:] {
				if ch, ok := out.Session.Character(id); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d HP\n", ch.Name, ch.CurrentHP, ch.MaxHP)
				}
			}
			return nil
		},
	}
}

func newConditionCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "condition",
		Short: "Add or remove a condition",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <condition> <id...>",
			Short: "Add a condition to characters",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.AddCondition{IDs: args[1:], Condition: args[0]})
				return err
			},
		},
		&cobra.Command{
			Use:   "remove <condition> <id...>",
			Short: "Remove a condition from characters",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveCondition{IDs: args[1:], Condition: args[0]})
				return err
			},
		},
	)

	return cmd
}

func newMoveCmd(c *cli) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "move <id> [x y]",
		Short: "Place a character token on the map",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if off {
				_, err := c.dispatch(cmd, reducer.UpdateCharacterPosition{ID: args[0]})
				return err
			}
			if len(args) != 3 {
				return errors.InvalidArgument("x and y are required unless --off is set")
			}

			pos, err := parsePosition(args[1], args[2])
			if err != nil {
				return err
			}
			_, err = c.dispatch(cmd, reducer.UpdateCharacterPosition{ID: args[0], Position: &pos})
			return err
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "take the token off the map")

	return cmd
}

func newSpellSlotCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Track spell slots",
	}

	slotAction := func(use, short string, build func(id string, level int) reducer.Action) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id> <level>",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := parseInt("level", args[1])
				if err != nil {
					return err
				}
				out, err := c.dispatch(cmd, build(args[0], level))
				if err != nil {
					return err
				}
				printSlot(cmd, out.Session, args[0], level)
				return nil
			},
		}
	}

	cmd.AddCommand(
		slotAction("use", "Spend a spell slot", func(id string, level int) reducer.Action {
			return reducer.UseSpellSlot{ID: id, Level: level}
		}),
		slotAction("restore", "Regain a spell slot", func(id string, level int) reducer.Action {
			return reducer.RestoreSpellSlot{ID: id, Level: level}
		}),
		&cobra.Command{
			Use:   "max <id> <level> <max>",
			Short: "Set how many slots of a level a character has",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := parseInt("level", args[1])
				if err != nil {
					return err
				}
				slotMax, err := parseInt("max", args[2])
				if err != nil {
					return err
				}
				out, err := c.dispatch(cmd, reducer.SetSpellSlotMax{ID: args[0], Level: level, Max: slotMax})
				if err != nil {
					return err
				}
				printSlot(cmd, out.Session, args[0], level)
				return nil
			},
		},
	)

	return cmd
}

func printAdded(cmd *cobra.Command, s *entities.SessionData) {
	if len(s.Characters) == 0 {
		return
	}
	added := s.Characters[len(s.Characters)-1]
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", added.Name, added.ID)
}

func printSlot(cmd *cobra.Command, s *entities.SessionData, id string, level int) {
	ch, ok := s.Character(id)
	if !ok || ch.SpellSlots == nil {
		return
	}
	if slot := ch.SpellSlots.At(level); slot != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s level %d slots: %d/%d\n", ch.Name, level, slot.Current, slot.Max)
	}
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be a whole number, got %q", name, value)
	}
	return n, nil
}

func parsePosition(x, y string) (entities.Position, error) {
	px, err := parseInt("x", x)
	if err != nil {
		return entities.Position{}, err
	}
	py, err := parseInt("y", y)
	if err != nil {
		return entities.Position{}, err
	}
	return entities.Position{X: px, Y: py}, nil
}
