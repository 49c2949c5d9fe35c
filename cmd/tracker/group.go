package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

// defaultGroupColor matches the first swatch of the browser tracker
const defaultGroupColor = "#3b82f6"

func newGroupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage character groups",
	}

	cmd.AddCommand(
		newGroupAddCmd(c),
		newGroupUpdateCmd(c),
		&cobra.Command{
			Use:   "remove <group-id>",
			Short: "Delete a group and every membership in it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveGroup{ID: args[0]})
				return err
			},
		},
		&cobra.Command{
			Use:   "assign <character-id> <group-id>",
			Short: "Add a character to a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.AssignCharacterToGroup{CharacterID: args[0], GroupID: args[1]})
				return err
			},
		},
		&cobra.Command{
			Use:   "unassign <character-id> <group-id>",
			Short: "Remove a character from a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveCharacterFromGroup{CharacterID: args[0], GroupID: args[1]})
				return err
			},
		},
	)

	return cmd
}

func newGroupAddCmd(c *cli) *cobra.Command {
	var group entities.CharacterGroup

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.dispatch(cmd, reducer.AddGroup{Group: group})
			if err != nil {
				return err
			}
			added := out.Session.Groups[len(out.Session.Groups)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Added group %s (%s)\n", added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&group.Name, "name", "", "group name")
	cmd.Flags().StringVar(&group.Color, "color", defaultGroupColor, "display color")
	cmd.Flags().StringVar(&group.Description, "description", "", "description")
	cmd.Flags().BoolVar(&group.IsActive, "active", true, "whether the group is active")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGroupUpdateCmd(c *cli) *cobra.Command {
	var group entities.CharacterGroup

	cmd := &cobra.Command{
		Use:   "update <group-id>",
		Short: "Change the group fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			var patch entities.GroupPatch
			if changed("name") {
				patch.Name = &group.Name
			}
			if changed("color") {
				patch.Color = &group.Color
			}
			if changed("description") {
				patch.Description = &group.Description
			}
			if changed("active") {
				patch.IsActive = &group.IsActive
			}

			_, err := c.dispatch(cmd, reducer.UpdateGroup{ID: args[0], Patch: patch})
			return err
		},
	}
	cmd.Flags().StringVar(&group.Name, "name", "", "group name")
	cmd.Flags().StringVar(&group.Color, "color", "", "display color")
	cmd.Flags().StringVar(&group.Description, "description", "", "description")
	cmd.Flags().BoolVar(&group.IsActive, "active", true, "whether the group is active")

	return cmd
}
