package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

func newMapCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Edit the battle map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.current(cmd)
			if err != nil {
				return err
			}
			printObstacles(cmd.OutOrStdout(), s)
			return nil
		},
	}

	withMap := func(use, short string, action reducer.Action) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out, err := c.dispatch(cmd, action)
				if err != nil {
					return err
				}
				printMap(cmd.OutOrStdout(), out.Session)
				return nil
			},
		}
	}

	cmd.AddCommand(
		newMapToolCmd(c),
		newMapClickCmd(c),
		newMapPlaceCmd(c),
		&cobra.Command{
			Use:   "remove <obstacle-id>",
			Short: "Delete an obstacle without recording it in the history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveObstacle{ID: args[0]})
				return err
			},
		},
		withMap("clear", "Remove every obstacle", reducer.ClearObstacles{}),
		withMap("undo", "Undo the last obstacle edit", reducer.Undo{}),
		withMap("redo", "Redo the last undone obstacle edit", reducer.Redo{}),
		newMapSettingsCmd(c),
		newMapZoomCmd(c),
		newTemplateCmd(c),
	)

	return cmd
}

func parseTool(value string) (entities.MapTool, error) {
	tool := entities.MapTool(value)
	if tool == entities.ToolSelect {
		return tool, nil
	}
	if _, ok := tool.ObstacleType(); !ok {
		names := []string{string(entities.ToolSelect)}
		for _, t := range entities.ObstacleTypes {
			names = append(names, string(t))
		}
		return "", errors.InvalidArgumentf("unknown tool %q, expected one of %s", value, strings.Join(names, ", "))
	}
	return tool, nil
}

func newMapToolCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tool <select|wall|pillar|difficult_terrain|cover|door>",
		Short: "Choose the tool cell clicks apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := parseTool(args[0])
			if err != nil {
				return err
			}
			_, err = c.dispatch(cmd, reducer.UpdateMapState{Patch: entities.MapStatePatch{SelectedTool: &tool}})
			return err
		},
	}
}

func newMapClickCmd(c *cli) *cobra.Command {
	var toolName string

	cmd := &cobra.Command{
		Use:   "click <x> <y>",
		Short: "Apply the selected tool to a cell: an occupied cell is cleared, an empty one gets an obstacle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}

			var actions []reducer.Action
			if toolName != "" {
				tool, err := parseTool(toolName)
				if err != nil {
					return err
				}
				actions = append(actions, reducer.UpdateMapState{Patch: entities.MapStatePatch{SelectedTool: &tool}})
			}
			actions = append(actions, reducer.ClickCell{Position: pos})

			out, err := c.dispatch(cmd, actions...)
			if err != nil {
				return err
			}
			printMap(cmd.OutOrStdout(), out.Session)
			return nil
		},
	}
	cmd.Flags().StringVar(&toolName, "tool", "", "select this tool first")

	return cmd
}

func newMapPlaceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "place <type> <x> <y>",
		Short: "Place an obstacle on an empty cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := parseTool(args[0])
			if err != nil {
				return err
			}
			if tool == entities.ToolSelect {
				return errors.InvalidArgument("select is not an obstacle type")
			}
			pos, err := parsePosition(args[1], args[2])
			if err != nil {
				return err
			}

			s, err := c.current(cmd)
			if err != nil {
				return err
			}
			if !s.BattleMap.MapSize.Contains(pos) {
				return errors.InvalidArgumentf("cell %d,%d is outside the %dx%d map", pos.X, pos.Y, s.BattleMap.MapSize.Width, s.BattleMap.MapSize.Height)
			}
			if s.BattleMap.ObstacleAt(pos) >= 0 {
				return errors.FailedPrecondition(fmt.Sprintf("cell %d,%d already has an obstacle", pos.X, pos.Y))
			}

			out, err := c.dispatch(cmd,
				reducer.UpdateMapState{Patch: entities.MapStatePatch{SelectedTool: &tool}},
				reducer.ClickCell{Position: pos},
			)
			if err != nil {
				return err
			}
			printMap(cmd.OutOrStdout(), out.Session)
			return nil
		},
	}
}

func newMapSettingsCmd(c *cli) *cobra.Command {
	var (
		name       string
		width      int
		height     int
		gridSize   int
		background string
		showGrid   bool
		showCoords bool
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change the map settings given as flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.current(cmd)
			if err != nil {
				return err
			}

			changed := cmd.Flags().Changed
			var patch entities.BattleMapPatch
			if changed("name") {
				patch.Name = &name
			}
			if changed("width") || changed("height") {
				size := s.BattleMap.MapSize
				if changed("width") {
					size.Width = width
				}
				if changed("height") {
					size.Height = height
				}
				if size.Width <= 0 || size.Height <= 0 {
					return errors.InvalidArgument("map width and height must be positive")
				}
				patch.MapSize = &size
			}
			if changed("grid-size") {
				patch.GridSize = &gridSize
			}
			if changed("background") {
				patch.BackgroundColor = &background
			}
			if changed("show-grid") {
				patch.ShowGrid = &showGrid
			}
			if changed("show-coordinates") {
				patch.ShowCoordinates = &showCoords
			}

			out, err := c.dispatch(cmd, reducer.UpdateBattleMap{Patch: patch})
			if err != nil {
				return err
			}
			printMap(cmd.OutOrStdout(), out.Session)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "map name")
	cmd.Flags().IntVar(&width, "width", 0, "width in cells")
	cmd.Flags().IntVar(&height, "height", 0, "height in cells")
	cmd.Flags().IntVar(&gridSize, "grid-size", 0, "cell size in pixels")
	cmd.Flags().StringVar(&background, "background", "", "background color")
	cmd.Flags().BoolVar(&showGrid, "show-grid", true, "draw grid lines")
	cmd.Flags().BoolVar(&showCoords, "show-coordinates", true, "draw cell coordinates")

	return cmd
}

func newMapZoomCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "zoom <scale>",
		Short: "Set the map zoom, clamped to 0.3 to 3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.InvalidArgumentf("scale must be a number, got %q", args[0])
			}

			out, err := c.dispatch(cmd, reducer.UpdateMapState{Patch: entities.MapStatePatch{Scale: &scale}})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Zoom %.2f\n", out.Session.MapState.Scale)
			return nil
		},
	}
}

func newTemplateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Save and load map templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.current(cmd)
			if err != nil {
				return err
			}
			printTemplates(cmd.OutOrStdout(), s)
			return nil
		},
	}

	var description string
	save := &cobra.Command{
		Use:   "save [name...]",
		Short: "Save the live map as a template",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.dispatch(cmd, reducer.SaveMapTemplate{
				Name:        strings.Join(args, " "),
				Description: description,
			})
			if err != nil {
				return err
			}
			saved := out.Session.MapTemplates[len(out.Session.MapTemplates)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	save.Flags().StringVar(&description, "description", "", "template description")

	cmd.AddCommand(
		save,
		&cobra.Command{
			Use:   "load <template-id>",
			Short: "Replace the live map with a template",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.dispatch(cmd, reducer.LoadMapTemplate{ID: args[0]})
				if err != nil {
					return err
				}
				printMap(cmd.OutOrStdout(), out.Session)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <template-id>",
			Short: "Delete a template",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := c.dispatch(cmd, reducer.RemoveMapTemplate{ID: args[0]})
				return err
			},
		},
	)

	return cmd
}
