package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/pkg/clock"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// printSession writes a readable summary of the whole session
func printSession(w io.Writer, s *entities.SessionData, now time.Time) {
	fmt.Fprintf(w, "%s (%s)\n", s.Name, s.ID)
	fmt.Fprintf(w, "Last updated %s\n", time.UnixMilli(s.LastUpdated).UTC().Format(time.RFC3339))

	printCombat(w, s, now)

	if len(s.Characters) == 0 {
		fmt.Fprintln(w, "No characters.")
	} else {
		printCharacters(w, s)
	}

	if len(s.Groups) > 0 {
		t := newTable("ID", "GROUP", "COLOR", "MEMBERS")
		for _, g := range s.Groups {
			t.Row(g.ID, g.Name, g.Color, strconv.Itoa(memberCount(s, g.ID)))
		}
		fmt.Fprintln(w, t.Render())
	}

	printMap(w, s)

	if s.Notes != "" {
		fmt.Fprintf(w, "Notes: %s\n", s.Notes)
	}
}

func printCharacters(w io.Writer, s *entities.SessionData) {
	current := ""
	if s.Combat.IsActive {
		current = s.Combat.CurrentParticipant()
	}

	t := newTable("", "ID", "NAME", "HP", "AC", "INIT", "CONDITIONS", "POSITION")
	for _, c := range s.Characters {
		marker := ""
		switch {
		case c.ID == current:
			marker = ">"
		case c.IsInCombat:
			marker = "*"
		}

		name := c.Name
		if c.IsPlayer && c.PlayerName != "" {
			name = fmt.Sprintf("%s [%s]", c.Name, c.PlayerName)
		}

		position := "-"
		if c.MapPosition != nil {
			position = fmt.Sprintf("%d,%d", c.MapPosition.X, c.MapPosition.Y)
		}

		t.Row(
			marker,
			c.ID,
			name,
			fmt.Sprintf("%d/%d", c.CurrentHP, c.MaxHP),
			strconv.Itoa(c.ArmorClass),
			strconv.Itoa(c.Initiative),
			strings.Join(c.Conditions, ", "),
			position,
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printCombat(w io.Writer, s *entities.SessionData, now time.Time) {
	if !s.Combat.IsActive {
		fmt.Fprintln(w, "Combat: not active")
		return
	}

	name := s.Combat.CurrentParticipant()
	if c, ok := s.Character(name); ok {
		name = c.Name
	}
	fmt.Fprintf(w, "Combat: round %d, turn %d of %d (%s)",
		s.Combat.Round, s.Combat.CurrentTurn+1, len(s.Combat.Participants), name)

	if limit := s.Combat.TurnTimeLimit; limit != nil {
		left := clock.Remaining(now, s.Combat.TurnStartTime, time.Duration(*limit)*time.Second)
		if left == 0 {
			fmt.Fprint(w, ", time is up")
		} else {
			fmt.Fprintf(w, ", %s left", left.Truncate(time.Second))
		}
	}
	fmt.Fprintln(w)
}

func printMap(w io.Writer, s *entities.SessionData) {
	m := s.BattleMap
	fmt.Fprintf(w, "Map: %s %dx%d, %d obstacles", m.Name, m.MapSize.Width, m.MapSize.Height, len(m.Obstacles))
	if s.MapState != nil {
		fmt.Fprintf(w, ", tool %s, history %d/%d", s.MapState.SelectedTool, s.MapState.HistoryIndex+1, len(s.MapState.History))
	}
	fmt.Fprintln(w)
}

func printObstacles(w io.Writer, s *entities.SessionData) {
	printMap(w, s)
	if len(s.BattleMap.Obstacles) == 0 {
		return
	}

	t := newTable("ID", "TYPE", "POSITION")
	for _, o := range s.BattleMap.Obstacles {
		t.Row(o.ID, string(o.Type), fmt.Sprintf("%d,%d", o.Position.X, o.Position.Y))
	}
	fmt.Fprintln(w, t.Render())
}

func printTemplates(w io.Writer, s *entities.SessionData) {
	if len(s.MapTemplates) == 0 {
		fmt.Fprintln(w, "No map templates.")
		return
	}

	t := newTable("ID", "NAME", "SIZE", "OBSTACLES", "DESCRIPTION")
	for _, tpl := range s.MapTemplates {
		t.Row(
			tpl.ID,
			tpl.Name,
			fmt.Sprintf("%dx%d", tpl.BattleMap.MapSize.Width, tpl.BattleMap.MapSize.Height),
			strconv.Itoa(len(tpl.BattleMap.Obstacles)),
			tpl.Description,
		)
	}
	fmt.Fprintln(w, t.Render())
}

func memberCount(s *entities.SessionData, groupID string) int {
	n := 0
	for _, c := range s.Characters {
		if c.InGroup(groupID) {
			n++
		}
	}
	return n
}
