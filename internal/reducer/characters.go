package reducer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-session/internal/entities"
)

var copySuffixRegex = regexp.MustCompile(`^(.+?)\s*\(Copy(?:\s*(\d+))?\)$`)

// cloneName derives the name of a cloned character: "Bob" becomes
// "Bob (Copy)", "Bob (Copy)" becomes "Bob (Copy 2)" and "Bob (Copy 2)"
// becomes "Bob (Copy 3)".
func cloneName(name string) string {
	matches := copySuffixRegex.FindStringSubmatch(name)
	if matches == nil {
		return name + " (Copy)"
	}

	n := 1
	if matches[2] != "" {
		if parsed, err := strconv.Atoi(matches[2]); err == nil {
			n = parsed
		}
	}
	return fmt.Sprintf("%s (Copy %d)", strings.TrimSpace(matches[1]), n+1)
}

// clampCharacter pulls HP and spell slots back into range. Callers are
// expected to send valid values; this keeps a bad patch from persisting
// an impossible character.
func clampCharacter(c *entities.Character) {
	if c.MaxHP < 1 {
		c.MaxHP = 1
	}
	c.CurrentHP = clamp(c.CurrentHP, 0, c.MaxHP)
	if c.SpellSlots != nil {
		for level := 1; level <= entities.SpellSlotLevels; level++ {
			slot := c.SpellSlots.At(level)
			if slot.Max < 0 {
				slot.Max = 0
			}
			slot.Current = clamp(slot.Current, 0, slot.Max)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a AddCharacter) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	c := a.Character.Clone()
	c.ID = r.newID()
	c.GroupIDs = []string{}
	c.IsInCombat = false
	c.Conditions = dedupe(c.Conditions)
	clampCharacter(&c)

	next := s.Clone()
	next.Characters = append(next.Characters, c)
	return next
}

func (a UpdateCharacter) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.CharacterIndex(a.ID)
	if i < 0 {
		return s
	}

	next := s.Clone()
	a.Patch.ApplyTo(&next.Characters[i])
	clampCharacter(&next.Characters[i])
	return next
}

// Removing a participant does not move the current turn index; RepairTurn
// is the separate step that does.
func (a RemoveCharacter) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.CharacterIndex(a.ID)
	if i < 0 {
		return s
	}

	next := s.Clone()
	next.Characters = append(next.Characters[:i], next.Characters[i+1:]...)
	next.Combat.Participants = without(next.Combat.Participants, a.ID)
	return next
}

func (a CloneCharacter) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	original, ok := s.Character(a.ID)
	if !ok {
		return s
	}

	c := original.Clone()
	c.ID = r.newID()
	c.Name = cloneName(original.Name)
	c.CurrentHP = c.MaxHP
	c.Conditions = []string{}
	c.IsInCombat = false
	c.MapPosition = nil

	next := s.Clone()
	next.Characters = append(next.Characters, c)
	return next
}

func (a ApplyDamage) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if a.Amount <= 0 {
		return s
	}
	return updateEach(s, a.IDs, func(c *entities.Character) bool {
		hp := max(0, c.CurrentHP-a.Amount)
		if hp == c.CurrentHP {
			return false
		}
		c.CurrentHP = hp
		return true
	})
}

func (a Heal) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if a.Amount <= 0 {
		return s
	}
	return updateEach(s, a.IDs, func(c *entities.Character) bool {
		hp := min(c.MaxHP, c.CurrentHP+a.Amount)
		if hp == c.CurrentHP {
			return false
		}
		c.CurrentHP = hp
		return true
	})
}

func (a AddCondition) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if a.Condition == "" {
		return s
	}
	return updateEach(s, a.IDs, func(c *entities.Character) bool {
		if c.HasCondition(a.Condition) {
			return false
		}
		c.Conditions = append(c.Conditions, a.Condition)
		return true
	})
}

func (a RemoveCondition) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	return updateEach(s, a.IDs, func(c *entities.Character) bool {
		if !c.HasCondition(a.Condition) {
			return false
		}
		c.Conditions = without(c.Conditions, a.Condition)
		return true
	})
}

func (a UseSpellSlot) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	return updateSpellSlot(s, a.ID, a.Level, func(slot *entities.SpellSlot) {
		slot.Current = clamp(slot.Current-1, 0, slot.Max)
	})
}

func (a RestoreSpellSlot) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	return updateSpellSlot(s, a.ID, a.Level, func(slot *entities.SpellSlot) {
		slot.Current = clamp(slot.Current+1, 0, slot.Max)
	})
}

// Raising the maximum leaves current alone; lowering it pulls current down
// with it.
func (a SetSpellSlotMax) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	return updateSpellSlot(s, a.ID, a.Level, func(slot *entities.SpellSlot) {
		slot.Max = max(0, a.Max)
		slot.Current = clamp(slot.Current, 0, slot.Max)
	})
}

func (a UpdateCharacterPosition) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.CharacterIndex(a.ID)
	if i < 0 {
		return s
	}

	current := s.Characters[i].MapPosition
	switch {
	case a.Position == nil && current == nil:
		return s
	case a.Position != nil && current != nil && *a.Position == *current:
		return s
	}

	next := s.Clone()
	if a.Position == nil {
		next.Characters[i].MapPosition = nil
	} else {
		pos := *a.Position
		next.Characters[i].MapPosition = &pos
	}
	return next
}

// updateEach runs fn over a copy of every listed character that exists.
// fn reports whether it changed anything; if nothing changed the input
// snapshot is returned.
func updateEach(s *entities.SessionData, ids []string, fn func(c *entities.Character) bool) *entities.SessionData {
	var next *entities.SessionData
	for _, id := range dedupe(ids) {
		i := s.CharacterIndex(id)
		if i < 0 {
			continue
		}
		c := s.Characters[i].Clone()
		if !fn(&c) {
			continue
		}
		if next == nil {
			next = s.Clone()
		}
		next.Characters[i] = c
	}
	if next == nil {
		return s
	}
	return next
}

// updateSpellSlot edits one slot level of one character. Characters
// without slot tracking get it on first use.
func updateSpellSlot(s *entities.SessionData, id string, level int, fn func(slot *entities.SpellSlot)) *entities.SessionData {
	if level < 1 || level > entities.SpellSlotLevels {
		return s
	}
	return updateEach(s, []string{id}, func(c *entities.Character) bool {
		if c.SpellSlots == nil {
			c.SpellSlots = &entities.SpellSlots{}
		}
		slot := c.SpellSlots.At(level)
		before := *slot
		fn(slot)
		return *slot != before
	})
}

func without(values []string, drop string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
