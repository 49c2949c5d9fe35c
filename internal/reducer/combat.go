package reducer

import (
	"slices"

	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// byInitiative orders characters by initiative, highest first. The sort is
// stable so ties keep their roster order.
func byInitiative(chars []entities.Character) []string {
	sorted := slices.Clone(chars)
	slices.SortStableFunc(sorted, func(a, b entities.Character) int {
		return b.Initiative - a.Initiative
	})

	ids := make([]string, len(sorted))
	for i := range sorted {
		ids[i] = sorted[i].ID
	}
	return ids
}

// StartCombat restarts from round 1 even when combat is already running.
// Characters that were not selected are taken out of combat.
func (a StartCombat) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	next := s.Clone()

	selected := make([]entities.Character, 0, len(a.ParticipantIDs))
	for i := range next.Characters {
		c := &next.Characters[i]
		c.IsInCombat = slices.Contains(a.ParticipantIDs, c.ID)
		if c.IsInCombat {
			selected = append(selected, *c)
		}
	}

	next.Combat.IsActive = true
	next.Combat.CurrentTurn = 0
	next.Combat.TurnStartTime = r.now()
	next.Combat.Round = 1
	next.Combat.Participants = byInitiative(selected)
	next.Combat.UseGroupInitiative = a.UseGroupInitiative
	return next
}

// EndCombat leaves the round counter and the group initiative flag as they
// were.
func (EndCombat) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	inCombat := false
	for _, c := range s.Characters {
		if c.IsInCombat {
			inCombat = true
			break
		}
	}
	combat := s.Combat
	if !inCombat && !combat.IsActive && len(combat.Participants) == 0 &&
		combat.CurrentTurn == 0 && combat.TurnStartTime == 0 {
		return s
	}

	next := s.Clone()
	for i := range next.Characters {
		next.Characters[i].IsInCombat = false
	}
	next.Combat.IsActive = false
	next.Combat.CurrentTurn = 0
	next.Combat.TurnStartTime = 0
	next.Combat.Participants = []string{}
	return next
}

// NextTurn wraps to the first participant and starts a new round. With no
// participants there is no turn to advance.
func (NextTurn) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	n := len(s.Combat.Participants)
	if n == 0 {
		return s
	}

	next := s.Clone()
	turn := (wrapIndex(s.Combat.CurrentTurn, n) + 1) % n
	if turn == 0 {
		next.Combat.Round++
	}
	next.Combat.CurrentTurn = turn
	next.Combat.TurnStartTime = r.now()
	return next
}

// PreviousTurn wraps to the last participant, stepping the round back
// unless it is already 1.
func (PreviousTurn) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	n := len(s.Combat.Participants)
	if n == 0 {
		return s
	}

	next := s.Clone()
	current := wrapIndex(s.Combat.CurrentTurn, n)
	if current == 0 && s.Combat.Round > 1 {
		next.Combat.Round--
	}
	next.Combat.CurrentTurn = (current - 1 + n) % n
	next.Combat.TurnStartTime = r.now()
	return next
}

func (a UpdateCombat) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	next := s.Clone()
	a.Patch.ApplyTo(&next.Combat)
	return next
}

// AddToCombat only admits characters that exist, so every participant has
// a roster entry flagged in combat.
func (a AddToCombat) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	var added []string
	flag := false
	for _, id := range dedupe(a.IDs) {
		c, ok := s.Character(id)
		if !ok {
			continue
		}
		if !slices.Contains(s.Combat.Participants, id) {
			added = append(added, id)
		}
		if !c.IsInCombat {
			flag = true
		}
	}
	if len(added) == 0 && !flag {
		return s
	}

	next := s.Clone()
	next.Combat.Participants = append(next.Combat.Participants, added...)
	for i := range next.Characters {
		if slices.Contains(a.IDs, next.Characters[i].ID) {
			next.Characters[i].IsInCombat = true
		}
	}
	return next
}

// RemoveFromCombat leaves the current turn index alone; see RepairTurn.
func (a RemoveFromCombat) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	changed := false
	for _, id := range a.IDs {
		if slices.Contains(s.Combat.Participants, id) {
			changed = true
			break
		}
		if c, ok := s.Character(id); ok && c.IsInCombat {
			changed = true
			break
		}
	}
	if !changed {
		return s
	}

	next := s.Clone()
	participants := make([]string, 0, len(next.Combat.Participants))
	for _, id := range next.Combat.Participants {
		if !slices.Contains(a.IDs, id) {
			participants = append(participants, id)
		}
	}
	next.Combat.Participants = participants
	for i := range next.Characters {
		if slices.Contains(a.IDs, next.Characters[i].ID) {
			next.Characters[i].IsInCombat = false
		}
	}
	return next
}

// SortByInitiative keeps CurrentTurn as an index, so the participant whose
// turn it is can change. Participants without a roster entry are dropped.
func (SortByInitiative) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	chars := make([]entities.Character, 0, len(s.Combat.Participants))
	for _, id := range s.Combat.Participants {
		if c, ok := s.Character(id); ok {
			chars = append(chars, c)
		}
	}

	sorted := byInitiative(chars)
	if slices.Equal(sorted, s.Combat.Participants) {
		return s
	}

	next := s.Clone()
	next.Combat.Participants = sorted
	return next
}

func (a RepairTurn) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	n := len(s.Combat.Participants)
	turn := 0
	if n > 0 {
		turn = clamp(s.Combat.CurrentTurn, 0, n-1)
		if a.PreviousCurrentID != "" {
			if i := slices.Index(s.Combat.Participants, a.PreviousCurrentID); i >= 0 {
				turn = i
			}
		}
	}
	if turn == s.Combat.CurrentTurn {
		return s
	}

	next := s.Clone()
	next.Combat.CurrentTurn = turn
	return next
}

// wrapIndex maps any index onto [0, n)
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
