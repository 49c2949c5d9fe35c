package reducer

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

func (a AddGroup) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	g := a.Group
	g.ID = r.newID()

	next := s.Clone()
	next.Groups = append(next.Groups, g)
	return next
}

func (a UpdateGroup) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.GroupIndex(a.ID)
	if i < 0 {
		return s
	}

	next := s.Clone()
	a.Patch.ApplyTo(&next.Groups[i])
	return next
}

// Membership lives on the characters, so removing a group also strips it
// from everyone who belonged to it. Dangling memberships are cleaned up
// even when the group itself is already gone.
func (a RemoveGroup) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.GroupIndex(a.ID)
	referenced := false
	for _, c := range s.Characters {
		if c.InGroup(a.ID) {
			referenced = true
			break
		}
	}
	if i < 0 && !referenced {
		return s
	}

	next := s.Clone()
	if i >= 0 {
		next.Groups = append(next.Groups[:i], next.Groups[i+1:]...)
	}
	for j := range next.Characters {
		next.Characters[j].GroupIDs = without(next.Characters[j].GroupIDs, a.ID)
	}
	if next.Combat.CurrentGroupID == a.ID {
		next.Combat.CurrentGroupID = ""
	}
	return next
}

func (a AssignCharacterToGroup) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if s.GroupIndex(a.GroupID) < 0 {
		return s
	}
	return updateEach(s, []string{a.CharacterID}, func(c *entities.Character) bool {
		if c.InGroup(a.GroupID) {
			return false
		}
		c.GroupIDs = append(c.GroupIDs, a.GroupID)
		return true
	})
}

func (a RemoveCharacterFromGroup) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	return updateEach(s, []string{a.CharacterID}, func(c *entities.Character) bool {
		if !c.InGroup(a.GroupID) {
			return false
		}
		c.GroupIDs = without(c.GroupIDs, a.GroupID)
		return true
	})
}
