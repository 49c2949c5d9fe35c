package entities

// Deep copies. Snapshots are copy-on-write: a transition copies what it
// touches and never writes through to a published snapshot.

// Clone returns a deep copy of the character
func (c Character) Clone() Character {
	out := c
	out.Conditions = cloneStrings(c.Conditions)
	out.GroupIDs = cloneStrings(c.GroupIDs)
	if c.MapPosition != nil {
		p := *c.MapPosition
		out.MapPosition = &p
	}
	if c.SpellSlots != nil {
		slots := *c.SpellSlots
		out.SpellSlots = &slots
	}
	return out
}

// Clone returns a deep copy of the battle map
func (m BattleMap) Clone() BattleMap {
	out := m
	out.Obstacles = append([]MapObstacle{}, m.Obstacles...)
	return out
}

// Clone returns a deep copy of the template
func (t MapTemplate) Clone() MapTemplate {
	out := t
	out.BattleMap = t.BattleMap.Clone()
	return out
}

// Clone returns a deep copy of the combat state
func (c CombatState) Clone() CombatState {
	out := c
	out.Participants = cloneStrings(c.Participants)
	if c.TurnTimeLimit != nil {
		limit := *c.TurnTimeLimit
		out.TurnTimeLimit = &limit
	}
	return out
}

// Clone returns a deep copy of the map state
func (m MapState) Clone() MapState {
	out := m
	out.History = append([]ObstacleAction{}, m.History...)
	return out
}

// Clone returns a deep copy of the whole session
func (s *SessionData) Clone() *SessionData {
	if s == nil {
		return nil
	}

	out := *s
	out.Characters = make([]Character, len(s.Characters))
	for i := range s.Characters {
		out.Characters[i] = s.Characters[i].Clone()
	}
	out.Groups = append([]CharacterGroup{}, s.Groups...)
	out.BattleMap = s.BattleMap.Clone()
	out.MapTemplates = make([]MapTemplate, len(s.MapTemplates))
	for i := range s.MapTemplates {
		out.MapTemplates[i] = s.MapTemplates[i].Clone()
	}
	out.Combat = s.Combat.Clone()
	if s.MapState != nil {
		ms := s.MapState.Clone()
		out.MapState = &ms
	}
	return &out
}

func cloneStrings(values []string) []string {
	return append([]string{}, values...)
}
