// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	character entities.Character
}

// NewCharacterBuilder creates a new builder with minimal defaults
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		character: entities.Character{
			ID:         "char-test-123",
			Name:       "Test Character",
			Initiative: 10,
			MaxHP:      20,
			CurrentHP:  20,
			ArmorClass: 12,
			Conditions: []string{},
			GroupIDs:   []string{},
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithPlayer marks the character as a player character
func (b *CharacterBuilder) WithPlayer(playerName string) *CharacterBuilder {
	b.character.IsPlayer = true
	b.character.PlayerName = playerName
	return b
}

// WithInitiative sets the initiative
func (b *CharacterBuilder) WithInitiative(initiative int) *CharacterBuilder {
	b.character.Initiative = initiative
	return b
}

// WithHP sets current and max HP
func (b *CharacterBuilder) WithHP(current, maxHP int) *CharacterBuilder {
	b.character.CurrentHP = current
	b.character.MaxHP = maxHP
	return b
}

// WithConditions sets the conditions
func (b *CharacterBuilder) WithConditions(conditions ...string) *CharacterBuilder {
	b.character.Conditions = conditions
	return b
}

// WithGroups sets the group memberships
func (b *CharacterBuilder) WithGroups(groupIDs ...string) *CharacterBuilder {
	b.character.GroupIDs = groupIDs
	return b
}

// WithPosition places the character on the map
func (b *CharacterBuilder) WithPosition(x, y int) *CharacterBuilder {
	b.character.MapPosition = &entities.Position{X: x, Y: y}
	return b
}

// InCombat flags the character as in combat
func (b *CharacterBuilder) InCombat() *CharacterBuilder {
	b.character.IsInCombat = true
	return b
}

// WithSpellSlot sets one spell slot level
func (b *CharacterBuilder) WithSpellSlot(level, current, maxSlots int) *CharacterBuilder {
	if b.character.SpellSlots == nil {
		b.character.SpellSlots = &entities.SpellSlots{}
	}
	if slot := b.character.SpellSlots.At(level); slot != nil {
		*slot = entities.SpellSlot{Current: current, Max: maxSlots}
	}
	return b
}

// Build returns the constructed Character
func (b *CharacterBuilder) Build() entities.Character {
	return b.character.Clone()
}

// SessionBuilder provides a fluent interface for building test SessionData instances
type SessionBuilder struct {
	session *entities.SessionData
}

// NewSessionBuilder creates a builder over a default session
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		session: entities.NewSession("session-test-123", "map-test-123", 1700000000000),
	}
}

// WithName sets the session name
func (b *SessionBuilder) WithName(name string) *SessionBuilder {
	b.session.Name = name
	return b
}

// WithCharacters appends characters to the roster
func (b *SessionBuilder) WithCharacters(characters ...entities.Character) *SessionBuilder {
	b.session.Characters = append(b.session.Characters, characters...)
	return b
}

// WithGroups appends groups
func (b *SessionBuilder) WithGroups(groups ...entities.CharacterGroup) *SessionBuilder {
	b.session.Groups = append(b.session.Groups, groups...)
	return b
}

// WithObstacles appends obstacles to the live map
func (b *SessionBuilder) WithObstacles(obstacles ...entities.MapObstacle) *SessionBuilder {
	b.session.BattleMap.Obstacles = append(b.session.BattleMap.Obstacles, obstacles...)
	return b
}

// WithCombat sets an active combat with the given turn order. Participants
// are flagged in combat.
func (b *SessionBuilder) WithCombat(currentTurn, round int, participants ...string) *SessionBuilder {
	b.session.Combat.IsActive = true
	b.session.Combat.CurrentTurn = currentTurn
	b.session.Combat.Round = round
	b.session.Combat.Participants = participants
	for i := range b.session.Characters {
		for _, id := range participants {
			if b.session.Characters[i].ID == id {
				b.session.Characters[i].IsInCombat = true
			}
		}
	}
	return b
}

// WithTool selects a map tool
func (b *SessionBuilder) WithTool(tool entities.MapTool) *SessionBuilder {
	b.session.MapState.SelectedTool = tool
	return b
}

// WithoutMapState drops the map state, as in snapshots written before it existed
func (b *SessionBuilder) WithoutMapState() *SessionBuilder {
	b.session.MapState = nil
	return b
}

// WithNotes sets the session notes
func (b *SessionBuilder) WithNotes(notes string) *SessionBuilder {
	b.session.Notes = notes
	return b
}

// Build returns the constructed SessionData
func (b *SessionBuilder) Build() *entities.SessionData {
	return b.session.Clone()
}
