package entities

// Patches list exactly the fields an update may touch. A nil field is left
// unchanged. Fields that the session keeps consistent itself (character
// group membership and combat flag, combat participants, the edit history)
// are not patchable.

// CharacterPatch is a partial update of a character. A non-nil empty
// Conditions slice clears the conditions.
type CharacterPatch struct {
	Name             *string     `json:"name,omitempty"`
	PlayerName       *string     `json:"playerName,omitempty"`
	Initiative       *int        `json:"initiative,omitempty"`
	MaxHP            *int        `json:"maxHp,omitempty"`
	CurrentHP        *int        `json:"currentHp,omitempty"`
	ArmorClass       *int        `json:"armorClass,omitempty"`
	Conditions       []string    `json:"conditions,omitempty"`
	Notes            *string     `json:"notes,omitempty"`
	IsPlayer         *bool       `json:"isPlayer,omitempty"`
	MapPosition      *Position   `json:"mapPosition,omitempty"`
	ClearMapPosition bool        `json:"clearMapPosition,omitempty"`
	SpellSlots       *SpellSlots `json:"spellSlots,omitempty"`
}

// ApplyTo merges the patch into c
func (p CharacterPatch) ApplyTo(c *Character) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.PlayerName != nil {
		c.PlayerName = *p.PlayerName
	}
	if p.Initiative != nil {
		c.Initiative = *p.Initiative
	}
	if p.MaxHP != nil {
		c.MaxHP = *p.MaxHP
	}
	if p.CurrentHP != nil {
		c.CurrentHP = *p.CurrentHP
	}
	if p.ArmorClass != nil {
		c.ArmorClass = *p.ArmorClass
	}
	if p.Conditions != nil {
		c.Conditions = uniqueStrings(p.Conditions)
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.IsPlayer != nil {
		c.IsPlayer = *p.IsPlayer
	}
	if p.MapPosition != nil {
		pos := *p.MapPosition
		c.MapPosition = &pos
	}
	if p.ClearMapPosition {
		c.MapPosition = nil
	}
	if p.SpellSlots != nil {
		slots := *p.SpellSlots
		c.SpellSlots = &slots
	}
}

// GroupPatch is a partial update of a group
type GroupPatch struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// ApplyTo merges the patch into g
func (p GroupPatch) ApplyTo(g *CharacterGroup) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.IsActive != nil {
		g.IsActive = *p.IsActive
	}
}

// ObstaclePatch is a partial update of an obstacle
type ObstaclePatch struct {
	Type     *ObstacleType `json:"type,omitempty"`
	Position *Position     `json:"position,omitempty"`
	Color    *string       `json:"color,omitempty"`
}

// ApplyTo merges the patch into o. Unknown obstacle types are ignored.
func (p ObstaclePatch) ApplyTo(o *MapObstacle) {
	if p.Type != nil && p.Type.Valid() {
		o.Type = *p.Type
	}
	if p.Position != nil {
		o.Position = *p.Position
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
}

// BattleMapPatch is a partial update of the live map's settings. Obstacles
// are edited through obstacle actions only.
type BattleMapPatch struct {
	Name            *string  `json:"name,omitempty"`
	GridSize        *int     `json:"gridSize,omitempty"`
	MapSize         *MapSize `json:"mapSize,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	ShowGrid        *bool    `json:"showGrid,omitempty"`
	ShowCoordinates *bool    `json:"showCoordinates,omitempty"`
}

// ApplyTo merges the patch into m
func (p BattleMapPatch) ApplyTo(m *BattleMap) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.GridSize != nil {
		m.GridSize = *p.GridSize
	}
	if p.MapSize != nil {
		m.MapSize = *p.MapSize
	}
	if p.BackgroundColor != nil {
		m.BackgroundColor = *p.BackgroundColor
	}
	if p.ShowGrid != nil {
		m.ShowGrid = *p.ShowGrid
	}
	if p.ShowCoordinates != nil {
		m.ShowCoordinates = *p.ShowCoordinates
	}
}

// CombatPatch is a raw partial update of combat state. Activation and the
// participant list belong to the combat actions and cannot be patched.
type CombatPatch struct {
	CurrentTurn        *int    `json:"currentTurn,omitempty"`
	Round              *int    `json:"round,omitempty"`
	TurnStartTime      *int64  `json:"turnStartTime,omitempty"`
	TurnTimeLimit      *int    `json:"turnTimeLimit,omitempty"`
	ClearTurnTimeLimit bool    `json:"clearTurnTimeLimit,omitempty"`
	UseGroupInitiative *bool   `json:"useGroupInitiative,omitempty"`
	CurrentGroupID     *string `json:"currentGroupId,omitempty"`
}

// ApplyTo merges the patch into c
func (p CombatPatch) ApplyTo(c *CombatState) {
	if p.CurrentTurn != nil {
		c.CurrentTurn = *p.CurrentTurn
	}
	if p.Round != nil {
		c.Round = *p.Round
	}
	if p.TurnStartTime != nil {
		c.TurnStartTime = *p.TurnStartTime
	}
	if p.TurnTimeLimit != nil {
		limit := *p.TurnTimeLimit
		c.TurnTimeLimit = &limit
	}
	if p.ClearTurnTimeLimit {
		c.TurnTimeLimit = nil
	}
	if p.UseGroupInitiative != nil {
		c.UseGroupInitiative = *p.UseGroupInitiative
	}
	if p.CurrentGroupID != nil {
		c.CurrentGroupID = *p.CurrentGroupID
	}
}

// MapStatePatch is a partial update of the map editing state. The history
// and its cursor move only through record, undo and redo.
type MapStatePatch struct {
	SelectedTool *MapTool      `json:"selectedTool,omitempty"`
	Scale        *float64      `json:"scale,omitempty"`
	PanOffset    *Offset       `json:"panOffset,omitempty"`
	GridSettings *GridSettings `json:"gridSettings,omitempty"`
}

// ApplyTo merges the patch into m. A tool that is neither select nor an
// obstacle type is ignored.
func (p MapStatePatch) ApplyTo(m *MapState) {
	if p.SelectedTool != nil {
		if _, ok := p.SelectedTool.ObstacleType(); ok || *p.SelectedTool == ToolSelect {
			m.SelectedTool = *p.SelectedTool
		}
	}
	if p.Scale != nil {
		m.Scale = *p.Scale
	}
	if p.PanOffset != nil {
		m.PanOffset = *p.PanOffset
	}
	if p.GridSettings != nil {
		m.GridSettings = *p.GridSettings
	}
}

func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
