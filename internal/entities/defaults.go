package entities

// Defaults for a freshly constructed session
const (
	DefaultSessionName     = "New Session"
	DefaultMapName         = "Default Map"
	DefaultGridSize        = 40
	DefaultMapWidth        = 30
	DefaultMapHeight       = 20
	DefaultBackgroundColor = "#f8f9fa"
	DefaultScale           = 1.0
)

// NewSession builds an empty session: no characters, groups or obstacles,
// inactive combat at round 1 and an empty edit history.
func NewSession(sessionID, mapID string, nowMillis int64) *SessionData {
	mapState := DefaultMapState(DefaultGridSize, true)
	return &SessionData{
		ID:         sessionID,
		Name:       DefaultSessionName,
		Characters: []Character{},
		Groups:     []CharacterGroup{},
		BattleMap: BattleMap{
			ID:              mapID,
			Name:            DefaultMapName,
			GridSize:        DefaultGridSize,
			MapSize:         MapSize{Width: DefaultMapWidth, Height: DefaultMapHeight},
			Obstacles:       []MapObstacle{},
			BackgroundColor: DefaultBackgroundColor,
			ShowGrid:        true,
			ShowCoordinates: true,
		},
		MapTemplates: []MapTemplate{},
		Combat:       DefaultCombat(),
		MapState:     &mapState,
		LastUpdated:  nowMillis,
	}
}

// DefaultCombat is an inactive combat at round 1
func DefaultCombat() CombatState {
	return CombatState{
		Round:        1,
		Participants: []string{},
	}
}

// DefaultMapState returns select-tool editing state with an empty history
func DefaultMapState(gridSize int, showGrid bool) MapState {
	return MapState{
		SelectedTool: ToolSelect,
		Scale:        DefaultScale,
		GridSettings: GridSettings{Size: gridSize, Show: showGrid},
		History:      []ObstacleAction{},
		HistoryIndex: -1,
	}
}
