// Package entities holds the session aggregate and the records it owns.
//
// JSON field names match the documents exported by the browser tracker so
// exports from either side can be imported by the other.
package entities

// Position is a grid cell on the battle map
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offset is a pan offset in screen pixels
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MapSize is the battle map size in grid cells
type MapSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies on a map of this size
func (m MapSize) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// SpellSlot tracks remaining and maximum slots for one spell level
type SpellSlot struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// SpellSlotLevels is the number of spell levels tracked per character
const SpellSlotLevels = 9

// SpellSlots holds slot counters for spell levels 1 through 9
type SpellSlots struct {
	Level1 SpellSlot `json:"level1"`
	Level2 SpellSlot `json:"level2"`
	Level3 SpellSlot `json:"level3"`
	Level4 SpellSlot `json:"level4"`
	Level5 SpellSlot `json:"level5"`
	Level6 SpellSlot `json:"level6"`
	Level7 SpellSlot `json:"level7"`
	Level8 SpellSlot `json:"level8"`
	Level9 SpellSlot `json:"level9"`
}

// At returns the slot for a spell level, or nil when level is outside 1..9
func (s *SpellSlots) At(level int) *SpellSlot {
	switch level {
	case 1:
		return &s.Level1
	case 2:
		return &s.Level2
	case 3:
		return &s.Level3
	case 4:
		return &s.Level4
	case 5:
		return &s.Level5
	case 6:
		return &s.Level6
	case 7:
		return &s.Level7
	case 8:
		return &s.Level8
	case 9:
		return &s.Level9
	default:
		return nil
	}
}

// Character is a player character or NPC on the roster
type Character struct {
	ID          string      `json:"id" jsonschema:"required"`
	Name        string      `json:"name" jsonschema:"required"`
	PlayerName  string      `json:"playerName,omitempty"`
	Initiative  int         `json:"initiative"`
	MaxHP       int         `json:"maxHp"`
	CurrentHP   int         `json:"currentHp"`
	ArmorClass  int         `json:"armorClass"`
	Conditions  []string    `json:"conditions"`
	Notes       string      `json:"notes"`
	IsPlayer    bool        `json:"isPlayer"`
	GroupIDs    []string    `json:"groupIds"`
	MapPosition *Position   `json:"mapPosition,omitempty"`
	IsInCombat  bool        `json:"isInCombat"`
	SpellSlots  *SpellSlots `json:"spellSlots,omitempty"`
}

// HasCondition reports whether the character carries the named condition
func (c *Character) HasCondition(condition string) bool {
	return contains(c.Conditions, condition)
}

// InGroup reports whether the character is a member of the group
func (c *Character) InGroup(groupID string) bool {
	return contains(c.GroupIDs, groupID)
}

// CharacterGroup is a named, colored grouping of characters. Membership is
// stored on the characters.
type CharacterGroup struct {
	ID          string `json:"id" jsonschema:"required"`
	Name        string `json:"name" jsonschema:"required"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// ObstacleType is the closed set of obstacles that can be placed on a map
type ObstacleType string

// Obstacle types
const (
	ObstacleWall             ObstacleType = "wall"
	ObstaclePillar           ObstacleType = "pillar"
	ObstacleDifficultTerrain ObstacleType = "difficult_terrain"
	ObstacleCover            ObstacleType = "cover"
	ObstacleDoor             ObstacleType = "door"
)

// ObstacleTypes lists every obstacle type
var ObstacleTypes = []ObstacleType{
	ObstacleWall,
	ObstaclePillar,
	ObstacleDifficultTerrain,
	ObstacleCover,
	ObstacleDoor,
}

// Valid reports whether t is one of the known obstacle types
func (t ObstacleType) Valid() bool {
	for _, known := range ObstacleTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MapObstacle occupies one grid cell of the battle map
type MapObstacle struct {
	ID       string       `json:"id" jsonschema:"required"`
	Type     ObstacleType `json:"type" jsonschema:"required,enum=wall,enum=pillar,enum=difficult_terrain,enum=cover,enum=door"`
	Position Position     `json:"position" jsonschema:"required"`
	Color    string       `json:"color,omitempty"`
}

// BattleMap is the grid on which obstacles and character tokens are placed
type BattleMap struct {
	ID              string        `json:"id" jsonschema:"required"`
	Name            string        `json:"name"`
	GridSize        int           `json:"gridSize"`
	MapSize         MapSize       `json:"mapSize"`
	Obstacles       []MapObstacle `json:"obstacles"`
	BackgroundColor string        `json:"backgroundColor"`
	ShowGrid        bool          `json:"showGrid"`
	ShowCoordinates bool          `json:"showCoordinates"`
}

// ObstacleAt returns the index of the obstacle occupying p, or -1
func (m *BattleMap) ObstacleAt(p Position) int {
	for i := range m.Obstacles {
		if m.Obstacles[i].Position == p {
			return i
		}
	}
	return -1
}

// ObstacleIndex returns the index of the obstacle with the given id, or -1
func (m *BattleMap) ObstacleIndex(id string) int {
	for i := range m.Obstacles {
		if m.Obstacles[i].ID == id {
			return i
		}
	}
	return -1
}

// MapTemplate is a saved copy of a battle map
type MapTemplate struct {
	ID          string    `json:"id" jsonschema:"required"`
	Name        string    `json:"name" jsonschema:"required"`
	Description string    `json:"description,omitempty"`
	BattleMap   BattleMap `json:"battleMap" jsonschema:"required"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// CombatState tracks turn order for the current encounter
type CombatState struct {
	IsActive           bool     `json:"isActive"`
	CurrentTurn        int      `json:"currentTurn"`
	TurnStartTime      int64    `json:"turnStartTime"`
	TurnTimeLimit      *int     `json:"turnTimeLimit,omitempty"`
	Round              int      `json:"round"`
	Participants       []string `json:"participants"`
	UseGroupInitiative bool     `json:"useGroupInitiative"`
	CurrentGroupID     string   `json:"currentGroupId,omitempty"`
}

// CurrentParticipant returns the id whose turn it is, or "" when the turn
// index does not point into the participants.
func (c *CombatState) CurrentParticipant() string {
	if c.CurrentTurn < 0 || c.CurrentTurn >= len(c.Participants) {
		return ""
	}
	return c.Participants[c.CurrentTurn]
}

// MapTool is the active map editing tool: select, or an obstacle type
type MapTool string

// ToolSelect moves tokens and never edits obstacles
const ToolSelect MapTool = "select"

// ObstacleType returns the obstacle a tool places, false for select or an
// unknown tool
func (t MapTool) ObstacleType() (ObstacleType, bool) {
	ot := ObstacleType(t)
	if !ot.Valid() {
		return "", false
	}
	return ot, true
}

// HistoryActionType tags an entry in the map edit history
type HistoryActionType string

// History action types
const (
	HistoryAdd    HistoryActionType = "add"
	HistoryRemove HistoryActionType = "remove"
)

// ObstacleAction is one entry of the map edit history
type ObstacleAction struct {
	Type     HistoryActionType `json:"type" jsonschema:"required,enum=add,enum=remove"`
	Obstacle MapObstacle       `json:"obstacle" jsonschema:"required"`
}

// GridSettings controls grid rendering
type GridSettings struct {
	Size int  `json:"size"`
	Show bool `json:"show"`
}

// MapState is the editing state of the map, including the undo/redo log.
// HistoryIndex points at the last applied entry; -1 means none.
type MapState struct {
	SelectedTool MapTool          `json:"selectedTool"`
	Scale        float64          `json:"scale"`
	PanOffset    Offset           `json:"panOffset"`
	GridSettings GridSettings     `json:"gridSettings"`
	History      []ObstacleAction `json:"history"`
	HistoryIndex int              `json:"historyIndex"`
}

// SessionData is the aggregate root. It is replaced wholesale on every
// transition and never modified once published.
type SessionData struct {
	ID           string           `json:"id" jsonschema:"required"`
	Name         string           `json:"name"`
	Characters   []Character      `json:"characters" jsonschema:"required"`
	Groups       []CharacterGroup `json:"groups"`
	BattleMap    BattleMap        `json:"battleMap" jsonschema:"required"`
	MapTemplates []MapTemplate    `json:"mapTemplates"`
	Combat       CombatState      `json:"combat"`
	MapState     *MapState        `json:"mapState,omitempty"`
	Notes        string           `json:"notes"`
	LastUpdated  int64            `json:"lastUpdated"`
}

// CharacterIndex returns the index of the character with the given id, or -1
func (s *SessionData) CharacterIndex(id string) int {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return i
		}
	}
	return -1
}

// Character returns the character with the given id
func (s *SessionData) Character(id string) (Character, bool) {
	if i := s.CharacterIndex(id); i >= 0 {
		return s.Characters[i], true
	}
	return Character{}, false
}

// GroupIndex returns the index of the group with the given id, or -1
func (s *SessionData) GroupIndex(id string) int {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

// TemplateIndex returns the index of the map template with the given id, or -1
func (s *SessionData) TemplateIndex(id string) int {
	for i := range s.MapTemplates {
		if s.MapTemplates[i].ID == id {
			return i
		}
	}
	return -1
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
