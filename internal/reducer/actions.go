package reducer

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// Action is one command the reducer understands. The set is closed: the
// unexported apply method means only this package can add variants, and
// each variant carries its own transition.
type Action interface {
	// ActionName is a stable snake_case identifier used in logs and metrics
	ActionName() string

	apply(r *Reducer, s *entities.SessionData) *entities.SessionData
}

// Character roster

// AddCharacter appends a character under a fresh id. Group membership and
// the combat flag are always reset.
type AddCharacter struct {
	Character entities.Character
}

// UpdateCharacter merges a patch into one character
type UpdateCharacter struct {
	ID    string
	Patch entities.CharacterPatch
}

// RemoveCharacter deletes a character and drops it from the turn order
type RemoveCharacter struct {
	ID string
}

// CloneCharacter copies a character under a fresh id with full HP
type CloneCharacter struct {
	ID string
}

// ApplyDamage lowers current HP of each character, stopping at zero
type ApplyDamage struct {
	IDs    []string
	Amount int
}

// Heal raises current HP of each character, stopping at max HP
type Heal struct {
	IDs    []string
	Amount int
}

// AddCondition adds a condition to each character that lacks it
type AddCondition struct {
	IDs       []string
	Condition string
}

// RemoveCondition strips a condition from each character
type RemoveCondition struct {
	IDs       []string
	Condition string
}

// UseSpellSlot spends one slot of the given level
type UseSpellSlot struct {
	ID    string
	Level int
}

// RestoreSpellSlot regains one slot of the given level
type RestoreSpellSlot struct {
	ID    string
	Level int
}

// SetSpellSlotMax sets how many slots of a level a character has
type SetSpellSlotMax struct {
	ID    string
	Level int
	Max   int
}

// UpdateCharacterPosition moves a token on the map. A nil position takes
// the token off the map.
type UpdateCharacterPosition struct {
	ID       string
	Position *entities.Position
}

// Groups

// AddGroup appends a group under a fresh id
type AddGroup struct {
	Group entities.CharacterGroup
}

// UpdateGroup merges a patch into one group
type UpdateGroup struct {
	ID    string
	Patch entities.GroupPatch
}

// RemoveGroup deletes a group and strips it from every character
type RemoveGroup struct {
	ID string
}

// AssignCharacterToGroup adds a membership
type AssignCharacterToGroup struct {
	CharacterID string
	GroupID     string
}

// RemoveCharacterFromGroup drops a membership
type RemoveCharacterFromGroup struct {
	CharacterID string
	GroupID     string
}

// Combat

// StartCombat begins (or restarts) combat with the given characters in
// initiative order
type StartCombat struct {
	ParticipantIDs     []string
	UseGroupInitiative bool
}

// EndCombat stops combat and clears the turn order
type EndCombat struct{}

// NextTurn advances to the next participant
type NextTurn struct{}

// PreviousTurn steps back to the previous participant
type PreviousTurn struct{}

// UpdateCombat merges a raw patch into the combat state
type UpdateCombat struct {
	Patch entities.CombatPatch
}

// AddToCombat appends characters to the end of the turn order
type AddToCombat struct {
	IDs []string
}

// RemoveFromCombat drops characters from the turn order
type RemoveFromCombat struct {
	IDs []string
}

// SortByInitiative reorders participants by current initiative, keeping
// the current turn index where it is
type SortByInitiative struct{}

// RepairTurn points the current turn back at a valid participant after
// the turn order shrank. PreviousCurrentID is the participant whose turn
// it was before the removal; when still present the turn follows it,
// otherwise the index is clamped into range.
type RepairTurn struct {
	PreviousCurrentID string
}

// Battle map

// UpdateBattleMap merges a patch into the live map settings
type UpdateBattleMap struct {
	Patch entities.BattleMapPatch
}

// AddObstacle places an obstacle under a fresh id without touching the
// edit history
type AddObstacle struct {
	Obstacle entities.MapObstacle
}

// UpdateObstacle merges a patch into one obstacle
type UpdateObstacle struct {
	ID    string
	Patch entities.ObstaclePatch
}

// RemoveObstacle deletes an obstacle without touching the edit history
type RemoveObstacle struct {
	ID string
}

// ClearObstacles removes every obstacle, recording each removal so the
// clear can be undone step by step
type ClearObstacles struct{}

// ClickCell applies the selected map tool to a grid cell. The obstacle
// edit and its history entry happen together.
type ClickCell struct {
	Position entities.Position
}

// UpdateMapState merges a patch into the map editing state
type UpdateMapState struct {
	Patch entities.MapStatePatch
}

// RecordHistory appends an entry to the edit history, discarding any redo
// entries past the cursor
type RecordHistory struct {
	Entry entities.ObstacleAction
}

// Undo reverts the history entry under the cursor
type Undo struct{}

// Redo reapplies the history entry after the cursor
type Redo struct{}

// Map templates

// SaveMapTemplate stores a copy of the live map
type SaveMapTemplate struct {
	Name        string
	Description string
	Thumbnail   string
}

// LoadMapTemplate replaces the live map with a copy of a template
type LoadMapTemplate struct {
	ID string
}

// RemoveMapTemplate deletes a template
type RemoveMapTemplate struct {
	ID string
}

// Session

// UpdateNotes replaces the session notes
type UpdateNotes struct {
	Notes string
}

// RenameSession changes the session's display name
type RenameSession struct {
	Name string
}

// LoadSession replaces the whole session with a migrated copy of Session
type LoadSession struct {
	Session *entities.SessionData
}

// ResetSession replaces the whole session with a fresh default one
type ResetSession struct{}

func (AddCharacter) ActionName() string { return "add_character" }
func (UpdateCharacter) ActionName() string { return "update_character" }
func (RemoveCharacter) ActionName() string { return "remove_character" }
func (CloneCharacter) ActionName() string { return "clone_character" }
func (ApplyDamage) ActionName() string { return "apply_damage" }
func (Heal) ActionName() string { return "heal" }
func (AddCondition) ActionName() string { return "add_condition" }
func (RemoveCondition) ActionName() string { return "remove_condition" }
func (UseSpellSlot) ActionName() string { return "use_spell_slot" }
func (RestoreSpellSlot) ActionName() string { return "restore_spell_slot" }
func (SetSpellSlotMax) ActionName() string { return "set_spell_slot_max" }
func (UpdateCharacterPosition) ActionName() string { return "update_character_position" }
func (AddGroup) ActionName() string { return "add_group" }
func (UpdateGroup) ActionName() string { return "update_group" }
func (RemoveGroup) ActionName() string { return "remove_group" }
func (AssignCharacterToGroup) ActionName() string { return "assign_character_to_group" }
func (RemoveCharacterFromGroup) ActionName() string { return "remove_character_from_group" }
func (StartCombat) ActionName() string { return "start_combat" }
func (EndCombat) ActionName() string { return "end_combat" }
func (NextTurn) ActionName() string { return "next_turn" }
func (PreviousTurn) ActionName() string { return "previous_turn" }
func (UpdateCombat) ActionName() string { return "update_combat" }
func (AddToCombat) ActionName() string { return "add_to_combat" }
func (RemoveFromCombat) ActionName() string { return "remove_from_combat" }
func (SortByInitiative) ActionName() string { return "sort_by_initiative" }
func (RepairTurn) ActionName() string { return "repair_turn" }
func (UpdateBattleMap) ActionName() string { return "update_battle_map" }
func (AddObstacle) ActionName() string { return "add_obstacle" }
func (UpdateObstacle) ActionName() string { return "update_obstacle" }
func (RemoveObstacle) ActionName() string { return "remove_obstacle" }
func (ClearObstacles) ActionName() string { return "clear_obstacles" }
func (ClickCell) ActionName() string { return "click_cell" }
func (UpdateMapState) ActionName() string { return "update_map_state" }
func (RecordHistory) ActionName() string { return "record_history" }
func (Undo) ActionName() string { return "undo" }
func (Redo) ActionName() string { return "redo" }
func (SaveMapTemplate) ActionName() string { return "save_map_template" }
func (LoadMapTemplate) ActionName() string { return "load_map_template" }
func (RemoveMapTemplate) ActionName() string { return "remove_map_template" }
func (UpdateNotes) ActionName() string { return "update_notes" }
func (RenameSession) ActionName() string { return "rename_session" }
func (LoadSession) ActionName() string { return "load_session" }
func (ResetSession) ActionName() string { return "reset_session" }
