// Package snapshot upgrades, encodes and validates persisted sessions.
package snapshot

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// Migrate upgrades a snapshot to the current shape. Snapshots written
// before map editing state existed get one synthesized from the battle
// map's grid settings with an empty history. A snapshot that already has
// map state is returned as is, so migrating twice is the same as once.
func Migrate(s *entities.SessionData) *entities.SessionData {
	if s == nil || s.MapState != nil {
		return s
	}

	out := s.Clone()
	gridSize := s.BattleMap.GridSize
	if gridSize <= 0 {
		gridSize = entities.DefaultGridSize
	}
	mapState := entities.DefaultMapState(gridSize, s.BattleMap.ShowGrid)
	out.MapState = &mapState
	return out
}

// NeedsMigration reports whether Migrate would change s
func NeedsMigration(s *entities.SessionData) bool {
	return s != nil && s.MapState == nil
}
