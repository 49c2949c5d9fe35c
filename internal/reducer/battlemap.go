package reducer

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// Zoom limits for the map view
const (
	MinScale = 0.3
	MaxScale = 3.0
)

func (a UpdateBattleMap) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	next := s.Clone()
	a.Patch.ApplyTo(&next.BattleMap)
	return next
}

func (a AddObstacle) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	if !a.Obstacle.Type.Valid() {
		return s
	}

	obstacle := a.Obstacle
	obstacle.ID = r.newID()

	next := s.Clone()
	next.BattleMap.Obstacles = append(next.BattleMap.Obstacles, obstacle)
	return next
}

func (a UpdateObstacle) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.BattleMap.ObstacleIndex(a.ID)
	if i < 0 {
		return s
	}

	next := s.Clone()
	a.Patch.ApplyTo(&next.BattleMap.Obstacles[i])
	return next
}

func (a RemoveObstacle) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if s.BattleMap.ObstacleIndex(a.ID) < 0 {
		return s
	}

	next := s.Clone()
	removeObstacle(&next.BattleMap, a.ID)
	return next
}

func (ClearObstacles) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if len(s.BattleMap.Obstacles) == 0 {
		return s
	}

	next := s.Clone()
	for _, obstacle := range next.BattleMap.Obstacles {
		record(next.MapState, entities.ObstacleAction{Type: entities.HistoryRemove, Obstacle: obstacle})
	}
	next.BattleMap.Obstacles = []entities.MapObstacle{}
	return next
}

// ClickCell removes whatever occupies the cell, or places an obstacle of
// the selected tool's type on an empty cell. The select tool and clicks
// off the map do nothing.
func (a ClickCell) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	tool := s.MapState.SelectedTool
	if tool == entities.ToolSelect || !s.BattleMap.MapSize.Contains(a.Position) {
		return s
	}

	if i := s.BattleMap.ObstacleAt(a.Position); i >= 0 {
		obstacle := s.BattleMap.Obstacles[i]
		next := s.Clone()
		removeObstacle(&next.BattleMap, obstacle.ID)
		record(next.MapState, entities.ObstacleAction{Type: entities.HistoryRemove, Obstacle: obstacle})
		return next
	}

	obstacleType, ok := tool.ObstacleType()
	if !ok {
		return s
	}
	obstacle := entities.MapObstacle{
		ID:       r.newID(),
		Type:     obstacleType,
		Position: a.Position,
	}

	next := s.Clone()
	next.BattleMap.Obstacles = append(next.BattleMap.Obstacles, obstacle)
	record(next.MapState, entities.ObstacleAction{Type: entities.HistoryAdd, Obstacle: obstacle})
	return next
}

func (a UpdateMapState) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	next := s.Clone()
	a.Patch.ApplyTo(next.MapState)
	next.MapState.Scale = max(MinScale, min(MaxScale, next.MapState.Scale))
	return next
}

func removeObstacle(m *entities.BattleMap, id string) {
	kept := make([]entities.MapObstacle, 0, len(m.Obstacles))
	for _, o := range m.Obstacles {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	m.Obstacles = kept
}

// restoreObstacle puts an obstacle back under its original id. An obstacle
// that is already present is left alone.
func restoreObstacle(m *entities.BattleMap, obstacle entities.MapObstacle) {
	if m.ObstacleIndex(obstacle.ID) >= 0 {
		return
	}
	m.Obstacles = append(m.Obstacles, obstacle)
}
