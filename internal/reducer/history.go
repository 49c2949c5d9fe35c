package reducer

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// The edit history is a linear log with a cursor. HistoryIndex is the last
// applied entry and -1 means nothing is applied. Recording after an undo
// throws away the entries that could have been redone.

func record(ms *entities.MapState, entry entities.ObstacleAction) {
	keep := clamp(ms.HistoryIndex+1, 0, len(ms.History))
	ms.History = append(ms.History[:keep:keep], entry)
	ms.HistoryIndex = len(ms.History) - 1
}

func (a RecordHistory) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	next := s.Clone()
	record(next.MapState, a.Entry)
	return next
}

func (Undo) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	index := min(s.MapState.HistoryIndex, len(s.MapState.History)-1)
	if index < 0 {
		return s
	}

	entry := s.MapState.History[index]
	next := s.Clone()
	switch entry.Type {
	case entities.HistoryAdd:
		removeObstacle(&next.BattleMap, entry.Obstacle.ID)
	case entities.HistoryRemove:
		restoreObstacle(&next.BattleMap, entry.Obstacle)
	}
	next.MapState.HistoryIndex = index - 1
	return next
}

func (Redo) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	index := max(s.MapState.HistoryIndex, -1)
	if index >= len(s.MapState.History)-1 {
		return s
	}

	index++
	entry := s.MapState.History[index]
	next := s.Clone()
	switch entry.Type {
	case entities.HistoryAdd:
		restoreObstacle(&next.BattleMap, entry.Obstacle)
	case entities.HistoryRemove:
		removeObstacle(&next.BattleMap, entry.Obstacle.ID)
	}
	next.MapState.HistoryIndex = index
	return next
}
