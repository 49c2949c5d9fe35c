package reducer

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
)

// Templates and the live map never share a map id or an obstacle slice:
// both directions copy and assign a fresh map id.

func (a SaveMapTemplate) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	name := a.Name
	if name == "" {
		name = s.BattleMap.Name
	}

	battleMap := s.BattleMap.Clone()
	battleMap.ID = r.newID()
	template := entities.MapTemplate{
		ID:          r.newID(),
		Name:        name,
		Description: a.Description,
		BattleMap:   battleMap,
		Thumbnail:   a.Thumbnail,
	}

	next := s.Clone()
	next.MapTemplates = append(next.MapTemplates, template)
	return next
}

// LoadMapTemplate swaps the live map only. The edit history is kept, so
// undo after a load can act on obstacles of the previous map.
func (a LoadMapTemplate) apply(r *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.TemplateIndex(a.ID)
	if i < 0 {
		return s
	}

	next := s.Clone()
	next.BattleMap = s.MapTemplates[i].BattleMap.Clone()
	next.BattleMap.ID = r.newID()
	return next
}

func (a RemoveMapTemplate) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	i := s.TemplateIndex(a.ID)
	if i < 0 {
		return s
	}

	next := s.Clone()
	next.MapTemplates = append(next.MapTemplates[:i], next.MapTemplates[i+1:]...)
	return next
}
