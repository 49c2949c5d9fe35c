package reducer_test

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/testutils/builders"
)

func (s *ReducerTestSuite) TestMapTemplates() {
	state := builders.NewSessionBuilder().
		WithTool(entities.MapTool(entities.ObstacleWall)).
		WithObstacles(entities.MapObstacle{ID: "obs", Type: entities.ObstacleWall, Position: entities.Position{X: 1, Y: 1}}).
		Build()

	saved := s.reducer.Apply(state, reducer.SaveMapTemplate{Name: "Tavern", Description: "Ground floor"})
	s.Require().Len(saved.MapTemplates, 1)
	template := saved.MapTemplates[0]
	s.Equal("Tavern", template.Name)
	s.Equal("Ground floor", template.Description)
	s.NotEqual(saved.BattleMap.ID, template.BattleMap.ID)
	s.Equal(saved.BattleMap.Obstacles, template.BattleMap.Obstacles)

	s.Run("later map edits do not reach the template", func() {
		edited := s.reducer.Apply(saved, reducer.ClickCell{Position: entities.Position{X: 2, Y: 2}})
		s.Len(edited.BattleMap.Obstacles, 2)
		s.Len(edited.MapTemplates[0].BattleMap.Obstacles, 1)
	})

	s.Run("loading twice never aliases", func() {
		first := s.reducer.Apply(saved, reducer.LoadMapTemplate{ID: template.ID})
		second := s.reducer.Apply(first, reducer.LoadMapTemplate{ID: template.ID})

		s.NotEqual(template.BattleMap.ID, first.BattleMap.ID)
		s.NotEqual(first.BattleMap.ID, second.BattleMap.ID)
		s.Equal(template.BattleMap.Obstacles, second.BattleMap.Obstacles)

		second.BattleMap.Obstacles[0].Color = "#ffffff"
		s.Empty(second.MapTemplates[0].BattleMap.Obstacles[0].Color)
	})

	s.Run("unnamed template takes the map name", func() {
		next := s.reducer.Apply(state, reducer.SaveMapTemplate{})
		s.Equal(entities.DefaultMapName, next.MapTemplates[0].Name)
	})

	s.Run("remove deletes only the template", func() {
		next := s.reducer.Apply(saved, reducer.RemoveMapTemplate{ID: template.ID})
		s.Empty(next.MapTemplates)
		s.Len(next.BattleMap.Obstacles, 1)
	})
}
