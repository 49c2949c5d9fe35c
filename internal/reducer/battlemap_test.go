package reducer_test

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/testutils/builders"
)

func (s *ReducerTestSuite) wallTool() *entities.SessionData {
	return builders.NewSessionBuilder().WithTool(entities.MapTool(entities.ObstacleWall)).Build()
}

func (s *ReducerTestSuite) TestClickCellPlacesAndRecords() {
	next := s.reducer.Apply(s.wallTool(), reducer.ClickCell{Position: entities.Position{X: 3, Y: 4}})

	s.Require().Len(next.BattleMap.Obstacles, 1)
	placed := next.BattleMap.Obstacles[0]
	s.Equal("id_1", placed.ID)
	s.Equal(entities.ObstacleWall, placed.Type)
	s.Equal(entities.Position{X: 3, Y: 4}, placed.Position)

	s.Require().Len(next.MapState.History, 1)
	s.Equal(entities.ObstacleAction{Type: entities.HistoryAdd, Obstacle: placed}, next.MapState.History[0])
	s.Equal(0, next.MapState.HistoryIndex)
}

func (s *ReducerTestSuite) TestClickCellRemovesAndRecords() {
	state := builders.NewSessionBuilder().
		WithTool(entities.MapTool(entities.ObstaclePillar)).
		WithObstacles(entities.MapObstacle{ID: "obs", Type: entities.ObstacleDoor, Position: entities.Position{X: 1, Y: 1}}).
		Build()

	next := s.reducer.Apply(state, reducer.ClickCell{Position: entities.Position{X: 1, Y: 1}})

	s.Empty(next.BattleMap.Obstacles)
	s.Require().Len(next.MapState.History, 1)
	s.Equal(entities.HistoryRemove, next.MapState.History[0].Type)
	s.Equal("obs", next.MapState.History[0].Obstacle.ID)
}

func (s *ReducerTestSuite) TestClickCellIgnored() {
	s.Run("select tool", func() {
		state := builders.NewSessionBuilder().
			WithObstacles(entities.MapObstacle{ID: "obs", Type: entities.ObstacleWall}).
			Build()
		s.Same(state, s.reducer.Apply(state, reducer.ClickCell{Position: entities.Position{}}))
	})

	s.Run("off the map", func() {
		state := s.wallTool()
		s.Same(state, s.reducer.Apply(state, reducer.ClickCell{Position: entities.Position{X: 30, Y: 0}}))
		s.Same(state, s.reducer.Apply(state, reducer.ClickCell{Position: entities.Position{X: -1, Y: 2}}))
	})
}

func (s *ReducerTestSuite) TestUndoRedoRoundTrip() {
	placed := s.reducer.Apply(s.wallTool(), reducer.ClickCell{Position: entities.Position{X: 3, Y: 4}})

	undone := s.reducer.Apply(placed, reducer.Undo{})
	s.Empty(undone.BattleMap.Obstacles)
	s.Equal(-1, undone.MapState.HistoryIndex)

	redone := s.reducer.Apply(undone, reducer.Redo{})
	s.Equal(placed.BattleMap.Obstacles, redone.BattleMap.Obstacles)
	s.Equal(0, redone.MapState.HistoryIndex)

	s.Same(redone, s.reducer.Apply(redone, reducer.Redo{}))
}

func (s *ReducerTestSuite) TestUndoRemoveRestoresOriginalObstacle() {
	original := entities.MapObstacle{ID: "obs", Type: entities.ObstacleCover, Position: entities.Position{X: 2, Y: 2}, Color: "#123456"}
	state := builders.NewSessionBuilder().
		WithTool(entities.MapTool(entities.ObstacleWall)).
		WithObstacles(original).
		Build()

	removed := s.reducer.Apply(state, reducer.ClickCell{Position: original.Position})
	undone := s.reducer.Apply(removed, reducer.Undo{})

	s.Equal([]entities.MapObstacle{original}, undone.BattleMap.Obstacles)

	redone := s.reducer.Apply(undone, reducer.Redo{})
	s.Empty(redone.BattleMap.Obstacles)
}

func (s *ReducerTestSuite) TestRecordAfterUndoDropsRedo() {
	state := s.reducer.ApplyAll(s.wallTool(),
		reducer.ClickCell{Position: entities.Position{X: 0, Y: 0}},
		reducer.ClickCell{Position: entities.Position{X: 1, Y: 0}},
		reducer.ClickCell{Position: entities.Position{X: 2, Y: 0}},
		reducer.Undo{},
		reducer.Undo{},
	)
	s.Require().Equal(0, state.MapState.HistoryIndex)
	s.Require().Len(state.MapState.History, 3)

	next := s.reducer.Apply(state, reducer.ClickCell{Position: entities.Position{X: 5, Y: 5}})

	s.Len(next.MapState.History, 2)
	s.Equal(1, next.MapState.HistoryIndex)
	s.Equal(entities.Position{X: 5, Y: 5}, next.MapState.History[1].Obstacle.Position)
	s.Same(next, s.reducer.Apply(next, reducer.Redo{}))
}

func (s *ReducerTestSuite) TestRecordHistory() {
	entry := entities.ObstacleAction{
		Type:     entities.HistoryAdd,
		Obstacle: entities.MapObstacle{ID: "manual", Type: entities.ObstacleDoor},
	}

	next := s.reducer.Apply(s.wallTool(), reducer.RecordHistory{Entry: entry})

	s.Equal([]entities.ObstacleAction{entry}, next.MapState.History)
	s.Equal(0, next.MapState.HistoryIndex)
	s.Empty(next.BattleMap.Obstacles)
}

func (s *ReducerTestSuite) TestUndoGuardsCorruptCursor() {
	state := s.reducer.Apply(s.wallTool(), reducer.ClickCell{Position: entities.Position{X: 0, Y: 0}})
	state.MapState.HistoryIndex = 9

	next := s.reducer.Apply(state, reducer.Undo{})

	s.Empty(next.BattleMap.Obstacles)
	s.Equal(-1, next.MapState.HistoryIndex)
}

func (s *ReducerTestSuite) TestRedoDoesNotDuplicate() {
	state := s.reducer.Apply(s.wallTool(), reducer.ClickCell{Position: entities.Position{X: 0, Y: 0}})
	undone := s.reducer.Apply(state, reducer.Undo{})
	// put the same obstacle back by hand before redoing
	undone.BattleMap.Obstacles = append(undone.BattleMap.Obstacles, state.BattleMap.Obstacles[0])

	next := s.reducer.Apply(undone, reducer.Redo{})

	s.Len(next.BattleMap.Obstacles, 1)
}

func (s *ReducerTestSuite) TestClearObstaclesIsUndoable() {
	state := s.reducer.ApplyAll(s.wallTool(),
		reducer.ClickCell{Position: entities.Position{X: 0, Y: 0}},
		reducer.ClickCell{Position: entities.Position{X: 1, Y: 1}},
	)

	cleared := s.reducer.Apply(state, reducer.ClearObstacles{})
	s.Empty(cleared.BattleMap.Obstacles)
	s.Len(cleared.MapState.History, 4)

	restored := s.reducer.ApplyAll(cleared, reducer.Undo{}, reducer.Undo{})
	s.ElementsMatch(state.BattleMap.Obstacles, restored.BattleMap.Obstacles)

	s.Same(cleared, s.reducer.Apply(cleared, reducer.ClearObstacles{}))
}

func (s *ReducerTestSuite) TestObstacleCRUD() {
	state := s.reducer.Apply(s.party(), reducer.AddObstacle{Obstacle: entities.MapObstacle{
		ID:       "ignored",
		Type:     entities.ObstacleDifficultTerrain,
		Position: entities.Position{X: 4, Y: 4},
	}})
	s.Require().Len(state.BattleMap.Obstacles, 1)
	id := state.BattleMap.Obstacles[0].ID
	s.Equal("id_1", id)
	s.Empty(state.MapState.History)

	moved := s.reducer.Apply(state, reducer.UpdateObstacle{ID: id, Patch: entities.ObstaclePatch{
		Position: &entities.Position{X: 5, Y: 4},
		Color:    ptr("#000000"),
	}})
	s.Equal(entities.Position{X: 5, Y: 4}, moved.BattleMap.Obstacles[0].Position)
	s.Equal("#000000", moved.BattleMap.Obstacles[0].Color)

	removed := s.reducer.Apply(moved, reducer.RemoveObstacle{ID: id})
	s.Empty(removed.BattleMap.Obstacles)

	s.Same(state, s.reducer.Apply(state, reducer.AddObstacle{Obstacle: entities.MapObstacle{Type: "lava"}}))
}

func (s *ReducerTestSuite) TestUpdateBattleMap() {
	next := s.reducer.Apply(s.party(), reducer.UpdateBattleMap{Patch: entities.BattleMapPatch{
		Name:     ptr("Mines of Moria"),
		MapSize:  &entities.MapSize{Width: 40, Height: 40},
		ShowGrid: ptr(false),
	}})

	s.Equal("Mines of Moria", next.BattleMap.Name)
	s.Equal(entities.MapSize{Width: 40, Height: 40}, next.BattleMap.MapSize)
	s.False(next.BattleMap.ShowGrid)
	s.True(next.BattleMap.ShowCoordinates)
}

func (s *ReducerTestSuite) TestUpdateMapStateClampsZoom() {
	testCases := []struct {
		name     string
		scale    float64
		expected float64
	}{
		{name: "within range", scale: 1.5, expected: 1.5},
		{name: "too far out", scale: 0.1, expected: reducer.MinScale},
		{name: "too far in", scale: 10, expected: reducer.MaxScale},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			next := s.reducer.Apply(s.party(), reducer.UpdateMapState{Patch: entities.MapStatePatch{Scale: ptr(tc.scale)}})
			s.InDelta(tc.expected, next.MapState.Scale, 0.0001)
		})
	}
}
