package reducer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-session/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-session/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/testutils/builders"
)

type ReducerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockClock *mockclock.MockClock
	now       time.Time
	reducer   *reducer.Reducer
}

func TestReducerSuite(t *testing.T) {
	suite.Run(t, new(ReducerTestSuite))
}

func (s *ReducerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.now = time.UnixMilli(1700000600000)
	s.mockClock.EXPECT().Now().Return(s.now).AnyTimes()

	r, err := reducer.New(&reducer.Config{
		IDGenerator: idgen.NewSequential("id"),
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
	s.reducer = r
}

func (s *ReducerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// party is a three character roster used across the suite
func (s *ReducerTestSuite) party() *entities.SessionData {
	return builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("p1").WithName("Aragorn").WithInitiative(15).Build(),
			builders.NewCharacterBuilder().WithID("p2").WithName("Legolas").WithInitiative(20).Build(),
			builders.NewCharacterBuilder().WithID("p3").WithName("Gimli").WithInitiative(10).Build(),
		).
		Build()
}

func (s *ReducerTestSuite) TestNew() {
	s.Run("requires config", func() {
		r, err := reducer.New(nil)
		s.Error(err)
		s.Nil(r)
	})

	s.Run("requires dependencies", func() {
		r, err := reducer.New(&reducer.Config{})
		s.Require().Error(err)
		s.Nil(r)
		s.True(errors.IsInvalidArgument(err))
		s.Contains(err.Error(), "IDGenerator")
		s.Contains(err.Error(), "Clock")
	})
}

func (s *ReducerTestSuite) TestNewSession() {
	session := s.reducer.NewSession()

	s.Equal("id_1", session.ID)
	s.Equal("id_2", session.BattleMap.ID)
	s.Equal(s.now.UnixMilli(), session.LastUpdated)
	s.Equal(entities.DefaultSessionName, session.Name)
	s.Require().NotNil(session.MapState)
	s.Equal(-1, session.MapState.HistoryIndex)
}

func (s *ReducerTestSuite) TestApplyNilStateStartsFresh() {
	next := s.reducer.Apply(nil, reducer.UpdateNotes{Notes: "hello"})

	s.Require().NotNil(next)
	s.Equal("hello", next.Notes)
	s.Require().NotNil(next.MapState)
}

func (s *ReducerTestSuite) TestApplyNilActionReturnsState() {
	state := s.party()
	s.Same(state, s.reducer.Apply(state, nil))
}

func (s *ReducerTestSuite) TestMutationStampsLastUpdated() {
	state := s.party()
	s.Require().NotEqual(s.now.UnixMilli(), state.LastUpdated)

	next := s.reducer.Apply(state, reducer.UpdateNotes{Notes: "ambush at the ford"})

	s.Equal(s.now.UnixMilli(), next.LastUpdated)
	s.Equal(int64(1700000000000), state.LastUpdated)
}

func (s *ReducerTestSuite) TestReferentialNoOps() {
	state := s.party()

	testCases := []struct {
		name   string
		action reducer.Action
	}{
		{name: "update character", action: reducer.UpdateCharacter{ID: "missing"}},
		{name: "remove character", action: reducer.RemoveCharacter{ID: "missing"}},
		{name: "clone character", action: reducer.CloneCharacter{ID: "missing"}},
		{name: "damage", action: reducer.ApplyDamage{IDs: []string{"missing"}, Amount: 3}},
		{name: "update group", action: reducer.UpdateGroup{ID: "missing"}},
		{name: "remove group", action: reducer.RemoveGroup{ID: "missing"}},
		{name: "assign to missing group", action: reducer.AssignCharacterToGroup{CharacterID: "p1", GroupID: "missing"}},
		{name: "unassign non member", action: reducer.RemoveCharacterFromGroup{CharacterID: "p1", GroupID: "missing"}},
		{name: "update obstacle", action: reducer.UpdateObstacle{ID: "missing"}},
		{name: "remove obstacle", action: reducer.RemoveObstacle{ID: "missing"}},
		{name: "position", action: reducer.UpdateCharacterPosition{ID: "missing", Position: &entities.Position{X: 1, Y: 1}}},
		{name: "load template", action: reducer.LoadMapTemplate{ID: "missing"}},
		{name: "remove template", action: reducer.RemoveMapTemplate{ID: "missing"}},
		{name: "add to combat", action: reducer.AddToCombat{IDs: []string{"missing"}}},
		{name: "remove from combat", action: reducer.RemoveFromCombat{IDs: []string{"missing"}}},
		{name: "next turn without participants", action: reducer.NextTurn{}},
		{name: "previous turn without participants", action: reducer.PreviousTurn{}},
		{name: "undo with empty history", action: reducer.Undo{}},
		{name: "redo with empty history", action: reducer.Redo{}},
		{name: "load nil session", action: reducer.LoadSession{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			next := s.reducer.Apply(state, tc.action)
			s.Same(state, next)
			s.Equal(int64(1700000000000), next.LastUpdated)
		})
	}
}

func (s *ReducerTestSuite) TestApplyNeverModifiesInput() {
	state := s.party()
	before := state.Clone()

	s.reducer.ApplyAll(state,
		reducer.StartCombat{ParticipantIDs: []string{"p1", "p2"}},
		reducer.ApplyDamage{IDs: []string{"p1"}, Amount: 5},
		reducer.AddCondition{IDs: []string{"p2"}, Condition: "prone"},
		reducer.UpdateMapState{Patch: entities.MapStatePatch{SelectedTool: ptr(entities.MapTool(entities.ObstacleWall))}},
		reducer.ClickCell{Position: entities.Position{X: 1, Y: 1}},
		reducer.RemoveCharacter{ID: "p3"},
	)

	s.Equal(before, state)
}

func (s *ReducerTestSuite) TestNotesAndName() {
	state := s.party()

	next := s.reducer.Apply(state, reducer.UpdateNotes{Notes: "The party rests."})
	s.Equal("The party rests.", next.Notes)
	s.Same(next, s.reducer.Apply(next, reducer.UpdateNotes{Notes: "The party rests."}))

	renamed := s.reducer.Apply(next, reducer.RenameSession{Name: "Moria"})
	s.Equal("Moria", renamed.Name)
	s.Same(renamed, s.reducer.Apply(renamed, reducer.RenameSession{Name: ""}))
}

func (s *ReducerTestSuite) TestLoadSession() {
	s.Run("replaces the session without merging", func() {
		state := s.party()
		loaded := builders.NewSessionBuilder().WithName("Other").WithNotes("loaded").Build()

		next := s.reducer.Apply(state, reducer.LoadSession{Session: loaded})

		s.Equal("Other", next.Name)
		s.Empty(next.Characters)
		s.Equal(s.now.UnixMilli(), next.LastUpdated)
		s.NotSame(loaded, next)
	})

	s.Run("migrates legacy snapshots", func() {
		legacy := builders.NewSessionBuilder().WithoutMapState().Build()
		legacy.BattleMap.GridSize = 50
		legacy.BattleMap.ShowGrid = false

		next := s.reducer.Apply(s.party(), reducer.LoadSession{Session: legacy})

		s.Require().NotNil(next.MapState)
		s.Equal(entities.GridSettings{Size: 50, Show: false}, next.MapState.GridSettings)
		s.Equal(-1, next.MapState.HistoryIndex)
		s.Nil(legacy.MapState)
	})
}

func (s *ReducerTestSuite) TestResetSession() {
	state := s.reducer.ApplyAll(s.party(),
		reducer.StartCombat{ParticipantIDs: []string{"p1"}},
		reducer.UpdateNotes{Notes: "notes"},
	)

	next := s.reducer.Apply(state, reducer.ResetSession{})

	s.Empty(next.Characters)
	s.Empty(next.Groups)
	s.Empty(next.BattleMap.Obstacles)
	s.False(next.Combat.IsActive)
	s.Equal(1, next.Combat.Round)
	s.Empty(next.Notes)
	s.Require().NotNil(next.MapState)
	s.Empty(next.MapState.History)
	s.NotEqual(state.ID, next.ID)
}

func (s *ReducerTestSuite) TestActionNamesAreUnique() {
	actions := []reducer.Action{
		reducer.AddCharacter{}, reducer.UpdateCharacter{}, reducer.RemoveCharacter{}, reducer.CloneCharacter{},
		reducer.ApplyDamage{}, reducer.Heal{}, reducer.AddCondition{}, reducer.RemoveCondition{},
		reducer.UseSpellSlot{}, reducer.RestoreSpellSlot{}, reducer.SetSpellSlotMax{}, reducer.UpdateCharacterPosition{},
		reducer.AddGroup{}, reducer.UpdateGroup{}, reducer.RemoveGroup{}, reducer.AssignCharacterToGroup{},
		reducer.RemoveCharacterFromGroup{}, reducer.StartCombat{}, reducer.EndCombat{}, reducer.NextTurn{},
		reducer.PreviousTurn{}, reducer.UpdateCombat{}, reducer.AddToCombat{}, reducer.RemoveFromCombat{},
		reducer.SortByInitiative{}, reducer.RepairTurn{}, reducer.UpdateBattleMap{}, reducer.AddObstacle{},
		reducer.UpdateObstacle{}, reducer.RemoveObstacle{}, reducer.ClearObstacles{}, reducer.ClickCell{},
		reducer.UpdateMapState{}, reducer.RecordHistory{}, reducer.Undo{}, reducer.Redo{},
		reducer.SaveMapTemplate{}, reducer.LoadMapTemplate{}, reducer.RemoveMapTemplate{}, reducer.UpdateNotes{},
		reducer.RenameSession{}, reducer.LoadSession{}, reducer.ResetSession{},
	}

	seen := make(map[string]bool)
	for _, action := range actions {
		s.False(seen[action.ActionName()], "duplicate action name %s", action.ActionName())
		seen[action.ActionName()] = true
	}

	s.Equal("rename_session", reducer.RenameSession{Name: "Moria"}.ActionName())
	s.Equal("save_map_template", reducer.SaveMapTemplate{Name: "Tavern"}.ActionName())
}

func ptr[T any](v T) *T {
	return &v
}
