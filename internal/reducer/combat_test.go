package reducer_test

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/testutils/builders"
)

func (s *ReducerTestSuite) TestStartCombatOrdersByInitiative() {
	next := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p1", "p2", "p3"}})

	s.True(next.Combat.IsActive)
	s.Equal([]string{"p2", "p1", "p3"}, next.Combat.Participants)
	s.Equal(0, next.Combat.CurrentTurn)
	s.Equal(1, next.Combat.Round)
	s.Equal(s.now.UnixMilli(), next.Combat.TurnStartTime)

	next = s.reducer.ApplyAll(next, reducer.NextTurn{}, reducer.NextTurn{}, reducer.NextTurn{})
	s.Equal(0, next.Combat.CurrentTurn)
	s.Equal(2, next.Combat.Round)
}

func (s *ReducerTestSuite) TestStartCombatTiesKeepRosterOrder() {
	state := builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("x").WithInitiative(12).Build(),
			builders.NewCharacterBuilder().WithID("y").WithInitiative(18).Build(),
			builders.NewCharacterBuilder().WithID("z").WithInitiative(12).Build(),
		).
		Build()

	next := s.reducer.Apply(state, reducer.StartCombat{ParticipantIDs: []string{"z", "x", "y"}})

	s.Equal([]string{"y", "x", "z"}, next.Combat.Participants)
}

func (s *ReducerTestSuite) TestStartCombatRestartClearsUnselected() {
	state := s.reducer.ApplyAll(s.party(),
		reducer.StartCombat{ParticipantIDs: []string{"p1", "p2"}, UseGroupInitiative: true},
		reducer.NextTurn{},
		reducer.NextTurn{},
	)
	s.Require().Equal(2, state.Combat.Round)

	next := s.reducer.Apply(state, reducer.StartCombat{ParticipantIDs: []string{"p3", "missing"}})

	s.Equal([]string{"p3"}, next.Combat.Participants)
	s.Equal(1, next.Combat.Round)
	s.False(next.Combat.UseGroupInitiative)
	for _, c := range next.Characters {
		s.Equal(c.ID == "p3", c.IsInCombat, c.ID)
	}
}

func (s *ReducerTestSuite) TestEndCombat() {
	state := s.reducer.ApplyAll(s.party(),
		reducer.StartCombat{ParticipantIDs: []string{"p1", "p2", "p3"}, UseGroupInitiative: true},
		reducer.NextTurn{}, reducer.NextTurn{}, reducer.NextTurn{}, reducer.NextTurn{},
	)

	next := s.reducer.Apply(state, reducer.EndCombat{})

	s.False(next.Combat.IsActive)
	s.Empty(next.Combat.Participants)
	s.Equal(0, next.Combat.CurrentTurn)
	s.Equal(int64(0), next.Combat.TurnStartTime)
	// round and the group initiative flag survive
	s.Equal(2, next.Combat.Round)
	s.True(next.Combat.UseGroupInitiative)
	for _, c := range next.Characters {
		s.False(c.IsInCombat)
	}

	s.Same(next, s.reducer.Apply(next, reducer.EndCombat{}))
}

func (s *ReducerTestSuite) TestNextTurnFullCycle() {
	for n := 1; n <= 5; n++ {
		ids := make([]string, n)
		chars := make([]entities.Character, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
			chars[i] = builders.NewCharacterBuilder().WithID(ids[i]).WithInitiative(20 - i).Build()
		}
		state := s.reducer.Apply(
			builders.NewSessionBuilder().WithCharacters(chars...).Build(),
			reducer.StartCombat{ParticipantIDs: ids},
		)

		for i := 0; i < n; i++ {
			state = s.reducer.Apply(state, reducer.NextTurn{})
		}

		s.Equal(0, state.Combat.CurrentTurn, "participants=%d", n)
		s.Equal(2, state.Combat.Round, "participants=%d", n)
	}
}

func (s *ReducerTestSuite) TestPreviousTurnInvertsNextTurn() {
	start := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p1", "p2", "p3"}})

	forward := []*entities.SessionData{start}
	state := start
	for i := 0; i < 7; i++ {
		state = s.reducer.Apply(state, reducer.NextTurn{})
		forward = append(forward, state)
	}

	for i := len(forward) - 1; i > 0; i-- {
		state = s.reducer.Apply(state, reducer.PreviousTurn{})
		s.Equal(forward[i-1].Combat.CurrentTurn, state.Combat.CurrentTurn)
		s.Equal(forward[i-1].Combat.Round, state.Combat.Round)
	}
}

func (s *ReducerTestSuite) TestPreviousTurnNeverDropsBelowRoundOne() {
	state := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p1", "p2", "p3"}})

	next := s.reducer.Apply(state, reducer.PreviousTurn{})

	s.Equal(2, next.Combat.CurrentTurn)
	s.Equal(1, next.Combat.Round)
}

func (s *ReducerTestSuite) TestTurnsSurviveOutOfRangeIndex() {
	state := builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("a").Build(),
			builders.NewCharacterBuilder().WithID("b").Build(),
		).
		WithCombat(5, 3, "a", "b").
		Build()

	next := s.reducer.Apply(state, reducer.NextTurn{})
	s.Equal(0, next.Combat.CurrentTurn)
	s.Equal(4, next.Combat.Round)

	prev := s.reducer.Apply(state, reducer.PreviousTurn{})
	s.Equal(0, prev.Combat.CurrentTurn)
	s.Equal(3, prev.Combat.Round)
}

func (s *ReducerTestSuite) TestUpdateCombat() {
	state := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p1"}})

	limited := s.reducer.Apply(state, reducer.UpdateCombat{Patch: entities.CombatPatch{
		TurnTimeLimit: ptr(60),
		TurnStartTime: ptr(int64(42)),
	}})
	s.Require().NotNil(limited.Combat.TurnTimeLimit)
	s.Equal(60, *limited.Combat.TurnTimeLimit)
	s.Equal(int64(42), limited.Combat.TurnStartTime)
	s.True(limited.Combat.IsActive)

	cleared := s.reducer.Apply(limited, reducer.UpdateCombat{Patch: entities.CombatPatch{ClearTurnTimeLimit: true}})
	s.Nil(cleared.Combat.TurnTimeLimit)
}

func (s *ReducerTestSuite) TestAddToCombat() {
	state := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p2"}})
	state = s.reducer.Apply(state, reducer.NextTurn{})

	next := s.reducer.Apply(state, reducer.AddToCombat{IDs: []string{"p3", "p2", "p1", "p3", "ghost"}})

	s.Equal([]string{"p2", "p3", "p1"}, next.Combat.Participants)
	s.Equal(state.Combat.CurrentTurn, next.Combat.CurrentTurn)
	s.Equal(state.Combat.Round, next.Combat.Round)
	for _, c := range next.Characters {
		s.True(c.IsInCombat, c.ID)
	}

	s.Same(next, s.reducer.Apply(next, reducer.AddToCombat{IDs: []string{"p1"}}))
}

func (s *ReducerTestSuite) TestRemoveFromCombat() {
	state := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p1", "p2", "p3"}})
	state = s.reducer.ApplyAll(state, reducer.NextTurn{}, reducer.NextTurn{})
	s.Require().Equal(2, state.Combat.CurrentTurn)

	next := s.reducer.Apply(state, reducer.RemoveFromCombat{IDs: []string{"p3"}})

	s.Equal([]string{"p2", "p1"}, next.Combat.Participants)
	s.Equal(2, next.Combat.CurrentTurn)
	p3, _ := next.Character("p3")
	p1, _ := next.Character("p1")
	s.False(p3.IsInCombat)
	s.True(p1.IsInCombat)
}

func (s *ReducerTestSuite) TestSortByInitiativeKeepsIndex() {
	state := s.reducer.Apply(s.party(), reducer.StartCombat{ParticipantIDs: []string{"p1", "p2", "p3"}})
	state = s.reducer.Apply(state, reducer.NextTurn{})
	s.Require().Equal("p1", state.Combat.CurrentParticipant())

	state = s.reducer.Apply(state, reducer.UpdateCharacter{ID: "p3", Patch: entities.CharacterPatch{Initiative: ptr(25)}})
	next := s.reducer.Apply(state, reducer.SortByInitiative{})

	s.Equal([]string{"p3", "p2", "p1"}, next.Combat.Participants)
	s.Equal(1, next.Combat.CurrentTurn)
	s.Equal("p2", next.Combat.CurrentParticipant())

	s.Same(next, s.reducer.Apply(next, reducer.SortByInitiative{}))
}

func (s *ReducerTestSuite) TestRepairTurn() {
	base := func(turn int) *entities.SessionData {
		return builders.NewSessionBuilder().
			WithCharacters(
				builders.NewCharacterBuilder().WithID("a").Build(),
				builders.NewCharacterBuilder().WithID("b").Build(),
				builders.NewCharacterBuilder().WithID("c").Build(),
			).
			WithCombat(turn, 1, "a", "b", "c").
			Build()
	}

	s.Run("follows the current participant when an earlier one leaves", func() {
		state := s.reducer.Apply(base(2), reducer.RemoveFromCombat{IDs: []string{"a"}})
		s.Require().Equal(2, state.Combat.CurrentTurn)

		next := s.reducer.Apply(state, reducer.RepairTurn{PreviousCurrentID: "c"})

		s.Equal(1, next.Combat.CurrentTurn)
		s.Equal("c", next.Combat.CurrentParticipant())
	})

	s.Run("clamps when the last participant leaves", func() {
		state := s.reducer.Apply(base(2), reducer.RemoveCharacter{ID: "c"})

		next := s.reducer.Apply(state, reducer.RepairTurn{PreviousCurrentID: "c"})

		s.Equal(1, next.Combat.CurrentTurn)
	})

	s.Run("resets to zero when nobody is left", func() {
		state := s.reducer.Apply(base(1), reducer.RemoveFromCombat{IDs: []string{"a", "b", "c"}})

		next := s.reducer.Apply(state, reducer.RepairTurn{})

		s.Equal(0, next.Combat.CurrentTurn)
	})

	s.Run("valid turn is left alone", func() {
		state := base(1)
		s.Same(state, s.reducer.Apply(state, reducer.RepairTurn{PreviousCurrentID: "b"}))
	})
}

func (s *ReducerTestSuite) TestStartThenEndAlwaysClears() {
	histories := [][]reducer.Action{
		{},
		{reducer.StartCombat{ParticipantIDs: []string{"p1"}}},
		{reducer.AddToCombat{IDs: []string{"p2", "p3"}}},
		{reducer.StartCombat{ParticipantIDs: []string{"p1", "p2"}}, reducer.RemoveFromCombat{IDs: []string{"p1"}}},
	}

	for i, history := range histories {
		state := s.reducer.ApplyAll(s.party(), history...)
		state = s.reducer.ApplyAll(state,
			reducer.StartCombat{ParticipantIDs: []string{"p2", "p3"}},
			reducer.EndCombat{},
		)

		s.Empty(state.Combat.Participants, "history %d", i)
		for _, c := range state.Characters {
			s.False(c.IsInCombat, "history %d character %s", i, c.ID)
		}
	}
}
