package reducer_test

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/testutils/builders"
)

func (s *ReducerTestSuite) TestAddCharacter() {
	input := builders.NewCharacterBuilder().
		WithID("ignored").
		WithName("Frodo").
		WithGroups("grp_1").
		WithConditions("invisible", "invisible").
		InCombat().
		Build()

	next := s.reducer.Apply(s.party(), reducer.AddCharacter{Character: input})

	s.Require().Len(next.Characters, 4)
	added := next.Characters[3]
	s.Equal("id_1", added.ID)
	s.Equal("Frodo", added.Name)
	s.Empty(added.GroupIDs)
	s.NotNil(added.GroupIDs)
	s.False(added.IsInCombat)
	s.Equal([]string{"invisible"}, added.Conditions)
}

func (s *ReducerTestSuite) TestUpdateCharacter() {
	s.Run("merges only the patched fields", func() {
		next := s.reducer.Apply(s.party(), reducer.UpdateCharacter{
			ID:    "p1",
			Patch: entities.CharacterPatch{Name: ptr("Strider"), ArmorClass: ptr(17)},
		})

		c, ok := next.Character("p1")
		s.Require().True(ok)
		s.Equal("Strider", c.Name)
		s.Equal(17, c.ArmorClass)
		s.Equal(15, c.Initiative)
		s.Equal(20, c.CurrentHP)
	})

	testCases := []struct {
		name      string
		patch     entities.CharacterPatch
		currentHP int
		maxHP     int
	}{
		{
			name:      "current hp above max is clamped",
			patch:     entities.CharacterPatch{CurrentHP: ptr(35)},
			currentHP: 20,
			maxHP:     20,
		},
		{
			name:      "negative current hp is clamped",
			patch:     entities.CharacterPatch{CurrentHP: ptr(-4)},
			currentHP: 0,
			maxHP:     20,
		},
		{
			name:      "lowering max pulls current down",
			patch:     entities.CharacterPatch{MaxHP: ptr(12)},
			currentHP: 12,
			maxHP:     12,
		},
		{
			name:      "max hp is at least one",
			patch:     entities.CharacterPatch{MaxHP: ptr(0)},
			currentHP: 1,
			maxHP:     1,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			next := s.reducer.Apply(s.party(), reducer.UpdateCharacter{ID: "p1", Patch: tc.patch})

			c, _ := next.Character("p1")
			s.Equal(tc.currentHP, c.CurrentHP)
			s.Equal(tc.maxHP, c.MaxHP)
		})
	}
}

func (s *ReducerTestSuite) TestRemoveCharacter() {
	state := builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("p1").Build(),
			builders.NewCharacterBuilder().WithID("p2").Build(),
			builders.NewCharacterBuilder().WithID("p3").Build(),
		).
		WithCombat(2, 1, "p1", "p2", "p3").
		Build()

	next := s.reducer.Apply(state, reducer.RemoveCharacter{ID: "p3"})

	s.Len(next.Characters, 2)
	s.Equal([]string{"p1", "p2"}, next.Combat.Participants)
	// the turn index is left alone and now points past the end
	s.Equal(2, next.Combat.CurrentTurn)
}

func (s *ReducerTestSuite) TestCloneCharacter() {
	original := builders.NewCharacterBuilder().
		WithID("p1").
		WithName("Aragorn").
		WithHP(4, 30).
		WithConditions("poisoned").
		WithGroups("grp_1", "grp_2").
		WithPosition(3, 4).
		InCombat().
		Build()
	state := builders.NewSessionBuilder().WithCharacters(original).Build()

	next := s.reducer.Apply(state, reducer.CloneCharacter{ID: "p1"})

	s.Require().Len(next.Characters, 2)
	clone := next.Characters[1]
	s.Equal("id_1", clone.ID)
	s.Equal("Aragorn (Copy)", clone.Name)
	s.Equal(30, clone.CurrentHP)
	s.Equal(30, clone.MaxHP)
	s.Empty(clone.Conditions)
	s.False(clone.IsInCombat)
	s.Nil(clone.MapPosition)
	s.Equal([]string{"grp_1", "grp_2"}, clone.GroupIDs)

	clone.GroupIDs[0] = "changed"
	s.Equal("grp_1", next.Characters[0].GroupIDs[0])

	again := s.reducer.Apply(next, reducer.CloneCharacter{ID: clone.ID})
	s.Equal("Aragorn (Copy 2)", again.Characters[2].Name)
}

func (s *ReducerTestSuite) TestCloneNaming() {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "Bob", expected: "Bob (Copy)"},
		{name: "Bob (Copy)", expected: "Bob (Copy 2)"},
		{name: "Bob (Copy 2)", expected: "Bob (Copy 3)"},
		{name: "Bob (Copy 9)", expected: "Bob (Copy 10)"},
		{name: "Goblin Archer", expected: "Goblin Archer (Copy)"},
		{name: "Bob(Copy)", expected: "Bob (Copy 2)"},
		{name: "  Bob  (Copy 2)", expected: "Bob (Copy 3)"},
		{name: "\tBob (Copy)", expected: "Bob (Copy 2)"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			state := builders.NewSessionBuilder().
				WithCharacters(builders.NewCharacterBuilder().WithID("c").WithName(tc.name).Build()).
				Build()

			next := s.reducer.Apply(state, reducer.CloneCharacter{ID: "c"})

			s.Equal(tc.expected, next.Characters[1].Name)
		})
	}
}

func (s *ReducerTestSuite) TestDamageAndHeal() {
	state := builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("a").WithHP(10, 20).Build(),
			builders.NewCharacterBuilder().WithID("b").WithHP(3, 8).Build(),
		).
		Build()

	s.Run("damage stops at zero", func() {
		next := s.reducer.Apply(state, reducer.ApplyDamage{IDs: []string{"a", "b", "missing"}, Amount: 5})

		a, _ := next.Character("a")
		b, _ := next.Character("b")
		s.Equal(5, a.CurrentHP)
		s.Equal(0, b.CurrentHP)
	})

	s.Run("heal stops at max", func() {
		next := s.reducer.Apply(state, reducer.Heal{IDs: []string{"a", "b"}, Amount: 7})

		a, _ := next.Character("a")
		b, _ := next.Character("b")
		s.Equal(17, a.CurrentHP)
		s.Equal(8, b.CurrentHP)
	})

	s.Run("non positive amounts are ignored", func() {
		s.Same(state, s.reducer.Apply(state, reducer.ApplyDamage{IDs: []string{"a"}, Amount: 0}))
		s.Same(state, s.reducer.Apply(state, reducer.Heal{IDs: []string{"a"}, Amount: -3}))
	})

	s.Run("heal at full hp changes nothing", func() {
		full := s.reducer.Apply(state, reducer.Heal{IDs: []string{"b"}, Amount: 100})
		s.Same(full, s.reducer.Apply(full, reducer.Heal{IDs: []string{"b"}, Amount: 1}))
	})
}

func (s *ReducerTestSuite) TestConditions() {
	state := builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("a").WithConditions("prone").Build(),
			builders.NewCharacterBuilder().WithID("b").Build(),
		).
		Build()

	next := s.reducer.Apply(state, reducer.AddCondition{IDs: []string{"a", "b"}, Condition: "prone"})
	a, _ := next.Character("a")
	b, _ := next.Character("b")
	s.Equal([]string{"prone"}, a.Conditions)
	s.Equal([]string{"prone"}, b.Conditions)

	s.Same(next, s.reducer.Apply(next, reducer.AddCondition{IDs: []string{"a"}, Condition: "prone"}))

	removed := s.reducer.Apply(next, reducer.RemoveCondition{IDs: []string{"a"}, Condition: "prone"})
	a, _ = removed.Character("a")
	b, _ = removed.Character("b")
	s.Empty(a.Conditions)
	s.Equal([]string{"prone"}, b.Conditions)
}

func (s *ReducerTestSuite) TestSpellSlots() {
	state := builders.NewSessionBuilder().
		WithCharacters(
			builders.NewCharacterBuilder().WithID("wizard").WithSpellSlot(1, 2, 4).Build(),
			builders.NewCharacterBuilder().WithID("fighter").Build(),
		).
		Build()

	s.Run("use and restore stay within range", func() {
		next := s.reducer.ApplyAll(state,
			reducer.UseSpellSlot{ID: "wizard", Level: 1},
			reducer.UseSpellSlot{ID: "wizard", Level: 1},
		)
		wizard, _ := next.Character("wizard")
		s.Equal(0, wizard.SpellSlots.Level1.Current)

		s.Same(next, s.reducer.Apply(next, reducer.UseSpellSlot{ID: "wizard", Level: 1}))

		restored := s.reducer.ApplyAll(next,
			reducer.RestoreSpellSlot{ID: "wizard", Level: 1},
			reducer.RestoreSpellSlot{ID: "wizard", Level: 1},
			reducer.RestoreSpellSlot{ID: "wizard", Level: 1},
			reducer.RestoreSpellSlot{ID: "wizard", Level: 1},
			reducer.RestoreSpellSlot{ID: "wizard", Level: 1},
		)
		wizard, _ = restored.Character("wizard")
		s.Equal(4, wizard.SpellSlots.Level1.Current)
	})

	s.Run("lowering max clamps current", func() {
		next := s.reducer.Apply(state, reducer.SetSpellSlotMax{ID: "wizard", Level: 1, Max: 1})
		wizard, _ := next.Character("wizard")
		s.Equal(entities.SpellSlot{Current: 1, Max: 1}, wizard.SpellSlots.Level1)
	})

	s.Run("first max starts slot tracking", func() {
		next := s.reducer.Apply(state, reducer.SetSpellSlotMax{ID: "fighter", Level: 3, Max: 2})
		fighter, _ := next.Character("fighter")
		s.Require().NotNil(fighter.SpellSlots)
		s.Equal(entities.SpellSlot{Current: 0, Max: 2}, fighter.SpellSlots.Level3)
	})

	s.Run("invalid level is ignored", func() {
		s.Same(state, s.reducer.Apply(state, reducer.UseSpellSlot{ID: "wizard", Level: 10}))
		s.Same(state, s.reducer.Apply(state, reducer.RestoreSpellSlot{ID: "wizard", Level: 0}))
	})
}

func (s *ReducerTestSuite) TestUpdateCharacterPosition() {
	state := s.party()

	moved := s.reducer.Apply(state, reducer.UpdateCharacterPosition{ID: "p1", Position: &entities.Position{X: 2, Y: 5}})
	c, _ := moved.Character("p1")
	s.Require().NotNil(c.MapPosition)
	s.Equal(entities.Position{X: 2, Y: 5}, *c.MapPosition)

	s.Same(moved, s.reducer.Apply(moved, reducer.UpdateCharacterPosition{ID: "p1", Position: &entities.Position{X: 2, Y: 5}}))

	cleared := s.reducer.Apply(moved, reducer.UpdateCharacterPosition{ID: "p1"})
	c, _ = cleared.Character("p1")
	s.Nil(c.MapPosition)
}
