package reducer_test

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	"github.com/KirkDiggler/rpg-session/internal/testutils/builders"
)

func (s *ReducerTestSuite) groupedParty() *entities.SessionData {
	return builders.NewSessionBuilder().
		WithGroups(
			entities.CharacterGroup{ID: "g", Name: "Fellowship", Color: "#3b82f6"},
			entities.CharacterGroup{ID: "h", Name: "Orcs", Color: "#ef4444"},
		).
		WithCharacters(
			builders.NewCharacterBuilder().WithID("A").WithGroups("g").Build(),
			builders.NewCharacterBuilder().WithID("B").WithGroups("g", "h").Build(),
			builders.NewCharacterBuilder().WithID("C").WithGroups("h").Build(),
		).
		Build()
}

func (s *ReducerTestSuite) TestAddAndUpdateGroup() {
	next := s.reducer.Apply(s.party(), reducer.AddGroup{Group: entities.CharacterGroup{
		ID:    "ignored",
		Name:  "Rangers",
		Color: "#10b981",
	}})

	s.Require().Len(next.Groups, 1)
	s.Equal("id_1", next.Groups[0].ID)
	s.Equal("Rangers", next.Groups[0].Name)

	updated := s.reducer.Apply(next, reducer.UpdateGroup{
		ID:    "id_1",
		Patch: entities.GroupPatch{Description: ptr("Northern rangers"), IsActive: ptr(true)},
	})
	s.Equal("Northern rangers", updated.Groups[0].Description)
	s.True(updated.Groups[0].IsActive)
	s.Equal("#10b981", updated.Groups[0].Color)
}

func (s *ReducerTestSuite) TestRemoveGroupCascades() {
	next := s.reducer.Apply(s.groupedParty(), reducer.RemoveGroup{ID: "g"})

	s.Require().Len(next.Groups, 1)
	s.Equal("h", next.Groups[0].ID)
	for _, c := range next.Characters {
		s.NotContains(c.GroupIDs, "g")
	}
	b, _ := next.Character("B")
	s.Equal([]string{"h"}, b.GroupIDs)
}

func (s *ReducerTestSuite) TestRemoveGroupCleansDanglingMemberships() {
	state := builders.NewSessionBuilder().
		WithCharacters(builders.NewCharacterBuilder().WithID("A").WithGroups("gone").Build()).
		Build()

	next := s.reducer.Apply(state, reducer.RemoveGroup{ID: "gone"})

	a, _ := next.Character("A")
	s.Empty(a.GroupIDs)
}

func (s *ReducerTestSuite) TestGroupMembership() {
	state := s.groupedParty()

	s.Run("assign is idempotent", func() {
		next := s.reducer.Apply(state, reducer.AssignCharacterToGroup{CharacterID: "C", GroupID: "g"})
		c, _ := next.Character("C")
		s.Equal([]string{"h", "g"}, c.GroupIDs)

		s.Same(next, s.reducer.Apply(next, reducer.AssignCharacterToGroup{CharacterID: "C", GroupID: "g"}))
	})

	s.Run("removing a non member is a no-op", func() {
		s.Same(state, s.reducer.Apply(state, reducer.RemoveCharacterFromGroup{CharacterID: "A", GroupID: "h"}))
	})

	s.Run("remove drops one membership", func() {
		next := s.reducer.Apply(state, reducer.RemoveCharacterFromGroup{CharacterID: "B", GroupID: "g"})
		b, _ := next.Character("B")
		s.Equal([]string{"h"}, b.GroupIDs)
	})
}
