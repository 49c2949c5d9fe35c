package initiative

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

// RollInput defines the request for rolling initiative
type RollInput struct {
	Session *entities.SessionData
	// CharacterIDs to roll for. Empty means the combat participants when
	// combat is active, otherwise the whole roster.
	CharacterIDs []string
	// Modifiers are added to the d20 per character id
	Modifiers map[string]int
	// Sort appends a SortByInitiative action
	Sort bool
}

// Result is one character's roll
type Result struct {
	CharacterID string
	Name        string
	Roll        int
	Modifier    int
	Total       int
}

// RollOutput defines the response for rolling initiative. Actions are
// ready to dispatch; nothing is applied here.
type RollOutput struct {
	Results []Result
	Actions []reducer.Action
}
