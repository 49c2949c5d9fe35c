// Package initiative rolls d20 initiative for characters and turns the
// results into session actions.
package initiative

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

// InitiativeDie is the die rolled for initiative
const InitiativeDie = 20

// Service defines the interface for initiative operations
type Service interface {
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)
}

// Config holds the dependencies for the initiative orchestrator
type Config struct {
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type orchestrator struct {
	roller dice.Roller
}

// NewOrchestrator creates a new initiative orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{roller: cfg.Roller}, nil
}

// Roll rolls 1d20 plus modifier for each selected character. Unknown ids
// are skipped.
func (o *orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}

	ids := input.CharacterIDs
	if len(ids) == 0 {
		ids = defaultRollers(input.Session)
	}

	output := &RollOutput{}
	for _, id := range ids {
		c, ok := input.Session.Character(id)
		if !ok {
			slog.DebugContext(ctx, "Skipping initiative for unknown character", "character_id", id)
			continue
		}

		roll, err := o.roller.Roll(InitiativeDie)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll initiative for %s", id)
		}

		modifier := input.Modifiers[id]
		total := roll + modifier
		output.Results = append(output.Results, Result{
			CharacterID: id,
			Name:        c.Name,
			Roll:        roll,
			Modifier:    modifier,
			Total:       total,
		})
		output.Actions = append(output.Actions, reducer.UpdateCharacter{
			ID:    id,
			Patch: entities.CharacterPatch{Initiative: &total},
		})
	}

	if input.Sort && len(output.Actions) > 0 {
		output.Actions = append(output.Actions, reducer.SortByInitiative{})
	}

	return output, nil
}

func defaultRollers(s *entities.SessionData) []string {
	if s.Combat.IsActive && len(s.Combat.Participants) > 0 {
		return s.Combat.Participants
	}

	ids := make([]string, 0, len(s.Characters))
	for _, c := range s.Characters {
		ids = append(ids, c.ID)
	}
	return ids
}
