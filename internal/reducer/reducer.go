// Package reducer is the session state machine: a pure transition function
// from (session, action) to the next session.
//
// Transitions are copy-on-write. The input snapshot is never modified; an
// action that changes nothing returns the input pointer itself, and any
// real change returns a new snapshot stamped with the current time.
// Actions that reference an unknown id are silent no-ops.
package reducer

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-session/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-session/internal/snapshot"
)

// Config holds the dependencies for the reducer
type Config struct {
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// Reducer applies actions to session snapshots. It holds no session state
// of its own and is safe for concurrent use when its collaborators are.
type Reducer struct {
	idGen idgen.Generator
	clock clock.Clock
}

// New creates a reducer with the provided dependencies
func New(cfg *Config) (*Reducer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Reducer{
		idGen: cfg.IDGenerator,
		clock: cfg.Clock,
	}, nil
}

// NewSession builds a default session with fresh ids
func (r *Reducer) NewSession() *entities.SessionData {
	return entities.NewSession(r.idGen.Generate(), r.idGen.Generate(), r.now())
}

// Apply returns the session that results from applying action to state.
// A nil state is treated as a fresh default session and a legacy state is
// migrated before the action runs.
func (r *Reducer) Apply(state *entities.SessionData, action Action) *entities.SessionData {
	if state == nil {
		state = r.NewSession()
	} else {
		state = snapshot.Migrate(state)
	}
	if action == nil {
		return state
	}

	next := action.apply(r, state)
	if next != state {
		next.LastUpdated = r.now()
	}
	return next
}

// ApplyAll folds actions over state in order
func (r *Reducer) ApplyAll(state *entities.SessionData, actions ...Action) *entities.SessionData {
	for _, action := range actions {
		state = r.Apply(state, action)
	}
	return state
}

func (r *Reducer) now() int64 {
	return clock.Millis(r.clock.Now())
}

func (r *Reducer) newID() string {
	return r.idGen.Generate()
}

func (a UpdateNotes) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if s.Notes == a.Notes {
		return s
	}
	next := s.Clone()
	next.Notes = a.Notes
	return next
}

func (a RenameSession) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if a.Name == "" || s.Name == a.Name {
		return s
	}
	next := s.Clone()
	next.Name = a.Name
	return next
}

func (a LoadSession) apply(_ *Reducer, s *entities.SessionData) *entities.SessionData {
	if a.Session == nil {
		return s
	}
	// Clone first so the caller's value is never aliased by the live session.
	return snapshot.Migrate(a.Session.Clone())
}

func (ResetSession) apply(r *Reducer, _ *entities.SessionData) *entities.SessionData {
	return r.NewSession()
}
