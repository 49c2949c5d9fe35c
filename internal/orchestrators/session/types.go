package session

import (
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
)

// Where the session came from at startup
const (
	SourceStored  = "stored"
	SourceDefault = "default"
)

// StartInput defines the request for loading the session at startup
type StartInput struct{}

// StartOutput defines the response for loading the session at startup
type StartOutput struct {
	Session *entities.SessionData
	// Source is SourceStored or SourceDefault
	Source string
}

// DispatchInput defines the request for applying actions. Actions run in
// order and are persisted once at the end.
type DispatchInput struct {
	Actions []reducer.Action
}

// DispatchOutput defines the response for applying actions
type DispatchOutput struct {
	Session *entities.SessionData
	// Changed is false when every action was a no-op
	Changed bool
	// Persisted is false when the save failed. The new state is kept
	// regardless.
	Persisted bool
}

// GetSessionInput defines the request for reading the current session
type GetSessionInput struct{}

// GetSessionOutput defines the response for reading the current session.
// The snapshot is shared and must not be modified.
type GetSessionOutput struct {
	Session *entities.SessionData
}

// ExportInput defines the request for exporting the session
type ExportInput struct{}

// ExportOutput defines the response for exporting the session
type ExportOutput struct {
	Filename string
	Data     []byte
}

// ImportInput defines the request for importing a session document
type ImportInput struct {
	Data []byte
}

// ImportOutput defines the response for importing a session document
type ImportOutput struct {
	Session   *entities.SessionData
	Persisted bool
}
