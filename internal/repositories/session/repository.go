// Package session persists the tracker's single session snapshot under a
// fixed storage key.
package session

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/KirkDiggler/rpg-session/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/snapshot"
)

// DefaultKey is the storage key used when none is given
const DefaultKey = "dnd-session"

// Repository defines the storage interface for the session snapshot
type Repository interface {
	// Load returns the stored session, or a NotFound error when nothing
	// has been saved under the key yet
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// Save replaces the stored session
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)
}

// LoadInput defines the request for loading a session
type LoadInput struct {
	Key string
}

// LoadOutput defines the response for loading a session
type LoadOutput struct {
	Session *entities.SessionData
}

// SaveInput defines the request for saving a session
type SaveInput struct {
	Key     string
	Session *entities.SessionData
}

// SaveOutput defines the response for saving a session
type SaveOutput struct {
	// Bytes is the size of the stored document
	Bytes int
}

func keyOrDefault(key string) string {
	if key == "" {
		return DefaultKey
	}
	return key
}

func encodeSession(input *SaveInput) ([]byte, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	return snapshot.Encode(input.Session)
}

// decodeStored turns a stored document back into a session. A document
// that no longer decodes is reported as data loss rather than bad input.
func decodeStored(key string, data []byte) (*LoadOutput, error) {
	s, err := snapshot.Decode(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored session is unreadable").
			WithMeta("key", key)
	}
	return &LoadOutput{Session: s}, nil
}
