package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Encode renders a session as the indented JSON document used for export
// and storage
func Encode(s *entities.SessionData) ([]byte, error) {
	if s == nil {
		return nil, errors.InvalidArgument("session is required")
	}

	// Clone turns nil collections into empty ones so they encode as [].
	data, err := marshalIndent(s.Clone())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode session")
	}
	return data, nil
}

// marshalIndent is json.MarshalIndent without HTML escaping, so names
// like "D&D" stay readable in exports
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses, validates and migrates a session document. Any failure
// is an InvalidArgument error and no session is returned.
func Decode(data []byte) (*entities.SessionData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.InvalidArgument("session document is empty")
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	// Exports that predate the visibility flags showed both.
	s := &entities.SessionData{
		BattleMap: entities.BattleMap{ShowGrid: true, ShowCoordinates: true},
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode session")
	}

	if err := checkReferences(s); err != nil {
		return nil, err
	}

	return Migrate(normalize(s)), nil
}

// ExportFilename names an export after the session and the UTC date, e.g.
// dnd-session-lost-mine-2024-05-01.json
func ExportFilename(sessionName string, now time.Time) string {
	slug := strings.ToLower(whitespaceRegex.ReplaceAllString(sessionName, "-"))
	return fmt.Sprintf("dnd-session-%s-%s.json", slug, now.UTC().Format(time.DateOnly))
}

// checkReferences rejects documents whose ids cannot be told apart
func checkReferences(s *entities.SessionData) error {
	vb := errors.NewValidationBuilder()

	seen := make(map[string]bool, len(s.Characters))
	for i, c := range s.Characters {
		if seen[c.ID] {
			vb.Fieldf(fmt.Sprintf("characters[%d].id", i), "duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}

	seen = make(map[string]bool, len(s.Groups))
	for i, g := range s.Groups {
		if seen[g.ID] {
			vb.Fieldf(fmt.Sprintf("groups[%d].id", i), "duplicate id %q", g.ID)
		}
		seen[g.ID] = true
	}

	seen = make(map[string]bool, len(s.BattleMap.Obstacles))
	for i, o := range s.BattleMap.Obstacles {
		if seen[o.ID] {
			vb.Fieldf(fmt.Sprintf("battleMap.obstacles[%d].id", i), "duplicate id %q", o.ID)
		}
		seen[o.ID] = true
	}

	return vb.Build()
}

// normalize fills collections and counters a hand-edited or partial
// document may have left out
func normalize(s *entities.SessionData) *entities.SessionData {
	out := s.Clone()
	if out.Combat.Round < 1 {
		out.Combat.Round = 1
	}
	if out.MapState != nil {
		if out.MapState.SelectedTool == "" {
			out.MapState.SelectedTool = entities.ToolSelect
		}
		if out.MapState.Scale <= 0 {
			out.MapState.Scale = entities.DefaultScale
		}
		last := len(out.MapState.History) - 1
		if out.MapState.HistoryIndex > last || out.MapState.HistoryIndex < -1 {
			out.MapState.HistoryIndex = last
		}
	}
	return out
}
