// Package session implements the session orchestrator: it owns the live
// snapshot, serialises dispatch through the reducer and persists every
// transition.
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/rpg-session/internal/orchestrators/session Service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/metrics"
	"github.com/KirkDiggler/rpg-session/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	sessionrepo "github.com/KirkDiggler/rpg-session/internal/repositories/session"
	"github.com/KirkDiggler/rpg-session/internal/snapshot"
)

var tracer = otel.Tracer("rpg-session/orchestrators/session")

// DefaultSaveBackoff is the first retry delay when none is configured
const DefaultSaveBackoff = 50 * time.Millisecond

// Service defines the interface for session operations
type Service interface {
	// Start loads the stored session, falling back to a fresh default when
	// nothing is stored or the stored document is unreadable
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Dispatch applies actions to the live session and persists the result
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error)

	// GetSession returns the live session
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// Export renders the live session as a downloadable document
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)

	// Import replaces the live session with a document. A rejected
	// document leaves the live session untouched.
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	Repository sessionrepo.Repository
	Reducer    *reducer.Reducer
	Clock      clock.Clock

	// StorageKey defaults to sessionrepo.DefaultKey
	StorageKey string

	// SaveRetries is how many times a failed save is retried
	SaveRetries uint64
	SaveBackoff time.Duration

	// RepairTurn re-points the current turn after participants are removed
	RepairTurn bool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Reducer == nil {
		vb.RequiredField("Reducer")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.SaveBackoff < 0 {
		vb.Field("SaveBackoff", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	repo        sessionrepo.Repository
	reducer     *reducer.Reducer
	clock       clock.Clock
	key         string
	saveRetries uint64
	saveBackoff time.Duration
	repairTurn  bool

	mu      sync.Mutex
	current *entities.SessionData
}

// NewOrchestrator creates a new session orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	key := cfg.StorageKey
	if key == "" {
		key = sessionrepo.DefaultKey
	}
	backoff := cfg.SaveBackoff
	if backoff == 0 {
		backoff = DefaultSaveBackoff
	}

	return &orchestrator{
		repo:        cfg.Repository,
		reducer:     cfg.Reducer,
		clock:       cfg.Clock,
		key:         key,
		saveRetries: cfg.SaveRetries,
		saveBackoff: backoff,
		repairTurn:  cfg.RepairTurn,
	}, nil
}

// Start loads the stored session
func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	ctx, span := tracer.Start(ctx, "session.start", trace.WithAttributes(
		attribute.String("storage.key", o.key),
	))
	defer span.End()

	o.mu.Lock()
	defer o.mu.Unlock()

	out, err := o.repo.Load(ctx, &sessionrepo.LoadInput{Key: o.key})
	switch {
	case err == nil:
		o.current = out.Session
		slog.InfoContext(ctx, "Session loaded",
			"session_id", o.current.ID,
			"characters", len(o.current.Characters),
		)
		return &StartOutput{Session: o.current, Source: SourceStored}, nil

	case errors.IsNotFound(err):
		o.current = o.reducer.NewSession()
		slog.InfoContext(ctx, "No stored session, starting fresh", "session_id", o.current.ID)
		return &StartOutput{Session: o.current, Source: SourceDefault}, nil

	case errors.IsDataLoss(err):
		o.current = o.reducer.NewSession()
		slog.WarnContext(ctx, "Stored session is unreadable, starting fresh",
			"key", o.key,
			"error", err,
		)
		return &StartOutput{Session: o.current, Source: SourceDefault}, nil

	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "failed to load session")
	}
}

// Dispatch applies actions in order
func (o *orchestrator) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	names := make([]string, 0, len(input.Actions))
	for _, action := range input.Actions {
		if action == nil {
			return nil, errors.InvalidArgument("actions must not be nil")
		}
		names = append(names, action.ActionName())
	}

	ctx, span := tracer.Start(ctx, "session.dispatch", trace.WithAttributes(
		attribute.StringSlice("session.actions", names),
	))
	defer span.End()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return nil, errors.FailedPrecondition("session has not been started")
	}

	start := o.clock.Now()
	before := o.current
	state := before
	for _, action := range input.Actions {
		state = o.apply(ctx, state, action)
	}

	changed := state != before
	o.current = state
	span.SetAttributes(attribute.Bool("session.changed", changed))

	persisted := true
	if changed {
		if err := o.persist(ctx, state); err != nil {
			span.RecordError(err)
			persisted = false
		}
	}

	metrics.RecordDispatchDuration(durationLabel(names), o.clock.Now().Sub(start))

	return &DispatchOutput{
		Session:   state,
		Changed:   changed,
		Persisted: persisted,
	}, nil
}

func durationLabel(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return "batch"
}

// apply runs one action and, when it removed participants, the turn repair
func (o *orchestrator) apply(ctx context.Context, state *entities.SessionData, action reducer.Action) *entities.SessionData {
	previousCurrent := state.Combat.CurrentParticipant()

	next := o.reducer.Apply(state, action)
	metrics.RecordDispatch(action.ActionName(), next != state)
	slog.DebugContext(ctx, "Action dispatched",
		"action", action.ActionName(),
		"changed", next != state,
	)

	if next == state || !o.repairTurn {
		return next
	}

	switch action.(type) {
	case reducer.RemoveCharacter, *reducer.RemoveCharacter, reducer.RemoveFromCombat, *reducer.RemoveFromCombat:
		repair := reducer.RepairTurn{PreviousCurrentID: previousCurrent}
		repaired := o.reducer.Apply(next, repair)
		metrics.RecordDispatch(repair.ActionName(), repaired != next)
		return repaired
	}
	return next
}

// persist saves with bounded exponential backoff. Only retryable errors
// are retried. The caller keeps the new state whatever the outcome.
func (o *orchestrator) persist(ctx context.Context, s *entities.SessionData) error {
	backoff := retry.WithMaxRetries(o.saveRetries, retry.NewExponential(o.saveBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		metrics.RecordSaveAttempt()
		_, err := o.repo.Save(ctx, &sessionrepo.SaveInput{Key: o.key, Session: s})
		if err != nil && errors.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	metrics.RecordSave(err)

	if err != nil {
		slog.WarnContext(ctx, "Failed to persist session",
			"session_id", s.ID,
			"key", o.key,
			"error", err,
		)
	}
	return err
}

// GetSession returns the live session
func (o *orchestrator) GetSession(_ context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return nil, errors.FailedPrecondition("session has not been started")
	}
	return &GetSessionOutput{Session: o.current}, nil
}

// Export encodes the live session
func (o *orchestrator) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	_, span := tracer.Start(ctx, "session.export")
	defer span.End()

	o.mu.Lock()
	current := o.current
	o.mu.Unlock()

	if current == nil {
		return nil, errors.FailedPrecondition("session has not been started")
	}

	data, err := snapshot.Encode(current)
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		Filename: snapshot.ExportFilename(current.Name, o.clock.Now()),
		Data:     data,
	}, nil
}

// Import validates a document and loads it as the live session
func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	ctx, span := tracer.Start(ctx, "session.import", trace.WithAttributes(
		attribute.Int("document.bytes", len(input.Data)),
	))
	defer span.End()

	imported, err := snapshot.Decode(input.Data)
	metrics.RecordImport(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.WarnContext(ctx, "Import rejected", "error", err)
		return nil, err
	}

	out, err := o.Dispatch(ctx, &DispatchInput{
		Actions: []reducer.Action{reducer.LoadSession{Session: imported}},
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Session imported",
		"session_id", out.Session.ID,
		"characters", len(out.Session.Characters),
	)

	return &ImportOutput{Session: out.Session, Persisted: out.Persisted}, nil
}
