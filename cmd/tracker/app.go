package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-session/internal/config"
	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/logging"
	"github.com/KirkDiggler/rpg-session/internal/metrics"
	"github.com/KirkDiggler/rpg-session/internal/orchestrators/initiative"
	"github.com/KirkDiggler/rpg-session/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-session/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-session/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-session/internal/redis"
	"github.com/KirkDiggler/rpg-session/internal/reducer"
	sessionrepo "github.com/KirkDiggler/rpg-session/internal/repositories/session"
)

// flagOverrides holds persistent flag values; only flags the user set
// replace the environment
type flagOverrides struct {
	store      string
	redisAddr  string
	sqlitePath string
	key        string
	idStyle    string
	logFormat  string
	logLevel   string
	metrics    bool
}

// cli wires the orchestrators for one command invocation
type cli struct {
	flags    flagOverrides
	cfg      *config.Config
	clock    clock.Clock
	registry *prometheus.Registry

	sessions   session.Service
	initiative initiative.Service
	closers    []func() error
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	overrides := []struct {
		flag  string
		value string
		dest  *string
	}{
		{"store", c.flags.store, &cfg.Store},
		{"redis-addr", c.flags.redisAddr, &cfg.RedisAddr},
		{"sqlite-path", c.flags.sqlitePath, &cfg.SQLitePath},
		{"key", c.flags.key, &cfg.StorageKey},
		{"id-style", c.flags.idStyle, &cfg.IDStyle},
		{"log-format", c.flags.logFormat, &cfg.LogFormat},
		{"log-level", c.flags.logLevel, &cfg.LogLevel},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dest = o.value
		}
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	c.cfg = cfg
	c.clock = clock.New()
	c.registry = prometheus.NewRegistry()
	metrics.RegisterMetrics(c.registry)

	slog.SetDefault(logging.Setup("tracker", version, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr()))
	return nil
}

// session returns the started session orchestrator, opening the store on
// first use
func (c *cli) session(ctx context.Context) (session.Service, error) {
	if c.sessions != nil {
		return c.sessions, nil
	}

	repo, err := c.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	idGen, err := idgen.New(c.cfg.IDStyle)
	if err != nil {
		return nil, err
	}

	r, err := reducer.New(&reducer.Config{
		IDGenerator: idGen,
		Clock:       c.clock,
	})
	if err != nil {
		return nil, err
	}

	svc, err := session.NewOrchestrator(&session.Config{
		Repository:  repo,
		Reducer:     r,
		Clock:       c.clock,
		StorageKey:  c.cfg.StorageKey,
		SaveRetries: c.cfg.SaveRetries,
		SaveBackoff: c.cfg.SaveBackoff,
		RepairTurn:  c.cfg.RepairTurn,
	})
	if err != nil {
		return nil, err
	}

	if _, err := svc.Start(ctx, &session.StartInput{}); err != nil {
		return nil, err
	}

	c.sessions = svc
	return svc, nil
}

func (c *cli) openRepository(ctx context.Context) (sessionrepo.Repository, error) {
	switch c.cfg.Store {
	case config.StoreRedis:
		client, err := redis.Connect(c.cfg.RedisAddr, &redis.Options{Password: c.cfg.RedisPassword})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
		}
		c.closers = append(c.closers, client.Close)
		return sessionrepo.NewRedisRepository(&sessionrepo.RedisConfig{Client: client})

	case config.StoreSQLite:
		repo, err := sessionrepo.NewSQLiteRepository(ctx, &sessionrepo.SQLiteConfig{
			Path:  c.cfg.SQLitePath,
			Clock: c.clock,
		})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, repo.Close)
		return repo, nil

	default:
		return sessionrepo.NewInMemory(), nil
	}
}

func (c *cli) initiativeService() (initiative.Service, error) {
	if c.initiative != nil {
		return c.initiative, nil
	}

	svc, err := initiative.NewOrchestrator(&initiative.Config{Roller: dice.DefaultRoller})
	if err != nil {
		return nil, err
	}
	c.initiative = svc
	return svc, nil
}

// current returns the live session
func (c *cli) current(cmd *cobra.Command) (*entities.SessionData, error) {
	svc, err := c.session(cmd.Context())
	if err != nil {
		return nil, err
	}

	out, err := svc.GetSession(cmd.Context(), &session.GetSessionInput{})
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

// dispatch applies actions and warns when the result could not be saved
func (c *cli) dispatch(cmd *cobra.Command, actions ...reducer.Action) (*session.DispatchOutput, error) {
	svc, err := c.session(cmd.Context())
	if err != nil {
		return nil, err
	}

	out, err := svc.Dispatch(cmd.Context(), &session.DispatchInput{Actions: actions})
	if err != nil {
		return nil, err
	}

	if !out.Persisted {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the change was applied but could not be saved")
	}
	if !out.Changed {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
	}
	return out, nil
}

func (c *cli) dumpMetrics(w io.Writer) error {
	if !c.flags.metrics || c.registry == nil {
		return nil
	}

	families, err := c.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "failed to write metrics")
		}
	}
	return nil
}

func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}
	c.closers = nil
}
