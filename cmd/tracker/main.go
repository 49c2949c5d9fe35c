// Package main is the entry point for the session tracker CLI
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line and releases storage afterwards
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{}
	defer c.close()

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(ctx)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "D&D session tracker",
		Long: `tracker keeps one D&D session (characters, groups, combat turn order,
battle map and notes) in a local store and applies edits to it from the
command line.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.dumpMetrics(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.flags.store, "store", "", "storage backend: memory, redis or sqlite (env TRACKER_STORE)")
	flags.StringVar(&c.flags.redisAddr, "redis-addr", "", "redis address, comma separated for a cluster (env TRACKER_REDIS_ADDR)")
	flags.StringVar(&c.flags.sqlitePath, "sqlite-path", "", "sqlite database file (env TRACKER_SQLITE_PATH)")
	flags.StringVar(&c.flags.key, "key", "", "storage key of the session (env TRACKER_STORAGE_KEY)")
	flags.StringVar(&c.flags.idStyle, "id-style", "", "id style: short, ulid or uuid (env TRACKER_ID_STYLE)")
	flags.StringVar(&c.flags.logFormat, "log-format", "", "log format: text or json (env TRACKER_LOG_FORMAT)")
	flags.StringVar(&c.flags.logLevel, "log-level", "", "log level (env TRACKER_LOG_LEVEL)")
	flags.BoolVar(&c.flags.metrics, "metrics", false, "print Prometheus metrics to stderr after the command")

	root.AddCommand(
		newShowCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newResetCmd(c),
		newSchemaCmd(),
		newNotesCmd(c),
		newRenameCmd(c),
		newCharacterCmd(c),
		newGroupCmd(c),
		newCombatCmd(c),
		newMapCmd(c),
		newDoctorCmd(c),
	)

	return root
}
