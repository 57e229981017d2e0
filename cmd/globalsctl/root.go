package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	globals "github.com/goliatone/go-globals"
	"github.com/goliatone/go-globals/config"
	"github.com/goliatone/go-globals/pkg/activity"
	"github.com/goliatone/go-globals/pkg/game"
	"github.com/goliatone/go-globals/pkg/state/badgerstore"
)

type rootFlags struct {
	configPath string
	variant    string
	runtime    string
	saveDir    string
	kvPath     string
	verbose    bool
}

// app is what every subcommand works with once flags are resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend *globals.Backend
}

func (a *app) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

// session builds a syncer bound to a fresh session, attached and bootstrapped
// so live state holds the stored globals.
func (a *app) session(ctx context.Context) (*game.Session, *globals.Syncer, error) {
	session := game.NewSession()
	opts := []globals.Option{
		globals.WithLogger(globals.SlogLogger(a.logger)),
		globals.WithActor("globalsctl"),
	}
	if activityCfg := a.cfg.ActivityOptions(); activityCfg.Enabled {
		opts = append(opts,
			globals.WithActivityHooks(activity.Hooks{logActivity(a.logger)}),
			globals.WithActivityChannel(activityCfg.Channel),
		)
	}
	syncer, err := a.backend.NewSyncer(a.cfg.Registry(), session, opts...)
	if err != nil {
		return nil, nil, err
	}
	syncer.Attach(session)
	if err := globals.NewLifecycle(session, syncer).CreateGameObjects(ctx); err != nil {
		return nil, nil, err
	}
	return session, syncer, nil
}

func logActivity(logger *slog.Logger) activity.HookFunc {
	return func(ctx context.Context, event activity.Event) error {
		logger.InfoContext(ctx, "globals activity",
			slog.String("verb", event.Verb),
			slog.String("channel", event.Channel),
			slog.String("object_id", event.ObjectID),
			slog.Any("metadata", event.Metadata),
		)
		return nil
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "globalsctl",
		Short:         "Inspect and edit the global variables and switches shared across saves",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML configuration file")
	pf.StringVar(&flags.variant, "variant", "", "host variant (MV or MZ)")
	pf.StringVar(&flags.runtime, "runtime", "", "storage runtime (auto, desktop or browser)")
	pf.StringVar(&flags.saveDir, "save-dir", "", "save directory used by the desktop runtime")
	pf.StringVar(&flags.kvPath, "kv-path", "", "database directory used by the browser runtime")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log sync operations")

	open := func(cmd *cobra.Command) (*app, error) {
		return openApp(cmd, flags)
	}
	cmd.AddCommand(
		newShowCmd(open),
		newSetCmd(open),
		newQueryCmd(open),
		newWhereCmd(open),
	)
	return cmd
}

// openApp loads configuration (file, then environment, then changed flags)
// and opens the backend it selects.
func openApp(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("variant") {
		cfg.Variant = flags.variant
	}
	if pf.Changed("runtime") {
		cfg.Runtime = flags.runtime
	}
	if pf.Changed("save-dir") {
		cfg.SaveDir = flags.saveDir
	}
	if pf.Changed("kv-path") {
		cfg.KVPath = flags.kvPath
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	env, err := cfg.Environment()
	if err != nil {
		return nil, err
	}
	backend, err := globals.OpenBackend(cmd.Context(), env, nil, badgerstore.Opener(logger.With("component", "badger")))
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	return &app{cfg: cfg, logger: logger, backend: backend}, nil
}
