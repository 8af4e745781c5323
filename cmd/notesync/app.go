package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notesync/notesync/internal/config"
	"github.com/notesync/notesync/internal/logging"
	"github.com/notesync/notesync/internal/notion"
	"github.com/notesync/notesync/internal/sync"
	"github.com/notesync/notesync/internal/utils"
	"github.com/spf13/cobra"
)

// app carries the per-invocation wiring: loaded config, logging teardown,
// and a lazily constructed API client so commands that never talk to the
// service work without a token.
type app struct {
	cfg      *config.Config
	client   *notion.Client
	closeLog func() error
}

// newApp loads the config named by --config and installs the logger. A
// missing config file is bootstrapped with a starter file and reported as
// a fatal error so the user can fill in their credentials first.
func newApp(cmd *cobra.Command) (*app, error) {
	cmd.SilenceUsage = true

	path := config.DefaultConfigPath
	if f := cmd.Flag("config"); f != nil {
		path = f.Value.String()
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrDefaultCreated) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Default configuration created at %s\n", path)
			fmt.Fprintln(cmd.ErrOrStderr(), "Please edit the configuration file and run the command again.")
			cmd.SilenceErrors = true
		}
		return nil, err
	}

	closeLog := logging.Setup(logging.Options{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    cfg.Logging.File,
	})

	return &app{cfg: cfg, closeLog: closeLog}, nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// api returns the API client, building it on first use.
func (a *app) api() (*notion.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	var opts []notion.Option
	if u := a.cfg.API.BaseURL; u != "" {
		opts = append(opts, notion.WithBaseURL(u))
	}
	if v := a.cfg.API.NotionVersion; v != "" && v != notion.APIVersion {
		opts = append(opts, notion.WithAPIVersion(v))
	}

	client, err := notion.New(a.cfg.API.Token, opts...)
	if err != nil {
		if errors.Is(err, notion.ErrNoToken) {
			return nil, fmt.Errorf("%w (set api.token in the config or the %s environment variable)", err, config.TokenEnv)
		}
		return nil, err
	}

	a.client = client
	return client, nil
}

// selectDatabases resolves the positional database argument and --all into
// the configs to operate on.
func (a *app) selectDatabases(args []string, all bool) ([]*config.DatabaseConfig, error) {
	if all {
		if len(a.cfg.Databases) == 0 {
			return nil, errors.New("no databases configured")
		}
		dbs := make([]*config.DatabaseConfig, 0, len(a.cfg.Databases))
		for i := range a.cfg.Databases {
			dbs = append(dbs, &a.cfg.Databases[i])
		}
		return dbs, nil
	}

	if len(args) == 0 {
		return nil, errors.New("specify a database name or use --all")
	}

	db, err := a.cfg.Database(args[0])
	if err != nil {
		names := make([]string, 0, len(a.cfg.Databases))
		for _, d := range a.cfg.Databases {
			names = append(names, d.Name)
		}
		return nil, fmt.Errorf("%w (configured: %s)", err, strings.Join(names, ", "))
	}
	return []*config.DatabaseConfig{db}, nil
}

// forEachDatabase runs fn over the selected databases, stopping at the
// first failure.
func (a *app) forEachDatabase(args []string, all bool, fn func(*config.DatabaseConfig) error) error {
	dbs, err := a.selectDatabases(args, all)
	if err != nil {
		return err
	}
	for _, db := range dbs {
		if err := fn(db); err != nil {
			return err
		}
	}
	return nil
}

// syncOptions selects which phases of a run execute. The pull/push
// toggles in the database config can still veto a phase.
type syncOptions struct {
	pull bool
	push bool
	full bool // force a full pull instead of incremental
}

// syncDatabase runs the selected phases for one database: pull remote
// changes into the output directory, then push locally modified files
// back. Phases run strictly in that order, never interleaved.
func (a *app) syncDatabase(ctx context.Context, db *config.DatabaseConfig, opts syncOptions) error {
	if db.ID == "" {
		return fmt.Errorf("database %q has no id configured", db.Name)
	}

	client, err := a.api()
	if err != nil {
		return err
	}

	policy, err := sync.ParseConflictPolicy(a.cfg.Defaults.ConflictResolution)
	if err != nil {
		return err
	}

	dir, err := utils.ResolvePath(db.OutputDir)
	if err != nil {
		return err
	}

	ledger, err := sync.OpenLedger(dir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	engine := sync.NewEngine(client, ledger, db.ID, policy)
	slog.Info("syncing database", "name", db.Name, "id", db.ID, "dir", dir)

	if opts.pull && db.Sync.PullEnabled() {
		full := opts.full || !db.Sync.IncrementalEnabled()
		result, err := engine.Pull(ctx, sync.PullOptions{Full: full})
		if err != nil {
			return fmt.Errorf("pull %s: %w", db.Name, err)
		}
		slog.Info("pull complete", "name", db.Name, "new", len(result.New), "updated", len(result.Updated))
	}

	if opts.push && db.Sync.PushEnabled() {
		modified := ledger.DetectLocalChanges()
		if len(modified) == 0 {
			slog.Info("no local changes", "name", db.Name)
			return nil
		}
		slog.Info("found locally modified files", "name", db.Name, "count", len(modified))
		pushed, err := engine.Push(ctx, modified)
		if err != nil {
			return fmt.Errorf("push %s: %w", db.Name, err)
		}
		slog.Info("push complete", "name", db.Name, "pushed", len(pushed))
	}

	return nil
}
