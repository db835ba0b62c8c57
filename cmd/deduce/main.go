// Command deduce de-identifies Dutch clinical text and manages the
// dictionary lists the engine reads from its store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/deduce/internal/logger"
	"github.com/cognicore/deduce/pkg/deduce"
	"github.com/cognicore/deduce/pkg/deduce/store"
	"github.com/cognicore/deduce/pkg/deduce/store/sqlite"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
	strict     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "deduce",
		Short:         "De-identify Dutch clinical text",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML configuration (built-in configuration when empty)")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "SQLite store with dictionary lists and the audit trail")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&g.strict, "strict", false, "fail a document when an annotator fails")

	root.AddCommand(
		newAnnotateCmd(g),
		newRedactCmd(g),
		newDictCmd(g),
		newAuditCmd(g),
		newConfigCmd(),
	)
	return root
}

func (g *globalFlags) logger() *logger.Logger {
	return logger.New("deduce", g.logLevel)
}

// openStore opens the SQLite store, or returns nil without --db.
func (g *globalFlags) openStore(ctx context.Context) (store.Store, error) {
	if g.dbPath == "" {
		return nil, nil
	}
	return sqlite.OpenSQLite(ctx, g.dbPath)
}

// requireStore is openStore for commands that cannot work without one.
func (g *globalFlags) requireStore(ctx context.Context) (store.Store, error) {
	if g.dbPath == "" {
		return nil, errors.New("--db is required")
	}
	return g.openStore(ctx)
}

// buildEngine opens the store and builds the engine. The returned cleanup
// closes the store.
func buildEngine(ctx context.Context, g *globalFlags) (*deduce.Deduce, func(), error) {
	st, err := g.openStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	engine, err := deduce.New(ctx, deduce.Options{
		ConfigPath: g.configPath,
		Store:      st,
		Logger:     g.logger(),
		Strict:     g.strict,
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, nil, err
	}
	return engine, func() { engine.Close() }, nil
}
