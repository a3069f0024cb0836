package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stardust/internal/clock"
	"stardust/internal/config"
	"stardust/internal/defs"
	"stardust/internal/engine"
	"stardust/internal/log"
	"stardust/internal/service"
	"stardust/internal/store"
)

var (
	version = "dev"
	commit  = "none"
)

type flags struct {
	configPath string
	dbPath     string
	logLevel   string
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "stardust",
		Short:         "Incremental space shooter simulation",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			level := log.ParseLevel(f.logLevel)
			if f.logFile != "" {
				if err := log.SetFileOutput(f.logFile, level); err != nil {
					return fmt.Errorf("log file: %w", err)
				}
			} else {
				log.SetOutput(cmd.ErrOrStderr(), level)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			log.Close()
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "save database path (overrides storage.path)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&f.logFile, "log-file", "", "append logs to this file instead of stderr")

	root.AddCommand(newPlayCmd(f), newStatusCmd(f), newExportCmd(f), newImportCmd(f), newSavesCmd(f))
	return root
}

// session is an opened save database with a loaded game service.
type session struct {
	cfg   config.Config
	store *store.SQLite
	eng   *engine.Engine
	svc   *service.GameService
}

func openSession(ctx context.Context, f *flags) (*session, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.dbPath != "" {
		cfg.Storage.Path = f.dbPath
	}
	st, err := store.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	eng := engine.New(cfg, defs.Default(), engine.WithIDGenerator(uuid.NewString))
	svc := service.NewGameService(cfg, clock.RealClock{}, eng, st)
	for _, ev := range svc.Load(ctx) {
		log.Info("load event", "type", ev.Type, "data", ev.Data)
	}
	return &session{cfg: cfg, store: st, eng: eng, svc: svc}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		log.Warn("close store", "error", err)
	}
}
