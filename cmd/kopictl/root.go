package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/storage"
	"kopikeliling/pkg/logger"
)

var flags struct {
	driver     string
	sqlitePath string
	dsn        string
	policyFile string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:           "kopictl",
	Short:         "Maintain a kopikeliling record store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.driver, "driver", storage.DriverSQLite, "storage driver: memory, sqlite or postgres")
	pf.StringVar(&flags.sqlitePath, "sqlite-path", "data/kopikeliling.db", "sqlite database file")
	pf.StringVar(&flags.dsn, "dsn", "", "postgres connection string")
	pf.StringVar(&flags.policyFile, "policy", "", "policy TOML file")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level")
}

// session is an open store for one command run.
type session struct {
	store  *records.Store
	policy policy.Policy
	close  func() error
}

func openSession(cmd *cobra.Command) (context.Context, *session, error) {
	log, err := logger.New(logger.Config{Level: flags.logLevel, Development: true})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	ctx := logger.WithLogger(cmd.Context(), log)

	pol := policy.Default()
	if flags.policyFile != "" {
		if pol, err = policy.Load(flags.policyFile); err != nil {
			return nil, nil, err
		}
	}

	opened, err := storage.Open(ctx, storage.Config{
		Driver:      flags.driver,
		SQLitePath:  flags.sqlitePath,
		DatabaseURL: flags.dsn,
	})
	if err != nil {
		return nil, nil, err
	}
	store, err := records.Open(ctx, opened.Backend, opened.Options()...)
	if err != nil {
		_ = opened.Close()
		return nil, nil, err
	}
	return ctx, &session{store: store, policy: pol, close: opened.Close}, nil
}
