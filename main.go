package main

// catalog serve               - run the REST API
// catalog migrate             - apply migrations.sql to the configured database
// catalog admin create        - add an admin user
// catalog admin set-password  - change an admin password
// catalog products list|move  - inspect and reorder products through the API

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-management/config"
	"catalog-management/logging"
	"catalog-management/store"
)

// --- EMBED MIGRATIONS ---
//
//go:embed migrations.sql
var migrationSQL string

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultFile, "config file")

	root.AddCommand(serveCmd(), migrateCmd(), adminCmd(), productsCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the config, installs the global logger and sets the process
// time zone. The returned func flushes the logger.
func setup() (*config.AppConfig, func(), error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	_, sync, err := logging.Init(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.System.Location != "" {
		loc, err := time.LoadLocation(cfg.System.Location)
		if err != nil {
			zap.L().Warn("unknown time zone, keeping local", zap.String("location", cfg.System.Location), zap.Error(err))
		} else {
			time.Local = loc
		}
	}
	return cfg, sync, nil
}

// openStore connects the configured database and applies migrations.
func openStore(ctx context.Context, cfg *config.AppConfig) (store.Store, error) {
	if cfg.Database.Driver == "memory" {
		zap.L().Warn("using in-memory store, data is lost on exit")
		return store.NewMemoryStore("Templates", "Plugins", "Courses"), nil
	}

	st, err := store.NewPostgresStore(cfg.DSN(), store.PoolConfig{
		MaxOpen:     cfg.Database.MaxConn,
		MaxIdle:     cfg.Database.IdleConn,
		MaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err := st.Migrate(ctx, migrationSQL); err != nil {
		_ = st.Close()
		return nil, err
	}
	zap.L().Info("database migrations executed",
		zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
	return st, nil
}
