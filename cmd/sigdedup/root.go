package main

import (
	"database/sql"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/japaniel/sigdedup/pkg/config"
	"github.com/japaniel/sigdedup/pkg/db"
	"github.com/japaniel/sigdedup/pkg/logging"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if p := strings.TrimSpace(*c.dbFlag); p != "" {
			cfg.Database.Path = p
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
}

func (c *commandContext) openDB() (*sql.DB, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return conn, cfg, nil
}

func newRootCommand() *cobra.Command {
	var configFlag, dbFlag string
	ctx := &commandContext{configFlag: &configFlag, dbFlag: &dbFlag}

	rootCmd := &cobra.Command{
		Use:           "sigdedup",
		Short:         "Signature-based deduplication of person records sharing a CPF",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default "+config.DefaultFileName+")")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path (overrides database.path)")

	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))
	return rootCmd
}
