package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formprompt/internal/config"
	"github.com/goliatone/go-formprompt/internal/logger"
	"github.com/goliatone/go-formprompt/pkg/engine"
)

// app holds state shared by every command. It is populated by the root
// PersistentPreRunE so subcommands see a ready engine.
type app struct {
	configPath string
	logLevel   string
	ordering   string

	cfg      *config.Config
	logger   *zap.Logger
	engine   *engine.Engine
	prompter Prompter
}

func newRootCmd(prompter Prompter) *cobra.Command {
	a := &app{prompter: prompter}

	root := &cobra.Command{
		Use:   "formprompt",
		Short: "Turn natural-language prompts into form schemas",
		Long: `formprompt resolves short descriptions such as "a contact form without phone"
into ordered form schemas with validation rules.

Available subcommands:
  resolve     - Resolve one prompt
  batch       - Resolve a file of prompts, one per line
  catalog     - Inspect the field and template catalog
  interactive - Describe forms in a guided session`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&a.ordering, "ordering", "", "field ordering override (synthesis, mention)")

	root.AddCommand(
		newResolveCmd(a),
		newBatchCmd(a),
		newCatalogCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.ordering != "" {
		cfg.Engine.Ordering = a.ordering
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	opts, err := cfg.EngineOptions(log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	a.engine = engine.New(opts...)
	if a.engine.Catalog() == nil {
		return fmt.Errorf("formprompt: %w", engine.ErrNoCatalog)
	}
	log.Debug("engine ready",
		zap.String("command", cmd.Name()),
		zap.String("ordering", string(a.engine.Ordering())),
		zap.Int("fields", a.engine.Catalog().Len()))
	return nil
}
