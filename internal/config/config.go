// Package config loads formprompt settings from an optional YAML file, a
// .env file and FORMPROMPT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formprompt/pkg/catalog"
	"github.com/goliatone/go-formprompt/pkg/engine"
)

// EnvPrefix prefixes every environment override, e.g.
// FORMPROMPT_ENGINE_ORDERING=mention.
const EnvPrefix = "FORMPROMPT"

// Config is the full runtime configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig locates the field and template catalog. An empty path
// selects the embedded default catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig tunes resolution.
type EngineConfig struct {
	Ordering       string         `mapstructure:"ordering"`
	NegationWindow int            `mapstructure:"negation_window"`
	Cutoffs        engine.Cutoffs `mapstructure:"cutoffs"`
	BatchLimit     int            `mapstructure:"batch_limit"`
	// Preset names a JSON or YAML field patch document applied to every
	// resolved schema.
	Preset string `mapstructure:"preset"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and the environment apply.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Ordering:       string(engine.OrderSynthesis),
			NegationWindow: 8,
			Cutoffs:        engine.DefaultCutoffs(),
			BatchLimit:     engine.DefaultBatchLimit,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("catalog.path", def.Catalog.Path)
	v.SetDefault("engine.ordering", def.Engine.Ordering)
	v.SetDefault("engine.negation_window", def.Engine.NegationWindow)
	v.SetDefault("engine.batch_limit", def.Engine.BatchLimit)
	v.SetDefault("engine.preset", "")
	v.SetDefault("engine.cutoffs.mention", def.Engine.Cutoffs.Mention)
	v.SetDefault("engine.cutoffs.quantity", def.Engine.Cutoffs.Quantity)
	v.SetDefault("engine.cutoffs.negation", def.Engine.Cutoffs.Negation)
	v.SetDefault("engine.cutoffs.options", def.Engine.Cutoffs.Options)
	v.SetDefault("engine.cutoffs.template", def.Engine.Cutoffs.Template)
	v.SetDefault("engine.cutoffs.fallback", def.Engine.Cutoffs.Fallback)
	v.SetDefault("engine.cutoffs.form_type", def.Engine.Cutoffs.FormType)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

// loadEnvFile applies a .env file from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// Validate rejects unknown ordering modes, out-of-range cutoffs and unknown
// log formats.
func (c *Config) Validate() error {
	var errs []error
	if !engine.Ordering(c.Engine.Ordering).Valid() {
		errs = append(errs, fmt.Errorf("engine.ordering: unknown mode %q", c.Engine.Ordering))
	}
	if c.Engine.NegationWindow < 0 {
		errs = append(errs, errors.New("engine.negation_window: must not be negative"))
	}
	if c.Engine.BatchLimit < 0 {
		errs = append(errs, errors.New("engine.batch_limit: must not be negative"))
	}
	cut := c.Engine.Cutoffs
	for name, val := range map[string]int{
		"mention":   cut.Mention,
		"quantity":  cut.Quantity,
		"negation":  cut.Negation,
		"options":   cut.Options,
		"template":  cut.Template,
		"fallback":  cut.Fallback,
		"form_type": cut.FormType,
	} {
		if val < 0 || val > 100 {
			errs = append(errs, fmt.Errorf("engine.cutoffs.%s: %d outside [0,100]", name, val))
		}
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// EngineOptions turns the configuration into engine options. The catalog
// and preset files are read here so that load failures surface before any
// prompt is resolved.
func (c *Config) EngineOptions(logger *zap.Logger) ([]engine.Option, error) {
	opts := []engine.Option{
		engine.WithOrdering(engine.Ordering(c.Engine.Ordering)),
		engine.WithNegationWindow(c.Engine.NegationWindow),
		engine.WithCutoffs(c.Engine.Cutoffs),
		engine.WithBatchLimit(c.Engine.BatchLimit),
	}
	if logger != nil {
		opts = append(opts, engine.WithLogger(logger))
	}
	if c.Catalog.Path != "" {
		cat, err := catalog.LoadFS(os.DirFS(c.Catalog.Path), catalog.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("config: load catalog %s: %w", c.Catalog.Path, err)
		}
		opts = append(opts, engine.WithCatalog(cat))
	}
	if c.Engine.Preset != "" {
		dir, file := filepath.Split(c.Engine.Preset)
		if dir == "" {
			dir = "."
		}
		preset, err := engine.NewPresetTransformerFromFS(os.DirFS(dir), file)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, engine.WithTransformer(preset))
	}
	return opts, nil
}
