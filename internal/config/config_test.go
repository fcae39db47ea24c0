package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formprompt/pkg/engine"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formprompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  ordering: mention
  negation_window: 5
  cutoffs:
    template: 90
logging:
  format: json
`), 0o644))

	t.Setenv("FORMPROMPT_ENGINE_BATCH_LIMIT", "9")
	t.Setenv("FORMPROMPT_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mention", cfg.Engine.Ordering)
	assert.Equal(t, 5, cfg.Engine.NegationWindow)
	assert.Equal(t, 90, cfg.Engine.Cutoffs.Template)
	assert.Equal(t, engine.DefaultCutoffs().Quantity, cfg.Engine.Cutoffs.Quantity)
	assert.Equal(t, 9, cfg.Engine.BatchLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("FORMPROMPT_ENGINE_ORDERING", "alphabetical")
	_, err := Load("")
	require.ErrorContains(t, err, "engine.ordering")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Engine.Cutoffs.Negation = 120
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.cutoffs.negation")
	assert.Contains(t, err.Error(), "logging.format")

	require.NoError(t, Default().Validate())
}

func TestEngineOptions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fields.yaml"), []byte(`
fields:
  - id: BADGE_CODE
    label: Badge Code
    type: text
`), 0o644))
	preset := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("fields:\n  BADGE_CODE: {label: Badge}\n"), 0o644))

	cfg := Default()
	cfg.Catalog.Path = dir
	cfg.Engine.Preset = preset

	opts, err := cfg.EngineOptions(nil)
	require.NoError(t, err)

	schema, err := engine.New(opts...).Resolve(context.Background(), engine.Request{Prompt: "ask for the badge code"})
	require.NoError(t, err)
	require.Equal(t, []string{"BADGE_CODE"}, schema.IDs())
	assert.Equal(t, "Badge", schema.Fields[0].Label)
}

func TestEngineOptions_BadCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fields.yaml"), []byte("fields:\n  - id: lower\n"), 0o644))

	cfg := Default()
	cfg.Catalog.Path = dir
	_, err := cfg.EngineOptions(nil)
	require.Error(t, err)
}
