package engine_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formprompt/pkg/catalog"
	"github.com/goliatone/go-formprompt/pkg/engine"
	"github.com/goliatone/go-formprompt/pkg/model"
)

const presetYAML = `
fields:
  EMAIL:
    label: Work email
    required: false
  PHONE:
    remove: true
  SUBJECT:
    rename: TOPIC
    type: select
    options: [Sales, Support]
  NOT_PRESENT:
    label: ignored
`

func TestPresetTransformerFromFS(t *testing.T) {
	fsys := fstest.MapFS{"preset.yaml": {Data: []byte(presetYAML)}}
	preset, err := engine.NewPresetTransformerFromFS(fsys, "preset.yaml")
	require.NoError(t, err)

	schema, err := engine.New(engine.WithTransformer(preset)).
		Resolve(context.Background(), engine.Request{Prompt: "a contact form"})
	require.NoError(t, err)

	assert.Equal(t, []string{"FULL_NAME", "EMAIL", "TOPIC", "MESSAGE"}, schema.IDs())

	email, _ := schema.Field("EMAIL")
	assert.Equal(t, "Work email", email.Label)
	assert.False(t, email.Required())

	topic, _ := schema.Field("TOPIC")
	assert.Equal(t, catalog.TypeSelect, topic.Type)
	assert.Equal(t, []string{"Sales", "Support"}, topic.Options)
	_, hasMaxLength := topic.Validation[catalog.RuleMaxLength]
	assert.False(t, hasMaxLength, "text rules must not survive a retype to select")
}

func TestPresetTransformer_JSONDocument(t *testing.T) {
	preset, err := engine.NewPresetTransformer([]byte(`{"fields": {"MESSAGE": {"required": true, "label": "Details"}}}`))
	require.NoError(t, err)

	schema := model.ResolvedSchema{Template: "contact", Fields: []model.Field{
		{ID: "MESSAGE", Label: "Message", Type: catalog.TypeTextarea, Validation: catalog.Validation{catalog.RuleRequired: false}},
	}}
	require.NoError(t, preset.Transform(context.Background(), &schema))

	assert.Equal(t, "Details", schema.Fields[0].Label)
	assert.True(t, schema.Fields[0].Required())
}

func TestPresetTransformer_Errors(t *testing.T) {
	_, err := engine.NewPresetTransformer([]byte("  "))
	require.Error(t, err)

	_, err = engine.NewPresetTransformer([]byte("fields:\n  EMAIL:\n    type: hologram\n"))
	require.ErrorContains(t, err, "unknown type")

	_, err = engine.NewPresetTransformerFromFS(nil, "preset.yaml")
	require.Error(t, err)

	_, err = engine.NewPresetTransformerFromFS(fstest.MapFS{}, "missing.yaml")
	require.Error(t, err)

	preset, err := engine.NewPresetTransformer([]byte("fields: {}"))
	require.NoError(t, err)
	require.Error(t, preset.Transform(context.Background(), nil))
}

func TestChain(t *testing.T) {
	var calls []string
	step := func(name string) engine.Transformer {
		return engine.TransformerFunc(func(context.Context, *model.ResolvedSchema) error {
			calls = append(calls, name)
			return nil
		})
	}

	schema := model.ResolvedSchema{Template: model.TemplateCustom}
	require.NoError(t, engine.Chain(step("a"), nil, step("b")).Transform(context.Background(), &schema))
	assert.Equal(t, []string{"a", "b"}, calls)
}
