package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/model"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

func newTestResolver(t *testing.T, mutate ...func(*Config)) *Resolver {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	cfg := DefaultConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewResolver(cat, cfg)
}

func resolvePrompt(r *Resolver, prompt string) (model.ResolvedSchema, Report) {
	tokens := annotate.NewHeuristic().Annotate(prompt)
	return r.Resolve(Input{Prompt: prompt, Tokens: tokens})
}

func assertIDs(t *testing.T, schema model.ResolvedSchema, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, schema.IDs()); diff != "" {
		t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
	}
}

func mustField(t *testing.T, schema model.ResolvedSchema, id string) model.Field {
	t.Helper()
	f, ok := schema.Field(id)
	if !ok {
		t.Fatalf("field %s missing from %v", id, schema.IDs())
	}
	return f
}

func TestResolve_QuantifiedRequiredReferences(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "3 required reference boxes")

	if schema.Template != model.TemplateCustom {
		t.Fatalf("template = %q, want custom", schema.Template)
	}
	assertIDs(t, schema, "REFERENCE_1", "REFERENCE_2", "REFERENCE_3")
	for i, f := range schema.Fields {
		if !f.Required() {
			t.Errorf("%s should be required: %v", f.ID, f.Validation)
		}
		if f.Source != model.SourceQuantifier {
			t.Errorf("%s source = %q", f.ID, f.Source)
		}
		wantLabel := []string{"Reference #1", "Reference #2", "Reference #3"}[i]
		if f.Label != wantLabel {
			t.Errorf("label = %q, want %q", f.Label, wantLabel)
		}
	}
	want := catalog.Validation{"maxLength": 255, "required": true}
	if diff := cmp.Diff(want, schema.Fields[0].Validation); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_QuantifiedFieldNoun(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "two email fields")

	assertIDs(t, schema, "EMAIL_1", "EMAIL_2")
	for i, f := range schema.Fields {
		if f.Source != model.SourceQuantifier || f.Type != catalog.TypeEmail {
			t.Errorf("unexpected field %+v", f)
		}
		if want := []string{"Email #1", "Email #2"}[i]; f.Label != want {
			t.Errorf("label = %q, want %q", f.Label, want)
		}
	}
}

func TestResolve_OptionalCommentFields(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a form with two optional comment fields")

	assertIDs(t, schema, "COMMENT_1", "COMMENT_2")
	for _, f := range schema.Fields {
		if f.Required() {
			t.Errorf("%s should be optional: %v", f.ID, f.Validation)
		}
		if f.Type != catalog.TypeTextarea {
			t.Errorf("%s type = %q", f.ID, f.Type)
		}
	}
}

func TestResolve_NegationRemovesTemplateField(t *testing.T) {
	r := newTestResolver(t)
	schema, report := resolvePrompt(r, "a contact form without a phone field")

	if schema.Template != "contact" {
		t.Fatalf("template = %q, want contact", schema.Template)
	}
	assertIDs(t, schema, "FULL_NAME", "EMAIL", "SUBJECT", "MESSAGE")
	if diff := cmp.Diff([]string{"PHONE"}, report.Excluded); diff != "" {
		t.Fatalf("excluded mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_RangeWithoutNumericField(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "rate your experience 1-10")

	assertIDs(t, schema, "DYNAMIC_RANGE_1")
	f := schema.Fields[0]
	if f.Type != catalog.TypeRange {
		t.Fatalf("type = %q, want range", f.Type)
	}
	if f.Label != "Experience (1-10)" {
		t.Fatalf("label = %q", f.Label)
	}
	want := catalog.Validation{"min": 1, "max": 10, "required": false}
	if diff := cmp.Diff(want, f.Validation); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_StrayLetterInventsNothing(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a form with field x")

	for _, id := range schema.IDs() {
		if id == "GENDER" || id == "PHONE" {
			t.Fatalf("a single letter must not resolve to %s: %v", id, schema.IDs())
		}
	}
}

func TestResolve_RangeBindsExistingNumericField(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "ask for age 18-99")

	assertIDs(t, schema, "AGE")
	f := schema.Fields[0]
	if f.Type != catalog.TypeRange || f.Label != "Age (18-99)" {
		t.Fatalf("unexpected field %+v", f)
	}
	if f.Validation["min"] != 18 || f.Validation["max"] != 99 {
		t.Fatalf("bounds = %v", f.Validation)
	}
}

func TestResolve_LongerRelaxationBeatsNegation(t *testing.T) {
	r := newTestResolver(t)
	schema, report := resolvePrompt(r, "email required, phone not required")

	assertIDs(t, schema, "EMAIL", "PHONE")
	if !mustField(t, schema, "EMAIL").Required() {
		t.Errorf("EMAIL should be required")
	}
	if mustField(t, schema, "PHONE").Required() {
		t.Errorf("PHONE should be optional")
	}
	if len(report.Excluded) != 0 {
		t.Fatalf("nothing should be excluded, got %v", report.Excluded)
	}
}

func TestResolve_LongestTemplateKeyWins(t *testing.T) {
	r := newTestResolver(t)
	schema, report := resolvePrompt(r, "an event registration form")

	if schema.Template != "event_registration" {
		t.Fatalf("template = %q (key %q)", schema.Template, report.TemplateKey)
	}
	assertIDs(t, schema, "FULL_NAME", "EMAIL", "PHONE", "TICKET_TYPE", "ATTENDEES", "DIETARY_NEEDS")
	if mustField(t, schema, "DIETARY_NEEDS").Required() {
		t.Fatalf("template override should keep DIETARY_NEEDS optional")
	}
}

func TestResolve_ConfirmPasswordFollowsPassword(t *testing.T) {
	r := newTestResolver(t)
	prompt := "signup form with password and confirm password"
	first, _ := resolvePrompt(r, prompt)
	second, _ := resolvePrompt(r, prompt)

	if first.Template != "signup" {
		t.Fatalf("template = %q", first.Template)
	}
	assertIDs(t, first, "PASSWORD", "CONFIRM_PASSWORD", "FULL_NAME", "EMAIL")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
	want := catalog.Validation{"minLength": 8, "required": true, "rule": "must match password"}
	if diff := cmp.Diff(want, mustField(t, first, "CONFIRM_PASSWORD").Validation); diff != "" {
		t.Fatalf("confirm validation mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_ConfirmationInsertedNextToPassword(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a login form where users re-enter the password")

	if schema.Template != "login" {
		t.Fatalf("template = %q", schema.Template)
	}
	assertIDs(t, schema, "PASSWORD", "CONFIRM_PASSWORD", "EMAIL")
}

func TestResolve_GlobalAttributeWithException(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a contact form where all fields are required except phone")

	assertIDs(t, schema, "FULL_NAME", "EMAIL", "PHONE", "SUBJECT", "MESSAGE")
	for _, f := range schema.Fields {
		want := f.ID != "PHONE"
		if f.Required() != want {
			t.Errorf("%s required = %v, want %v", f.ID, f.Required(), want)
		}
	}
}

func TestResolve_AttributeBindsToMentionNotTemplate(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a job application form where the cover letter is optional")

	if schema.Template != "job_application" {
		t.Fatalf("template = %q", schema.Template)
	}
	cover := mustField(t, schema, "COVER_LETTER")
	if cover.Required() || cover.Source != model.SourceMatcher {
		t.Fatalf("unexpected cover letter %+v", cover)
	}
	if !mustField(t, schema, "RESUME").Required() {
		t.Fatalf("template override should make RESUME required")
	}
}

func TestResolve_DynamicOptionsField(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a color field with options red, green and blue")

	assertIDs(t, schema, "DYNAMIC_SELECT_1")
	f := schema.Fields[0]
	if f.Type != catalog.TypeSelect || f.Label != "Color" {
		t.Fatalf("unexpected field %+v", f)
	}
	if diff := cmp.Diff([]string{"Red", "Green", "Blue"}, f.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_OptionsRetypeCatalogField(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "gender with options Woman, Man or Other")

	assertIDs(t, schema, "GENDER")
	f := schema.Fields[0]
	if f.Type != catalog.TypeSelect || f.Source != model.SourceDynamicOptions {
		t.Fatalf("unexpected field %+v", f)
	}
	if diff := cmp.Diff([]string{"Woman", "Man", "Other"}, f.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_GenericRequestsSuppressTemplate(t *testing.T) {
	r := newTestResolver(t)
	schema, report := resolvePrompt(r, "a contact form with 3 text fields and 2 date fields")

	if schema.Template != model.TemplateCustom || report.Template != "" {
		t.Fatalf("generic requests must suppress templates, got %q", schema.Template)
	}
	assertIDs(t, schema,
		"GENERIC_TEXT_1", "GENERIC_TEXT_2", "GENERIC_TEXT_3",
		"GENERIC_DATE_1", "GENERIC_DATE_2",
	)
	if got := schema.Fields[4].Label; got != "Date Field #2" {
		t.Fatalf("label = %q", got)
	}
}

func TestResolve_NameDedup(t *testing.T) {
	r := newTestResolver(t)
	schema, _ := resolvePrompt(r, "a signup form with first name and last name")

	for _, id := range schema.IDs() {
		if id == "FULL_NAME" {
			t.Fatalf("FULL_NAME should be dropped when both name parts exist: %v", schema.IDs())
		}
	}
	mustField(t, schema, "FIRST_NAME")
	mustField(t, schema, "LAST_NAME")
}

func TestResolve_MentionOrdering(t *testing.T) {
	synth := newTestResolver(t)
	mention := newTestResolver(t, func(c *Config) { c.Ordering = OrderMention })
	prompt := "a contact form with my linkedin"

	a, _ := resolvePrompt(synth, prompt)
	assertIDs(t, a, "LINKEDIN", "FULL_NAME", "EMAIL", "PHONE", "SUBJECT", "MESSAGE")

	b, _ := resolvePrompt(mention, prompt)
	assertIDs(t, b, "FULL_NAME", "EMAIL", "PHONE", "SUBJECT", "MESSAGE", "LINKEDIN")
}

func TestResolve_EmptyPrompt(t *testing.T) {
	r := newTestResolver(t)
	for _, prompt := range []string{"", "   ", "hello there", "???"} {
		schema, _ := resolvePrompt(r, prompt)
		if !schema.Empty() || schema.Template != model.TemplateCustom {
			t.Errorf("%q: expected empty custom schema, got %+v", prompt, schema)
		}
		if schema.Fields == nil {
			t.Errorf("%q: fields should be an empty slice", prompt)
		}
	}
}

func TestResolve_IdempotentAndExclusionSafe(t *testing.T) {
	r := newTestResolver(t)
	prompts := []string{
		"a contact form without a phone field",
		"registration form but no date of birth, with 2 optional reference fields",
		"job application except linkedin and start date",
		"feedback survey with a rating 1 to 10 and no email",
		"a newsletter signup, all fields optional, excluding first name",
	}
	for _, prompt := range prompts {
		first, report := resolvePrompt(r, prompt)
		second, _ := resolvePrompt(r, prompt)
		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if !bytes.Equal(a, b) {
			t.Errorf("%q: results differ\n%s\n%s", prompt, a, b)
		}
		if err := model.Check(first); err != nil {
			t.Errorf("%q: %v", prompt, err)
		}
		for _, id := range report.Excluded {
			for _, f := range first.Fields {
				if f.ID == id {
					t.Errorf("%q: excluded field %s present", prompt, id)
				}
			}
		}
	}
}

func TestResolve_AliasCycleYieldsEmptyTemplate(t *testing.T) {
	cat, err := catalog.New(
		[]catalog.FieldDefinition{{ID: "EMAIL", Label: "Email", Type: catalog.TypeEmail, Keywords: []string{"email"}}},
		[]catalog.FormTemplate{{ID: "alpha", Alias: "beta"}, {ID: "beta", Alias: "alpha"}},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	r := NewResolver(cat, DefaultConfig())
	schema, _ := resolvePrompt(r, "alpha form with email")

	if schema.Template != "alpha" {
		t.Fatalf("template = %q", schema.Template)
	}
	assertIDs(t, schema, "EMAIL")
}

func TestResolve_TaggerEntities(t *testing.T) {
	r := newTestResolver(t)
	prompt := "contact form without phone"
	tokens := annotate.NewHeuristic().Annotate(prompt)
	schema, _ := r.Resolve(Input{
		Prompt: prompt,
		Tokens: tokens,
		Entities: []annotate.Entity{
			{Label: annotate.EntityFormType, Text: "contact form", Start: 0, End: 12},
			{Label: annotate.EntityNegation, Text: "without", Start: 13, End: 20},
			{Label: annotate.EntityFieldName, Text: "phone", Start: 21, End: 26},
		},
	})
	if schema.Template != "contact" {
		t.Fatalf("template = %q", schema.Template)
	}
	assertIDs(t, schema, "FULL_NAME", "EMAIL", "SUBJECT", "MESSAGE")

	prompt = "add 2 references"
	tokens = annotate.NewHeuristic().Annotate(prompt)
	schema, _ = r.Resolve(Input{
		Prompt: prompt,
		Tokens: tokens,
		Entities: []annotate.Entity{
			{Label: annotate.EntityQuantity, Text: "2", Start: 4, End: 5},
			{Label: annotate.EntityFieldName, Text: "references", Start: 6, End: 16},
		},
	})
	assertIDs(t, schema, "REFERENCE_1", "REFERENCE_2")
}

func TestResolve_DoesNotMutateCatalog(t *testing.T) {
	r := newTestResolver(t)
	before, _ := r.Catalog().Field("RATING")
	resolvePrompt(r, "feedback form with a rating 1-10 and make rating required")
	after, _ := r.Catalog().Field("RATING")
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("catalog field mutated (-before +after):\n%s", diff)
	}
}
