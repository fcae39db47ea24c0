package catalog

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	for _, id := range []string{"FULL_NAME", "EMAIL", "PHONE", "PASSWORD", "CONFIRM_PASSWORD", "REFERENCE", "COMMENT"} {
		if !cat.Has(id) {
			t.Fatalf("expected field %s in default catalog", id)
		}
	}
	if diags := cat.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	contact, ok := cat.Template("contact")
	if !ok {
		t.Fatalf("contact template missing")
	}
	var ids []string
	for _, f := range contact.Fields {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"FULL_NAME", "EMAIL", "PHONE", "SUBJECT", "MESSAGE"}, ids); diff != "" {
		t.Fatalf("contact fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultCatalogAliases(t *testing.T) {
	cat := MustDefault()
	app, ok := cat.Template("application")
	if !ok {
		t.Fatalf("application alias missing")
	}
	job, _ := cat.Template("job_application")
	if app.ID != "application" || app.Alias != "job_application" {
		t.Fatalf("unexpected alias metadata: %#v", app)
	}
	if diff := cmp.Diff(job.Fields, app.Fields); diff != "" {
		t.Fatalf("alias fields mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_AliasCycleResolvesEmpty(t *testing.T) {
	fields := []FieldDefinition{{ID: "EMAIL", Label: "Email", Type: TypeEmail}}
	templates := []FormTemplate{
		{ID: "a", Alias: "b"},
		{ID: "b", Alias: "c"},
		{ID: "c", Alias: "a"},
		{ID: "self", Alias: "self"},
		{ID: "dangling", Alias: "missing"},
		{ID: "ok", Fields: []TemplateField{{ID: "EMAIL"}}},
		{ID: "via", Alias: "ok"},
	}
	cat, err := New(fields, templates)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, id := range []string{"a", "b", "c", "self", "dangling"} {
		tpl, ok := cat.Template(id)
		if !ok {
			t.Fatalf("template %s missing", id)
		}
		if len(tpl.Fields) != 0 {
			t.Fatalf("template %s: expected empty fields, got %#v", id, tpl.Fields)
		}
	}
	if got := len(cat.Diagnostics()); got != 5 {
		t.Fatalf("expected 5 diagnostics, got %d: %v", got, cat.Diagnostics())
	}
	via, _ := cat.Template("via")
	if len(via.Fields) != 1 || via.Fields[0].ID != "EMAIL" {
		t.Fatalf("expected alias to resolve to ok, got %#v", via)
	}
}

func TestNew_RejectsMalformedRecords(t *testing.T) {
	fields := []FieldDefinition{
		{ID: "ATTR_REQUIRED", Label: "Bad", Type: TypeText},
		{ID: "lower", Label: "Bad", Type: TypeText},
		{ID: "AGE", Label: "Age", Type: "integer"},
		{ID: "BIO", Label: "Bio", Type: TypeTextarea, Validation: Validation{RuleMin: 3}},
		{ID: "NAME", Label: "Name", Type: TypeText, Options: []string{"x"}},
	}
	_, err := New(fields, []FormTemplate{{ID: "t", Fields: []TemplateField{{ID: "UNKNOWN"}}}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Issues) != 6 {
		t.Fatalf("expected 6 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
}

func TestField_ReturnsIsolatedCopies(t *testing.T) {
	cat := MustDefault()
	def, _ := cat.Field("GENDER")
	def.Validation[RuleRequired] = true
	def.Options[0] = "Changed"

	again, _ := cat.Field("GENDER")
	if _, ok := again.Validation[RuleRequired]; ok {
		t.Fatalf("catalog validation was mutated through a copy")
	}
	if again.Options[0] != "Male" {
		t.Fatalf("catalog options were mutated through a copy: %v", again.Options)
	}
}

func TestTemplateIndex_LongestFirst(t *testing.T) {
	cat := MustDefault()
	index := cat.TemplateIndex()
	pos := map[string]int{}
	for i, k := range index {
		pos[k.Key] = i
		if i > 0 && len(index[i-1].Key) < len(k.Key) {
			t.Fatalf("index not sorted by length at %d", i)
		}
	}
	if pos["event registration"] >= pos["registration"] {
		t.Fatalf("expected event registration before registration")
	}
	if got := index[pos["sign up"]].TemplateID; got != "signup" {
		t.Fatalf("expected sign up seed to point at signup, got %s", got)
	}
}

func TestKeywordsTable(t *testing.T) {
	cat := MustDefault()
	kws := cat.Keywords()
	if kws[0] != (KeywordEntry{Keyword: "full name", FieldID: "FULL_NAME"}) {
		t.Fatalf("unexpected first keyword %#v", kws[0])
	}
	found := false
	for _, kw := range kws {
		if kw.FieldID == "PHONE" && kw.Keyword == "phone number" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected label keyword for PHONE")
	}
}

func TestRules_ExplicitPatternsKept(t *testing.T) {
	cat := MustDefault()
	for _, rule := range cat.Rules() {
		if rule.Tag == "CONFIRM_PASSWORD" {
			if len(rule.Patterns) != 3 {
				t.Fatalf("expected 3 explicit patterns, got %d", len(rule.Patterns))
			}
			return
		}
	}
	t.Fatalf("CONFIRM_PASSWORD rule missing")
}

func TestLoadFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"a_fields.json": {Data: []byte(`{"fields":[{"id":"SCORE","label":"Score","type":"number","validation":{"min":1,"max":10}}]}`)},
		"b_templates.yaml": {Data: []byte("templates:\n  quiz:\n    seeds: [quiz]\n    fields:\n      - id: SCORE\n        validation: {required: true}\n  test: quiz\n")},
		"README.md":        {Data: []byte("ignored")},
	}
	cat, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, ok := cat.Field("SCORE")
	if !ok {
		t.Fatalf("SCORE missing")
	}
	if diff := cmp.Diff(Validation{RuleMin: 1, RuleMax: 10}, def.Validation); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}
	quiz, _ := cat.Template("test")
	if len(quiz.Fields) != 1 || quiz.Fields[0].Validation[RuleRequired] != true {
		t.Fatalf("expected alias with override, got %#v", quiz)
	}
}

func TestLoadFS_SchemaIssues(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte("fields:\n  - id: X\n    label: X\n    type: hologram\n")},
	}
	_, err := LoadFS(fsys)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Issues[0].Path != "bad.yaml" {
		t.Fatalf("expected issue path, got %#v", verr.Issues[0])
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Fatalf("expected path in error message: %v", err)
	}
}

func TestLoadFS_EmptyFile(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{"empty.yaml": {Data: []byte("  \n")}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	results := MustDefault().Search("phone", 5)
	if len(results) == 0 || results[0].Field.ID != "PHONE" {
		t.Fatalf("expected PHONE first, got %#v", results)
	}
	if MustDefault().Search("  ", 5) != nil {
		t.Fatalf("expected nil for blank query")
	}
}

func TestMergeValidationLayers(t *testing.T) {
	base := TypeDefaults(TypePassword)
	catalogLayer := Validation{RuleMinLength: 12}
	override := Validation{RuleRequired: false}

	got := MergeValidation(base, catalogLayer, override)
	want := Validation{RuleMinLength: 12, RuleRequired: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base[RuleMinLength] != 8 {
		t.Fatalf("merge mutated its input")
	}
}

func TestRestrictByType(t *testing.T) {
	v := Validation{RuleMaxLength: 255, RuleRequired: true, RuleMin: 1}
	got := v.Restrict(TypeRange)
	want := Validation{RuleRequired: true, RuleMin: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("restrict mismatch (-want +got):\n%s", diff)
	}
}
