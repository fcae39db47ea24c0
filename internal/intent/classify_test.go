package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/match"
	"github.com/goliatone/go-formprompt/internal/spans"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

func testClassifier() *Classifier {
	canon := fuzzy.NewCanonicalizer([]fuzzy.Entry{
		{Key: "phone", ID: "PHONE"},
		{Key: "phone number", ID: "PHONE"},
		{Key: "email", ID: "EMAIL"},
		{Key: "reference", ID: "REFERENCE"},
		{Key: "date of birth", ID: "DATE_OF_BIRTH"},
		{Key: "color", ID: "COLOR"},
	})
	return NewClassifier(canon, DefaultConfig())
}

func classify(t *testing.T, prompt string, extra ...match.Rule) Bundle {
	t.Helper()
	tokens := annotate.NewHeuristic().Annotate(prompt)
	rules := append(extra, match.Builtins()...)
	resolved := spans.Resolve(match.New(rules...).Find(tokens))
	return testClassifier().Classify(prompt, tokens, resolved)
}

func TestClassify_NegationWindow(t *testing.T) {
	b := classify(t, "a form without the date of birth or phone number, with email")

	want := map[string]bool{"DATE_OF_BIRTH": true, "PHONE": true}
	if diff := cmp.Diff(want, b.Excluded); diff != "" {
		t.Fatalf("excluded mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DATE_OF_BIRTH", "PHONE"}, b.ExcludedIDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_NegationStopsAtVerbAfterNoun(t *testing.T) {
	b := classify(t, "no phone is needed but add email")
	if !b.Excluded["PHONE"] || b.Excluded["EMAIL"] {
		t.Fatalf("unexpected exclusions %v", b.Excluded)
	}
}

func TestClassify_NegationStopsAtCommaClause(t *testing.T) {
	b := classify(t, "no phone field, email required")
	if diff := cmp.Diff(map[string]bool{"PHONE": true}, b.Excluded); diff != "" {
		t.Fatalf("excluded mismatch (-want +got):\n%s", diff)
	}

	b = classify(t, "no phone, email or color")
	want := map[string]bool{"PHONE": true, "EMAIL": true, "COLOR": true}
	if diff := cmp.Diff(want, b.Excluded); diff != "" {
		t.Fatalf("a comma list should stay negated (-want +got):\n%s", diff)
	}
}

func TestClassify_UnresolvedNegationDropped(t *testing.T) {
	b := classify(t, "without hesitation")
	if len(b.Excluded) != 0 || b.Dropped["negation"] != 1 {
		t.Fatalf("expected a dropped negation, got %+v", b)
	}
}

func TestClassify_ExceptWithGlobalIsException(t *testing.T) {
	b := classify(t, "make every field optional except email")

	if b.Global == nil || *b.Global {
		t.Fatalf("expected optional global, got %v", b.Global)
	}
	if b.Excluded["EMAIL"] || !b.Exceptions["EMAIL"] {
		t.Fatalf("email should be an exception only: excluded=%v exceptions=%v", b.Excluded, b.Exceptions)
	}
	if b.Has(KindAttribute) {
		t.Fatalf("the global attribute must be consumed")
	}
}

func TestClassify_ExceptWithoutGlobalExcludes(t *testing.T) {
	b := classify(t, "everything except email")
	if !b.Excluded["EMAIL"] {
		t.Fatalf("expected email excluded, got %v", b.Excluded)
	}
}

func TestClassify_GlobalLooksBackward(t *testing.T) {
	b := classify(t, "required: all fields")
	if b.Global == nil || !*b.Global {
		t.Fatalf("expected required global, got %v", b.Global)
	}
}

func TestClassify_QuantityVariants(t *testing.T) {
	b := classify(t, "3 required reference boxes and two long text inputs")

	var got []Intent
	for _, in := range b.Intents {
		switch in.(type) {
		case Quantity, Generic, Attribute:
			got = append(got, in)
		}
	}
	want := []Intent{
		Attribute{Required: true, Prenominal: true, Start: 0, End: 1},
		Quantity{FieldID: "REFERENCE", Count: 3, Start: 0, End: 3},
		Generic{Keyword: "text", Type: catalog.TypeText, Count: 2, Start: 5, End: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("intents mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_RangeNormalizesBounds(t *testing.T) {
	b := classify(t, "score from 10 to 1")
	var r Range
	for _, in := range b.Intents {
		if v, ok := in.(Range); ok {
			r = v
		}
	}
	if r.Min != 1 || r.Max != 10 {
		t.Fatalf("range = %+v", r)
	}
}

func TestClassify_OptionsList(t *testing.T) {
	b := classify(t, `shirt color with options "red", <b>Green</b>, sky blue or USA. Make it required`)

	var opts Options
	found := false
	for _, in := range b.Intents {
		if v, ok := in.(Options); ok {
			opts, found = v, true
		}
	}
	if !found {
		t.Fatalf("no options intent in %+v", b.Intents)
	}
	if opts.Subject != "shirt color" {
		t.Fatalf("subject = %q", opts.Subject)
	}
	if diff := cmp.Diff([]string{"Red", "Green", "Sky Blue", "USA"}, opts.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if !b.Has(KindAttribute) {
		t.Fatalf("the trailing attribute should survive the list cutoff")
	}
}

func TestClassify_MentionRules(t *testing.T) {
	rule := match.Rule{Tag: "EMAIL", Patterns: []match.Pattern{match.PhrasePattern("email")}}
	b := classify(t, "just an email please", rule)

	want := []Intent{Mention{FieldID: "EMAIL", Start: 2, End: 3}}
	if diff := cmp.Diff(want, b.Intents); diff != "" {
		t.Fatalf("intents mismatch (-want +got):\n%s", diff)
	}
	if !b.Claimed[2] {
		t.Fatalf("mention token should be claimed")
	}
}
