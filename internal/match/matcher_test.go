package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/spans"
)

func annotateText(text string) []annotate.Token {
	return annotate.NewHeuristic().Annotate(text)
}

func tagsAt(found []spans.Span, start int) []string {
	var out []string
	for _, s := range found {
		if s.Start == start {
			out = append(out, s.Tag)
		}
	}
	return out
}

func TestMatcher_NotRequiredOverlapsNegation(t *testing.T) {
	m := New(Builtins()...)
	found := m.Find(annotateText("not required"))

	want := []spans.Span{
		{Start: 0, End: 2, Tag: spans.TagOptional, Seq: 0},
		{Start: 0, End: 1, Tag: spans.TagNegation, Seq: 1},
		{Start: 1, End: 2, Tag: spans.TagRequired, Seq: 2},
	}
	if diff := cmp.Diff(want, found); diff != "" {
		t.Fatalf("matches mismatch (-want +got):\n%s", diff)
	}

	resolved := spans.Resolve(found)
	if len(resolved) != 1 || resolved[0].Tag != spans.TagOptional {
		t.Fatalf("expected only the optional span to survive, got %#v", resolved)
	}
}

func TestMatcher_Quantifier(t *testing.T) {
	m := New(Builtins()...)
	tokens := annotateText("3 required reference boxes")
	resolved := spans.Resolve(m.Find(tokens))
	if len(resolved) != 1 {
		t.Fatalf("expected one resolved span, got %#v", resolved)
	}
	got := resolved[0]
	if got.Tag != spans.TagQuantifier || got.Start != 0 || got.End != 3 {
		t.Fatalf("unexpected quantifier span %#v", got)
	}
}

func TestMatcher_QuantifierEndsOnFieldNoun(t *testing.T) {
	m := New(Builtins()...)
	resolved := spans.Resolve(m.Find(annotateText("two email fields")))
	if len(resolved) != 1 {
		t.Fatalf("expected one resolved span, got %#v", resolved)
	}
	got := resolved[0]
	if got.Tag != spans.TagQuantifier || got.Start != 0 || got.End != 2 {
		t.Fatalf("unexpected quantifier span %#v", got)
	}
}

func TestToken_NotIn(t *testing.T) {
	tok := Token{POS: []annotate.POS{annotate.POSNoun}, NotIn: []string{"field"}}
	for _, text := range []string{"field", "fields"} {
		if tok.Matches(annotateText(text)[0]) {
			t.Errorf("%q should be rejected", text)
		}
	}
	if !tok.Matches(annotateText("email")[0]) {
		t.Errorf("email should match")
	}
}

func TestMatcher_Range(t *testing.T) {
	m := New(Builtins()...)
	for _, text := range []string{"rate it 1-10", "rate it 1 to 10", "rate it one to five"} {
		resolved := spans.Resolve(m.Find(annotateText(text)))
		var ranges []spans.Span
		for _, s := range resolved {
			if s.Tag == spans.TagRange {
				ranges = append(ranges, s)
			}
		}
		if len(ranges) != 1 || ranges[0].Start != 2 || ranges[0].End != 5 {
			t.Fatalf("%q: unexpected ranges %#v", text, ranges)
		}
	}
}

func TestMatcher_Options(t *testing.T) {
	m := New(Builtins()...)
	tokens := annotateText("a gender field with options male and female")
	tags := tagsAt(m.Find(tokens), 1)
	if len(tags) == 0 || tags[0] != spans.TagOptions {
		t.Fatalf("expected options match at token 1, got %v", tags)
	}
	resolved := spans.Resolve(m.Find(tokens))
	if resolved[0].Tag != spans.TagOptions || resolved[0].End != 5 {
		t.Fatalf("unexpected options span %#v", resolved[0])
	}
}

func TestMatcher_FieldRulesFirst(t *testing.T) {
	rules := append([]Rule{{Tag: "OPTIONAL_NOTES", Patterns: []Pattern{PhrasePattern("optional")}}}, Builtins()...)
	m := New(rules...)
	tags := tagsAt(m.Find(annotateText("optional")), 0)
	want := []string{"OPTIONAL_NOTES", spans.TagOptional}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("registration order mismatch (-want +got):\n%s", diff)
	}
}

func TestPhrasePattern_PluralPrompt(t *testing.T) {
	m := New(Rule{Tag: "PHONE", Patterns: []Pattern{PhrasePattern("Phone Number")}})
	found := m.Find(annotateText("two phone numbers please"))
	if len(found) != 1 || found[0].Start != 1 || found[0].End != 3 {
		t.Fatalf("expected phone number match, got %#v", found)
	}
}

func TestPattern_Valid(t *testing.T) {
	if (Pattern{opt("the")}).Valid() {
		t.Fatalf("all-optional pattern must be invalid")
	}
	if (Pattern{{Norm: "x", Op: "!"}}).Valid() {
		t.Fatalf("unknown operator must be invalid")
	}
	if !(Pattern{norm("email")}).Valid() {
		t.Fatalf("literal pattern must be valid")
	}
}
