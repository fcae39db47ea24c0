package spans

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_LongestAtSameStartWins(t *testing.T) {
	in := []Span{
		{Start: 0, End: 1, Tag: TagNegation, Seq: 0},
		{Start: 0, End: 2, Tag: TagOptional, Seq: 1},
	}
	got := Resolve(in)
	want := []Span{{Start: 0, End: 2, Tag: TagOptional, Seq: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_DropsContainedAndOverlapping(t *testing.T) {
	in := []Span{
		{Start: 2, End: 3, Tag: "REFERENCE", Seq: 0},
		{Start: 0, End: 3, Tag: TagQuantifier, Seq: 1},
		{Start: 1, End: 2, Tag: TagRequired, Seq: 2},
		{Start: 3, End: 5, Tag: "EMAIL", Seq: 3},
	}
	got := Resolve(in)
	want := []Span{
		{Start: 0, End: 3, Tag: TagQuantifier, Seq: 1},
		{Start: 3, End: 5, Tag: "EMAIL", Seq: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_TiesKeepDiscoveryOrder(t *testing.T) {
	in := []Span{
		{Start: 4, End: 5, Tag: "PHONE", Seq: 0},
		{Start: 4, End: 5, Tag: "MOBILE", Seq: 1},
	}
	got := Resolve(in)
	if len(got) != 1 || got[0].Tag != "PHONE" {
		t.Fatalf("expected first discovered span to win, got %#v", got)
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	in := []Span{
		{Start: 3, End: 4, Tag: "B", Seq: 1},
		{Start: 0, End: 1, Tag: "A", Seq: 0},
	}
	_ = Resolve(in)
	if in[0].Tag != "B" {
		t.Fatalf("input reordered: %#v", in)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	in := []Span{
		{Start: 0, End: 2, Tag: "X", Seq: 0},
		{Start: 1, End: 3, Tag: "Y", Seq: 1},
		{Start: 2, End: 4, Tag: "Z", Seq: 2},
	}
	first := Resolve(in)
	second := Resolve(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolve not deterministic:\n%s", diff)
	}
	want := []Span{{Start: 0, End: 2, Tag: "X", Seq: 0}, {Start: 2, End: 4, Tag: "Z", Seq: 2}}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("resolve mismatch (-want +got):\n%s", diff)
	}
}
