package resolve

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

func ann(text string, start, end int, tag string, prio int) document.Annotation {
	return document.Annotation{
		Text: text[start:end], StartChar: start, EndChar: end, Tag: tag, Priority: prio,
		StartToken: document.NoToken, EndToken: document.NoToken,
	}
}

// find annotates the first occurrence of sub in text.
func find(t *testing.T, text, sub, tag string, prio int) document.Annotation {
	t.Helper()
	i := strings.Index(text, sub)
	if i < 0 {
		t.Fatalf("%q not in %q", sub, text)
	}
	return ann(text, i, i+len(sub), tag, prio)
}

func assertNoOverlap(t *testing.T, set document.AnnotationSet) {
	t.Helper()
	sorted := set.Sorted()
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Overlaps(sorted[j]) {
				t.Errorf("overlap between %+v and %+v", sorted[i], sorted[j])
			}
		}
	}
}

func TestOverlapResolverInvariant(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz"
	in := document.NewAnnotationSet(
		ann(text, 0, 5, "a", 0),
		ann(text, 3, 10, "b", 1),
		ann(text, 8, 12, "c", 0),
		ann(text, 11, 20, "d", 0),
		ann(text, 15, 16, "e", 5),
		ann(text, 20, 26, "f", 0),
		ann(text, 0, 26, "g", 0),
	)
	out := NewOverlapResolver(HighestPriority, Longest).Resolve(in)
	assertNoOverlap(t, out)
	for _, a := range out.Sorted() {
		if !in.Contains(a) {
			t.Errorf("fabricated annotation %+v", a)
		}
	}
	for _, tag := range []string{"b", "e"} {
		found := false
		for _, a := range out.Sorted() {
			found = found || a.Tag == tag
		}
		if !found {
			t.Errorf("high priority annotation %q dropped", tag)
		}
	}
}

func TestOverlapResolverOrdering(t *testing.T) {
	text := "Jan van der Berg"
	tests := []struct {
		name string
		keys []SortKey
		in   []document.Annotation
		want string
	}{
		{
			"longest wins",
			[]SortKey{Longest},
			[]document.Annotation{ann(text, 0, 3, "x", 0), ann(text, 0, 16, "y", 0)},
			"y",
		},
		{
			"priority before length",
			[]SortKey{HighestPriority, Longest},
			[]document.Annotation{ann(text, 0, 3, "x", 2), ann(text, 0, 16, "y", 0)},
			"x",
		},
		{
			"ties go to the leftmost",
			[]SortKey{Longest},
			[]document.Annotation{ann(text, 4, 7, "right", 0), ann(text, 2, 5, "left", 0)},
			"left",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewOverlapResolver(tt.keys...).Resolve(document.NewAnnotationSet(tt.in...)).Sorted()
			if len(out) != 1 || out[0].Tag != tt.want {
				t.Errorf("got %+v, want tag %q", out, tt.want)
			}
		})
	}
}

func TestOverlapResolverKeepsDisjoint(t *testing.T) {
	text := "Jan en Piet"
	in := document.NewAnnotationSet(find(t, text, "Jan", "x", 0), find(t, text, "Piet", "x", 0))
	out := NewOverlapResolver(Longest).Resolve(in)
	if !out.Equal(in) {
		t.Errorf("disjoint annotations changed: %+v", out.Sorted())
	}
}

func TestPersonConverter(t *testing.T) {
	text := "De patient J. Jansen en Piet, pseudo Bakker  ."
	in := document.NewAnnotationSet(
		find(t, text, "J. Jansen", "initiaal+naam", 0),
		find(t, text, "J. Jansen", "initiaal_patient+initiaalhoofdletternaam", 0),
		find(t, text, "Jansen", "achternaam_patient", 0),
		find(t, text, "Piet", "voornaam_onbekend", 0),
		find(t, text, "pseudo Bakker", "pseudo_naam", 0),
		find(t, text, "Bakker", "achternaam_onbekend", 0),
		ann(text, 43, 45, "naam", 0),
	)
	out := NewPersonConverter().Convert(in).Sorted()

	want := map[string]string{"J. Jansen": TagPatient, "Piet": TagPerson}
	if len(out) != len(want) {
		t.Fatalf("got %+v", out)
	}
	for _, a := range out {
		if want[a.Text] != a.Tag {
			t.Errorf("%q tagged %q, want %q", a.Text, a.Tag, want[a.Text])
		}
	}
}

func TestPersonTag(t *testing.T) {
	for tag, want := range map[string]string{
		"initiaal+achternaam_patient": TagPatient,
		"voornaam_patient":            TagPatient,
		"prefix+naam":                 TagPerson,
		"achternaam_onbekend":         TagPerson,
	} {
		if got := PersonTag(tag); got != want {
			t.Errorf("PersonTag(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestMerger(t *testing.T) {
	m, err := NewMerger("")
	if err != nil {
		t.Fatalf("NewMerger: %v", err)
	}
	text := "Jan Jansen-Bakker en Piet. Utrecht, Ede"
	tests := []struct {
		name string
		in   []document.Annotation
		want map[string]string
	}{
		{
			"patient and person chain",
			[]document.Annotation{
				find(t, text, "Jan", TagPatient, 0),
				find(t, text, "Jansen", TagPerson, 0),
				find(t, text, "Bakker", TagPerson, 0),
			},
			map[string]string{"Jan Jansen-Bakker": TagPatient},
		},
		{
			"person patient person chain",
			[]document.Annotation{
				find(t, text, "Jan", TagPerson, 0),
				find(t, text, "Jansen", TagPatient, 0),
				find(t, text, "Bakker", TagPerson, 0),
				find(t, text, "Piet", TagPerson, 0),
			},
			map[string]string{"Jan Jansen-Bakker": TagPatient, "Piet": TagPerson},
		},
		{
			"equal tags keep their tag",
			[]document.Annotation{find(t, text, "Utrecht", "locatie", 0), find(t, text, "Ede", "locatie", 0)},
			map[string]string{"Utrecht, Ede": "locatie"},
		},
		{
			"words are not slack",
			[]document.Annotation{find(t, text, "Bakker", TagPerson, 0), find(t, text, "Piet", TagPerson, 0)},
			map[string]string{"Bakker": TagPerson, "Piet": TagPerson},
		},
		{
			"other tags do not merge",
			[]document.Annotation{find(t, text, "Piet", TagPerson, 0), find(t, text, "Utrecht", "locatie", 0)},
			map[string]string{"Piet": TagPerson, "Utrecht": "locatie"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.Merge(text, document.NewAnnotationSet(tt.in...))
			if out.Len() != len(tt.want) {
				t.Fatalf("got %+v", out.Sorted())
			}
			for _, a := range out.Sorted() {
				if tt.want[a.Text] != a.Tag {
					t.Errorf("%q tagged %q, want %q", a.Text, a.Tag, tt.want[a.Text])
				}
				if a.Text != text[a.StartChar:a.EndChar] {
					t.Errorf("text and span disagree: %+v", a)
				}
			}
			again := m.Merge(text, out)
			if !again.Equal(out) {
				t.Errorf("merge is not idempotent: %+v", again.Sorted())
			}
		})
	}
}

func TestNewMergerRejectsBadSlack(t *testing.T) {
	if _, err := NewMerger("("); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("got %v", err)
	}
}
