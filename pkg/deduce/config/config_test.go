package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/deduce/pkg/deduce/annotate"
	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

type fakeLists struct {
	items map[string][]string
	err   error
}

func (f fakeLists) ListItems(_ context.Context, name string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	items, ok := f.items[name]
	if !ok {
		return nil, internalerr.ErrNotFound
	}
	return items, nil
}

func annotateAll(t *testing.T, comp *Components, text string, person *document.Person) []document.Annotation {
	t.Helper()
	doc := document.New(text, comp.Tokenizer.Tokenize(text), person)
	var out []document.Annotation
	for _, a := range append([]annotate.Annotator{comp.Names}, comp.Annotators...) {
		anns, err := a.Annotate(doc)
		if err != nil {
			t.Fatalf("%s: %v", a.Name(), err)
		}
		out = append(out, anns...)
	}
	return out
}

func hasAnnotation(anns []document.Annotation, text, tag string) bool {
	for _, a := range anns {
		if a.Text == text && a.Tag == tag {
			return true
		}
	}
	return false
}

func TestDefaultLoads(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(comp.Names.Annotators()); got != 7 {
		t.Errorf("name annotators = %d, want 7", got)
	}
	if got, want := len(comp.Annotators), len(Default().Annotators); got != want {
		t.Errorf("annotators = %d, want %d", got, want)
	}
	if comp.Strict {
		t.Error("default config should not be strict")
	}
	if names := comp.AnnotatorNames(); names[0] != "names" || names[1] != "institution" {
		t.Errorf("AnnotatorNames() = %v", names)
	}
	if _, ok := comp.Bundle.LookupTrie(lexicon.Placenames); !ok {
		t.Error("placenames trie missing")
	}
}

func TestDefaultTokenizerMergesInterfixes(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		text string
		want []string
	}{
		{"Jan van der Berg", []string{"Jan", " ", "van der", " ", "Berg"}},
		{"Van der Berg", []string{"Van der", " ", "Berg"}},
	}
	for _, tt := range tests {
		if got := comp.Tokenizer.Texts(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Texts(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDefaultAnnotators(t *testing.T) {
	lists := fakeLists{items: map[string][]string{
		lexicon.Placenames: {"Utrecht", "Den Haag"},
		lexicon.Surnames:   {"Bakker"},
	}}
	comp, err := (&Loader{Lists: lists}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	text := "Mw. Bakker uit Den Haag is 64 jaar, bereikbaar op 06-12345678 of via info@example.nl."
	anns := annotateAll(t, comp, text, nil)

	for _, want := range []struct{ text, tag string }{
		{"Bakker", TagSurname},
		{"Mw. Bakker", TagPrefixName},
		{"Den Haag", TagLocation},
		{"64", TagAge},
		{"06-12345678", TagPhone},
		{"info@example.nl", TagURL},
	} {
		if !hasAnnotation(anns, want.text, want.tag) {
			t.Errorf("missing %s %q in %v", want.tag, want.text, anns)
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
dictionaries:
  - name: whitelist
    matching: [lowercase]
    items: [patient]
  - name: placenames
    trie: true
    items: ["Den Haag", "Utrecht"]
names:
  annotators:
    - name: patient
      kind: patient
      priority: 100
annotators:
  - name: residence
    kind: multi_token_lookup
    tag: locatie
    priority: 40
    dictionary: placenames
  - name: doctor
    kind: sequence
    tag: arts
    priority: 90
    skip: ["."]
    sequence:
      - literal: dr
      - like_name: true
redactor:
  open: "<"
  close: ">"
strict: true
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	comp, err := (&Loader{File: f}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !comp.Strict {
		t.Error("strict not carried over")
	}
	if comp.Redactor.Open != "<" || comp.Redactor.Close != ">" {
		t.Errorf("redactor brackets = %q %q", comp.Redactor.Open, comp.Redactor.Close)
	}

	anns := annotateAll(t, comp, "Gezien door dr. Bakker in Den Haag.", nil)
	if !hasAnnotation(anns, "dr. Bakker", "arts") {
		t.Errorf("sequence annotator missed dr. Bakker: %v", anns)
	}
	if !hasAnnotation(anns, "Den Haag", "locatie") {
		t.Errorf("trie lookup missed Den Haag: %v", anns)
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() *File {
		return &File{
			Dictionaries: []DictionaryConfig{{Name: "places"}},
			Annotators:   []AnnotatorConfig{{Name: "a", Kind: KindRegex, Tag: "x", Patterns: []string{`\d`}}},
		}
	}
	tests := []struct {
		name   string
		modify func(f *File)
	}{
		{"unknown kind", func(f *File) { f.Annotators[0].Kind = "classifier" }},
		{"missing name", func(f *File) { f.Annotators[0].Name = "" }},
		{"duplicate annotator", func(f *File) { f.Annotators = append(f.Annotators, f.Annotators[0]) }},
		{"duplicate across groups", func(f *File) { f.Names.Annotators = []AnnotatorConfig{f.Annotators[0]} }},
		{"unknown dictionary", func(f *File) { f.Annotators[0].Dictionary = "streets" }},
		{"dictionary without name", func(f *File) { f.Dictionaries = append(f.Dictionaries, DictionaryConfig{}) }},
		{"duplicate dictionary", func(f *File) { f.Dictionaries = append(f.Dictionaries, f.Dictionaries[0]) }},
		{"unknown merge set", func(f *File) { f.Tokenizer.MergeSets = []string{"prefixes"} }},
		{"unknown context kind", func(f *File) { f.Names.Context = []ContextConfig{{Kind: "surrounding"}} }},
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base()
			tt.modify(f)
			if err := f.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *File)
	}{
		{"bad regex", func(f *File) { f.Annotators[0].Patterns = []string{`(\d`} }},
		{"capture group out of range", func(f *File) { f.Annotators[0].CaptureGroup = 3 }},
		{"missing tag", func(f *File) { f.Annotators[0].Tag = "" }},
		{"unknown filter", func(f *File) { f.Annotators[0].Filter = "zip" }},
		{"bad template", func(f *File) {
			f.Names.Context = []ContextConfig{{Kind: ContextNexus, Template: "{tag}+{name}"}}
		}},
		{"negative iterations", func(f *File) { f.Names.MaxIterations = -1 }},
		{"bad slack", func(f *File) { f.Merge.Slack = `[` }},
		{"bad matching", func(f *File) { f.Dictionaries[0].Matching = []string{"soundex"} }},
		{"lookup without trie", func(f *File) {
			f.Annotators = append(f.Annotators, AnnotatorConfig{
				Name: "b", Kind: KindMultiTokenLookup, Tag: "locatie", Dictionary: "places",
			})
		}},
		{"empty sequence", func(f *File) {
			f.Annotators = append(f.Annotators, AnnotatorConfig{Name: "b", Kind: KindSequence, Tag: "x"})
		}},
		{"bad direction", func(f *File) {
			f.Annotators = append(f.Annotators, AnnotatorConfig{
				Name: "b", Kind: KindSequence, Tag: "x", Direction: "up",
				Sequence: []annotate.PredicateSpec{{IsInitial: true}},
			})
		}},
		{"two bsn patterns", func(f *File) {
			f.Annotators = append(f.Annotators, AnnotatorConfig{
				Name: "b", Kind: KindBSN, Tag: "bsn", Patterns: []string{`\d{9}`, `\d{8}`},
			})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{
				Dictionaries: []DictionaryConfig{{Name: "places"}},
				Annotators:   []AnnotatorConfig{{Name: "a", Kind: KindRegex, Tag: "x", Patterns: []string{`(\d)`}}},
			}
			tt.modify(f)
			_, err := (&Loader{File: f}).Load(context.Background())
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Load() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	list := "# places\nUtrecht\n\nA\nDen Haag\n"
	if err := os.WriteFile(filepath.Join(dir, "places.lst"), []byte(list), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := `
dictionaries:
  - name: placenames
    path: places.lst
    min_length: 2
    trie: true
annotators:
  - name: residence
    kind: multi_token_lookup
    tag: locatie
    dictionary: placenames
`
	path := filepath.Join(dir, "deduce.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	comp, err := (&Loader{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := comp.Bundle.Set(lexicon.Placenames).Items()
	want := []string{"Den Haag", "Utrecht"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("placenames = %v, want %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := (&Loader{Path: filepath.Join(t.TempDir(), "missing.yaml")}).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("Load() = %v, want load config error", err)
	}
}

func TestListSource(t *testing.T) {
	f := &File{Dictionaries: []DictionaryConfig{
		{Name: lexicon.FirstNames, Items: []string{"Jan"}, MinLength: 2},
		{Name: lexicon.Surnames},
	}}
	lists := fakeLists{items: map[string][]string{lexicon.FirstNames: {"Piet", "K"}}}
	comp, err := (&Loader{File: f, Lists: lists}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := comp.Bundle.Set(lexicon.FirstNames).Items(), []string{"Jan", "Piet"}; !reflect.DeepEqual(got, want) {
		t.Errorf("first names = %v, want %v", got, want)
	}
	if got := comp.Bundle.Set(lexicon.Surnames).Len(); got != 0 {
		t.Errorf("surnames = %d items, want 0", got)
	}

	failing := fakeLists{err: internalerr.ErrStoreUnavailable}
	if _, err := (&Loader{File: f, Lists: failing}).Load(context.Background()); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("Load() = %v, want ErrStoreUnavailable", err)
	}
}

func TestDefaultRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(f, Default()) {
		t.Error("parsed default differs from Default()")
	}
}
