package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

func TestLookupSetCaseInsensitive(t *testing.T) {
	set := NewLookupSet(Lowercase)
	set.Add("Universitair Medisch Centrum", "Rijnstate")

	if !set.Contains("rijnstate") || !set.Contains("RIJNSTATE") {
		t.Error("lowercase pipeline should match any casing")
	}
	if got := set.Items(); !reflect.DeepEqual(got, []string{"Rijnstate", "Universitair Medisch Centrum"}) {
		t.Errorf("Items() should keep original casing, got %v", got)
	}
}

func TestLookupSetExactWithoutPipeline(t *testing.T) {
	set := NewLookupSet()
	set.Add("Jan")
	if set.Contains("jan") {
		t.Error("set without pipeline should be case sensitive")
	}
	if !set.Contains("Jan") {
		t.Error("exact item should match")
	}
}

func TestLookupSetRemoveKeepsSharedKey(t *testing.T) {
	set := NewLookupSet(Lowercase)
	set.Add("Jan", "JAN")
	set.Remove("Jan")
	if !set.Contains("jan") {
		t.Error("key still backed by another item must remain")
	}
	set.Remove("JAN")
	if set.Contains("jan") || set.Len() != 0 {
		t.Error("set should be empty")
	}
}

func TestLookupSetMinus(t *testing.T) {
	names := NewLookupSet()
	names.Add("Bakker", "Arts", "Visser")
	whitelist := NewLookupSet(Lowercase)
	whitelist.Add("arts")

	got := names.Minus(whitelist).Items()
	if !reflect.DeepEqual(got, []string{"Bakker", "Visser"}) {
		t.Errorf("Minus() = %v", got)
	}
}

func TestNilLookupSet(t *testing.T) {
	var set *LookupSet
	if set.Contains("x") || set.Len() != 0 || set.Items() != nil {
		t.Error("nil set should behave as empty")
	}
}

func TestStripAccents(t *testing.T) {
	set := NewLookupSet(StripAccents, Lowercase)
	set.Add("Zoë")
	if !set.Contains("zoe") {
		t.Error("strip_accents should fold diacritics")
	}
}

func TestParsePipeline(t *testing.T) {
	p, err := ParsePipeline([]string{"Lowercase", "strip"})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Apply("  ABC "); got != "abc" {
		t.Errorf("Apply() = %q", got)
	}
	if _, err := ParsePipeline([]string{"reverse"}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown transform should be ErrInvalidConfig, got %v", err)
	}
}

func TestTrieLongestMatch(t *testing.T) {
	trie := NewLookupTrie()
	trie.Add([]string{"van", " ", "der"})
	trie.Add([]string{"van"})

	got, ok := trie.LongestMatchingPrefix([]string{"van", " ", "der", " ", "Berg"})
	if !ok || len(got) != 3 {
		t.Errorf("expected the three-token entry, got %v %v", got, ok)
	}

	got, ok = trie.LongestMatchingPrefix([]string{"van", " ", "Dijk"})
	if !ok || len(got) != 1 {
		t.Errorf("expected the single-token entry, got %v %v", got, ok)
	}

	if _, ok := trie.LongestMatchingPrefix([]string{"de", " ", "Vries"}); ok {
		t.Error("no entry should match")
	}
}

func TestTrieTokenSequences(t *testing.T) {
	// Entries stored as whole token texts, as in {"van der", "van"}.
	trie := NewLookupTrie()
	trie.Add([]string{"van", "der"})
	trie.Add([]string{"van"})

	if got, _ := trie.LongestMatchingPrefix([]string{"van", "der", "Berg"}); len(got) != 2 {
		t.Errorf("want length 2, got %v", got)
	}
	if got, _ := trie.LongestMatchingPrefix([]string{"van", "Dijk"}); len(got) != 1 {
		t.Errorf("want length 1, got %v", got)
	}
	if !trie.Contains([]string{"van", "der"}) || trie.Contains([]string{"der"}) {
		t.Error("Contains should test whole entries")
	}
	if trie.Len() != 2 {
		t.Errorf("Len() = %d", trie.Len())
	}
}

func TestTrieFromSetInheritsPipeline(t *testing.T) {
	set := NewLookupSet(Lowercase)
	set.Add("Medisch Centrum")
	trie := TrieFromSet(set, func(s string) []string { return strings.Split(s, " ") })

	got, ok := trie.LongestMatchingPrefix([]string{"MEDISCH", "centrum", "Noord"})
	if !ok || !reflect.DeepEqual(got, []string{"MEDISCH", "centrum"}) {
		t.Errorf("got %v %v", got, ok)
	}
}

func TestLoadList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voornaam.lst")
	content := "# first names\nJan\n\nA\nPiet \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := LoadList(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(items, []string{"Jan", "Piet"}) {
		t.Errorf("LoadList() = %v", items)
	}

	if _, err := LoadList(filepath.Join(dir, "missing.lst"), 0); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadBundleYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.yaml")
	content := `
sets:
  - name: whitelist
    matching: [lowercase]
    items: [patient, arts]
  - name: institutions
    matching: [lowercase]
    trie: true
    items: [Medisch Centrum]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := LoadBundleYAML(path, strings.Fields)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Set(Whitelist).Contains("Arts") {
		t.Error("whitelist should match case-insensitively")
	}
	trie, ok := b.LookupTrie(Institutions)
	if !ok || !trie.Contains([]string{"medisch", "centrum"}) {
		t.Error("institutions trie missing")
	}
	if b.Set("unknown").Len() != 0 {
		t.Error("unknown set should be empty")
	}
	stats := b.Stats()
	if stats.Sets != 2 || stats.Tries != 1 || stats.SetItems != 3 {
		t.Errorf("Stats() = %+v", stats)
	}
}
