package lexicon

import "sort"

// Dictionary names consumed by the built-in annotators.
const (
	FirstNames       = "first_names"
	Surnames         = "surnames"
	Interfixes       = "interfixes"
	InterfixSurnames = "interfix_surnames"
	Prefixes         = "prefixes"
	Whitelist        = "whitelist"
	Institutions     = "institutions"
	Hospitals        = "hospitals"
	Streets          = "streets"
	Placenames       = "placenames"
)

// Bundle holds every dictionary of an engine. It is built once at startup
// and shared read-only by all documents, so it needs no locking.
type Bundle struct {
	sets  map[string]*LookupSet
	tries map[string]*LookupTrie
}

// NewBundle creates an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		sets:  make(map[string]*LookupSet),
		tries: make(map[string]*LookupTrie),
	}
}

// AddSet registers set under name, replacing any previous set.
func (b *Bundle) AddSet(name string, set *LookupSet) {
	b.sets[name] = set
}

// AddTrie registers trie under name, replacing any previous trie.
func (b *Bundle) AddTrie(name string, trie *LookupTrie) {
	b.tries[name] = trie
}

// LookupSet returns the set registered under name.
func (b *Bundle) LookupSet(name string) (*LookupSet, bool) {
	if b == nil {
		return nil, false
	}
	s, ok := b.sets[name]
	return s, ok
}

// LookupTrie returns the trie registered under name.
func (b *Bundle) LookupTrie(name string) (*LookupTrie, bool) {
	if b == nil {
		return nil, false
	}
	t, ok := b.tries[name]
	return t, ok
}

// Set returns the set registered under name, or an empty set.
func (b *Bundle) Set(name string) *LookupSet {
	if s, ok := b.LookupSet(name); ok {
		return s
	}
	return NewLookupSet()
}

// SetNames returns the names of all registered sets, sorted.
func (b *Bundle) SetNames() []string {
	return sortedKeys(b.sets)
}

// TrieNames returns the names of all registered tries, sorted.
func (b *Bundle) TrieNames() []string {
	return sortedKeys(b.tries)
}

// Stats summarises the bundle contents.
func (b *Bundle) Stats() BundleStats {
	stats := BundleStats{Sets: len(b.sets), Tries: len(b.tries)}
	for _, s := range b.sets {
		stats.SetItems += s.Len()
	}
	for _, t := range b.tries {
		stats.TrieEntries += t.Len()
	}
	return stats
}

// BundleStats holds counts about bundle contents.
type BundleStats struct {
	Sets        int
	Tries       int
	SetItems    int
	TrieEntries int
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
