package lexicon

// LookupTrie is a prefix tree over token sequences. Each root-to-terminal
// path is one dictionary entry tokenized the way documents are tokenized.
// Edges are keyed on the matching-pipeline form of each token text.
type LookupTrie struct {
	pipeline Pipeline
	root     *trieNode
	size     int
}

type trieNode struct {
	children map[string]*trieNode
	terminal bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// NewLookupTrie creates an empty trie with the given matching pipeline.
func NewLookupTrie(pipeline ...Transform) *LookupTrie {
	return &LookupTrie{pipeline: Pipeline(pipeline), root: newTrieNode()}
}

// Add inserts one entry. An empty sequence is ignored.
func (t *LookupTrie) Add(tokens []string) {
	if len(tokens) == 0 {
		return
	}
	node := t.root
	for _, tok := range tokens {
		key := t.pipeline.Apply(tok)
		next, ok := node.children[key]
		if !ok {
			next = newTrieNode()
			node.children[key] = next
		}
		node = next
	}
	if !node.terminal {
		node.terminal = true
		t.size++
	}
}

// Contains reports whether tokens is exactly one entry.
func (t *LookupTrie) Contains(tokens []string) bool {
	if t == nil || len(tokens) == 0 {
		return false
	}
	node := t.root
	for _, tok := range tokens {
		next, ok := node.children[t.pipeline.Apply(tok)]
		if !ok {
			return false
		}
		node = next
	}
	return node.terminal
}

// LongestMatchingPrefix walks tokens from the root and returns the longest
// prefix of tokens that ends on a terminal node. The work done is bounded by
// the length of the matched path, not by the size of the dictionary.
func (t *LookupTrie) LongestMatchingPrefix(tokens []string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	node := t.root
	longest := 0
	for i, tok := range tokens {
		next, ok := node.children[t.pipeline.Apply(tok)]
		if !ok {
			break
		}
		node = next
		if node.terminal {
			longest = i + 1
		}
	}
	if longest == 0 {
		return nil, false
	}
	return tokens[:longest], true
}

// Len returns the number of entries.
func (t *LookupTrie) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Pipeline returns the matching pipeline.
func (t *LookupTrie) Pipeline() Pipeline {
	if t == nil {
		return nil
	}
	return t.pipeline
}

// TrieFromSet builds a trie holding every item of set, split into token
// texts by tokenize. The trie inherits the set's matching pipeline.
func TrieFromSet(set *LookupSet, tokenize func(string) []string) *LookupTrie {
	trie := NewLookupTrie(set.Pipeline()...)
	for _, item := range set.Items() {
		trie.Add(tokenize(item))
	}
	return trie
}
