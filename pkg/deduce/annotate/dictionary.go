package annotate

import (
	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// TokenLookupAnnotator tags every single token whose text is in a set.
type TokenLookupAnnotator struct {
	Base
	set *lexicon.LookupSet
}

// NewTokenLookupAnnotator creates a single-token dictionary annotator.
func NewTokenLookupAnnotator(name, tag string, priority int, set *lexicon.LookupSet) *TokenLookupAnnotator {
	return &TokenLookupAnnotator{Base: NewBase(name, tag, priority), set: set}
}

// Annotate returns one annotation per token found in the set.
func (a *TokenLookupAnnotator) Annotate(doc *document.Document) ([]document.Annotation, error) {
	var out []document.Annotation
	for i := 0; i < doc.Tokens.Len(); i++ {
		if a.set.Contains(doc.Tokens.At(i).Text) {
			out = append(out, doc.SpanAnnotation(i, i, a.tag, a.priority))
		}
	}
	return out, nil
}

// MultiTokenLookupAnnotator tags runs of tokens that form a trie entry.
// Matching is greedy: the longest entry starting at a token wins and the
// scan continues after it. Comparison goes through the trie's matching
// pipeline while the annotation keeps the document's own casing.
type MultiTokenLookupAnnotator struct {
	Base
	trie *lexicon.LookupTrie
}

// NewMultiTokenLookupAnnotator creates a trie-backed dictionary annotator.
func NewMultiTokenLookupAnnotator(name, tag string, priority int, trie *lexicon.LookupTrie) *MultiTokenLookupAnnotator {
	return &MultiTokenLookupAnnotator{Base: NewBase(name, tag, priority), trie: trie}
}

// Annotate returns the non-overlapping longest matches, left to right.
func (a *MultiTokenLookupAnnotator) Annotate(doc *document.Document) ([]document.Annotation, error) {
	texts := doc.Tokens.Texts()
	var out []document.Annotation
	i := 0
	for i < len(texts) {
		prefix, ok := a.trie.LongestMatchingPrefix(texts[i:])
		if !ok {
			i++
			continue
		}
		end := i + len(prefix) - 1
		out = append(out, doc.SpanAnnotation(i, end, a.tag, a.priority))
		i = end + 1
	}
	return out, nil
}
