package ingest

import (
	"regexp"
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// tokenPattern matches a maximal run of letters or a maximal run of
// anything else, so consecutive matches always cover the whole input.
var tokenPattern = regexp.MustCompile(`\p{L}+|\P{L}+`)

// Tokenizer splits text into letter / non-letter runs and optionally joins
// fixed phrases (interfixes, prefixes, "A1") into single tokens.
//
// A Tokenizer is read-only after construction and safe for concurrent use.
type Tokenizer struct {
	merge *lexicon.LookupTrie
}

// NewTokenizer creates a tokenizer. Every merge term is split the same way
// document text is split and stored in a trie; during tokenization the
// longest matching run of tokens is joined into one token.
func NewTokenizer(mergeTerms []string) *Tokenizer {
	t := &Tokenizer{}
	if len(mergeTerms) == 0 {
		return t
	}
	trie := lexicon.NewLookupTrie()
	for _, term := range mergeTerms {
		trie.Add(texts(split(term)))
	}
	t.merge = trie
	return t
}

// MergeTerms returns the number of configured merge terms.
func (t *Tokenizer) MergeTerms() int {
	return t.merge.Len()
}

// Tokenize splits text into tokens covering it without gaps or overlaps.
func (t *Tokenizer) Tokenize(text string) []document.Token {
	tokens := split(text)
	if t.merge != nil {
		tokens = t.mergeTokens(tokens)
	}
	return tokens
}

// Texts tokenizes text and returns only the token texts, the form in which
// dictionary entries are stored in lookup tries.
func (t *Tokenizer) Texts(text string) []string {
	return texts(t.Tokenize(text))
}

// mergeTokens applies greedy longest-match: at each position the longest
// trie entry is joined into one token, otherwise the token passes through.
func (t *Tokenizer) mergeTokens(tokens []document.Token) []document.Token {
	tokenTexts := texts(tokens)
	merged := make([]document.Token, 0, len(tokens))

	i := 0
	for i < len(tokens) {
		prefix, ok := t.merge.LongestMatchingPrefix(tokenTexts[i:])
		if !ok {
			merged = append(merged, tokens[i])
			i++
			continue
		}
		merged = append(merged, JoinTokens(tokens[i:i+len(prefix)]))
		i += len(prefix)
	}
	return merged
}

// JoinTokens joins contiguous tokens into a single token.
// It panics on an empty slice.
func JoinTokens(tokens []document.Token) document.Token {
	if len(tokens) == 1 {
		return tokens[0]
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return document.Token{
		Text:      b.String(),
		StartChar: tokens[0].StartChar,
		EndChar:   tokens[len(tokens)-1].EndChar,
	}
}

func split(text string) []document.Token {
	spans := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]document.Token, len(spans))
	for i, sp := range spans {
		tokens[i] = document.Token{Text: text[sp[0]:sp[1]], StartChar: sp[0], EndChar: sp[1]}
	}
	return tokens
}

func texts(tokens []document.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
