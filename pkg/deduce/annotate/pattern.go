package annotate

import (
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
)

// TokenPattern matches at a single anchor token and returns the inclusive
// token span it covers.
type TokenPattern interface {
	// DocPrecondition reports whether the pattern can match anywhere in doc.
	DocPrecondition(doc *document.Document) bool
	// TokenPrecondition is a cheap check run before Match.
	TokenPrecondition(doc *document.Document, i int) bool
	Match(doc *document.Document, i int) (start, end int, ok bool)
}

// anyDoc provides the always-true preconditions.
type anyDoc struct{}

func (anyDoc) DocPrecondition(*document.Document) bool        { return true }
func (anyDoc) TokenPrecondition(*document.Document, int) bool { return true }

// TokenPatternAnnotator runs a TokenPattern at every token of a document.
type TokenPatternAnnotator struct {
	Base
	pattern TokenPattern
}

// NewTokenPatternAnnotator wraps pattern as an annotator.
func NewTokenPatternAnnotator(name, tag string, priority int, pattern TokenPattern) *TokenPatternAnnotator {
	return &TokenPatternAnnotator{Base: NewBase(name, tag, priority), pattern: pattern}
}

// Pattern returns the wrapped pattern.
func (a *TokenPatternAnnotator) Pattern() TokenPattern { return a.pattern }

// Annotate returns one annotation per matching anchor token.
func (a *TokenPatternAnnotator) Annotate(doc *document.Document) ([]document.Annotation, error) {
	if !a.pattern.DocPrecondition(doc) {
		return nil, nil
	}
	var out []document.Annotation
	for i := 0; i < doc.Tokens.Len(); i++ {
		if !a.pattern.TokenPrecondition(doc, i) {
			continue
		}
		start, end, ok := a.pattern.Match(doc, i)
		if !ok {
			continue
		}
		out = append(out, doc.SpanAnnotation(start, end, a.tag, a.priority))
	}
	return out, nil
}

// nextWordToken returns the next token right of i that starts with a letter,
// passing only over tokens made of spaces, periods and hyphens.
func nextWordToken(doc *document.Document, i int) (int, bool) {
	for j := i + 1; doc.Tokens.Valid(j); j++ {
		tok := doc.Tokens.At(j)
		if tok.StartsAlpha() {
			return j, true
		}
		if strings.Trim(tok.Text, " .-") != "" {
			return document.NoToken, false
		}
	}
	return document.NoToken, false
}
