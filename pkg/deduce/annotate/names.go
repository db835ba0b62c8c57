package annotate

import (
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// Name patterns look at the anchor token and its alphabetic neighbours.
// Neighbours are found with TokenList.NextAlpha / PreviousAlpha, so a
// pattern never spans brackets or line breaks.

type namePattern struct {
	anyDoc
	bundle *lexicon.Bundle
}

func (p namePattern) whitelisted(text string) bool {
	return p.bundle.Set(lexicon.Whitelist).Contains(text)
}

func (p namePattern) inLower(set, text string) bool {
	return p.bundle.Set(set).Contains(strings.ToLower(text))
}

// PrefixWithNamePattern matches a title such as "dhr" followed by a
// capitalised word.
type PrefixWithNamePattern struct{ namePattern }

// NewPrefixWithNamePattern creates the pattern.
func NewPrefixWithNamePattern(bundle *lexicon.Bundle) *PrefixWithNamePattern {
	return &PrefixWithNamePattern{namePattern{bundle: bundle}}
}

// Match implements TokenPattern.
func (p *PrefixWithNamePattern) Match(doc *document.Document, i int) (int, int, bool) {
	next, ok := doc.Tokens.NextAlpha(i)
	if !ok || !p.inLower(lexicon.Prefixes, doc.Tokens.At(i).Text) {
		return document.NoToken, document.NoToken, false
	}
	tok := doc.Tokens.At(next)
	if !tok.StartsUpper() || p.whitelisted(tok.Text) {
		return document.NoToken, document.NoToken, false
	}
	return i, next, true
}

// InterfixWithNamePattern matches an interfix followed by a surname known
// to occur after interfixes ("van" "Dijk").
type InterfixWithNamePattern struct{ namePattern }

// NewInterfixWithNamePattern creates the pattern.
func NewInterfixWithNamePattern(bundle *lexicon.Bundle) *InterfixWithNamePattern {
	return &InterfixWithNamePattern{namePattern{bundle: bundle}}
}

// Match implements TokenPattern.
func (p *InterfixWithNamePattern) Match(doc *document.Document, i int) (int, int, bool) {
	next, ok := doc.Tokens.NextAlpha(i)
	if !ok || !p.inLower(lexicon.Interfixes, doc.Tokens.At(i).Text) {
		return document.NoToken, document.NoToken, false
	}
	text := doc.Tokens.At(next).Text
	if !p.bundle.Set(lexicon.InterfixSurnames).Contains(text) || p.whitelisted(text) {
		return document.NoToken, document.NoToken, false
	}
	return i, next, true
}

// InitialWithCapitalPattern matches a single capital letter followed by a
// capitalised word of more than three characters ("J. Jansen").
type InitialWithCapitalPattern struct{ namePattern }

// NewInitialWithCapitalPattern creates the pattern.
func NewInitialWithCapitalPattern(bundle *lexicon.Bundle) *InitialWithCapitalPattern {
	return &InitialWithCapitalPattern{namePattern{bundle: bundle}}
}

// Match implements TokenPattern.
func (p *InitialWithCapitalPattern) Match(doc *document.Document, i int) (int, int, bool) {
	tok := doc.Tokens.At(i)
	if !tok.StartsUpper() || tok.RuneLen() != 1 {
		return document.NoToken, document.NoToken, false
	}
	next, ok := doc.Tokens.NextAlpha(i)
	if !ok {
		return document.NoToken, document.NoToken, false
	}
	name := doc.Tokens.At(next)
	if name.RuneLen() <= 3 || !name.StartsUpper() || p.whitelisted(name.Text) {
		return document.NoToken, document.NoToken, false
	}
	return i, next, true
}

// InitialInterfixCapitalPattern anchors on an interfix preceded by an
// initial and followed by a capitalised word ("A. van Berg").
type InitialInterfixCapitalPattern struct{ namePattern }

// NewInitialInterfixCapitalPattern creates the pattern.
func NewInitialInterfixCapitalPattern(bundle *lexicon.Bundle) *InitialInterfixCapitalPattern {
	return &InitialInterfixCapitalPattern{namePattern{bundle: bundle}}
}

// Match implements TokenPattern.
func (p *InitialInterfixCapitalPattern) Match(doc *document.Document, i int) (int, int, bool) {
	if !p.bundle.Set(lexicon.Interfixes).Contains(doc.Tokens.At(i).Text) {
		return document.NoToken, document.NoToken, false
	}
	prev, okPrev := doc.Tokens.PreviousAlpha(i)
	next, okNext := doc.Tokens.NextAlpha(i)
	if !okPrev || !okNext {
		return document.NoToken, document.NoToken, false
	}
	initial := doc.Tokens.At(prev)
	if !initial.StartsUpper() || initial.RuneLen() != 1 || !doc.Tokens.At(next).StartsUpper() {
		return document.NoToken, document.NoToken, false
	}
	return prev, next, true
}

// LookupNamePattern matches a single token found in one dictionary and
// absent from the whitelist. It serves both first name and surname lookup.
type LookupNamePattern struct {
	namePattern
	set string
}

// NewLookupNamePattern creates the pattern for the named dictionary.
func NewLookupNamePattern(bundle *lexicon.Bundle, set string) *LookupNamePattern {
	return &LookupNamePattern{namePattern: namePattern{bundle: bundle}, set: set}
}

// Match implements TokenPattern.
func (p *LookupNamePattern) Match(doc *document.Document, i int) (int, int, bool) {
	text := doc.Tokens.At(i).Text
	if !p.bundle.Set(p.set).Contains(text) || p.whitelisted(text) {
		return document.NoToken, document.NoToken, false
	}
	return i, i, true
}
