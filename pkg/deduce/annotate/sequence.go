package annotate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// Predicate tests one token of a sequence pattern.
type Predicate func(tok document.Token) bool

// multiLetterInitials are abbreviations that count as one initial.
var multiLetterInitials = map[string]bool{"Ch": true, "Chr": true, "Ph": true, "Th": true}

// Literal matches tokens with exactly this text.
func Literal(text string) Predicate {
	return func(tok document.Token) bool { return tok.Text == text }
}

// Regex matches tokens whose whole text matches re.
func Regex(re *regexp.Regexp) Predicate {
	return func(tok document.Token) bool {
		loc := re.FindStringIndex(tok.Text)
		return loc != nil && loc[0] == 0 && loc[1] == len(tok.Text)
	}
}

// IsInitial matches a single uppercase letter or a known multi-letter
// initial such as "Chr".
func IsInitial() Predicate {
	return func(tok document.Token) bool {
		return (tok.RuneLen() == 1 && tok.StartsUpper()) || multiLetterInitials[tok.Text]
	}
}

// LikeName matches capitalised words of at least three characters without
// digits.
func LikeName() Predicate {
	return func(tok document.Token) bool {
		return tok.RuneLen() >= 3 && tok.StartsUpper() && !strings.ContainsFunc(tok.Text, unicode.IsDigit)
	}
}

// MinLen matches tokens of at least n characters.
func MinLen(n int) Predicate {
	return func(tok document.Token) bool { return tok.RuneLen() >= n }
}

// MaxLen matches tokens of at most n characters.
func MaxLen(n int) Predicate {
	return func(tok document.Token) bool { return tok.RuneLen() <= n }
}

// InSet matches tokens found in set.
func InSet(set *lexicon.LookupSet) Predicate {
	return func(tok document.Token) bool { return set.Contains(tok.Text) }
}

// InSetLower matches tokens whose lowercased text is found in set.
func InSetLower(set *lexicon.LookupSet) Predicate {
	return func(tok document.Token) bool { return set.Contains(strings.ToLower(tok.Text)) }
}

// NotInSet matches tokens absent from set.
func NotInSet(set *lexicon.LookupSet) Predicate {
	return func(tok document.Token) bool { return !set.Contains(tok.Text) }
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(tok document.Token) bool {
		for _, p := range preds {
			if !p(tok) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(tok document.Token) bool {
		for _, p := range preds {
			if p(tok) {
				return true
			}
		}
		return false
	}
}

// Direction is the walking direction of a sequence pattern.
type Direction int

// Walking directions.
const (
	Right Direction = iota
	Left
)

// ParseDirection parses "right" (also the empty string) or "left".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "right":
		return Right, nil
	case "left":
		return Left, nil
	}
	return Right, fmt.Errorf("unknown direction %q: %w", s, internalerr.ErrInvalidConfig)
}

// SequencePattern matches one predicate per token, starting at the anchor
// and walking in Direction. Tokens whose trimmed text is in Skip, and
// whitespace tokens without a line break, are stepped over between
// predicates.
type SequencePattern struct {
	anyDoc
	Direction  Direction
	Skip       map[string]bool
	Predicates []Predicate
}

// NewSequencePattern creates a sequence pattern.
func NewSequencePattern(dir Direction, skip []string, preds ...Predicate) *SequencePattern {
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}
	return &SequencePattern{Direction: dir, Skip: skipSet, Predicates: preds}
}

// Match implements TokenPattern.
func (p *SequencePattern) Match(doc *document.Document, i int) (int, int, bool) {
	if len(p.Predicates) == 0 {
		return document.NoToken, document.NoToken, false
	}
	cur := i
	for k, pred := range p.Predicates {
		if k > 0 {
			next, ok := p.step(doc, cur)
			if !ok {
				return document.NoToken, document.NoToken, false
			}
			cur = next
		}
		if !pred(doc.Tokens.At(cur)) {
			return document.NoToken, document.NoToken, false
		}
	}
	if p.Direction == Left {
		return cur, i, true
	}
	return i, cur, true
}

func (p *SequencePattern) step(doc *document.Document, i int) (int, bool) {
	delta := 1
	if p.Direction == Left {
		delta = -1
	}
	for j := i + delta; doc.Tokens.Valid(j); j += delta {
		if !p.skippable(doc.Tokens.At(j).Text) {
			return j, true
		}
	}
	return document.NoToken, false
}

func (p *SequencePattern) skippable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return !strings.ContainsAny(text, "\n\r")
	}
	return p.Skip[trimmed]
}
