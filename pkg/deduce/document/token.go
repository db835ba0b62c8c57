package document

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoToken marks an annotation side that is not anchored on a token.
const NoToken = -1

// Token is an immutable span of the source text.
// EndChar-StartChar always equals len(Text); offsets are byte offsets.
type Token struct {
	Text      string
	StartChar int
	EndChar   int
}

// StartsAlpha reports whether the token text begins with a letter.
func (t Token) StartsAlpha() bool {
	r, _ := utf8.DecodeRuneInString(t.Text)
	return r != utf8.RuneError && unicode.IsLetter(r)
}

// StartsUpper reports whether the token text begins with an uppercase letter.
func (t Token) StartsUpper() bool {
	r, _ := utf8.DecodeRuneInString(t.Text)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// RuneLen returns the number of characters in the token text.
func (t Token) RuneLen() int {
	return utf8.RuneCountInString(t.Text)
}

// TokenList is the append-only token sequence owned by one document.
// Neighbour navigation is index arithmetic; no token refers to another.
type TokenList struct {
	tokens []Token
}

// NewTokenList wraps tokens; the slice is copied.
func NewTokenList(tokens []Token) TokenList {
	cp := make([]Token, len(tokens))
	copy(cp, tokens)
	return TokenList{tokens: cp}
}

// Len returns the number of tokens.
func (l TokenList) Len() int { return len(l.tokens) }

// At returns the token at index i. It panics when i is out of range.
func (l TokenList) At(i int) Token { return l.tokens[i] }

// Valid reports whether i indexes a token.
func (l TokenList) Valid(i int) bool { return i >= 0 && i < len(l.tokens) }

// Texts returns the token texts in order.
func (l TokenList) Texts() []string {
	out := make([]string, len(l.tokens))
	for i, t := range l.tokens {
		out[i] = t.Text
	}
	return out
}

// Tokens returns a copy of the underlying tokens.
func (l TokenList) Tokens() []Token {
	out := make([]Token, len(l.tokens))
	copy(out, l.tokens)
	return out
}

// Next returns the index of the immediate right neighbour of i.
func (l TokenList) Next(i int) (int, bool) {
	if i+1 >= len(l.tokens) || i < 0 {
		return NoToken, false
	}
	return i + 1, true
}

// Previous returns the index of the immediate left neighbour of i.
func (l TokenList) Previous(i int) (int, bool) {
	if i <= 0 || i > len(l.tokens) {
		return NoToken, false
	}
	return i - 1, true
}

// NextAlpha returns the first token right of i that starts with a letter.
// The scan gives up on a closing bracket, a newline, carriage return or tab,
// so that names never cross into another parenthetical or line.
func (l TokenList) NextAlpha(i int) (int, bool) {
	if i < 0 {
		return NoToken, false
	}
	for j := i + 1; j < len(l.tokens); j++ {
		tok := l.tokens[j]
		if tok.StartsAlpha() {
			return j, true
		}
		if strings.ContainsAny(tok.Text, ")>\n\r\t") {
			return NoToken, false
		}
	}
	return NoToken, false
}

// PreviousAlpha mirrors NextAlpha to the left, stopping on an opening bracket
// or line break.
func (l TokenList) PreviousAlpha(i int) (int, bool) {
	if i > len(l.tokens) {
		return NoToken, false
	}
	for j := i - 1; j >= 0; j-- {
		tok := l.tokens[j]
		if tok.StartsAlpha() {
			return j, true
		}
		if strings.ContainsAny(tok.Text, "(<\n\r\t") {
			return NoToken, false
		}
	}
	return NoToken, false
}

// NextAlphaN applies NextAlpha n times.
func (l TokenList) NextAlphaN(i, n int) (int, bool) {
	ok := true
	for k := 0; k < n && ok; k++ {
		i, ok = l.NextAlpha(i)
	}
	return i, ok
}

// PreviousAlphaN applies PreviousAlpha n times.
func (l TokenList) PreviousAlphaN(i, n int) (int, bool) {
	ok := true
	for k := 0; k < n && ok; k++ {
		i, ok = l.PreviousAlpha(i)
	}
	return i, ok
}

// StartingAt returns the index of the token whose span starts at char.
func (l TokenList) StartingAt(char int) (int, bool) {
	i := l.search(char, func(t Token) int { return t.StartChar })
	if i < len(l.tokens) && l.tokens[i].StartChar == char {
		return i, true
	}
	return NoToken, false
}

// EndingAt returns the index of the token whose span ends at char.
func (l TokenList) EndingAt(char int) (int, bool) {
	i := l.search(char, func(t Token) int { return t.EndChar })
	if i < len(l.tokens) && l.tokens[i].EndChar == char {
		return i, true
	}
	return NoToken, false
}

func (l TokenList) search(char int, key func(Token) int) int {
	lo, hi := 0, len(l.tokens)
	for lo < hi {
		mid := (lo + hi) / 2
		if key(l.tokens[mid]) < char {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
