package document

import "testing"

// split mimics the letter / non-letter tokenizer for ASCII test input.
func split(text string) []Token {
	var tokens []Token
	start := 0
	isLetter := func(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
	for i := 1; i <= len(text); i++ {
		if i == len(text) || isLetter(text[i]) != isLetter(text[i-1]) {
			tokens = append(tokens, Token{Text: text[start:i], StartChar: start, EndChar: i})
			start = i
		}
	}
	return tokens
}

func TestNextAlphaStopsAtBrackets(t *testing.T) {
	l := NewTokenList(split("(Jan) Piet"))
	jan := 1
	if l.At(jan).Text != "Jan" {
		t.Fatalf("unexpected token layout: %v", l.Texts())
	}
	if i, ok := l.NextAlpha(jan); ok {
		t.Errorf("NextAlpha crossed ')' and returned %q", l.At(i).Text)
	}

	piet := l.Len() - 1
	if i, ok := l.PreviousAlpha(piet); !ok || l.At(i).Text != "Jan" {
		t.Errorf("PreviousAlpha from Piet = %v, %v; want Jan", i, ok)
	}
}

func TestPreviousAlphaStopsAtOpeningBracket(t *testing.T) {
	l := NewTokenList(split("Jan (Piet"))
	piet := l.Len() - 1
	if _, ok := l.PreviousAlpha(piet); ok {
		t.Error("PreviousAlpha should stop at '('")
	}
}

func TestBracketInsidePunctuationToken(t *testing.T) {
	tests := []struct {
		text         string
		next, prev   bool
		nextFromLeft string
	}{
		// ", (" opens a parenthetical although it starts with a comma.
		{text: "Jan, (Piet", next: true, prev: false, nextFromLeft: "Piet"},
		{text: "Jan.) Piet", next: false, prev: true},
		{text: "Jan, Piet", next: true, prev: true, nextFromLeft: "Piet"},
	}
	for _, tt := range tests {
		l := NewTokenList(split(tt.text))
		if l.Len() != 3 {
			t.Fatalf("unexpected token layout for %q: %v", tt.text, l.Texts())
		}
		i, ok := l.NextAlpha(0)
		if ok != tt.next || (ok && l.At(i).Text != tt.nextFromLeft) {
			t.Errorf("%q: NextAlpha(0) = %d, %v", tt.text, i, ok)
		}
		if _, ok := l.PreviousAlpha(2); ok != tt.prev {
			t.Errorf("%q: PreviousAlpha(2) ok = %v, want %v", tt.text, ok, tt.prev)
		}
	}
}

func TestAlphaNavigationStopsAtNewline(t *testing.T) {
	l := NewTokenList(split("Jan\nPiet en Klaas"))
	if _, ok := l.NextAlpha(0); ok {
		t.Error("NextAlpha should stop at newline")
	}
	if _, ok := l.PreviousAlpha(2); ok {
		t.Error("PreviousAlpha should stop at newline")
	}
	i, ok := l.NextAlphaN(2, 2)
	if !ok || l.At(i).Text != "Klaas" {
		t.Errorf("NextAlphaN(2) = %d, %v; want Klaas", i, ok)
	}
}

func TestImmediateNeighbours(t *testing.T) {
	l := NewTokenList(split("a b"))
	if _, ok := l.Previous(0); ok {
		t.Error("first token has no previous")
	}
	if _, ok := l.Next(l.Len() - 1); ok {
		t.Error("last token has no next")
	}
	if i, ok := l.Next(0); !ok || i != 1 {
		t.Errorf("Next(0) = %d, %v", i, ok)
	}
}

func TestStartingAndEndingAt(t *testing.T) {
	l := NewTokenList(split("De patient Jansen"))
	i, ok := l.StartingAt(11)
	if !ok || l.At(i).Text != "Jansen" {
		t.Errorf("StartingAt(11) = %d, %v", i, ok)
	}
	if _, ok := l.StartingAt(12); ok {
		t.Error("StartingAt inside a token should fail")
	}
	j, ok := l.EndingAt(10)
	if !ok || l.At(j).Text != "patient" {
		t.Errorf("EndingAt(10) = %d, %v", j, ok)
	}
}
