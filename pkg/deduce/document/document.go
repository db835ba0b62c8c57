package document

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Person holds the patient metadata used for identity matching.
// Empty fields are treated as absent.
type Person struct {
	FirstNames []string `yaml:"first_names" json:"first_names,omitempty"`
	Initials   string   `yaml:"initials" json:"initials,omitempty"`
	Surname    string   `yaml:"surname" json:"surname,omitempty"`
	GivenName  string   `yaml:"given_name" json:"given_name,omitempty"`
}

// PersonFromKeywords builds a Person from whitespace separated first names
// and single-valued fields. It returns nil when every field is empty.
func PersonFromKeywords(firstNames, initials, surname, givenName string) *Person {
	p := &Person{
		FirstNames: strings.Fields(firstNames),
		Initials:   strings.TrimSpace(initials),
		Surname:    strings.TrimSpace(surname),
		GivenName:  strings.TrimSpace(givenName),
	}
	if len(p.FirstNames) == 0 && p.Initials == "" && p.Surname == "" && p.GivenName == "" {
		return nil
	}
	return p
}

// Document is the unit of processing: the source text, its tokens and the
// optional patient. It is never mutated after construction.
type Document struct {
	ID     ulid.ULID
	Text   string
	Tokens TokenList
	Person *Person
}

// New creates a document with a fresh ULID.
func New(text string, tokens []Token, person *Person) *Document {
	return &Document{
		ID:     ulid.Make(),
		Text:   text,
		Tokens: NewTokenList(tokens),
		Person: person,
	}
}

// HasPerson reports whether patient metadata is attached.
func (d *Document) HasPerson() bool {
	return d.Person != nil
}

// SpanAnnotation builds an annotation covering tokens start..end inclusive.
func (d *Document) SpanAnnotation(start, end int, tag string, priority int) Annotation {
	s, e := d.Tokens.At(start), d.Tokens.At(end)
	return Annotation{
		Text:       d.Text[s.StartChar:e.EndChar],
		StartChar:  s.StartChar,
		EndChar:    e.EndChar,
		Tag:        tag,
		Priority:   priority,
		StartToken: start,
		EndToken:   end,
	}
}

// CharAnnotation builds an annotation over a raw character range, anchoring
// it on tokens when the range boundaries coincide with token boundaries.
func (d *Document) CharAnnotation(startChar, endChar int, tag string, priority int) Annotation {
	a := Annotation{
		Text:       d.Text[startChar:endChar],
		StartChar:  startChar,
		EndChar:    endChar,
		Tag:        tag,
		Priority:   priority,
		StartToken: NoToken,
		EndToken:   NoToken,
	}
	st, okStart := d.Tokens.StartingAt(startChar)
	et, okEnd := d.Tokens.EndingAt(endChar)
	if okStart && okEnd {
		a.StartToken, a.EndToken = st, et
	}
	return a
}
