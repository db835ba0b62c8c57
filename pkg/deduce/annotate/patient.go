package annotate

import (
	"fmt"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/fuzzy"
)

// Patient tags. Every tag produced from patient metadata contains
// "patient", which is what the person converter keys on.
const (
	TagFirstNamePatient   = "voornaam_patient"
	TagInitialPatient     = "initiaal_patient"
	TagInitialsPatient    = "initialen_patient"
	TagGivenNamePatient   = "roepnaam_patient"
	TagSurnamePatient     = "achternaam_patient"
	defaultSurnameCacheSz = 512
)

// nameMatches reports whether token text equals name, or for tokens longer
// than three characters is one edit away from it.
func nameMatches(text, name string) bool {
	if text == name {
		return true
	}
	return utf8.RuneCountInString(text) > 3 && fuzzy.WithinOSA(text, name, 1)
}

// PatientFirstNamePattern matches any of the patient's first names.
type PatientFirstNamePattern struct{ anyDoc }

// DocPrecondition requires first names.
func (PatientFirstNamePattern) DocPrecondition(doc *document.Document) bool {
	return doc.HasPerson() && len(doc.Person.FirstNames) > 0
}

// Match implements TokenPattern.
func (PatientFirstNamePattern) Match(doc *document.Document, i int) (int, int, bool) {
	tok := doc.Tokens.At(i)
	if !tok.StartsAlpha() {
		return document.NoToken, document.NoToken, false
	}
	for _, name := range doc.Person.FirstNames {
		if nameMatches(tok.Text, name) {
			return i, i, true
		}
	}
	return document.NoToken, document.NoToken, false
}

// PatientInitialPattern matches the first letter of any first name, taking
// in a directly following "." token.
type PatientInitialPattern struct{ anyDoc }

// DocPrecondition requires first names.
func (PatientInitialPattern) DocPrecondition(doc *document.Document) bool {
	return doc.HasPerson() && len(doc.Person.FirstNames) > 0
}

// Match implements TokenPattern.
func (PatientInitialPattern) Match(doc *document.Document, i int) (int, int, bool) {
	text := doc.Tokens.At(i).Text
	for _, name := range doc.Person.FirstNames {
		r, size := utf8.DecodeRuneInString(name)
		if r == utf8.RuneError || text != name[:size] {
			continue
		}
		if next, ok := doc.Tokens.Next(i); ok && doc.Tokens.At(next).Text == "." {
			return i, next, true
		}
		return i, i, true
	}
	return document.NoToken, document.NoToken, false
}

// PatientInitialsPattern matches the full initials string, e.g. "JPM".
type PatientInitialsPattern struct{ anyDoc }

// DocPrecondition requires initials.
func (PatientInitialsPattern) DocPrecondition(doc *document.Document) bool {
	return doc.HasPerson() && doc.Person.Initials != ""
}

// Match implements TokenPattern.
func (PatientInitialsPattern) Match(doc *document.Document, i int) (int, int, bool) {
	if doc.Tokens.At(i).Text == doc.Person.Initials {
		return i, i, true
	}
	return document.NoToken, document.NoToken, false
}

// PatientGivenNamePattern matches the name the patient is called by.
type PatientGivenNamePattern struct{ anyDoc }

// DocPrecondition requires a given name.
func (PatientGivenNamePattern) DocPrecondition(doc *document.Document) bool {
	return doc.HasPerson() && doc.Person.GivenName != ""
}

// Match implements TokenPattern.
func (PatientGivenNamePattern) Match(doc *document.Document, i int) (int, int, bool) {
	tok := doc.Tokens.At(i)
	if tok.StartsAlpha() && nameMatches(tok.Text, doc.Person.GivenName) {
		return i, i, true
	}
	return document.NoToken, document.NoToken, false
}

// PatientSurnamePattern matches the patient's surname, which may span
// several tokens ("van der Berg"). Each word of the surname must be within
// one edit of the corresponding document word. Tokenized surnames are
// cached, since the same patient usually appears in many documents.
type PatientSurnamePattern struct {
	anyDoc
	tokenize func(string) []string
	cache    *lru.Cache[string, []string]
}

// NewPatientSurnamePattern creates the pattern. tokenize must split text
// the way the document tokenizer does.
func NewPatientSurnamePattern(tokenize func(string) []string, cacheSize int) (*PatientSurnamePattern, error) {
	if cacheSize <= 0 {
		cacheSize = defaultSurnameCacheSz
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("surname cache: %w", err)
	}
	return &PatientSurnamePattern{tokenize: tokenize, cache: cache}, nil
}

// DocPrecondition requires a surname.
func (p *PatientSurnamePattern) DocPrecondition(doc *document.Document) bool {
	return doc.HasPerson() && doc.Person.Surname != ""
}

// Words returns the alphabetic tokens of surname.
func (p *PatientSurnamePattern) Words(surname string) []string {
	if words, ok := p.cache.Get(surname); ok {
		return words
	}
	var words []string
	for _, text := range p.tokenize(surname) {
		if (document.Token{Text: text}).StartsAlpha() {
			words = append(words, text)
		}
	}
	p.cache.Add(surname, words)
	return words
}

// Match walks the document from token i, one surname word at a time.
// Any miss aborts; running out of document words first is a miss too.
func (p *PatientSurnamePattern) Match(doc *document.Document, i int) (int, int, bool) {
	words := p.Words(doc.Person.Surname)
	if len(words) == 0 || !doc.Tokens.At(i).StartsAlpha() {
		return document.NoToken, document.NoToken, false
	}
	cur := i
	for k, word := range words {
		if !fuzzy.WithinOSA(word, doc.Tokens.At(cur).Text, 1) {
			return document.NoToken, document.NoToken, false
		}
		if k == len(words)-1 {
			break
		}
		next, ok := nextWordToken(doc, cur)
		if !ok {
			return document.NoToken, document.NoToken, false
		}
		cur = next
	}
	return i, cur, true
}

// NewPatientAnnotators returns the patient annotators in their fixed order:
// first names, initial, initials, given name, surname.
func NewPatientAnnotators(priority int, tokenize func(string) []string) ([]Annotator, error) {
	surname, err := NewPatientSurnamePattern(tokenize, 0)
	if err != nil {
		return nil, err
	}
	return []Annotator{
		NewTokenPatternAnnotator("person_first_name", TagFirstNamePatient, priority, PatientFirstNamePattern{}),
		NewTokenPatternAnnotator("person_initial_from_name", TagInitialPatient, priority, PatientInitialPattern{}),
		NewTokenPatternAnnotator("person_initials", TagInitialsPatient, priority, PatientInitialsPattern{}),
		NewTokenPatternAnnotator("person_given_name", TagGivenNamePatient, priority, PatientGivenNamePattern{}),
		NewTokenPatternAnnotator("person_surname", TagSurnamePatient, priority, surname),
	}, nil
}
