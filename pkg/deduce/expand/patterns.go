package expand

import (
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// ContextPattern grows an annotation using the tokens around it.
type ContextPattern interface {
	Name() string
	// Template builds the new tag; "{tag}" is replaced by the current tag.
	Template() string
	DocPrecondition(doc *document.Document) bool
	// TokenPrecondition checks that the neighbours Match needs exist.
	TokenPrecondition(doc *document.Document, start, end int) bool
	Match(doc *document.Document, start, end int, tag string) (newStart, newEnd int, ok bool)
}

// Default tag templates.
const (
	InitialsTemplate    = "initiaal+{tag}"
	InterfixTemplate    = "{tag}+interfix+achternaam"
	InitialNameTemplate = "{tag}+initiaalhoofdletternaam"
	NexusTemplate       = "{tag}+en+hoofdletternaam"
	PrefixTemplate      = "prefix+{tag}"
)

type contextBase struct {
	name     string
	template string
	bundle   *lexicon.Bundle
}

func (c contextBase) Name() string                            { return c.name }
func (c contextBase) Template() string                        { return c.template }
func (c contextBase) DocPrecondition(*document.Document) bool { return true }

func (c contextBase) whitelisted(text string) bool {
	return c.bundle.Set(lexicon.Whitelist).Contains(text)
}

func tagHasAny(tag string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(tag, m) {
			return true
		}
	}
	return false
}

func noMatch() (int, int, bool) { return document.NoToken, document.NoToken, false }

// InitialsContext extends surnames, interfixes and initials to the left
// over an initial or a capitalised word that is neither whitelisted nor a
// prefix ("Jan Jansen", "J. van Dijk").
type InitialsContext struct{ contextBase }

// NewInitialsContext creates the pattern. An empty template selects
// InitialsTemplate.
func NewInitialsContext(bundle *lexicon.Bundle, template string) *InitialsContext {
	return &InitialsContext{contextBase{name: "initials", template: orDefault(template, InitialsTemplate), bundle: bundle}}
}

// TokenPrecondition implements ContextPattern.
func (c *InitialsContext) TokenPrecondition(doc *document.Document, start, _ int) bool {
	_, ok := doc.Tokens.PreviousAlpha(start)
	return ok
}

// Match implements ContextPattern.
func (c *InitialsContext) Match(doc *document.Document, start, end int, tag string) (int, int, bool) {
	if !tagHasAny(tag, "achternaam", "interfix", "initia") {
		return noMatch()
	}
	prev, ok := doc.Tokens.PreviousAlpha(start)
	if !ok {
		return noMatch()
	}
	tok := doc.Tokens.At(prev)
	isInitial := tok.RuneLen() == 1 && tok.StartsUpper()
	isName := tok.StartsUpper() && !c.whitelisted(tok.Text) &&
		!c.bundle.Set(lexicon.Prefixes).Contains(strings.ToLower(tok.Text))
	if !isInitial && !isName {
		return noMatch()
	}
	return prev, end, true
}

// InterfixContext extends names and initials to the right over an
// interfix and the capitalised word after it ("Jan van Dijk").
type InterfixContext struct{ contextBase }

// NewInterfixContext creates the pattern. An empty template selects
// InterfixTemplate.
func NewInterfixContext(bundle *lexicon.Bundle, template string) *InterfixContext {
	return &InterfixContext{contextBase{name: "interfix", template: orDefault(template, InterfixTemplate), bundle: bundle}}
}

// TokenPrecondition implements ContextPattern.
func (c *InterfixContext) TokenPrecondition(doc *document.Document, _, end int) bool {
	_, ok := doc.Tokens.NextAlphaN(end, 2)
	return ok
}

// Match implements ContextPattern.
func (c *InterfixContext) Match(doc *document.Document, start, end int, tag string) (int, int, bool) {
	if !tagHasAny(tag, "initia", "naam") {
		return noMatch()
	}
	interfix, ok := doc.Tokens.NextAlpha(end)
	if !ok || !c.bundle.Set(lexicon.Interfixes).Contains(doc.Tokens.At(interfix).Text) {
		return noMatch()
	}
	name, ok := doc.Tokens.NextAlpha(interfix)
	if !ok || !doc.Tokens.At(name).StartsUpper() {
		return noMatch()
	}
	return start, name, true
}

// InitialNameContext extends initials, first names, given names and
// prefixes to the right over a capitalised word longer than three
// characters ("J. Jansen", "dhr. Jan Jansen").
type InitialNameContext struct{ contextBase }

// NewInitialNameContext creates the pattern. An empty template selects
// InitialNameTemplate.
func NewInitialNameContext(bundle *lexicon.Bundle, template string) *InitialNameContext {
	return &InitialNameContext{contextBase{name: "initial_name", template: orDefault(template, InitialNameTemplate), bundle: bundle}}
}

// TokenPrecondition implements ContextPattern.
func (c *InitialNameContext) TokenPrecondition(doc *document.Document, _, end int) bool {
	_, ok := doc.Tokens.NextAlpha(end)
	return ok
}

// Match implements ContextPattern.
func (c *InitialNameContext) Match(doc *document.Document, start, end int, tag string) (int, int, bool) {
	if !tagHasAny(tag, "initia", "voornaam", "roepnaam", "prefix") {
		return noMatch()
	}
	next, ok := doc.Tokens.NextAlpha(end)
	if !ok {
		return noMatch()
	}
	tok := doc.Tokens.At(next)
	if tok.RuneLen() <= 3 || !tok.StartsUpper() || c.whitelisted(tok.Text) {
		return noMatch()
	}
	return start, next, true
}

// NexusContext joins a name with a following "en" and capitalised word
// ("Jan en Piet").
type NexusContext struct{ contextBase }

// NewNexusContext creates the pattern. An empty template selects
// NexusTemplate.
func NewNexusContext(template string) *NexusContext {
	return &NexusContext{contextBase{name: "nexus", template: orDefault(template, NexusTemplate)}}
}

// TokenPrecondition implements ContextPattern.
func (c *NexusContext) TokenPrecondition(doc *document.Document, _, end int) bool {
	_, ok := doc.Tokens.NextAlphaN(end, 2)
	return ok
}

// Match implements ContextPattern.
func (c *NexusContext) Match(doc *document.Document, start, end int, _ string) (int, int, bool) {
	conj, ok := doc.Tokens.NextAlpha(end)
	if !ok || doc.Tokens.At(conj).Text != "en" {
		return noMatch()
	}
	name, ok := doc.Tokens.NextAlpha(conj)
	if !ok || !doc.Tokens.At(name).StartsUpper() {
		return noMatch()
	}
	return start, name, true
}

// PrefixContext extends patient names to the left over a title or role
// word from the prefix list ("dhr. Jansen", "patient J. Jansen"), so the
// word is redacted together with the name. Other names get their prefix
// from the prefix name annotator.
type PrefixContext struct{ contextBase }

// NewPrefixContext creates the pattern. An empty template selects
// PrefixTemplate.
func NewPrefixContext(bundle *lexicon.Bundle, template string) *PrefixContext {
	return &PrefixContext{contextBase{name: "prefix", template: orDefault(template, PrefixTemplate), bundle: bundle}}
}

// TokenPrecondition implements ContextPattern.
func (c *PrefixContext) TokenPrecondition(doc *document.Document, start, _ int) bool {
	_, ok := doc.Tokens.PreviousAlpha(start)
	return ok
}

// Match implements ContextPattern.
func (c *PrefixContext) Match(doc *document.Document, start, end int, tag string) (int, int, bool) {
	if !strings.Contains(tag, "patient") {
		return noMatch()
	}
	prev, ok := doc.Tokens.PreviousAlpha(start)
	if !ok || !c.bundle.Set(lexicon.Prefixes).Contains(strings.ToLower(doc.Tokens.At(prev).Text)) {
		return noMatch()
	}
	return prev, end, true
}

// DefaultPatterns returns the name context patterns in their fixed order.
// The order decides which tag an annotation gets when several match.
func DefaultPatterns(bundle *lexicon.Bundle) []ContextPattern {
	return []ContextPattern{
		NewInitialsContext(bundle, ""),
		NewInterfixContext(bundle, ""),
		NewInitialNameContext(bundle, ""),
		NewNexusContext(""),
		NewPrefixContext(bundle, ""),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
