package config

import (
	"fmt"

	"github.com/cognicore/deduce/pkg/deduce/annotate"
	"github.com/cognicore/deduce/pkg/deduce/expand"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// Kind selects an annotator implementation. The set of kinds is closed:
// each has one factory below and configuration can only pick among them.
type Kind string

// Annotator kinds.
const (
	KindRegex            Kind = "regex"
	KindPhone            Kind = "phone"
	KindBSN              Kind = "bsn"
	KindTokenLookup      Kind = "token_lookup"
	KindMultiTokenLookup Kind = "multi_token_lookup"
	KindSequence         Kind = "sequence"
	KindPrefixName       Kind = "prefix_name"
	KindInterfixName     Kind = "interfix_name"
	KindInitialCapital   Kind = "initial_capital"
	KindInitialInterfix  Kind = "initial_interfix"
	KindFirstNameLookup  Kind = "first_name_lookup"
	KindSurnameLookup    Kind = "surname_lookup"
	KindPatient          Kind = "patient"
)

// ContextKind selects a context pattern.
type ContextKind string

// Context pattern kinds, listed in their conventional order.
const (
	ContextInitials    ContextKind = "initials"
	ContextInterfix    ContextKind = "interfix"
	ContextInitialName ContextKind = "initial_name"
	ContextNexus       ContextKind = "nexus"
	ContextPrefix      ContextKind = "prefix"
)

// Default tags of the name pattern kinds.
const (
	TagPrefixName      = "prefix+naam"
	TagInterfixName    = "interfix+naam"
	TagInitialName     = "initiaal+naam"
	TagInitialInterfix = "initiaal+interfix+naam"
	TagFirstName       = "voornaam_onbekend"
	TagSurname         = "achternaam_onbekend"
)

// env carries what factories need besides their own configuration.
type env struct {
	bundle   *lexicon.Bundle
	tokenize func(string) []string
}

type annotatorFactory func(c AnnotatorConfig, e env) (annotate.Annotator, error)

var annotatorFactories = map[Kind]annotatorFactory{
	KindRegex:            newRegex,
	KindPhone:            newPhone,
	KindBSN:              newBSN,
	KindTokenLookup:      newTokenLookup,
	KindMultiTokenLookup: newMultiTokenLookup,
	KindSequence:         newSequence,
	KindPrefixName: namePattern(TagPrefixName, func(e env) annotate.TokenPattern {
		return annotate.NewPrefixWithNamePattern(e.bundle)
	}),
	KindInterfixName: namePattern(TagInterfixName, func(e env) annotate.TokenPattern {
		return annotate.NewInterfixWithNamePattern(e.bundle)
	}),
	KindInitialCapital: namePattern(TagInitialName, func(e env) annotate.TokenPattern {
		return annotate.NewInitialWithCapitalPattern(e.bundle)
	}),
	KindInitialInterfix: namePattern(TagInitialInterfix, func(e env) annotate.TokenPattern {
		return annotate.NewInitialInterfixCapitalPattern(e.bundle)
	}),
	KindFirstNameLookup: namePattern(TagFirstName, func(e env) annotate.TokenPattern {
		return annotate.NewLookupNamePattern(e.bundle, lexicon.FirstNames)
	}),
	KindSurnameLookup: namePattern(TagSurname, func(e env) annotate.TokenPattern {
		return annotate.NewLookupNamePattern(e.bundle, lexicon.Surnames)
	}),
	KindPatient: newPatient,
}

type contextFactory func(bundle *lexicon.Bundle, template string) expand.ContextPattern

var contextFactories = map[ContextKind]contextFactory{
	ContextInitials: func(b *lexicon.Bundle, t string) expand.ContextPattern {
		return expand.NewInitialsContext(b, t)
	},
	ContextInterfix: func(b *lexicon.Bundle, t string) expand.ContextPattern {
		return expand.NewInterfixContext(b, t)
	},
	ContextInitialName: func(b *lexicon.Bundle, t string) expand.ContextPattern {
		return expand.NewInitialNameContext(b, t)
	},
	ContextNexus: func(_ *lexicon.Bundle, t string) expand.ContextPattern {
		return expand.NewNexusContext(t)
	},
	ContextPrefix: func(b *lexicon.Bundle, t string) expand.ContextPattern {
		return expand.NewPrefixContext(b, t)
	},
}

// Kinds returns every annotator kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(annotatorFactories))
	for k := range annotatorFactories {
		out = append(out, k)
	}
	return out
}

// BuildAnnotator constructs the annotator c describes.
func BuildAnnotator(c AnnotatorConfig, bundle *lexicon.Bundle, tokenize func(string) []string) (annotate.Annotator, error) {
	factory, ok := annotatorFactories[c.Kind]
	if !ok {
		return nil, fmt.Errorf("annotator %s: unknown kind %q: %w", c.Name, c.Kind, internalerr.ErrInvalidConfig)
	}
	return factory(c, env{bundle: bundle, tokenize: tokenize})
}

// BuildContext constructs the context pattern c describes.
func BuildContext(c ContextConfig, bundle *lexicon.Bundle) (expand.ContextPattern, error) {
	factory, ok := contextFactories[c.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown context pattern kind %q: %w", c.Kind, internalerr.ErrInvalidConfig)
	}
	return factory(bundle, c.Template), nil
}

func requireTag(c AnnotatorConfig) error {
	if c.Tag == "" {
		return fmt.Errorf("annotator %s: tag is required for kind %s: %w", c.Name, c.Kind, internalerr.ErrInvalidConfig)
	}
	return nil
}

func newRegex(c AnnotatorConfig, _ env) (annotate.Annotator, error) {
	if err := requireTag(c); err != nil {
		return nil, err
	}
	opts := []annotate.RegexOption{annotate.WithCaptureGroup(c.CaptureGroup)}
	if c.Filter != "" {
		f, ok := annotate.LookupFilter(c.Filter)
		if !ok {
			return nil, fmt.Errorf("annotator %s: unknown filter %q: %w", c.Name, c.Filter, internalerr.ErrInvalidConfig)
		}
		opts = append(opts, annotate.WithFilter(f))
	}
	if len(c.PrePseudo) > 0 || len(c.PostPseudo) > 0 {
		lowercase := true
		if c.Lowercase != nil {
			lowercase = *c.Lowercase
		}
		opts = append(opts, annotate.WithPseudo(c.PrePseudo, c.PostPseudo, lowercase))
	}
	return annotate.NewRegexAnnotator(c.Name, c.Tag, c.Priority, c.Patterns, opts...)
}

func newPhone(c AnnotatorConfig, _ env) (annotate.Annotator, error) {
	if err := requireTag(c); err != nil {
		return nil, err
	}
	return annotate.NewPhoneAnnotator(c.Name, c.Tag, c.Priority, c.Patterns, c.MinDigits, c.MaxDigits)
}

func newBSN(c AnnotatorConfig, _ env) (annotate.Annotator, error) {
	if err := requireTag(c); err != nil {
		return nil, err
	}
	var pattern string
	switch len(c.Patterns) {
	case 0:
	case 1:
		pattern = c.Patterns[0]
	default:
		return nil, fmt.Errorf("annotator %s: bsn takes one pattern: %w", c.Name, internalerr.ErrInvalidConfig)
	}
	return annotate.NewBSNAnnotator(c.Name, c.Tag, c.Priority, pattern, c.CaptureGroup)
}

func newTokenLookup(c AnnotatorConfig, e env) (annotate.Annotator, error) {
	if err := requireTag(c); err != nil {
		return nil, err
	}
	set, ok := e.bundle.LookupSet(c.Dictionary)
	if !ok {
		return nil, fmt.Errorf("annotator %s: unknown dictionary %q: %w", c.Name, c.Dictionary, internalerr.ErrInvalidConfig)
	}
	return annotate.NewTokenLookupAnnotator(c.Name, c.Tag, c.Priority, set), nil
}

func newMultiTokenLookup(c AnnotatorConfig, e env) (annotate.Annotator, error) {
	if err := requireTag(c); err != nil {
		return nil, err
	}
	trie, ok := e.bundle.LookupTrie(c.Dictionary)
	if !ok {
		return nil, fmt.Errorf("annotator %s: dictionary %q has no trie: %w", c.Name, c.Dictionary, internalerr.ErrInvalidConfig)
	}
	return annotate.NewMultiTokenLookupAnnotator(c.Name, c.Tag, c.Priority, trie), nil
}

func newSequence(c AnnotatorConfig, e env) (annotate.Annotator, error) {
	if err := requireTag(c); err != nil {
		return nil, err
	}
	if len(c.Sequence) == 0 {
		return nil, fmt.Errorf("annotator %s: empty sequence: %w", c.Name, internalerr.ErrInvalidConfig)
	}
	dir, err := annotate.ParseDirection(c.Direction)
	if err != nil {
		return nil, fmt.Errorf("annotator %s: %w", c.Name, err)
	}
	preds, err := annotate.BuildPredicates(c.Sequence, e.bundle)
	if err != nil {
		return nil, fmt.Errorf("annotator %s: %w", c.Name, err)
	}
	pattern := annotate.NewSequencePattern(dir, c.Skip, preds...)
	return annotate.NewTokenPatternAnnotator(c.Name, c.Tag, c.Priority, pattern), nil
}

func namePattern(defaultTag string, build func(env) annotate.TokenPattern) annotatorFactory {
	return func(c AnnotatorConfig, e env) (annotate.Annotator, error) {
		tag := c.Tag
		if tag == "" {
			tag = defaultTag
		}
		return annotate.NewTokenPatternAnnotator(c.Name, tag, c.Priority, build(e)), nil
	}
}

// newPatient groups the patient annotators. Their tags are fixed because
// the person converter recognises them.
func newPatient(c AnnotatorConfig, e env) (annotate.Annotator, error) {
	anns, err := annotate.NewPatientAnnotators(c.Priority, e.tokenize)
	if err != nil {
		return nil, fmt.Errorf("annotator %s: %w", c.Name, err)
	}
	return annotate.NewGroup(c.Name, anns...), nil
}
