package annotate

import (
	"fmt"
	"regexp"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// PredicateSpec is the configuration form of a Predicate. Exactly one field
// must be set.
//
//	- {literal: "."}
//	- {and: [{is_initial: true}, {not_lookup: whitelist}]}
type PredicateSpec struct {
	Literal         string          `yaml:"literal,omitempty"`
	Regex           string          `yaml:"regex,omitempty"`
	IsInitial       bool            `yaml:"is_initial,omitempty"`
	LikeName        bool            `yaml:"like_name,omitempty"`
	MinLen          int             `yaml:"min_len,omitempty"`
	MaxLen          int             `yaml:"max_len,omitempty"`
	Lookup          string          `yaml:"lookup,omitempty"`
	LowercaseLookup string          `yaml:"lowercase_lookup,omitempty"`
	NotLookup       string          `yaml:"not_lookup,omitempty"`
	And             []PredicateSpec `yaml:"and,omitempty"`
	Or              []PredicateSpec `yaml:"or,omitempty"`
}

// Build turns the spec into a Predicate, resolving dictionary names
// against bundle.
func (s PredicateSpec) Build(bundle *lexicon.Bundle) (Predicate, error) {
	if n := s.fieldsSet(); n != 1 {
		return nil, fmt.Errorf("predicate needs exactly one condition, got %d: %w", n, internalerr.ErrInvalidConfig)
	}
	switch {
	case s.Literal != "":
		return Literal(s.Literal), nil
	case s.Regex != "":
		re, err := regexp.Compile(s.Regex)
		if err != nil {
			return nil, fmt.Errorf("predicate regex: %v: %w", err, internalerr.ErrInvalidConfig)
		}
		return Regex(re), nil
	case s.IsInitial:
		return IsInitial(), nil
	case s.LikeName:
		return LikeName(), nil
	case s.MinLen > 0:
		return MinLen(s.MinLen), nil
	case s.MaxLen > 0:
		return MaxLen(s.MaxLen), nil
	case s.Lookup != "":
		set, err := lookupSet(bundle, s.Lookup)
		if err != nil {
			return nil, err
		}
		return InSet(set), nil
	case s.LowercaseLookup != "":
		set, err := lookupSet(bundle, s.LowercaseLookup)
		if err != nil {
			return nil, err
		}
		return InSetLower(set), nil
	case s.NotLookup != "":
		set, err := lookupSet(bundle, s.NotLookup)
		if err != nil {
			return nil, err
		}
		return NotInSet(set), nil
	case len(s.And) > 0:
		preds, err := BuildPredicates(s.And, bundle)
		if err != nil {
			return nil, err
		}
		return And(preds...), nil
	default:
		preds, err := BuildPredicates(s.Or, bundle)
		if err != nil {
			return nil, err
		}
		return Or(preds...), nil
	}
}

// BuildPredicates builds every spec in order.
func BuildPredicates(specs []PredicateSpec, bundle *lexicon.Bundle) ([]Predicate, error) {
	preds := make([]Predicate, 0, len(specs))
	for _, spec := range specs {
		p, err := spec.Build(bundle)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func (s PredicateSpec) fieldsSet() int {
	n := 0
	for _, set := range []bool{
		s.Literal != "", s.Regex != "", s.IsInitial, s.LikeName, s.MinLen > 0, s.MaxLen > 0,
		s.Lookup != "", s.LowercaseLookup != "", s.NotLookup != "", len(s.And) > 0, len(s.Or) > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

func lookupSet(bundle *lexicon.Bundle, name string) (*lexicon.LookupSet, error) {
	set, ok := bundle.LookupSet(name)
	if !ok {
		return nil, fmt.Errorf("unknown dictionary %q: %w", name, internalerr.ErrInvalidConfig)
	}
	return set, nil
}
