// Package config reads the engine configuration and builds the components
// it describes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/deduce/pkg/deduce/annotate"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// File is the YAML configuration of an engine.
type File struct {
	Tokenizer    TokenizerConfig    `yaml:"tokenizer"`
	Dictionaries []DictionaryConfig `yaml:"dictionaries,omitempty"`
	Names        NamesConfig        `yaml:"names"`
	Annotators   []AnnotatorConfig  `yaml:"annotators,omitempty"`
	Merge        MergeConfig        `yaml:"merge"`
	Redactor     RedactorConfig     `yaml:"redactor"`
	Strict       bool               `yaml:"strict"`
}

// TokenizerConfig lists the phrases joined into single tokens. MergeSets
// names dictionaries whose items are merge terms as well.
type TokenizerConfig struct {
	MergeTerms []string `yaml:"merge_terms,omitempty"`
	MergeSets  []string `yaml:"merge_sets,omitempty"`
}

// DictionaryConfig describes one lookup set. Items come from Path (a
// line-oriented list), from Items, and from the dictionary store when one
// is attached to the Loader.
type DictionaryConfig struct {
	Name      string   `yaml:"name"`
	Path      string   `yaml:"path,omitempty"`
	Items     []string `yaml:"items,omitempty"`
	MinLength int      `yaml:"min_length,omitempty"`
	Matching  []string `yaml:"matching,omitempty"`
	Trie      bool     `yaml:"trie,omitempty"`
}

// NamesConfig is the person name group: annotators, context patterns and
// the expansion limits.
type NamesConfig struct {
	Annotators    []AnnotatorConfig `yaml:"annotators,omitempty"`
	Context       []ContextConfig   `yaml:"context,omitempty"`
	Markers       []string          `yaml:"markers,omitempty"`
	MaxIterations int               `yaml:"max_iterations,omitempty"`
}

// ContextConfig selects a context pattern and optionally overrides its tag
// template.
type ContextConfig struct {
	Kind     ContextKind `yaml:"kind"`
	Template string      `yaml:"template,omitempty"`
}

// AnnotatorConfig configures one annotator. Which fields apply depends on
// Kind.
type AnnotatorConfig struct {
	Name     string `yaml:"name"`
	Kind     Kind   `yaml:"kind"`
	Tag      string `yaml:"tag,omitempty"`
	Priority int    `yaml:"priority,omitempty"`

	// regex, bsn, phone
	Patterns     []string `yaml:"patterns,omitempty"`
	CaptureGroup int      `yaml:"capture_group,omitempty"`
	Filter       string   `yaml:"filter,omitempty"`
	PrePseudo    []string `yaml:"pre_pseudo,omitempty"`
	PostPseudo   []string `yaml:"post_pseudo,omitempty"`
	Lowercase    *bool    `yaml:"lowercase,omitempty"`
	MinDigits    int      `yaml:"min_digits,omitempty"`
	MaxDigits    int      `yaml:"max_digits,omitempty"`

	// token_lookup, multi_token_lookup
	Dictionary string `yaml:"dictionary,omitempty"`

	// sequence
	Direction string                   `yaml:"direction,omitempty"`
	Skip      []string                 `yaml:"skip,omitempty"`
	Sequence  []annotate.PredicateSpec `yaml:"sequence,omitempty"`
}

// MergeConfig holds the slack pattern for adjacent merging.
type MergeConfig struct {
	Slack string `yaml:"slack,omitempty"`
}

// RedactorConfig holds the placeholder brackets.
type RedactorConfig struct {
	Open  string `yaml:"open,omitempty"`
	Close string `yaml:"close,omitempty"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and validates it.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the static structure: names, kinds and dictionary
// references. Patterns and templates are checked when components are built.
func (f *File) Validate() error {
	dicts := make(map[string]bool, len(f.Dictionaries))
	for _, d := range f.Dictionaries {
		if d.Name == "" {
			return fmt.Errorf("dictionary without name: %w", internalerr.ErrInvalidConfig)
		}
		if dicts[d.Name] {
			return fmt.Errorf("dictionary %q defined twice: %w", d.Name, internalerr.ErrInvalidConfig)
		}
		dicts[d.Name] = true
	}
	for _, name := range f.Tokenizer.MergeSets {
		if !dicts[name] {
			return fmt.Errorf("tokenizer merge set %q is not a dictionary: %w", name, internalerr.ErrInvalidConfig)
		}
	}

	seen := make(map[string]bool)
	all := append(append([]AnnotatorConfig{}, f.Names.Annotators...), f.Annotators...)
	for _, a := range all {
		if a.Name == "" {
			return fmt.Errorf("annotator of kind %q without name: %w", a.Kind, internalerr.ErrInvalidConfig)
		}
		if seen[a.Name] {
			return fmt.Errorf("annotator %q defined twice: %w", a.Name, internalerr.ErrInvalidConfig)
		}
		seen[a.Name] = true
		if _, ok := annotatorFactories[a.Kind]; !ok {
			return fmt.Errorf("annotator %s: unknown kind %q: %w", a.Name, a.Kind, internalerr.ErrInvalidConfig)
		}
		if a.Dictionary != "" && !dicts[a.Dictionary] {
			return fmt.Errorf("annotator %s: unknown dictionary %q: %w", a.Name, a.Dictionary, internalerr.ErrInvalidConfig)
		}
	}
	for _, c := range f.Names.Context {
		if _, ok := contextFactories[c.Kind]; !ok {
			return fmt.Errorf("unknown context pattern kind %q: %w", c.Kind, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
