package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/deduce/internal/logger"
	"github.com/cognicore/deduce/pkg/deduce/annotate"
	"github.com/cognicore/deduce/pkg/deduce/expand"
	"github.com/cognicore/deduce/pkg/deduce/ingest"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
	"github.com/cognicore/deduce/pkg/deduce/redact"
	"github.com/cognicore/deduce/pkg/deduce/resolve"
)

// ListSource supplies stored dictionary items by list name. A source
// returning an error wrapping ErrNotFound is treated as an empty list.
type ListSource interface {
	ListItems(ctx context.Context, name string) ([]string, error)
}

// Loader loads the configuration and constructs components.
type Loader struct {
	// Path of the YAML configuration. Ignored when File is set; when both
	// are empty the built-in configuration is used.
	Path string
	File *File
	// Lists adds stored items to the configured dictionaries.
	Lists ListSource
	// Logger is optional; nil discards diagnostics.
	Logger *logger.Logger
}

// Components holds everything a pipeline needs, built and validated.
type Components struct {
	Tokenizer  *ingest.Tokenizer
	Bundle     *lexicon.Bundle
	Names      *annotate.Group
	Expander   *expand.Engine
	Persons    *resolve.PersonConverter
	Annotators []annotate.Annotator
	Resolver   *resolve.OverlapResolver
	Merger     *resolve.Merger
	Redactor   *redact.Redactor
	Strict     bool
}

// Load reads the configuration and returns initialized components. Every
// configuration error wraps ErrInvalidConfig.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	log := l.Logger.Module("config")

	f, baseDir, err := l.file()
	if err != nil {
		return nil, err
	}

	comp := &Components{
		Bundle:  lexicon.NewBundle(),
		Persons: resolve.NewPersonConverter(),
		Strict:  f.Strict,
	}

	// Dictionaries first: the tokenizer merges some of their items, and
	// tries are split with the tokenizer.
	for _, d := range f.Dictionaries {
		set, err := l.loadSet(ctx, d, baseDir)
		if err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", d.Name, err)
		}
		comp.Bundle.AddSet(d.Name, set)
	}

	comp.Tokenizer = ingest.NewTokenizer(mergeTerms(f.Tokenizer, comp.Bundle))

	for _, d := range f.Dictionaries {
		if d.Trie {
			comp.Bundle.AddTrie(d.Name, lexicon.TrieFromSet(comp.Bundle.Set(d.Name), comp.Tokenizer.Texts))
		}
	}

	names := make([]annotate.Annotator, 0, len(f.Names.Annotators))
	for _, c := range f.Names.Annotators {
		a, err := BuildAnnotator(c, comp.Bundle, comp.Tokenizer.Texts)
		if err != nil {
			return nil, fmt.Errorf("build name annotator: %w", err)
		}
		names = append(names, a)
	}
	comp.Names = annotate.NewGroup("names", names...)

	var patterns []expand.ContextPattern
	if len(f.Names.Context) == 0 {
		patterns = expand.DefaultPatterns(comp.Bundle)
	} else {
		for _, c := range f.Names.Context {
			p, err := BuildContext(c, comp.Bundle)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, p)
		}
	}
	opts := []expand.Option{expand.WithLogger(l.Logger.Module("expand"))}
	if len(f.Names.Markers) > 0 {
		opts = append(opts, expand.WithMarkers(f.Names.Markers...))
	}
	if f.Names.MaxIterations != 0 {
		opts = append(opts, expand.WithMaxIterations(f.Names.MaxIterations))
	}
	comp.Expander, err = expand.NewEngine(patterns, opts...)
	if err != nil {
		return nil, fmt.Errorf("build context expansion: %w", err)
	}

	for _, c := range f.Annotators {
		a, err := BuildAnnotator(c, comp.Bundle, comp.Tokenizer.Texts)
		if err != nil {
			return nil, fmt.Errorf("build annotator: %w", err)
		}
		comp.Annotators = append(comp.Annotators, a)
	}

	comp.Resolver = resolve.NewOverlapResolver(resolve.HighestPriority, resolve.Longest)
	comp.Merger, err = resolve.NewMerger(f.Merge.Slack)
	if err != nil {
		return nil, err
	}
	comp.Redactor = redact.New(f.Redactor.Open, f.Redactor.Close)

	stats := comp.Bundle.Stats()
	log.Debugf("load", "%d sets (%d items), %d tries (%d entries), %d merge terms, %d name annotators, %d annotators",
		stats.Sets, stats.SetItems, stats.Tries, stats.TrieEntries,
		comp.Tokenizer.MergeTerms(), len(names), len(comp.Annotators))
	return comp, nil
}

func (l *Loader) file() (*File, string, error) {
	switch {
	case l.File != nil:
		if err := l.File.Validate(); err != nil {
			return nil, "", err
		}
		return l.File, "", nil
	case l.Path != "":
		f, err := LoadFile(l.Path)
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", l.Path, err)
		}
		return f, filepath.Dir(l.Path), nil
	default:
		return Default(), "", nil
	}
}

func (l *Loader) loadSet(ctx context.Context, d DictionaryConfig, baseDir string) (*lexicon.LookupSet, error) {
	pipeline, err := lexicon.ParsePipeline(d.Matching)
	if err != nil {
		return nil, err
	}
	set := lexicon.NewLookupSet(pipeline...)

	if d.Path != "" {
		path := d.Path
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		items, err := lexicon.LoadList(path, d.MinLength)
		if err != nil {
			return nil, err
		}
		set.Add(items...)
	}
	set.Add(minLength(d.Items, d.MinLength)...)

	if l.Lists != nil {
		items, err := l.Lists.ListItems(ctx, d.Name)
		switch {
		case errors.Is(err, internalerr.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			set.Add(minLength(items, d.MinLength)...)
		}
	}
	return set, nil
}

func minLength(items []string, n int) []string {
	if n <= 0 {
		return items
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if utf8.RuneCountInString(it) >= n {
			out = append(out, it)
		}
	}
	return out
}

// mergeTerms collects the configured terms and the items of the merge
// sets. Set items are added as written and with an upper case first
// letter, since merging is exact while sentences start capitalised.
func mergeTerms(c TokenizerConfig, bundle *lexicon.Bundle) []string {
	terms := append([]string{}, c.MergeTerms...)
	for _, name := range c.MergeSets {
		for _, item := range bundle.Set(name).Items() {
			terms = append(terms, item)
			if upper := upperFirst(item); upper != item {
				terms = append(terms, upper)
			}
		}
	}
	return terms
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// AnnotatorNames returns the annotator names in run order, name group
// first.
func (c *Components) AnnotatorNames() []string {
	out := []string{c.Names.Name()}
	for _, a := range c.Annotators {
		out = append(out, a.Name())
	}
	return out
}
