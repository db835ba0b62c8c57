// Package expand grows name annotations with their context until no rule
// applies any more.
package expand

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/deduce/internal/logger"
	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// DefaultMarkers select the annotations the engine works on.
var DefaultMarkers = []string{"initia", "naam", "interfix", "prefix"}

const (
	// DefaultMaxIterations bounds the number of passes.
	DefaultMaxIterations = 1000
	// SuspiciousIterations is the pass count above which a run is logged.
	SuspiciousIterations = 10
)

var placeholderPattern = regexp.MustCompile(`\{[^{}]*\}`)

// Engine applies context patterns to a fixpoint.
// It holds no per-document state and is safe for concurrent use.
type Engine struct {
	patterns      []ContextPattern
	markers       []string
	maxIterations int
	log           *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarkers replaces DefaultMarkers. An annotation takes part when its
// tag contains any marker.
func WithMarkers(markers ...string) Option {
	return func(e *Engine) { e.markers = markers }
}

// WithMaxIterations sets the pass limit.
func WithMaxIterations(n int) Option {
	return func(e *Engine) { e.maxIterations = n }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine validates every tag template and returns the engine. Patterns
// are tried in the given order and the first match wins.
func NewEngine(patterns []ContextPattern, opts ...Option) (*Engine, error) {
	e := &Engine{patterns: patterns, markers: DefaultMarkers, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d: %w", e.maxIterations, internalerr.ErrInvalidConfig)
	}
	for _, p := range patterns {
		if err := ValidateTemplate(p.Template()); err != nil {
			return nil, fmt.Errorf("context pattern %s: %w", p.Name(), err)
		}
	}
	return e, nil
}

// ValidateTemplate accepts templates whose only placeholder is "{tag}".
func ValidateTemplate(tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("empty tag template: %w", internalerr.ErrInvalidConfig)
	}
	found := placeholderPattern.FindAllString(tmpl, -1)
	for _, ph := range found {
		if ph != "{tag}" {
			return fmt.Errorf("unknown placeholder %s in %q: %w", ph, tmpl, internalerr.ErrInvalidConfig)
		}
	}
	if strings.Count(tmpl, "{") != len(found) || strings.Count(tmpl, "}") != len(found) {
		return fmt.Errorf("unbalanced braces in %q: %w", tmpl, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Patterns returns the context patterns in application order.
func (e *Engine) Patterns() []ContextPattern { return e.patterns }

// Selects reports whether an annotation with tag takes part in expansion.
func (e *Engine) Selects(tag string) bool {
	return tagHasAny(tag, e.markers...)
}

// Expand returns anns with every selected annotation expanded. Annotations
// that are not selected, or not anchored on tokens, pass through unchanged.
// It fails with ErrFixpointNotReached when the pass limit is hit.
func (e *Engine) Expand(doc *document.Document, anns document.AnnotationSet) (document.AnnotationSet, error) {
	selected := anns.Filter(func(a document.Annotation) bool { return a.HasTokens() && e.Selects(a.Tag) })
	rest := anns.Filter(func(a document.Annotation) bool { return !selected.Contains(a) })

	var patterns []ContextPattern
	for _, p := range e.patterns {
		if p.DocPrecondition(doc) {
			patterns = append(patterns, p)
		}
	}

	current := selected
	passes := 0
	for {
		if passes == e.maxIterations {
			return document.AnnotationSet{}, fmt.Errorf("context expansion of document %s: no fixpoint after %d passes: %w",
				doc.ID, passes, internalerr.ErrFixpointNotReached)
		}
		passes++
		next := e.pass(doc, patterns, current)
		if next.Equal(current) {
			break
		}
		current = next
	}

	if passes > SuspiciousIterations {
		e.log.Warnf("expand", "document %s needed %d passes to reach a fixpoint", doc.ID, passes)
	} else {
		e.log.Debugf("expand", "document %s: fixpoint after %d passes", doc.ID, passes)
	}
	return current.Union(rest), nil
}

// pass applies the first matching pattern to each annotation once.
func (e *Engine) pass(doc *document.Document, patterns []ContextPattern, anns document.AnnotationSet) document.AnnotationSet {
	next := document.NewAnnotationSet()
	for _, a := range anns.Sorted() {
		next.Add(e.expandOne(doc, patterns, a))
	}
	return next
}

func (e *Engine) expandOne(doc *document.Document, patterns []ContextPattern, a document.Annotation) document.Annotation {
	for _, p := range patterns {
		if !p.TokenPrecondition(doc, a.StartToken, a.EndToken) {
			continue
		}
		start, end, ok := p.Match(doc, a.StartToken, a.EndToken, a.Tag)
		if !ok {
			continue
		}
		tag := strings.ReplaceAll(p.Template(), "{tag}", a.Tag)
		return doc.SpanAnnotation(start, end, tag, a.Priority)
	}
	return a
}
