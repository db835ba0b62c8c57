package annotate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// MatchFilter decides whether a regex match is kept. loc is the submatch
// index slice returned by FindAllStringSubmatchIndex.
type MatchFilter func(text string, loc []int) bool

// RegexAnnotator tags the spans of one or more patterns over the raw text.
// Only the configured capture group is tagged; the rest of the match is
// context used for boundary checks.
type RegexAnnotator struct {
	Base
	patterns []*regexp.Regexp
	group    int
	filters  []MatchFilter
}

// RegexOption configures a RegexAnnotator.
type RegexOption func(*RegexAnnotator)

// WithCaptureGroup selects the capture group that becomes the annotation.
func WithCaptureGroup(group int) RegexOption {
	return func(a *RegexAnnotator) { a.group = group }
}

// WithFilter adds a post-match filter.
func WithFilter(f MatchFilter) RegexOption {
	return func(a *RegexAnnotator) { a.filters = append(a.filters, f) }
}

// WithPseudo rejects matches whose preceding word is in pre or whose
// following word is in post. Words are compared lowercased when lowercase
// is set.
func WithPseudo(pre, post []string, lowercase bool) RegexOption {
	preSet := wordSet(pre, lowercase)
	postSet := wordSet(post, lowercase)
	return WithFilter(func(text string, loc []int) bool {
		prev := previousWord(text, loc[0])
		next := nextWord(text, loc[1])
		if lowercase {
			prev, next = strings.ToLower(prev), strings.ToLower(next)
		}
		_, badPrev := preSet[prev]
		_, badNext := postSet[next]
		return !badPrev && !badNext
	})
}

// NewRegexAnnotator compiles patterns and validates the capture group
// against every one of them.
func NewRegexAnnotator(name, tag string, priority int, patterns []string, opts ...RegexOption) (*RegexAnnotator, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("annotator %s: no patterns: %w", name, internalerr.ErrInvalidConfig)
	}
	a := &RegexAnnotator{Base: NewBase(name, tag, priority)}
	for _, opt := range opts {
		opt(a)
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("annotator %s: %v: %w", name, err, internalerr.ErrInvalidConfig)
		}
		if a.group < 0 || a.group > re.NumSubexp() {
			return nil, fmt.Errorf("annotator %s: capture group %d out of range for %q: %w",
				name, a.group, p, internalerr.ErrInvalidConfig)
		}
		a.patterns = append(a.patterns, re)
	}
	return a, nil
}

// Annotate returns one annotation per accepted match of every pattern.
func (a *RegexAnnotator) Annotate(doc *document.Document) ([]document.Annotation, error) {
	var out []document.Annotation
	for _, re := range a.patterns {
		eachGroupMatch(re, doc.Text, a.group, func(loc []int) {
			start, end := loc[2*a.group], loc[2*a.group+1]
			if start < 0 || start == end {
				return
			}
			if !a.accept(doc.Text, loc) {
				return
			}
			out = append(out, doc.CharAnnotation(start, end, a.tag, a.priority))
		})
	}
	return out, nil
}

// eachGroupMatch calls fn with the submatch indexes of every match of re
// in text. Unlike FindAllStringSubmatchIndex, the scan resumes right after
// the captured group instead of after the whole match, so a boundary
// character consumed as trailing context of one match is still available
// as leading context of the next.
func eachGroupMatch(re *regexp.Regexp, text string, group int, fn func(loc []int)) {
	for pos := 0; pos <= len(text); {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		next := loc[1]
		if end := loc[2*group+1]; end > pos {
			next = end
		}
		fn(loc)
		if next <= pos {
			if pos == len(text) {
				return
			}
			_, size := utf8.DecodeRuneInString(text[pos:])
			next = pos + size
		}
		pos = next
	}
}

func (a *RegexAnnotator) accept(text string, loc []int) bool {
	for _, f := range a.filters {
		if !f(text, loc) {
			return false
		}
	}
	return true
}

func wordSet(words []string, lowercase bool) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if lowercase {
			w = strings.ToLower(w)
		}
		set[w] = struct{}{}
	}
	return set
}

// previousWord returns the run of letters directly before pos, ignoring
// whitespace in between.
func previousWord(text string, pos int) string {
	before := strings.TrimRightFunc(text[:pos], unicode.IsSpace)
	i := strings.LastIndexFunc(before, func(r rune) bool { return !unicode.IsLetter(r) })
	if i < 0 {
		return before
	}
	_, size := utf8.DecodeRuneInString(before[i:])
	return before[i+size:]
}

// nextWord returns the run of letters directly after pos, ignoring
// whitespace in between.
func nextWord(text string, pos int) string {
	after := strings.TrimLeftFunc(text[pos:], unicode.IsSpace)
	i := strings.IndexFunc(after, func(r rune) bool { return !unicode.IsLetter(r) })
	if i < 0 {
		return after
	}
	return after[:i]
}
