package lexicon

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// Transform is one named step of a matching pipeline.
type Transform struct {
	Name  string
	apply func(string) string
}

// Apply runs the transform on s.
func (t Transform) Apply(s string) string { return t.apply(s) }

// Built-in transforms.
var (
	Lowercase = Transform{Name: "lowercase", apply: strings.ToLower}
	Strip     = Transform{Name: "strip", apply: strings.TrimSpace}
	NFC       = Transform{Name: "nfc", apply: norm.NFC.String}
	// StripAccents folds "é" to "e" by decomposing and dropping combining marks.
	StripAccents = Transform{Name: "strip_accents", apply: stripAccents}
)

var transformsByName = map[string]Transform{
	Lowercase.Name:    Lowercase,
	Strip.Name:        Strip,
	NFC.Name:          NFC,
	StripAccents.Name: StripAccents,
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Pipeline is an ordered sequence of transforms applied to both stored items
// and probe strings.
type Pipeline []Transform

// Apply runs every transform in order.
func (p Pipeline) Apply(s string) string {
	for _, t := range p {
		s = t.apply(s)
	}
	return s
}

// Names returns the transform names, for configuration round-trips.
func (p Pipeline) Names() []string {
	out := make([]string, len(p))
	for i, t := range p {
		out[i] = t.Name
	}
	return out
}

// ParsePipeline resolves transform names such as "lowercase".
func ParsePipeline(names []string) (Pipeline, error) {
	p := make(Pipeline, 0, len(names))
	for _, n := range names {
		t, ok := transformsByName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown matching transform %q: %w", n, internalerr.ErrInvalidConfig)
		}
		p = append(p, t)
	}
	return p, nil
}
