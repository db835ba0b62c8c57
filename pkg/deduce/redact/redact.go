// Package redact replaces annotated spans with placeholders such as
// "[LOCATIE-1]".
package redact

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/fuzzy"
)

// PatientTag is the tag whose placeholder carries no number.
const PatientTag = "patient"

// Redactor builds numbered placeholders. Mentions of the same tag whose
// texts are at most MaxDistance edits apart share a number, so "Ommen"
// and the misspelled "Emmen" both become "[LOCATIE-1]".
type Redactor struct {
	Open        string
	Close       string
	MaxDistance int
}

// New creates a redactor with the given brackets. Empty brackets default
// to "[" and "]".
func New(open, close string) *Redactor {
	if open == "" {
		open = "["
	}
	if close == "" {
		close = "]"
	}
	return &Redactor{Open: open, Close: close, MaxDistance: 1}
}

// Placeholders returns the placeholder of every annotation in anns.
func (r *Redactor) Placeholders(anns []document.Annotation) map[document.Annotation]string {
	byTag := make(map[string][]document.Annotation)
	for _, a := range anns {
		byTag[a.Tag] = append(byTag[a.Tag], a)
	}

	out := make(map[document.Annotation]string, len(anns))
	for tag, group := range byTag {
		label := strings.ToUpper(tag)
		if tag == PatientTag {
			for _, a := range group {
				out[a] = r.Open + label + r.Close
			}
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			if group[i].EndChar != group[j].EndChar {
				return group[i].EndChar < group[j].EndChar
			}
			return group[i].StartChar < group[j].StartChar
		})
		var seen []mention
		counter := 0
		for _, a := range group {
			n := 0
			for _, m := range seen {
				if fuzzy.Within(a.Text, m.text, r.MaxDistance) {
					n = m.number
					break
				}
			}
			if n == 0 {
				counter++
				n = counter
			}
			seen = append(seen, mention{text: a.Text, number: n})
			out[a] = r.Open + label + "-" + strconv.Itoa(n) + r.Close
		}
	}
	return out
}

// Redact replaces every annotation in text by its placeholder. Annotations
// must not overlap; an annotation overlapping one already replaced is
// left out.
func (r *Redactor) Redact(text string, anns []document.Annotation) string {
	placeholders := r.Placeholders(anns)
	return replaceSpans(text, anns, func(a document.Annotation) string { return placeholders[a] })
}

// Inline wraps every annotation as <TAG>text</TAG> for review.
func Inline(text string, anns []document.Annotation) string {
	return replaceSpans(text, anns, func(a document.Annotation) string {
		tag := strings.ToUpper(a.Tag)
		return "<" + tag + ">" + a.Text + "</" + tag + ">"
	})
}

type mention struct {
	text   string
	number int
}

// replaceSpans substitutes spans right to left so earlier offsets stay valid.
func replaceSpans(text string, anns []document.Annotation, replacement func(document.Annotation) string) string {
	sorted := make([]document.Annotation, len(anns))
	copy(sorted, anns)
	document.SortAnnotations(sorted)

	out := text
	limit := len(text)
	for i := len(sorted) - 1; i >= 0; i-- {
		a := sorted[i]
		if a.EndChar > limit {
			continue
		}
		out = out[:a.StartChar] + replacement(a) + out[a.EndChar:]
		limit = a.StartChar
	}
	return out
}
