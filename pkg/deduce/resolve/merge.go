package resolve

import (
	"fmt"
	"regexp"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// DefaultSlack allows one punctuation mark or space, optionally followed by
// a period or space, between two mergeable annotations.
const DefaultSlack = `[\.\s\-,]?[\.\s]?`

// Merger joins annotations with matching tags that are separated only by
// slack text. Patient and person spans count as matching; their merge is
// tagged as patient.
type Merger struct {
	slack *regexp.Regexp
}

// NewMerger compiles the slack pattern, which must match the whole gap. An
// empty pattern selects DefaultSlack.
func NewMerger(slack string) (*Merger, error) {
	if slack == "" {
		slack = DefaultSlack
	}
	re, err := regexp.Compile(`^(?:` + slack + `)$`)
	if err != nil {
		return nil, fmt.Errorf("merge slack %q: %v: %w", slack, err, internalerr.ErrInvalidConfig)
	}
	return &Merger{slack: re}, nil
}

// Merge joins adjacent annotations of anns over text until no pair is
// left to join. anns should not contain overlapping annotations.
func (m *Merger) Merge(text string, anns document.AnnotationSet) document.AnnotationSet {
	current := anns
	for {
		next := m.mergeOnce(text, current)
		if next.Equal(current) {
			return next
		}
		current = next
	}
}

func (m *Merger) mergeOnce(text string, anns document.AnnotationSet) document.AnnotationSet {
	sorted := anns.Sorted()
	out := document.NewAnnotationSet()
	if len(sorted) == 0 {
		return out
	}
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if m.adjacent(text, cur, next) {
			cur = join(text, cur, next)
			continue
		}
		out.Add(cur)
		cur = next
	}
	out.Add(cur)
	return out
}

func (m *Merger) adjacent(text string, left, right document.Annotation) bool {
	if left.EndChar > right.StartChar || !tagsMatch(left.Tag, right.Tag) {
		return false
	}
	return m.slack.MatchString(text[left.EndChar:right.StartChar])
}

func tagsMatch(left, right string) bool {
	if left == right {
		return true
	}
	return (left == TagPatient && right == TagPerson) || (left == TagPerson && right == TagPatient)
}

func join(text string, left, right document.Annotation) document.Annotation {
	tag := left.Tag
	if left.Tag != right.Tag {
		tag = TagPatient
	}
	return document.Annotation{
		Text:       text[left.StartChar:right.EndChar],
		StartChar:  left.StartChar,
		EndChar:    right.EndChar,
		Tag:        tag,
		Priority:   max(left.Priority, right.Priority),
		StartToken: left.StartToken,
		EndToken:   right.EndToken,
	}
}
