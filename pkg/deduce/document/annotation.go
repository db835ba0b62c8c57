package document

import (
	"sort"
	"unicode/utf8"
)

// Annotation is a tagged span of the source text.
//
// Text always equals the source text between StartChar and EndChar.
// StartToken and EndToken index the document's TokenList, or are NoToken
// when the span was found on the raw text and does not align with tokens.
// Tags are hierarchical strings joined with "+", e.g. "initiaal+naam".
type Annotation struct {
	Text       string
	StartChar  int
	EndChar    int
	Tag        string
	Priority   int
	StartToken int
	EndToken   int
}

// Len returns the length of the span in characters.
func (a Annotation) Len() int {
	return utf8.RuneCountInString(a.Text)
}

// Overlaps reports whether a and b share at least one character.
func (a Annotation) Overlaps(b Annotation) bool {
	return a.StartChar < b.EndChar && b.StartChar < a.EndChar
}

// HasTokens reports whether both ends are anchored on tokens.
func (a Annotation) HasTokens() bool {
	return a.StartToken != NoToken && a.EndToken != NoToken
}

// WithTag returns a copy of a carrying another tag.
func (a Annotation) WithTag(tag string) Annotation {
	a.Tag = tag
	return a
}

// AnnotationSet is a duplicate-free collection of annotations.
// The zero value is an empty set ready for use.
type AnnotationSet struct {
	items map[Annotation]struct{}
}

// NewAnnotationSet returns a set holding anns.
func NewAnnotationSet(anns ...Annotation) AnnotationSet {
	s := AnnotationSet{items: make(map[Annotation]struct{}, len(anns))}
	for _, a := range anns {
		s.items[a] = struct{}{}
	}
	return s
}

// Add inserts annotations; duplicates are ignored.
func (s *AnnotationSet) Add(anns ...Annotation) {
	if s.items == nil {
		s.items = make(map[Annotation]struct{}, len(anns))
	}
	for _, a := range anns {
		s.items[a] = struct{}{}
	}
}

// Remove deletes a from the set.
func (s *AnnotationSet) Remove(a Annotation) {
	delete(s.items, a)
}

// Contains reports whether a is in the set.
func (s AnnotationSet) Contains(a Annotation) bool {
	_, ok := s.items[a]
	return ok
}

// Len returns the number of annotations.
func (s AnnotationSet) Len() int { return len(s.items) }

// Equal reports whether both sets hold the same annotations.
func (s AnnotationSet) Equal(o AnnotationSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for a := range s.items {
		if _, ok := o.items[a]; !ok {
			return false
		}
	}
	return true
}

// Union returns a new set with the annotations of s and o.
func (s AnnotationSet) Union(o AnnotationSet) AnnotationSet {
	out := NewAnnotationSet()
	for a := range s.items {
		out.items[a] = struct{}{}
	}
	for a := range o.items {
		out.items[a] = struct{}{}
	}
	return out
}

// Filter returns the annotations for which keep returns true.
func (s AnnotationSet) Filter(keep func(Annotation) bool) AnnotationSet {
	out := NewAnnotationSet()
	for a := range s.items {
		if keep(a) {
			out.items[a] = struct{}{}
		}
	}
	return out
}

// Sorted returns the annotations ordered by start, end, tag and priority,
// giving every consumer the same deterministic iteration order.
func (s AnnotationSet) Sorted() []Annotation {
	out := make([]Annotation, 0, len(s.items))
	for a := range s.items {
		out = append(out, a)
	}
	SortAnnotations(out)
	return out
}

// SortAnnotations orders anns in place like AnnotationSet.Sorted.
func SortAnnotations(anns []Annotation) {
	sort.Slice(anns, func(i, j int) bool {
		return annotationLess(anns[i], anns[j])
	})
}

func annotationLess(a, b Annotation) bool {
	if a.StartChar != b.StartChar {
		return a.StartChar < b.StartChar
	}
	if a.EndChar != b.EndChar {
		return a.EndChar < b.EndChar
	}
	if a.Tag != b.Tag {
		return a.Tag < b.Tag
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.StartToken != b.StartToken {
		return a.StartToken < b.StartToken
	}
	return a.EndToken < b.EndToken
}
