// Package resolve turns raw annotations into a final, non-overlapping set:
// overlap resolution, person tag conversion and merging of adjacent spans.
package resolve

import (
	"sort"

	"github.com/cognicore/deduce/pkg/deduce/document"
)

// SortKey is one component of the order in which annotations are accepted.
type SortKey struct {
	Name       string
	Key        func(document.Annotation) int
	Descending bool
}

// Common sort keys.
var (
	// HighestPriority prefers larger Priority values.
	HighestPriority = SortKey{Name: "priority", Key: func(a document.Annotation) int { return a.Priority }, Descending: true}
	// Longest prefers longer spans.
	Longest = SortKey{Name: "length", Key: func(a document.Annotation) int { return a.Len() }, Descending: true}
)

// OverlapResolver keeps the best annotation of every group of overlapping
// annotations. Annotations are ranked by the sort keys in order, then by
// start position; the best remaining one is accepted and everything it
// overlaps is dropped, until nothing is left.
type OverlapResolver struct {
	keys []SortKey
}

// NewOverlapResolver creates a resolver with the given sort keys.
func NewOverlapResolver(keys ...SortKey) *OverlapResolver {
	return &OverlapResolver{keys: keys}
}

// Resolve returns a subset of anns in which no two annotations share a
// character.
func (r *OverlapResolver) Resolve(anns document.AnnotationSet) document.AnnotationSet {
	ranked := anns.Sorted()
	sort.SliceStable(ranked, func(i, j int) bool { return r.less(ranked[i], ranked[j]) })

	var accepted []document.Annotation
	out := document.NewAnnotationSet()
	for _, a := range ranked {
		if overlapsAny(a, accepted) {
			continue
		}
		accepted = append(accepted, a)
		out.Add(a)
	}
	return out
}

func (r *OverlapResolver) less(a, b document.Annotation) bool {
	for _, k := range r.keys {
		ka, kb := k.Key(a), k.Key(b)
		if ka == kb {
			continue
		}
		if k.Descending {
			return ka > kb
		}
		return ka < kb
	}
	return a.StartChar < b.StartChar
}

func overlapsAny(a document.Annotation, accepted []document.Annotation) bool {
	for _, b := range accepted {
		if a.Overlaps(b) {
			return true
		}
	}
	return false
}
