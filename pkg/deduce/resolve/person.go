package resolve

import (
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
)

// Person tags produced by the converter.
const (
	TagPatient = "patient"
	TagPerson  = "persoon"

	pseudoMarker  = "pseudo"
	patientMarker = "patient"
)

// PersonConverter reduces the annotations of the name annotators to
// "patient" and "persoon" spans.
//
// Overlap is resolved first: pseudo tags win (they only exist to block
// other matches), then tags mentioning the patient, then the rest, with
// the longer span winning ties. Pseudo annotations and blank spans are
// then dropped.
type PersonConverter struct {
	resolver *OverlapResolver
}

// NewPersonConverter creates the converter.
func NewPersonConverter() *PersonConverter {
	tagClass := SortKey{Name: "tag", Key: personTagClass}
	return &PersonConverter{resolver: NewOverlapResolver(tagClass, Longest)}
}

// Convert resolves and re-tags anns.
func (c *PersonConverter) Convert(anns document.AnnotationSet) document.AnnotationSet {
	out := document.NewAnnotationSet()
	for _, a := range c.resolver.Resolve(anns).Sorted() {
		if strings.Contains(a.Tag, pseudoMarker) || strings.TrimSpace(a.Text) == "" {
			continue
		}
		out.Add(a.WithTag(PersonTag(a.Tag)))
	}
	return out
}

// PersonTag maps a name annotation tag to TagPatient or TagPerson.
func PersonTag(tag string) string {
	if strings.Contains(tag, patientMarker) {
		return TagPatient
	}
	return TagPerson
}

func personTagClass(a document.Annotation) int {
	switch {
	case strings.Contains(a.Tag, pseudoMarker):
		return 0
	case strings.Contains(a.Tag, patientMarker):
		return 1
	default:
		return 2
	}
}
