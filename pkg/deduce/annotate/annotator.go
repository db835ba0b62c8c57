// Package annotate holds the annotators that turn a document into raw,
// possibly overlapping annotations. Annotators never modify the document.
package annotate

import (
	"github.com/cognicore/deduce/pkg/deduce/document"
)

// Annotator finds tagged spans in a document.
// A miss is an empty result; an error means the annotator itself failed.
type Annotator interface {
	Name() string
	Annotate(doc *document.Document) ([]document.Annotation, error)
}

// Base carries the fields every annotator shares.
type Base struct {
	name     string
	tag      string
	priority int
}

// NewBase creates the shared annotator fields.
func NewBase(name, tag string, priority int) Base {
	return Base{name: name, tag: tag, priority: priority}
}

// Name returns the annotator name used in logs and Result.Skipped.
func (b Base) Name() string { return b.name }

// Tag returns the tag put on every annotation.
func (b Base) Tag() string { return b.tag }

// Priority returns the priority put on every annotation.
func (b Base) Priority() int { return b.priority }

// Group runs annotators in order and concatenates their output.
type Group struct {
	name       string
	annotators []Annotator
}

// NewGroup creates a group of annotators.
func NewGroup(name string, annotators ...Annotator) *Group {
	return &Group{name: name, annotators: annotators}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Annotators returns the members in run order.
func (g *Group) Annotators() []Annotator { return g.annotators }

// Annotate runs every member. The first error stops the group.
func (g *Group) Annotate(doc *document.Document) ([]document.Annotation, error) {
	var out []document.Annotation
	for _, a := range g.annotators {
		anns, err := a.Annotate(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, anns...)
	}
	return out, nil
}
