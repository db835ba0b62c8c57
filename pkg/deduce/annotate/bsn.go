package annotate

import (
	"fmt"
	"regexp"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// BSNPattern finds nine-digit runs not embedded in longer digit runs.
const BSNPattern = `(\D|^)(\d{9})(\D|$)`

var elfproefWeights = [9]int{9, 8, 7, 6, 5, 4, 3, 2, -1}

// Elfproef applies the eleven test to a Dutch citizen service number.
// It returns an error wrapping ErrInvalidInput unless bsn is exactly nine
// ASCII digits.
func Elfproef(bsn string) (bool, error) {
	if len(bsn) != 9 {
		return false, fmt.Errorf("elfproef needs 9 digits, got %q: %w", bsn, internalerr.ErrInvalidInput)
	}
	total := 0
	for i := 0; i < 9; i++ {
		c := bsn[i]
		if c < '0' || c > '9' {
			return false, fmt.Errorf("elfproef needs 9 digits, got %q: %w", bsn, internalerr.ErrInvalidInput)
		}
		total += int(c-'0') * elfproefWeights[i]
	}
	return total%11 == 0, nil
}

// BSNAnnotator tags nine-digit numbers that pass the eleven test.
// Non-digit characters inside the captured group are removed before the
// test, so patterns accepting "111.222.333" work too.
type BSNAnnotator struct {
	Base
	pattern *regexp.Regexp
	group   int
}

// NewBSNAnnotator creates the annotator. An empty pattern selects
// BSNPattern with capture group 2.
func NewBSNAnnotator(name, tag string, priority int, pattern string, group int) (*BSNAnnotator, error) {
	if pattern == "" {
		pattern, group = BSNPattern, 2
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("annotator %s: %v: %w", name, err, internalerr.ErrInvalidConfig)
	}
	if group < 0 || group > re.NumSubexp() {
		return nil, fmt.Errorf("annotator %s: capture group %d out of range: %w", name, group, internalerr.ErrInvalidConfig)
	}
	return &BSNAnnotator{Base: NewBase(name, tag, priority), pattern: re, group: group}, nil
}

// Annotate returns every candidate passing the eleven test. A candidate
// that does not reduce to nine digits is an error of the configured
// pattern, not of the document.
func (a *BSNAnnotator) Annotate(doc *document.Document) ([]document.Annotation, error) {
	var out []document.Annotation
	var failed error
	eachGroupMatch(a.pattern, doc.Text, a.group, func(loc []int) {
		start, end := loc[2*a.group], loc[2*a.group+1]
		if failed != nil || start < 0 {
			return
		}
		ok, err := Elfproef(onlyDigits(doc.Text[start:end]))
		if err != nil {
			failed = fmt.Errorf("annotator %s: %w", a.name, err)
			return
		}
		if ok {
			out = append(out, doc.CharAnnotation(start, end, a.tag, a.priority))
		}
	})
	if failed != nil {
		return nil, failed
	}
	return out, nil
}
