package annotate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// PhonePatterns are the Dutch phone number families: landline, mobile and
// the (0xx) xxx xx xx layout.
var PhonePatterns = []string{
	`(((0)[1-9]{2}[0-9][-]?[1-9][0-9]{5})|((\+31|0|0031)[1-9][0-9][-]?[1-9][0-9]{6}))`,
	`(((\+31|0|0031)6)[-]?[1-9][0-9]{7})`,
	`((\(\d{3}\)|\d{3})\s?\d{3}\s?\d{2}\s?\d{2})`,
}

// Service numbers are two digits shorter than regular numbers.
var shortServicePrefixes = []string{"0800", "0900", "0906", "0909"}

// PhoneAnnotator tags phone numbers and validates every match: at most one
// hyphen, and a digit count between MinDigits and MaxDigits after the
// international prefix is normalised to a leading zero.
type PhoneAnnotator struct {
	Base
	patterns  []*regexp.Regexp
	minDigits int
	maxDigits int
}

// NewPhoneAnnotator creates a phone annotator. Zero digit bounds default to
// 9 and 11.
func NewPhoneAnnotator(name, tag string, priority int, patterns []string, minDigits, maxDigits int) (*PhoneAnnotator, error) {
	if len(patterns) == 0 {
		patterns = PhonePatterns
	}
	if minDigits == 0 {
		minDigits = 9
	}
	if maxDigits == 0 {
		maxDigits = 11
	}
	if minDigits > maxDigits {
		return nil, fmt.Errorf("annotator %s: min digits %d > max digits %d: %w",
			name, minDigits, maxDigits, internalerr.ErrInvalidConfig)
	}
	a := &PhoneAnnotator{Base: NewBase(name, tag, priority), minDigits: minDigits, maxDigits: maxDigits}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("annotator %s: %v: %w", name, err, internalerr.ErrInvalidConfig)
		}
		a.patterns = append(a.patterns, re)
	}
	return a, nil
}

// Annotate returns the validated phone numbers in doc.
func (a *PhoneAnnotator) Annotate(doc *document.Document) ([]document.Annotation, error) {
	var out []document.Annotation
	for _, re := range a.patterns {
		for _, loc := range re.FindAllStringIndex(doc.Text, -1) {
			start, end := loc[0], loc[1]
			match := doc.Text[start:end]
			if strings.Count(match, "-") > 1 {
				continue
			}
			if !a.validDigits(match) {
				continue
			}
			if strings.HasPrefix(match, "(") && !strings.Contains(match, ")") {
				start++
			}
			out = append(out, doc.CharAnnotation(start, end, a.tag, a.priority))
		}
	}
	return out, nil
}

func (a *PhoneAnnotator) validDigits(match string) bool {
	digits := NationalDigits(match)
	shift := 0
	for _, p := range shortServicePrefixes {
		if strings.HasPrefix(digits, p) {
			shift = -2
			break
		}
	}
	n := len(digits)
	return a.minDigits+shift <= n && n <= a.maxDigits+shift
}

// NationalDigits strips everything but digits from s and rewrites a +31 or
// 0031 country code to the national leading zero.
func NationalDigits(s string) string {
	s = strings.TrimSpace(s)
	digits := onlyDigits(s)
	switch {
	case strings.HasPrefix(s, "+31"):
		return "0" + digits[2:]
	case strings.HasPrefix(s, "0031"):
		return "0" + digits[4:]
	}
	return digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
