package ingest

import (
	"fmt"
	"unicode/utf8"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// ValidateText checks that text can be processed. Offsets are byte offsets
// into UTF-8, so malformed encodings are rejected up front.
func ValidateText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("text is not valid UTF-8: %w", internalerr.ErrInvalidInput)
	}
	return nil
}
