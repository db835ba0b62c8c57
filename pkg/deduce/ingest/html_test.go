package ingest

import (
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "No HTML here", "No HTML here"},
		{"inline markup", "<p><strong>Jan</strong> Jansen</p>", "Jan Jansen"},
		{"blocks become lines", "<p>Regel 1</p><p>Regel 2</p>", "Regel 1\nRegel 2"},
		{"script dropped", "<script>var x = 1;</script><div>Tekst</div>", "Tekst"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ExtractText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}
