package commands

import (
	"bytes"
	"strings"
	"testing"
)

// --- Phrase Tests ---

func TestPrompter_Phrase(t *testing.T) {
	out := &bytes.Buffer{}
	p := newPrompter(strings.NewReader("  red panda \n"), out)

	got, err := p.Phrase()
	if err != nil {
		t.Fatalf("Phrase() error = %v", err)
	}
	if got != "red panda" {
		t.Errorf("Phrase() = %q, want %q", got, "red panda")
	}
	if out.String() != promptPhrase {
		t.Errorf("unexpected prompt %q", out.String())
	}
}

func TestPrompter_Phrase_EOF(t *testing.T) {
	p := newPrompter(strings.NewReader(""), &bytes.Buffer{})

	got, err := p.Phrase()
	if err != nil {
		t.Fatalf("Phrase() error = %v", err)
	}
	if got != "" {
		t.Errorf("expected empty phrase at end of input, got %q", got)
	}
}

// --- Count Tests ---

func TestPrompter_Count(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantOK  bool
		prompts int
		notes   []string
	}{
		{"valid", "3\n", 3, true, 1, nil},
		{"zero", "0\n", 0, true, 1, nil},
		{"empty quits", "\n", 0, false, 1, nil},
		{"end of input quits", "", 0, false, 1, nil},
		{"not an integer", "three\n2\n", 2, true, 2, []string{msgNotInteger}},
		{"too many", "61\n60\n", 60, true, 2, []string{"between 0 and 60"}},
		{"negative", "-1\n\n", 0, false, 2, []string{"between 0 and 60"}},
		{"decimal", "1.5\n1\n", 1, true, 2, []string{msgNotInteger}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := newPrompter(strings.NewReader(tt.input), out)

			got, ok, err := p.Count(60)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Count() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
			if n := strings.Count(out.String(), promptCount); n != tt.prompts {
				t.Errorf("expected %d prompts, got %d in %q", tt.prompts, n, out.String())
			}
			for _, note := range tt.notes {
				if !strings.Contains(out.String(), note) {
					t.Errorf("expected %q in output %q", note, out.String())
				}
			}
		})
	}
}
