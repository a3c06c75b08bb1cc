// textmetrics_test.go verifies the counting rules the word counter page
// relies on. The tricky cases are all about whitespace and punctuation:
// blank input, trailing terminators, and multi-blank-line paragraphs.
package textmetrics

import (
	"strings"
	"testing"
)

func TestComputeEmptyString(t *testing.T) {
	s := Compute("")
	want := Snapshot{}
	if s != want {
		t.Errorf("Compute(\"\") = %+v, want all zeros", s)
	}
}

func TestComputeWhitespaceOnly(t *testing.T) {
	s := Compute("   \n\t \n  ")
	if s.Words != 0 || s.Sentences != 0 || s.Paragraphs != 0 {
		t.Errorf("whitespace-only input produced counts: %+v", s)
	}
	if s.ReadingMinutes != 0 || s.SpeakingMinutes != 0 {
		t.Errorf("whitespace-only input produced nonzero times: %+v", s)
	}
	// Characters still count whitespace; the no-spaces variant does not.
	if s.Characters != 10 {
		t.Errorf("Characters = %d, want 10", s.Characters)
	}
	if s.CharactersNoSpaces != 0 {
		t.Errorf("CharactersNoSpaces = %d, want 0", s.CharactersNoSpaces)
	}
	// "   \n\t \n  " has two newlines, so three lines.
	if s.Lines != 3 {
		t.Errorf("Lines = %d, want 3", s.Lines)
	}
}

func TestComputeCounts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Snapshot
	}{
		{
			name: "two sentences four words",
			text: "Hello world. Foo bar!",
			want: Snapshot{
				Characters:         21,
				CharactersNoSpaces: 18,
				Words:              4,
				Sentences:          2,
				Paragraphs:         1,
				Lines:              1,
				ReadingMinutes:     1,
				SpeakingMinutes:    1,
			},
		},
		{
			name: "three lines one paragraph",
			text: "Line1\nLine2\nLine3",
			want: Snapshot{
				Characters:         17,
				CharactersNoSpaces: 15,
				Words:              3,
				Sentences:          1,
				Paragraphs:         1,
				Lines:              3,
				ReadingMinutes:     1,
				SpeakingMinutes:    1,
			},
		},
		{
			name: "blank line splits paragraphs",
			text: "First paragraph here.\n\nSecond one.",
			want: Snapshot{
				Characters:         34,
				CharactersNoSpaces: 29,
				Words:              5,
				Sentences:          2,
				Paragraphs:         2,
				Lines:              3,
				ReadingMinutes:     1,
				SpeakingMinutes:    1,
			},
		},
		{
			name: "only punctuation",
			text: "...!!!???",
			want: Snapshot{
				Characters:         9,
				CharactersNoSpaces: 9,
				Words:              1,
				Sentences:          0,
				Paragraphs:         1,
				Lines:              1,
				ReadingMinutes:     1,
				SpeakingMinutes:    1,
			},
		},
		{
			name: "run of terminators ends one sentence",
			text: "Wait... what?! Really.",
			want: Snapshot{
				Characters:         22,
				CharactersNoSpaces: 20,
				Words:              3,
				Sentences:          3,
				Paragraphs:         1,
				Lines:              1,
				ReadingMinutes:     1,
				SpeakingMinutes:    1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.text)
			if got != tt.want {
				t.Errorf("Compute(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

// TestComputeTimesRoundUp verifies the ceiling math on reading/speaking time.
func TestComputeTimesRoundUp(t *testing.T) {
	tests := []struct {
		name         string
		words        int
		wantReading  int
		wantSpeaking int
	}{
		{"exactly one reading minute", 200, 1, 2},
		{"one word over", 201, 2, 2},
		{"exactly one speaking minute", 130, 1, 1},
		{"both round up", 401, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			s := Compute(text)
			if s.Words != tt.words {
				t.Fatalf("Words = %d, want %d", s.Words, tt.words)
			}
			if s.ReadingMinutes != tt.wantReading {
				t.Errorf("ReadingMinutes = %d, want %d", s.ReadingMinutes, tt.wantReading)
			}
			if s.SpeakingMinutes != tt.wantSpeaking {
				t.Errorf("SpeakingMinutes = %d, want %d", s.SpeakingMinutes, tt.wantSpeaking)
			}
		})
	}
}

// TestComputeWordsZeroIffBlank: words == 0 exactly when the trimmed input is empty.
func TestComputeWordsZeroIffBlank(t *testing.T) {
	blanks := []string{"", " ", "\n", "\t\t", " \n \t "}
	for _, s := range blanks {
		if got := Compute(s).Words; got != 0 {
			t.Errorf("Compute(%q).Words = %d, want 0", s, got)
		}
	}

	nonBlanks := []string{"a", " a ", "\n.\n", "— dash —"}
	for _, s := range nonBlanks {
		if got := Compute(s).Words; got == 0 {
			t.Errorf("Compute(%q).Words = 0, want > 0", s)
		}
	}
}

func TestComputeUnicodeCharacters(t *testing.T) {
	// Rune count, not byte count: "héllo wörld" is 11 runes.
	s := Compute("héllo wörld")
	if s.Characters != 11 {
		t.Errorf("Characters = %d, want 11", s.Characters)
	}
	if s.CharactersNoSpaces != 10 {
		t.Errorf("CharactersNoSpaces = %d, want 10", s.CharactersNoSpaces)
	}
	if s.Words != 2 {
		t.Errorf("Words = %d, want 2", s.Words)
	}
}
