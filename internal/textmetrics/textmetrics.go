// Package textmetrics computes document statistics for the word counter tool.
//
// Go Pattern: A pure function package. Compute has no state, no I/O, and no
// failure modes — every string input produces a Snapshot. Keeping it pure
// makes it trivially testable and safe to call from any goroutine.
package textmetrics

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reading/speaking speeds in words per minute. These match the values the
// frontend pages have always displayed, so the numbers stay consistent
// whether the count happens in the browser or here.
const (
	readingWPM  = 200
	speakingWPM = 130
)

// Snapshot holds every statistic derived from one text input.
// It is immutable — a text change produces a new Snapshot, never a mutation.
type Snapshot struct {
	Characters         int `json:"characters"`
	CharactersNoSpaces int `json:"characters_no_spaces"`
	Words              int `json:"words"`
	Sentences          int `json:"sentences"`
	Paragraphs         int `json:"paragraphs"`
	Lines              int `json:"lines"`
	ReadingMinutes     int `json:"reading_time_minutes"`
	SpeakingMinutes    int `json:"speaking_time_minutes"`
}

var (
	// A sentence boundary is a run of one or more terminators.
	// "Wait...?!" ends exactly one sentence.
	sentenceBoundary = regexp.MustCompile(`[.!?]+`)

	// A paragraph boundary is a blank line: a newline, optional whitespace
	// forming an empty line, then another newline.
	paragraphBoundary = regexp.MustCompile(`\n\s*\n`)
)

// Compute derives a full Snapshot from the given text.
//
// Counting rules:
//   - characters count every rune, including whitespace
//   - words are maximal non-whitespace runs (0 for blank input)
//   - sentences split on runs of '.', '!' or '?', discarding blank segments
//   - paragraphs split on blank lines, discarding blank segments
//   - lines split on single '\n' with no trimming (0 only for empty input)
//   - reading/speaking time round up, so any non-empty text costs ≥1 minute
func Compute(text string) Snapshot {
	trimmed := strings.TrimSpace(text)

	s := Snapshot{
		Characters:         utf8.RuneCountInString(text),
		CharactersNoSpaces: countNonSpace(text),
	}

	if text != "" {
		s.Lines = strings.Count(text, "\n") + 1
	}

	if trimmed == "" {
		// Only-whitespace input: everything below is zero by definition,
		// and ceil(0/wpm) keeps the times at zero too.
		return s
	}

	s.Words = len(strings.Fields(trimmed))
	s.Sentences = countSegments(sentenceBoundary.Split(trimmed, -1))
	s.Paragraphs = countSegments(paragraphBoundary.Split(trimmed, -1))
	s.ReadingMinutes = minutesFor(s.Words, readingWPM)
	s.SpeakingMinutes = minutesFor(s.Words, speakingWPM)

	return s
}

// countNonSpace counts runes that are not whitespace.
func countNonSpace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// countSegments counts segments that are non-empty once trimmed.
func countSegments(segments []string) int {
	n := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

// minutesFor converts a word count to whole minutes at the given pace.
func minutesFor(words, wpm int) int {
	return int(math.Ceil(float64(words) / float64(wpm)))
}
