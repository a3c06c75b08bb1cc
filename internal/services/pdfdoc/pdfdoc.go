// Package pdfdoc provides local PDF inspection for the tools that don't
// need the remote processor: page enumeration for the organizer, text
// extraction for the word counter, link extraction for the link tool.
//
// We use the ledongthuc/pdf library — pure Go, no CGO, single-binary
// deployment. It reads from memory (io.ReaderAt), which suits us since the
// bytes come from an HTTP upload, not a file on disk.
package pdfdoc

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validate checks the magic bytes. PDF files start with "%PDF-".
func Validate(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// PageCount returns the number of pages in the document.
func PageCount(data []byte) (int, error) {
	r, err := open(data)
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

// ExtractText extracts the plain text of every page, in page order.
// Pages that fail to yield text (image-only scans, odd encodings) are
// skipped rather than failing the whole document.
func ExtractText(data []byte) (string, error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}

	var all strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if all.Len() > 0 {
			all.WriteString("\n")
		}
		all.WriteString(strings.TrimSpace(text))
	}
	return strings.TrimSpace(all.String()), nil
}

func open(data []byte) (*pdf.Reader, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return r, nil
}

// linkPattern matches http(s) URLs in extracted text. Text extraction loses
// annotation boundaries, so a URL often runs into trailing punctuation;
// trimURL cleans that up afterwards.
var linkPattern = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `]+`)

// ExtractLinks returns the URLs found in text, in order of first
// appearance. With uniqueOnly set, repeated URLs appear once.
func ExtractLinks(text string, uniqueOnly bool) []string {
	matches := linkPattern.FindAllString(text, -1)

	links := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		link := trimURL(m)
		if link == "" {
			continue
		}
		if uniqueOnly {
			if seen[link] {
				continue
			}
			seen[link] = true
		}
		links = append(links, link)
	}
	return links
}

// trimURL strips punctuation that belongs to the surrounding sentence, not
// the URL: trailing periods, commas, and unbalanced closing brackets.
func trimURL(u string) string {
	u = strings.TrimRight(u, ".,;:!?")
	for strings.HasSuffix(u, ")") && strings.Count(u, ")") > strings.Count(u, "(") {
		u = strings.TrimSuffix(u, ")")
	}
	for strings.HasSuffix(u, "]") && strings.Count(u, "]") > strings.Count(u, "[") {
		u = strings.TrimSuffix(u, "]")
	}
	return u
}
