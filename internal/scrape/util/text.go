package util

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// CleanText collapses all whitespace runs (including non-breaking spaces)
// into single spaces and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// StripHTML converts provider HTML to plain text: tags removed, entities
// unescaped, whitespace collapsed. Tag removal only, not a sanitizer; the
// output is stored as text, never re-rendered as markup.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// fragment too broken for the parser; fall back to tag stripping
		return CleanText(html.UnescapeString(htmlTagRe.ReplaceAllString(s, " ")))
	}
	return CleanText(doc.Text())
}

// Truncate caps s at max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
