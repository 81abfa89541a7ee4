// Package extract turns raw article HTML into a title, plain text body and word
// count. Everything here is pure: no I/O, no shared state.
package extract

import (
	"regexp"
	"strings"

	"repurpose/internal/model"
)

const (
	// MaxContentChars is the number of characters kept before truncation.
	MaxContentChars = 15000
	// TruncationMarker is appended to content cut at MaxContentChars.
	TruncationMarker = "..."
	// DefaultTitle is used when the page has neither og:title nor <title>.
	DefaultTitle = "Untitled"
)

// space matches one whitespace character, including the Unicode spaces that
// browsers treat as whitespace in text.
const space = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	ogTitleRe         = regexp.MustCompile(`(?i)<meta[^>]*property="og:title"[^>]*content="([^"]*)"[^>]*>`)
	ogTitleReversedRe = regexp.MustCompile(`(?i)<meta[^>]*content="([^"]*)"[^>]*property="og:title"[^>]*>`)
	titleRe           = regexp.MustCompile(`(?i)<title[^>]*>([^<]*)</title>`)

	// Removed in this order, tags and contents.
	blockRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`),
		regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`),
		regexp.MustCompile(`(?is)<aside[^>]*>.*?</aside>`),
	}

	paragraphOpenRe  = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>`)
	lineBreakRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphCloseRe = regexp.MustCompile(`(?i)</p>`)
	tagRe            = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe     = regexp.MustCompile(space + `+`)
	blankLinesRe     = regexp.MustCompile(`\n` + space + `*\n`)

	// Decoded in this order. &amp; comes after &nbsp; so "&amp;nbsp;" decodes
	// to the literal "&nbsp;" and not to a space.
	entityReplacer = []struct{ from, to string }{
		{"&nbsp;", " "},
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&#39;", "'"},
	}
)

// Extract parses html into an ArticleContent.
func Extract(html string) model.ArticleContent {
	return Finish(Title(html), Text(html))
}

// Finish normalises body text, truncates it and counts its words.
func Finish(title, text string) model.ArticleContent {
	content := Truncate(Normalize(text))
	return model.ArticleContent{
		Title:     title,
		Content:   content,
		WordCount: WordCount(content),
	}
}

// Title returns the og:title of the page, else the <title> text up to the first
// "|" or "-", else DefaultTitle.
func Title(html string) string {
	if m := ogTitleRe.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	if m := ogTitleReversedRe.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	if m := titleRe.FindStringSubmatch(html); m != nil {
		title := m[1]
		title, _, _ = strings.Cut(title, "|")
		title, _, _ = strings.Cut(title, "-")
		return strings.TrimSpace(title)
	}
	return DefaultTitle
}

// Text strips markup from html and decodes the common entities. The result is
// not yet whitespace-normalised.
func Text(html string) string {
	s := html
	for _, re := range blockRes {
		s = re.ReplaceAllString(s, "")
	}
	s = paragraphOpenRe.ReplaceAllString(s, "\n\n")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = paragraphCloseRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, " ")
	for _, e := range entityReplacer {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return s
}

// Normalize collapses whitespace runs to one space, collapses blank lines and
// trims the result.
func Normalize(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimFunc(s, isSpace)
}

// Truncate cuts s to MaxContentChars characters and appends TruncationMarker
// when anything was cut.
func Truncate(s string) string {
	if len(s) <= MaxContentChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxContentChars {
		return s
	}
	return string(runes[:MaxContentChars]) + TruncationMarker
}

// WordCount counts whitespace-separated tokens in s.
func WordCount(s string) int {
	return len(strings.FieldsFunc(s, isSpace))
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
