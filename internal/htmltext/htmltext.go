// Package htmltext extracts plain text from HTML and XHTML fragments
// without building a DOM. A single tokenizer pass drops the content of
// non-visible elements, turns block-level tags into line breaks, and
// normalizes whitespace. Extraction never fails: if tokenization cannot
// complete, a crude tag-stripping substitution takes over.
package htmltext

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	blankRunRE = regexp.MustCompile(`\n\s*\n`)
	spaceRunRE = regexp.MustCompile(`[ \t]+`)
	tagRE      = regexp.MustCompile(`<[^>]+>`)
	wsRunRE    = regexp.MustCompile(`\s+`)
)

// skipTags hide the text inside them. meta is void and can never contain
// text, so it must not affect the skip depth.
var skipTags = map[string]bool{
	"style":  true,
	"script": true,
	"head":   true,
	"meta":   true,
}

// breakTags contribute a line break when opened.
var breakTags = map[string]bool{
	"p":   true,
	"div": true,
	"br":  true,
	"li":  true,
	"tr":  true,
}

// Extract returns the plain text of an HTML fragment. Text inside style,
// script, head, and meta elements is dropped; p, div, br, li, and tr open
// tags become newlines; entities are resolved; runs of blank lines collapse
// to a single blank line and runs of spaces and tabs to a single space.
func Extract(src string) string {
	text, err := tokenize(src)
	if err != nil {
		return stripTags(src)
	}
	return normalize(text)
}

func tokenize(src string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return b.String(), nil

		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case skipTags[tag]:
				// Depth counter, not a flag: nested skip elements
				// unwind correctly. meta has no end tag.
				if tag != "meta" {
					skip++
				}
			case breakTags[tag]:
				b.WriteByte('\n')
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breakTags[string(name)] {
				b.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); skipTags[tag] && tag != "meta" && skip > 0 {
				skip--
			}

		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func normalize(text string) string {
	text = blankRunRE.ReplaceAllString(text, "\n\n")
	text = spaceRunRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripTags is the last-resort extraction: every <...> run is replaced with
// a space and all whitespace collapses. It cannot fail.
func stripTags(src string) string {
	text := tagRE.ReplaceAllString(src, " ")
	return strings.TrimSpace(wsRunRE.ReplaceAllString(text, " "))
}
