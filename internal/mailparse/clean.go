package mailparse

import (
	"regexp"
	"sort"
	"strings"
)

var (
	tripleNewlineRE = regexp.MustCompile(`\n\s*\n\s*\n`)
	spaceRunRE      = regexp.MustCompile(`[ \t]+`)
	signaturePatRE  = regexp.MustCompile(`(?i)^(sent from|get outlook|sent via)`)
	addressRE       = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
)

// signatureDelims end a body when a trimmed line equals one exactly.
var signatureDelims = map[string]bool{
	"--":   true,
	"---":  true,
	"—":    true,
	"____": true,
}

// SignatureDelimiters lists the lines that end a body when matched exactly,
// in sorted order.
func SignatureDelimiters() []string {
	out := make([]string, 0, len(signatureDelims))
	for d := range signatureDelims {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// cleanBody drops quoted reply lines, truncates at the first signature
// marker, and normalizes whitespace: runs of three or more newlines become
// a single blank line, runs of spaces and tabs a single space.
func (p *Parser) cleanBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !p.keepQuotes && strings.HasPrefix(trimmed, ">") {
			continue
		}
		if !p.keepSignatures && (signatureDelims[trimmed] || signaturePatRE.MatchString(trimmed)) {
			break
		}
		kept = append(kept, line)
	}

	text := strings.Join(kept, "\n")
	text = tripleNewlineRE.ReplaceAllString(text, "\n\n")
	text = spaceRunRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
