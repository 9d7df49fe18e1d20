// Package mailparse extracts canonical mail records from eml files, mbox
// containers, and directories of either. Headers are decoded per RFC 2047
// with charset fallbacks that never fail; bodies come from the message's
// text parts with attachments skipped, then lose quoted reply lines and
// trailing signatures. Messages that cannot be parsed, or whose cleaned
// body is shorter than the minimum, are dropped silently.
package mailparse

import (
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message"

	"github.com/ZB56/VLM-humor/internal/corpus"
)

// DefaultMinBodyLength is the length gate applied when Options leaves
// MinBodyLength unset.
const DefaultMinBodyLength = 20

// Options configures a Parser. The zero value strips quoted lines and
// signatures and applies DefaultMinBodyLength.
type Options struct {
	MinBodyLength  int  // minimum cleaned body length in bytes, 0 means DefaultMinBodyLength
	KeepQuotes     bool // keep lines quoted with ">"
	KeepSignatures bool // keep everything after a signature delimiter
}

// Parser extracts mail records.
type Parser struct {
	minBody        int
	keepQuotes     bool
	keepSignatures bool
}

// NewParser returns a Parser with defaults applied.
func NewParser(opts Options) *Parser {
	if opts.MinBodyLength <= 0 {
		opts.MinBodyLength = DefaultMinBodyLength
	}
	return &Parser{
		minBody:        opts.MinBodyLength,
		keepQuotes:     opts.KeepQuotes,
		keepSignatures: opts.KeepSignatures,
	}
}

// ParseMessage reads one RFC 5322 message. ok is false when the message is
// dropped: unreadable structure, or a cleaned body under the minimum
// length. Unknown charsets are not failures; their bytes decode with
// replacement runes.
func (p *Parser) ParseMessage(r io.Reader) (corpus.Mail, bool) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return corpus.Mail{}, false
	}

	body := p.cleanBody(collectText(entity))
	if len(body) < p.minBody {
		return corpus.Mail{}, false
	}

	header := entity.Header
	return corpus.Mail{
		Subject:    decodeHeader(header.Get("Subject")),
		Sender:     extractSender(decodeHeader(header.Get("From"))),
		Recipients: extractRecipients(decodeHeader(header.Get("To")), decodeHeader(header.Get("Cc"))),
		Date:       parseDate(header.Get("Date")),
		Body:       body,
		MessageID:  header.Get("Message-Id"),
		InReplyTo:  header.Get("In-Reply-To"),
		ThreadID:   threadID(header),
	}, true
}

// ParseFile reads a single message file. The error covers only opening the
// file; message-level problems drop the record silently.
func (p *Parser) ParseFile(path string) (corpus.Mail, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return corpus.Mail{}, false, fmt.Errorf("opening message file: %w", err)
	}
	defer f.Close()
	m, ok := p.ParseMessage(f)
	return m, ok, nil
}

// threadID prefers the explicit Thread-Index header, then the first
// References token. Empty or missing headers mean no thread id.
func threadID(h message.Header) string {
	if ti := h.Get("Thread-Index"); ti != "" {
		return ti
	}
	if refs := strings.Fields(h.Get("References")); len(refs) > 0 {
		return refs[0]
	}
	return ""
}

// collectText gathers the displayable text of a message: the sole payload
// of a single-part message regardless of its declared type, or every
// non-attachment text/plain leaf of a multipart message joined with
// newlines.
func collectText(entity *message.Entity) string {
	mr := entity.MultipartReader()
	if mr == nil {
		return readText(entity)
	}
	var parts []string
	collectParts(mr, &parts)
	return strings.Join(parts, "\n")
}

func collectParts(mr message.MultipartReader, parts *[]string) {
	for {
		part, err := mr.NextPart()
		if err != nil && !message.IsUnknownCharset(err) {
			return
		}
		if part == nil {
			return
		}
		if sub := part.MultipartReader(); sub != nil {
			collectParts(sub, parts)
			continue
		}
		if isAttachment(part.Header) {
			continue
		}
		if t, _, err := part.Header.ContentType(); err == nil && t == "text/plain" {
			*parts = append(*parts, readText(part))
		}
	}
}

func isAttachment(h message.Header) bool {
	return strings.Contains(strings.ToLower(h.Get("Content-Disposition")), "attachment")
}

// readText drains an entity body. Transfer encoding and known charsets are
// already decoded by the reader; whatever remains is coerced to valid
// UTF-8. Read errors keep the bytes read so far.
func readText(entity *message.Entity) string {
	data, _ := io.ReadAll(entity.Body)
	return toValidUTF8(string(data))
}

// extractSender pulls the bare address out of a decoded From value,
// keeping the whole value when no address-shaped token is present.
func extractSender(from string) string {
	if addr := addressRE.FindString(from); addr != "" {
		return addr
	}
	return from
}

// extractRecipients collects every address in the given header values,
// deduplicated in first-seen order.
func extractRecipients(values ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, addr := range addressRE.FindAllString(v, -1) {
			if !seen[addr] {
				seen[addr] = true
				out = append(out, addr)
			}
		}
	}
	return out
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := mail.ParseDate(value)
	if err != nil {
		return nil
	}
	return &t
}
