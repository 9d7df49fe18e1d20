// Package filter selects the corpus records worth keeping. Queries are
// pure predicates over canonical records; the collectors drain a parser
// scanner in one pass and materialize the survivors.
package filter

import (
	"strings"

	"github.com/ZB56/VLM-humor/internal/corpus"
	"github.com/ZB56/VLM-humor/internal/enex"
	"github.com/ZB56/VLM-humor/internal/mailparse"
)

// DefaultSubjectKeywords is the vocabulary applied to mail subjects when a
// query supplies no keyword list at all.
var DefaultSubjectKeywords = []string{
	"fantasy", "trade", "waiver", "lineup", "matchup",
	"standings", "draft", "keeper", "roster", "playoffs",
}

// NoteQuery filters notes by tag and content keyword. Nil or empty lists
// apply no constraint.
type NoteQuery struct {
	Tags     []string
	Keywords []string
}

// Match reports whether the note passes every requested constraint: any
// requested tag equals one of the note's tags (case-insensitive), and any
// requested keyword appears in the content (case-insensitive substring).
func (q NoteQuery) Match(n corpus.Note) bool {
	if len(q.Tags) > 0 && !anyTagMatches(q.Tags, n.Tags) {
		return false
	}
	if len(q.Keywords) > 0 && !anyKeywordIn(q.Keywords, n.Content) {
		return false
	}
	return true
}

// MailQuery filters messages by sender domain and subject keyword. A nil
// Keywords list applies DefaultSubjectKeywords; a non-nil empty list
// disables the keyword constraint entirely. Nil and empty domain lists
// both mean unconstrained.
type MailQuery struct {
	Domains  []string
	Keywords []string
}

// Match reports whether the message passes the domain and subject-keyword
// constraints.
func (q MailQuery) Match(m corpus.Mail) bool {
	if len(q.Domains) > 0 && !domainMatches(q.Domains, m.Sender) {
		return false
	}
	keywords := q.Keywords
	if keywords == nil {
		keywords = DefaultSubjectKeywords
	}
	if len(keywords) > 0 && !anyKeywordIn(keywords, m.Subject) {
		return false
	}
	return true
}

// CollectNotes drains the scanner and returns the notes matching the
// query. On a scan error the notes gathered so far are returned with it.
// The result is never nil, so it always serializes as a JSON array.
func CollectNotes(sc *enex.Scanner, q NoteQuery) ([]corpus.Note, error) {
	defer sc.Close()
	notes := make([]corpus.Note, 0, 16)
	for sc.Scan() {
		if n := sc.Note(); q.Match(n) {
			notes = append(notes, n)
		}
	}
	return notes, sc.Err()
}

// CollectMail drains the scanner and returns the messages matching the
// query. On a scan error the messages gathered so far are returned with it.
// The result is never nil, so it always serializes as a JSON array.
func CollectMail(sc *mailparse.Scanner, q MailQuery) ([]corpus.Mail, error) {
	defer sc.Close()
	mails := make([]corpus.Mail, 0, 16)
	for sc.Scan() {
		if m := sc.Mail(); q.Match(m) {
			mails = append(mails, m)
		}
	}
	return mails, sc.Err()
}

func anyTagMatches(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}

func anyKeywordIn(keywords []string, text string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// domainMatches compares the substring after the sender's last "@" (empty
// when there is none) for exact equality with a requested domain.
func domainMatches(domains []string, sender string) bool {
	domain := ""
	if at := strings.LastIndex(sender, "@"); at >= 0 {
		domain = sender[at+1:]
	}
	for _, d := range domains {
		if domain == d {
			return true
		}
	}
	return false
}
