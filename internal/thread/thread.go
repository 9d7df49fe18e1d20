// Package thread groups mail records into conversations.
package thread

import (
	"regexp"
	"sort"
	"time"

	"github.com/ZB56/VLM-humor/internal/corpus"
)

// UnknownKey groups messages that carry neither a thread id nor a subject.
const UnknownKey = "unknown"

var replyPrefixRE = regexp.MustCompile(`(?i)^(re|fwd|fw):\s*`)

// NormalizeSubject removes one leading reply or forward prefix. The
// remainder keeps its case, so "Re: Trade" and "FWD: trade" normalize to
// distinct subjects.
func NormalizeSubject(s string) string {
	return replyPrefixRE.ReplaceAllString(s, "")
}

// Group maps each message to its conversation key: the thread id when
// present, else the normalized subject, else UnknownKey. Messages within a
// group are ordered by ascending date; messages without a date sort before
// every dated one, and ties keep their input order.
func Group(mails []corpus.Mail) corpus.Threads {
	groups := make(corpus.Threads)
	for _, m := range mails {
		key := m.ThreadID
		if key == "" {
			key = NormalizeSubject(m.Subject)
		}
		if key == "" {
			key = UnknownKey
		}
		groups[key] = append(groups[key], m)
	}

	for key, msgs := range groups {
		sort.SliceStable(msgs, func(i, j int) bool {
			return dateBefore(msgs[i].Date, msgs[j].Date)
		})
		groups[key] = msgs
	}
	return groups
}

func dateBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}
