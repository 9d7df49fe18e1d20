// Package corpus defines the canonical records produced by the extraction
// pipeline: notes lifted from ENEX archives and messages lifted from email
// archives. The JSON form of each record is the interchange shape consumed
// by the CLI output files and the MCP tools: absent optional fields are
// explicit nulls, list fields are always arrays.
package corpus

import (
	"encoding/json"
	"time"
)

// Note is a single note extracted from a note archive.
type Note struct {
	Title     string     // "Untitled" when the source note has no usable title
	Content   string     // cleaned plain text
	Created   *time.Time // nil when absent or unparsable
	Updated   *time.Time // nil when absent or unparsable
	Tags      []string   // source order, duplicates preserved
	SourceURL string     // "" when absent
}

// Mail is a single message extracted from an email archive.
type Mail struct {
	Subject    string
	Sender     string     // decoded From header, bare address when one could be extracted
	Recipients []string   // To + Cc addresses, deduplicated
	Date       *time.Time // nil when absent or unparsable
	Body       string     // cleaned plain text
	MessageID  string     // raw header value, "" when absent
	InReplyTo  string     // raw header value, "" when absent
	ThreadID   string     // see mailparse for the derivation, "" when absent
}

// Threads maps a conversation key to its messages in ascending date order.
type Threads map[string][]Mail

type noteJSON struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Created   *time.Time `json:"created"`
	Updated   *time.Time `json:"updated"`
	Tags      []string   `json:"tags"`
	SourceURL *string    `json:"source_url"`
}

// MarshalJSON writes absent optionals as null and empty lists as [].
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		Title:     n.Title,
		Content:   n.Content,
		Created:   n.Created,
		Updated:   n.Updated,
		Tags:      emptyIfNil(n.Tags),
		SourceURL: nullable(n.SourceURL),
	})
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var aux noteJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Title = aux.Title
	n.Content = aux.Content
	n.Created = aux.Created
	n.Updated = aux.Updated
	n.Tags = aux.Tags
	n.SourceURL = deref(aux.SourceURL)
	return nil
}

type mailJSON struct {
	Subject    string     `json:"subject"`
	Sender     string     `json:"sender"`
	Recipients []string   `json:"recipients"`
	Date       *time.Time `json:"date"`
	Body       string     `json:"body"`
	ThreadID   *string    `json:"thread_id"`
	InReplyTo  *string    `json:"in_reply_to"`
	MessageID  *string    `json:"message_id"`
}

// MarshalJSON writes absent optionals as null and empty lists as [].
func (m Mail) MarshalJSON() ([]byte, error) {
	return json.Marshal(mailJSON{
		Subject:    m.Subject,
		Sender:     m.Sender,
		Recipients: emptyIfNil(m.Recipients),
		Date:       m.Date,
		Body:       m.Body,
		ThreadID:   nullable(m.ThreadID),
		InReplyTo:  nullable(m.InReplyTo),
		MessageID:  nullable(m.MessageID),
	})
}

func (m *Mail) UnmarshalJSON(data []byte) error {
	var aux mailJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Subject = aux.Subject
	m.Sender = aux.Sender
	m.Recipients = aux.Recipients
	m.Date = aux.Date
	m.Body = aux.Body
	m.ThreadID = deref(aux.ThreadID)
	m.InReplyTo = deref(aux.InReplyTo)
	m.MessageID = deref(aux.MessageID)
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
