// Package enex parses ENEX note archives into canonical corpus records.
// Archives are read element-at-a-time so arbitrarily large exports never
// force the whole document into memory. Notes without usable content and
// notes whose cleaned text falls under the minimum length are dropped
// silently; only a missing source is an error.
package enex

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ZB56/VLM-humor/internal/corpus"
	"github.com/ZB56/VLM-humor/internal/htmltext"
)

// DefaultMinContentLength is the length gate applied when Options leaves
// MinContentLength unset.
const DefaultMinContentLength = 50

// DefaultTitle replaces absent or empty note titles.
const DefaultTitle = "Untitled"

// timestampLayout matches export timestamps such as 20231215T143022Z.
const timestampLayout = "20060102T150405Z"

// Options configures a Parser.
type Options struct {
	MinContentLength int // minimum cleaned content length in bytes, 0 means DefaultMinContentLength
}

// Parser extracts notes from ENEX files.
type Parser struct {
	minContent int
}

// NewParser returns a Parser with defaults applied.
func NewParser(opts Options) *Parser {
	if opts.MinContentLength <= 0 {
		opts.MinContentLength = DefaultMinContentLength
	}
	return &Parser{minContent: opts.MinContentLength}
}

// ParseFile opens a single archive. The returned scanner yields notes in
// document order. A missing or unreadable file is an error.
func (p *Parser) ParseFile(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening note archive: %w", err)
	}
	return &Scanner{
		p:     p,
		paths: []string{path},
		idx:   1,
		f:     f,
		dec:   xml.NewDecoder(f),
	}, nil
}

// ParseDir opens every .enex file under dir, in sorted order. A directory
// without archives yields an empty sequence, not an error.
func (p *Parser) ParseDir(dir string) (*Scanner, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening note directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening note directory: %s is not a directory", dir)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.enex"))
	if err != nil {
		return nil, fmt.Errorf("scanning note directory: %w", err)
	}
	return &Scanner{p: p, paths: paths}, nil
}

// Open routes path to ParseDir or ParseFile depending on what it names.
func (p *Parser) Open(path string) (*Scanner, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening note archive: %w", err)
	}
	if info.IsDir() {
		return p.ParseDir(path)
	}
	return p.ParseFile(path)
}

// rawNote is the wire shape of one <note> element.
type rawNote struct {
	Title     string   `xml:"title"`
	Content   string   `xml:"content"`
	Created   string   `xml:"created"`
	Updated   string   `xml:"updated"`
	Tags      []string `xml:"tag"`
	SourceURL string   `xml:"source-url"`
}

// Scanner iterates the notes of one or more archives, forward-only.
type Scanner struct {
	p     *Parser
	paths []string
	idx   int
	f     *os.File
	dec   *xml.Decoder
	cur   corpus.Note
	err   error
	done  bool
}

// Scan advances to the next note that survives the content and length
// gates. It returns false at the end of input or on the first parse error.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	for {
		if s.dec == nil && !s.nextFile() {
			return false
		}
		note, ok, err := s.nextNote()
		if err != nil {
			if err == io.EOF {
				s.closeCurrent()
				continue
			}
			s.err = fmt.Errorf("parsing %s: %w", s.paths[s.idx-1], err)
			s.closeCurrent()
			return false
		}
		if !ok {
			continue
		}
		s.cur = note
		return true
	}
}

// Note returns the record produced by the last successful Scan.
func (s *Scanner) Note() corpus.Note { return s.cur }

// Err returns the first error encountered after the initial open.
func (s *Scanner) Err() error { return s.err }

// Close releases the underlying file, if any.
func (s *Scanner) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.dec = nil
	return err
}

func (s *Scanner) closeCurrent() {
	if s.f != nil {
		s.f.Close()
		s.f = nil
	}
	s.dec = nil
}

func (s *Scanner) nextFile() bool {
	if s.idx >= len(s.paths) {
		s.done = true
		return false
	}
	f, err := os.Open(s.paths[s.idx])
	if err != nil {
		s.err = fmt.Errorf("opening note archive: %w", err)
		s.idx++
		return false
	}
	s.f = f
	s.dec = xml.NewDecoder(f)
	s.idx++
	return true
}

func (s *Scanner) nextNote() (corpus.Note, bool, error) {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return corpus.Note{}, false, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "note" {
			continue
		}
		var raw rawNote
		if err := s.dec.DecodeElement(&raw, &se); err != nil {
			return corpus.Note{}, false, err
		}
		note, keep := s.p.convert(raw)
		return note, keep, nil
	}
}

func (p *Parser) convert(raw rawNote) (corpus.Note, bool) {
	if raw.Content == "" {
		return corpus.Note{}, false
	}
	content := htmltext.Extract(raw.Content)
	if len(content) < p.minContent {
		return corpus.Note{}, false
	}

	title := raw.Title
	if title == "" {
		title = DefaultTitle
	}

	var tags []string
	for _, tag := range raw.Tags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return corpus.Note{
		Title:     title,
		Content:   content,
		Created:   parseTimestamp(raw.Created),
		Updated:   parseTimestamp(raw.Updated),
		Tags:      tags,
		SourceURL: raw.SourceURL,
	}, true
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
