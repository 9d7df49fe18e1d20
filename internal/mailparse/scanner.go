package mailparse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-mbox"

	"github.com/ZB56/VLM-humor/internal/corpus"
)

// DefaultDirPattern selects the message files OpenDir reads when no
// pattern is given.
const DefaultDirPattern = "*.eml"

// Scanner iterates the messages of an mbox container or a directory of
// message files, forward-only. Messages that fail to parse or fall under
// the minimum body length are skipped without error.
type Scanner struct {
	p     *Parser
	paths []string
	idx   int
	f     *os.File
	mr    *mbox.Reader
	cur   corpus.Mail
	err   error
	done  bool
}

// OpenMbox opens a single mbox container.
func (p *Parser) OpenMbox(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mbox: %w", err)
	}
	return &Scanner{p: p, f: f, mr: mbox.NewReader(f)}, nil
}

// OpenDir opens every file under dir matching pattern, in sorted order.
// Files with an .mbox extension iterate their contained messages inline;
// everything else is read as a single message file.
func (p *Parser) OpenDir(dir, pattern string) (*Scanner, error) {
	if pattern == "" {
		pattern = DefaultDirPattern
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening mail directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening mail directory: %s is not a directory", dir)
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("scanning mail directory: %w", err)
	}
	return &Scanner{p: p, paths: paths}, nil
}

// Open routes path to the right scanner: a directory scans per pattern, an
// .mbox file streams the container, and any other file is read as a single
// message.
func (p *Parser) Open(path, pattern string) (*Scanner, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening mail source: %w", err)
	}
	if info.IsDir() {
		return p.OpenDir(path, pattern)
	}
	if strings.EqualFold(filepath.Ext(path), ".mbox") {
		return p.OpenMbox(path)
	}
	return &Scanner{p: p, paths: []string{path}}, nil
}

// Scan advances to the next message that parses and survives the length
// gate. It returns false at the end of input or on a container error.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	for {
		if s.mr != nil {
			msg, err := s.mr.NextMessage()
			if err == io.EOF {
				s.closeCurrent()
				continue
			}
			if err != nil {
				s.err = fmt.Errorf("reading mbox: %w", err)
				s.closeCurrent()
				return false
			}
			if m, ok := s.p.ParseMessage(msg); ok {
				s.cur = m
				return true
			}
			continue
		}

		if s.idx >= len(s.paths) {
			s.done = true
			return false
		}
		path := s.paths[s.idx]
		s.idx++

		if strings.EqualFold(filepath.Ext(path), ".mbox") {
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			s.f = f
			s.mr = mbox.NewReader(f)
			continue
		}
		if m, ok, err := s.p.ParseFile(path); err == nil && ok {
			s.cur = m
			return true
		}
	}
}

// Mail returns the record produced by the last successful Scan.
func (s *Scanner) Mail() corpus.Mail { return s.cur }

// Err returns the first container-level error encountered.
func (s *Scanner) Err() error { return s.err }

// Close releases the underlying file, if any.
func (s *Scanner) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.mr = nil
	return err
}

func (s *Scanner) closeCurrent() {
	if s.f != nil {
		s.f.Close()
		s.f = nil
	}
	s.mr = nil
}
