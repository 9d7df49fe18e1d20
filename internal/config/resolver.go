// Package config resolves extraction settings from the config file,
// VLMHUMOR_* environment variables, and CLI flags, in that order of
// precedence. Every resolved value remembers where it came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

// SourceUnknown is the zero value, so an unset ResolvedValue reads as
// unresolved without any initialization.
const (
	SourceUnknown ValueSource = ""
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

const builtinFrom = "built-in default"

// ResolvedValue is a setting plus its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// Int returns the value as an integer, or fallback when unset or invalid.
func (v ResolvedValue) Int(fallback int) int {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// Bool returns the value as a boolean, or fallback when unset or invalid.
func (v ResolvedValue) Bool(fallback bool) bool {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

// SplitList turns a comma-separated value into a list. An unresolved value
// is nil; a resolved empty value is an empty, non-nil list. The filters
// lean on that distinction: nil falls back to their defaults, empty means
// no constraint.
func (v ResolvedValue) SplitList() []string {
	if v.Source == SourceUnknown {
		return nil
	}
	parts := strings.Split(v.Value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ResolveOptions struct {
	ConfigPath string

	CLIMinContent   string
	CLINoteTags     string
	CLINoteKeywords string

	CLIMinBody        string
	CLIMailDomains    string
	CLIMailKeywords   string
	CLIAllSubjects    bool
	CLIKeepQuotes     bool
	CLIKeepSignatures bool
	CLIGroupThreads   bool
	CLIPattern        string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	MinContentLength ResolvedValue `json:"min_content_length"`
	NoteTags         ResolvedValue `json:"note_tags"`
	NoteKeywords     ResolvedValue `json:"note_keywords"`

	MinBodyLength   ResolvedValue `json:"min_body_length"`
	StripQuotes     ResolvedValue `json:"strip_quotes"`
	StripSignatures ResolvedValue `json:"strip_signatures"`
	MailDomains     ResolvedValue `json:"mail_domains"`
	MailKeywords    ResolvedValue `json:"mail_keywords"`
	GroupThreads    ResolvedValue `json:"group_threads"`
	DirPattern      ResolvedValue `json:"dir_pattern"`
}

// fileConfig uses pointers throughout so a value that is present in the
// file, even as false, zero, or an empty list, can be told apart from one
// that is absent.
type fileConfig struct {
	Notes struct {
		MinContentLength *int      `yaml:"min_content_length"`
		Tags             *[]string `yaml:"tags"`
		Keywords         *[]string `yaml:"keywords"`
	} `yaml:"notes"`
	Mail struct {
		MinBodyLength   *int      `yaml:"min_body_length"`
		StripQuotes     *bool     `yaml:"strip_quotes"`
		StripSignatures *bool     `yaml:"strip_signatures"`
		Domains         *[]string `yaml:"domains"`
		Keywords        *[]string `yaml:"keywords"`
		GroupThreads    *bool     `yaml:"group_threads"`
		Pattern         *string   `yaml:"pattern"`
	} `yaml:"mail"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".vlm-humor", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("VLMHUMOR_CONFIG"))
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	out := defaults()
	out.ConfigPath = path

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		applyInt(&out.MinContentLength, cfg.Notes.MinContentLength, path)
		applyList(&out.NoteTags, cfg.Notes.Tags, path)
		applyList(&out.NoteKeywords, cfg.Notes.Keywords, path)

		applyInt(&out.MinBodyLength, cfg.Mail.MinBodyLength, path)
		applyBool(&out.StripQuotes, cfg.Mail.StripQuotes, path)
		applyBool(&out.StripSignatures, cfg.Mail.StripSignatures, path)
		applyList(&out.MailDomains, cfg.Mail.Domains, path)
		applyList(&out.MailKeywords, cfg.Mail.Keywords, path)
		applyBool(&out.GroupThreads, cfg.Mail.GroupThreads, path)
		if cfg.Mail.Pattern != nil {
			apply(&out.DirPattern, *cfg.Mail.Pattern, SourceConfig, path)
		}
	}

	applyEnv(&out.MinContentLength, "VLMHUMOR_MIN_CONTENT")
	applyListEnv(&out.NoteTags, "VLMHUMOR_NOTE_TAGS")
	applyListEnv(&out.NoteKeywords, "VLMHUMOR_NOTE_KEYWORDS")

	applyEnv(&out.MinBodyLength, "VLMHUMOR_MIN_BODY")
	applyEnv(&out.StripQuotes, "VLMHUMOR_STRIP_QUOTES")
	applyEnv(&out.StripSignatures, "VLMHUMOR_STRIP_SIGNATURES")
	applyListEnv(&out.MailDomains, "VLMHUMOR_MAIL_DOMAINS")
	applyListEnv(&out.MailKeywords, "VLMHUMOR_MAIL_KEYWORDS")
	applyEnv(&out.GroupThreads, "VLMHUMOR_GROUP_THREADS")
	applyEnv(&out.DirPattern, "VLMHUMOR_PATTERN")

	apply(&out.MinContentLength, opts.CLIMinContent, SourceCLI, "--min-length")
	apply(&out.NoteTags, opts.CLINoteTags, SourceCLI, "--tags")
	apply(&out.NoteKeywords, opts.CLINoteKeywords, SourceCLI, "--keywords")
	apply(&out.MinBodyLength, opts.CLIMinBody, SourceCLI, "--min-length")
	apply(&out.MailDomains, opts.CLIMailDomains, SourceCLI, "--domains")
	apply(&out.MailKeywords, opts.CLIMailKeywords, SourceCLI, "--keywords")
	apply(&out.DirPattern, opts.CLIPattern, SourceCLI, "--pattern")

	if opts.CLIAllSubjects {
		out.MailKeywords = ResolvedValue{Source: SourceCLI, From: "--all-subjects"}
	}
	if opts.CLIKeepQuotes {
		out.StripQuotes = ResolvedValue{Value: "false", Source: SourceCLI, From: "--keep-quotes"}
	}
	if opts.CLIKeepSignatures {
		out.StripSignatures = ResolvedValue{Value: "false", Source: SourceCLI, From: "--keep-signatures"}
	}
	if opts.CLIGroupThreads {
		out.GroupThreads = ResolvedValue{Value: "true", Source: SourceCLI, From: "--group-threads"}
	}

	return out, nil
}

func defaults() ResolvedConfig {
	return ResolvedConfig{
		MinContentLength: ResolvedValue{Value: "50", Source: SourceDefault, From: builtinFrom},
		MinBodyLength:    ResolvedValue{Value: "20", Source: SourceDefault, From: builtinFrom},
		StripQuotes:      ResolvedValue{Value: "true", Source: SourceDefault, From: builtinFrom},
		StripSignatures:  ResolvedValue{Value: "true", Source: SourceDefault, From: builtinFrom},
		GroupThreads:     ResolvedValue{Value: "false", Source: SourceDefault, From: builtinFrom},
		DirPattern:       ResolvedValue{Value: "*.eml", Source: SourceDefault, From: builtinFrom},
	}
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyInt(dst *ResolvedValue, v *int, path string) {
	if v == nil {
		return
	}
	*dst = ResolvedValue{Value: strconv.Itoa(*v), Source: SourceConfig, From: path}
}

func applyBool(dst *ResolvedValue, v *bool, path string) {
	if v == nil {
		return
	}
	*dst = ResolvedValue{Value: strconv.FormatBool(*v), Source: SourceConfig, From: path}
}

func applyList(dst *ResolvedValue, v *[]string, path string) {
	if v == nil {
		return
	}
	*dst = ResolvedValue{Value: strings.Join(*v, ","), Source: SourceConfig, From: path}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

// applyListEnv honors set-but-empty variables: VLMHUMOR_MAIL_KEYWORDS=""
// resolves to an explicitly empty list instead of staying unset.
func applyListEnv(dst *ResolvedValue, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok {
		*dst = ResolvedValue{Value: strings.TrimSpace(v), Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
