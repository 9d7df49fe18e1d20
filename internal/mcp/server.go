// Package mcp provides a Model Context Protocol server for the humor corpus
// extractors.
//
// It exposes the note and email pipelines (parse, clean, filter) as MCP
// tools, and the effective extraction defaults as an MCP resource. Supports
// stdio transport for Claude Desktop, Cursor, and similar clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZB56/VLM-humor/internal/config"
	"github.com/ZB56/VLM-humor/internal/enex"
	"github.com/ZB56/VLM-humor/internal/filter"
	"github.com/ZB56/VLM-humor/internal/htmltext"
	"github.com/ZB56/VLM-humor/internal/mailparse"
	"github.com/ZB56/VLM-humor/internal/thread"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// defaultToolLimit caps how many records a tool call returns unless the
// caller asks for more.
const defaultToolLimit = 100

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Version string
	Config  config.ResolvedConfig // resolved settings, used as tool defaults
}

// NewServer creates a configured MCP server with all extraction tools and
// resources. Tool arguments override the resolved config; the config
// supplies defaults for anything the caller leaves out.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"VLM-humor",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	// Register tools
	registerExtractNotesTool(s, cfg.Config)
	registerExtractMailTool(s, cfg.Config)
	registerCleanHTMLTool(s)

	// Register resources
	registerDefaultsResource(s, cfg.Config)

	return s
}

// --- Tools ---

func registerExtractNotesTool(s *server.MCPServer, rc config.ResolvedConfig) {
	tool := mcp.NewTool("humor_extract_notes",
		mcp.WithDescription("Extract cleaned note records from an Evernote ENEX export. Accepts a single .enex file or a directory of them. Notes are converted to plain text, length-gated, and optionally filtered by tag or title keyword."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to an .enex file or a directory containing .enex files"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tag filter; a note matches when it carries any listed tag (case-insensitive). Empty = no tag filter."),
		),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated content keywords; a note matches when its content contains any of them (case-insensitive). Empty = no keyword filter."),
		),
		mcp.WithNumber("min_length",
			mcp.Description("Minimum cleaned content length in bytes (default: 50)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records returned (default: 100)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError("path is required"), nil
		}

		minLen := rc.MinContentLength.Int(enex.DefaultMinContentLength)
		if v, err := req.RequireFloat("min_length"); err == nil && int(v) > 0 {
			minLen = int(v)
		}

		limit := defaultToolLimit
		if v, err := req.RequireFloat("limit"); err == nil && int(v) > 0 {
			limit = int(v)
		}

		query := filter.NoteQuery{
			Tags:     rc.NoteTags.SplitList(),
			Keywords: rc.NoteKeywords.SplitList(),
		}
		if tags, err := req.RequireString("tags"); err == nil && tags != "" {
			query.Tags = splitArg(tags)
		}
		if kw, err := req.RequireString("keywords"); err == nil && kw != "" {
			query.Keywords = splitArg(kw)
		}

		parser := enex.NewParser(enex.Options{MinContentLength: minLen})
		sc, err := parser.Open(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("opening %s: %v", path, err)), nil
		}
		notes, err := filter.CollectNotes(sc, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extract error: %v", err)), nil
		}

		truncated := false
		if len(notes) > limit {
			notes = notes[:limit]
			truncated = true
		}

		payload := map[string]interface{}{
			"count":     len(notes),
			"notes":     notes,
			"truncated": truncated,
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerExtractMailTool(s *server.MCPServer, rc config.ResolvedConfig) {
	tool := mcp.NewTool("humor_extract_mail",
		mcp.WithDescription("Extract cleaned email records from an mbox container, a single message file, or a directory of message files. Bodies are decoded, stripped of quotes and signatures, and length-gated; records are filtered by sender domain and subject vocabulary."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to an .mbox file, a message file, or a directory of message files"),
		),
		mcp.WithString("domains",
			mcp.Description("Comma-separated sender domains; a message matches when its sender's domain equals one exactly. Empty = no domain filter."),
		),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated subject keywords (case-insensitive). Unset = the built-in fantasy-football vocabulary."),
		),
		mcp.WithBoolean("all_subjects",
			mcp.Description("Keep every subject instead of applying the keyword vocabulary (default: false)"),
		),
		mcp.WithNumber("min_length",
			mcp.Description("Minimum cleaned body length in bytes (default: 20)"),
		),
		mcp.WithBoolean("keep_quotes",
			mcp.Description("Keep quoted reply lines in bodies (default: false)"),
		),
		mcp.WithBoolean("keep_signatures",
			mcp.Description("Keep signature blocks in bodies (default: false)"),
		),
		mcp.WithBoolean("group_threads",
			mcp.Description("Group records into conversation threads keyed by thread id or normalized subject (default: false)"),
		),
		mcp.WithString("pattern",
			mcp.Description("Glob for message files when path is a directory (default: *.eml)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records returned (default: 100)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError("path is required"), nil
		}

		minLen := rc.MinBodyLength.Int(mailparse.DefaultMinBodyLength)
		if v, err := req.RequireFloat("min_length"); err == nil && int(v) > 0 {
			minLen = int(v)
		}

		limit := defaultToolLimit
		if v, err := req.RequireFloat("limit"); err == nil && int(v) > 0 {
			limit = int(v)
		}

		keepQuotes := !rc.StripQuotes.Bool(true)
		if v, err := req.RequireString("keep_quotes"); err == nil {
			keepQuotes = v == "true"
		}
		keepSignatures := !rc.StripSignatures.Bool(true)
		if v, err := req.RequireString("keep_signatures"); err == nil {
			keepSignatures = v == "true"
		}
		group := rc.GroupThreads.Bool(false)
		if v, err := req.RequireString("group_threads"); err == nil {
			group = v == "true"
		}

		pattern := effectivePattern(rc)
		if v, err := req.RequireString("pattern"); err == nil && v != "" {
			pattern = v
		}

		query := filter.MailQuery{
			Domains:  rc.MailDomains.SplitList(),
			Keywords: rc.MailKeywords.SplitList(),
		}
		if d, err := req.RequireString("domains"); err == nil && d != "" {
			query.Domains = splitArg(d)
		}
		if kw, err := req.RequireString("keywords"); err == nil && kw != "" {
			query.Keywords = splitArg(kw)
		}
		if v, err := req.RequireString("all_subjects"); err == nil && v == "true" {
			query.Keywords = []string{}
		}

		parser := mailparse.NewParser(mailparse.Options{
			MinBodyLength:  minLen,
			KeepQuotes:     keepQuotes,
			KeepSignatures: keepSignatures,
		})
		sc, err := parser.Open(path, pattern)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("opening %s: %v", path, err)), nil
		}
		mails, err := filter.CollectMail(sc, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extract error: %v", err)), nil
		}

		truncated := false
		if len(mails) > limit {
			mails = mails[:limit]
			truncated = true
		}

		payload := map[string]interface{}{
			"count":     len(mails),
			"truncated": truncated,
		}
		if group {
			payload["threads"] = thread.Group(mails)
		} else {
			payload["emails"] = mails
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerCleanHTMLTool(s *server.MCPServer) {
	tool := mcp.NewTool("humor_clean_html",
		mcp.WithDescription("Convert an HTML or ENML fragment to plain text: script, style, and head content dropped, block boundaries kept as newlines, whitespace normalized."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The markup to clean"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src, err := req.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}
		return mcp.NewToolResultText(htmltext.Extract(src)), nil
	})
}

// --- Helpers ---

func effectivePattern(rc config.ResolvedConfig) string {
	if v := rc.DirPattern.Value; v != "" {
		return v
	}
	return mailparse.DefaultDirPattern
}

func splitArg(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
