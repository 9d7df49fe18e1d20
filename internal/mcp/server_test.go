package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZB56/VLM-humor/internal/config"
	"github.com/ZB56/VLM-humor/internal/corpus"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const testArchive = `<?xml version="1.0" encoding="UTF-8"?>
<en-export export-date="20240101T000000Z" application="Evernote">
  <note>
    <title>Draft Night Chaos</title>
    <content><![CDATA[<en-note><div>Somebody drafted a kicker in round two and the room has not recovered since then.</div></en-note>]]></content>
    <created>20230901T120000Z</created>
    <tag>funny</tag>
  </note>
  <note>
    <title>Too Short</title>
    <content><![CDATA[<en-note>nope</en-note>]]></content>
  </note>
</en-export>
`

const waiverEML = "From: Commish Dave <dave@leaguehq.com>\r\n" +
	"To: league@leaguehq.com\r\n" +
	"Subject: Fantasy Waiver Wire\r\n" +
	"\r\n" +
	"Pick up the new RB before Thursday since waivers clear at 3am.\r\n"

const lunchEML = "From: Sam <sam@leaguehq.com>\r\n" +
	"To: league@leaguehq.com\r\n" +
	"Subject: Lunch plans\r\n" +
	"\r\n" +
	"Thinking tacos at noon if anyone wants to join me there.\r\n"

// helper: write a single-archive notes fixture
func writeNotesArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.enex")
	if err := os.WriteFile(path, []byte(testArchive), 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// helper: write a directory with two message files
func writeMailDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a-waiver.eml"), []byte(waiverEML), 0o600); err != nil {
		t.Fatalf("write eml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b-lunch.eml"), []byte(lunchEML), 0o600); err != nil {
		t.Fatalf("write eml: %v", err)
	}
	return dir
}

func TestNewServer(t *testing.T) {
	srv := NewServer(ServerConfig{Version: "test"})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
}

// callTool is a helper that invokes an MCP tool through the JSON-RPC layer.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}

	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{
		IsError: resp.Result.IsError,
	}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}

	return callResult
}

// readResource is a helper that reads an MCP resource through the JSON-RPC layer.
func readResource(t *testing.T, srv *server.MCPServer, uri string) string {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "resources/read",
		"params": map[string]interface{}{
			"uri": uri,
		},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Contents []struct {
				URI      string `json:"uri"`
				MIMEType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}

	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Result.Contents) == 0 {
		t.Fatal("no contents in resource response")
	}
	return resp.Result.Contents[0].Text
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found")
	return ""
}

func TestExtractNotesTool(t *testing.T) {
	path := writeNotesArchive(t)
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_notes", map[string]interface{}{"path": path})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count     int           `json:"count"`
		Truncated bool          `json:"truncated"`
		Notes     []corpus.Note `json:"notes"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 1 || len(out.Notes) != 1 {
		t.Fatalf("expected 1 note, got count=%d len=%d", out.Count, len(out.Notes))
	}
	if out.Notes[0].Title != "Draft Night Chaos" {
		t.Fatalf("unexpected title: %q", out.Notes[0].Title)
	}
	if out.Truncated {
		t.Fatal("unexpected truncation")
	}
}

func TestExtractNotesTool_TagFilter(t *testing.T) {
	path := writeNotesArchive(t)
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_notes", map[string]interface{}{
		"path": path,
		"tags": "serious",
	})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 0 {
		t.Fatalf("expected 0 notes for unmatched tag, got %d", out.Count)
	}
}

func TestExtractNotesTool_MinLengthArg(t *testing.T) {
	path := writeNotesArchive(t)
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_notes", map[string]interface{}{
		"path":       path,
		"min_length": 4,
	})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 notes at min_length 4, got %d", out.Count)
	}
}

func TestExtractNotesTool_MissingPath(t *testing.T) {
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_notes", map[string]interface{}{})
	if !result.IsError {
		t.Fatal("expected error result without path")
	}
}

func TestExtractMailTool_DefaultVocabulary(t *testing.T) {
	dir := writeMailDir(t)
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_mail", map[string]interface{}{"path": dir})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count  int           `json:"count"`
		Emails []corpus.Mail `json:"emails"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 1 || len(out.Emails) != 1 {
		t.Fatalf("expected 1 email under default vocabulary, got count=%d len=%d", out.Count, len(out.Emails))
	}
	if out.Emails[0].Subject != "Fantasy Waiver Wire" {
		t.Fatalf("unexpected subject: %q", out.Emails[0].Subject)
	}
}

func TestExtractMailTool_AllSubjects(t *testing.T) {
	dir := writeMailDir(t)
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_mail", map[string]interface{}{
		"path":         dir,
		"all_subjects": "true",
	})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 emails with all_subjects, got %d", out.Count)
	}
}

func TestExtractMailTool_GroupThreads(t *testing.T) {
	dir := writeMailDir(t)
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_extract_mail", map[string]interface{}{
		"path":          dir,
		"group_threads": "true",
	})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count   int                      `json:"count"`
		Threads map[string][]corpus.Mail `json:"threads"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 email in threads, got %d", out.Count)
	}
	if got := len(out.Threads["Fantasy Waiver Wire"]); got != 1 {
		t.Fatalf("expected thread keyed by subject, got %v", out.Threads)
	}
}

func TestExtractMailTool_ConfigDefaults(t *testing.T) {
	dir := writeMailDir(t)
	srv := NewServer(ServerConfig{
		Config: config.ResolvedConfig{
			MailKeywords: config.ResolvedValue{Source: config.SourceCLI, From: "--all-subjects"},
		},
	})

	result := callTool(t, srv, "humor_extract_mail", map[string]interface{}{"path": dir})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected resolved config to lift the vocabulary, got %d", out.Count)
	}
}

func TestCleanHTMLTool(t *testing.T) {
	srv := NewServer(ServerConfig{})

	result := callTool(t, srv, "humor_clean_html", map[string]interface{}{
		"html": "<div>Funny story</div><div>About a horse.</div>",
	})
	if result.IsError {
		t.Fatalf("tool returned error: %s", getTextContent(t, result))
	}
	if got := getTextContent(t, result); got != "Funny story\nAbout a horse." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestDefaultsResource(t *testing.T) {
	srv := NewServer(ServerConfig{})

	text := readResource(t, srv, "humor://defaults")

	var out struct {
		MinContentLength    int      `json:"min_content_length"`
		MinBodyLength       int      `json:"min_body_length"`
		SubjectKeywords     []string `json:"subject_keywords"`
		SignatureDelimiters []string `json:"signature_delimiters"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("unmarshal resource: %v", err)
	}
	if out.MinContentLength != 50 || out.MinBodyLength != 20 {
		t.Fatalf("unexpected length gates: %d %d", out.MinContentLength, out.MinBodyLength)
	}
	if len(out.SubjectKeywords) == 0 || !strings.Contains(strings.Join(out.SubjectKeywords, ","), "waiver") {
		t.Fatalf("expected default vocabulary, got %v", out.SubjectKeywords)
	}
	if len(out.SignatureDelimiters) == 0 {
		t.Fatalf("expected signature delimiters, got %v", out.SignatureDelimiters)
	}
}
