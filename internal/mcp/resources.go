package mcp

import (
	"context"
	"encoding/json"

	"github.com/ZB56/VLM-humor/internal/config"
	"github.com/ZB56/VLM-humor/internal/enex"
	"github.com/ZB56/VLM-humor/internal/filter"
	"github.com/ZB56/VLM-humor/internal/mailparse"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerDefaultsResource(s *server.MCPServer, rc config.ResolvedConfig) {
	resource := mcp.NewResource(
		"humor://defaults",
		"Extraction Defaults",
		mcp.WithResourceDescription("Effective extraction settings: length gates, subject vocabulary, signature delimiters."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		keywords := rc.MailKeywords.SplitList()
		if keywords == nil {
			keywords = filter.DefaultSubjectKeywords
		}

		payload := map[string]interface{}{
			"min_content_length":   rc.MinContentLength.Int(enex.DefaultMinContentLength),
			"min_body_length":      rc.MinBodyLength.Int(mailparse.DefaultMinBodyLength),
			"strip_quotes":         rc.StripQuotes.Bool(true),
			"strip_signatures":     rc.StripSignatures.Bool(true),
			"dir_pattern":          effectivePattern(rc),
			"subject_keywords":     keywords,
			"signature_delimiters": mailparse.SignatureDelimiters(),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
