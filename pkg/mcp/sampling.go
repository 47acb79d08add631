package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/classifier"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// SupportsCompletion reports whether the client behind ctx accepts
// sampling/createMessage requests.
func (s *Server) SupportsCompletion(ctx context.Context) bool {
	if s.mode != ModeDynamic {
		return false
	}
	if server.InProcessSamplingHandlerFromContext(ctx) != nil {
		return true
	}
	session := server.ClientSessionFromContext(ctx)
	if session == nil {
		return false
	}
	if _, ok := session.(server.SessionWithSampling); !ok {
		return false
	}
	info, ok := session.(server.SessionWithClientInfo)
	if !ok {
		return false
	}
	return info.GetClientCapabilities().Sampling != nil
}

// Complete sends req to the client as a single user message.
func (s *Server) Complete(ctx context.Context, req classifier.CompletionRequest) (*classifier.CompletionReply, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = classifier.DefaultMaxTokens
	}
	result, err := s.mcpServer.RequestSampling(ctx, mcp.CreateMessageRequest{
		CreateMessageParams: mcp.CreateMessageParams{
			Messages: []mcp.SamplingMessage{{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(req.Prompt),
			}},
			MaxTokens: maxTokens,
		},
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, schema.NewError(schema.ErrCodeCompletionFailed, "client returned no completion")
	}
	return &classifier.CompletionReply{Blocks: textBlocks(result.Content)}, nil
}

// textBlocks extracts the text parts of sampling content. Clients may send a
// single content object or an array of them; non-text parts are skipped.
func textBlocks(content any) []string {
	switch c := content.(type) {
	case nil:
		return nil
	case string:
		return []string{c}
	case mcp.TextContent:
		return []string{c.Text}
	case *mcp.TextContent:
		if c == nil {
			return nil
		}
		return []string{c.Text}
	case map[string]any:
		if t, _ := c["type"].(string); t != "" && t != "text" {
			return nil
		}
		if text, ok := c["text"].(string); ok {
			return []string{text}
		}
		return nil
	case []any:
		var blocks []string
		for _, item := range c {
			blocks = append(blocks, textBlocks(item)...)
		}
		return blocks
	case []mcp.Content:
		var blocks []string
		for _, item := range c {
			blocks = append(blocks, textBlocks(item)...)
		}
		return blocks
	default:
		return nil
	}
}
