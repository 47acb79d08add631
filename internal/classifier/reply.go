package classifier

import (
	"encoding/json"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/validation"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// maxExcerptRunes bounds the reply excerpt echoed back on parse failure.
const maxExcerptRunes = 200

// ParseReply decodes a completion reply into workflow ids. The reply must be a
// JSON array of strings, optionally wrapped in a markdown code fence.
func ParseReply(v validation.Validator, text string) ([]string, error) {
	body := stripFence(text)
	var value any
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return nil, parseFailure(text, "reply is not valid JSON", err)
	}
	if err := v.ValidateValue(value, []byte(validation.WorkflowIDListSchema)); err != nil {
		return nil, parseFailure(text, "reply is not a JSON array of workflow ids", err)
	}
	items, _ := value.([]any)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			ids = append(ids, strings.TrimSpace(s))
		}
	}
	return ids, nil
}

func parseFailure(text, msg string, cause error) *schema.PluginError {
	return schema.NewError(schema.ErrCodeClassifierParse, msg).
		WithCause(cause).
		WithDetails(map[string]any{"excerpt": Excerpt(text)})
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyz")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Excerpt returns text truncated to maxExcerptRunes runes.
func Excerpt(text string) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= maxExcerptRunes {
		return text
	}
	return string(r[:maxExcerptRunes]) + "..."
}
