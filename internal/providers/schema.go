package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// pageSchema constrains the structured page payload the model is asked to
// return. Validation runs locally before the markdown field is trusted.
const pageSchema = `{
	"type": "object",
	"properties": {
		"page": {"type": "integer", "minimum": 1},
		"markdown": {"type": "string"}
	},
	"required": ["page", "markdown"],
	"additionalProperties": false
}`

var compiledPageSchema = jsonschema.MustCompileString("page_extraction.json", pageSchema)

// parseStructuredPage validates a structured extraction response and returns
// the markdown it carries. Code fences around the JSON are tolerated since
// models add them even when told not to.
func parseStructuredPage(raw string) (string, error) {
	raw = stripCodeFence(raw)

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", fmt.Errorf("structured page response is not JSON: %w", err)
	}
	if err := compiledPageSchema.Validate(payload); err != nil {
		return "", fmt.Errorf("structured page response failed validation: %w", err)
	}

	obj := payload.(map[string]any)
	markdown, _ := obj["markdown"].(string)
	return markdown, nil
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
