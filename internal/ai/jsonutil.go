package ai

import (
	"encoding/json"
	"strings"
)

// CleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func CleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

// RepairJSON parses s as JSON, recovering the common case of an object that
// lost its outer braces or was quoted once more than needed. It returns the
// decoded value on success and s unchanged when nothing parses.
func RepairJSON(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}

	// Retry once with braces restored. The quote-stripped form is only tried
	// when the text as given does not parse, since `"a": "b"` is also quoted.
	t := strings.TrimSpace(s)
	candidates := []string{t}
	if len(t) >= 2 {
		first, last := t[0], t[len(t)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			candidates = append(candidates, strings.TrimSpace(t[1:len(t)-1]))
		}
	}
	for _, c := range candidates {
		if !strings.HasPrefix(c, "{") || !strings.HasSuffix(c, "}") {
			c = "{" + c + "}"
		}
		if err := json.Unmarshal([]byte(c), &v); err == nil {
			return v
		}
	}
	return s
}

// DecodeObject decodes model text into a generic mapping. ok is false when the
// text is not a JSON object.
func DecodeObject(text string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(CleanJSONString(text)), &v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// DecodeInto strips code fences and decodes model text into dst.
func DecodeInto(text string, dst any) error {
	return json.Unmarshal([]byte(CleanJSONString(text)), dst)
}
