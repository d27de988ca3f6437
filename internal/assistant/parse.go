package assistant

import (
	"encoding/json"
	"strings"
)

// ParseReply turns raw LLM output into items. The model is prompted to emit a
// JSON array of {type, ...} objects, usually wrapped in a markdown code
// fence; the fence is stripped before parsing. Any parse failure degrades to
// the whole raw text as a single MESSAGE, so a chat that renders prose beats
// a failed request.
func ParseReply(raw string) []Item {
	text := stripFences(raw)

	var rawItems []rawItem
	if err := json.Unmarshal([]byte(text), &rawItems); err != nil {
		return []Item{{Kind: ItemMessage, Text: raw}}
	}

	items := make([]Item, 0, len(rawItems))
	for _, r := range rawItems {
		item, err := r.toItem()
		if err != nil {
			// One bad element poisons the array: the model didn't follow the
			// contract, fall back to prose.
			return []Item{{Kind: ItemMessage, Text: raw}}
		}
		items = append(items, item)
	}
	return items
}

// stripFences removes a surrounding markdown code fence (``` or ```json).
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
