package llm

import "strings"

// ExtractJSONArray pulls the JSON array out of a model answer. Models wrap the payload
// in ```json fences or add a sentence before and after it even when told not to.
// Only a top-level array is cut out; an answer whose outer value is an object is returned
// as that object so the caller rejects it. Text with neither is returned trimmed.
func ExtractJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if rest, ok := strings.CutPrefix(text, "```"); ok {
		// Fence language tag, if any, sits on the first line
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "[{") {
			rest = rest[nl+1:]
		}
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return text
	}
	closer := byte(']')
	if text[start] == '{' {
		closer = '}'
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return text[start:]
	}
	return text[start : end+1]
}
