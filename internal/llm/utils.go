package llm

import "strings"

// ExtractJSONObject returns the substring between the first '{' and the last
// '}' of a model reply. Models sometimes wrap their JSON in prose or code
// fences; the brace window survives both.
func ExtractJSONObject(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return "", false
	}
	return reply[start : end+1], true
}
