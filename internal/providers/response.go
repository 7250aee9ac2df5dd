package providers

import "strings"

// ExtractJSONObject returns the first balanced JSON object substring in s.
// Models wrap their JSON in prose or markdown fences often enough that
// parsing the raw response directly is a losing game; scanning for the first
// balanced object is the reliable path. Returns false when no complete
// object is present.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
