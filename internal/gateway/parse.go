package gateway

import (
	"encoding/json"
	"strings"
)

// ParsePayload extracts a structured payload from raw model output.
//
// Models wrap JSON in markdown fences, prepend prose, or return plain
// text. The extraction cascade tries the whole text, then the fenced
// block, then the first balanced JSON object. Nothing here errors: text
// with no extractable JSON becomes an unparsed payload carrying Raw, so
// a chatty model degrades to zero findings instead of a pipeline failure.
func ParsePayload(raw string) *Payload {
	for _, candidate := range jsonCandidates(raw) {
		var p Payload
		if json.Unmarshal([]byte(candidate), &p) == nil {
			p.Raw = raw
			p.Parsed = true
			return &p
		}
	}
	return &Payload{Raw: raw}
}

// jsonCandidates yields substrings of raw worth attempting to parse, in
// decreasing order of confidence.
func jsonCandidates(raw string) []string {
	var out []string

	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		out = append(out, trimmed)
	}

	if fenced := stripFences(trimmed); fenced != "" && fenced != trimmed {
		out = append(out, fenced)
	}

	if obj := firstJSONObject(trimmed); obj != "" {
		out = append(out, obj)
	}
	return out
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return ""
	}
	body := strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// firstJSONObject scans for the first balanced top-level JSON object,
// honoring string literals and escapes.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
