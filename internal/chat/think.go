package chat

import "strings"

const (
	thinkStart = "<think>"
	thinkEnd   = "</think>"
)

// StripReasoning removes <think>...</think> spans from a model reply so
// chain-of-thought text never reaches storage or the client. Marker
// matching is ASCII case-insensitive. Each start marker pairs with the
// first end marker after it; a trailing start with no end survives
// verbatim. The result is whitespace-trimmed.
func StripReasoning(text string) string {
	var b strings.Builder
	rest := text
	for {
		start := indexFold(rest, thinkStart)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := indexFold(rest[start+len(thinkStart):], thinkEnd)
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+len(thinkStart)+end+len(thinkEnd):]
	}
	return strings.TrimSpace(b.String())
}

func indexFold(s, sub string) int {
	n := len(sub)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], sub) {
			return i
		}
	}
	return -1
}
