// Package jsvar extracts JSON-like JavaScript object literals from raw HTML.
// Playback pages embed their player configuration as `var name = {...}`;
// the literal is isolated with a balanced-bracket scan (string- and
// escape-aware) and then parsed as JSON, tolerating JS comments.
//
// All functions report failure with a comma-ok second return and never
// propagate parse errors: callers are expected to try the next fallback.
package jsvar

import (
	"encoding/json"
	"regexp"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`//.*`)
)

// FindBalancedEnd scans text from start, which must point at a `{` or `[`,
// and returns the index of the matching closing bracket. Brackets inside
// quoted strings are ignored; a backslash escapes exactly the next
// character. Returns ok=false when start is not a bracket or the text ends
// before the literal closes.
func FindBalancedEnd(text string, start int) (int, bool) {
	if start < 0 || start >= len(text) {
		return 0, false
	}
	open := text[start]
	if open != '{' && open != '[' {
		return 0, false
	}

	depth := 1
	inString := false
	var quote byte
	escaped := false

	for i := start + 1; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\':
			escaped = true
		case c == '"' || c == '\'':
			if !inString {
				inString = true
				quote = c
			} else if c == quote {
				inString = false
			}
		case inString:
			// Brackets inside strings don't count.
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// varAssignRe matches `var <name> = ` with tolerant whitespace. The variable
// name is injected with QuoteMeta, so names from untrusted pages are safe.
func varAssignRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`var\s+` + regexp.QuoteMeta(name) + `\s*=\s*`)
}

// Extract locates `var name = <literal>` in html and parses the literal as
// JSON. On a first parse failure the literal is retried once with JS block
// and line comments stripped. Returns ok=false when the variable is absent,
// the literal is not bracketed, or both parse attempts fail.
func Extract(html, name string) (map[string]any, bool) {
	loc := varAssignRe(name).FindStringIndex(html)
	if loc == nil {
		return nil, false
	}

	end, ok := FindBalancedEnd(html, loc[1])
	if !ok {
		return nil, false
	}

	literal := html[loc[1] : end+1]

	var m map[string]any
	if err := json.Unmarshal([]byte(literal), &m); err == nil {
		return m, true
	}

	cleaned := blockCommentRe.ReplaceAllString(literal, "")
	cleaned = lineCommentRe.ReplaceAllString(cleaned, "")
	if err := json.Unmarshal([]byte(cleaned), &m); err == nil {
		return m, true
	}

	return nil, false
}
