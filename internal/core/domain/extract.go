package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyCompletion means the model's completion contained no SQL after
// stripping fences and whitespace.
var ErrEmptyCompletion = errors.New("no SQL could be extracted from model completion")

var thinkBlockRe = regexp.MustCompile(`(?is)<think>.*?</think>`)

// ExtractSQL strips Markdown code fences (with or without a language tag)
// and surrounding blank lines from a completion, returning the remainder as
// the SQL statement. An empty remainder is a failure, not a retry trigger.
func ExtractSQL(completion string) (string, error) {
	s := stripFences(completion)
	if s == "" {
		return "", ErrEmptyCompletion
	}
	return s, nil
}

// ExtractCondition post-processes a completion that should contain a bare
// WHERE clause: reasoning blocks, a leading WHERE keyword, fences, and a
// trailing semicolon are all removed, and only the last non-empty line is
// kept. An empty result means no condition.
func ExtractCondition(completion string) string {
	s := thinkBlockRe.ReplaceAllString(completion, "")
	s = stripFences(s)

	lines := make([]string, 0, 4)
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	s = lines[len(lines)-1]

	if len(s) >= 6 && strings.EqualFold(s[:6], "where ") {
		s = s[6:]
	}
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "sql" on the fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
