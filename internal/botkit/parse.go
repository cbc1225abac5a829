package botkit

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Fold returns s trimmed and case-folded, for comparing user input with
// command names, aliases and language names.
func Fold(s string) string {
	// Casers are stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

// ParseCommand splits "<prefix><command> <args>" into the folded command name
// and the trimmed argument text.
func ParseCommand(prefix, content string) (cmd, args string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}

	rest := content[len(prefix):]
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		cmd, args = rest[:i], strings.TrimSpace(rest[i:])
	} else {
		cmd = rest
	}

	if cmd == "" {
		return "", "", false
	}

	return Fold(cmd), args, true
}
