package table

import "strings"

var delimiterNames = map[string]string{
	"tab":       "\t",
	`\t`:        "\t",
	"comma":     ",",
	"semicolon": ";",
	"pipe":      "|",
	"space":     " ",
}

// DelimiterFor resolves a delimiter given by name ("tab", "comma", ...) or
// the literal escape `\t`. Any other value is used as is; empty selects
// DefaultDelimiter.
func DelimiterFor(s string) string {
	if s == "" {
		return DefaultDelimiter
	}
	if d, ok := delimiterNames[strings.ToLower(s)]; ok {
		return d
	}
	return s
}
