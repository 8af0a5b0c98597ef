package table

// StripQuotes removes one pair of double quotes when they bracket the whole value.
// Interior quotes are kept; anything not both starting and ending with a quote
// is returned unchanged.
func StripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
