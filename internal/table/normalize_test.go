package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"abc"`, "abc"},
		{"abc", "abc"},
		{`"a"b"`, `a"b`},
		{`a"b`, `a"b`},
		{`"abc`, `"abc`},
		{`abc"`, `abc"`},
		{`""`, ""},
		{`"`, `"`},
		{"", ""},
		{`""abc""`, `"abc"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripQuotes(tt.in), "StripQuotes(%q)", tt.in)
	}
}

func TestStripQuotesIdempotentOnUnquoted(t *testing.T) {
	for _, s := range []string{"plain", "a b", "51.5"} {
		assert.Equal(t, s, StripQuotes(StripQuotes(s)))
	}
}
