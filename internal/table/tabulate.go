// Package table splits delimited text into rows and locates coordinate columns.
package table

import "strings"

// DefaultDelimiter separates columns when none is configured.
const DefaultDelimiter = "\t"

// Table is delimited text split into rows of fields.
// The first row is the header; data rows may be shorter or longer than it.
type Table [][]string

// Tabulate splits text into lines and each line into fields.
//
// Delimiters inside quoted fields are not escaped: a quoted value containing
// the delimiter is split like any other.
func Tabulate(text, delimiter string) Table {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	lines := strings.Split(text, "\n")

	// final newline does not start a row
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	t := make(Table, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		t = append(t, strings.Split(line, delimiter))
	}

	return t
}

// Header returns the first row or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Rows returns the data rows following the header.
func (t Table) Rows() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Field returns the value at index i, or an empty string for short rows.
func Field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
