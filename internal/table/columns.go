package table

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrColumnsNotFound is returned when the header lacks a latitude or longitude column.
var ErrColumnsNotFound = errors.New("latitude and longitude columns must both be present")

var (
	latPattern = regexp.MustCompile(`(?i)lat(itude)?`)
	lonPattern = regexp.MustCompile(`(?i)lon(gitude)?`)
)

// ColumnIndex holds the resolved positions of the coordinate columns.
type ColumnIndex struct {
	Lat int
	Lon int
}

// ColumnsError names the coordinate columns missing from a header.
type ColumnsError struct {
	Missing []string
	Header  []string
}

// Error implements the error interface
func (e *ColumnsError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrColumnsNotFound, strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrColumnsNotFound
func (e *ColumnsError) Unwrap() error {
	return ErrColumnsNotFound
}

// ResolveColumns finds the latitude and longitude columns in header.
// Matching is case-insensitive and the lowest matching index wins.
func ResolveColumns(header []string) (ColumnIndex, error) {
	cols := ColumnIndex{
		Lat: findColumn(header, latPattern),
		Lon: findColumn(header, lonPattern),
	}

	var missing []string
	if cols.Lat == -1 {
		missing = append(missing, "latitude")
	}
	if cols.Lon == -1 {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return cols, &ColumnsError{Missing: missing, Header: header}
	}

	return cols, nil
}

func findColumn(header []string, re *regexp.Regexp) int {
	for i, h := range header {
		if re.MatchString(h) {
			return i
		}
	}
	return -1
}
