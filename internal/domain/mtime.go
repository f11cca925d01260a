package domain

import (
	"fmt"
	"net/http"
	"time"
)

// Catalog listings stamp mtimes as RFC 1123 text, e.g.
// "Tue, 14 May 2024 18:20:06 GMT". Nothing outside this file should depend
// on that layout.
const mtimeParseLayout = time.RFC1123

// ParseMtime parses a catalog mtime into a UTC instant.
func ParseMtime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(mtimeParseLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid mtime %q: %w", ErrDecode, s, err)
	}
	return t.UTC(), nil
}

// FormatMtime renders t in the catalog's mtime layout. Sub-second precision
// is dropped.
func FormatMtime(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
