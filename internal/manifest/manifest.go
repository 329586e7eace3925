// Package manifest edits and reads Move package manifests (Move.toml) line by
// line.
//
// It is not a TOML parser. It recognises three shapes of line:
//
//	[addresses]                 table header (trimmed line is "[<name>]")
//	nft_protocol = "0xabc..."   single-line key/value pair
//	# anything                  full-line comment
//
// and leaves every other line alone. This is enough for the manifests the
// Sui toolchain writes, and keeps untouched lines byte-identical on rewrite.
package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAddressesTable means the manifest has no addresses table to reset.
	ErrNoAddressesTable = errors.New("manifest has no addresses table")

	// ErrNoAddressEntry means the addresses table exists but holds no key/value line.
	ErrNoAddressEntry = errors.New("addresses table has no entry")

	// ErrAlreadyReset means the first address entry already holds the placeholder.
	ErrAlreadyReset = errors.New("address entry already reset")

	// ErrMalformedLine means a line that should be a key/value pair has no '='.
	ErrMalformedLine = errors.New("malformed key/value line")
)

// tableHeader returns "[name]" for a table name.
func tableHeader(name string) string {
	return "[" + name + "]"
}

// isTableStart reports whether trimmed opens a table (or array of tables).
func isTableStart(trimmed string) bool {
	return strings.HasPrefix(trimmed, "[")
}

// isComment reports whether trimmed is a full-line comment.
func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

// isKeyValue reports whether line looks like a key/value pair.
func isKeyValue(line string) bool {
	trimmed := strings.TrimSpace(line)
	return !isComment(trimmed) && strings.Contains(line, "=")
}

// keyOf returns the trimmed text before the first '='.
func keyOf(line string) string {
	key, _, _ := strings.Cut(line, "=")
	return strings.TrimSpace(key)
}

// valueOf returns the text after the first '=' with surrounding whitespace
// and quote characters removed.
func valueOf(line string) (string, error) {
	_, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", ErrMalformedLine
	}
	return strings.Trim(strings.TrimSpace(value), `"'`), nil
}

// lineError attaches a 1-based line number to err.
func lineError(idx int, err error) error {
	return fmt.Errorf("line %d: %w", idx+1, err)
}
