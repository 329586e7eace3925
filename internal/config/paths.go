package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatches means a manifest glob matched no files.
var ErrNoMatches = errors.New("pattern matched no files")

// ExpandManifests resolves manifest entries against root, keeping their order.
//
// Plain paths are joined to root and kept even if the file does not exist, so
// that a missing manifest still fails the run with an I/O error. Entries with
// glob metacharacters ("**" included) are expanded with doublestar and their
// matches sorted. A path that appears twice is only kept the first time.
func ExpandManifests(root string, entries []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		path := Resolve(root, entry)

		if !isPattern(entry) {
			add(path)
			continue
		}

		matches, err := doublestar.FilepathGlob(path)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", entry, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("expand %q: %w", entry, ErrNoMatches)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// Resolve joins a relative path to root. Absolute paths are returned cleaned.
func Resolve(root, path string) string {
	p := filepath.FromSlash(path)
	if filepath.IsAbs(p) || root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func isPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}
