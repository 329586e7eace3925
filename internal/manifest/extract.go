package manifest

import "strings"

const (
	packageHeader  = "[package]"
	nameKey        = "name"
	publishedAtKey = "published-at"
)

// Contract is a published package: its name and the object ID it was
// published at.
type Contract struct {
	Package     string `json:"package"`
	PublishedAt string `json:"published_at"`
}

// ExtractContracts returns one Contract per [package] table that sets name
// and then published-at before the table ends. Only the first published-at of
// a table counts. A table that never sets published-at yields nothing.
//
// A name or published-at line without '=' returns ErrMalformedLine wrapped
// with its line number.
func ExtractContracts(in []string) ([]Contract, error) {
	var (
		out       []Contract
		inPackage bool
		name      string
		haveName  bool
	)

	for i, line := range in {
		trimmed := strings.TrimSpace(line)

		if trimmed == packageHeader {
			inPackage = true
			name, haveName = "", false
			continue
		}
		if !inPackage {
			continue
		}
		if isTableStart(trimmed) {
			inPackage = false
			continue
		}
		if isComment(trimmed) {
			continue
		}

		switch {
		case strings.Contains(line, nameKey):
			v, err := valueOf(line)
			if err != nil {
				return nil, lineError(i, err)
			}
			name, haveName = v, true
		case strings.Contains(line, publishedAtKey):
			v, err := valueOf(line)
			if err != nil {
				return nil, lineError(i, err)
			}
			if haveName {
				out = append(out, Contract{Package: name, PublishedAt: v})
			}
			inPackage = false
		}
	}

	return out, nil
}
