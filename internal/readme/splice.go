// Package readme regenerates a managed section of a Markdown document.
//
// The managed region starts after a heading line (by default "## Contracts")
// and runs to the next line starting with "##", or to the end of the
// document. Its contents are owned by the generator and replaced wholesale;
// everything outside it is copied byte for byte.
package readme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Origin-Byte/nft-protocol/internal/lines"
)

// Defaults used when Section fields are empty.
const (
	DefaultHeading = "## Contracts"
	DefaultLabel   = "Protocol contracts:"
)

var (
	// ErrNoSection means the document has no managed heading; it was left unchanged.
	ErrNoSection = errors.New("managed section heading not found")

	// ErrDuplicateSection means the managed heading occurs more than once.
	ErrDuplicateSection = errors.New("managed section heading appears more than once")
)

// Entry is one bullet of the generated list.
type Entry struct {
	Name string
	URL  string
}

// Section describes the managed region and what goes into it.
type Section struct {
	Heading string
	Label   string
	Entries []Entry
}

func (s Section) withDefaults() Section {
	if s.Heading == "" {
		s.Heading = DefaultHeading
	}
	if s.Label == "" {
		s.Label = DefaultLabel
	}
	return s
}

// SpliceResult describes a splice.
type SpliceResult struct {
	Found      bool // the heading was found and the region regenerated
	Removed    int  // lines dropped from the old region
	Duplicates int  // extra occurrences of the heading, left as plain text
	Trailing   bool // another "##" heading followed the region
}

// Err returns ErrNoSection or ErrDuplicateSection when the document did not
// have exactly one managed heading.
func (r SpliceResult) Err() error {
	switch {
	case !r.Found:
		return ErrNoSection
	case r.Duplicates > 0:
		return fmt.Errorf("%w (%d extra)", ErrDuplicateSection, r.Duplicates)
	default:
		return nil
	}
}

type regionState int

const (
	beforeRegion regionState = iota
	inRegion
	afterRegion
)

// Splice replaces the managed region of doc with the generated block:
//
//	## Contracts
//
//	Protocol contracts:
//	- [name](url)
//	...
//
// followed by one extra blank line when another "##" heading comes after it.
// Only the first heading counts. Without a heading doc is returned unchanged.
func Splice(doc []string, s Section) ([]string, SpliceResult) {
	s = s.withDefaults()

	out := make([]string, 0, len(doc)+len(s.Entries)+4)
	var res SpliceResult
	state := beforeRegion
	eol := "\n"

	for _, line := range doc {
		trimmed := strings.TrimSpace(line)

		switch state {
		case beforeRegion:
			if trimmed == s.Heading {
				eol = lines.EndingOr(line, eol)
				out = append(out, lines.Terminated(line, eol))
				out = append(out, block(s, eol)...)
				res.Found = true
				state = inRegion
				continue
			}
		case inRegion:
			if !strings.HasPrefix(trimmed, "##") {
				res.Removed++
				continue
			}
			out = append(out, eol)
			res.Trailing = true
			state = afterRegion
			fallthrough
		case afterRegion:
			if trimmed == s.Heading {
				res.Duplicates++
			}
		}

		out = append(out, line)
	}

	return out, res
}

// block renders the generated region body.
func block(s Section, eol string) []string {
	out := make([]string, 0, len(s.Entries)+3)
	out = append(out, eol, s.Label+eol)
	for _, e := range s.Entries {
		out = append(out, fmt.Sprintf("- [%s](%s)%s", e.Name, e.URL, eol))
	}
	return append(out, eol)
}
