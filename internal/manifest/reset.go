package manifest

import (
	"strings"

	"github.com/Origin-Byte/nft-protocol/internal/lines"
)

// Defaults used when ResetOptions fields are empty.
const (
	DefaultAddressTable = "addresses"
	DefaultPlaceholder  = "0x"
)

// ResetOptions controls which table is reset and what the entry becomes.
type ResetOptions struct {
	Table       string // table name without brackets, default "addresses"
	Placeholder string // replacement value, default "0x"
}

func (o ResetOptions) withDefaults() ResetOptions {
	if o.Table == "" {
		o.Table = DefaultAddressTable
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	return o
}

// ResetOutcome classifies what a reset pass did to a manifest.
type ResetOutcome int

const (
	// OutcomeReset: an entry was commented out and a placeholder inserted.
	OutcomeReset ResetOutcome = iota
	// OutcomeNoTable: the manifest has no addresses table; nothing changed.
	OutcomeNoTable
	// OutcomeNoEntry: the table exists but holds no key/value line; nothing changed.
	OutcomeNoEntry
)

func (o ResetOutcome) String() string {
	switch o {
	case OutcomeReset:
		return "reset"
	case OutcomeNoTable:
		return "no_table"
	case OutcomeNoEntry:
		return "no_entry"
	default:
		return "unknown"
	}
}

// ResetResult describes a reset pass.
type ResetResult struct {
	Outcome  ResetOutcome
	Key      string // key of the reset entry
	Previous string // value the entry held before the reset
	Line     int    // 1-based line number of the original entry in the input
}

// Err maps a non-reset outcome to its sentinel error, or returns nil.
func (r ResetResult) Err() error {
	switch r.Outcome {
	case OutcomeNoTable:
		return ErrNoAddressesTable
	case OutcomeNoEntry:
		return ErrNoAddressEntry
	default:
		return nil
	}
}

// scanState is the position of the reset scan relative to the target table.
type scanState int

const (
	stateOutside scanState = iota // not inside the target table
	stateInTable                  // inside the target table, nothing rewritten yet
	stateDone                     // an entry was rewritten; the rest is copied
)

// ResetAddresses rewrites the first key/value line of the addresses table:
// the original line is kept as a "#" comment and followed by
// `<key> = "<placeholder>"`. All other lines are returned unchanged and in
// order.
//
// The pass is not idempotent. On a manifest that was already reset the
// commented line is skipped but the placeholder line is a key/value pair, so
// it gets commented out and a second placeholder is inserted. Use
// InspectAddresses to detect that case first.
func ResetAddresses(in []string, opts ResetOptions) ([]string, ResetResult) {
	opts = opts.withDefaults()
	header := tableHeader(opts.Table)

	out := make([]string, 0, len(in)+1)
	res := ResetResult{Outcome: OutcomeNoTable}
	state := stateOutside

	for i, line := range in {
		trimmed := strings.TrimSpace(line)

		switch state {
		case stateOutside:
			if trimmed == header {
				state = stateInTable
				res.Outcome = OutcomeNoEntry
			}
		case stateInTable:
			if isTableStart(trimmed) {
				if trimmed != header {
					state = stateOutside
				}
				break
			}
			if isKeyValue(line) {
				key := keyOf(line)
				prev, _ := valueOf(line)
				eol := lines.EndingOr(line, "\n")
				out = append(out,
					"#"+lines.Terminated(line, eol),
					key+` = "`+opts.Placeholder+`"`+eol,
				)
				res = ResetResult{Outcome: OutcomeReset, Key: key, Previous: prev, Line: i + 1}
				state = stateDone
				continue
			}
		}

		out = append(out, line)
	}

	return out, res
}

// AddressState reports the first entry of the addresses table without
// changing anything.
type AddressState struct {
	Found       bool   // the table has a key/value line
	Key         string // its key
	Value       string // its value
	Line        int    // 1-based line number
	Placeholder bool   // the value equals the placeholder
	TableFound  bool   // the table header exists
}

// InspectAddresses finds the entry ResetAddresses would rewrite.
func InspectAddresses(in []string, opts ResetOptions) AddressState {
	opts = opts.withDefaults()
	header := tableHeader(opts.Table)

	var st AddressState
	inTable := false
	for i, line := range in {
		trimmed := strings.TrimSpace(line)
		if trimmed == header {
			inTable = true
			st.TableFound = true
			continue
		}
		if !inTable {
			continue
		}
		if isTableStart(trimmed) {
			inTable = false
			continue
		}
		if isKeyValue(line) {
			value, _ := valueOf(line)
			return AddressState{
				Found:       true,
				Key:         keyOf(line),
				Value:       value,
				Line:        i + 1,
				Placeholder: value == opts.Placeholder,
				TableFound:  true,
			}
		}
	}
	return st
}
