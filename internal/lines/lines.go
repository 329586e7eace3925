// Package lines splits text into lines that keep their terminators, so a
// file can be rewritten line by line and joined back without disturbing the
// bytes of lines that were not touched.
package lines

import "strings"

// Split returns the lines of s, each including its trailing "\n" (or "\r\n").
// The final line has no terminator when s does not end with a newline.
// Split("") returns nil.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	out := strings.SplitAfter(s, "\n")
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Join concatenates lines produced by Split (or edited copies of them).
func Join(ls []string) string {
	return strings.Join(ls, "")
}

// Ending returns the terminator of line: "\r\n", "\n", or "" for a final
// unterminated line.
func Ending(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}

// Terminated returns line with a terminator, adding def when it has none.
func Terminated(line, def string) string {
	if Ending(line) != "" {
		return line
	}
	return line + def
}

// EndingOr returns the terminator of line, or def when the line has none.
func EndingOr(line, def string) string {
	if e := Ending(line); e != "" {
		return e
	}
	return def
}
