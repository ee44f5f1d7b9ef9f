package database

import (
	"strings"
)

// SplitSeedStatements breaks a SQL seed dump into executable statements.
// Line comments are stripped first, then the text is split on semicolons
// that fall outside single-quoted string literals. Blank fragments are
// dropped; deciding what to do with a statement that fails to execute is
// the caller's job.
func SplitSeedStatements(dump string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for _, line := range strings.Split(dump, "\n") {
		line = stripLineComment(line)
		for i := 0; i < len(line); i++ {
			ch := line[i]
			switch {
			case ch == '\'':
				// '' inside a literal is an escaped quote, not a terminator
				if inString && i+1 < len(line) && line[i+1] == '\'' {
					current.WriteByte(ch)
					current.WriteByte(line[i+1])
					i++
					continue
				}
				inString = !inString
				current.WriteByte(ch)
			case ch == ';' && !inString:
				if stmt := strings.TrimSpace(current.String()); stmt != "" {
					statements = append(statements, stmt)
				}
				current.Reset()
			default:
				current.WriteByte(ch)
			}
		}
		current.WriteByte('\n')
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}

// stripLineComment removes a -- comment unless the marker sits inside a
// single-quoted literal
func stripLineComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			inString = !inString
		case '-':
			if !inString && i+1 < len(line) && line[i+1] == '-' {
				return line[:i]
			}
		}
	}
	return line
}
