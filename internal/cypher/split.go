package cypher

import (
	"strings"
)

// Statement is one self-contained Cypher statement extracted from possibly
// multi-statement user input.
type Statement struct {
	// Pos is the statement's 1-indexed position within the submitted input.
	Pos int
	// Text is the trimmed statement text without a trailing semicolon.
	Text string
}

// Split divides raw input into individual statements at top-level semicolons.
// A semicolon inside a string literal, a comment, or any (), [], {} nesting is
// not a separator. Candidates are trimmed and empty ones (such as the slot
// after a trailing semicolon) are dropped, so a single statement with no
// top-level semicolon yields exactly one Statement.
//
// Input with unbalanced quotes or brackets is rejected with a
// split_unbalanced error rather than split on a best-effort basis, because a
// wrong split point would execute half a statement.
func Split(input string) ([]Statement, error) {
	parts, err := splitTopLevel(input, ';')
	if err != nil {
		return nil, err
	}
	var stmts []Statement
	for _, p := range parts {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		stmts = append(stmts, Statement{Pos: len(stmts) + 1, Text: text})
	}
	return stmts, nil
}
