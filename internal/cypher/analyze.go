package cypher

import (
	"fmt"
	"regexp"
	"strings"

	"cypherline/cli/internal/errors"
)

// Column is one named output of a statement's RETURN clause, paired with the
// type it is declared as in the wrapping cypher() call.
type Column struct {
	Name string
	Type string
}

// AgType is the column type AGE returns for every Cypher expression.
const AgType = "agtype"

// Keywords that end the projection list of a RETURN clause.
var clauseTerminators = []string{"ORDER", "SKIP", "LIMIT", "UNION"}

var (
	reAlias     = regexp.MustCompile(`(?i)\s+AS\s+([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	reBareIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// InferColumns derives the output column list of a single statement from its
// RETURN clause. The wrapping cypher() SQL call declares its result shape
// statically, so the shape has to be read off the statement text.
//
// The last top-level RETURN keyword starts the clause; text inside strings,
// comments, or brackets is ignored, as is anything after a top-level ORDER,
// SKIP, LIMIT, or UNION. Items are split at top-level commas. An `AS alias`
// suffix names the item; a bare variable keeps its own name; any other
// expression gets a positional column_<k> name. Duplicate names are
// disambiguated by appending the item's ordinal.
//
// A statement without a RETURN clause (such as a bare CREATE) yields a nil
// column list. A clause whose item boundaries cannot be determined yields a
// return_unparseable error.
func InferColumns(query string) ([]Column, error) {
	clauseStart := -1
	err := scanTopLevel(query, func(i int, c byte) {
		if (c == 'r' || c == 'R') && hasKeywordAt(query, i, "RETURN") {
			clauseStart = i + len("RETURN")
		}
	})
	if err != nil {
		return nil, errors.Wrap(errors.ReturnUnparseable, "cannot analyze statement", err)
	}
	if clauseStart == -1 {
		return nil, nil
	}

	clause := query[clauseStart:]
	cut := len(clause)
	for _, kw := range clauseTerminators {
		if i := keywordIndex(clause, kw); i >= 0 && i < cut {
			cut = i
		}
	}

	items, err := splitTopLevel(clause[:cut], ',')
	if err != nil {
		return nil, errors.Wrap(errors.ReturnUnparseable, "cannot determine return items", err)
	}

	cols := make([]Column, 0, len(items))
	seen := make(map[string]bool, len(items))
	for k, item := range items {
		item = strings.TrimSpace(item)
		if k == 0 {
			item = strings.TrimSpace(trimLeadingKeyword(item, "DISTINCT"))
		}
		if item == "" {
			return nil, errors.New(errors.ReturnUnparseable,
				fmt.Sprintf("empty return item at position %d", k+1))
		}
		name := columnName(item, k+1)
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, k+1)
		}
		seen[name] = true
		cols = append(cols, Column{Name: name, Type: AgType})
	}
	return cols, nil
}

// columnName derives a column name from a single return item.
func columnName(item string, pos int) string {
	if m := reAlias.FindStringSubmatch(item); m != nil {
		return m[1]
	}
	if reBareIdent.MatchString(item) {
		return item
	}
	// Property accesses, function calls, and other expressions get a stable
	// positional name.
	return fmt.Sprintf("column_%d", pos)
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// hasKeywordAt reports whether the case-insensitive keyword kw occurs in s at
// offset i as a whole word.
func hasKeywordAt(s string, i int, kw string) bool {
	if i+len(kw) > len(s) {
		return false
	}
	if !strings.EqualFold(s[i:i+len(kw)], kw) {
		return false
	}
	if i > 0 && isIdentByte(s[i-1]) {
		return false
	}
	if i+len(kw) < len(s) && isIdentByte(s[i+len(kw)]) {
		return false
	}
	return true
}

// keywordIndex returns the offset of the first top-level occurrence of kw in
// s, or -1. s is assumed balanced (already validated by the caller).
func keywordIndex(s, kw string) int {
	found := -1
	_ = scanTopLevel(s, func(i int, c byte) {
		if found == -1 && hasKeywordAt(s, i, kw) {
			found = i
		}
	})
	return found
}

// trimLeadingKeyword removes kw from the front of s when present as a word.
func trimLeadingKeyword(s, kw string) string {
	if hasKeywordAt(s, 0, kw) {
		return s[len(kw):]
	}
	return s
}
