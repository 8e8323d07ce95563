package cypher

import (
	"regexp"
	"strings"
)

// Models occasionally answer with the full SQL wrapper, or a bare cypher()
// call, instead of the pure Cypher the send_cypher tool asks for. These
// extract the inner statement so the slip still executes.
var (
	reSQLWrapper = regexp.MustCompile(`(?is)SELECT\s+\*\s+FROM\s+cypher\([^$]*\$\$\s*(.+?)\s*\$\$\)\s+AS\s*\([^)]+\);?`)
	reCypherFn   = regexp.MustCompile(`(?is)cypher\([^$]*\$\$\s*(.+?)\s*\$\$\)\s*;?`)
)

// Sanitize extracts pure Cypher from query text that may carry a SQL wrapper,
// and strips trailing semicolons, which the cypher() function does not accept.
func Sanitize(query string) string {
	s := strings.TrimSpace(query)
	if m := reSQLWrapper.FindStringSubmatch(s); m != nil {
		return strings.TrimRight(strings.TrimSpace(m[1]), ";")
	}
	if m := reCypherFn.FindStringSubmatch(s); m != nil {
		return strings.TrimRight(strings.TrimSpace(m[1]), ";")
	}
	return strings.TrimRight(s, ";")
}
