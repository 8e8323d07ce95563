package session

import (
	"strings"

	"cypherline/cli/internal/bridge"
)

// FormatResult renders a result set as a tab-separated table: a header row of
// column names followed by one line per result row, in engine order. The same
// text is shown to the user and fed back to the model as tool output.
func FormatResult(rs *bridge.ResultSet) string {
	if rs == nil || len(rs.Rows) == 0 {
		return "(no results)"
	}
	lines := make([]string, 0, len(rs.Rows)+1)
	lines = append(lines, strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		fields := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			fields[i] = row[col].String()
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	return strings.Join(lines, "\n")
}
