package bridge

import (
	"context"
	"fmt"
)

// InitGraph prepares the session for AGE: load the extension, put ag_catalog
// on the search path, and make sure the target graph exists. Each statement
// is best-effort, since the extension may already be loaded and the graph may
// already exist, so failures are collected rather than fatal. The caller
// decides whether to show them (verbose mode).
func (e *Executor) InitGraph(ctx context.Context) []error {
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS age;",
		"LOAD 'age';",
		`SET search_path = ag_catalog, "$user", public;`,
		fmt.Sprintf("SELECT create_graph(%s);", quoteLiteral(e.graph)),
	}
	var errs []error
	for _, s := range stmts {
		if err := e.db.Exec(ctx, s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}
	return errs
}
