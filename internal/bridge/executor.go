// Package bridge executes Cypher statements against AGE through the
// polymorphic cypher() SQL function over a pgx connection pool.
//
// cypher() is variable-arity: the caller must declare the result shape in the
// AS clause, and the engine rejects calls whose declaration does not match
// what the statement returns. The executor derives that declaration from the
// statement text, dispatches the wrapped call, and decodes every returned
// agtype field into a typed value.
package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"cypherline/cli/internal/agtype"
	"cypherline/cli/internal/cypher"
	"cypherline/cli/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the narrow database surface the executor dispatches through. Query
// returns every field as text (nil for SQL NULL); agtype always arrives in
// its textual form. Satisfied by poolDB and by test fakes.
type DB interface {
	Query(ctx context.Context, sql string) ([][]*string, error)
	Exec(ctx context.Context, sql string) error
}

// Row maps column names to decoded values for one result row.
type Row map[string]agtype.Value

// ResultSet is the ordered outcome of one statement: column order from the
// declared shape, row order from the engine.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Executor wraps Cypher statements in fixed-arity cypher() calls and decodes
// the results. It is not safe for concurrent use; the session serializes
// calls.
type Executor struct {
	db    DB
	graph string
}

// New creates an Executor over a pgx connection pool.
func New(pool *pgxpool.Pool, graph string) *Executor {
	return &Executor{db: poolDB{pool: pool}, graph: graph}
}

// NewWithDB creates an Executor over a caller-supplied DB implementation.
func NewWithDB(db DB, graph string) *Executor {
	return &Executor{db: db, graph: graph}
}

// Graph returns the graph name this executor targets.
func (e *Executor) Graph() string { return e.graph }

// Execute runs one statement: infer the column list, build the wrapped call,
// dispatch it, and decode every field of every row. Engine-reported arity
// mismatches are surfaced as engine_arity_mismatch and never retried, because
// the statement may have side effects.
func (e *Executor) Execute(ctx context.Context, stmt cypher.Statement) (*ResultSet, error) {
	cols, err := cypher.InferColumns(stmt.Text)
	if err != nil {
		return nil, err
	}
	sql := e.buildSQL(stmt.Text, cols)

	raw, err := e.db.Query(ctx, sql)
	if err != nil {
		return nil, wrapEngineError(err)
	}

	names := columnNames(cols)
	rs := &ResultSet{Columns: names, Rows: make([]Row, 0, len(raw))}
	for _, fields := range raw {
		row := make(Row, len(names))
		for i, name := range names {
			if i >= len(fields) {
				break
			}
			if fields[i] == nil {
				row[name] = agtype.Value{Kind: agtype.KindNull}
				continue
			}
			v, err := agtype.Decode(*fields[i])
			if err != nil {
				return nil, err
			}
			row[name] = v
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}

// buildSQL renders the fixed-arity wrapping call for one statement.
func (e *Executor) buildSQL(text string, cols []cypher.Column) string {
	return fmt.Sprintf("SELECT * FROM cypher(%s, $$ %s $$) AS %s;",
		quoteLiteral(e.graph), text, renderColumns(cols))
}

// renderColumns renders the AS clause of the cypher() call. A statement with
// no RETURN clause still needs a declared shape, so the single-column default
// is used; such statements produce no rows.
func renderColumns(cols []cypher.Column) string {
	if len(cols) == 0 {
		return "(result agtype)"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c.Name))
		b.WriteByte(' ')
		b.WriteString(c.Type)
	}
	b.WriteByte(')')
	return b.String()
}

func columnNames(cols []cypher.Column) []string {
	if len(cols) == 0 {
		return []string{"result"}
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// quoteLiteral renders a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdent renders a double-quoted SQL identifier, preserving the case of
// inferred column names.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Postgres reports a declaration/result shape disagreement as a datatype
// mismatch (42804) with this message.
const arityMismatchMessage = "return row and column definition list do not match"

// wrapEngineError classifies an engine failure. An arity mismatch means the
// inferred column list disagreed with what the statement actually returns.
func wrapEngineError(err error) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		if pgErr.Code == "42804" || strings.Contains(pgErr.Message, arityMismatchMessage) {
			return errors.Wrap(errors.EngineArityMismatch,
				"declared columns do not match the statement's return items", err)
		}
		return errors.Wrap(errors.EngineFailure, pgErr.Message, err)
	}
	return errors.Wrap(errors.EngineFailure, "query failed", err)
}
