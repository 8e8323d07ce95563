package bridge

import (
	"context"
	"testing"

	"cypherline/cli/internal/agtype"
	"cypherline/cli/internal/cypher"
	"cypherline/cli/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB records issued SQL and replays canned rows or errors.
type fakeDB struct {
	sql  []string
	rows [][]*string
	err  error
}

func (f *fakeDB) Query(_ context.Context, sql string) ([][]*string, error) {
	f.sql = append(f.sql, sql)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeDB) Exec(_ context.Context, sql string) error {
	f.sql = append(f.sql, sql)
	return f.err
}

func str(s string) *string { return &s }

func TestExecuteBuildsWrappedCall(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single column",
			text: "MATCH (n) RETURN n",
			want: `SELECT * FROM cypher('demo', $$ MATCH (n) RETURN n $$) AS ("n" agtype);`,
		},
		{
			name: "aliased columns",
			text: "MATCH (n) RETURN n.name AS nm, count(*) AS c",
			want: `SELECT * FROM cypher('demo', $$ MATCH (n) RETURN n.name AS nm, count(*) AS c $$) AS ("nm" agtype, "c" agtype);`,
		},
		{
			name: "no return falls back to default column",
			text: "CREATE (n:X)",
			want: `SELECT * FROM cypher('demo', $$ CREATE (n:X) $$) AS (result agtype);`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{}
			e := NewWithDB(db, "demo")
			if _, err := e.Execute(context.Background(), cypher.Statement{Pos: 1, Text: tt.text}); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(db.sql) != 1 || db.sql[0] != tt.want {
				t.Errorf("issued SQL = %q, want %q", db.sql, tt.want)
			}
		})
	}
}

func TestExecuteQuotesGraphName(t *testing.T) {
	db := &fakeDB{}
	e := NewWithDB(db, "bob's graph")
	if _, err := e.Execute(context.Background(), cypher.Statement{Pos: 1, Text: "RETURN 1 AS one"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := `SELECT * FROM cypher('bob''s graph', $$ RETURN 1 AS one $$) AS ("one" agtype);`
	if db.sql[0] != want {
		t.Errorf("issued SQL = %q, want %q", db.sql[0], want)
	}
}

func TestExecuteDecodesRows(t *testing.T) {
	db := &fakeDB{rows: [][]*string{
		{str(`{"id": 1, "label": "Person", "properties": {"name": "Alice"}}::vertex`), str(`"Alice"`)},
		{str(`{"id": 2, "label": "Person", "properties": {"name": "Bob"}}::vertex`), nil},
	}}
	e := NewWithDB(db, "demo")
	rs, err := e.Execute(context.Background(), cypher.Statement{Pos: 1, Text: "MATCH (n) RETURN n, n.name AS name"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rs.Columns) != 2 || rs.Columns[0] != "n" || rs.Columns[1] != "name" {
		t.Fatalf("Columns = %v", rs.Columns)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rs.Rows))
	}
	if v := rs.Rows[0]["n"]; v.Kind != agtype.KindVertex || v.Vertex.ID != 1 {
		t.Errorf("Rows[0][n] = %+v", v)
	}
	if v := rs.Rows[0]["name"]; v.Kind != agtype.KindString || v.Str != "Alice" {
		t.Errorf("Rows[0][name] = %+v", v)
	}
	if v := rs.Rows[1]["name"]; v.Kind != agtype.KindNull {
		t.Errorf("Rows[1][name] = %+v, want null", v)
	}
}

func TestExecuteArityMismatch(t *testing.T) {
	db := &fakeDB{err: &pgconn.PgError{
		Code:    "42804",
		Message: "return row and column definition list do not match",
	}}
	e := NewWithDB(db, "demo")
	_, err := e.Execute(context.Background(), cypher.Statement{Pos: 1, Text: "MATCH (n) RETURN n"})
	if !errors.IsKind(err, errors.EngineArityMismatch) {
		t.Errorf("Execute() error = %v, want engine_arity_mismatch", err)
	}
	if len(db.sql) != 1 {
		t.Errorf("statement dispatched %d times, want 1 (no retry)", len(db.sql))
	}
}

func TestExecuteEngineFailure(t *testing.T) {
	db := &fakeDB{err: &pgconn.PgError{Code: "42601", Message: "syntax error"}}
	e := NewWithDB(db, "demo")
	_, err := e.Execute(context.Background(), cypher.Statement{Pos: 1, Text: "MATCH (n) RETURN n"})
	if !errors.IsKind(err, errors.EngineFailure) {
		t.Errorf("Execute() error = %v, want engine_failure", err)
	}
}

func TestExecuteMalformedValue(t *testing.T) {
	db := &fakeDB{rows: [][]*string{{str("{broken")}}}
	e := NewWithDB(db, "demo")
	_, err := e.Execute(context.Background(), cypher.Statement{Pos: 1, Text: "MATCH (n) RETURN n"})
	if !errors.IsKind(err, errors.ValueMalformed) {
		t.Errorf("Execute() error = %v, want value_malformed", err)
	}
}

func TestInitGraph(t *testing.T) {
	db := &fakeDB{}
	e := NewWithDB(db, "demo")
	if errs := e.InitGraph(context.Background()); errs != nil {
		t.Fatalf("InitGraph() errs = %v", errs)
	}
	if len(db.sql) != 4 {
		t.Fatalf("InitGraph issued %d statements, want 4", len(db.sql))
	}
	if db.sql[3] != "SELECT create_graph('demo');" {
		t.Errorf("create_graph statement = %q", db.sql[3])
	}
}
