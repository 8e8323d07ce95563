package bridge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// poolDB adapts a pgxpool.Pool to the DB interface, forcing every result
// field into its textual form.
type poolDB struct {
	pool *pgxpool.Pool
}

func (p poolDB) Query(ctx context.Context, sql string) ([][]*string, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]*string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		fields := make([]*string, len(vals))
		for i, v := range vals {
			fields[i] = textValue(v)
		}
		out = append(out, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p poolDB) Exec(ctx context.Context, sql string) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	_, err = conn.Exec(ctx, sql)
	return err
}

// textValue renders one pgx field value as text. agtype has no registered
// codec, so pgx already hands it over as a string; remaining cases cover
// NULLs and the occasional plain Postgres type.
func textValue(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	case []byte:
		s := string(t)
		return &s
	default:
		s := fmt.Sprint(t)
		return &s
	}
}
