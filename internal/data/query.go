package data

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// likeEscape is the LIKE escape character. Backslash would need different
// quoting in MySQL and SQLite, '!' needs none.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-folded LIKE pattern matching any value that
// contains q.
func containsPattern(q string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(q)) + "%"
}

// ilike matches column against pattern case-insensitively.
func ilike(column, pattern string) sq.Sqlizer {
	return sq.Expr("LOWER("+column+") LIKE ? ESCAPE '"+likeEscape+"'", pattern)
}

// columnsOf lists the db-tagged columns of struct v, skipping "id" and
// untagged or "-" fields.
func columnsOf(v any) []string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var cols []string
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" || tag == "id" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

// namedPlaceholders turns column names into ":column" bind names.
func namedPlaceholders(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = ":" + c
	}
	return out
}

// insertRecord inserts v into table using its db tags and returns the new id.
func insertRecord(ctx context.Context, db sqlx.ExtContext, table string, v any) (int64, error) {
	cols := columnsOf(v)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(namedPlaceholders(cols), ", "))
	res, err := sqlx.NamedExecContext(ctx, db, query, v)
	if err != nil {
		return 0, duplicate(err)
	}
	return res.LastInsertId()
}

// updateRecord writes every db-tagged column of v to the row with the given id.
func updateRecord(ctx context.Context, db sqlx.ExtContext, table string, id int64, v any) error {
	cols := columnsOf(v)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = :" + c
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %d", table, strings.Join(sets, ", "), id)
	res, err := sqlx.NamedExecContext(ctx, db, query, v)
	if err != nil {
		return duplicate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 for an unchanged row, so confirm it exists.
		var exists int
		row := db.QueryRowxContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id)
		if err := row.Scan(&exists); err != nil {
			return notFound(err)
		}
	}
	return nil
}

// selectAll runs a squirrel SELECT into dest.
func selectAll(ctx context.Context, db sqlx.QueryerContext, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return sqlx.SelectContext(ctx, db, dest, query, args...)
}

// selectOne runs a squirrel SELECT expecting one row; no row is ErrNotFound.
func selectOne(ctx context.Context, db sqlx.QueryerContext, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return notFound(sqlx.GetContext(ctx, db, dest, query, args...))
}

// count runs a squirrel COUNT query.
func count(ctx context.Context, db sqlx.QueryerContext, b sq.SelectBuilder) (int, error) {
	var n int
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	if err := sqlx.GetContext(ctx, db, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// exec runs a squirrel UPDATE and returns the affected row count.
func exec(ctx context.Context, db sqlx.ExecerContext, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build statement: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// page applies LIMIT/OFFSET when limit is positive.
func page(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}

// withTx runs fn inside a transaction, rolling back on error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
