package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// ErrNotFound is returned by the CRUD helpers when no row matches.
var ErrNotFound = errors.New("record not found")

// ========================================
// GENERIC CRUD HELPERS
// ========================================
// Thin parameterized-SQL wrapper used by repositories for single-row operations.
// T must be a struct whose `db` tags cover every column of the table, because
// every statement returns the full row (RETURNING *).
// Table and column names are always quoted; values are always bound parameters.

// FindByID returns the row of table whose id equals id.
func FindByID[T any](ctx context.Context, q DBTX, table string, id any) (*T, error) {
	return FindOneBy[T](ctx, q, table, "id", id)
}

// FindOneBy returns the single row where column = value.
func FindOneBy[T any](ctx context.Context, q DBTX, table, column string, value any) (*T, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1",
		pq.QuoteIdentifier(table), pq.QuoteIdentifier(column))

	rows, err := q.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", table, column, err)
	}

	return collectOne[T](rows, table)
}

// Create inserts data into table and returns the stored row.
func Create[T any](ctx context.Context, q DBTX, table string, data map[string]any) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("create %s: no columns given", table)
	}

	columns := sortedKeys(data)
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		quoted[i] = pq.QuoteIdentifier(col)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = data[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}

	return collectOne[T](rows, table)
}

// Update sets data on the row of table identified by id and returns the updated row.
// updated_at is not touched here; callers include it in data when the table has one.
func Update[T any](ctx context.Context, q DBTX, table string, id any, data map[string]any) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("update %s: no columns given", table)
	}

	columns := sortedKeys(data)
	sets := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1)
		args = append(args, data[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		pq.QuoteIdentifier(table),
		strings.Join(sets, ", "),
		len(args),
	)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}

	return collectOne[T](rows, table)
}

// Delete removes the row of table identified by id and returns it.
func Delete[T any](ctx context.Context, q DBTX, table string, id any) (*T, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING *", pq.QuoteIdentifier(table))

	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", table, err)
	}

	return collectOne[T](rows, table)
}

func collectOne[T any](rows pgx.Rows, table string) (*T, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return row, nil
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
