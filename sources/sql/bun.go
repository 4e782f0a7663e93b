package exportsql

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-excel-response/export"
	"github.com/uptrace/bun"
)

// BunExecutor runs raw queries through a Bun connection.
type BunExecutor struct {
	DB bun.IConn
}

// NewBunExecutor creates an executor backed by db.
func NewBunExecutor(db bun.IConn) *BunExecutor {
	return &BunExecutor{DB: db}
}

// Query executes spec.Query with spec.Args and scans every row.
func (e *BunExecutor) Query(ctx context.Context, spec QuerySpec) ([]export.Record, error) {
	if e == nil || e.DB == nil {
		return nil, export.NewError(export.KindNotImpl, "query database not configured", nil)
	}
	rows, err := e.DB.QueryContext(ctx, spec.Query, spec.Args...)
	if err != nil {
		return nil, export.NewError(export.KindInternal, "query "+spec.Name+" failed", err)
	}
	return scanRecords(rows)
}

// Select runs a Bun select query and returns its rows as records keyed by
// result column, in the order the query selects them.
func Select(ctx context.Context, query *bun.SelectQuery) ([]export.Record, error) {
	if query == nil {
		return nil, export.NewError(export.KindValidation, "select query is required", nil)
	}
	rows, err := query.Rows(ctx)
	if err != nil {
		return nil, export.NewError(export.KindInternal, "select failed", err)
	}
	return scanRecords(rows)
}

// SelectSource defers a Bun select query until the serializer asks for values.
func SelectSource(ctx context.Context, query *bun.SelectQuery) export.RecordSource {
	return selectSource{ctx: ctx, query: query}
}

type selectSource struct {
	ctx   context.Context
	query *bun.SelectQuery
}

func (s selectSource) Values() ([]any, error) {
	records, err := Select(s.ctx, s.query)
	if err != nil {
		return nil, err
	}
	return recordValues(records), nil
}

func scanRecords(rows *sql.Rows) ([]export.Record, error) {
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []export.Record
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, export.NewError(export.KindInternal, "scan row", err)
		}

		record := make(export.Record, len(columns))
		for i, column := range columns {
			value := values[i]
			if raw, ok := value.([]byte); ok {
				value = string(raw)
			}
			record[i] = export.Field{Key: column, Value: value}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, export.NewError(export.KindInternal, "read rows", err)
	}
	return records, nil
}
