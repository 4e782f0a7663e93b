package exportsql

import (
	"context"
	"fmt"

	"github.com/goliatone/go-excel-response/export"
)

// QuerySpec describes a named query execution.
type QuerySpec struct {
	Name  string
	Query string
	Args  []any
}

// Executor runs a query and returns its rows as ordered records.
type Executor interface {
	Query(ctx context.Context, spec QuerySpec) ([]export.Record, error)
}

// Source executes a named query with validated arguments.
type Source struct {
	Registry  *Registry
	Executor  Executor
	QueryName string
}

// NewSource creates a named query source.
func NewSource(reg *Registry, exec Executor, name string) *Source {
	return &Source{Registry: reg, Executor: exec, QueryName: name}
}

// Records validates args and executes the named query.
func (s *Source) Records(ctx context.Context, args ...any) ([]export.Record, error) {
	if s == nil || s.Registry == nil {
		return nil, export.NewError(export.KindValidation, "query registry is required", nil)
	}
	if s.Executor == nil {
		return nil, export.NewError(export.KindValidation, "query executor is required", nil)
	}
	if s.QueryName == "" {
		return nil, export.NewError(export.KindValidation, "query name is required", nil)
	}

	def, ok := s.Registry.Resolve(s.QueryName)
	if !ok {
		return nil, export.NewError(export.KindValidation, fmt.Sprintf("query %q not registered", s.QueryName), nil)
	}
	if def.Validate != nil {
		if err := def.Validate(args); err != nil {
			return nil, export.NewError(export.KindValidation, fmt.Sprintf("query %q arguments", def.Name), err)
		}
	}

	return s.Executor.Query(ctx, QuerySpec{
		Name:  def.Name,
		Query: def.Query,
		Args:  args,
	})
}

// Bind returns a RecordSource that runs the query when its values are
// first requested. Nothing is executed until then.
func (s *Source) Bind(ctx context.Context, args ...any) *BoundQuery {
	return &BoundQuery{source: s, ctx: ctx, args: args}
}

// BoundQuery is a named query with its arguments and request context.
type BoundQuery struct {
	source *Source
	ctx    context.Context
	args   []any
}

// Values executes the query and returns one record per result row.
func (q *BoundQuery) Values() ([]any, error) {
	ctx := q.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := q.source.Records(ctx, q.args...)
	if err != nil {
		return nil, err
	}
	return recordValues(records), nil
}

func recordValues(records []export.Record) []any {
	values := make([]any, len(records))
	for i, record := range records {
		values[i] = record
	}
	return values
}

var _ export.RecordSource = (*BoundQuery)(nil)
