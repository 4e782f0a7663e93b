package exportsql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-excel-response/export"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type captureExecutor struct {
	spec    QuerySpec
	calls   int
	records []export.Record
}

func (e *captureExecutor) Query(ctx context.Context, spec QuerySpec) ([]export.Record, error) {
	_ = ctx
	e.calls++
	e.spec = spec
	return e.records, nil
}

type testModel struct {
	bun.BaseModel `bun:"table:test_models,alias:tm"`

	ID     int64  `bun:",pk,autoincrement"`
	Text   string `bun:"text"`
	Number int64  `bun:"number"`
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*testModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	models := []testModel{
		{Text: "a", Number: 1},
		{Text: "b", Number: 2},
		{Text: "c", Number: 3},
	}
	if _, err := db.NewInsert().Model(&models).Exec(ctx); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return db
}

func TestSource_ValidatesArgs(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Definition{
		Name:  "models",
		Query: "select * from test_models where number > ?",
		Validate: func(args []any) error {
			if len(args) != 1 {
				return errors.New("one argument required")
			}
			return nil
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	exec := &captureExecutor{}
	source := NewSource(reg, exec, "models")

	if _, err := source.Records(context.Background()); export.KindFromError(err) != export.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatalf("expected executor not to be called")
	}

	if _, err := source.Records(context.Background(), 1); err != nil {
		t.Fatalf("records: %v", err)
	}
	if exec.calls != 1 || exec.spec.Name != "models" || len(exec.spec.Args) != 1 {
		t.Fatalf("unexpected executor call %+v", exec.spec)
	}
}

func TestBoundQuery_ArgumentErrorsStayValidation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Definition{
		Name:  "models",
		Query: "select * from test_models where number > ?",
		Validate: func(args []any) error {
			return errors.New("one argument required")
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	bound := NewSource(reg, &captureExecutor{}, "models").Bind(context.Background())
	_, err := export.NewSerializer().Serialize(bound, export.Options{})
	if export.KindFromError(err) != export.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSource_UnknownQuery(t *testing.T) {
	source := NewSource(NewRegistry(), &captureExecutor{}, "missing")
	if _, err := source.Records(context.Background()); err == nil {
		t.Fatalf("expected error for unregistered query")
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	def := Definition{Name: "models", Query: "select 1"}
	if err := reg.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(def); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := reg.Register(Definition{Name: " models ", Query: "select 2"}); err == nil {
		t.Fatalf("expected duplicate error for padded name")
	}
	if err := reg.Register(Definition{Name: "empty"}); err == nil {
		t.Fatalf("expected missing query error")
	}
	if err := reg.Register(Definition{Name: "another", Query: "select 3"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if names := reg.Names(); len(names) != 2 || names[0] != "another" || names[1] != "models" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestBoundQuery_IsLazy(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(Definition{Name: "models", Query: "select 1"})
	exec := &captureExecutor{records: []export.Record{{{Key: "a", Value: 1}}}}

	bound := NewSource(reg, exec, "models").Bind(context.Background())
	if exec.calls != 0 {
		t.Fatalf("expected no query before values are requested")
	}
	values, err := bound.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if exec.calls != 1 || len(values) != 1 {
		t.Fatalf("expected one query and one value, got %d calls %v", exec.calls, values)
	}
}

func TestBunExecutor_OrderedRecords(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry()
	_ = reg.Register(Definition{Name: "models", Query: `SELECT "text", "number" FROM test_models WHERE "number" >= ? ORDER BY "number"`})

	records, err := NewSource(reg, NewBunExecutor(db), "models").Records(context.Background(), 2)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	keys := records[0].Keys()
	if len(keys) != 2 || keys[0] != "text" || keys[1] != "number" {
		t.Fatalf("expected select order, got %v", keys)
	}
	if value, _ := records[0].Get("text"); value != "b" {
		t.Fatalf("expected text b, got %#v", value)
	}
}

func TestSelectSource_DegradesToCSVOverRowLimit(t *testing.T) {
	db := newTestDB(t)
	query := db.NewSelect().
		Model((*testModel)(nil)).
		Column("text", "number").
		Order("number ASC")

	serializer := export.NewSerializer()
	serializer.Limits = export.Limits{MaxRows: 2}

	payload, err := serializer.Serialize(SelectSource(context.Background(), query), export.Options{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payload.Format != export.FormatCSV {
		t.Fatalf("expected csv fallback, got %q", payload.Format)
	}
	want := "text,number\r\na,1\r\nb,2\r\nc,3\r\n"
	if string(payload.Data) != want {
		t.Fatalf("expected %q, got %q", want, payload.Data)
	}
}

func TestSelectSource_XLSXWithinLimits(t *testing.T) {
	db := newTestDB(t)
	query := db.NewSelect().
		Model((*testModel)(nil)).
		Column("text", "number").
		Order("number ASC")

	payload, err := export.NewSerializer().Serialize(SelectSource(context.Background(), query), export.Options{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payload.Format != export.FormatXLSX || payload.Rows != 3 {
		t.Fatalf("expected xlsx with 3 rows, got %q %d", payload.Format, payload.Rows)
	}
}
